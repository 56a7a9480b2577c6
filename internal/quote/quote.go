// Package quote produces the daily quote shown by the /daily-quote-start
// endpoint: one generated line per calendar day, cached on disk so restarts
// do not regenerate it, with built-in fallbacks when no API is reachable.
package quote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"ledscroller/internal/config"
)

const dateLayout = "20060102"

// fallbackQuotes are used when the API is disabled, unreachable or keyless.
var fallbackQuotes = []string{
	"Small steps today, big leaps tomorrow.",
	"Find joy in the journey, not just the destination.",
	"Together is our favorite place to be, especially when working.",
	"Make something today that your future self will thank you for.",
	"Progress, not perfection.",
}

// Generator fetches and caches the quote of the day.
type Generator struct {
	cfg    config.QuoteConfig
	client *http.Client
	now    func() time.Time
}

// NewGenerator creates a generator from the server configuration.
func NewGenerator(cfg config.QuoteConfig) *Generator {
	return &Generator{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		now:    time.Now,
	}
}

type cacheEntry struct {
	Date  string `json:"date"`
	Quote string `json:"quote"`
}

// Today returns the quote for the current date. The order is: disk cache,
// then the API, then a date-seeded fallback. It never fails; a quote always
// comes back.
func (g *Generator) Today(ctx context.Context) string {
	today := g.now().Format(dateLayout)

	if q := g.cached(today); q != "" {
		return q
	}

	q, err := g.generate(ctx)
	if err != nil {
		log.Printf("quote: falling back to built-in quote: %v", err)
		q = fallbackQuotes[dateIndex(today, len(fallbackQuotes))]
	}
	g.store(today, q)
	return q
}

// cached returns the stored quote if it is from today. A missing or corrupt
// cache file just means a fresh generation.
func (g *Generator) cached(today string) string {
	if g.cfg.CachePath == "" {
		return ""
	}
	b, err := os.ReadFile(g.cfg.CachePath)
	if err != nil {
		return ""
	}
	var entry cacheEntry
	if err := json.Unmarshal(b, &entry); err != nil {
		return ""
	}
	if entry.Date != today || entry.Quote == "" {
		return ""
	}
	return entry.Quote
}

func (g *Generator) store(today, quote string) {
	if g.cfg.CachePath == "" {
		return
	}
	b, _ := json.Marshal(cacheEntry{Date: today, Quote: quote})
	if err := os.WriteFile(g.cfg.CachePath, b, 0o644); err != nil {
		log.Printf("quote: writing cache: %v", err)
	}
}

// apiKey resolves the key from the environment, then the configured file.
func (g *Generator) apiKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	if g.cfg.KeyFile != "" {
		if b, err := os.ReadFile(g.cfg.KeyFile); err == nil {
			return strings.TrimSpace(string(b))
		}
	}
	return ""
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// generate asks the chat-completions endpoint for a fresh quote.
func (g *Generator) generate(ctx context.Context) (string, error) {
	if g.cfg.APIURL == "" {
		return "", fmt.Errorf("quote: no API endpoint configured")
	}
	key := g.apiKey()
	if key == "" {
		return "", fmt.Errorf("quote: no API key available")
	}

	body, err := json.Marshal(chatRequest{
		Model:    g.cfg.Model,
		Messages: []chatMessage{{Role: "user", Content: g.cfg.Prompt}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+key)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("quote: API returned %s", resp.Status)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("quote: API returned no choices")
	}

	q := strings.TrimSpace(strings.Trim(parsed.Choices[0].Message.Content, `"`))
	if q == "" {
		return "", fmt.Errorf("quote: API returned an empty quote")
	}
	return q, nil
}

// dateIndex picks a stable fallback per day, so the matrix does not flip
// between quotes on every request.
func dateIndex(date string, n int) int {
	h := fnv.New32a()
	h.Write([]byte(date))
	return int(h.Sum32() % uint32(n))
}
