// Package web is the HTTP control surface: it parses and defaults start
// requests into validated display configurations, drives the lifecycle
// controller, and streams a live preview over WebSocket. It renders nothing
// and sends nothing itself.
package web

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"ledscroller/internal/config"
	"ledscroller/internal/fonts"
	"ledscroller/internal/gradient"
	"ledscroller/internal/matrix"
	"ledscroller/internal/quote"
	"ledscroller/internal/scroller"
)

// Server wires the HTTP routes to the lifecycle controller.
type Server struct {
	cfg      *config.Config
	ctrl     *scroller.Controller
	fonts    *fonts.Index
	quotes   *quote.Generator
	upgrader websocket.Upgrader
}

// NewServer builds the control surface. All dependencies are required
// except quotes, which may be nil to disable the daily-quote endpoint.
func NewServer(cfg *config.Config, ctrl *scroller.Controller, idx *fonts.Index, quotes *quote.Generator) *Server {
	return &Server{
		cfg:    cfg,
		ctrl:   ctrl,
		fonts:  idx,
		quotes: quotes,
		upgrader: websocket.Upgrader{
			// The preview is same-host tooling; no cross-origin surface.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Router returns the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/fonts", s.handleFonts).Methods(http.MethodGet)
	r.HandleFunc("/gradients", s.handleGradients).Methods(http.MethodGet)
	r.HandleFunc("/start", s.handleStart).Methods(http.MethodPost)
	r.HandleFunc("/stop", s.handleStop).Methods(http.MethodPost)
	r.HandleFunc("/daily-quote-start", s.handleDailyQuote).Methods(http.MethodPost)
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/preview", s.handlePreview)
	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("web: writing response: %v", err)
	}
}

func writeOK(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func writeErr(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]any{"ok": false, "error": err.Error()})
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<!doctype html>
<title>ledscroller</title>
<h1>ledscroller</h1>
<p>%dx%d matrix sender. Endpoints: POST /start, POST /stop,
POST /daily-quote-start, GET /fonts, GET /gradients, GET /preview (websocket),
GET /healthz.</p>
<p>Running: %v. Fonts indexed: %d.</p>
`, matrix.Width, matrix.Height, s.ctrl.Running(), len(s.fonts.List()))
}

func (s *Server) handleFonts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"fonts": s.fonts.Scan()})
}

func (s *Server) handleGradients(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"gradients": gradient.Names()})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid JSON payload: %w", err))
		return
	}

	cfg, err := req.Resolve(s.cfg, s.fonts)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}

	log.Printf("web: start: text=%q mode=%s protocol=%s target=%s:%d",
		cfg.Text, cfg.DisplayMode, cfg.Protocol, cfg.IP, cfg.Port)
	if err := s.ctrl.Start(cfg); err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	writeOK(w)
}

func (s *Server) handleStop(w http.ResponseWriter, _ *http.Request) {
	s.ctrl.Stop()
	writeOK(w)
}

func (s *Server) handleDailyQuote(w http.ResponseWriter, r *http.Request) {
	if s.quotes == nil {
		writeErr(w, http.StatusNotFound, fmt.Errorf("daily quote is not configured"))
		return
	}

	req := StartRequest{Text: s.quotes.Today(r.Context())}
	cfg, err := req.Resolve(s.cfg, s.fonts)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}

	log.Printf("web: daily quote: %q", cfg.Text)
	if err := s.ctrl.Start(cfg); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "quote": cfg.Text})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "ok")
}
