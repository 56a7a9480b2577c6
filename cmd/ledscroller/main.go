// ledscroller serves the control surface for a 64x16 RGB LED matrix: it
// renders text into frames and streams them to the matrix controller over
// UDP using the simple, WLED-DNRGB or DDP protocol.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ledscroller/internal/config"
	"ledscroller/internal/emoji"
	"ledscroller/internal/fonts"
	"ledscroller/internal/quote"
	"ledscroller/internal/scroller"
	"ledscroller/internal/web"
)

func main() {
	configPath := flag.String("config", "config.json", "path to config file")
	listen := flag.String("listen", "", "listen address (overrides config)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Printf("Failed to load config from %s: %v", *configPath, err)
		log.Printf("Using default configuration")
		cfg = config.DefaultConfig()
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	var comp *emoji.Compositor
	if cfg.EmojiDir != "" {
		comp, err = emoji.NewCompositor(cfg.EmojiDir)
		if err != nil {
			log.Printf("Emoji compositing unavailable, using plain glyphs: %v", err)
		}
	}

	idx := fonts.NewIndex(cfg.FontDirs)
	log.Printf("Indexed %d fonts", len(idx.Scan()))

	ctrl := scroller.New(comp)
	quotes := quote.NewGenerator(cfg.Quote)
	srv := web.NewServer(cfg, ctrl, idx, quotes)

	httpSrv := &http.Server{
		Addr:    cfg.Listen,
		Handler: srv.Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Listening on %s", cfg.Listen)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutting down")
	ctrl.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown: %v", err)
	}
}
