package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learn-proxy/api/internal/app"
	"learn-proxy/api/internal/config"
	"learn-proxy/api/internal/handle"
	"learn-proxy/api/internal/httpserver"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer a.Close()

	// A nil *GenerationRepo must not become a non-nil interface.
	var stats handle.StatsSource
	if a.Stats != nil {
		stats = a.Stats
	}

	mux := http.NewServeMux()
	handle.New(a.Service, a.Worksheets, stats, cfg.RequestTimeout).Register(mux)

	srv := httpserver.New(mux, httpserver.Options{
		Addr:          ":" + cfg.Port,
		RatePerMinute: cfg.RateLimitRPM,
		WriteTimeout:  max(cfg.RequestTimeout, handle.MaxRequestTimeout) + 30*time.Second,
	})
	log.Printf("learn-proxy: default engine %s", a.Engines.Default)
	if err := httpserver.Run(ctx, srv); err != nil {
		log.Printf("server: %v", err)
	}
}
