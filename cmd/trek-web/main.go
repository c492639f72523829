package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/joelkehle/trek-itinerary/internal/config"
	"github.com/joelkehle/trek-itinerary/internal/itinerary"
	"github.com/joelkehle/trek-itinerary/internal/telemetry"
	"github.com/joelkehle/trek-itinerary/internal/web"
)

func main() {
	cfg, err := web.LoadConfig()
	if err != nil {
		config.Exitf("trek-web: %v", err)
	}
	if strings.TrimSpace(cfg.ItineraryURL) == "" {
		log.Fatal("TREK_ITINERARY_URL is required")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	shutdown, err := telemetry.Setup(ctx, "trek-web")
	if err != nil {
		log.Printf("warning: telemetry disabled: %v", err)
	} else {
		defer func() { _ = shutdown(context.Background()) }()
	}

	handler := web.NewServer(cfg, itinerary.NewClient(cfg.ItineraryURL))

	log.Printf("trek-web listening on %s (itinerary=%s)", cfg.Addr, cfg.ItineraryURL)
	srv := &http.Server{Addr: cfg.Addr, Handler: handler}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
