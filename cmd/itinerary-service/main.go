package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"

	"github.com/joelkehle/trek-itinerary/internal/config"
	"github.com/joelkehle/trek-itinerary/internal/itinerarysvc"
	"github.com/joelkehle/trek-itinerary/internal/telemetry"
)

func main() {
	cfg, err := itinerarysvc.LoadConfig()
	if err != nil {
		config.Exitf("itinerary-service: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	shutdown, err := telemetry.Setup(ctx, "itinerary-service")
	if err != nil {
		log.Printf("warning: telemetry disabled: %v", err)
	} else {
		defer func() { _ = shutdown(context.Background()) }()
	}

	var caller itinerarysvc.LLMCaller
	if cfg.NoLLM {
		log.Printf("llm disabled, answering with catalog drafts")
	} else {
		c, err := itinerarysvc.NewAnthropicCaller(cfg)
		if err != nil {
			log.Fatalf("configure llm: %v (set ITINERARY_NO_LLM=1 to run without one)", err)
		}
		caller = c
	}

	handler := itinerarysvc.NewServer(itinerarysvc.NewService(caller, cfg.CatalogPath, cfg.MaxTreks))

	log.Printf("itinerary-service listening on %s (catalog=%s)", cfg.Addr, cfg.CatalogPath)
	srv := &http.Server{Addr: cfg.Addr, Handler: handler}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
