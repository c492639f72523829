package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joelkehle/trek-itinerary/internal/catalog"
	"github.com/joelkehle/trek-itinerary/internal/config"
	"github.com/joelkehle/trek-itinerary/internal/telemetry"
)

func main() {
	cfg, err := catalog.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("catalog-merge: %v", err)
	}

	ctx := context.Background()
	shutdown, err := telemetry.Setup(ctx, "catalog-merge")
	if err != nil {
		log.Printf("warning: telemetry disabled: %v", err)
	} else {
		defer func() { _ = shutdown(ctx) }()
	}

	if _, err := catalog.Run(ctx, cfg, os.Stdout); err != nil {
		if shutdown != nil {
			_ = shutdown(ctx)
		}
		config.Exitf("catalog-merge: %v", err)
	}
}
