package web

import (
	"time"

	"github.com/joelkehle/trek-itinerary/internal/config"
	"github.com/joelkehle/trek-itinerary/internal/itinerary"
)

// Config is the environment configuration of the web front end.
type Config struct {
	Addr             string        `env:"TREK_WEB_ADDR" envDefault:":8090"`
	ItineraryURL     string        `env:"TREK_ITINERARY_URL" envDefault:"http://localhost:8091/v1/itinerary"`
	ItineraryTimeout time.Duration `env:"TREK_ITINERARY_TIMEOUT" envDefault:"30s"`
	CatalogPath      string        `env:"TREK_CATALOG_PATH"`
	ViewTTL          time.Duration `env:"TREK_VIEW_TTL" envDefault:"12h"`
	MaxViews         int           `env:"TREK_MAX_VIEWS" envDefault:"10000"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.ItineraryTimeout <= 0 {
		cfg.ItineraryTimeout = itinerary.DefaultTimeout
	}
	return cfg, nil
}
