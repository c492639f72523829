package itinerarysvc

import "github.com/joelkehle/trek-itinerary/internal/config"

// Config is the environment configuration of the itinerary service.
type Config struct {
	Addr        string `env:"ITINERARY_SERVICE_ADDR" envDefault:":8091"`
	CatalogPath string `env:"TREK_CATALOG_PATH" envDefault:"treks.json"`
	APIKey      string `env:"ANTHROPIC_API_KEY"`
	Model       string `env:"ITINERARY_LLM_MODEL" envDefault:"claude-sonnet-4-20250514"`
	NoLLM       bool   `env:"ITINERARY_NO_LLM"`
	MaxTreks    int    `env:"ITINERARY_MAX_TREKS" envDefault:"20"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.MaxTreks <= 0 {
		cfg.MaxTreks = DefaultMaxTreks
	}
	return cfg, nil
}
