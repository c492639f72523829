package telemetry

import (
	"context"
	"testing"
)

func TestSetupNoopWithoutEndpoint(t *testing.T) {
	t.Setenv("TREK_OTEL_ENDPOINT", "")
	t.Setenv("TREK_OTEL_ENABLED", "")

	shutdown, err := Setup(context.Background(), "trek-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("noop shutdown should not error: %v", err)
	}
}

func TestSetupNoopWhenDisabled(t *testing.T) {
	t.Setenv("TREK_OTEL_ENDPOINT", "http://localhost:4318")
	t.Setenv("TREK_OTEL_ENABLED", "false")

	shutdown, err := Setup(context.Background(), "trek-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetupCreatesProvider(t *testing.T) {
	// Non-routable address; nothing is exported before shutdown.
	t.Setenv("TREK_OTEL_ENDPOINT", "http://192.0.2.1:4318")
	t.Setenv("TREK_OTEL_ENABLED", "")

	shutdown, err := Setup(context.Background(), "trek-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetupRejectsInvalidEnabledFlag(t *testing.T) {
	t.Setenv("TREK_OTEL_ENDPOINT", "http://localhost:4318")
	t.Setenv("TREK_OTEL_ENABLED", "sometimes")

	shutdown, err := Setup(context.Background(), "trek-test")
	if err == nil {
		t.Fatal("expected error for invalid TREK_OTEL_ENABLED")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown should not error: %v", err)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("TREK_OTEL_ENDPOINT", " http://collector:4318 ")
	t.Setenv("TREK_OTEL_ENABLED", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !cfg.Enabled || cfg.Endpoint != "http://collector:4318" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}
