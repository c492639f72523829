package catalog

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const DefaultOutput = "treks.json"

var tracer = otel.Tracer("github.com/joelkehle/trek-itinerary/internal/catalog")

// Config holds configuration for a merge run.
type Config struct {
	Sources    []string
	Output     string
	Locale     string
	Manifest   string
	ReportPath string
}

// ParseConfig parses CLI flags and positional source paths into a Config.
// Sources listed in a manifest come before positional ones.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	fs.StringVar(&cfg.Output, "output", "", "combined catalog path (default "+DefaultOutput+")")
	fs.StringVar(&cfg.Locale, "locale", "", "collation locale for trek names (default "+DefaultLocale+")")
	fs.StringVar(&cfg.Manifest, "manifest", "", "YAML manifest listing source files")
	fs.StringVar(&cfg.ReportPath, "report", "", "optional merge report path (.html for HTML, markdown otherwise)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if strings.TrimSpace(cfg.Manifest) != "" {
		m, err := LoadManifest(cfg.Manifest)
		if err != nil {
			return Config{}, err
		}
		cfg.Sources = append(cfg.Sources, m.Sources...)
		if cfg.Output == "" {
			cfg.Output = m.Output
		}
		if cfg.Locale == "" {
			cfg.Locale = m.Locale
		}
	}
	cfg.Sources = append(cfg.Sources, fs.Args()...)

	if len(cfg.Sources) == 0 {
		return Config{}, errors.New("at least one source file is required")
	}
	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}
	if cfg.Locale == "" {
		cfg.Locale = DefaultLocale
	}
	return cfg, nil
}

// Run merges the configured sources, writes the combined catalog and prints
// the report to out. Only a failure to write the catalog (or an invalid
// config) is returned; unreadable sources are reported, not fatal.
func Run(ctx context.Context, cfg Config, out io.Writer) (Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if out == nil {
		out = io.Discard
	}
	tag, err := ParseLocale(cfg.Locale)
	if err != nil {
		return Report{}, err
	}
	output := strings.TrimSpace(cfg.Output)
	if output == "" {
		output = DefaultOutput
	}

	_, span := tracer.Start(ctx, "catalog.merge")
	defer span.End()

	treks, results := Merge(cfg.Sources)
	SortTreks(treks, tag)
	if err := WriteCatalog(output, treks); err != nil {
		span.RecordError(err)
		return Report{}, fmt.Errorf("write catalog: %w", err)
	}

	report := Report{
		Output:  output,
		Total:   len(treks),
		Facets:  ComputeFacets(treks),
		Sources: results,
	}
	span.SetAttributes(
		attribute.Int("catalog.sources", len(cfg.Sources)),
		attribute.Int("catalog.treks", report.Total),
	)

	if _, err := io.WriteString(out, report.Summary()); err != nil {
		return report, err
	}
	if cfg.ReportPath != "" {
		if err := writeReport(cfg.ReportPath, report); err != nil {
			return report, fmt.Errorf("write report: %w", err)
		}
	}
	return report, nil
}

func writeReport(path string, r Report) error {
	body := r.Markdown()
	if strings.EqualFold(filepath.Ext(path), ".html") {
		html, err := r.HTML()
		if err != nil {
			return err
		}
		body = html
	}
	return os.WriteFile(path, []byte(body), 0o644)
}
