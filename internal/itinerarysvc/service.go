package itinerarysvc

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/joelkehle/trek-itinerary/internal/catalog"
	"github.com/joelkehle/trek-itinerary/internal/itinerary"
)

var tracer = otel.Tracer("github.com/joelkehle/trek-itinerary/internal/itinerarysvc")

// Service generates itineraries grounded on the merged trek catalog. With a
// nil caller it answers with a catalog-only draft.
type Service struct {
	caller      LLMCaller
	catalogPath string
	maxTreks    int

	mu        sync.Mutex
	treks     []catalog.Trek
	loadedMod time.Time
}

func NewService(caller LLMCaller, catalogPath string, maxTreks int) *Service {
	if maxTreks <= 0 {
		maxTreks = DefaultMaxTreks
	}
	return &Service{caller: caller, catalogPath: strings.TrimSpace(catalogPath), maxTreks: maxTreks}
}

func (s *Service) Generate(ctx context.Context, req itinerary.Request) (string, error) {
	ctx, span := tracer.Start(ctx, "itinerary.generate")
	defer span.End()

	matches := MatchTreks(s.catalog(), req.Location, s.maxTreks)
	span.SetAttributes(attribute.Int("itinerary.catalog_matches", len(matches)))
	if s.caller == nil {
		return draftItinerary(req, matches), nil
	}

	out, err := s.caller.GenerateText(ctx, BuildPrompt(req, matches))
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("generate itinerary: %w", err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", errors.New("generate itinerary: empty response")
	}
	return out, nil
}

// catalog returns the merged catalog, reloading it when the file changes. A
// missing or unreadable catalog yields no treks.
func (s *Service) catalog() []catalog.Trek {
	if s.catalogPath == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(s.catalogPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("stat catalog %s: %v", s.catalogPath, err)
		}
		return s.treks
	}
	if s.treks != nil && info.ModTime().Equal(s.loadedMod) {
		return s.treks
	}
	treks, err := catalog.ReadCatalog(s.catalogPath)
	if err != nil {
		log.Printf("load catalog %s: %v", s.catalogPath, err)
		return s.treks
	}
	s.treks = treks
	s.loadedMod = info.ModTime()
	return s.treks
}
