package itinerarysvc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/joelkehle/trek-itinerary/internal/catalog"
	"github.com/joelkehle/trek-itinerary/internal/itinerary"
)

type mockMessager struct {
	params   anthropic.MessageNewParams
	response *anthropic.Message
	err      error
}

func (m *mockMessager) New(_ context.Context, params anthropic.MessageNewParams, _ ...option.RequestOption) (*anthropic.Message, error) {
	m.params = params
	return m.response, m.err
}

func withMockClient(mock *mockMessager) func() {
	old := newAnthropicClient
	newAnthropicClient = func(_ string) AnthropicMessager { return mock }
	return func() { newAnthropicClient = old }
}

type fakeLLMCaller struct {
	prompt string
	reply  string
	err    error
}

func (f *fakeLLMCaller) GenerateText(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.reply, f.err
}

func (f *fakeLLMCaller) ModelName() string { return "test-model" }

func writeCatalog(t *testing.T, treks []catalog.Trek) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "treks.json")
	if err := catalog.WriteCatalog(path, treks); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

var sampleTreks = []catalog.Trek{
	{Name: "Annapurna Circuit", Region: "Annapurna", Country: "Nepal"},
	{Name: "Everest Base Camp", Region: "Khumbu", Country: "Nepal"},
	{Name: "Zion Traverse", Region: "Zion", Country: "USA"},
}

func TestAnthropicCallerJoinsTextBlocks(t *testing.T) {
	mock := &mockMessager{response: &anthropic.Message{Content: []anthropic.ContentBlockUnion{
		{Type: "text", Text: "Day 1: Besisahar\n"},
		{Type: "text", Text: "Day 2: Chame"},
	}}}
	defer withMockClient(mock)()

	caller, err := NewAnthropicCaller(Config{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewAnthropicCaller: %v", err)
	}
	if caller.ModelName() != DefaultLLMModel {
		t.Fatalf("expected default model, got %s", caller.ModelName())
	}
	got, err := caller.GenerateText(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if got != "Day 1: Besisahar\nDay 2: Chame" {
		t.Fatalf("unexpected text %q", got)
	}
	if string(mock.params.Model) != DefaultLLMModel {
		t.Fatalf("unexpected model param %q", mock.params.Model)
	}
}

func TestNewAnthropicCallerRequiresKey(t *testing.T) {
	if _, err := NewAnthropicCaller(Config{}); err == nil {
		t.Fatal("expected error without API key")
	}
	if _, err := NewAnthropicCaller(Config{APIKey: "k", NoLLM: true}); err == nil {
		t.Fatal("expected error when LLM disabled")
	}
}

func TestMatchTreksByCountryOrRegion(t *testing.T) {
	if got := MatchTreks(sampleTreks, "nepal", 10); len(got) != 2 {
		t.Fatalf("expected 2 Nepal treks, got %d", len(got))
	}
	if got := MatchTreks(sampleTreks, "Khumbu", 10); len(got) != 1 || got[0].Name != "Everest Base Camp" {
		t.Fatalf("unexpected region match: %+v", got)
	}
	if got := MatchTreks(sampleTreks, "Nepal", 1); len(got) != 1 {
		t.Fatalf("expected limit to apply, got %d", len(got))
	}
	if got := MatchTreks(sampleTreks, "", 10); len(got) != 0 {
		t.Fatalf("empty location must match nothing, got %d", len(got))
	}
}

func TestBuildPromptIncludesPreferencesAndCatalog(t *testing.T) {
	req := itinerary.BuildRequest("Nepal", itinerary.Filters{
		Accommodation: itinerary.String("lodge"),
		Difficulty:    itinerary.String("moderate"),
		Technical:     itinerary.String(""),
	}, "no red meat")
	prompt := BuildPrompt(req, MatchTreks(sampleTreks, "Nepal", 10))
	for _, want := range []string{
		"Destination: Nepal",
		"- accommodation: lodge",
		"- difficulty: moderate",
		"Traveller comments: no red meat",
		"- Annapurna Circuit (Annapurna, Nepal)",
		"- Everest Base Camp (Khumbu, Nepal)",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if strings.Contains(prompt, "technical level") || strings.Contains(prompt, "Zion") {
		t.Fatalf("prompt has unexpected content:\n%s", prompt)
	}
}

func TestServiceUsesCatalogMatches(t *testing.T) {
	caller := &fakeLLMCaller{reply: "  Day 1: Lukla\n"}
	svc := NewService(caller, writeCatalog(t, sampleTreks), 5)

	got, err := svc.Generate(context.Background(), itinerary.Request{Location: "Nepal"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "Day 1: Lukla" {
		t.Fatalf("expected trimmed reply, got %q", got)
	}
	if !strings.Contains(caller.prompt, "Everest Base Camp") {
		t.Fatalf("expected catalog treks in prompt:\n%s", caller.prompt)
	}
}

func TestServiceReloadsChangedCatalog(t *testing.T) {
	path := writeCatalog(t, sampleTreks[:1])
	svc := NewService(nil, path, 5)
	if n := len(svc.catalog()); n != 1 {
		t.Fatalf("expected 1 trek, got %d", n)
	}
	if err := catalog.WriteCatalog(path, sampleTreks); err != nil {
		t.Fatal(err)
	}
	info, _ := os.Stat(path)
	later := info.ModTime().Add(2 * time.Second)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	if n := len(svc.catalog()); n != 3 {
		t.Fatalf("expected reload to 3 treks, got %d", n)
	}
}

func TestServiceWithoutLLMDraftsFromCatalog(t *testing.T) {
	svc := NewService(nil, writeCatalog(t, sampleTreks), 5)
	got, err := svc.Generate(context.Background(), itinerary.Request{Location: "USA"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(got, "Day 1: Zion Traverse (Zion, USA)") {
		t.Fatalf("unexpected draft:\n%s", got)
	}

	got, _ = svc.Generate(context.Background(), itinerary.Request{Location: "Atlantis"})
	if !strings.Contains(got, "No catalogued treks match Atlantis") {
		t.Fatalf("unexpected draft for unknown location:\n%s", got)
	}
}

func TestServiceMissingCatalogStillAnswers(t *testing.T) {
	caller := &fakeLLMCaller{reply: "Day 1: rest"}
	svc := NewService(caller, filepath.Join(t.TempDir(), "missing.json"), 5)
	if _, err := svc.Generate(context.Background(), itinerary.Request{Location: "Nepal"}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(caller.prompt, "no catalogued treks") {
		t.Fatalf("expected empty-catalog note in prompt:\n%s", caller.prompt)
	}
}

func TestServiceLLMFailures(t *testing.T) {
	svc := NewService(&fakeLLMCaller{err: errors.New("status code: 529 overloaded")}, "", 5)
	if _, err := svc.Generate(context.Background(), itinerary.Request{}); err == nil {
		t.Fatal("expected error from failing caller")
	}
	svc = NewService(&fakeLLMCaller{reply: "   "}, "", 5)
	if _, err := svc.Generate(context.Background(), itinerary.Request{}); err == nil {
		t.Fatal("expected error for empty reply")
	}
}

func TestHandleItinerary(t *testing.T) {
	caller := &fakeLLMCaller{reply: "Day 1: Lukla"}
	handler := NewServer(NewService(caller, writeCatalog(t, sampleTreks), 5))

	body := `{"location":"Nepal","filters":{"altitude":"high"},"comments":"no red meat"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/itinerary", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["reply"] != "Day 1: Lukla" {
		t.Fatalf("unexpected reply %q", resp["reply"])
	}
	if !strings.Contains(caller.prompt, "- altitude: high") {
		t.Fatalf("filters not forwarded:\n%s", caller.prompt)
	}
}

func TestHandleItineraryErrors(t *testing.T) {
	handler := NewServer(NewService(&fakeLLMCaller{err: errors.New("boom")}, "", 5))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/itinerary", strings.NewReader("{not json")))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/itinerary", bytes.NewReader([]byte(`{"location":"Nepal"}`))))
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "boom") {
		t.Fatalf("error detail leaked to client: %s", rr.Body.String())
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/itinerary", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}

func TestServiceRoundTripThroughClient(t *testing.T) {
	srv := httptest.NewServer(NewServer(NewService(nil, writeCatalog(t, sampleTreks), 5)))
	defer srv.Close()

	region := itinerary.NewRegion()
	d := itinerary.NewDispatcher(itinerary.MapSession{itinerary.LocationKey: "Nepal"}, itinerary.NewClient(srv.URL+"/v1/itinerary"), region, itinerary.Options{})
	outcome := d.Submit(context.Background(), itinerary.Filters{}, "")
	if outcome.Failed {
		t.Fatalf("unexpected failure: %+v", outcome)
	}
	if !strings.Contains(outcome.Text, "Day 1: Annapurna Circuit") {
		t.Fatalf("unexpected reply:\n%s", outcome.Text)
	}
}
