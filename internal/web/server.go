package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/joelkehle/trek-itinerary/internal/catalog"
	"github.com/joelkehle/trek-itinerary/internal/itinerary"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type Server struct {
	gen         itinerary.Generator
	views       *ViewStore
	opts        itinerary.Options
	catalogPath string
	pdfRenderer ItineraryPDFRenderer
}

func NewServer(cfg Config, gen itinerary.Generator) http.Handler {
	return newServer(cfg, gen, NewChromiumPDFRenderer())
}

func newServer(cfg Config, gen itinerary.Generator, pdfRenderer ItineraryPDFRenderer) http.Handler {
	s := &Server{
		gen:         gen,
		views:       NewViewStore(cfg.ViewTTL, cfg.MaxViews),
		opts:        itinerary.Options{Timeout: cfg.ItineraryTimeout},
		catalogPath: strings.TrimSpace(cfg.CatalogPath),
		pdfRenderer: pdfRenderer,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/location", s.handleLocation)
	mux.HandleFunc("/itinerary", s.handleItinerary)
	mux.HandleFunc("/itinerary/output", s.handleOutput)
	mux.HandleFunc("/itinerary/pdf", s.handlePDF)
	mux.HandleFunc("/catalog.json", s.handleCatalog)
	mux.HandleFunc("/", s.handleIndex)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func writeFragment(w http.ResponseWriter, status int, fragment string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(fragment))
}

// failureFragment is the output region showing the fixed failure message.
func failureFragment() string {
	return itinerary.RenderOutcome(itinerary.Outcome{Failed: true, Text: itinerary.FailureMessage})
}

// sessionID returns the browser's session id, issuing a new one if the
// request carries none.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := newSessionID()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// view returns the session's loaded view. Requests arriving before any page
// load get a view built from the request's cookies.
func (s *Server) view(w http.ResponseWriter, r *http.Request) *View {
	id := sessionID(w, r)
	if v := s.views.Get(id); v != nil {
		return v
	}
	return s.views.Load(id, itinerary.NewCookieSession(r), s.gen, s.opts)
}

type pageData struct {
	Location       string
	FailureMessage string
	Output         template.HTML
	Regions        []string
	Countries      []string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	v := s.views.Load(sessionID(w, r), itinerary.NewCookieSession(r), s.gen, s.opts)

	facets := s.facets()
	data := pageData{
		Location:       v.Dispatcher.Location(),
		FailureMessage: itinerary.FailureMessage,
		Output:         template.HTML(v.Region.HTML()),
		Regions:        facets.Regions,
		Countries:      facets.Countries,
	}
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		log.Printf("render page: %v", err)
		http.Error(w, "page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

// facets lists destination suggestions from the merged catalog.
func (s *Server) facets() catalog.Facets {
	if s.catalogPath == "" {
		return catalog.Facets{}
	}
	treks, err := catalog.ReadCatalog(s.catalogPath)
	if err != nil {
		log.Printf("load catalog %s: %v", s.catalogPath, err)
		return catalog.Facets{}
	}
	return catalog.ComputeFacets(treks)
}

func (s *Server) handleLocation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	itinerary.SetCookieValue(w, itinerary.LocationKey, strings.TrimSpace(r.PostFormValue(itinerary.LocationKey)))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleItinerary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		log.Printf("parse itinerary form: %v", err)
		writeFragment(w, http.StatusBadRequest, failureFragment())
		return
	}
	v := s.view(w, r)
	v.Dispatcher.SubmitForm(r.Context(), r.PostForm)
	writeFragment(w, http.StatusOK, v.Region.HTML())
}

func (s *Server) handleOutput(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeFragment(w, http.StatusOK, s.view(w, r).Region.HTML())
}

func (s *Server) handlePDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	v := s.view(w, r)
	outcome, ok := v.Region.Current()
	if !ok {
		writeError(w, http.StatusNotFound, "no itinerary yet")
		return
	}
	pdf, err := s.pdfRenderer.Render(r.Context(), PDFDocument{
		Location:    v.Dispatcher.Location(),
		GeneratedAt: time.Now(),
		Outcome:     outcome,
	})
	if err != nil {
		log.Printf("render itinerary pdf: %v", err)
		writeError(w, http.StatusBadGateway, "pdf render failed")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="itinerary.pdf"`)
	_, _ = w.Write(pdf)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.catalogPath == "" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	http.ServeFile(w, r, s.catalogPath)
}
