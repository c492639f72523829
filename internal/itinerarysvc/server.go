package itinerarysvc

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/joelkehle/trek-itinerary/internal/itinerary"
)

const maxRequestBytes = 1 << 20

// Generator produces itinerary text for a request.
type Generator interface {
	Generate(ctx context.Context, req itinerary.Request) (string, error)
}

type Server struct {
	gen Generator
}

func NewServer(gen Generator) http.Handler {
	s := &Server{gen: gen}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/itinerary", s.handleItinerary)
	mux.HandleFunc("/v1/health", s.handleHealth)
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

func (s *Server) handleItinerary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req itinerary.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	reply, err := s.gen.Generate(r.Context(), req)
	if err != nil {
		log.Printf("itinerary for %q: %v", req.Location, err)
		writeError(w, http.StatusBadGateway, "itinerary generation failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reply": reply})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
