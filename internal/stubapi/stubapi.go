// Package stubapi is a development-only emulation of the recruitment
// backend: the access-code check and the multipart submission endpoint.
// It exists so the whole flow can be exercised locally, and so tests can run
// the engine against a real HTTP peer.
package stubapi

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	json "github.com/goccy/go-json"

	"github.com/hrinsight/onboardform/internal/recruitapi"
)

// maxSubmissionBytes bounds the parsed multipart submission.
const maxSubmissionBytes = 32 << 20

// Server emulates the recruitment backend for development and tests.
type Server struct {
	mu     sync.Mutex
	codes  map[string]bool
	router chi.Router

	// LastRecord keeps the most recent accepted submission for inspection.
	lastRecord *recruitapi.PreEmployeeRecord
	lastParts  []string
}

// New creates a stub accepting the given access codes.
func New(codes []string) *Server {
	s := &Server{codes: make(map[string]bool)}
	for _, c := range codes {
		s.codes[c] = true
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
	}))
	r.Get(recruitapi.CheckCodePath, s.handleCheckCode)
	r.Post(recruitapi.FillInformationPath, s.handleFillInformation)
	s.router = r
	return s
}

// Router exposes the HTTP handler, for mounting or for httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// ListenAndServe runs the stub on the given port.
func (s *Server) ListenAndServe(port string) error {
	slog.Info("Starting stub recruitment backend", "port", port)
	return http.ListenAndServe(":"+port, s.router)
}

// AddCode registers another valid access code.
func (s *Server) AddCode(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[code] = true
}

// InvalidateCode removes an access code, as the real backend does after a
// completed submission.
func (s *Server) InvalidateCode(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, code)
}

// LastSubmission returns the record and binary part names of the most recent
// accepted submission.
func (s *Server) LastSubmission() (*recruitapi.PreEmployeeRecord, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRecord, s.lastParts
}

func (s *Server) handleCheckCode(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	s.mu.Lock()
	ok := s.codes[code]
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"result": ok})
}

func (s *Server) handleFillInformation(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	s.mu.Lock()
	valid := s.codes[code]
	s.mu.Unlock()
	if !valid {
		writeJSON(w, http.StatusForbidden, map[string]any{"error": "invalid code"})
		return
	}

	if err := r.ParseMultipartForm(maxSubmissionBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "bad multipart body"})
		return
	}

	data := r.FormValue(recruitapi.PartData)
	if data == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "missing data part"})
		return
	}
	var rec recruitapi.PreEmployeeRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "bad data part"})
		return
	}

	required := []string{
		recruitapi.PartFront,
		recruitapi.PartBack,
		recruitapi.PartPortrait,
		recruitapi.PartSelfie,
	}
	var parts []string
	for _, name := range required {
		if _, ok := r.MultipartForm.File[name]; !ok {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "missing part " + name})
			return
		}
		parts = append(parts, name)
	}
	if _, ok := r.MultipartForm.File[recruitapi.PartDegree]; ok {
		parts = append(parts, recruitapi.PartDegree)
	}

	s.mu.Lock()
	s.lastRecord = &rec
	s.lastParts = parts
	s.mu.Unlock()

	slog.Info("Stub accepted submission", "email", rec.Email, "parts", len(parts))
	writeJSON(w, http.StatusOK, map[string]any{
		"result": map[string]any{"preEmployeesId": rec.PreEmployeesID},
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
