// Package server exposes a processed pedigree run as a read-only HTTP API.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	charmlog "github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/pedkit/pedkit/pkg/kinship"
	"github.com/pedkit/pedkit/pkg/pedio"
)

// Server serves one processed run.
type Server struct {
	model   *pedio.Model
	summary *pedio.Summary
	matrix  *kinship.Matrix
	logger  *charmlog.Logger
}

// New creates a server for a processed run. matrix may be nil when kinship
// was skipped; the kinship endpoints then report 404.
func New(model *pedio.Model, summary *pedio.Summary, matrix *kinship.Matrix, logger *charmlog.Logger) *Server {
	if logger == nil {
		logger = charmlog.New(nil)
	}
	return &Server{model: model, summary: summary, matrix: matrix, logger: logger}
}

// Handler returns the HTTP route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(api chi.Router) {
		api.Get("/summary", s.handleSummary)
		api.Get("/model", s.handleModel)
		api.Get("/pedigrees", s.handlePedigrees)
		api.Get("/pedigrees/{ped}", s.handlePedigree)
		api.Get("/kinship/{i}/{j}", s.handleKinship)
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.summary)
}

func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.model)
}

// pedigreeView is one pedigree with its members, as served by the API.
type pedigreeView struct {
	Number      int                   `json:"number"`
	Summary     pedio.PedigreeSummary `json:"summary"`
	Individuals []pedio.Individual    `json:"individuals"`
}

func (s *Server) handlePedigrees(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.summary.Pedigrees)
}

func (s *Server) handlePedigree(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "ped"))
	if err != nil || n < 1 || n > len(s.summary.Pedigrees) {
		writeError(w, http.StatusNotFound, "pedigree not found")
		return
	}
	view := pedigreeView{Number: n, Summary: s.summary.Pedigrees[n-1]}
	for _, in := range s.model.Individuals {
		if in.Ped == n {
			view.Individuals = append(view.Individuals, in)
		}
	}
	writeJSON(w, http.StatusOK, view)
}

// kinshipView is one pairwise kinship result, sequence numbers 1-based.
type kinshipView struct {
	I      int     `json:"i"`
	J      int     `json:"j"`
	Phi2   float64 `json:"phi2"`
	Delta7 float64 `json:"delta7"`
}

func (s *Server) handleKinship(w http.ResponseWriter, r *http.Request) {
	if s.matrix == nil {
		writeError(w, http.StatusNotFound, "kinship not computed for this run")
		return
	}
	i, erri := strconv.Atoi(chi.URLParam(r, "i"))
	j, errj := strconv.Atoi(chi.URLParam(r, "j"))
	if erri != nil || errj != nil || i < 1 || j < 1 || i > s.matrix.N || j > s.matrix.N {
		writeError(w, http.StatusNotFound, "sequence number out of range")
		return
	}
	writeJSON(w, http.StatusOK, kinshipView{
		I:      i,
		J:      j,
		Phi2:   s.matrix.Phi2(i-1, j-1),
		Delta7: s.matrix.Delta7(i-1, j-1),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
