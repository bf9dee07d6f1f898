package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/chainlens/chainlens/pkg/buildinfo"
	"github.com/chainlens/chainlens/pkg/errors"
	"github.com/chainlens/chainlens/pkg/exploration"
	"github.com/chainlens/chainlens/pkg/graph"
	"github.com/chainlens/chainlens/pkg/layout"
	"github.com/chainlens/chainlens/pkg/pipeline"
	"github.com/chainlens/chainlens/pkg/render"
)

// ----- Request and response bodies -----

type layoutRequest struct {
	Graph    graph.Graph      `json:"graph"`
	Viewport layout.Viewport  `json:"viewport"`
	Previous layout.Positions `json:"previous,omitempty"`
	Seed     uint64           `json:"seed,omitempty"`
}

type createRequest struct {
	Name     string          `json:"name"`
	Graph    graph.Graph     `json:"graph"`
	Viewport layout.Viewport `json:"viewport"`
	Seed     uint64          `json:"seed,omitempty"`
}

type exploreRequest struct {
	Graph    *graph.Graph    `json:"graph,omitempty"`
	Viewport layout.Viewport `json:"viewport"`
	Seed     uint64          `json:"seed,omitempty"`
}

type dragRequest struct {
	Node string   `json:"node"`
	X    *float64 `json:"x"`
	Y    *float64 `json:"y"`
}

type explorationResponse struct {
	Exploration *exploration.Exploration `json:"exploration"`
	Layout      *graph.Layout            `json:"layout,omitempty"`
}

type explorationSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Nodes     int       `json:"nodes"`
	Edges     int       `json:"edges"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type healthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// ----- Health -----

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Info: buildinfo.Get()})
}

// ----- Layout -----

func (s *Server) layout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if !s.decode(w, r, &req) {
		return
	}
	opts := pipeline.Options{Width: req.Viewport.Width, Height: req.Viewport.Height, Seed: req.Seed}
	l, err := s.runner.ComputeLayout(r.Context(), req.Graph, req.Previous, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// ----- Explorations -----

func (s *Server) listExplorations(w http.ResponseWriter, r *http.Request) {
	list, err := s.runner.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]explorationSummary, len(list))
	for i, e := range list {
		out[i] = explorationSummary{
			ID:        e.ID,
			Name:      e.Name,
			Nodes:     len(e.Graph.Nodes),
			Edges:     len(e.Graph.Edges),
			CreatedAt: e.CreatedAt,
			UpdatedAt: e.UpdatedAt,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createExploration(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !s.decode(w, r, &req) {
		return
	}
	opts := pipeline.Options{Width: req.Viewport.Width, Height: req.Viewport.Height, Seed: req.Seed}
	l, exp, err := s.runner.Create(r.Context(), req.Name, req.Graph, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/explorations/"+exp.ID)
	writeJSON(w, http.StatusCreated, explorationResponse{Exploration: exp, Layout: &l})
}

func (s *Server) getExploration(w http.ResponseWriter, r *http.Request) {
	exp, err := s.runner.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, explorationResponse{Exploration: exp})
}

func (s *Server) deleteExploration(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	defer s.locks.Lock(id)()

	if err := s.runner.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) exploreLayout(w http.ResponseWriter, r *http.Request) {
	var req exploreRequest
	if !s.decode(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	defer s.locks.Lock(id)()

	opts := pipeline.Options{Width: req.Viewport.Width, Height: req.Viewport.Height, Seed: req.Seed}
	l, exp, err := s.runner.Explore(r.Context(), id, req.Graph, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, explorationResponse{Exploration: exp, Layout: &l})
}

func (s *Server) drag(w http.ResponseWriter, r *http.Request) {
	var req dragRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Node == "" || req.X == nil || req.Y == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "node, x and y are required"))
		return
	}
	id := chi.URLParam(r, "id")
	defer s.locks.Lock(id)()

	exp, err := s.runner.Drag(r.Context(), id, req.Node, layout.Point{X: *req.X, Y: *req.Y})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, explorationResponse{Exploration: exp})
}

func (s *Server) renderSVG(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Formats:    []string{string(render.FormatSVG)},
		Style:      q.Get("style"),
		ShowLabels: q.Get("labels") != "" && q.Get("labels") != "false",
	}
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid seed %q", v))
			return
		}
		opts.Seed = seed
	}

	l, err := s.runner.Snapshot(r.Context(), chi.URLParam(r, "id"), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	artifacts, err := s.runner.Render(r.Context(), l, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[string(render.FormatSVG)])
}

// ----- Helpers -----

// decode reads a JSON body into v, writing a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		if err == io.EOF {
			err = errors.New(errors.ErrCodeInvalidInput, "request body is empty")
		} else {
			err = errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
		}
		s.writeError(w, r, err)
		return false
	}
	return true
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case errors.IsInvalid(err):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", RequestID(r.Context()),
			"error", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
