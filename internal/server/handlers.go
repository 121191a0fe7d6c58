package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sells-group/bizval/internal/model"
	"github.com/sells-group/bizval/internal/resilience"
	"github.com/sells-group/bizval/internal/store"
	"github.com/sells-group/bizval/internal/valuation"
)

type healthResponse struct {
	Status   string            `json:"status"`
	Circuits map[string]string `json:"circuits,omitempty"`
}

// handleHealth always answers 200: an open circuit only degrades industry
// lookups to the curated table.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{Status: "ok"}
	for name, cb := range s.circuits {
		if resp.Circuits == nil {
			resp.Circuits = make(map[string]string, len(s.circuits))
		}
		state := cb.State()
		resp.Circuits[name] = state.String()
		if state != resilience.CircuitClosed {
			resp.Status = "degraded"
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateValuation(w http.ResponseWriter, r *http.Request) {
	var submission map[string]any
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&submission); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !valuation.ValidateMinimumInput(submission) {
		writeError(w, http.StatusBadRequest, "revenue or ebitda must be a positive number")
		return
	}

	result := s.engine.Calculate(r.Context(), submission)
	v := store.NewValuation(submission, result)
	if err := s.store.SaveValuation(r.Context(), v); err != nil {
		zap.L().Error("server: save valuation failed", zap.String("id", v.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to store valuation")
		return
	}

	w.Header().Set("Location", "/api/valuations/"+v.ID)
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) handleGetValuation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	v, err := s.store.GetValuation(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "valuation not found")
		return
	}
	if err != nil {
		zap.L().Error("server: get valuation failed", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load valuation")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleListValuations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.ValuationFilter{Industry: q.Get("industry")}

	var err error
	if filter.Limit, err = intParam(q.Get("limit"), 1000); err != nil {
		writeError(w, http.StatusBadRequest, "limit must be an integer between 0 and 1000")
		return
	}
	if filter.Offset, err = intParam(q.Get("offset"), -1); err != nil {
		writeError(w, http.StatusBadRequest, "offset must be a non-negative integer")
		return
	}

	vs, err := s.store.ListValuations(r.Context(), filter)
	if err != nil {
		zap.L().Error("server: list valuations failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list valuations")
		return
	}
	if vs == nil {
		vs = []model.Valuation{}
	}
	writeJSON(w, http.StatusOK, vs)
}

func (s *Server) handleGetIndustry(w http.ResponseWriter, r *http.Request) {
	profile := s.resolver.Resolve(r.Context(), chi.URLParam(r, "name"))
	writeJSON(w, http.StatusOK, profile)
}

// intParam parses a non-negative integer query value. An empty value is 0;
// upper < 0 means unbounded.
func intParam(raw string, upper int) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 0 || (upper >= 0 && n > upper) {
		return 0, strconv.ErrRange
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
