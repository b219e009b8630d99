package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"GasSentinel/internal/collector"
	"GasSentinel/internal/model"
	"GasSentinel/internal/pipeline"
)

// DefaultMaxUpload caps POST /analyze bodies.
const DefaultMaxUpload = 32 << 20

// Server holds handler dependencies.
type Server struct {
	provider  ResultProvider
	runner    *pipeline.CachedRunner
	maxUpload int64
}

// AnalyzeResponse is returned by POST /analyze.
type AnalyzeResponse struct {
	Forecast *model.ForecastBundle `json:"forecast"`
	Plan     *model.ActionPlan     `json:"plan"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok"}
	if res := s.latest(); res != nil {
		resp["last_run"] = res.Bundle.GeneratedAt.Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) forecast(w http.ResponseWriter, r *http.Request) {
	res := s.latest()
	if res == nil {
		writeError(w, http.StatusServiceUnavailable, "no completed run yet")
		return
	}
	writeJSON(w, http.StatusOK, res.Bundle)
}

func (s *Server) plan(w http.ResponseWriter, r *http.Request) {
	res := s.latest()
	if res == nil {
		writeError(w, http.StatusServiceUnavailable, "no completed run yet")
		return
	}
	writeJSON(w, http.StatusOK, res.Plan)
}

func (s *Server) problems(w http.ResponseWriter, r *http.Request) {
	res := s.latest()
	if res == nil || res.Report == nil {
		writeError(w, http.StatusServiceUnavailable, "no completed run yet")
		return
	}
	writeJSON(w, http.StatusOK, res.Report)
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	if s.runner == nil {
		writeError(w, http.StatusServiceUnavailable, "analysis disabled")
		return
	}
	defer r.Body.Close()
	data, err := io.ReadAll(io.LimitReader(r.Body, s.maxUpload+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if int64(len(data)) > s.maxUpload {
		writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "upload"
	}
	res, err := s.runner.RunBytes(name, data)
	if err != nil {
		var fe *collector.DataFormatError
		if errors.As(err, &fe) {
			writeError(w, http.StatusUnprocessableEntity, fe.Error())
			return
		}
		log.Printf("[ERROR] analyze %s: %v", name, err)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}
	writeJSON(w, http.StatusOK, AnalyzeResponse{Forecast: res.Bundle, Plan: res.Plan})
}

func (s *Server) latest() *pipeline.Result {
	if s.provider == nil {
		return nil
	}
	return s.provider.Latest()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[WARN] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
