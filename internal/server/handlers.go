package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pig-logistics/internal/classify"
	"pig-logistics/internal/domain"
	"pig-logistics/internal/metrics"
	"pig-logistics/internal/scene"
	"pig-logistics/internal/session"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SessionResponse is the body of GET /api/session.
type SessionResponse struct {
	ID          string `json:"id"`
	SelectedDay int    `json:"selected_day"`
	MaxDay      int    `json:"max_day"`
	Ready       bool   `json:"ready"`
	Farms       int    `json:"farms"`
	Facility    string `json:"facility"`
}

// SelectDayRequest is the body of PUT /api/session/day.
type SelectDayRequest struct {
	Day *int `json:"day"`
}

// DayMetricsResponse is the body of GET /api/days/{day}/metrics.
type DayMetricsResponse struct {
	Metrics  domain.DailyMetrics       `json:"metrics"`
	Facility metrics.FacilityLoad      `json:"facility"`
	ByType   metrics.CapacityBreakdown `json:"by_type"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeSessionError maps session sentinel errors to status codes.
func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrDayOutOfRange):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrNotReady):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"ready":  s.session.Ready(),
	})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SessionResponse{
		ID:          s.session.ID().String(),
		SelectedDay: s.session.SelectedDay(),
		MaxDay:      s.session.MaxDay(),
		Ready:       s.session.Ready(),
		Farms:       len(s.session.Snapshot()),
		Facility:    s.session.Params().Origin.Name,
	})
}

// handleSelectDay changes the selection and returns the new scene.
// The selection is left untouched before the session is ready.
func (s *Server) handleSelectDay(w http.ResponseWriter, r *http.Request) {
	var req SelectDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.Day == nil {
		writeError(w, http.StatusBadRequest, "missing field: day")
		return
	}
	if err := s.session.ValidateDay(*req.Day); err != nil {
		writeSessionError(w, err)
		return
	}
	if !s.session.Ready() {
		writeSessionError(w, session.ErrNotReady)
		return
	}

	sc, err := s.session.SelectDay(*req.Day)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	s.session.MarkReady()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLegend(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, classify.FarmLegend())
}

func (s *Server) handleDayMetrics(w http.ResponseWriter, r *http.Request) {
	day, ok := parseDay(w, r)
	if !ok {
		return
	}
	m, err := s.session.Metrics(day)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	p := s.session.Params()
	dayTrips := metrics.DayTrips(s.session.Dataset().Activity, day)
	writeJSON(w, http.StatusOK, DayMetricsResponse{
		Metrics:  m,
		Facility: metrics.ComputeFacilityLoad(m, p.Origin, p.CarcassYield),
		ByType:   metrics.UtilizationByTruckType(dayTrips, p.TruckCapacities, p.TruckCapacityKg),
	})
}

func (s *Server) handleDayScene(w http.ResponseWriter, r *http.Request) {
	day, ok := parseDay(w, r)
	if !ok {
		return
	}
	sc, err := s.session.SceneFor(day)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

func (s *Server) handleDayGeoJSON(w http.ResponseWriter, r *http.Request) {
	day, ok := parseDay(w, r)
	if !ok {
		return
	}
	sc, err := s.session.SceneFor(day)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(scene.ToGeoJSON(sc))
}

// handleWS pushes the current scene on connect (once ready) and every later recompute.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	s.hub.Serve(w, r, func() *SceneMessage {
		sc, err := s.session.Scene()
		if err != nil {
			return nil
		}
		return &SceneMessage{Type: "scene", Trigger: "connect", Scene: sc}
	})
}

func parseDay(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "day")
	day, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid day %q", raw))
		return 0, false
	}
	return day, true
}
