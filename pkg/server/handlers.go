package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/aljab017/ill-router/pkg/core/partitioner"
	"github.com/aljab017/ill-router/pkg/core/services"
)

// PlanRouteRequest is the body of POST /routes. Every field is optional.
type PlanRouteRequest struct {
	Group1Size int    `json:"group1Size,omitempty"`
	Seed       string `json:"seed,omitempty"`
	Date       string `json:"date,omitempty"`
}

// AddLocationRequest is the body of POST /routes/{routeID}/locations
type AddLocationRequest struct {
	Code       string `json:"code"`
	ReportCode int    `json:"reportCode"`
}

type errorResponse struct {
	Error string `json:"error"`
}

var errBadRequest = fmt.Errorf("%w: malformed request", partitioner.ErrInvalidArgument)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps invalid arguments to 400 and everything else to 500
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, partitioner.ErrInvalidArgument) {
		status = http.StatusBadRequest
	}

	s.logger.Warn("Request failed",
		zap.String("request_id", chiMiddleware.GetReqID(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err))

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := services.ListLocations(r.Context(), s.source, s.logger)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, locations)
}

func (s *Server) handlePlanRoute(w http.ResponseWriter, r *http.Request) {
	var req PlanRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	opts := services.RouteOptions{
		Group1Size: req.Group1Size,
		Seed:       req.Seed,
	}
	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			s.writeError(w, r, fmt.Errorf("%w: date must be YYYY-MM-DD", errBadRequest))
			return
		}
		opts.Date = date
	}

	session, err := services.NewRouteSession(r.Context(), s.source, s.cfg, s.logger, s.recorder, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.sessions.put(session)
	writeJSON(w, http.StatusCreated, session.Result())
}

func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (*services.RouteSession, bool) {
	id := chi.URLParam(r, "routeID")
	session, ok := s.sessions.get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("route %s not found", id)})
		return nil, false
	}
	return session, true
}

func (s *Server) handleGetRoute(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session.Result())
}

func (s *Server) handleReshuffle(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session.Reshuffle())
}

func (s *Server) handleAddLocation(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	var req AddLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	added, err := session.AddLocation(req.Code, req.ReportCode)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, added)
}
