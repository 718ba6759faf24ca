// Package server exposes the engine over a small JSON HTTP API. It serves
// plain data only; map rendering and UI are external consumers.
package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/fxi/geodrink/internal/export"
	"github.com/fxi/geodrink/internal/filter"
	"github.com/fxi/geodrink/internal/query"
	"github.com/fxi/geodrink/internal/track"
	"github.com/fxi/geodrink/internal/types"
)

// maxTrackBytes bounds uploaded GPX documents.
const maxTrackBytes = 32 << 20

// DefaultBufferMeters is used when a water query omits the buffer parameter.
const DefaultBufferMeters = 100.0

// Server holds the query service and the single active route. The route is
// replaced wholesale on upload and cleared on delete; each query cycle only
// reads it.
type Server struct {
	svc    *query.Service
	logger *slog.Logger

	mu    sync.RWMutex
	route *types.Route
}

// New creates a server around the query service.
func New(svc *query.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{svc: svc, logger: logger}
}

// Handler returns the HTTP handler for all API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/api/route", s.handleRoute)
	mux.HandleFunc("/api/water", s.handleWater)
	mux.HandleFunc("/api/position", s.handlePosition)
	mux.HandleFunc("/api/presets", s.handlePresets)
	mux.HandleFunc("/api/cache", s.handleCache)

	return mux
}

// Route returns the active route, or nil.
func (s *Server) Route() *types.Route {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.route
}

// SetRoute replaces the active route (nil clears it).
func (s *Server) SetRoute(route *types.Route) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.route = route
}

type routeSummary struct {
	Name       string            `json:"name,omitempty"`
	PointCount int               `json:"point_count"`
	LengthM    float64           `json:"length_m"`
	Bounds     types.BoundingBox `json:"bounds"`
}

func summarize(route *types.Route) routeSummary {
	return routeSummary{
		Name:       route.Name,
		PointCount: len(route.Coordinates),
		LengthM:    route.Length,
		Bounds:     route.Bounds,
	}
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		body := http.MaxBytesReader(w, r.Body, maxTrackBytes)
		route, err := track.Parse(body)
		if err != nil {
			s.logger.Warn("track upload rejected", "error", err)
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.SetRoute(route)
		s.logger.Info("route loaded",
			"name", route.Name,
			"points", len(route.Coordinates),
			"length_m", fmt.Sprintf("%.0f", route.Length),
		)
		writeJSON(w, http.StatusCreated, summarize(route))

	case http.MethodGet:
		route := s.Route()
		if route == nil {
			writeError(w, http.StatusNotFound, "no route loaded")
			return
		}
		writeJSON(w, http.StatusOK, summarize(route))

	case http.MethodDelete:
		s.SetRoute(nil)
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleWater(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	route := s.Route()
	if route == nil {
		writeError(w, http.StatusConflict, "no route loaded")
		return
	}

	buffer := DefaultBufferMeters
	if v := r.URL.Query().Get("buffer"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "invalid buffer")
			return
		}
		buffer = parsed
	}

	filterID := r.URL.Query().Get("filter")
	if filterID == "" {
		filterID = filter.DefaultPresetID
	}
	if _, ok := filter.PresetByID(filterID); !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown filter preset %q", filterID))
		return
	}

	points, status, err := s.svc.FindWaterPoints(r.Context(), route, buffer, filterID)

	resp := map[string]interface{}{
		"status": string(status),
		"points": export.WaterPointsToGeoJSON(points),
	}
	if err != nil {
		// Fetch failures are soft: an empty result plus a warning.
		resp["warning"] = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if errLat != nil || errLon != nil {
		writeError(w, http.StatusBadRequest, "lat and lon are required")
		return
	}

	pos := s.svc.CurrentPositionOnRoute(lat, lon, s.Route())
	if pos == nil {
		writeError(w, http.StatusNotFound, "no route loaded")
		return
	}
	writeJSON(w, http.StatusOK, pos)
}

type presetView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	all := filter.Presets()
	views := make([]presetView, 0, len(all))
	for _, p := range all {
		views = append(views, presetView{ID: p.ID, Name: p.Name, Description: p.Description})
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCache(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.svc.CacheInfo(r.Context()))
	case http.MethodDelete:
		s.svc.ClearCache(r.Context())
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	// Encode errors at this point mean the client went away.
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
