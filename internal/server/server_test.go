package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fxi/geodrink/internal/cache"
	"github.com/fxi/geodrink/internal/filter"
	"github.com/fxi/geodrink/internal/query"
	"github.com/fxi/geodrink/internal/types"
)

const gpxDoc = `<?xml version="1.0"?>
<gpx><trk><name>Canal</name><trkseg>
  <trkpt lat="48.0" lon="2.0"/>
  <trkpt lat="48.0" lon="2.1"/>
</trkseg></trk></gpx>`

type stubSource struct {
	records []types.RawRecord
	err     error
}

func (s *stubSource) FetchWaterSources(context.Context, types.BoundingBox, filter.Preset) ([]types.RawRecord, error) {
	return s.records, s.err
}

func newTestServer(src query.DataSource) *Server {
	if src == nil {
		src = &stubSource{}
	}
	svc := query.NewService(cache.New(cache.NewMemStore(), nil), src, nil)
	return New(svc, nil)
}

func postRoute(t *testing.T, h http.Handler) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/route", strings.NewReader(gpxDoc))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestRouteLifecycle(t *testing.T) {
	srv := newTestServer(nil)
	h := srv.Handler()

	// No route yet.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/route", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	postRoute(t, h)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/route", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var summary struct {
		Name       string  `json:"name"`
		PointCount int     `json:"point_count"`
		LengthM    float64 `json:"length_m"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, "Canal", summary.Name)
	assert.Equal(t, 2, summary.PointCount)
	assert.InDelta(t, 7440, summary.LengthM, 100)

	// Clear.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/route", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Nil(t, srv.Route())
}

func TestRouteUploadRejectsBadDocument(t *testing.T) {
	h := newTestServer(nil).Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/route", strings.NewReader("<gpx></gpx>"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no track or route points")
}

func TestWaterQuery(t *testing.T) {
	src := &stubSource{records: []types.RawRecord{{
		ID:       "node/1",
		Location: orb.Point{2.05, 48.0001},
		Tags:     map[string]string{"amenity": "drinking_water", "drinking_water": "yes"},
	}}}
	h := newTestServer(src).Handler()
	postRoute(t, h)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/water?buffer=100&filter=potable", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status string `json:"status"`
		Points struct {
			Type     string `json:"type"`
			Features []struct {
				Properties map[string]interface{} `json:"properties"`
			} `json:"features"`
		} `json:"points"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "fulfilled", resp.Status)
	assert.Equal(t, "FeatureCollection", resp.Points.Type)
	require.Len(t, resp.Points.Features, 1)
	assert.Equal(t, "node/1", resp.Points.Features[0].Properties["id"])

	// Second identical query is served from cache.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/water?buffer=100&filter=potable", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "cached", resp.Status)
}

func TestWaterQueryWithoutRoute(t *testing.T) {
	h := newTestServer(nil).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/water", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestWaterQueryValidation(t *testing.T) {
	h := newTestServer(nil).Handler()
	postRoute(t, h)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/water?buffer=-5", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/water?filter=bogus", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWaterQueryFetchFailureIsSoft(t *testing.T) {
	h := newTestServer(&stubSource{err: assert.AnError}).Handler()
	postRoute(t, h)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/water", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "failed", resp["status"])
	assert.NotEmpty(t, resp["warning"])
}

func TestPosition(t *testing.T) {
	h := newTestServer(nil).Handler()

	// No route: absent.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/position?lat=48.0005&lon=2.05", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	postRoute(t, h)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/position?lat=48.0005&lon=2.05", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var pos types.CurrentPosition
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pos))
	assert.InDelta(t, 3720, pos.AlongRoute, 100)

	// Missing parameters.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/position?lat=48", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPresets(t *testing.T) {
	h := newTestServer(nil).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/presets", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var views []presetView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	assert.Len(t, views, 5)
	assert.Equal(t, "potable", views[0].ID)
}

func TestCacheEndpoints(t *testing.T) {
	src := &stubSource{}
	h := newTestServer(src).Handler()
	postRoute(t, h)

	// Populate one cache entry.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/water", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cache", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var info cache.Info
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, 1, info.Entries)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/cache", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cache", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, 0, info.Entries)
}

func TestHealthz(t *testing.T) {
	h := newTestServer(nil).Handler()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
