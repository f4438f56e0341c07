package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lintang-b-s/smartmeet/pkg/datastructure"
	"github.com/lintang-b-s/smartmeet/pkg/engine"
	"github.com/lintang-b-s/smartmeet/pkg/http/router/controllers"
	http_server "github.com/lintang-b-s/smartmeet/pkg/http/server"
	"github.com/lintang-b-s/smartmeet/pkg/http/usecases"
	"github.com/lintang-b-s/smartmeet/pkg/spatialindex"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// A-B-C-D along the equator, ~111 m apart. Z is isolated.
func newTestServices(t *testing.T) controllers.Services {
	t.Helper()
	log := zap.NewNop()

	e := engine.NewEngine(log)
	require.NoError(t, e.LoadRecords([]datastructure.NodeRecord{
		datastructure.NewNodeRecord("A", 0, 0, "Gate", "siming"),
		datastructure.NewNodeRecord("B", 0, 0.001, "Library", "siming"),
		datastructure.NewNodeRecord("C", 0, 0.002, "Canteen", "siming"),
		datastructure.NewNodeRecord("D", 0, 0.003, "Lake", "siming"),
		datastructure.NewNodeRecord("Z", 0.0005, 0.0015, "Island", "siming"),
	}, []datastructure.EdgeRecord{
		datastructure.NewEdgeRecord("A", "B", 100),
		datastructure.NewEdgeRecord("B", "C", 100),
		datastructure.NewEdgeRecord("C", "D", 150),
	}))

	var pois []datastructure.POI
	for _, p := range []struct {
		name     string
		lat, lon float64
	}{{"gate", 0, 0}, {"library", 0, 0.001}, {"canteen", 0, 0.002}, {"island", 0.0005, 0.0015}} {
		poi, err := datastructure.NewPOI(p.lat, p.lon, map[string]any{"name": p.name})
		require.NoError(t, err)
		pois = append(pois, poi)
	}
	index := spatialindex.NewKDTree[datastructure.POI]()
	index.Build(pois)

	locator := spatialindex.NewCampusLocator(e.GetGraph(), 100, log)

	routing, err := usecases.NewRoutingService(log, e, locator, 16)
	require.NoError(t, err)

	return controllers.Services{
		Routing: routing,
		POI:     usecases.NewPOIService(log, index),
		MeetingPoint: usecases.NewMeetingPointService(log, e, index, locator,
			usecases.MeetingOptions{SearchRadius: 1000, MaxCandidates: 10, TopK: 3}, 2),
		Campus: usecases.NewCampusService(log, locator),
	}
}

type apiResponse struct {
	Data  json.RawMessage `json:"data"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func do(t *testing.T, h http.Handler, method, target, body string, contentType string) (int, apiResponse) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var res apiResponse
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	}
	return rec.Code, res
}

func TestRouteEndpoint(t *testing.T) {
	h := NewAPI(zap.NewNop()).Handler(false, newTestServices(t))

	status, res := do(t, h, http.MethodGet,
		"/api/route?origin_lat=0&origin_lng=0.00001&destination_lat=0&destination_lng=0.00299", "", "")
	require.Equal(t, http.StatusOK, status)

	var route struct {
		Campus   string       `json:"campus"`
		Source   string       `json:"source"`
		Distance float64      `json:"distance"`
		Path     []string     `json:"path"`
		Coords   [][2]float64 `json:"coords"`
		Polyline string       `json:"polyline"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &route))
	assert.Equal(t, "siming", route.Campus)
	assert.Equal(t, "A", route.Source)
	assert.Equal(t, 350.0, route.Distance)
	assert.Equal(t, []string{"A", "B", "C", "D"}, route.Path)
	assert.Len(t, route.Coords, 4)
	assert.NotEmpty(t, route.Polyline)
}

func TestEndpointErrors(t *testing.T) {
	h := NewAPI(zap.NewNop()).Handler(false, newTestServices(t))

	testCases := []struct {
		name        string
		method      string
		target      string
		body        string
		contentType string
		wantStatus  int
		wantCode    string
	}{
		{
			name:       "missing origin",
			method:     http.MethodGet,
			target:     "/api/route?destination_lat=0&destination_lng=0.003",
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
		},
		{
			name:       "latitude out of range",
			method:     http.MethodGet,
			target:     "/api/route?origin_lat=91&origin_lng=0&destination_lat=0&destination_lng=0.003",
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
		},
		{
			name:       "nan coordinate",
			method:     http.MethodGet,
			target:     "/api/nearestNode?lat=NaN&lng=0",
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
		},
		{
			name:       "unreachable destination",
			method:     http.MethodGet,
			target:     "/api/route?origin_lat=0&origin_lng=0&destination_lat=0.0005&destination_lng=0.0015",
			wantStatus: http.StatusNotFound,
			wantCode:   "not_found",
		},
		{
			name:       "radius too large",
			method:     http.MethodGet,
			target:     "/api/pois/nearby?lat=0&lng=0&radius=100000",
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
		},
		{
			name:        "meeting point without participants",
			method:      http.MethodPost,
			target:      "/api/meetingPoint",
			body:        `{"participants": []}`,
			contentType: "application/json",
			wantStatus:  http.StatusBadRequest,
			wantCode:    "bad_request",
		},
		{
			name:        "meeting point unknown field",
			method:      http.MethodPost,
			target:      "/api/meetingPoint",
			body:        `{"participants": [{"lat": 0, "lng": 0}], "speed": 3}`,
			contentType: "application/json",
			wantStatus:  http.StatusBadRequest,
			wantCode:    "bad_request",
		},
		{
			name:       "meeting point without content type",
			method:     http.MethodPost,
			target:     "/api/meetingPoint",
			body:       `{"participants": [{"lat": 0, "lng": 0}]}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
		},
		{
			name:        "meeting point as form",
			method:      http.MethodPost,
			target:      "/api/meetingPoint",
			body:        `participants=1`,
			contentType: "application/x-www-form-urlencoded",
			wantStatus:  http.StatusUnsupportedMediaType,
			wantCode:    "unsupported_media_type",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, res := do(t, h, tc.method, tc.target, tc.body, tc.contentType)
			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantCode, res.Error.Code)
			assert.NotEmpty(t, res.Error.Message)
		})
	}
}

func TestNearestNodeEndpoint(t *testing.T) {
	h := NewAPI(zap.NewNop()).Handler(false, newTestServices(t))

	status, res := do(t, h, http.MethodGet, "/api/nearestNode?lat=0&lng=0.0009", "", "")
	require.Equal(t, http.StatusOK, status)

	var node struct {
		ID       string  `json:"id"`
		Name     string  `json:"name"`
		Campus   string  `json:"campus"`
		Distance float64 `json:"distance"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &node))
	assert.Equal(t, "B", node.ID)
	assert.Equal(t, "Library", node.Name)
	assert.Equal(t, "siming", node.Campus)
	assert.InDelta(t, 11.1, node.Distance, 0.5)
}

type poiResult struct {
	POI struct {
		Name string  `json:"name"`
		Lat  float64 `json:"lat"`
		Lng  float64 `json:"lng"`
	} `json:"poi"`
	Distance float64 `json:"distance"`
}

func TestPOIEndpoints(t *testing.T) {
	h := NewAPI(zap.NewNop()).Handler(false, newTestServices(t))

	t.Run("nearby", func(t *testing.T) {
		status, res := do(t, h, http.MethodGet, "/api/pois/nearby?lat=0&lng=0&radius=150", "", "")
		require.Equal(t, http.StatusOK, status)

		var pois []poiResult
		require.NoError(t, json.Unmarshal(res.Data, &pois))
		require.Len(t, pois, 2)
		assert.Equal(t, "gate", pois[0].POI.Name)
		assert.Equal(t, "library", pois[1].POI.Name)
		assert.Zero(t, pois[0].Distance)
	})

	t.Run("nearby with limit", func(t *testing.T) {
		status, res := do(t, h, http.MethodGet, "/api/pois/nearby?lat=0&lng=0&radius=1000&limit=1", "", "")
		require.Equal(t, http.StatusOK, status)

		var pois []poiResult
		require.NoError(t, json.Unmarshal(res.Data, &pois))
		require.Len(t, pois, 1)
		assert.Equal(t, "gate", pois[0].POI.Name)
	})

	t.Run("nearby nothing in range", func(t *testing.T) {
		status, res := do(t, h, http.MethodGet, "/api/pois/nearby?lat=10&lng=10&radius=100", "", "")
		require.Equal(t, http.StatusOK, status)
		assert.JSONEq(t, `[]`, string(res.Data))
	})

	t.Run("nearest", func(t *testing.T) {
		status, res := do(t, h, http.MethodGet, "/api/pois/nearest?lat=0&lng=0.0021", "", "")
		require.Equal(t, http.StatusOK, status)

		var poi poiResult
		require.NoError(t, json.Unmarshal(res.Data, &poi))
		assert.Equal(t, "canteen", poi.POI.Name)
		assert.Equal(t, 0.002, poi.POI.Lng)
	})

	t.Run("nearest too far", func(t *testing.T) {
		status, res := do(t, h, http.MethodGet, "/api/pois/nearest?lat=45&lng=45", "", "")
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "not_found", res.Error.Code)
	})
}

func TestMeetingPointEndpoint(t *testing.T) {
	h := NewAPI(zap.NewNop()).Handler(false, newTestServices(t))

	status, res := do(t, h, http.MethodPost, "/api/meetingPoint",
		`{"participants": [{"lat": 0, "lng": 0}, {"lat": 0, "lng": 0.002}], "top_k": 2}`, "application/json; charset=utf-8")
	require.Equal(t, http.StatusOK, status)

	var points []struct {
		POI struct {
			Name string `json:"name"`
		} `json:"poi"`
		Node          string    `json:"node"`
		Distances     []float64 `json:"distances"`
		MaxDistance   float64   `json:"max_distance"`
		TotalDistance float64   `json:"total_distance"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &points))
	require.Len(t, points, 2)

	assert.Equal(t, "library", points[0].POI.Name)
	assert.Equal(t, "B", points[0].Node)
	assert.Equal(t, []float64{100, 100}, points[0].Distances)
	assert.Equal(t, 100.0, points[0].MaxDistance)
	assert.Equal(t, 200.0, points[0].TotalDistance)
	assert.Equal(t, 200.0, points[1].MaxDistance)
}

func TestCampusLocateEndpoint(t *testing.T) {
	h := NewAPI(zap.NewNop()).Handler(false, newTestServices(t))

	testCases := []struct {
		name   string
		target string
		want   []string
	}{
		{"inside", "/api/campus/locate?lat=0&lng=0.001", []string{"siming"}},
		{"inside padding", "/api/campus/locate?lat=-0.0005&lng=-0.0005", []string{"siming"}},
		{"outside", "/api/campus/locate?lat=10&lng=10", []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, res := do(t, h, http.MethodGet, tc.target, "", "")
			require.Equal(t, http.StatusOK, status)

			var got struct {
				Campuses []string `json:"campuses"`
			}
			require.NoError(t, json.Unmarshal(res.Data, &got))
			assert.Equal(t, tc.want, got.Campuses)
		})
	}
}

func TestMiddleware(t *testing.T) {
	t.Run("heartbeat", func(t *testing.T) {
		h := NewAPI(zap.NewNop()).Handler(false, controllers.Services{})
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, ".", rec.Body.String())
	})

	t.Run("recover panic", func(t *testing.T) {
		// nil services make the handler panic on the first call
		h := NewAPI(zap.NewNop()).Handler(false, controllers.Services{})
		status, res := do(t, h, http.MethodGet, "/api/campus/locate?lat=0&lng=0", "", "")
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, "internal_server_error", res.Error.Code)
	})

	t.Run("rate limit", func(t *testing.T) {
		viper.Set("RATE_LIMIT_RPS", 0.001)
		viper.Set("RATE_LIMIT_BURST", 1)
		t.Cleanup(viper.Reset)

		h := NewAPI(zap.NewNop()).Handler(true, newTestServices(t))
		status, _ := do(t, h, http.MethodGet, "/api/campus/locate?lat=0&lng=0", "", "")
		assert.Equal(t, http.StatusOK, status)

		status, res := do(t, h, http.MethodGet, "/api/campus/locate?lat=0&lng=0", "", "")
		assert.Equal(t, http.StatusTooManyRequests, status)
		assert.Equal(t, "rate_limit_exceeded", res.Error.Code)
	})

	t.Run("real ip", func(t *testing.T) {
		var got string
		h := RealIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.RemoteAddr
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		h.ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, "203.0.113.7", got)
	})
}

func TestRunStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	config := http_server.Config{Port: 0, Timeout: time.Second, ShutdownTimeout: 500 * time.Millisecond}

	done := make(chan error, 1)
	go func() {
		done <- NewAPI(zap.NewNop()).Run(ctx, config, false, newTestServices(t))
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after the shutdown timeout")
	}
}
