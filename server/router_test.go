package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
)

// MockBurnHandler is a mock implementation of BurnHandler.
type MockBurnHandler struct{}

func (h *MockBurnHandler) GetBurnPotential(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "burn potential"}`))
}

func (h *MockBurnHandler) GetBurnPotentialGeoJSON(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"type": "FeatureCollection"}`))
}

type MockMapPageHandler struct{}

func (h *MockMapPageHandler) GetMapPage(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`<html></html>`))
}

type MockStreamHandler struct{}

func (h *MockStreamHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusTeapot)
}

type MockSnapshotHandler struct{}

func (h *MockSnapshotHandler) GetMapSnapshot(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`snapshot:` + r.URL.Query().Get("q")))
}

func mockPing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"pong"}`))
}

func TestRouter_RegisterRoutes(t *testing.T) {
	// Setup
	router := mux.NewRouter()
	appRouter := NewRouter(&MockBurnHandler{}, &MockMapPageHandler{}, &MockStreamHandler{}, &MockSnapshotHandler{}, mockPing, router)
	appRouter.RegisterRoutes()

	// Test Cases
	tests := []struct {
		name       string
		method     string
		path       string
		statusCode int
		response   string
	}{
		{
			name:       "Map Page",
			method:     "GET",
			path:       "/",
			statusCode: http.StatusOK,
			response:   `<html></html>`,
		},
		{
			name:       "Get Burn Potential",
			method:     "GET",
			path:       "/v1/burn-potential?south=32&west=-124&north=42&east=-114",
			statusCode: http.StatusOK,
			response:   `{"message": "burn potential"}`,
		},
		{
			name:       "Get Burn Potential GeoJSON",
			method:     "GET",
			path:       "/v1/burn-potential.geojson",
			statusCode: http.StatusOK,
			response:   `{"type": "FeatureCollection"}`,
		},
		{
			name:       "Stream",
			method:     "GET",
			path:       "/v1/burn-potential/stream",
			statusCode: http.StatusTeapot,
		},
		{
			name:       "Snapshot",
			method:     "GET",
			path:       "/v1/map/snapshot?q=napa",
			statusCode: http.StatusOK,
			response:   `snapshot:napa`,
		},
		{
			name:       "Ping Route",
			method:     "GET",
			path:       "/ping",
			statusCode: http.StatusOK,
			response:   `{"status":"pong"}`,
		},
		{
			name:       "Wrong Method",
			method:     "POST",
			path:       "/v1/burn-potential",
			statusCode: http.StatusMethodNotAllowed,
		},
		{
			name:       "Invalid Route",
			method:     "GET",
			path:       "/invalid",
			statusCode: http.StatusNotFound,
		},
	}

	// Run tests
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(test.method, test.path, nil)
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			// Assert status code
			if rr.Code != test.statusCode {
				t.Errorf("Expected status %d, got %d", test.statusCode, rr.Code)
			}

			// Assert response body, if applicable
			if test.response != "" && rr.Body.String() != test.response {
				t.Errorf("Expected response %s, got %s", test.response, rr.Body.String())
			}
		})
	}
}

func TestLoggingMiddleware_RecordsStatus(t *testing.T) {
	var seen int
	handler := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		seen = w.(*statusRecorder).status
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/x?y=1", nil))

	if rr.Code != http.StatusAccepted || seen != http.StatusAccepted {
		t.Errorf("Expected 202 to be recorded, got %d / %d", rr.Code, seen)
	}
}
