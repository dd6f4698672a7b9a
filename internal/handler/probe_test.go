package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// mockStatus implements InventoryStatus for testing
type mockStatus struct {
	items int
	dirty bool
}

func (m *mockStatus) Len() int    { return m.items }
func (m *mockStatus) Dirty() bool { return m.dirty }

func TestNewProbeHandler(t *testing.T) {
	// Act
	h := NewProbeHandler(&mockStatus{}, func() bool { return true }, zap.NewNop())

	// Assert
	if h == nil {
		t.Fatal("NewProbeHandler() returned nil")
	}
	if h.status == nil {
		t.Error("status should not be nil")
	}
	if h.logger == nil {
		t.Error("logger should not be nil")
	}
}

func TestProbeHandler_HealthCheck(t *testing.T) {
	// Arrange
	h := NewProbeHandler(&mockStatus{items: 3, dirty: true}, nil, zap.NewNop())
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	// Act
	h.HealthCheck(rr, req)

	// Assert
	if rr.Code != http.StatusOK {
		t.Errorf("HealthCheck() status = %d, want %d", rr.Code, http.StatusOK)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %s, want application/json", ct)
	}

	var response APIResponse[HealthResponse]
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !response.Success {
		t.Error("response.Success = false, want true")
	}
	if response.Data.Status != "healthy" {
		t.Errorf("status = %s, want healthy", response.Data.Status)
	}
	if response.Data.Version != Version {
		t.Errorf("version = %s, want %s", response.Data.Version, Version)
	}
	if response.Data.Items != 3 {
		t.Errorf("items = %d, want 3", response.Data.Items)
	}
	if !response.Data.Unsaved {
		t.Error("unsaved = false, want true")
	}
}

func TestProbeHandler_ReadyCheck(t *testing.T) {
	tests := []struct {
		name       string
		ready      func() bool
		wantStatus int
		wantOK     bool
	}{
		{"ready", func() bool { return true }, http.StatusOK, true},
		{"not ready", func() bool { return false }, http.StatusServiceUnavailable, false},
		{"no readiness func", nil, http.StatusServiceUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			h := NewProbeHandler(&mockStatus{}, tt.ready, zap.NewNop())
			req := httptest.NewRequest(http.MethodGet, "/ready", nil)
			rr := httptest.NewRecorder()

			// Act
			h.ReadyCheck(rr, req)

			// Assert
			if rr.Code != tt.wantStatus {
				t.Errorf("ReadyCheck() status = %d, want %d", rr.Code, tt.wantStatus)
			}
			var response APIResponse[ReadyResponse]
			if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if response.Success != tt.wantOK {
				t.Errorf("response.Success = %v, want %v", response.Success, tt.wantOK)
			}
		})
	}
}

func TestProbeHandler_RegisterRoutes(t *testing.T) {
	// Arrange
	router := mux.NewRouter()
	h := NewProbeHandler(&mockStatus{}, func() bool { return true }, zap.NewNop())
	h.RegisterRoutes(router)

	for _, path := range []string{"/health", "/ready"} {
		t.Run(path, func(t *testing.T) {
			rr := httptest.NewRecorder()

			// Act
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))

			// Assert
			if rr.Code != http.StatusOK {
				t.Errorf("GET %s status = %d, want %d", path, rr.Code, http.StatusOK)
			}
		})
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/health", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /health status = %d, want %d", rr.Code, http.StatusMethodNotAllowed)
	}
}
