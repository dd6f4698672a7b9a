package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// InventoryStatus reports the state of the inventory store.
type InventoryStatus interface {
	Len() int
	Dirty() bool
}

// ProbeHandler serves health and readiness checks.
type ProbeHandler struct {
	status InventoryStatus
	ready  func() bool
	logger *zap.Logger
}

// NewProbeHandler creates a new ProbeHandler instance. ready reports
// whether the interactive menu is accepting commands.
func NewProbeHandler(status InventoryStatus, ready func() bool, logger *zap.Logger) *ProbeHandler {
	return &ProbeHandler{
		status: status,
		ready:  ready,
		logger: logger,
	}
}

// RegisterRoutes registers the probe routes with the router.
func (h *ProbeHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/ready", h.ReadyCheck).Methods(http.MethodGet)
}

// HealthCheck handles GET /health requests.
func (h *ProbeHandler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	response := HealthResponse{
		Status:  "healthy",
		Version: Version,
		Items:   h.status.Len(),
		Unsaved: h.status.Dirty(),
	}
	h.writeJSON(w, http.StatusOK, NewSuccessResponse(response))
}

// ReadyCheck handles GET /ready requests.
func (h *ProbeHandler) ReadyCheck(w http.ResponseWriter, _ *http.Request) {
	if h.ready == nil || !h.ready() {
		h.writeJSON(w, http.StatusServiceUnavailable,
			NewErrorResponse[ReadyResponse]("inventory menu is not running"))
		return
	}
	h.writeJSON(w, http.StatusOK, NewSuccessResponse(ReadyResponse{Status: "ready"}))
}

// writeJSON writes a JSON response with the given status code.
func (h *ProbeHandler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}
