package rest

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/fortuna/augur/internal/scheduler"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	orch   *scheduler.Orchestrator
	logger *zap.Logger
}

// NewHandler creates a new handler
func NewHandler(orch *scheduler.Orchestrator, logger *zap.Logger) *Handler {
	return &Handler{
		orch:   orch,
		logger: logger,
	}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "augur",
		"version": "1.0.0",
	})
}

// predictionsResponse is the snapshot plus the last cycle error, if
// any. A stale snapshot with an error means the last refresh failed
// and this data is the most recent good cycle.
type predictionsResponse struct {
	*scheduler.Snapshot
	Error string `json:"error,omitempty"`
}

// GetPredictions returns the current snapshot: predictions,
// performance summary, last-updated timestamp and real-time flag.
func (h *Handler) GetPredictions(w http.ResponseWriter, r *http.Request) {
	snap, lastErr := h.orch.Snapshot()
	if snap == nil {
		if lastErr != nil {
			respondError(w, http.StatusServiceUnavailable, "No prediction data available", lastErr)
			return
		}
		respondError(w, http.StatusServiceUnavailable, "Prediction data not ready yet", nil)
		return
	}

	resp := predictionsResponse{Snapshot: snap}
	if lastErr != nil {
		resp.Error = lastErr.Error()
	}
	respondJSON(w, http.StatusOK, resp)
}

// TriggerRefresh starts a refresh cycle out of band. Requests while a
// cycle is in flight coalesce into it.
func (h *Handler) TriggerRefresh(w http.ResponseWriter, r *http.Request) {
	go h.orch.Refresh(context.Background())

	respondJSON(w, http.StatusAccepted, map[string]string{
		"message": "Refresh triggered",
	})
}

// GetNotification returns the outstanding system notification, or
// null when there is none.
func (h *Handler) GetNotification(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"notification": h.orch.Notification(),
	})
}

// AcknowledgeNotification clears the outstanding notification.
// Acknowledging with nothing outstanding succeeds.
func (h *Handler) AcknowledgeNotification(w http.ResponseWriter, r *http.Request) {
	h.orch.AcknowledgeNotification(r.Context())

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Notification acknowledged",
	})
}

// GetSchedulerStatus returns the orchestrator's state and cadences.
func (h *Handler) GetSchedulerStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.orch.Status())
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
