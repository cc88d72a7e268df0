package settings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"neonfood/internal/logger"
	"neonfood/internal/models"
)

// Handler exposes the settings API.
type Handler struct {
	provider *Provider
	logger   *logger.Logger
}

// NewHandler creates a settings HTTP handler.
func NewHandler(provider *Provider, log *logger.Logger) *Handler {
	return &Handler{provider: provider, logger: log}
}

// Register mounts the settings routes on the given mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /settings", h.GetSettings)
	mux.HandleFunc("POST /settings", h.SaveSettings)
}

// GetSettings handles GET /settings, creating the default record when none
// exists yet.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	current, err := h.provider.Get(ctx)
	if err != nil {
		h.logger.Error("settings_load_failed", requestID, "Failed to load settings", err, nil)
		h.writeError(w, http.StatusInternalServerError, "Failed to load settings", requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, current)
}

// SaveSettings handles POST /settings. The request body is merged over the
// current snapshot, so partial updates only touch the supplied fields.
func (h *Handler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	current, err := h.provider.Get(ctx)
	if err != nil {
		h.logger.Error("settings_load_failed", requestID, "Failed to load settings", err, nil)
		h.writeError(w, http.StatusInternalServerError, "Failed to load settings", requestID)
		return
	}

	// Decoding over a copy of the current record keeps absent fields intact.
	merged := *current
	if err := json.NewDecoder(r.Body).Decode(&merged); err != nil {
		h.logger.Error("validation_failed", requestID, "Failed to parse settings body", err, nil)
		h.writeError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	if err := h.provider.Save(ctx, &merged); err != nil {
		var validationErr *models.ValidationError
		if errors.As(err, &validationErr) {
			h.writeError(w, http.StatusBadRequest, validationErr.Error(), requestID)
			return
		}
		h.logger.Error("settings_save_failed", requestID, "Failed to save settings", err, nil)
		h.writeError(w, http.StatusInternalServerError, "Failed to save settings", requestID)
		return
	}

	h.logger.Info("settings_saved", requestID, "Settings updated", nil)
	h.writeJSON(w, http.StatusOK, &merged)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("response_encoding_failed", "", "Failed to encode response", err, nil)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message, requestID string) {
	h.writeJSON(w, status, map[string]any{
		"error":      message,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": requestID,
	})
}
