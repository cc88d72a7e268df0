package order

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"neonfood/internal/logger"
	"neonfood/internal/models"
)

// Handler handles HTTP requests for the order API.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new order handler.
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// Register mounts the order routes on the given mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /orders", h.withLogging(h.Checkout))
	mux.HandleFunc("GET /orders", h.withLogging(h.ListOrders))
	mux.HandleFunc("GET /orders/{id}", h.withLogging(h.GetOrder))
	mux.HandleFunc("PUT /orders/{id}/status", h.withLogging(h.UpdateStatus))
	mux.HandleFunc("DELETE /orders/{id}", h.withLogging(h.DeleteOrder))
}

// Checkout handles POST /orders.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var req models.CheckoutRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		h.logger.Error("validation_failed", requestID, "Failed to parse request body", err, nil)
		h.writeError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	order, err := h.service.Checkout(ctx, &req, requestID)
	if err != nil {
		h.writeDomainError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusCreated, order)
}

// ListOrders handles GET /orders, newest first.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orders, err := h.service.List(ctx)
	if err != nil {
		h.writeDomainError(w, err, requestID)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	h.writeJSON(w, http.StatusOK, orders)
}

// GetOrder handles GET /orders/{id}.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	id, ok := h.orderID(w, r, requestID)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := h.service.Get(ctx, id)
	if err != nil {
		h.writeDomainError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, order)
}

// UpdateStatus handles PUT /orders/{id}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	id, ok := h.orderID(w, r, requestID)
	if !ok {
		return
	}

	var req models.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("validation_failed", requestID, "Failed to parse request body", err, nil)
		h.writeError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := h.service.UpdateStatus(ctx, id, req.Status, requestID)
	if err != nil {
		h.writeDomainError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, order)
}

// DeleteOrder handles DELETE /orders/{id}.
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	id, ok := h.orderID(w, r, requestID)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id, requestID); err != nil {
		h.writeDomainError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) orderID(w http.ResponseWriter, r *http.Request, requestID string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		h.writeError(w, http.StatusBadRequest, "Invalid order id", requestID)
		return 0, false
	}
	return id, true
}

// writeDomainError maps domain errors onto HTTP statuses.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error, requestID string) {
	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &validationErr):
		h.writeError(w, http.StatusBadRequest, validationErr.Error(), requestID)
	case errors.Is(err, models.ErrOrderNotFound):
		h.writeError(w, http.StatusNotFound, "Order not found", requestID)
	case errors.Is(err, models.ErrInvalidTransition):
		h.writeError(w, http.StatusConflict, err.Error(), requestID)
	default:
		h.logger.Error("request_failed", requestID, "Request failed", err, nil)
		h.writeError(w, http.StatusInternalServerError, "Internal server error", requestID)
	}
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

// withLogging adds request logging around a handler.
func (h *Handler) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next(w, r)
		h.logger.Debug("http_request", "", "Handled HTTP request", map[string]any{
			"method":      r.Method,
			"path":        r.URL.Path,
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}
}
