// Package v1handler implements the version 1 HTTP API handlers and their
// error mapping.
package v1handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"discovery/internal/discovery"
	"discovery/pkg/logger"
	"discovery/pkg/serrors"
)

// maxBodyBytes bounds request payload size.
const maxBodyBytes = 1 << 20

// Deps holds the services the handlers delegate to.
type Deps struct {
	Discoverer discovery.Discoverer
}

// Handler serves the v1 API endpoints.
type Handler struct {
	deps Deps
}

// New constructs a Handler.
func New(deps Deps) *Handler {
	return &Handler{deps: deps}
}

// Register mounts the v1 routes on mux, wrapped with bearer authentication.
func (h *Handler) Register(mux *http.ServeMux, sec *SecHandler) {
	mux.Handle("POST /v1/discoveries", sec.Require(http.HandlerFunc(h.CreateDiscovery)))
	mux.Handle("GET /v1/categories", sec.Require(http.HandlerFunc(h.ListCategories)))
}

// ErrorResponse is the JSON error payload shared by all v1 endpoints.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorStatus pairs an error payload with the HTTP status it is served with.
type ErrorStatus struct {
	StatusCode int
	Response   ErrorResponse
}

// NewError maps an error onto its v1 error payload. Semantic errors translate
// through their kind; anything else is served as an opaque internal error.
func (h *Handler) NewError(ctx context.Context, err error) *ErrorStatus {
	logger.Error(ctx, err.Error())

	var (
		k   serrors.Kind
		msg string
	)
	var se *serrors.Error
	switch {
	case errors.As(err, &se):
		k = se.Kind()
		msg = se.Message()
	case errors.As(err, &k):
		// bare kind sentinel
	default:
		return &ErrorStatus{
			StatusCode: http.StatusInternalServerError,
			Response: ErrorResponse{
				Code:    serrors.ErrInternal.Error(),
				Message: "internal error",
			},
		}
	}

	status := http.StatusInternalServerError
	fallback := "internal error"
	switch k {
	case serrors.ErrBadRequest:
		status = http.StatusBadRequest
		fallback = "invalid request"
	case serrors.ErrUnauthorized:
		status = http.StatusUnauthorized
		fallback = "unauthorized"
	case serrors.ErrNotFound:
		status = http.StatusNotFound
		fallback = "resource not found"
	case serrors.ErrCancelled:
		status = http.StatusRequestTimeout
		fallback = "request cancelled"
	}

	if msg == "" {
		msg = fallback
	}
	// never leak internal causes to clients
	if status == http.StatusInternalServerError {
		msg = fallback
	}

	return &ErrorStatus{
		StatusCode: status,
		Response: ErrorResponse{
			Code:    k.Error(),
			Message: msg,
		},
	}
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	es := h.NewError(ctx, err)
	writeJSON(ctx, w, es.StatusCode, es.Response)
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error(ctx, "could not encode response: "+err.Error())
	}
}
