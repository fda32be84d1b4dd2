package v1handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"discovery/pkg/domain"
	"discovery/pkg/logger"
	"discovery/pkg/serrors"
)

// CreateDiscovery runs one discovery request synchronously and returns the
// accepted URLs per category. Nothing is persisted; the response is the whole
// outcome.
func (h *Handler) CreateDiscovery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.DiscoveryRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		h.writeError(ctx, w, serrors.Wrap(serrors.ErrBadRequest, err, "could not decode request body"))

		return
	}

	logger.Info(ctx, "discovery requested",
		zap.String("name", req.Name),
		zap.String("domain", req.BaseDomain),
		zap.Int("categories", len(req.Categories)))

	res, err := h.deps.Discoverer.Discover(ctx, req)
	if err != nil {
		h.writeError(ctx, w, err)

		return
	}

	writeJSON(ctx, w, http.StatusOK, res)
}
