package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"veritas/internal/materiality"
	"veritas/pkg/platform/httputil"
	"veritas/pkg/requestcontext"
)

// Service defines the interface for materiality operations.
type Service interface {
	Calculate(ctx context.Context, b materiality.Benchmarks) (*materiality.Result, error)
}

// Handler wires materiality endpoints to the materiality service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a materiality handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts materiality endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/materiality/calculate", h.HandleCalculate)
}

// HandleCalculate handles POST /materiality/calculate requests.
func (h *Handler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[CalculateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	benchmarks, err := req.Benchmarks()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Calculate(ctx, benchmarks)
	if err != nil {
		h.logger.WarnContext(ctx, "materiality calculation rejected",
			"request_id", requestID,
			"entity_type", req.EntityType,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "materiality calculated",
		"request_id", requestID,
		"benchmark_used", result.BenchmarkUsed,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}
