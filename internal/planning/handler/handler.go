package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"veritas/internal/planning"
	"veritas/pkg/platform/httputil"
	"veritas/pkg/requestcontext"
)

// Service defines the interface for planning orchestration.
type Service interface {
	Plan(ctx context.Context, req planning.PlanRequest) (*planning.PlanSummary, error)
}

// Handler wires planning endpoints to the planning service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a planning handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts planning endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/planning/plan", h.HandlePlan)
}

// HandlePlan handles POST /planning/plan requests.
func (h *Handler) HandlePlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[PlanRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	domainReq, err := req.Domain()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	summary, err := h.service.Plan(ctx, domainReq)
	if err != nil {
		h.logger.WarnContext(ctx, "engagement planning failed",
			"request_id", requestID,
			"engagement_id", req.EngagementID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "engagement plan built",
		"request_id", requestID,
		"engagement_id", req.EngagementID,
		"accounts", len(summary.Accounts),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromSummary(summary))
}
