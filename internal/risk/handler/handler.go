package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"veritas/internal/domain"
	"veritas/internal/risk"
	"veritas/pkg/platform/httputil"
	"veritas/pkg/requestcontext"
)

// Service defines the interface for risk assessment operations.
type Service interface {
	Assess(ctx context.Context, req risk.AssessRequest) (*risk.Assessment, error)
	Revise(ctx context.Context, req risk.ReviseRequest) (*risk.Assessment, error)
	Finalize(ctx context.Context, key risk.Key) (*risk.Assessment, error)
	History(ctx context.Context, key risk.Key) ([]risk.Assessment, error)
	IdentifyFraudRiskFactors(ctx context.Context, in risk.FraudInputs) []risk.FraudRiskFactor
}

// Handler wires risk endpoints to the risk service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a risk handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts risk endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/risk/assess", h.HandleAssess)
	r.Post("/risk/revise", h.HandleRevise)
	r.Post("/risk/finalize", h.HandleFinalize)
	r.Post("/risk/fraud-factors", h.HandleFraudFactors)
	r.Get("/risk/assessments/{engagement}/{account}/{assertion}", h.HandleHistory)
}

// HandleAssess handles POST /risk/assess requests.
func (h *Handler) HandleAssess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[AssessRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	domainReq, err := req.Domain()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	assessment, err := h.service.Assess(ctx, domainReq)
	if err != nil {
		h.logger.WarnContext(ctx, "risk assessment failed",
			"request_id", requestID,
			"engagement_id", req.EngagementID,
			"account", req.AccountName,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "risk assessed",
		"request_id", requestID,
		"engagement_id", req.EngagementID,
		"rmm", assessment.Combined.RMM,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusCreated, FromAssessment(assessment))
}

// HandleRevise handles POST /risk/revise requests.
func (h *Handler) HandleRevise(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ReviseRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	domainReq, err := req.Domain()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	assessment, err := h.service.Revise(ctx, domainReq)
	if err != nil {
		h.logger.WarnContext(ctx, "risk revision failed",
			"request_id", requestID,
			"engagement_id", req.EngagementID,
			"account", req.AccountName,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromAssessment(assessment))
}

// HandleFinalize handles POST /risk/finalize requests.
func (h *Handler) HandleFinalize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[FinalizeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	key, err := req.Key()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	assessment, err := h.service.Finalize(ctx, key)
	if err != nil {
		h.logger.WarnContext(ctx, "risk finalization failed",
			"request_id", requestID,
			"engagement_id", req.EngagementID,
			"account", req.AccountName,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromAssessment(assessment))
}

// HandleHistory handles GET /risk/assessments/{engagement}/{account}/{assertion}.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	assertion, err := domain.ParseAssertion(chi.URLParam(r, "assertion"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	key := risk.Key{
		EngagementID: chi.URLParam(r, "engagement"),
		AccountName:  chi.URLParam(r, "account"),
		Assertion:    assertion,
	}

	chain, err := h.service.History(ctx, key)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromHistory(chain))
}

// HandleFraudFactors handles POST /risk/fraud-factors requests.
func (h *Handler) HandleFraudFactors(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[FraudFactorsRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	factors := h.service.IdentifyFraudRiskFactors(ctx, req.Domain())

	h.logger.InfoContext(ctx, "fraud risk factors identified",
		"request_id", requestID,
		"count", len(factors),
	)

	httputil.WriteJSON(w, http.StatusOK, FromFraudFactors(factors))
}
