package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"veritas/internal/domain"
	"veritas/internal/program"
	"veritas/pkg/platform/httputil"
	"veritas/pkg/requestcontext"
)

// Service defines the interface for audit program generation.
type Service interface {
	Generate(ctx context.Context, accountType domain.AccountType, assertion domain.Assertion, riskLevel domain.RiskLevel, balance, materiality decimal.Decimal) ([]program.AuditProcedure, error)
}

// Handler wires program endpoints to the program service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a program handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts program endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/program/generate", h.HandleGenerate)
}

// HandleGenerate handles POST /program/generate requests.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[GenerateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	accountType, err := domain.ParseAccountType(req.AccountType)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	assertion, err := domain.ParseAssertion(req.Assertion)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	riskLevel, err := domain.ParseRiskLevel(req.RiskLevel)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	balance, err := parseAmount("balance", req.Balance)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	materiality, err := parseAmount("materiality", req.Materiality)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	procedures, err := h.service.Generate(ctx, accountType, assertion, riskLevel, balance, materiality)
	if err != nil {
		h.logger.WarnContext(ctx, "program generation rejected",
			"request_id", requestID,
			"account_type", req.AccountType,
			"assertion", req.Assertion,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "audit program generated",
		"request_id", requestID,
		"account_type", req.AccountType,
		"procedures", len(procedures),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromProcedures(procedures))
}
