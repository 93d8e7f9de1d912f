package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"veritas/internal/domain"
	"veritas/internal/sampling"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/platform/httputil"
	"veritas/pkg/requestcontext"
)

// Service defines the interface for sampling operations.
type Service interface {
	Recommend(ctx context.Context, populationSize int, populationValue float64, objective domain.TestObjective, expectedErrorRate float64) (sampling.Recommendation, error)
	PlanMUS(ctx context.Context, p sampling.MUSParams) (*sampling.Plan, error)
	PlanClassical(ctx context.Context, p sampling.ClassicalParams) (*sampling.Plan, error)
	PlanAttribute(ctx context.Context, p sampling.AttributeParams) (*sampling.Plan, error)
	Select(ctx context.Context, plan *sampling.Plan, population []sampling.PopulationItem, seed int64) ([]sampling.SelectedItem, error)
	Evaluate(ctx context.Context, plan *sampling.Plan, in sampling.EvaluateInputs) (*sampling.Evaluation, error)
}

// Handler wires sampling endpoints to the sampling service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a sampling handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts sampling endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/sampling/recommend", h.HandleRecommend)
	r.Post("/sampling/plan", h.HandlePlan)
	r.Post("/sampling/select", h.HandleSelect)
	r.Post("/sampling/evaluate", h.HandleEvaluate)
}

// HandleRecommend handles POST /sampling/recommend requests.
func (h *Handler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RecommendRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	objective, err := domain.ParseTestObjective(req.TestObjective)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	rec, err := h.service.Recommend(ctx, req.PopulationSize, req.PopulationValue, objective, req.ExpectedErrorRate)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, RecommendResponse{
		Method:                string(rec.Method),
		FullExaminationOption: rec.FullExaminationOption,
	})
}

// HandlePlan handles POST /sampling/plan requests.
func (h *Handler) HandlePlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[PlanRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	method, err := domain.ParseSamplingMethod(req.Method)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var plan *sampling.Plan
	switch method {
	case domain.MethodMUS:
		if req.MUS == nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "mus parameters are required"))
			return
		}
		plan, err = h.service.PlanMUS(ctx, sampling.MUSParams{
			PopulationValue:       req.MUS.PopulationValue,
			TolerableMisstatement: req.MUS.TolerableMisstatement,
			ExpectedMisstatement:  req.MUS.ExpectedMisstatement,
			Risk:                  req.MUS.Risk,
		})
	case domain.MethodClassical:
		if req.Classical == nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "classical parameters are required"))
			return
		}
		plan, err = h.service.PlanClassical(ctx, sampling.ClassicalParams{
			PopulationSize:        req.Classical.PopulationSize,
			StdDev:                req.Classical.StdDev,
			TolerableMisstatement: req.Classical.TolerableMisstatement,
			Confidence:            req.Classical.Confidence,
		})
	case domain.MethodAttribute:
		if req.Attribute == nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "attribute parameters are required"))
			return
		}
		plan, err = h.service.PlanAttribute(ctx, sampling.AttributeParams{
			PopulationSize:         req.Attribute.PopulationSize,
			TolerableDeviationRate: req.Attribute.TolerableDeviationRate,
			ExpectedDeviationRate:  req.Attribute.ExpectedDeviationRate,
			Confidence:             req.Attribute.Confidence,
		})
	}
	if err != nil {
		h.logger.WarnContext(ctx, "sampling plan rejected",
			"request_id", requestID,
			"method", req.Method,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "sampling plan built",
		"request_id", requestID,
		"method", req.Method,
		"sample_size", plan.SampleSize,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, PlanResponse{Plan: FromPlan(plan)})
}

// HandleSelect handles POST /sampling/select requests.
func (h *Handler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[SelectRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	plan, err := req.Plan.ToPlan()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	items, err := h.service.Select(ctx, plan, toPopulation(req.Population), req.Seed)
	if err != nil {
		h.logger.WarnContext(ctx, "sample selection rejected",
			"request_id", requestID,
			"method", req.Plan.Method,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromSelection(plan, items))
}

// HandleEvaluate handles POST /sampling/evaluate requests.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[EvaluateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	plan, err := req.Plan.ToPlan()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	inputs := sampling.EvaluateInputs{
		Items:           toAuditedItems(req.Items),
		BookValue:       req.BookValue,
		DeviationsFound: req.DeviationsFound,
	}
	if req.Estimator != "" {
		estimator, err := sampling.ParseEstimator(req.Estimator)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		inputs.Estimator = estimator
	}

	eval, err := h.service.Evaluate(ctx, plan, inputs)
	if err != nil {
		h.logger.WarnContext(ctx, "sample evaluation rejected",
			"request_id", requestID,
			"method", req.Plan.Method,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromEvaluation(plan, eval))
}
