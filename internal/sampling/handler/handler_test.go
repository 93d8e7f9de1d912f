package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"veritas/internal/reftables"
	"veritas/internal/sampling"
)

// HandlerSuite provides shared test setup for sampling handler tests. Uses
// the real service and embedded tables; plans round-trip through JSON the
// way API consumers hold them.
type HandlerSuite struct {
	suite.Suite
	router http.Handler
}

func (s *HandlerSuite) SetupTest() {
	tables, err := reftables.Load()
	require.NoError(s.T(), err)

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	service, err := sampling.NewService(tables, logger, nil)
	require.NoError(s.T(), err)

	r := chi.NewRouter()
	New(service, logger).Register(r)
	s.router = r
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) post(path string, body any) *httptest.ResponseRecorder {
	raw, err := json.Marshal(body)
	require.NoError(s.T(), err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) population(n int, bookValue float64) []PopulationItemRequest {
	items := make([]PopulationItemRequest, 0, n)
	for i := range n {
		items = append(items, PopulationItemRequest{
			ID:        fmt.Sprintf("inv-%03d", i),
			BookValue: bookValue,
		})
	}
	return items
}

// =============================================================================
// POST /sampling/recommend
// =============================================================================

func (s *HandlerSuite) TestRecommend_RoundTrip() {
	rec := s.post("/sampling/recommend", RecommendRequest{
		PopulationSize:    5000,
		PopulationValue:   1_000_000,
		TestObjective:     "substantive_overstatement",
		ExpectedErrorRate: 0.01,
	})
	require.Equal(s.T(), http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	var resp RecommendResponse
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(s.T(), "monetary_unit", resp.Method)
	assert.False(s.T(), resp.FullExaminationOption)
}

func (s *HandlerSuite) TestRecommend_UnknownObjective() {
	rec := s.post("/sampling/recommend", RecommendRequest{
		PopulationSize: 100,
		TestObjective:  "vouching",
	})
	assert.Equal(s.T(), http.StatusUnprocessableEntity, rec.Code)
}

// =============================================================================
// POST /sampling/plan
// =============================================================================

func (s *HandlerSuite) TestPlan_MUS() {
	rec := s.post("/sampling/plan", PlanRequest{
		Method: "monetary_unit",
		MUS: &MUSParamsRequest{
			PopulationValue:       1_000_000,
			TolerableMisstatement: 20_000,
			Risk:                  0.05,
		},
	})
	require.Equal(s.T(), http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	var resp PlanResponse
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(s.T(), 150, resp.Plan.SampleSize)
	assert.InDelta(s.T(), 6666.67, resp.Plan.SamplingInterval, 0.01)
	assert.Equal(s.T(), "planned", resp.Plan.State)
}

func (s *HandlerSuite) TestPlan_MissingParamsBlock() {
	rec := s.post("/sampling/plan", PlanRequest{Method: "attribute"})
	assert.Equal(s.T(), http.StatusUnprocessableEntity, rec.Code)
}

func (s *HandlerSuite) TestPlan_ExcessiveMisstatement() {
	rec := s.post("/sampling/plan", PlanRequest{
		Method: "monetary_unit",
		MUS: &MUSParamsRequest{
			PopulationValue:       1_000_000,
			TolerableMisstatement: 20_000,
			ExpectedMisstatement:  15_000,
			Risk:                  0.05,
		},
	})
	assert.Equal(s.T(), http.StatusUnprocessableEntity, rec.Code)

	var body map[string]string
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(s.T(), "excessive_expected_misstatement", body["error"])
}

// =============================================================================
// POST /sampling/select and /sampling/evaluate round trip
// =============================================================================

func (s *HandlerSuite) TestAttributeRoundTrip() {
	// Plan.
	rec := s.post("/sampling/plan", PlanRequest{
		Method: "attribute",
		Attribute: &AttributeParamsRequest{
			PopulationSize:         500,
			TolerableDeviationRate: 0.05,
			Confidence:             0.95,
		},
	})
	require.Equal(s.T(), http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	var planned PlanResponse
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &planned))
	require.Equal(s.T(), 93, planned.Plan.SampleSize)

	// Select with the round-tripped plan.
	rec = s.post("/sampling/select", SelectRequest{
		Plan:       planned.Plan,
		Population: s.population(500, 1),
		Seed:       7,
	})
	require.Equal(s.T(), http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	var selected SelectResponse
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &selected))
	assert.Len(s.T(), selected.Items, 93)
	assert.Equal(s.T(), "selected", selected.Plan.State)

	// Evaluate with zero deviations.
	rec = s.post("/sampling/evaluate", EvaluateRequest{
		Plan:            selected.Plan,
		DeviationsFound: 0,
	})
	require.Equal(s.T(), http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	var evaluated EvaluateResponse
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &evaluated))
	assert.Equal(s.T(), "evaluated", evaluated.Plan.State)
	assert.Equal(s.T(), "rely", evaluated.Evaluation.ControlConclusion)
	assert.InDelta(s.T(), 3.00/93.0, evaluated.Evaluation.UpperLimit, 1e-9)
}

func (s *HandlerSuite) TestSelect_SameSeedIsReproducible() {
	planned := PlanPayload{
		Method:     "classical_variables",
		SampleSize: 5,
		State:      "planned",
	}

	first := s.post("/sampling/select", SelectRequest{
		Plan:       planned,
		Population: s.population(40, 125),
		Seed:       99,
	})
	require.Equal(s.T(), http.StatusOK, first.Code)

	second := s.post("/sampling/select", SelectRequest{
		Plan:       planned,
		Population: s.population(40, 125),
		Seed:       99,
	})
	require.Equal(s.T(), http.StatusOK, second.Code)

	assert.JSONEq(s.T(), first.Body.String(), second.Body.String())
}

func (s *HandlerSuite) TestSelect_EvaluatedPlanRejected() {
	rec := s.post("/sampling/select", SelectRequest{
		Plan:       PlanPayload{Method: "classical_variables", SampleSize: 5, State: "evaluated"},
		Population: s.population(40, 125),
		Seed:       1,
	})
	assert.Equal(s.T(), http.StatusConflict, rec.Code)
}

func (s *HandlerSuite) TestEvaluate_UnknownEstimator() {
	rec := s.post("/sampling/evaluate", EvaluateRequest{
		Plan:      PlanPayload{Method: "classical_variables", SampleSize: 5, State: "selected"},
		Estimator: "regression",
		Items:     []AuditedItemRequest{{ID: "a", BookValue: 1, AuditValue: 1}},
	})
	assert.Equal(s.T(), http.StatusUnprocessableEntity, rec.Code)
}
