package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"veritas/internal/materiality"
)

// HandlerSuite provides shared test setup for materiality handler tests.
// Uses the real service; handler tests validate HTTP concerns only.
type HandlerSuite struct {
	suite.Suite
	router http.Handler
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	handler := New(materiality.NewService(logger), logger)

	r := chi.NewRouter()
	handler.Register(r)
	s.router = r
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) post(body any) *httptest.ResponseRecorder {
	raw, err := json.Marshal(body)
	require.NoError(s.T(), err)

	req := httptest.NewRequest(http.MethodPost, "/materiality/calculate", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// =============================================================================
// POST /materiality/calculate
// =============================================================================

func (s *HandlerSuite) TestCalculate_ValidRequest() {
	rec := s.post(CalculateRequest{
		TotalAssets:  "13200000",
		TotalRevenue: "18000000",
		PretaxIncome: "500000",
		TotalEquity:  "7000000",
		EntityType:   "private",
	})

	require.Equal(s.T(), http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	var resp CalculateResponse
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(s.T(), "72000", resp.OverallMateriality)
	assert.Equal(s.T(), "46800", resp.PerformanceMateriality)
	assert.Equal(s.T(), "2880", resp.TrivialThreshold)
	assert.Equal(s.T(), "total_revenue", resp.BenchmarkUsed)
	assert.Len(s.T(), resp.AllBenchmarks, 3, "unstable income is not a candidate")
}

func (s *HandlerSuite) TestCalculate_InvalidJSON() {
	req := httptest.NewRequest(http.MethodPost, "/materiality/calculate",
		bytes.NewReader([]byte("not valid json")))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestCalculate_MissingFields() {
	rec := s.post(CalculateRequest{TotalAssets: "100"})
	assert.Equal(s.T(), http.StatusUnprocessableEntity, rec.Code)
}

func (s *HandlerSuite) TestCalculate_MalformedAmount() {
	rec := s.post(CalculateRequest{
		TotalAssets:  "13,200,000",
		TotalRevenue: "18000000",
		PretaxIncome: "500000",
		TotalEquity:  "7000000",
		EntityType:   "private",
	})
	assert.Equal(s.T(), http.StatusUnprocessableEntity, rec.Code)
}

func (s *HandlerSuite) TestCalculate_InsufficientData() {
	rec := s.post(CalculateRequest{
		TotalAssets:  "0",
		TotalRevenue: "0",
		PretaxIncome: "0",
		TotalEquity:  "0",
		EntityType:   "public",
	})

	assert.Equal(s.T(), http.StatusUnprocessableEntity, rec.Code)

	var body map[string]string
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(s.T(), "insufficient_financial_data", body["error"])
}
