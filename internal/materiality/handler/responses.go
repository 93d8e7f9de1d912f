package handler

import (
	"veritas/internal/materiality"
)

// CalculateResponse is the HTTP response for POST /materiality/calculate.
type CalculateResponse struct {
	OverallMateriality     string            `json:"overall_materiality"`
	PerformanceMateriality string            `json:"performance_materiality"`
	TrivialThreshold       string            `json:"trivial_threshold"`
	BenchmarkUsed          string            `json:"benchmark_used"`
	AllBenchmarks          map[string]string `json:"all_benchmarks"`
}

// FromResult converts a materiality result to an HTTP response.
func FromResult(result *materiality.Result) *CalculateResponse {
	benchmarks := make(map[string]string, len(result.AllBenchmarks))
	for name, amount := range result.AllBenchmarks {
		benchmarks[name] = amount.String()
	}
	return &CalculateResponse{
		OverallMateriality:     result.OverallMateriality.String(),
		PerformanceMateriality: result.PerformanceMateriality.String(),
		TrivialThreshold:       result.TrivialThreshold.String(),
		BenchmarkUsed:          result.BenchmarkUsed,
		AllBenchmarks:          benchmarks,
	}
}
