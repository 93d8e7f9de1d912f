package domain

// CombinedRisk is one cell of the IR×CR risk matrix: the combined risk of
// material misstatement, the detection risk the auditor can accept, and the
// factor applied to baseline sample sizes.
type CombinedRisk struct {
	RMM                  RiskLevel
	DetectionRisk        RiskLevel
	SampleSizeMultiplier float64
}
