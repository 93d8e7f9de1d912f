// Package reftables loads the static audit reference tables (reliability
// factors, Z-scores, the attribute sampling table, the IR×CR risk matrix,
// and the procedure catalog) from an embedded YAML document. The tables are
// parsed once, validated, and shared read-only by every engagement worker,
// so concurrent lookups need no locking.
package reftables

import (
	_ "embed"
	"fmt"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"

	"veritas/internal/domain"
	dErrors "veritas/pkg/domain-errors"
)

//go:embed tables.yaml
var tablesYAML []byte

// Tables is the immutable bundle of reference data. Construct via Load or
// MustLoad; never mutate after construction.
type Tables struct {
	reliabilityFactors map[string][]float64
	expansionFactors   map[string]float64
	zScores            map[string]float64
	attributeSizes     map[attributeKey]int
	riskMatrix         map[matrixKey]domain.CombinedRisk
	catalog            map[catalogKey][]string
}

type matrixKey struct {
	inherent domain.RiskLevel
	control  domain.RiskLevel
}

type catalogKey struct {
	accountType domain.AccountType
	assertion   domain.Assertion
}

type attributeKey struct {
	risk      string
	tolerable string
	expected  string
}

// rawTables mirrors the YAML document structure.
type rawTables struct {
	MUS struct {
		ReliabilityFactors map[string][]float64 `yaml:"reliability_factors"`
		ExpansionFactors   map[string]float64   `yaml:"expansion_factors"`
	} `yaml:"mus"`
	Classical struct {
		ZScores map[string]float64 `yaml:"z_scores"`
	} `yaml:"classical"`
	Attribute struct {
		SampleSizes []struct {
			Risk      float64 `yaml:"risk"`
			Tolerable float64 `yaml:"tolerable"`
			Expected  float64 `yaml:"expected"`
			Size      int     `yaml:"size"`
		} `yaml:"sample_sizes"`
	} `yaml:"attribute"`
	RiskMatrix []struct {
		Inherent   string  `yaml:"inherent"`
		Control    string  `yaml:"control"`
		RMM        string  `yaml:"rmm"`
		Detection  string  `yaml:"detection"`
		Multiplier float64 `yaml:"multiplier"`
	} `yaml:"risk_matrix"`
	Procedures []struct {
		AccountType string   `yaml:"account_type"`
		Assertion   string   `yaml:"assertion"`
		Templates   []string `yaml:"templates"`
	} `yaml:"procedures"`
}

var (
	loadOnce sync.Once
	loaded   *Tables
	loadErr  error
)

// Load parses and validates the embedded tables. The result is cached;
// every caller shares the same immutable instance.
func Load() (*Tables, error) {
	loadOnce.Do(func() {
		loaded, loadErr = parse(tablesYAML)
	})
	return loaded, loadErr
}

// MustLoad is Load for wiring paths where a broken embedded table is fatal.
func MustLoad() *Tables {
	t, err := Load()
	if err != nil {
		panic(fmt.Sprintf("reftables: %v", err))
	}
	return t
}

func parse(data []byte) (*Tables, error) {
	var raw rawTables
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse tables: %w", err)
	}

	t := &Tables{
		reliabilityFactors: raw.MUS.ReliabilityFactors,
		expansionFactors:   raw.MUS.ExpansionFactors,
		zScores:            raw.Classical.ZScores,
		attributeSizes:     make(map[attributeKey]int, len(raw.Attribute.SampleSizes)),
		riskMatrix:         make(map[matrixKey]domain.CombinedRisk, len(raw.RiskMatrix)),
		catalog:            make(map[catalogKey][]string, len(raw.Procedures)),
	}

	for _, e := range raw.Attribute.SampleSizes {
		if e.Size <= 0 {
			return nil, fmt.Errorf("attribute sample size must be positive, got %d", e.Size)
		}
		t.attributeSizes[attributeKey{
			risk:      rateKey(e.Risk),
			tolerable: rateKey(e.Tolerable),
			expected:  rateKey(e.Expected),
		}] = e.Size
	}

	for _, e := range raw.RiskMatrix {
		ir, err := domain.ParseRiskLevel(e.Inherent)
		if err != nil {
			return nil, fmt.Errorf("risk matrix: %w", err)
		}
		cr, err := domain.ParseRiskLevel(e.Control)
		if err != nil {
			return nil, fmt.Errorf("risk matrix: %w", err)
		}
		rmm, err := domain.ParseRiskLevel(e.RMM)
		if err != nil {
			return nil, fmt.Errorf("risk matrix: %w", err)
		}
		dr, err := domain.ParseRiskLevel(e.Detection)
		if err != nil {
			return nil, fmt.Errorf("risk matrix: %w", err)
		}
		key := matrixKey{inherent: ir, control: cr}
		if _, dup := t.riskMatrix[key]; dup {
			return nil, fmt.Errorf("risk matrix: duplicate entry %s/%s", ir, cr)
		}
		t.riskMatrix[key] = domain.CombinedRisk{
			RMM:                  rmm,
			DetectionRisk:        dr,
			SampleSizeMultiplier: e.Multiplier,
		}
	}

	for _, e := range raw.Procedures {
		at, err := domain.ParseAccountType(e.AccountType)
		if err != nil {
			return nil, fmt.Errorf("procedure catalog: %w", err)
		}
		as, err := domain.ParseAssertion(e.Assertion)
		if err != nil {
			return nil, fmt.Errorf("procedure catalog: %w", err)
		}
		if len(e.Templates) == 0 {
			return nil, fmt.Errorf("procedure catalog: %s/%s has no templates", at, as)
		}
		t.catalog[catalogKey{accountType: at, assertion: as}] = e.Templates
	}

	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// validate enforces structural invariants the engine relies on: complete
// monotone risk matrix, increasing reliability factor rows, matching
// expansion factors.
func (t *Tables) validate() error {
	for risk, factors := range t.reliabilityFactors {
		if len(factors) == 0 {
			return fmt.Errorf("reliability factors for risk %s are empty", risk)
		}
		for i := 1; i < len(factors); i++ {
			if factors[i] <= factors[i-1] {
				return fmt.Errorf("reliability factors for risk %s must increase, index %d", risk, i)
			}
		}
		if _, ok := t.expansionFactors[risk]; !ok {
			return fmt.Errorf("missing expansion factor for risk %s", risk)
		}
	}

	for _, ir := range domain.RiskLevels {
		for _, cr := range domain.RiskLevels {
			if _, ok := t.riskMatrix[matrixKey{inherent: ir, control: cr}]; !ok {
				return fmt.Errorf("risk matrix: missing entry %s/%s", ir, cr)
			}
		}
	}

	// Raising either axis must never lower RMM or the multiplier.
	for _, ir := range domain.RiskLevels {
		for _, cr := range domain.RiskLevels {
			cell := t.riskMatrix[matrixKey{inherent: ir, control: cr}]
			for _, ir2 := range domain.RiskLevels {
				for _, cr2 := range domain.RiskLevels {
					if ir2.Rank() < ir.Rank() || cr2.Rank() < cr.Rank() {
						continue
					}
					higher := t.riskMatrix[matrixKey{inherent: ir2, control: cr2}]
					if higher.RMM.Rank() < cell.RMM.Rank() {
						return fmt.Errorf("risk matrix: RMM not monotone at %s/%s vs %s/%s", ir, cr, ir2, cr2)
					}
					if higher.SampleSizeMultiplier < cell.SampleSizeMultiplier {
						return fmt.Errorf("risk matrix: multiplier not monotone at %s/%s vs %s/%s", ir, cr, ir2, cr2)
					}
				}
			}
		}
	}

	return nil
}

// rateKey canonicalizes a rate/risk float into a stable two-decimal map key
// so 0.05 and 0.050 address the same row.
func rateKey(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ReliabilityFactor returns the MUS reliability factor for the given risk
// of incorrect acceptance and misstatement count. A missing row or a count
// beyond the tabulated range fails; nothing interpolates silently.
func (t *Tables) ReliabilityFactor(risk float64, misstatements int) (float64, error) {
	factors, ok := t.reliabilityFactors[rateKey(risk)]
	if !ok {
		return 0, dErrors.Newf(dErrors.CodeInvalidInput, "no reliability factors tabulated for risk %.2f", risk)
	}
	if misstatements < 0 || misstatements >= len(factors) {
		return 0, dErrors.Newf(dErrors.CodeInvalidInput, "misstatement count %d outside tabulated range for risk %.2f", misstatements, risk)
	}
	return factors[misstatements], nil
}

// ExpansionFactor returns the MUS expansion factor for expected
// misstatement at the given risk of incorrect acceptance.
func (t *Tables) ExpansionFactor(risk float64) (float64, error) {
	f, ok := t.expansionFactors[rateKey(risk)]
	if !ok {
		return 0, dErrors.Newf(dErrors.CodeInvalidInput, "no expansion factor tabulated for risk %.2f", risk)
	}
	return f, nil
}

// ZScore returns the normal-distribution coefficient for a confidence
// level.
func (t *Tables) ZScore(confidence float64) (float64, error) {
	z, ok := t.zScores[rateKey(confidence)]
	if !ok {
		return 0, dErrors.Newf(dErrors.CodeInvalidInput, "no Z-score tabulated for confidence %.2f", confidence)
	}
	return z, nil
}

// AttributeSampleSize looks up the tabulated attribute sample size. The
// second return reports whether the combination is tabulated; callers fall
// back to the binomial approximation when it is not.
func (t *Tables) AttributeSampleSize(risk, tolerable, expected float64) (int, bool) {
	size, ok := t.attributeSizes[attributeKey{
		risk:      rateKey(risk),
		tolerable: rateKey(tolerable),
		expected:  rateKey(expected),
	}]
	return size, ok
}

// CombinedRisk resolves an IR×CR pair against the risk matrix.
func (t *Tables) CombinedRisk(inherent, control domain.RiskLevel) (domain.CombinedRisk, error) {
	cell, ok := t.riskMatrix[matrixKey{inherent: inherent, control: control}]
	if !ok {
		return domain.CombinedRisk{}, dErrors.Newf(dErrors.CodeUnsupportedRiskCombination,
			"no risk matrix entry for inherent=%s control=%s", inherent, control)
	}
	return cell, nil
}

// ProcedureTemplates returns the catalog templates for an account type and
// assertion. The second return reports whether the combination is catalogued.
func (t *Tables) ProcedureTemplates(accountType domain.AccountType, assertion domain.Assertion) ([]string, bool) {
	templates, ok := t.catalog[catalogKey{accountType: accountType, assertion: assertion}]
	return templates, ok
}
