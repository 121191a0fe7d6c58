package valuation

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/sells-group/bizval/internal/model"
)

// simplifiedConfidence is the fixed confidence of a simplified valuation
// by basis, before the asking-price bonus.
var simplifiedConfidence = map[model.MultipleType]int{
	model.MultipleEBITDA:   75,
	model.MultipleCashFlow: 65,
	model.MultipleRevenue:  55,
	model.MultipleMinimum:  30,
}

// Simplified values the business from its basis alone, blending an asking
// price at a fixed 50% and skipping every adjustment. It returns the
// outcome and its confidence.
func Simplified(m *model.Metrics, p model.IndustryProfile) (Outcome, int, error) {
	b := selectBasis(m, p)

	s := state{estimate: b.estimate}
	if m.AskingPrice > 0 {
		s.estimate = s.estimate*0.5 + m.AskingPrice*0.5
	}
	s.min = math.Max(MinRange, s.estimate*0.75)
	s.max = math.Max(s.min*1.5, s.estimate*1.25)
	if m.AskingPrice > 0 {
		if m.AskingPrice < s.min {
			s.min = math.Max(MinRange, m.AskingPrice*0.9)
		}
		if m.AskingPrice > s.max {
			s.max = m.AskingPrice * 1.1
		}
	}
	if !s.finite() {
		return Outcome{}, 0, eris.Errorf("valuation: simplified: non-finite %s basis", b.multipleType)
	}

	s = finalize(s)
	if err := checkInvariants(s); err != nil {
		return Outcome{}, 0, eris.Wrap(err, "valuation: simplified")
	}

	conf := simplifiedConfidence[b.multipleType]
	if m.AskingPrice > 0 {
		conf += 5
	}

	return Outcome{
		Estimate:     s.estimate,
		Range:        model.Range{Min: s.min, Max: s.max},
		Multiple:     b.multiple,
		MultipleType: b.multipleType,
		Factors: []model.Factor{{
			Key:      "fallback",
			Impact:   0,
			Analysis: "Simplified valuation based on core financial metrics only; detailed adjustments could not be applied",
		}},
	}, conf, nil
}

// Absolute returns the fixed last-resort valuation.
func Absolute() model.Result {
	return model.Result{
		EstimatedValue: MinValuation,
		ValuationRange: model.Range{Min: MinRange, Max: MinValuation * 1.5},
		Confidence:     10,
		Multiple:       0,
		MultipleType:   model.MultipleMinimum,
		Summary:        "Minimum baseline valuation; the submitted data could not be evaluated",
		Factors: []model.Factor{{
			Key:      "error",
			Impact:   -20,
			Analysis: "Valuation could not be calculated from the supplied data. Showing the minimum baseline value.",
		}},
		PriceComparison: model.PriceComparison{Status: model.PriceUnknown},
	}
}
