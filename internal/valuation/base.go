// Package valuation computes business valuations from normalized metrics
// and an industry multiplier profile.
package valuation

import (
	"fmt"

	"github.com/sells-group/bizval/internal/currency"
	"github.com/sells-group/bizval/internal/model"
)

const (
	// MinValuation is the floor for every estimate.
	MinValuation = 15000
	// MinRange is the floor for the lower bound of the range.
	MinRange = MinValuation * 0.7
	// minRevenue is the revenue below which revenue is not a usable basis.
	minRevenue = 10000
	// cashFlowDiscount scales the EBITDA multiple for cash-flow valuations.
	cashFlowDiscount = 0.9
)

// basis is the tier-one valuation before any adjustment.
type basis struct {
	estimate     float64
	min, max     float64
	multiple     float64
	multipleType model.MultipleType
	factor       model.Factor
}

// selectBasis picks the first usable tier: EBITDA, cash flow, revenue, then
// the minimum baseline. The range comes from the revenue multiples when
// revenue is usable and from ±25% of the estimate otherwise.
func selectBasis(m *model.Metrics, p model.IndustryProfile) basis {
	revenueUsable := m.Revenue >= minRevenue

	var b basis
	switch {
	case m.EBITDA > 0 && (revenueUsable || m.Revenue == 0):
		b = basis{
			estimate:     m.EBITDA * p.EBITDAMultiplier,
			multiple:     p.EBITDAMultiplier,
			multipleType: model.MultipleEBITDA,
			factor: model.Factor{
				Key:      "ebitda",
				Impact:   10,
				Analysis: fmt.Sprintf("Based on EBITDA of %s with industry multiple of %.1fx", currency.Format(m.EBITDA), p.EBITDAMultiplier),
			},
		}
	case m.CashFlow > 0:
		mult := p.EBITDAMultiplier * cashFlowDiscount
		b = basis{
			estimate:     m.CashFlow * mult,
			multiple:     mult,
			multipleType: model.MultipleCashFlow,
			factor: model.Factor{
				Key:      "cash_flow",
				Impact:   8,
				Analysis: fmt.Sprintf("Based on Cash Flow of %s with industry multiple of %.1fx", currency.Format(m.CashFlow), mult),
			},
		}
	case revenueUsable:
		mult := (p.MinRevenueMultiplier + p.MaxRevenueMultiplier) / 2
		b = basis{
			estimate:     m.Revenue * mult,
			multiple:     mult,
			multipleType: model.MultipleRevenue,
			factor: model.Factor{
				Key:      "revenue",
				Impact:   5,
				Analysis: fmt.Sprintf("Based on Revenue of %s with industry multiple of %.2fx", currency.Format(m.Revenue), mult),
			},
		}
	default:
		return basis{
			estimate:     MinValuation,
			min:          MinValuation * 0.8,
			max:          MinValuation * 1.5,
			multipleType: model.MultipleMinimum,
			factor: model.Factor{
				Key:      "minimal_data",
				Impact:   -10,
				Analysis: "Insufficient financial data. Using minimum valuation baseline.",
			},
		}
	}

	if revenueUsable {
		b.min = m.Revenue * p.MinRevenueMultiplier
		b.max = m.Revenue * p.MaxRevenueMultiplier
	} else {
		b.min = b.estimate * 0.75
		b.max = b.estimate * 1.25
	}
	return b
}

// askingWeight is the share of the asking price in the blended estimate.
func askingWeight(t model.MultipleType) float64 {
	switch t {
	case model.MultipleEBITDA, model.MultipleCashFlow:
		return 0.35
	case model.MultipleRevenue:
		return 0.45
	default:
		return 0.6
	}
}
