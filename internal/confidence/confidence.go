// Package confidence scores how complete a valuation submission is.
package confidence

import (
	"math"

	"github.com/sells-group/bizval/internal/model"
)

const (
	// Min is the lowest score ever returned.
	Min = 10
	// Max is the highest score ever returned.
	Max = 95
)

type tier struct {
	weight float64
	fields []model.Field
}

// tiers weight completeness: essential fields carry half the score,
// important fields 30% and additional fields 20%.
var tiers = []tier{
	{0.5, []model.Field{
		model.FieldRevenue, model.FieldEBITDA, model.FieldCashFlow, model.FieldAskingPrice, model.FieldIndustry,
	}},
	{0.3, []model.Field{
		model.FieldLocation, model.FieldYearsInOperation, model.FieldEmployees, model.FieldGrowthRate,
		model.FieldInventoryValue, model.FieldFFEValue, model.FieldRecurringRevenue, model.FieldOwnerHoursPerWeek,
	}},
	{0.2, []model.Field{
		model.FieldRevenuePrevYear, model.FieldRevenueTwoYearsAgo, model.FieldEBITDAPrevYear, model.FieldEBITDATwoYearsAgo,
		model.FieldClientConcentration, model.FieldProfitMargin, model.FieldHasIntellectualProperty,
		model.FieldHasDocumentedSystems, model.FieldHasTrainingMaterials,
	}},
}

// Score returns a completeness-weighted confidence in [Min, Max].
func Score(m *model.Metrics) int {
	if m == nil {
		return Min
	}

	base := baseline(m)
	completeness := 0.0
	for _, t := range tiers {
		filled := 0
		for _, f := range t.fields {
			if m.Has(f) {
				filled++
			}
		}
		completeness += float64(filled) / float64(len(t.fields)) * t.weight
	}

	score := base + completeness*(100-base)
	if m.HasThreeYearsRevenue() {
		score += 5
	}
	if m.Has(model.FieldEBITDA) && m.Has(model.FieldEBITDAPrevYear) {
		score += 5
	}
	return int(math.Max(Min, math.Min(Max, math.Round(score))))
}

// baseline is 50 with two or more core financials, 40 with one and 30 with
// none.
func baseline(m *model.Metrics) float64 {
	n := 0
	for _, f := range []model.Field{model.FieldRevenue, model.FieldEBITDA, model.FieldCashFlow} {
		if m.Has(f) {
			n++
		}
	}
	switch {
	case n > 1:
		return 50
	case n == 1:
		return 40
	default:
		return 30
	}
}
