package insight

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sells-group/bizval/internal/currency"
	"github.com/sells-group/bizval/internal/model"
	"github.com/sells-group/bizval/internal/multiplier"
)

// Summary is the one-line headline of a valuation.
func Summary(m *model.Metrics, factorCount int) string {
	return fmt.Sprintf("Valuation based on %s metrics and %d business factors", industryName(m, "your industry"), factorCount)
}

// Insights lists observations about the business that explain its value.
func Insights(m *model.Metrics, r model.Result) []string {
	var out []string

	p := r.IndustryData
	if p == nil {
		generic := multiplier.Fallback(model.DefaultIndustry)
		p = &generic
	}
	out = append(out, fmt.Sprintf("%s businesses typically sell for %sx-%sx revenue or %sx EBITDA.",
		industryName(m, "Your industry"), currency.Decimal(p.MinRevenueMultiplier), currency.Decimal(p.MaxRevenueMultiplier), currency.Decimal(p.EBITDAMultiplier)))

	switch {
	case m.EBITDA > 0 && m.Revenue > 0:
		margin := m.EBITDA / m.Revenue * 100
		verdict := "could be improved to increase"
		if margin > 15 {
			verdict = "is strong and positively impacts"
		}
		out = append(out, fmt.Sprintf("Your current profit margin of %.1f%% %s your overall valuation.", margin, verdict))
	case m.CashFlow > 0 && m.Revenue > 0:
		out = append(out, fmt.Sprintf("Your cash flow represents %.1f%% of revenue. Improving profitability metrics could increase your valuation.", m.CashFlow/m.Revenue*100))
	}

	switch years := m.YearsInOperation; {
	case years > 10:
		out = append(out, fmt.Sprintf("Your business's %d year track record demonstrates significant stability, which is valued by buyers.", years))
	case years > 5:
		out = append(out, fmt.Sprintf("With %d years in operation, your business has established a solid operational history.", years))
	case years > 0:
		out = append(out, fmt.Sprintf("At %d years old, your business is relatively young. A longer operational history typically increases valuation.", years))
	}

	switch g := m.GrowthRate; {
	case g > 10:
		out = append(out, fmt.Sprintf("Your growth rate of %.1f%% is above average and significantly enhances your business valuation.", g))
	case g > 0:
		out = append(out, fmt.Sprintf("Your modest growth rate of %.1f%% provides some positive impact on valuation.", g))
	case g < 0:
		out = append(out, fmt.Sprintf("Your negative growth rate of %.1f%% is concerning to potential buyers and reduces valuation.", g))
	}

	if m.RecurringRevenue > 0 && m.Revenue > 0 {
		pct := m.RecurringRevenue / m.Revenue * 100
		switch {
		case pct > 50:
			out = append(out, fmt.Sprintf("Your business has %.1f%% recurring revenue, which is excellent and significantly increases buyer interest and valuation.", pct))
		case pct > 20:
			out = append(out, fmt.Sprintf("Your %.1f%% recurring revenue provides stability that buyers value.", pct))
		}
	}

	switch {
	case m.HasDocumentedSystems && m.HasTrainingMaterials:
		out = append(out, "Your documented systems and training materials increase business transferability and positively impact valuation.")
	case m.HasDocumentedSystems:
		out = append(out, "Having documented systems increases business transferability.")
	case m.HasTrainingMaterials:
		out = append(out, "Having training materials increases business transferability.")
	}

	switch h := m.OwnerHoursPerWeek; {
	case h >= 40:
		out = append(out, fmt.Sprintf("The owner currently works %s hours weekly. High owner dependence typically reduces business value.", currency.Decimal(h)))
	case h > 0 && h < 20:
		out = append(out, fmt.Sprintf("The owner only works %s hours weekly, indicating good systems and low owner dependence.", currency.Decimal(h)))
	}

	if assets := m.FFEValue + m.InventoryValue; assets > 0 {
		out = append(out, fmt.Sprintf("Your business includes tangible assets worth approximately %s, which adds value beyond just revenue multiples.", currency.Format(assets)))
	}

	if m.ClientConcentration > 30 {
		out = append(out, fmt.Sprintf("Client concentration of %.1f%% (revenue from top client) creates risk that reduces business value.", m.ClientConcentration))
	}

	switch c := r.Confidence; {
	case c > 70:
		out = append(out, fmt.Sprintf("The valuation confidence score of %d%% indicates that sufficient data was provided for a reliable estimate.", c))
	case c > 50:
		out = append(out, fmt.Sprintf("The valuation confidence score of %d%% suggests this is a moderate estimate that could be refined with more data.", c))
	default:
		out = append(out, fmt.Sprintf("The valuation confidence score of %d%% indicates this is a preliminary estimate. Providing more business details would improve accuracy.", c))
	}
	return out
}

// Explain narrates the valuation basis, the two strongest positive and
// negative factors and how reliable the estimate is.
func Explain(m *model.Metrics, r model.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Based on %s benchmarks, ", industryName(m, "your industry"))

	switch r.MultipleType {
	case model.MultipleEBITDA:
		fmt.Fprintf(&b, "your business valuation uses an EBITDA multiple of %.1fx. ", r.Multiple)
	case model.MultipleCashFlow:
		fmt.Fprintf(&b, "your business valuation uses a Cash Flow multiple of %.1fx. ", r.Multiple)
	case model.MultipleRevenue:
		fmt.Fprintf(&b, "your business valuation uses a Revenue multiple of %.2fx. ", r.Multiple)
	default:
		b.WriteString("your business valuation is based on standard industry metrics. ")
	}

	ranked := append([]model.Factor(nil), r.Factors...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return math.Abs(ranked[i].Impact) > math.Abs(ranked[j].Impact)
	})
	var positive, negative []string
	for _, f := range ranked {
		switch {
		case f.Impact > 0 && len(positive) < 2:
			positive = append(positive, strings.ToLower(f.Analysis))
		case f.Impact < 0 && len(negative) < 2:
			negative = append(negative, strings.ToLower(f.Analysis))
		}
	}
	if len(positive) > 0 {
		fmt.Fprintf(&b, "Key strengths increasing your valuation include %s. ", strings.Join(positive, " and "))
	}
	if len(negative) > 0 {
		fmt.Fprintf(&b, "Factors that may be limiting your valuation include %s. ", strings.Join(negative, " and "))
	}

	reliability := "a general estimate"
	switch {
	case r.Confidence > 70:
		reliability = "highly reliable"
	case r.Confidence > 50:
		reliability = "moderately reliable"
	}
	fmt.Fprintf(&b, "The valuation confidence is %d%%, meaning it is %s based on the information provided.", r.Confidence, reliability)
	return b.String()
}

// industryName is the submitted industry, or def when none was given.
func industryName(m *model.Metrics, def string) string {
	if m.Has(model.FieldIndustry) {
		return m.Industry
	}
	return def
}
