// Package insight turns a valuation into the comparables, recommendations
// and narrative shown to sellers.
package insight

import (
	"fmt"
	"strings"

	"github.com/sells-group/bizval/internal/model"
)

// inventoryBenchmarks gives the typical inventory share of revenue for
// stock-heavy industries.
var inventoryBenchmarks = map[string]string{
	"retail":             "20-30%",
	"restaurants & food": "10-20%",
}

// Comparables compares the multiples implied by the valuation with the
// industry profile. Only metrics the business actually reported get a row.
func Comparables(m *model.Metrics, p model.IndustryProfile, estimate, multiple float64, t model.MultipleType) *model.Comparables {
	c := &model.Comparables{
		Intro:   fmt.Sprintf("Comparing your metrics to typical benchmarks for the %s industry:", m.Industry),
		Metrics: []model.ComparableMetric{},
	}

	if m.Revenue > 0 {
		yours := 0.0
		switch {
		case t == model.MultipleRevenue:
			yours = multiple
		case m.EBITDA > 0:
			yours = estimate / m.Revenue
		}
		value := "N/A"
		if yours > 0 {
			value = fmt.Sprintf("%.2fx", yours)
		}
		c.Metrics = append(c.Metrics, model.ComparableMetric{
			Name:            "Revenue Multiple",
			YourValue:       value,
			IndustryAverage: fmt.Sprintf("%.2fx - %.2fx", p.MinRevenueMultiplier, p.MaxRevenueMultiplier),
		})
	}

	switch {
	case m.EBITDA > 0:
		yours := estimate / m.EBITDA
		if t == model.MultipleEBITDA {
			yours = multiple
		}
		c.Metrics = append(c.Metrics, model.ComparableMetric{
			Name:            "EBITDA Multiple",
			YourValue:       fmt.Sprintf("%.1fx", yours),
			IndustryAverage: fmt.Sprintf("%.1fx", p.EBITDAMultiplier),
		})
	case m.CashFlow > 0:
		yours := estimate / m.CashFlow
		if t == model.MultipleCashFlow {
			yours = multiple
		}
		c.Metrics = append(c.Metrics, model.ComparableMetric{
			Name:            "Cash Flow Multiple",
			YourValue:       fmt.Sprintf("%.1fx", yours),
			IndustryAverage: fmt.Sprintf("%.1fx", p.EBITDAMultiplier*0.9),
		})
	}

	if bench, ok := inventoryBenchmarks[strings.ToLower(m.Industry)]; ok {
		value := "N/A"
		if m.Revenue > 0 {
			value = fmt.Sprintf("%.1f%%", m.InventoryValue/m.Revenue*100)
		}
		c.Metrics = append(c.Metrics, model.ComparableMetric{
			Name:            "Inventory as % of Value",
			YourValue:       value,
			IndustryAverage: bench,
		})
	}
	return c
}
