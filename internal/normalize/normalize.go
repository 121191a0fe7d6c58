// Package normalize coerces loosely-typed valuation submissions into typed metrics.
package normalize

import (
	"math"

	"go.uber.org/zap"

	"github.com/sells-group/bizval/internal/model"
)

// maxCount caps integer fields so absurd inputs cannot overflow int.
const maxCount = 1_000_000

// coercion binds a canonical field to the raw keys it may arrive under and
// the setter that stores the coerced value. The first non-empty key wins;
// apply reports false when the value was unusable and the default stands.
type coercion struct {
	field model.Field
	keys  []string
	apply func(m *model.Metrics, raw any) bool
}

func money(f model.Field, set func(*model.Metrics, float64), keys ...string) coercion {
	return coercion{field: f, keys: keys, apply: func(m *model.Metrics, raw any) bool {
		set(m, math.Max(0, ParseNumber(raw)))
		return true
	}}
}

func signed(f model.Field, set func(*model.Metrics, float64), keys ...string) coercion {
	return coercion{field: f, keys: keys, apply: func(m *model.Metrics, raw any) bool {
		set(m, ParseNumber(raw))
		return true
	}}
}

func count(f model.Field, set func(*model.Metrics, int), keys ...string) coercion {
	return coercion{field: f, keys: keys, apply: func(m *model.Metrics, raw any) bool {
		n := math.Min(math.Max(0, math.Trunc(ParseNumber(raw))), maxCount)
		set(m, int(n))
		return true
	}}
}

func flag(f model.Field, set func(*model.Metrics, bool), keys ...string) coercion {
	return coercion{field: f, keys: keys, apply: func(m *model.Metrics, raw any) bool {
		set(m, ParseBool(raw))
		return true
	}}
}

// coercions is the per-field coercion table. Keys cover the camelCase API
// names, the snake_case form names and the legacy listing names.
var coercions = []coercion{
	money(model.FieldRevenue, func(m *model.Metrics, v float64) { m.Revenue = v }, "revenue", "grossRevenue", "gross_revenue"),
	money(model.FieldEBITDA, func(m *model.Metrics, v float64) { m.EBITDA = v }, "ebitda"),
	money(model.FieldCashFlow, func(m *model.Metrics, v float64) { m.CashFlow = v }, "cashFlow", "cash_flow"),
	money(model.FieldAskingPrice, func(m *model.Metrics, v float64) { m.AskingPrice = v }, "askingPrice", "asking_price", "price"),
	money(model.FieldRevenuePrevYear, func(m *model.Metrics, v float64) { m.RevenuePrevYear = v }, "revenuePrevYear", "revenue_prev_year"),
	money(model.FieldRevenueTwoYearsAgo, func(m *model.Metrics, v float64) { m.RevenueTwoYearsAgo = v }, "revenueTwoYearsAgo", "revenue_2_years_ago"),
	money(model.FieldEBITDAPrevYear, func(m *model.Metrics, v float64) { m.EBITDAPrevYear = v }, "ebitdaPrevYear", "ebitda_prev_year"),
	money(model.FieldEBITDATwoYearsAgo, func(m *model.Metrics, v float64) { m.EBITDATwoYearsAgo = v }, "ebitdaTwoYearsAgo", "ebitda_2_years_ago"),
	money(model.FieldFFEValue, func(m *model.Metrics, v float64) { m.FFEValue = v }, "ffeValue", "ffe", "ffe_value"),
	money(model.FieldInventoryValue, func(m *model.Metrics, v float64) { m.InventoryValue = v }, "inventoryValue", "inventory"),
	money(model.FieldDebtAmount, func(m *model.Metrics, v float64) { m.DebtAmount = v }, "debtAmount", "total_debt_amount", "debt_amount"),
	money(model.FieldRecurringRevenue, func(m *model.Metrics, v float64) { m.RecurringRevenue = v }, "recurringRevenue", "recurring_revenue"),

	count(model.FieldYearsInOperation, func(m *model.Metrics, v int) { m.YearsInOperation = v }, "yearsInOperation", "years_in_operation"),
	count(model.FieldEmployees, func(m *model.Metrics, v int) { m.Employees = v }, "employees"),
	signed(model.FieldGrowthRate, func(m *model.Metrics, v float64) { m.GrowthRate = v }, "growthRate", "growth_rate"),
	signed(model.FieldAvgGrowthRate, func(m *model.Metrics, v float64) { m.AvgGrowthRate = v }, "avgGrowthRate", "avg_growth_rate"),
	signed(model.FieldProfitMargin, func(m *model.Metrics, v float64) { m.ProfitMargin = v }, "profitMargin", "profit_margin"),
	signed(model.FieldClientConcentration, func(m *model.Metrics, v float64) {
		m.ClientConcentration = math.Min(100, math.Max(0, v))
	}, "clientConcentration", "client_concentration"),
	money(model.FieldOwnerHoursPerWeek, func(m *model.Metrics, v float64) { m.OwnerHoursPerWeek = v }, "ownerHoursPerWeek", "ownerHours", "owner_hours"),

	flag(model.FieldOwnerOperated, func(m *model.Metrics, v bool) { m.OwnerOperated = v }, "ownerOperated", "owner_operated"),
	flag(model.FieldHasDocumentedSystems, func(m *model.Metrics, v bool) { m.HasDocumentedSystems = v }, "hasDocumentedSystems", "hasSystems", "has_systems"),
	flag(model.FieldHasTrainingMaterials, func(m *model.Metrics, v bool) { m.HasTrainingMaterials = v }, "hasTrainingMaterials", "hasTraining", "has_training"),
	flag(model.FieldHasIntellectualProperty, func(m *model.Metrics, v bool) { m.HasIntellectualProperty = v }, "hasIntellectualProperty", "intellectualProperty", "intellectual_property"),

	{field: model.FieldIndustry, keys: []string{"industry"}, apply: func(m *model.Metrics, raw any) bool {
		s, ok := parseText(raw)
		if !ok || s == "" {
			return false
		}
		m.Industry = s
		return true
	}},
	{field: model.FieldLocation, keys: []string{"location"}, apply: func(m *model.Metrics, raw any) bool {
		s, ok := parseText(raw)
		if !ok {
			return false
		}
		m.Location = s
		return true
	}},
}

// lookup returns the first non-empty value stored under any of keys.
func lookup(raw map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := raw[k]; ok && !isEmpty(v) {
			return v, true
		}
	}
	return nil, false
}

// Normalize builds fully-populated metrics from a raw submission. It never
// fails: missing or malformed fields take their zero defaults, industry
// falls back to "Other", and growth rate, average growth rate and profit
// margin are derived when not supplied and the source data allows it.
func Normalize(raw map[string]any) *model.Metrics {
	m := &model.Metrics{
		Industry: model.DefaultIndustry,
		Supplied: make(map[model.Field]bool),
	}

	for _, c := range coercions {
		v, ok := lookup(raw, c.keys)
		if !ok {
			continue
		}
		if c.apply(m, v) {
			m.Supplied[c.field] = true
		}
	}

	if !m.Supplied[model.FieldIndustry] {
		zap.L().Debug("normalize: missing or invalid industry, using default",
			zap.String("industry", model.DefaultIndustry),
		)
	}

	derive(m)
	return m
}

// derive fills growth rate, average growth rate and profit margin. Derived
// values are marked supplied so that completeness reflects them.
func derive(m *model.Metrics) {
	if m.GrowthRate == 0 && m.RevenuePrevYear > 0 && m.Revenue > 0 {
		m.GrowthRate = (m.Revenue - m.RevenuePrevYear) / m.RevenuePrevYear * 100
		m.Supplied[model.FieldGrowthRate] = true
	}

	if m.AvgGrowthRate == 0 {
		if m.RevenuePrevYear > 0 && m.RevenueTwoYearsAgo > 0 {
			olderGrowth := (m.RevenuePrevYear - m.RevenueTwoYearsAgo) / m.RevenueTwoYearsAgo * 100
			recentGrowth := (m.Revenue - m.RevenuePrevYear) / m.RevenuePrevYear * 100
			m.AvgGrowthRate = (olderGrowth + recentGrowth) / 2
			m.Supplied[model.FieldAvgGrowthRate] = true
		} else {
			m.AvgGrowthRate = m.GrowthRate
		}
	}

	if m.ProfitMargin == 0 && m.Revenue > 0 && m.EBITDA != 0 {
		m.ProfitMargin = m.EBITDA / m.Revenue * 100
		m.Supplied[model.FieldProfitMargin] = true
	}
}

// ValidateMinimumInput reports whether a submission carries enough data to
// be worth valuing: a positive revenue or EBITDA under any accepted key.
func ValidateMinimumInput(raw map[string]any) bool {
	for _, c := range coercions {
		if c.field != model.FieldRevenue && c.field != model.FieldEBITDA {
			continue
		}
		if v, ok := lookup(raw, c.keys); ok && ParseNumber(v) > 0 {
			return true
		}
	}
	return false
}
