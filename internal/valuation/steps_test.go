package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/bizval/internal/model"
)

func startState() state {
	return state{estimate: 1000000, min: 500000, max: 1500000}
}

func TestSteps(t *testing.T) {
	profile := model.IndustryProfile{
		Industry:             "Retail",
		MinRevenueMultiplier: 0.5,
		MaxRevenueMultiplier: 1.5,
		EBITDAMultiplier:     3,
		AvgProfitMargin:      10,
	}

	tests := []struct {
		name   string
		apply  func(state, input) state
		m      model.Metrics
		factor float64 // 1 means the step leaves the state untouched
		b      bound
		key    string
		impact any // nil skips the impact check
	}{
		{"growth 21", adjustGrowth, model.Metrics{GrowthRate: 21}, 1.3, boundMax, "growth_rate", 15.0},
		{"growth 20", adjustGrowth, model.Metrics{GrowthRate: 20}, 1.2, boundMax, "growth_rate", 10.0},
		{"growth 11", adjustGrowth, model.Metrics{GrowthRate: 11}, 1.2, boundMax, "growth_rate", 10.0},
		{"growth 10", adjustGrowth, model.Metrics{GrowthRate: 10}, 1.1, boundMax, "growth_rate", 5.0},
		{"growth 6", adjustGrowth, model.Metrics{GrowthRate: 6}, 1.1, boundMax, "growth_rate", 5.0},
		{"growth 5", adjustGrowth, model.Metrics{GrowthRate: 5}, 1, boundNone, "", nil},
		{"growth 0", adjustGrowth, model.Metrics{GrowthRate: 0}, 1, boundNone, "", nil},
		{"growth -1", adjustGrowth, model.Metrics{GrowthRate: -1}, 0.95, boundMin, "growth_rate", nil},
		{"growth -5", adjustGrowth, model.Metrics{GrowthRate: -5}, 0.95, boundMin, "growth_rate", nil},
		{"growth -6", adjustGrowth, model.Metrics{GrowthRate: -6}, 0.9, boundMin, "growth_rate", -5.0},
		{"growth -10", adjustGrowth, model.Metrics{GrowthRate: -10}, 0.9, boundMin, "growth_rate", -5.0},
		{"growth -11", adjustGrowth, model.Metrics{GrowthRate: -11}, 0.8, boundMin, "growth_rate", -10.0},

		{"age 11", adjustAge, model.Metrics{YearsInOperation: 11}, 1.1, boundNone, "business_age", 5.0},
		{"age 10", adjustAge, model.Metrics{YearsInOperation: 10}, 1.05, boundNone, "business_age", nil},
		{"age 6", adjustAge, model.Metrics{YearsInOperation: 6}, 1.05, boundNone, "business_age", nil},
		{"age 5", adjustAge, model.Metrics{YearsInOperation: 5}, 1, boundNone, "", nil},
		{"age 2", adjustAge, model.Metrics{YearsInOperation: 2}, 1, boundNone, "", nil},
		{"age 1", adjustAge, model.Metrics{YearsInOperation: 1}, 0.9, boundNone, "business_age", -5.0},

		{"employees 51", adjustWorkforce, model.Metrics{Employees: 51}, 1.1, boundNone, "workforce", 5.0},
		{"employees 50", adjustWorkforce, model.Metrics{Employees: 50}, 1.05, boundNone, "workforce", 3.0},
		{"employees 21", adjustWorkforce, model.Metrics{Employees: 21}, 1.05, boundNone, "workforce", 3.0},
		{"employees 20", adjustWorkforce, model.Metrics{Employees: 20}, 1.02, boundNone, "workforce", 1.0},
		{"employees 6", adjustWorkforce, model.Metrics{Employees: 6}, 1.02, boundNone, "workforce", 1.0},
		{"employees 5", adjustWorkforce, model.Metrics{Employees: 5}, 1, boundNone, "", nil},

		{"owner 40h", adjustOwnerDependence, model.Metrics{OwnerHoursPerWeek: 40}, 0.9, boundMin, "owner_dependence", -5.0},
		{"owner 39h", adjustOwnerDependence, model.Metrics{OwnerHoursPerWeek: 39}, 0.95, boundMin, "owner_dependence", -2.5},
		{"owner 20h", adjustOwnerDependence, model.Metrics{OwnerHoursPerWeek: 20}, 0.95, boundMin, "owner_dependence", -2.5},
		{"owner 19h", adjustOwnerDependence, model.Metrics{OwnerHoursPerWeek: 19}, 1, boundNone, "", nil},
		{"owner 10h", adjustOwnerDependence, model.Metrics{OwnerHoursPerWeek: 10}, 1, boundNone, "", nil},
		{"owner 9h", adjustOwnerDependence, model.Metrics{OwnerHoursPerWeek: 9}, 1.05, boundMax, "owner_dependence", 2.5},

		{"documented systems", adjustSystems, model.Metrics{HasDocumentedSystems: true}, 1.05, boundMax, "systems_documentation", nil},
		{"systems and training", adjustSystems, model.Metrics{HasDocumentedSystems: true, HasTrainingMaterials: true}, 1.1, boundMax, "systems_documentation", 5.0},

		{"recurring 70%", adjustRecurringRevenue, model.Metrics{Revenue: 1000000, RecurringRevenue: 700000}, 1.2, boundMax, "recurring_revenue", 10.0},
		{"recurring 69%", adjustRecurringRevenue, model.Metrics{Revenue: 1000000, RecurringRevenue: 690000}, 1.1, boundMax, "recurring_revenue", 5.0},
		{"recurring 40%", adjustRecurringRevenue, model.Metrics{Revenue: 1000000, RecurringRevenue: 400000}, 1.1, boundMax, "recurring_revenue", 5.0},
		{"recurring 39%", adjustRecurringRevenue, model.Metrics{Revenue: 1000000, RecurringRevenue: 390000}, 1.05, boundMax, "recurring_revenue", nil},
		{"recurring 20%", adjustRecurringRevenue, model.Metrics{Revenue: 1000000, RecurringRevenue: 200000}, 1.05, boundMax, "recurring_revenue", nil},
		{"recurring 19%", adjustRecurringRevenue, model.Metrics{Revenue: 1000000, RecurringRevenue: 190000}, 1, boundNone, "", nil},
		{"recurring without revenue", adjustRecurringRevenue, model.Metrics{RecurringRevenue: 190000}, 1, boundNone, "", nil},

		{"concentration 51", adjustClientConcentration, model.Metrics{ClientConcentration: 51}, 0.85, boundMin, "client_concentration", nil},
		{"concentration 50", adjustClientConcentration, model.Metrics{ClientConcentration: 50}, 0.9, boundMin, "client_concentration", -5.0},
		{"concentration 31", adjustClientConcentration, model.Metrics{ClientConcentration: 31}, 0.9, boundMin, "client_concentration", -5.0},
		{"concentration 30", adjustClientConcentration, model.Metrics{ClientConcentration: 30}, 0.95, boundMin, "client_concentration", nil},
		{"concentration 21", adjustClientConcentration, model.Metrics{ClientConcentration: 21}, 0.95, boundMin, "client_concentration", nil},
		{"concentration 20", adjustClientConcentration, model.Metrics{ClientConcentration: 20}, 1, boundNone, "", nil},

		{"intellectual property", adjustIntellectualProperty, model.Metrics{HasIntellectualProperty: true}, 1.1, boundMax, "intellectual_property", 5.0},

		{"margin 16 vs 10", adjustProfitMargin, model.Metrics{ProfitMargin: 16}, 1.15, boundMax, "profit_margin", 7.5},
		{"margin 15 vs 10", adjustProfitMargin, model.Metrics{ProfitMargin: 15}, 1.1, boundMax, "profit_margin", 5.0},
		{"margin 12.5 vs 10", adjustProfitMargin, model.Metrics{ProfitMargin: 12.5}, 1.1, boundMax, "profit_margin", 5.0},
		{"margin 12 vs 10", adjustProfitMargin, model.Metrics{ProfitMargin: 12}, 1, boundNone, "", nil},
		{"margin 8 vs 10", adjustProfitMargin, model.Metrics{ProfitMargin: 8}, 1, boundNone, "", nil},
		{"margin 7.9 vs 10", adjustProfitMargin, model.Metrics{ProfitMargin: 7.9}, 0.9, boundMin, "profit_margin", -5.0},
		{"margin 5 vs 10", adjustProfitMargin, model.Metrics{ProfitMargin: 5}, 0.9, boundMin, "profit_margin", -5.0},
		{"margin 4.9 vs 10", adjustProfitMargin, model.Metrics{ProfitMargin: 4.9}, 0.85, boundMin, "profit_margin", -7.5},

		{"consistent growth", adjustTrend, model.Metrics{Revenue: 1100000, RevenuePrevYear: 1000000, RevenueTwoYearsAgo: 900000}, 1.1, boundMax, "consistent_growth", 5.0},
		{"consistent decline", adjustTrend, model.Metrics{Revenue: 800000, RevenuePrevYear: 900000, RevenueTwoYearsAgo: 1000000}, 0.9, boundMin, "consistent_decline", -5.0},
		{"mixed trend", adjustTrend, model.Metrics{Revenue: 1000000, RevenuePrevYear: 1100000, RevenueTwoYearsAgo: 900000}, 1, boundNone, "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := startState()
			m := tt.m
			got := tt.apply(start, input{m: &m, profile: profile})

			if tt.factor == 1 {
				assert.Equal(t, start, got)
				return
			}

			assert.InDelta(t, start.estimate*tt.factor, got.estimate, 1e-6)
			wantMin, wantMax := start.min, start.max
			switch tt.b {
			case boundMin:
				wantMin *= tt.factor
			case boundMax:
				wantMax *= tt.factor
			}
			assert.InDelta(t, wantMin, got.min, 1e-6, "min")
			assert.InDelta(t, wantMax, got.max, 1e-6, "max")

			require.Len(t, got.factors, 1)
			assert.Equal(t, tt.key, got.factors[0].Key)
			if tt.impact != nil {
				assert.Equal(t, tt.impact, got.factors[0].Impact)
			}
		})
	}
}

func TestAddAssets_Cap(t *testing.T) {
	tests := []struct {
		name string
		m    model.Metrics
		want float64
	}{
		// 25% of assets binds.
		{"quarter of assets", model.Metrics{Revenue: 1000000, FFEValue: 120000, InventoryValue: 80000}, 50000},
		// 15% of revenue binds.
		{"share of revenue", model.Metrics{Revenue: 200000, FFEValue: 1000000}, 30000},
		// Absolute cap binds.
		{"absolute cap", model.Metrics{Revenue: 10000000, FFEValue: 1000000, InventoryValue: 1000000}, 100000},
		{"no revenue", model.Metrics{FFEValue: 100000}, 0},
		{"no assets", model.Metrics{Revenue: 1000000}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := startState()
			m := tt.m
			got := addAssets(start, input{m: &m})

			assert.InDelta(t, start.estimate+tt.want, got.estimate, 1e-6)
			assert.Equal(t, start.min, got.min)
			assert.Equal(t, start.max, got.max)
			if tt.want == 0 {
				assert.Empty(t, got.factors)
				return
			}
			require.Len(t, got.factors, 1)
			assert.Equal(t, "assets", got.factors[0].Key)
		})
	}
}

func TestSubtractDebt_Floors(t *testing.T) {
	start := startState()
	m := model.Metrics{DebtAmount: 250000}
	got := subtractDebt(start, input{m: &m})

	assert.Equal(t, 750000.0, got.estimate)
	assert.Equal(t, 250000.0, got.min)
	assert.Equal(t, 1250000.0, got.max)
	require.Len(t, got.factors, 1)
	assert.Equal(t, "debt_adjustment", got.factors[0].Key)

	m = model.Metrics{DebtAmount: 5000000}
	got = subtractDebt(start, input{m: &m})
	assert.Equal(t, 15000.0, got.estimate)
	assert.Equal(t, 10500.0, got.min)
	assert.GreaterOrEqual(t, got.max, got.min*1.2)
}
