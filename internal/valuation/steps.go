package valuation

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/bizval/internal/currency"
	"github.com/sells-group/bizval/internal/model"
)

// state is the running valuation threaded through the adjustment chain.
// Steps never mutate the state they receive.
type state struct {
	estimate float64
	min, max float64
	factors  []model.Factor
}

// bound selects which end of the range a multiplicative step also scales.
type bound int

const (
	boundNone bound = iota
	boundMin
	boundMax
	// boundAuto scales max for premiums and min for discounts.
	boundAuto
)

func (s state) scale(f float64, b bound) state {
	s.estimate *= f
	if b == boundAuto {
		b = boundMin
		if f > 1 {
			b = boundMax
		}
	}
	switch b {
	case boundMin:
		s.min *= f
	case boundMax:
		s.max *= f
	}
	return s
}

func (s state) with(key string, impact float64, analysis string) state {
	factors := make([]model.Factor, len(s.factors), len(s.factors)+1)
	copy(factors, s.factors)
	s.factors = append(factors, model.Factor{Key: key, Impact: impact, Analysis: analysis})
	return s
}

func (s state) finite() bool {
	for _, v := range []float64{s.estimate, s.min, s.max} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// input is what every step may read.
type input struct {
	m       *model.Metrics
	profile model.IndustryProfile
	basis   basis
}

// step is one adjustment of the chain. A step whose triggering data is
// absent returns the state unchanged.
type step struct {
	name  string
	apply func(s state, in input) state
}

// chain lists the adjustments in application order. The order is part of
// the output: the factor ledger records them as applied.
var chain = []step{
	{"asking_price_blend", blendAskingPrice},
	{"trend", adjustTrend},
	{"growth", adjustGrowth},
	{"age", adjustAge},
	{"assets", addAssets},
	{"workforce", adjustWorkforce},
	{"owner_dependence", adjustOwnerDependence},
	{"systems", adjustSystems},
	{"recurring_revenue", adjustRecurringRevenue},
	{"client_concentration", adjustClientConcentration},
	{"intellectual_property", adjustIntellectualProperty},
	{"profit_margin", adjustProfitMargin},
	{"debt", subtractDebt},
	{"asking_price_range", reconcileAskingRange},
}

// impactOf converts a multiplier into a ledger impact score, rounding
// halves up.
func impactOf(f float64) float64 {
	return math.Floor((f-1)*50 + 0.5)
}

func blendAskingPrice(s state, in input) state {
	asking := in.m.AskingPrice
	if asking <= 0 {
		return s
	}
	calculated := s.estimate
	w := askingWeight(in.basis.multipleType)
	s.estimate = calculated*(1-w) + asking*w
	s = s.with("asking_price_integration", 0,
		fmt.Sprintf("Seller's asking price of %s was incorporated into the valuation assessment", currency.Format(asking)))

	ratio := asking / calculated
	switch {
	case ratio > 1.3:
		return s.with("asking_price_overpriced", -5,
			fmt.Sprintf("Asking price appears %.0f%% higher than typical metrics would suggest", math.Round((ratio-1)*100)))
	case ratio < 0.7:
		return s.with("asking_price_underpriced", 5,
			fmt.Sprintf("Asking price appears %.0f%% lower than typical metrics would suggest", math.Round((1-ratio)*100)))
	default:
		return s.with("asking_price_aligned", 8, "Asking price aligns well with typical industry metrics")
	}
}

func adjustTrend(s state, in input) state {
	m := in.m
	if m.RevenuePrevYear <= 0 || m.RevenueTwoYearsAgo <= 0 {
		return s
	}
	switch {
	case m.Revenue > m.RevenuePrevYear && m.RevenuePrevYear > m.RevenueTwoYearsAgo:
		return s.scale(1.1, boundMax).with("consistent_growth", 5,
			"Consistent revenue growth over past 3 years adds a 10% premium to valuation")
	case m.Revenue < m.RevenuePrevYear && m.RevenuePrevYear < m.RevenueTwoYearsAgo:
		return s.scale(0.9, boundMin).with("consistent_decline", -5,
			"Consistent revenue decline over past 3 years reduces valuation by 10%")
	}
	return s
}

func growthMultiplier(rate float64) float64 {
	switch {
	case rate > 20:
		return 1.3
	case rate > 10:
		return 1.2
	case rate > 5:
		return 1.1
	case rate < -10:
		return 0.8
	case rate < -5:
		return 0.9
	case rate < 0:
		return 0.95
	}
	return 1
}

func adjustGrowth(s state, in input) state {
	f := growthMultiplier(in.m.GrowthRate)
	if f == 1 {
		return s
	}
	return s.scale(f, boundAuto).with("growth_rate", impactOf(f),
		fmt.Sprintf("Growth rate of %s%% adjusted valuation by %.1f%%", currency.Decimal(in.m.GrowthRate), (f-1)*100))
}

func adjustAge(s state, in input) state {
	years := in.m.YearsInOperation
	if years <= 0 {
		return s
	}
	var f float64
	switch {
	case years > 10:
		f = 1.1
	case years > 5:
		f = 1.05
	case years < 2:
		f = 0.9
	default:
		return s
	}
	return s.scale(f, boundNone).with("business_age", impactOf(f),
		fmt.Sprintf("%d years in operation. Stability factor applied: %.2fx", years, f))
}

func addAssets(s state, in input) state {
	m := in.m
	if m.FFEValue <= 0 && m.InventoryValue <= 0 {
		return s
	}
	contribution := math.Min(math.Min((m.FFEValue+m.InventoryValue)*0.25, m.Revenue*0.15), 100000)
	if contribution <= 0 {
		return s
	}
	s.estimate += contribution
	return s.with("assets", 3,
		fmt.Sprintf("Added %s for tangible assets (FF&E: %s, Inventory: %s)",
			currency.Format(contribution), currency.Format(m.FFEValue), currency.Format(m.InventoryValue)))
}

func adjustWorkforce(s state, in input) state {
	n := in.m.Employees
	switch {
	case n > 50:
		return s.scale(1.1, boundNone).with("workforce", 5,
			fmt.Sprintf("Large workforce (%d employees) indicates established operations", n))
	case n > 20:
		return s.scale(1.05, boundNone).with("workforce", 3,
			fmt.Sprintf("Medium-sized workforce (%d employees) shows stable operations", n))
	case n > 5:
		return s.scale(1.02, boundNone).with("workforce", 1,
			fmt.Sprintf("Small team of %d employees", n))
	case n > 0:
		zap.L().Debug("valuation: very small team, no workforce adjustment", zap.Int("employees", n))
	}
	return s
}

func adjustOwnerDependence(s state, in input) state {
	hours := in.m.OwnerHoursPerWeek
	switch {
	case hours >= 40:
		return s.scale(0.9, boundMin).with("owner_dependence", -5,
			fmt.Sprintf("Owner works %s hours/week, indicating high dependence (-10%% adjustment)", currency.Decimal(hours)))
	case hours >= 20:
		return s.scale(0.95, boundMin).with("owner_dependence", -2.5,
			fmt.Sprintf("Owner works %s hours/week, indicating moderate dependence (-5%% adjustment)", currency.Decimal(hours)))
	case hours > 0 && hours < 10:
		return s.scale(1.05, boundMax).with("owner_dependence", 2.5,
			fmt.Sprintf("Owner only works %s hours/week, indicating low dependence (+5%% adjustment)", currency.Decimal(hours)))
	}
	return s
}

func adjustSystems(s state, in input) state {
	f := 1.0
	var assets []string
	if in.m.HasDocumentedSystems {
		f += 0.05
		assets = append(assets, "documented systems")
	}
	if in.m.HasTrainingMaterials {
		f += 0.05
		assets = append(assets, "training materials")
	}
	if len(assets) == 0 {
		return s
	}
	return s.scale(f, boundMax).with("systems_documentation", impactOf(f),
		fmt.Sprintf("Business includes %s, adding %.0f%% premium", strings.Join(assets, " and "), (f-1)*100))
}

func adjustRecurringRevenue(s state, in input) state {
	m := in.m
	if m.RecurringRevenue <= 0 || m.Revenue <= 0 {
		return s
	}
	pct := m.RecurringRevenue / m.Revenue * 100
	var f float64
	switch {
	case pct >= 70:
		f = 1.2
	case pct >= 40:
		f = 1.1
	case pct >= 20:
		f = 1.05
	default:
		return s
	}
	return s.scale(f, boundMax).with("recurring_revenue", impactOf(f),
		fmt.Sprintf("%.0f%% of revenue is recurring (%s), adding %.0f%% premium", pct, currency.Format(m.RecurringRevenue), (f-1)*100))
}

func adjustClientConcentration(s state, in input) state {
	c := in.m.ClientConcentration
	var f float64
	switch {
	case c > 50:
		f = 0.85
	case c > 30:
		f = 0.9
	case c > 20:
		f = 0.95
	default:
		return s
	}
	return s.scale(f, boundMin).with("client_concentration", impactOf(f),
		fmt.Sprintf("%.0f%% of revenue comes from top client, reducing valuation by %.0f%%", c, (1-f)*100))
}

func adjustIntellectualProperty(s state, in input) state {
	if !in.m.HasIntellectualProperty {
		return s
	}
	return s.scale(1.1, boundMax).with("intellectual_property", 5,
		"Business includes intellectual property, adding 10% premium")
}

func adjustProfitMargin(s state, in input) state {
	margin, industry := in.m.ProfitMargin, in.profile.AvgProfitMargin
	if margin <= 0 || industry <= 0 {
		return s
	}

	var (
		f      float64
		impact float64
		text   string
	)
	switch {
	case margin > industry*1.5:
		f, impact, text = 1.15, 7.5, "is significantly above industry average of %.1f%%, adding 15%% premium"
	case margin > industry*1.2:
		f, impact, text = 1.1, 5, "is well above industry average of %.1f%%, adding 10%% premium"
	case margin < industry*0.5:
		f, impact, text = 0.85, -7.5, "is significantly below industry average of %.1f%%, reducing valuation by 15%%"
	case margin < industry*0.8:
		f, impact, text = 0.9, -5, "is below industry average of %.1f%%, reducing valuation by 10%%"
	default:
		return s
	}
	return s.scale(f, boundAuto).with("profit_margin", impact,
		fmt.Sprintf("Profit margin of %.1f%% ", margin)+fmt.Sprintf(text, industry))
}

func subtractDebt(s state, in input) state {
	debt := in.m.DebtAmount
	if debt <= 0 {
		return s
	}
	s.estimate -= debt
	s.min -= debt
	s.max -= debt
	s = floorRange(s)
	return s.with("debt_adjustment", -5,
		fmt.Sprintf("Adjusted for %s in business debt", currency.Format(debt)))
}

// reconcileAskingRange blends the range 60/40 with a ±20% band around the
// asking price. It adds no factor.
func reconcileAskingRange(s state, in input) state {
	asking := in.m.AskingPrice
	if asking <= 0 {
		return s
	}
	s.min = s.min*0.6 + asking*0.8*0.4
	s.max = s.max*0.6 + asking*1.2*0.4
	return s
}

// floorRange restores the estimate and range floors.
func floorRange(s state) state {
	s.estimate = math.Max(MinValuation, s.estimate)
	s.min = math.Max(MinRange, s.min)
	s.max = math.Max(s.min*1.2, s.max)
	return s
}
