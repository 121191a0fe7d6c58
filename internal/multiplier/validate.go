package multiplier

import (
	"math"
	"strings"

	"github.com/sells-group/bizval/internal/model"
)

func usable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// Validate repairs a profile so that max > min > 0, ebitda > 0 and the
// average margin is positive. Valid profiles pass through unchanged.
func Validate(p model.IndustryProfile) model.IndustryProfile {
	if !usable(p.MinRevenueMultiplier) {
		p.MinRevenueMultiplier = genericMultiples.min
	}
	if !usable(p.MaxRevenueMultiplier) || p.MaxRevenueMultiplier <= p.MinRevenueMultiplier {
		p.MaxRevenueMultiplier = math.Max(genericMultiples.max, p.MinRevenueMultiplier*1.5)
	}
	if !usable(p.EBITDAMultiplier) {
		p.EBITDAMultiplier = genericMultiples.ebitda
	}
	if !usable(p.AvgProfitMargin) {
		p.AvgProfitMargin = defaultAvgProfitMargin
	}
	p.Industry = strings.TrimSpace(p.Industry)
	if p.Industry == "" {
		p.Industry = model.DefaultIndustry
	}
	return p
}
