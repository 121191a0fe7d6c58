package multiplier

import (
	"strings"

	"github.com/sells-group/bizval/internal/model"
)

// FallbackTableVersion identifies the revision of the curated table. Bump it
// whenever a multiple changes so stored valuations can be traced to it.
const FallbackTableVersion = "2024.1"

// defaultAvgProfitMargin is the industry margin assumed when none is known.
const defaultAvgProfitMargin = 15

type multiples struct {
	min, max, ebitda float64
}

// fallbackTable holds curated multiples for the common listing categories.
var fallbackTable = map[string]multiples{
	"Retail":                {0.3, 0.8, 2.5},
	"Restaurants & Food":    {0.3, 0.7, 2.0},
	"Online & Technology":   {1.0, 3.0, 5.0},
	"Service Businesses":    {0.5, 1.5, 3.5},
	"Manufacturing":         {0.6, 1.5, 4.0},
	"Health Care & Fitness": {0.7, 1.5, 3.0},
	"Construction":          {0.5, 1.0, 3.0},
	"Transportation":        {0.4, 1.0, 2.5},
	"Agriculture":           {0.6, 1.3, 3.5},
}

var genericMultiples = multiples{min: 0.5, max: 1.5, ebitda: 3.0}

// Fallback returns the curated profile for industry, or the generic "Other"
// profile when the industry is not curated. Both pass through Validate.
func Fallback(industry string) model.IndustryProfile {
	for name, m := range fallbackTable {
		if strings.EqualFold(name, strings.TrimSpace(industry)) {
			return Validate(m.profile(name, model.MatchFallback))
		}
	}
	return Validate(genericMultiples.profile(model.DefaultIndustry, model.MatchDefault))
}

// FallbackIndustries lists the curated industry names.
func FallbackIndustries() []string {
	names := make([]string, 0, len(fallbackTable))
	for name := range fallbackTable {
		names = append(names, name)
	}
	return names
}

func (m multiples) profile(industry string, match model.Match) model.IndustryProfile {
	return model.IndustryProfile{
		Industry:             industry,
		MinRevenueMultiplier: m.min,
		MaxRevenueMultiplier: m.max,
		EBITDAMultiplier:     m.ebitda,
		AvgProfitMargin:      defaultAvgProfitMargin,
		Match:                match,
	}
}
