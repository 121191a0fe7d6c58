package multiplier

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/bizval/internal/model"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		in   model.IndustryProfile
		want model.IndustryProfile
	}{
		{
			name: "valid passes through",
			in:   model.IndustryProfile{Industry: "Retail", MinRevenueMultiplier: 0.3, MaxRevenueMultiplier: 0.8, EBITDAMultiplier: 2.5, AvgProfitMargin: 10},
			want: model.IndustryProfile{Industry: "Retail", MinRevenueMultiplier: 0.3, MaxRevenueMultiplier: 0.8, EBITDAMultiplier: 2.5, AvgProfitMargin: 10},
		},
		{
			name: "all missing",
			in:   model.IndustryProfile{},
			want: model.IndustryProfile{Industry: "Other", MinRevenueMultiplier: 0.5, MaxRevenueMultiplier: 1.5, EBITDAMultiplier: 3.0, AvgProfitMargin: 15},
		},
		{
			name: "max not above min",
			in:   model.IndustryProfile{Industry: "X", MinRevenueMultiplier: 2, MaxRevenueMultiplier: 2, EBITDAMultiplier: 4, AvgProfitMargin: 9},
			want: model.IndustryProfile{Industry: "X", MinRevenueMultiplier: 2, MaxRevenueMultiplier: 3, EBITDAMultiplier: 4, AvgProfitMargin: 9},
		},
		{
			name: "non-finite values",
			in:   model.IndustryProfile{Industry: "X", MinRevenueMultiplier: math.Inf(1), MaxRevenueMultiplier: math.NaN(), EBITDAMultiplier: math.Inf(-1), AvgProfitMargin: math.NaN()},
			want: model.IndustryProfile{Industry: "X", MinRevenueMultiplier: 0.5, MaxRevenueMultiplier: 1.5, EBITDAMultiplier: 3.0, AvgProfitMargin: 15},
		},
		{
			name: "keeps match",
			in:   model.IndustryProfile{Industry: "X", MinRevenueMultiplier: 0.1, MaxRevenueMultiplier: 0.2, EBITDAMultiplier: 1, AvgProfitMargin: 1, Match: model.MatchPartial},
			want: model.IndustryProfile{Industry: "X", MinRevenueMultiplier: 0.1, MaxRevenueMultiplier: 0.2, EBITDAMultiplier: 1, AvgProfitMargin: 1, Match: model.MatchPartial},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.in))
		})
	}
}

func TestFallback(t *testing.T) {
	p := Fallback("restaurants & food")
	assert.Equal(t, "Restaurants & Food", p.Industry)
	assert.Equal(t, 0.3, p.MinRevenueMultiplier)
	assert.Equal(t, 0.7, p.MaxRevenueMultiplier)
	assert.Equal(t, 2.0, p.EBITDAMultiplier)
	assert.Equal(t, 15.0, p.AvgProfitMargin)
	assert.Equal(t, model.MatchFallback, p.Match)

	g := Fallback("Pet Grooming")
	assert.Equal(t, "Other", g.Industry)
	assert.Equal(t, model.MatchDefault, g.Match)

	assert.Len(t, FallbackIndustries(), 9)
	for _, name := range FallbackIndustries() {
		assert.Equal(t, Validate(Fallback(name)), Fallback(name), name)
	}
}

func TestFallback_RepairsTableEntry(t *testing.T) {
	fallbackTable["Broken Trade"] = multiples{min: 0, max: -1, ebitda: math.NaN()}
	t.Cleanup(func() { delete(fallbackTable, "Broken Trade") })

	p := Fallback("broken trade")
	assert.Equal(t, "Broken Trade", p.Industry)
	assert.Equal(t, model.MatchFallback, p.Match)
	assert.Equal(t, 0.5, p.MinRevenueMultiplier)
	assert.Equal(t, 1.5, p.MaxRevenueMultiplier)
	assert.Equal(t, 3.0, p.EBITDAMultiplier)
	assert.Greater(t, p.MaxRevenueMultiplier, p.MinRevenueMultiplier)
}
