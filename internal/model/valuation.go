package model

import "time"

// MultipleType identifies which financial metric anchored a valuation.
type MultipleType string

// Valuation bases, in order of preference.
const (
	MultipleEBITDA   MultipleType = "ebitda"
	MultipleCashFlow MultipleType = "cash_flow"
	MultipleRevenue  MultipleType = "revenue"
	MultipleMinimum  MultipleType = "minimum"
)

// Match describes how a multiplier profile was resolved.
type Match string

// Resolution outcomes, from most to least specific.
const (
	MatchExact    Match = "exact"
	MatchPartial  Match = "partial"
	MatchOther    Match = "other"
	MatchFallback Match = "fallback"
	MatchDefault  Match = "default"
)

// IndustryProfile holds the valuation multiples for an industry. Profiles
// handed to the calculator always satisfy max > min > 0 and ebitda > 0.
type IndustryProfile struct {
	Industry             string  `json:"industry" yaml:"industry"`
	MinRevenueMultiplier float64 `json:"minRevenueMultiplier" yaml:"min_revenue_multiplier"`
	MaxRevenueMultiplier float64 `json:"maxRevenueMultiplier" yaml:"max_revenue_multiplier"`
	EBITDAMultiplier     float64 `json:"ebitdaMultiplier" yaml:"ebitda_multiplier"`
	AvgProfitMargin      float64 `json:"avgProfitMargin" yaml:"avg_profit_margin"`
	Match                Match   `json:"match,omitempty" yaml:"-"`
}

// Factor is one entry of the adjustment ledger.
type Factor struct {
	Key      string  `json:"key"`
	Impact   float64 `json:"impactScore"`
	Analysis string  `json:"analysisText"`
}

// Range is an inclusive value range.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ComparableMetric is one row of the comparables table.
type ComparableMetric struct {
	Name            string `json:"name"`
	YourValue       string `json:"yourValue"`
	IndustryAverage string `json:"industryAverage"`
	Unit            string `json:"unit"`
}

// Comparables compares the submission's implied multiples to its industry.
type Comparables struct {
	Intro   string             `json:"intro"`
	Metrics []ComparableMetric `json:"metrics"`
}

// Recommendations lists suggestions to improve business value.
type Recommendations struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// PriceStatus positions an asking price against a valuation.
type PriceStatus string

// Price comparison outcomes.
const (
	PriceUnknown            PriceStatus = "unknown"
	PriceSignificantlyAbove PriceStatus = "significantly_above"
	PriceAbove              PriceStatus = "above"
	PriceWithinHigh         PriceStatus = "within_high"
	PriceWithinLow          PriceStatus = "within_low"
	PriceBelow              PriceStatus = "below"
	PriceSignificantlyBelow PriceStatus = "significantly_below"
	PriceOptimal            PriceStatus = "optimal"
)

// PriceComparison positions the seller's asking price against the result.
type PriceComparison struct {
	Status            PriceStatus `json:"status"`
	Difference        float64     `json:"difference"`
	PercentDifference float64     `json:"percentDifference"`
	Direction         string      `json:"direction,omitempty"`
	InsightText       string      `json:"insightText,omitempty"`
}

// Result is the terminal artifact of a valuation.
type Result struct {
	EstimatedValue    float64          `json:"estimatedValue"`
	ValuationRange    Range            `json:"valuationRange"`
	Confidence        int              `json:"confidence"`
	Multiple          float64          `json:"multiple"`
	MultipleType      MultipleType     `json:"multipleType"`
	Summary           string           `json:"summary"`
	Factors           []Factor         `json:"factors"`
	IndustryData      *IndustryProfile `json:"industryData"`
	MarketComparables *Comparables     `json:"marketComparables,omitempty"`
	Recommendations   *Recommendations `json:"recommendations,omitempty"`
	PriceComparison   PriceComparison  `json:"priceComparison"`
	Insights          []string         `json:"insights,omitempty"`
	Explanation       string           `json:"explanation,omitempty"`
	BusinessMetrics   *Metrics         `json:"businessMetricsSnapshot,omitempty"`
}

// HasFactor reports whether the ledger contains an entry with key.
func (r *Result) HasFactor(key string) bool {
	for _, f := range r.Factors {
		if f.Key == key {
			return true
		}
	}
	return false
}

// Valuation is a persisted valuation result.
type Valuation struct {
	ID         string         `json:"id"`
	Industry   string         `json:"industry"`
	Submission map[string]any `json:"submission"`
	Result     Result         `json:"result"`
	CreatedAt  time.Time      `json:"created_at"`
}
