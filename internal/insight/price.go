package insight

import (
	"fmt"
	"math"

	"github.com/sells-group/bizval/internal/model"
)

// ComparePrice positions the asking price against the estimate and range.
// A missing asking price yields PriceUnknown.
func ComparePrice(asking float64, r model.Result) model.PriceComparison {
	if asking <= 0 || r.EstimatedValue <= 0 {
		return model.PriceComparison{Status: model.PriceUnknown}
	}

	est, lo, hi := r.EstimatedValue, r.ValuationRange.Min, r.ValuationRange.Max
	pct := math.Abs((asking - est) / est * 100)

	var status model.PriceStatus
	switch {
	case asking > hi*1.2:
		status = model.PriceSignificantlyAbove
	case asking > hi:
		status = model.PriceAbove
	case asking < lo*0.8:
		status = model.PriceSignificantlyBelow
	case asking < lo:
		status = model.PriceBelow
	case asking > est:
		status = model.PriceWithinHigh
	case asking < est:
		status = model.PriceWithinLow
	default:
		status = model.PriceOptimal
	}

	direction := "below"
	if asking > est {
		direction = "above"
	}
	return model.PriceComparison{
		Status:            status,
		Difference:        math.Abs(math.Round(asking - est)),
		PercentDifference: math.Round(pct),
		Direction:         direction,
		InsightText:       priceInsight(status, math.Round(pct)),
	}
}

func priceInsight(status model.PriceStatus, pct float64) string {
	switch status {
	case model.PriceSignificantlyAbove:
		return fmt.Sprintf("Your asking price is significantly higher than the estimated market value (%.0f%% above). While ambitious pricing can reflect unique business qualities, it may limit buyer interest.", pct)
	case model.PriceAbove:
		return fmt.Sprintf("Your asking price is above the estimated market value (%.0f%% higher). This is within reasonable negotiation range if your business has unique strengths.", pct)
	case model.PriceWithinHigh:
		return "Your asking price is within our estimated valuation range, on the higher end. This is an attractive position for negotiations."
	case model.PriceWithinLow:
		return "Your asking price is within our estimated valuation range, on the lower end. This should attract buyer interest while leaving room for negotiation."
	case model.PriceBelow:
		return fmt.Sprintf("Your asking price is below our estimated market value (%.0f%% lower). While this may attract buyers quickly, you might be leaving money on the table.", pct)
	case model.PriceSignificantlyBelow:
		return fmt.Sprintf("Your asking price is significantly below the estimated market value (%.0f%% lower). This could raise questions from buyers about potential issues or might result in undervaluing your business.", pct)
	case model.PriceOptimal:
		return "Your asking price aligns perfectly with our estimated market value. This balanced approach typically attracts serious buyers while maximizing value."
	}
	return "Your asking price has been analyzed against market metrics."
}
