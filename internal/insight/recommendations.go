package insight

import "github.com/sells-group/bizval/internal/model"

const recommendationsTitle = "Recommendations to Enhance Business Value"

// Recommend derives improvement suggestions from the metrics and the factor
// ledger. At least two suggestions are always returned.
func Recommend(m *model.Metrics, factors []model.Factor) *model.Recommendations {
	r := &model.Recommendations{Title: recommendationsTitle}

	if m.EBITDA <= 0 {
		r.Items = append(r.Items, "Improve profitability metrics to increase valuation - EBITDA is a key driver of business value")
	}
	if m.YearsInOperation < 3 {
		r.Items = append(r.Items, "Consider waiting longer to sell if possible - businesses with longer operating history typically command better valuations")
	}
	if m.GrowthRate < 0 {
		r.Items = append(r.Items, "Work on improving growth metrics before selling - negative growth significantly impacts valuation")
	}

	for _, f := range factors {
		switch f.Key {
		case "asking_price_overpriced":
			r.Items = append(r.Items, "Your asking price appears high relative to financial metrics - consider adjusting or providing strong justification for the premium")
		case "asking_price_underpriced":
			r.Items = append(r.Items, "Your asking price may be below market value - consider whether you're leaving money on the table")
		}
	}

	if len(r.Items) < 2 {
		r.Items = append(r.Items,
			"Ensure financial documentation is organized and up-to-date for the due diligence process",
			"Document business systems and processes to demonstrate ease of transition to a new owner",
		)
	}
	return r
}
