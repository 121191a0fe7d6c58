package valuation

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/sells-group/bizval/internal/model"
)

// Outcome is the numeric part of a valuation.
type Outcome struct {
	Estimate     float64
	Range        model.Range
	Multiple     float64
	MultipleType model.MultipleType
	Factors      []model.Factor
}

// Calculate runs the full adjustment chain. It returns an error when a
// value becomes non-finite or the range invariants cannot be restored;
// callers then fall back to Simplified.
func Calculate(m *model.Metrics, p model.IndustryProfile) (Outcome, error) {
	b := selectBasis(m, p)
	s := state{
		estimate: b.estimate,
		min:      b.min,
		max:      b.max,
		factors:  []model.Factor{b.factor},
	}
	if !s.finite() {
		return Outcome{}, eris.Errorf("valuation: non-finite %s basis", b.multipleType)
	}

	in := input{m: m, profile: p, basis: b}
	for _, st := range chain {
		s = st.apply(s, in)
		if !s.finite() {
			return Outcome{}, eris.Errorf("valuation: non-finite value after %s step", st.name)
		}
	}

	s = finalize(s)
	if err := checkInvariants(s); err != nil {
		return Outcome{}, err
	}

	return Outcome{
		Estimate:     s.estimate,
		Range:        model.Range{Min: s.min, Max: s.max},
		Multiple:     b.multiple,
		MultipleType: b.multipleType,
		Factors:      s.factors,
	}, nil
}

// finalize applies the floors, clamps the estimate into the range and
// rounds all three values to the nearest 100. The upper bound never drops
// below the estimate floor.
func finalize(s state) state {
	s = floorRange(s)
	s.max = math.Max(s.max, MinValuation)
	s.estimate = math.Max(s.min, math.Min(s.estimate, s.max))

	s.estimate = roundHundred(s.estimate)
	s.min = roundHundred(s.min)
	s.max = roundHundred(s.max)
	return s
}

func roundHundred(v float64) float64 {
	return math.Round(v/100) * 100
}

func checkInvariants(s state) error {
	switch {
	case !s.finite():
		return eris.New("valuation: non-finite result")
	case s.estimate < MinValuation:
		return eris.Errorf("valuation: estimate %.0f below floor", s.estimate)
	case s.min < 0 || s.min > s.estimate || s.estimate > s.max:
		return eris.Errorf("valuation: estimate %.0f outside range [%.0f, %.0f]", s.estimate, s.min, s.max)
	}
	return nil
}
