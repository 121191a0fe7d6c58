// Package multiplier resolves industry names to validated valuation
// multiplier profiles.
package multiplier

import (
	"context"
	"strings"

	"github.com/sells-group/bizval/internal/model"
)

// Source looks up stored multiplier profiles. A miss is (nil, nil).
type Source interface {
	// Exact returns the profile whose industry equals name, ignoring case.
	Exact(ctx context.Context, name string) (*model.IndustryProfile, error)
	// Fuzzy returns the first profile whose industry contains name,
	// ignoring case.
	Fuzzy(ctx context.Context, name string) (*model.IndustryProfile, error)
}

// StaticSource serves profiles from memory in insertion order.
type StaticSource struct {
	profiles []model.IndustryProfile
}

// NewStaticSource creates a source over a copy of profiles.
func NewStaticSource(profiles ...model.IndustryProfile) *StaticSource {
	return &StaticSource{profiles: append([]model.IndustryProfile(nil), profiles...)}
}

// Profiles returns a copy of the stored profiles.
func (s *StaticSource) Profiles() []model.IndustryProfile {
	return append([]model.IndustryProfile(nil), s.profiles...)
}

// Exact implements Source.
func (s *StaticSource) Exact(_ context.Context, name string) (*model.IndustryProfile, error) {
	for _, p := range s.profiles {
		if strings.EqualFold(p.Industry, name) {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

// Fuzzy implements Source.
func (s *StaticSource) Fuzzy(_ context.Context, name string) (*model.IndustryProfile, error) {
	needle := strings.ToLower(name)
	for _, p := range s.profiles {
		if strings.Contains(strings.ToLower(p.Industry), needle) {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}
