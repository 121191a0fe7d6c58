package multiplier

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	src, err := LoadFile(filepath.Join("testdata", "multipliers.yaml"))
	require.NoError(t, err)
	require.Len(t, src.Profiles(), 3)

	p, err := src.Exact(context.Background(), "retail")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 0.8, p.MaxRevenueMultiplier)
	assert.Equal(t, 10.0, p.AvgProfitMargin)
}

func TestLoadFile_PartialRowRepairedOnResolve(t *testing.T) {
	src, err := LoadFile(filepath.Join("testdata", "multipliers.yaml"))
	require.NoError(t, err)

	p := NewResolver(src).Resolve(context.Background(), "coffee")
	assert.Equal(t, "Specialty Coffee Shops", p.Industry)
	assert.Equal(t, 0.4, p.MinRevenueMultiplier)
	assert.InDelta(t, 1.5, p.MaxRevenueMultiplier, 1e-9)
	assert.Equal(t, 2.2, p.EBITDAMultiplier)
	assert.Equal(t, 15.0, p.AvgProfitMargin)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join("testdata", "missing.yaml"))
	assert.ErrorContains(t, err, "multiplier: read")

	_, err = LoadFile(filepath.Join("testdata", "invalid.yaml"))
	assert.ErrorContains(t, err, "multiplier: parse")

	_, err = LoadFile(filepath.Join("testdata", "empty.yaml"))
	assert.ErrorContains(t, err, "has no industries")
}

func TestLoadFile_ShippedTable(t *testing.T) {
	src, err := LoadFile(filepath.Join("..", "..", "configs", "multipliers.yaml"))
	require.NoError(t, err)

	r := NewResolver(src)
	for _, name := range FallbackIndustries() {
		p := r.Resolve(context.Background(), name)
		want := Fallback(name)
		assert.Equal(t, want.MinRevenueMultiplier, p.MinRevenueMultiplier, name)
		assert.Equal(t, want.MaxRevenueMultiplier, p.MaxRevenueMultiplier, name)
		assert.Equal(t, want.EBITDAMultiplier, p.EBITDAMultiplier, name)
	}
}
