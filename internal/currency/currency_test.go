package currency

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "£0"},
		{999.4, "£999"},
		{1250000, "£1,250,000"},
		{-42000, "£-42,000"},
		{math.NaN(), "£0"},
		{math.Inf(1), "£0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.in), "input %v", tt.in)
	}
}

func TestNumber_Huge(t *testing.T) {
	assert.NotPanics(t, func() { Number(1e300) })
}

func TestDecimal(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{45, "45"},
		{2.5, "2.5"},
		{0.25, "0.25"},
		{1.005, "1"},
		{-7.1, "-7.1"},
		{0, "0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Decimal(tt.in), "input %v", tt.in)
	}
}
