package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChange(t *testing.T) {
	tests := []struct {
		name string
		old  float64
		new  float64
		want Percent
	}{
		{"fifty percent up", 100, 150, Numeric(50)},
		{"twenty percent down", 100, 80, Numeric(-20)},
		{"unchanged", 100, 100, Numeric(0)},
		{"baseline zero", 0, 5, Percent{Kind: PercentBaselineZero}},
		{"both zero is no change", 0, 0, Numeric(0)},
		{"small increase rounds", 100, 100.4, Numeric(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Change(tt.old, tt.new))
		})
	}
}

// The rounding rule is half-away-from-zero; these cases pin it down so a
// refactor to a different rule fails loudly.
func TestChangeRoundingAtHalf(t *testing.T) {
	assert.Equal(t, Numeric(13), Change(200, 225), "12.5%% must round to 13")
	assert.Equal(t, Numeric(-13), Change(200, 175), "-12.5%% must round to -13")
}

func TestMargin(t *testing.T) {
	tests := []struct {
		name string
		cost float64
		sale float64
		want Percent
	}{
		{"twenty percent margin", 50, 60, Numeric(20)},
		{"below cost", 80, 70, Numeric(-13)},
		{"cost zero", 0, 100, Percent{Kind: PercentCostZero}},
		{"cost and sale zero", 0, 0, Percent{Kind: PercentCostZero}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Margin(tt.cost, tt.sale))
		})
	}
}

func TestBelowTarget(t *testing.T) {
	assert.True(t, Numeric(20).BelowTarget(30))
	assert.False(t, Numeric(30).BelowTarget(30))
	assert.False(t, Numeric(40).BelowTarget(30))
	assert.True(t, Numeric(-5).BelowTarget(30))

	// Symbolic outcomes short-circuit: they never compare as below target.
	assert.False(t, Percent{Kind: PercentCostZero}.BelowTarget(30))
	assert.False(t, Percent{Kind: PercentBaselineZero}.BelowTarget(30))
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "20%", Numeric(20).Display())
	assert.Equal(t, "0%", Numeric(0).Display())
	assert.Equal(t, "13% (below cost)", Numeric(-13).Display())
	assert.Equal(t, "sale price was zero", Percent{Kind: PercentBaselineZero}.Display())
	assert.Equal(t, "cost value is zero", Percent{Kind: PercentCostZero}.Display())
}
