// Package pricing computes signed percentage deltas and profit margins.
//
// Division-by-zero cases never produce numbers: they are represented as
// tagged symbolic outcomes so that downstream code cannot accidentally do
// arithmetic on an undefined value.
package pricing

import (
	"fmt"
	"math"
)

// PercentKind tags the outcome of a percentage computation.
type PercentKind int

const (
	// PercentNumeric is a defined signed percentage value.
	PercentNumeric PercentKind = iota
	// PercentBaselineZero marks a comparison whose old value was zero while
	// the new value is positive: the increase is unmeasurable.
	PercentBaselineZero
	// PercentCostZero marks a margin whose cost basis is zero: the margin
	// is undefined.
	PercentCostZero
)

// Percent is the result of a percentage computation: either a numeric
// value or a symbolic outcome.
type Percent struct {
	Kind  PercentKind
	Value int // meaningful only when Kind == PercentNumeric
}

// Numeric builds a defined percentage value.
func Numeric(value int) Percent {
	return Percent{Kind: PercentNumeric, Value: value}
}

// Change computes the signed percent change from old to new.
//
// Rounding is half-away-from-zero (math.Round): 12.5% rounds to 13%,
// -12.5% rounds to -13%. This rule is pinned by tests.
//
// Special cases:
//   - old == 0, new > 0: PercentBaselineZero (not +Inf).
//   - old == 0, new == 0: Numeric(0), treated as no change.
func Change(old, new float64) Percent {
	if old == 0 {
		if new == 0 {
			return Numeric(0)
		}
		return Percent{Kind: PercentBaselineZero}
	}
	return Numeric(int(math.Round((new - old) / old * 100)))
}

// Margin computes how many percent the sale price sits above or below the
// cost. A zero cost yields PercentCostZero rather than a number.
func Margin(cost, sale float64) Percent {
	if cost == 0 {
		return Percent{Kind: PercentCostZero}
	}
	return Numeric(int(math.Round((sale - cost) / cost * 100)))
}

// IsNumeric reports whether the percent carries a defined numeric value.
func (p Percent) IsNumeric() bool {
	return p.Kind == PercentNumeric
}

// BelowTarget reports whether a numeric percentage is below the target.
// Symbolic outcomes are never "below target": the comparison short-circuits
// to false instead of comparing a tag against a number.
func (p Percent) BelowTarget(target float64) bool {
	if p.Kind != PercentNumeric {
		return false
	}
	return float64(p.Value) < target
}

// Display renders the percent for a report cell. Negative margins are shown
// as an absolute value with an explicit below-cost marker; symbolic
// outcomes get a descriptive message instead of a number.
func (p Percent) Display() string {
	switch p.Kind {
	case PercentBaselineZero:
		return "sale price was zero"
	case PercentCostZero:
		return "cost value is zero"
	default:
		if p.Value < 0 {
			return fmt.Sprintf("%d%% (below cost)", -p.Value)
		}
		return fmt.Sprintf("%d%%", p.Value)
	}
}
