package fairval

import (
	"fmt"
	"strings"
)

// GrowthModel abstracts how projected free cash flow grows year over year.
// It is either a flat rate or a staged schedule, selected by the caller.
type GrowthModel interface {
	// Rate returns the growth rate applied to year (1-based) of the projection.
	Rate(year int) float64
	String() string
}

// FlatGrowth compounds free cash flow at a single rate for the whole horizon.
type FlatGrowth float64

func (g FlatGrowth) Rate(int) float64 { return float64(g) }
func (g FlatGrowth) String() string   { return fmt.Sprintf("%s flat", Percent(g*100)) }

// StagedGrowth applies one rate per projection year. Years beyond the
// schedule reuse the last rate.
type StagedGrowth []float64

func (g StagedGrowth) Rate(year int) float64 {
	if year > len(g) {
		return g[len(g)-1]
	}
	return g[year-1]
}

func (g StagedGrowth) String() string {
	stages := make([]string, len(g))
	for i, r := range g {
		stages[i] = Percent(r * 100).String()
	}
	return strings.Join(stages, ", ")
}

// Assumptions holds the scalar configuration of one valuation. It is
// immutable for the duration of a computation.
type Assumptions struct {
	Growth         GrowthModel
	DiscountRate   float64 // WACC, as a ratio
	TerminalGrowth float64 // perpetuity growth, as a ratio
	Years          int     // projection horizon
}

// DefaultAssumptions returns the model defaults: 5 years horizon, 10%
// discount rate, 5% flat growth, 2% perpetual growth.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		Growth:         FlatGrowth(0.05),
		DiscountRate:   0.10,
		TerminalGrowth: 0.02,
		Years:          5,
	}
}

// Validate rejects assumption sets that cannot produce a meaningful
// valuation. In particular the terminal-value denominator (discount rate -
// terminal growth) must be strictly positive, whatever the cash flows are.
func (a Assumptions) Validate() error {
	if a.Years < 1 {
		return fmt.Errorf("projection horizon %d must be at least 1 year: %w", a.Years, ErrInvalidAssumptions)
	}
	if a.Growth == nil {
		return fmt.Errorf("no growth model: %w", ErrInvalidAssumptions)
	}
	if g, ok := a.Growth.(StagedGrowth); ok && len(g) == 0 {
		return fmt.Errorf("staged growth with no stages: %w", ErrInvalidAssumptions)
	}
	for year := 1; year <= a.Years; year++ {
		if a.Growth.Rate(year) <= -1 {
			return fmt.Errorf("growth rate %v for year %d implies negative cash flow base: %w", a.Growth.Rate(year), year, ErrInvalidAssumptions)
		}
	}
	if a.DiscountRate <= -1 {
		return fmt.Errorf("discount rate %v is not a valid rate: %w", a.DiscountRate, ErrInvalidAssumptions)
	}
	if a.DiscountRate <= a.TerminalGrowth {
		return fmt.Errorf("discount rate %s must exceed terminal growth %s: %w",
			Percent(a.DiscountRate*100), Percent(a.TerminalGrowth*100), ErrInvalidAssumptions)
	}
	return nil
}
