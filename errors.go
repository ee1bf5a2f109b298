package fairval

import "errors"

// Error kinds surfaced by the valuation engine. Callers match them with
// errors.Is; the wrapping message carries the specifics.
var (
	// ErrInvalidAssumptions reports an assumption set that cannot produce a
	// meaningful valuation, typically a discount rate at or below the
	// terminal growth rate.
	ErrInvalidAssumptions = errors.New("invalid assumptions")

	// ErrIncompleteData reports a financial statement missing a field the
	// model requires. Missing figures are never silently read as zero.
	ErrIncompleteData = errors.New("incomplete financial data")

	// ErrInvalidInput reports an input that is present but unusable, like
	// zero shares outstanding.
	ErrInvalidInput = errors.New("invalid input")
)
