package fairval

import "fmt"

// Percent is a percentage value in points: Percent(5) is 5%.
type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", float64(p))
	if res == "+0.00%" {
		return "-"
	}
	return res
}

// Rate returns the percentage as a ratio: Percent(5).Rate() is 0.05.
func (p Percent) Rate() float64 { return float64(p) / 100 }
