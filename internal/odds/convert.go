// Package odds provides conversions between American and decimal odds
// formats and parlay pricing built on them. All functions are pure.
package odds

import (
	"math"

	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/errors"
)

// ToDecimal converts American odds to decimal odds.
// +150 → 2.5, -110 → 1.909...
// American odds of exactly 0 is an invalid input.
func ToDecimal(american int) (float64, error) {
	if american == 0 {
		return 0, errors.NewInvalidOddsError(american)
	}

	if american > 0 {
		return 1 + float64(american)/100.0, nil
	}

	return 1 + 100.0/float64(-american), nil
}

// ToAmerican converts decimal odds to the nearest integer American price.
// 2.5 → +150, 1.909 → -110. Decimal odds at or below 1.0 are invalid.
func ToAmerican(decimal float64) (int, error) {
	if decimal <= 1 {
		return 0, errors.NewInvalidOddsError(decimal)
	}

	if decimal >= 2 {
		return int(math.Round((decimal - 1) * 100)), nil
	}

	return int(math.Round(-100 / (decimal - 1))), nil
}
