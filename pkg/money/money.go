// Package money converts between the decimal amount strings used at the API
// boundary ("12.34") and the integer cents the ledger stores. The conversion
// is exact: anything that does not land on a whole number of cents is
// rejected rather than rounded.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrFractionalCents = errors.New("amount has more than two decimal places")
)

var hundred = decimal.NewFromInt(100)

// ToCents parses a decimal amount string into cents.
func ToCents(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	cents := d.Mul(hundred)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("%w: %q", ErrFractionalCents, s)
	}
	return cents.IntPart(), nil
}

// FromCents renders cents as a decimal string with two fractional digits.
func FromCents(cents int64) string {
	return decimal.NewFromInt(cents).Div(hundred).StringFixed(2)
}
