package verify

import (
	"regexp"

	"github.com/shopspring/decimal"
)

var nonNumericRe = regexp.MustCompile(`[^0-9.]`)

// ParseAmount strips currency markers and digit-group separators from a raw
// amount string and parses what remains. A nil result means the value is
// absent or unusable; callers treat that as "not provided" rather than an
// error.
func ParseAmount(raw *string) *decimal.Decimal {
	if raw == nil {
		return nil
	}
	s := nonNumericRe.ReplaceAllString(*raw, "")
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

func amountFloat(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	f, _ := d.Float64()
	return f
}
