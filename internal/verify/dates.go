package verify

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
)

// ParseInvoiceDate parses a free-text invoice date, preferring day-first
// readings of ambiguous numeric forms: Indian invoices write 02/03/2025 for
// 2 March 2025.
func ParseInvoiceDate(raw string) (time.Time, error) {
	t, err := dateparse.ParseAny(raw,
		dateparse.PreferMonthFirst(false),
		dateparse.RetryAmbiguousDateWithSwap(true),
	)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse invoice date %q: %w", raw, err)
	}
	return t, nil
}

// FiscalYear renders the Indian fiscal year (April to March) containing d,
// e.g. "2025-26" for June 2025 and "2024-25" for March 2025.
func FiscalYear(d time.Time) string {
	start := d.Year()
	if d.Month() < time.April {
		start--
	}
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}
