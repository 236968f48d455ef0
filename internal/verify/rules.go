package verify

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	invoiceNoRe = regexp.MustCompile(`^[A-Za-z0-9\-/]{1,16}$`)
	hsnRe       = regexp.MustCompile(`^[0-9]{4,8}$`)
)

// ruleContext carries the shared per-call inputs individual rules consume.
// The GSTIN breakdown is computed once up front because two rules depend on
// it.
type ruleContext struct {
	fields InvoiceFields
	gstin  GSTINInfo
}

// ruleFunc evaluates one rule. Rules never return errors: every condition,
// including wholly missing input, folds into a CheckResult.
type ruleFunc func(ctx context.Context, rc *ruleContext) CheckResult

func checkGSTINStructure(_ context.Context, rc *ruleContext) CheckResult {
	if rc.gstin.Valid {
		return CheckResult{Name: CheckGSTIN, Status: StatusPass, Message: "GSTIN structure & checksum valid", Data: rc.gstin}
	}
	msg := strings.Join(rc.gstin.Errors, "; ")
	if msg == "" {
		msg = "Invalid GSTIN"
	}
	return CheckResult{Name: CheckGSTIN, Status: StatusFail, Message: msg, Data: rc.gstin}
}

func checkInvoiceNumber(_ context.Context, rc *ruleContext) CheckResult {
	norm := strings.TrimSpace(deref(rc.fields.InvoiceNo))
	if norm == "" {
		return fail(CheckInvoiceNo, "Missing invoice number")
	}
	if !invoiceNoRe.MatchString(norm) {
		return fail(CheckInvoiceNo, "Invoice no. must be <=16 chars; only letters, digits, '-' or '/'")
	}
	return pass(CheckInvoiceNo, "Complies with Rule 46 character/length constraints")
}

func checkInvoiceDate(_ context.Context, rc *ruleContext) CheckResult {
	raw := strings.TrimSpace(deref(rc.fields.InvoiceDate))
	if raw == "" {
		return fail(CheckDate, "Missing invoice date")
	}
	d, err := ParseInvoiceDate(raw)
	if err != nil {
		return fail(CheckDate, "Could not parse invoice date")
	}
	return pass(CheckDate, fmt.Sprintf("Parsed date %s (FY %s)", d.Format("2006-01-02"), FiscalYear(d)))
}

// checkPlaceOfSupply compares the declared place of supply against the state
// resolved from the GSTIN. A mismatch is only a WARN: inter-state supplies
// legitimately differ from the registered state.
func checkPlaceOfSupply(_ context.Context, rc *ruleContext) CheckResult {
	place := deref(rc.fields.PlaceOfSupply)
	if place == "" || rc.gstin.State == nil {
		return info(CheckPlace, "Insufficient info to compare")
	}
	prefix := strings.ToLower(rc.gstin.State.Name)
	if len(prefix) > 5 {
		prefix = prefix[:5]
	}
	if strings.Contains(strings.ToLower(place), prefix) {
		return pass(CheckPlace, "Place of supply aligns with GSTIN state")
	}
	return warn(CheckPlace, "Place of supply may differ from GSTIN state (can be valid for inter-state supplies)")
}

func checkHSNFormat(_ context.Context, rc *ruleContext) CheckResult {
	hsn := deref(rc.fields.HSN)
	if hsn == "" {
		return info(CheckHSN, "HSN not found")
	}
	if !hsnRe.MatchString(hsn) {
		return fail(CheckHSN, "HSN must be 4-8 digits")
	}
	return pass(CheckHSN, "HSN format looks valid (4-8 digits)")
}

// checkArithmetic recomputes each tax component from the taxable value and
// rate, then the grand total from the taxable value and the declared tax sum,
// comparing within tolerance. A rate of exactly zero is treated the same as
// an absent rate and skips that component; whether a genuine 0% rate should
// instead demand a zero amount is an open product question, so the lenient
// reading stands. Likewise, with no taxable value nothing can be recomputed
// and the check passes with a caveat rather than failing.
func (e *Engine) checkArithmetic(_ context.Context, rc *ruleContext) CheckResult {
	taxable := ParseAmount(rc.fields.TaxableValue)
	cgstAmt := ParseAmount(rc.fields.CGSTAmount)
	sgstAmt := ParseAmount(rc.fields.SGSTAmount)
	igstAmt := ParseAmount(rc.fields.IGSTAmount)
	total := ParseAmount(rc.fields.Total)

	var msgs []string
	var taxSum *decimal.Decimal
	ok := true

	if taxable != nil {
		components := []struct {
			label string
			rate  *float64
			amt   *decimal.Decimal
		}{
			{"CGST", rc.fields.CGSTRate, cgstAmt},
			{"SGST", rc.fields.SGSTRate, sgstAmt},
			{"IGST", rc.fields.IGSTRate, igstAmt},
		}
		for _, c := range components {
			if c.rate == nil || *c.rate == 0 {
				continue
			}
			expected := taxable.Mul(decimal.NewFromFloat(*c.rate)).Div(decimal.NewFromInt(100)).Round(2)
			if c.amt != nil && c.amt.Sub(expected).Abs().GreaterThan(e.tolerance) {
				ok = false
				msgs = append(msgs, fmt.Sprintf("%s mismatch: got %s, expected ~%s", c.label, c.amt, expected))
			}
		}

		sum := decimal.Zero
		for _, amt := range []*decimal.Decimal{cgstAmt, sgstAmt, igstAmt} {
			if amt != nil {
				sum = sum.Add(*amt)
			}
		}
		taxSum = &sum

		if total != nil {
			expectedTotal := taxable.Add(sum).Round(2)
			if total.Sub(expectedTotal).Abs().GreaterThan(e.tolerance) {
				ok = false
				msgs = append(msgs, fmt.Sprintf("Total mismatch: got %s, expected ~%s", total, expectedTotal))
			}
		}
	} else {
		msgs = append(msgs, "Taxable value not available; partial math checks only")
	}

	data := map[string]any{
		"taxable": amountFloat(taxable),
		"tax_sum": amountFloat(taxSum),
		"total":   amountFloat(total),
	}
	if !ok {
		return CheckResult{Name: CheckMath, Status: StatusFail, Message: strings.Join(msgs, "; "), Data: data}
	}
	msg := "Taxes and totals consistent within tolerance"
	if len(msgs) > 0 {
		msg = strings.Join(msgs, "; ")
	}
	return CheckResult{Name: CheckMath, Status: StatusPass, Message: msg, Data: data}
}

// checkDuplicate consults the wired duplicate store, when there is one. A
// missing store, missing keys, or a store error all resolve to INFO so this
// check never blocks the others.
func (e *Engine) checkDuplicate(ctx context.Context, rc *ruleContext) CheckResult {
	if e.dupes == nil {
		return info(CheckDuplicate, "Duplicate detection delegated to external store; none configured")
	}
	gstin, invNo := duplicateKey(rc.fields)
	if gstin == "" || invNo == "" {
		return info(CheckDuplicate, "Insufficient info for duplicate lookup")
	}
	seen, err := e.dupes.Seen(ctx, gstin, invNo)
	if err != nil {
		e.logger.Warn("duplicate lookup failed", "error", err)
		return info(CheckDuplicate, "Duplicate lookup unavailable: "+err.Error())
	}
	if seen {
		return fail(CheckDuplicate, fmt.Sprintf("Invoice %s for GSTIN %s was seen before", invNo, gstin))
	}
	return pass(CheckDuplicate, "No prior record of this invoice")
}

func pass(name, msg string) CheckResult {
	return CheckResult{Name: name, Status: StatusPass, Message: msg}
}

func warn(name, msg string) CheckResult {
	return CheckResult{Name: name, Status: StatusWarn, Message: msg}
}

func fail(name, msg string) CheckResult {
	return CheckResult{Name: name, Status: StatusFail, Message: msg}
}

func info(name, msg string) CheckResult {
	return CheckResult{Name: name, Status: StatusInfo, Message: msg}
}
