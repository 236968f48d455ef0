package verify

import (
	"regexp"
	"strconv"
	"strings"
)

// One compiled pattern per target field. The library is immutable after
// package init.
var (
	reGSTIN       = regexp.MustCompile(`(?i)GSTIN\s*[:\-]?\s*([0-9A-Z]{15})`)
	reInvoiceNo   = regexp.MustCompile(`(?i)Invoice\s*(No\.?|Number)\s*[:\-]?\s*([A-Za-z0-9\-/]{1,30})`)
	reInvoiceDate = regexp.MustCompile(`(?i)Invoice\s*Date\s*[:\-]?\s*([0-9]{1,2}[^\n]{0,12}[0-9]{2,4})`)
	rePlace       = regexp.MustCompile(`(?i)Place\s*of\s*Supply\s*[:\-]?\s*([^\n]+)`)
	reHSN         = regexp.MustCompile(`(?i)HSN\s*[/:]?\s*([0-9]{4,8})`)
	reTaxable     = regexp.MustCompile(`(?i)Taxable\s*Value\s*[:\-]?\s*([₹Rs\.\s]*[0-9,]+\.?[0-9]*)`)
	reCGST        = regexp.MustCompile(`(?i)CGST\s*([0-9]+\.?[0-9]*)%\s*([₹Rs\.\s]*[0-9,]+\.?[0-9]*)`)
	reSGST        = regexp.MustCompile(`(?i)SGST\s*([0-9]+\.?[0-9]*)%\s*([₹Rs\.\s]*[0-9,]+\.?[0-9]*)`)
	reIGST        = regexp.MustCompile(`(?i)IGST\s*([0-9]+\.?[0-9]*)%\s*([₹Rs\.\s]*[0-9,]+\.?[0-9]*)`)
	reTotal       = regexp.MustCompile(`(?i)Total\s*[:\-]?\s*([₹Rs\.\s]*[0-9,]+\.?[0-9]*)`)
)

// ExtractFields recovers candidate invoice fields from raw document text.
// Extraction is best effort: a pattern that does not match simply leaves its
// field absent. Totals are restated near invoice footers, so for the total
// the last match in the text wins.
func ExtractFields(text string) InvoiceFields {
	var f InvoiceFields

	if m := reGSTIN.FindStringSubmatch(text); m != nil {
		f.GSTIN = ptr(strings.ToUpper(m[1]))
	}
	if m := reInvoiceNo.FindStringSubmatch(text); m != nil {
		f.InvoiceNo = ptr(strings.TrimSpace(m[2]))
	}
	if m := reInvoiceDate.FindStringSubmatch(text); m != nil {
		f.InvoiceDate = ptr(strings.TrimSpace(m[1]))
	}
	if m := rePlace.FindStringSubmatch(text); m != nil {
		f.PlaceOfSupply = ptr(strings.TrimSpace(m[1]))
	}
	if m := reHSN.FindStringSubmatch(text); m != nil {
		f.HSN = ptr(strings.TrimSpace(m[1]))
	}
	if m := reTaxable.FindStringSubmatch(text); m != nil {
		f.TaxableValue = ptr(m[1])
	}

	if m := reCGST.FindStringSubmatch(text); m != nil {
		f.CGSTRate = parseRate(m[1])
		f.CGSTAmount = ptr(m[2])
	}
	if m := reSGST.FindStringSubmatch(text); m != nil {
		f.SGSTRate = parseRate(m[1])
		f.SGSTAmount = ptr(m[2])
	}
	if m := reIGST.FindStringSubmatch(text); m != nil {
		f.IGSTRate = parseRate(m[1])
		f.IGSTAmount = ptr(m[2])
	}

	if all := reTotal.FindAllStringSubmatch(text, -1); len(all) > 0 {
		f.Total = ptr(all[len(all)-1][1])
	}

	return f
}

func parseRate(s string) *float64 {
	r, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &r
}
