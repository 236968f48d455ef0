package verify

// Check statuses.
const (
	StatusPass = "PASS"
	StatusWarn = "WARN"
	StatusFail = "FAIL"
	StatusInfo = "INFO"
)

// Overall verdicts.
const (
	VerdictPass   = "PASS"
	VerdictReview = "REVIEW"
	VerdictFail   = "FAIL"
)

// Canonical check names, in evaluation order.
const (
	CheckGSTIN     = "GSTIN Structure"
	CheckInvoiceNo = "Invoice Number Format"
	CheckDate      = "Invoice Date"
	CheckPlace     = "Place of Supply Consistency"
	CheckHSN       = "HSN Format"
	CheckMath      = "Arithmetic Checks"
	CheckDuplicate = "Duplicate Check"
)

// InvoiceFields is the normalized input record for a verification. Every
// field is optional; a nil pointer means the field was never supplied, which
// is distinct from an empty value. Amounts stay free text until the
// arithmetic checker parses them, because invoices carry currency markers and
// digit-group separators.
type InvoiceFields struct {
	GSTIN         *string  `json:"gstin,omitempty"`
	VendorGSTIN   *string  `json:"vendor_gstin,omitempty"`
	InvoiceNo     *string  `json:"invoice_no,omitempty"`
	InvoiceDate   *string  `json:"invoice_date,omitempty"`
	PlaceOfSupply *string  `json:"place_of_supply,omitempty"`
	HSN           *string  `json:"hsn,omitempty"`
	TaxableValue  *string  `json:"taxable_value,omitempty"`
	CGSTRate      *float64 `json:"cgst_rate,omitempty"`
	CGSTAmount    *string  `json:"cgst_amount,omitempty"`
	SGSTRate      *float64 `json:"sgst_rate,omitempty"`
	SGSTAmount    *string  `json:"sgst_amount,omitempty"`
	IGSTRate      *float64 `json:"igst_rate,omitempty"`
	IGSTAmount    *string  `json:"igst_amount,omitempty"`
	Total         *string  `json:"total,omitempty"`
}

// Merge overlays explicitly supplied fields onto f; non-nil values in
// override win. Used when a caller sends json_invoice alongside an uploaded
// document.
func (f InvoiceFields) Merge(override InvoiceFields) InvoiceFields {
	if override.GSTIN != nil {
		f.GSTIN = override.GSTIN
	}
	if override.VendorGSTIN != nil {
		f.VendorGSTIN = override.VendorGSTIN
	}
	if override.InvoiceNo != nil {
		f.InvoiceNo = override.InvoiceNo
	}
	if override.InvoiceDate != nil {
		f.InvoiceDate = override.InvoiceDate
	}
	if override.PlaceOfSupply != nil {
		f.PlaceOfSupply = override.PlaceOfSupply
	}
	if override.HSN != nil {
		f.HSN = override.HSN
	}
	if override.TaxableValue != nil {
		f.TaxableValue = override.TaxableValue
	}
	if override.CGSTRate != nil {
		f.CGSTRate = override.CGSTRate
	}
	if override.CGSTAmount != nil {
		f.CGSTAmount = override.CGSTAmount
	}
	if override.SGSTRate != nil {
		f.SGSTRate = override.SGSTRate
	}
	if override.SGSTAmount != nil {
		f.SGSTAmount = override.SGSTAmount
	}
	if override.IGSTRate != nil {
		f.IGSTRate = override.IGSTRate
	}
	if override.IGSTAmount != nil {
		f.IGSTAmount = override.IGSTAmount
	}
	if override.Total != nil {
		f.Total = override.Total
	}
	return f
}

// normalize maps the vendor_gstin alias onto gstin when gstin itself was not
// supplied.
func (f *InvoiceFields) normalize() {
	if f.GSTIN == nil && f.VendorGSTIN != nil {
		f.GSTIN = f.VendorGSTIN
	}
}

// CheckResult is the outcome of a single rule.
type CheckResult struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// VerifyResponse is the full verification result. Checks always holds
// exactly one entry per rule, in canonical order, regardless of which inputs
// were present.
type VerifyResponse struct {
	Verdict   string        `json:"verdict"`
	Score     int           `json:"score"`
	Checks    []CheckResult `json:"checks"`
	Extracted InvoiceFields `json:"extracted"`
}

// StateInfo is the state resolved from the first two GSTIN digits.
type StateInfo struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// GSTINInfo is the structural breakdown of a GSTIN. All resolved sub-parts
// are kept even when the GSTIN is invalid, for diagnostics.
type GSTINInfo struct {
	Raw              string     `json:"raw"`
	Normalized       string     `json:"normalized,omitempty"`
	Valid            bool       `json:"valid"`
	Errors           []string   `json:"errors"`
	State            *StateInfo `json:"state,omitempty"`
	PAN              string     `json:"pan,omitempty"`
	ExpectedChecksum string     `json:"expected_checksum,omitempty"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ptr[T any](v T) *T { return &v }
