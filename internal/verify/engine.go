package verify

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"
)

// checkWeights fixes each rule's contribution to the 0-100 score. PASS earns
// the full weight, WARN half of it truncated toward zero, FAIL and INFO
// nothing.
var checkWeights = map[string]int{
	CheckGSTIN:     25,
	CheckInvoiceNo: 15,
	CheckDate:      10,
	CheckPlace:     5,
	CheckHSN:       5,
	CheckMath:      30,
	CheckDuplicate: 10,
}

// Engine runs the seven invoice rules in canonical order and folds the
// outcomes into a weighted score and verdict. It holds no per-call state and
// is safe for concurrent use.
type Engine struct {
	cfg       Config
	tolerance decimal.Decimal
	dupes     DuplicateStore
	logger    *slog.Logger
	rules     []ruleFunc
}

// NewEngine builds an engine. dupes may be nil, in which case the duplicate
// check reports INFO and defers to whatever the deployment wires in.
func NewEngine(cfg Config, dupes DuplicateStore, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		cfg:       cfg,
		tolerance: decimal.NewFromFloat(cfg.Tolerance),
		dupes:     dupes,
		logger:    logger,
	}
	// Canonical order. New rules slot in here without touching scoring.
	e.rules = []ruleFunc{
		checkGSTINStructure,
		checkInvoiceNumber,
		checkInvoiceDate,
		checkPlaceOfSupply,
		checkHSNFormat,
		e.checkArithmetic,
		e.checkDuplicate,
	}
	return e
}

// Verify evaluates every rule regardless of the others' outcomes and returns
// the scored result. The returned Extracted record is the normalized input,
// so callers see exactly what was judged.
func (e *Engine) Verify(ctx context.Context, fields InvoiceFields) VerifyResponse {
	fields.normalize()

	rc := &ruleContext{
		fields: fields,
		gstin:  ValidateGSTIN(deref(fields.GSTIN)),
	}

	checks := make([]CheckResult, 0, len(e.rules))
	for _, rule := range e.rules {
		checks = append(checks, rule(ctx, rc))
	}

	score := Score(checks)
	return VerifyResponse{
		Verdict:   e.verdict(score),
		Score:     score,
		Checks:    checks,
		Extracted: fields,
	}
}

// Score recomputes the weighted score purely from the check statuses.
func Score(checks []CheckResult) int {
	score := 0
	for _, c := range checks {
		w := checkWeights[c.Name]
		switch c.Status {
		case StatusPass:
			score += w
		case StatusWarn:
			score += w / 2
		}
	}
	return score
}

func (e *Engine) verdict(score int) string {
	switch {
	case score >= e.cfg.PassThreshold:
		return VerdictPass
	case score >= e.cfg.ReviewThreshold:
		return VerdictReview
	default:
		return VerdictFail
	}
}
