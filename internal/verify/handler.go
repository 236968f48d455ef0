package verify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// TextExtractor converts an uploaded binary document into plain text before
// field extraction runs. The core never reads binary formats itself.
type TextExtractor interface {
	ExtractText(ctx context.Context, filename string, data []byte) (string, error)
}

// Service wires config, the rule engine, duplicate storage, text extraction,
// and audit into HTTP handlers.
type Service struct {
	cfg     Config
	engine  *Engine
	store   DuplicateStore
	text    TextExtractor
	audit   AuditRecorder
	limiter *RateLimiter
	metrics *Metrics
	logger  *slog.Logger
}

func NewService(cfg Config, engine *Engine, store DuplicateStore, text TextExtractor, audit AuditRecorder, metrics *Metrics, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return Service{
		cfg:     cfg,
		engine:  engine,
		store:   store,
		text:    text,
		audit:   audit,
		limiter: NewRateLimiter(cfg.RateLimit, cfg.RateWindow),
		metrics: metrics,
		logger:  logger,
	}
}

func (s Service) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", s.Root)
	r.Get("/health", s.Health)
	r.Group(func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Post("/verify", s.Verify)
		r.Post("/verify-json", s.VerifyJSON)
	})
	return r
}

// Root matches GET /
func (s Service) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Invoice Verifier API",
		"version": s.cfg.Version,
		"status":  "running",
	})
}

// Health matches GET /health
func (s Service) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// VerifyJSON matches POST /verify-json: a typed field record, with an
// optional ?record= flag to persist the invoice for future duplicate checks.
func (s Service) VerifyJSON(w http.ResponseWriter, r *http.Request) {
	corrID, logger := s.requestLogger(r)

	defer r.Body.Close()
	var fields InvoiceFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"code": "BAD_REQUEST", "message": "invalid JSON: " + err.Error()})
		return
	}
	record, _ := strconv.ParseBool(r.URL.Query().Get("record"))
	s.verifyAndRespond(w, r, logger, corrID, fields, record)
}

// Verify matches POST /verify: multipart form with an optional PDF "file",
// an optional "json_invoice" JSON-object string whose fields override what
// extraction found, and an optional "record" flag.
func (s Service) Verify(w http.ResponseWriter, r *http.Request) {
	corrID, logger := s.requestLogger(r)

	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"code": "BAD_REQUEST", "message": "invalid multipart form: " + err.Error()})
		return
	}

	var fields InvoiceFields
	hasInput := false

	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		if s.text == nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"code": "BAD_REQUEST", "message": "file uploads are not supported by this deployment"})
			return
		}
		data, readErr := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
		if readErr != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"code": "BAD_REQUEST", "message": "could not read upload: " + readErr.Error()})
			return
		}
		if int64(len(data)) > s.cfg.MaxUploadBytes {
			writeJSON(w, http.StatusBadRequest, map[string]string{"code": "BAD_REQUEST", "message": "uploaded file too large"})
			return
		}
		text, exErr := s.text.ExtractText(r.Context(), header.Filename, data)
		if exErr != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"code": "BAD_REQUEST", "message": exErr.Error()})
			return
		}
		fields = ExtractFields(text)
		hasInput = true
	}

	if raw := strings.TrimSpace(r.FormValue("json_invoice")); raw != "" {
		var override InvoiceFields
		if err := json.Unmarshal([]byte(raw), &override); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"code": "BAD_REQUEST", "message": "json_invoice must be a JSON object string"})
			return
		}
		fields = fields.Merge(override)
		hasInput = true
	}

	if !hasInput {
		writeJSON(w, http.StatusBadRequest, map[string]string{"code": "BAD_REQUEST", "message": "Provide a PDF file or json_invoice fields"})
		return
	}

	record, _ := strconv.ParseBool(r.FormValue("record"))
	s.verifyAndRespond(w, r, logger, corrID, fields, record)
}

func (s Service) verifyAndRespond(w http.ResponseWriter, r *http.Request, logger *slog.Logger, corrID string, fields InvoiceFields, record bool) {
	start := time.Now()
	result := s.engine.Verify(r.Context(), fields)
	if s.metrics != nil {
		s.metrics.ObserveVerification(result, start)
	}

	if record {
		s.recordInvoice(r.Context(), logger, result.Extracted)
	}
	if err := s.appendAudit(r.Context(), corrID, clientKey(r), result); err != nil {
		logger.Warn("audit append failed", "error", err)
	}

	logger.Info("invoice verified", "verdict", result.Verdict, "score", result.Score)
	writeJSON(w, http.StatusOK, result)
}

func (s Service) recordInvoice(ctx context.Context, logger *slog.Logger, fields InvoiceFields) {
	if s.store == nil {
		return
	}
	gstin, invNo := duplicateKey(fields)
	if gstin == "" || invNo == "" {
		return
	}
	if err := s.store.Record(ctx, gstin, invNo); err != nil {
		logger.Warn("duplicate record failed", "error", err)
	}
}

func (s Service) appendAudit(ctx context.Context, corrID, client string, result VerifyResponse) error {
	if s.audit == nil {
		return nil
	}
	entry := AuditEntry{
		AuditID: uuid.NewString(),
		CorrID:  corrID,
		Client:  client,
		Action:  "invoice.verify",
		Verdict: result.Verdict,
		Score:   result.Score,
		Ts:      time.Now().UTC(),
	}
	_, err := HashChain(ctx, s.audit, client, entry)
	return err
}

func (s Service) requestLogger(r *http.Request) (string, *slog.Logger) {
	corrID := r.Header.Get("X-Correlation-Id")
	if corrID == "" {
		corrID = uuid.NewString()
	}
	return corrID, CorrelationLogger(s.logger, corrID)
}

func (s Service) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, retryAfter := s.limiter.Allow(clientKey(r))
		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"code": "RATE_LIMITED", "message": "too many verification requests"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
