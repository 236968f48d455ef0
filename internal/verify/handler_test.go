package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTextExtractor struct {
	text string
	err  error
}

func (s stubTextExtractor) ExtractText(_ context.Context, _ string, _ []byte) (string, error) {
	return s.text, s.err
}

func newTestService(t *testing.T, text TextExtractor, rateLimit int) Service {
	t.Helper()
	cfg := Config{
		Version:         "test",
		Tolerance:       0.05,
		PassThreshold:   80,
		ReviewThreshold: 60,
		MaxUploadBytes:  1 << 20,
		RateLimit:       rateLimit,
		RateWindow:      0,
	}
	if rateLimit > 0 {
		cfg.RateWindow = time.Hour
	}
	store := NewInMemoryDuplicateStore()
	engine := NewEngine(cfg, store, testLogger())
	return NewService(cfg, engine, store, text, NewMemoryAuditRecorder(), nil, testLogger())
}

func doRequest(t *testing.T, svc Service, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	svc.Routes().ServeHTTP(rec, req)
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) VerifyResponse {
	t.Helper()
	var result VerifyResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	return result
}

func TestHealth(t *testing.T) {
	svc := newTestService(t, nil, 0)
	rec := doRequest(t, svc, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestRoot(t *testing.T) {
	svc := newTestService(t, nil, 0)
	rec := doRequest(t, svc, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invoice Verifier API")
}

func TestVerifyJSONCleanInvoice(t *testing.T) {
	svc := newTestService(t, nil, 0)
	body, err := json.Marshal(cleanInvoice())
	require.NoError(t, err)

	rec := doRequest(t, svc, httptest.NewRequest(http.MethodPost, "/verify-json", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	result := decodeResult(t, rec)
	assert.Equal(t, VerdictPass, result.Verdict)
	assert.Equal(t, 100, result.Score)
	require.Len(t, result.Checks, 7)
}

func TestVerifyJSONMalformedBody(t *testing.T) {
	svc := newTestService(t, nil, 0)
	rec := doRequest(t, svc, httptest.NewRequest(http.MethodPost, "/verify-json", strings.NewReader("{not json")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "BAD_REQUEST")
}

func TestVerifyJSONRecordFlagsDuplicates(t *testing.T) {
	svc := newTestService(t, nil, 0)
	body, err := json.Marshal(cleanInvoice())
	require.NoError(t, err)

	rec := doRequest(t, svc, httptest.NewRequest(http.MethodPost, "/verify-json?record=true", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 100, decodeResult(t, rec).Score)

	rec = doRequest(t, svc, httptest.NewRequest(http.MethodPost, "/verify-json", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeResult(t, rec)
	dup := result.Checks[6]
	assert.Equal(t, CheckDuplicate, dup.Name)
	assert.Equal(t, StatusFail, dup.Status)
}

func multipartRequest(t *testing.T, fields map[string]string, fileName string, fileContent []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = fw.Write(fileContent)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/verify", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestVerifyMultipartJSONOnly(t *testing.T) {
	svc := newTestService(t, nil, 0)
	body, err := json.Marshal(cleanInvoice())
	require.NoError(t, err)

	rec := doRequest(t, svc, multipartRequest(t, map[string]string{"json_invoice": string(body)}, "", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, VerdictPass, decodeResult(t, rec).Verdict)
}

func TestVerifyMultipartNoInput(t *testing.T) {
	svc := newTestService(t, nil, 0)
	rec := doRequest(t, svc, multipartRequest(t, map[string]string{}, "", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Provide a PDF file or json_invoice")
}

func TestVerifyMultipartBadJSONInvoice(t *testing.T) {
	svc := newTestService(t, nil, 0)
	rec := doRequest(t, svc, multipartRequest(t, map[string]string{"json_invoice": `["not","an","object"]`}, "", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "JSON object string")
}

func TestVerifyMultipartFileExtraction(t *testing.T) {
	svc := newTestService(t, stubTextExtractor{text: sampleInvoiceText}, 0)
	rec := doRequest(t, svc, multipartRequest(t, nil, "invoice.pdf", []byte("%PDF-stub")))
	require.Equal(t, http.StatusOK, rec.Code)

	result := decodeResult(t, rec)
	assert.Equal(t, VerdictPass, result.Verdict)
	require.NotNil(t, result.Extracted.GSTIN)
	assert.Equal(t, "09AABCU6223H2ZB", *result.Extracted.GSTIN)
}

func TestVerifyMultipartExplicitFieldsWin(t *testing.T) {
	svc := newTestService(t, stubTextExtractor{text: sampleInvoiceText}, 0)
	rec := doRequest(t, svc, multipartRequest(t,
		map[string]string{"json_invoice": `{"place_of_supply":"Maharashtra"}`},
		"invoice.pdf", []byte("%PDF-stub")))
	require.Equal(t, http.StatusOK, rec.Code)

	result := decodeResult(t, rec)
	require.NotNil(t, result.Extracted.PlaceOfSupply)
	assert.Equal(t, "Maharashtra", *result.Extracted.PlaceOfSupply)
	assert.Equal(t, StatusWarn, result.Checks[3].Status)
}

func TestVerifyMultipartExtractionError(t *testing.T) {
	svc := newTestService(t, stubTextExtractor{err: errors.New("only PDF uploads are supported")}, 0)
	rec := doRequest(t, svc, multipartRequest(t, nil, "invoice.png", []byte("png bytes")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "only PDF uploads are supported")
}

func TestVerifyRateLimited(t *testing.T) {
	svc := newTestService(t, nil, 1)
	body, err := json.Marshal(cleanInvoice())
	require.NoError(t, err)

	rec := doRequest(t, svc, httptest.NewRequest(http.MethodPost, "/verify-json", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, svc, httptest.NewRequest(http.MethodPost, "/verify-json", bytes.NewReader(body)))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}
