package verify

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// AuditEntry records one verification request for the tamper-evident trail.
type AuditEntry struct {
	AuditID  string    `json:"auditId"`
	CorrID   string    `json:"corrId"`
	Client   string    `json:"client"`
	Action   string    `json:"action"`
	Verdict  string    `json:"verdict"`
	Score    int       `json:"score"`
	Ts       time.Time `json:"timestamp"`
	Hash     string    `json:"hash"`
	PrevHash string    `json:"prevHash"`
}

type AuditRecorder interface {
	Append(ctx context.Context, entry AuditEntry) error
	Last(ctx context.Context, client string) (AuditEntry, error)
}

// HashChain links the entry to the client's previous one before appending,
// so any rewrite of history breaks the chain.
func HashChain(ctx context.Context, rec AuditRecorder, client string, entry AuditEntry) (AuditEntry, error) {
	prev, _ := rec.Last(ctx, client)
	entry.PrevHash = prev.Hash
	entry.Hash = hashAudit(entry)
	return entry, rec.Append(ctx, entry)
}

func hashAudit(entry AuditEntry) string {
	payload := fmt.Sprintf("%s|%s|%s|%s|%d|%s|%s",
		entry.CorrID, entry.Client, entry.Action, entry.Verdict, entry.Score,
		entry.Ts.UTC().Format(time.RFC3339Nano), entry.PrevHash)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// CorrelationLogger scopes the logger to one request.
func CorrelationLogger(logger *slog.Logger, corrID string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With("corrId", corrID)
}

// MemoryAuditRecorder keeps the trail in process memory.
type MemoryAuditRecorder struct {
	mu       sync.Mutex
	byClient map[string][]AuditEntry
}

func NewMemoryAuditRecorder() *MemoryAuditRecorder {
	return &MemoryAuditRecorder{byClient: map[string][]AuditEntry{}}
}

func (m *MemoryAuditRecorder) Append(_ context.Context, entry AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byClient[entry.Client] = append(m.byClient[entry.Client], entry)
	return nil
}

func (m *MemoryAuditRecorder) Last(_ context.Context, client string) (AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.byClient[client]
	if len(list) == 0 {
		return AuditEntry{}, fmt.Errorf("empty")
	}
	return list[len(list)-1], nil
}
