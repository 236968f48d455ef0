package verify

import (
	"context"
	"strings"
	"sync"
	"time"
)

// DuplicateStore reports and records prior occurrences of an invoice, keyed
// by normalized GSTIN and invoice number. Implementations must be safe for
// concurrent use. The engine only defines the contract; storage lives with
// the deployment.
type DuplicateStore interface {
	Seen(ctx context.Context, gstin, invoiceNo string) (bool, error)
	Record(ctx context.Context, gstin, invoiceNo string) error
}

// duplicateKey normalizes the (gstin, invoice number) pair used to key the
// duplicate store.
func duplicateKey(f InvoiceFields) (string, string) {
	return strings.ToUpper(strings.TrimSpace(deref(f.GSTIN))), strings.TrimSpace(deref(f.InvoiceNo))
}

// InMemoryDuplicateStore is a process-local duplicate store to unblock local
// runs without a database.
type InMemoryDuplicateStore struct {
	mu   sync.RWMutex
	seen map[string]time.Time
}

func NewInMemoryDuplicateStore() *InMemoryDuplicateStore {
	return &InMemoryDuplicateStore{seen: map[string]time.Time{}}
}

func (s *InMemoryDuplicateStore) Seen(ctx context.Context, gstin, invoiceNo string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.seen[gstin+"|"+invoiceNo]
	return ok, ctx.Err()
}

func (s *InMemoryDuplicateStore) Record(ctx context.Context, gstin, invoiceNo string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[gstin+"|"+invoiceNo] = time.Now().UTC()
	return ctx.Err()
}
