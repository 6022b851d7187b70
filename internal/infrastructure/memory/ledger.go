package memory

import (
	"context"
	"sync"

	"github.com/ticket-hub/ticket-hub/internal/domain/redemption"
)

// Ledger implements redemption.Ledger in process memory.
type Ledger struct {
	mu         sync.Mutex
	records    map[string]redemption.CodeRecord
	duplicates map[string][]redemption.DuplicateAttempt
}

func NewLedger() *Ledger {
	return &Ledger{
		records:    make(map[string]redemption.CodeRecord),
		duplicates: make(map[string][]redemption.DuplicateAttempt),
	}
}

func (l *Ledger) Get(_ context.Context, code string) (*redemption.CodeRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.records[code]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (l *Ledger) Claim(_ context.Context, rec *redemption.CodeRecord) (*redemption.CodeRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.records[rec.Code]; ok {
		return &existing, redemption.ErrCodeAlreadyClaimed
	}
	l.records[rec.Code] = *rec
	return rec, nil
}

func (l *Ledger) RecordDuplicate(_ context.Context, attempt *redemption.DuplicateAttempt) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.duplicates[attempt.Code] = append(l.duplicates[attempt.Code], *attempt)
	return nil
}

func (l *Ledger) ListDuplicates(_ context.Context, code string) ([]*redemption.DuplicateAttempt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []*redemption.DuplicateAttempt
	for _, a := range l.duplicates[code] {
		a := a
		out = append(out, &a)
	}
	return out, nil
}
