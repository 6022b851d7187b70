package redemption

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_ledger.go -package=mocks . Ledger

import "context"

// Ledger is the durable record of consumed codes.
type Ledger interface {
	// Get returns the record for code, or nil, nil if the code is unused.
	Get(ctx context.Context, code string) (*CodeRecord, error)
	// Claim inserts rec only if its code is unused. When the code already has
	// an owner, Claim returns that record and ErrCodeAlreadyClaimed.
	Claim(ctx context.Context, rec *CodeRecord) (*CodeRecord, error)
	// RecordDuplicate stores a duplicate attempt. The original record is untouched.
	RecordDuplicate(ctx context.Context, attempt *DuplicateAttempt) error
	// ListDuplicates returns the duplicate attempts recorded for code, oldest first.
	ListDuplicates(ctx context.Context, code string) ([]*DuplicateAttempt, error)
}
