package mock

import (
	"context"

	"github.com/jhenkel/nrwe"
)

var _ nrwe.RecordLedger = (*RecordLedger)(nil)

// RecordLedger is a mock implementation of nrwe.RecordLedger.
type RecordLedger struct {
	AppendFn func(ctx context.Context, record *nrwe.CaseRecord) error
	HasFn    func(id string) bool
}

func (l *RecordLedger) Append(ctx context.Context, record *nrwe.CaseRecord) error {
	return l.AppendFn(ctx, record)
}

func (l *RecordLedger) Has(id string) bool {
	if l.HasFn == nil {
		return false
	}
	return l.HasFn(id)
}

var _ nrwe.FailureLedger = (*FailureLedger)(nil)

// FailureLedger is a mock implementation of nrwe.FailureLedger.
type FailureLedger struct {
	RecordFn      func(ctx context.Context, failure nrwe.Failure) error
	CountByKindFn func(ctx context.Context) (map[nrwe.FailureKind]int, error)
}

func (l *FailureLedger) Record(ctx context.Context, failure nrwe.Failure) error {
	return l.RecordFn(ctx, failure)
}

func (l *FailureLedger) CountByKind(ctx context.Context) (map[nrwe.FailureKind]int, error) {
	return l.CountByKindFn(ctx)
}
