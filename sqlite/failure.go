package sqlite

import (
	"context"
	"time"

	"github.com/jhenkel/nrwe"
)

// Compile-time interface verification.
var _ nrwe.FailureLedger = (*FailureService)(nil)

// FailureService implements nrwe.FailureLedger using SQLite. Each failed
// document is recorded with its classified reason so a later run can
// retry selectively and report aggregate counts.
type FailureService struct {
	db *DB
}

// NewFailureService creates a new FailureService.
func NewFailureService(db *DB) *FailureService {
	return &FailureService{db: db}
}

// Record stores one classified failure.
func (s *FailureService) Record(ctx context.Context, failure nrwe.Failure) error {
	if failure.DocumentID == "" {
		return nrwe.Errorf(nrwe.EINVALID, "failure document ID required")
	}
	if failure.Kind == "" {
		return nrwe.Errorf(nrwe.EINVALID, "failure kind required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO parse_failures (document_id, kind, detail, recorded_at)
		VALUES (?, ?, ?, ?)
	`, failure.DocumentID, string(failure.Kind), failure.Detail, time.Now().UTC().Format(time.RFC3339))

	return err
}

// CountByKind returns the aggregate number of recorded failures per kind.
func (s *FailureService) CountByKind(ctx context.Context) (map[nrwe.FailureKind]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, COUNT(*) FROM parse_failures GROUP BY kind
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[nrwe.FailureKind]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[nrwe.FailureKind(kind)] = n
	}

	return counts, rows.Err()
}

// FindByDocument returns the failures recorded for one document, newest
// first.
func (s *FailureService) FindByDocument(ctx context.Context, documentID string) ([]nrwe.Failure, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT document_id, kind, detail FROM parse_failures
		WHERE document_id = ?
		ORDER BY recorded_at DESC
	`, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var failures []nrwe.Failure
	for rows.Next() {
		var f nrwe.Failure
		var kind string
		if err := rows.Scan(&f.DocumentID, &kind, &f.Detail); err != nil {
			return nil, err
		}
		f.Kind = nrwe.FailureKind(kind)
		failures = append(failures, f)
	}

	return failures, rows.Err()
}
