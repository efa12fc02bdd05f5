package fs

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/jhenkel/nrwe"
)

// Ensure Ledger implements nrwe.RecordLedger at compile time.
var _ nrwe.RecordLedger = (*Ledger)(nil)

// Ledger is the append-only NDJSON output stream: one JSON record per
// line, one line per successfully parsed document. Opening an existing
// ledger loads its document identifiers so re-runs skip parsed
// documents. Appends are serialized by a mutex so concurrent workers
// never interleave partial records.
type Ledger struct {
	mu   sync.Mutex
	file *os.File
	seen map[string]struct{}
}

// OpenLedger opens or creates the ledger at path and indexes the
// identifiers of records already present.
func OpenLedger(path string) (*Ledger, error) {
	seen := make(map[string]struct{})

	if existing, err := os.Open(path); err == nil {
		scanner := bufio.NewScanner(existing)
		scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
		for scanner.Scan() {
			var record struct {
				ID string `json:"id"`
			}
			if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
				existing.Close()
				return nil, nrwe.Errorf(nrwe.EINTERNAL, "corrupt ledger line: %v", err)
			}
			if record.ID != "" {
				seen[record.ID] = struct{}{}
			}
		}
		if err := scanner.Err(); err != nil {
			existing.Close()
			return nil, err
		}
		existing.Close()
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	return &Ledger{file: file, seen: seen}, nil
}

// Append writes one record to the ledger. The parse timestamp is
// stamped here so parsing itself stays deterministic.
func (l *Ledger) Append(ctx context.Context, record *nrwe.CaseRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.seen[record.ID]; ok {
		return nrwe.Errorf(nrwe.ECONFLICT, "record %q already in ledger", record.ID)
	}

	if record.ParsedAt.IsZero() {
		record.ParsedAt = time.Now().UTC()
	}

	line, err := json.Marshal(record)
	if err != nil {
		return err
	}
	if _, err := l.file.Write(append(line, '\n')); err != nil {
		return err
	}

	l.seen[record.ID] = struct{}{}
	return nil
}

// Has reports whether a record for the document identifier is already
// present.
func (l *Ledger) Has(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.seen[id]
	return ok
}

// Len returns the number of records in the ledger.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.seen)
}

// Close flushes and closes the underlying file.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.file.Sync(); err != nil {
		l.file.Close()
		return err
	}
	return l.file.Close()
}
