// Package parse orchestrates batch parsing of the downloaded corpus:
// listing documents, dispatching them to parser workers, and routing each
// outcome to the record ledger or the failure ledger.
package parse

import (
	"context"

	"github.com/jhenkel/nrwe"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the default number of parser workers.
const DefaultConcurrency = 8

// Runner parses every document in the source that is not yet in the
// record ledger. Workers parse whole documents in parallel and share no
// mutable state; all ledger writes happen on the collecting goroutine, so
// appends are never interleaved.
type Runner struct {
	Source      nrwe.DocumentSource
	Parser      nrwe.Parser
	Records     nrwe.RecordLedger
	Failures    nrwe.FailureLedger
	Concurrency int
}

// Result holds the outcome of a parse run.
type Result struct {
	Parsed         int
	Skipped        int
	Failed         int
	FieldFailures  int
	FailuresByKind map[nrwe.FailureKind]int
}

// ProgressEvent reports progress during a parse run.
type ProgressEvent struct {
	Type       ProgressType
	Completed  int
	Total      int
	DocumentID string
	Error      error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting parse progress.
type ProgressFunc func(event ProgressEvent)

// Run parses all pending documents. Classified parse failures are
// recorded and never abort the run; only ledger I/O errors do. Every
// dispatched document yields exactly one outcome.
func (r *Runner) Run(ctx context.Context, progress ProgressFunc) (*Result, error) {
	ids, err := r.Source.List(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{
		FailuresByKind: make(map[nrwe.FailureKind]int),
	}

	// Re-runs skip documents already in the ledger before dispatch.
	pending := make([]string, 0, len(ids))
	for _, id := range ids {
		if r.Records.Has(id) {
			result.Skipped++
			continue
		}
		pending = append(pending, id)
	}

	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	total := len(pending)
	if progress != nil {
		progress(ProgressEvent{
			Type:  ProgressStarted,
			Total: total,
		})
	}

	outcomeCh := make(chan *nrwe.ParseOutcome, concurrency)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for _, id := range pending {
			g.Go(func() error {
				outcomeCh <- r.parseOne(gctx, id)
				return nil
			})
		}
		_ = g.Wait()
		close(outcomeCh)
	}()

	// Single writer: ledger appends and failure records happen only here.
	// On a ledger error the loop keeps draining so no worker stays blocked
	// on outcomeCh; remaining outcomes are discarded.
	var runErr error
	completed := 0
	for outcome := range outcomeCh {
		if runErr != nil {
			continue
		}
		completed++

		if outcome.Failed() {
			if err := r.Failures.Record(ctx, *outcome.Failure); err != nil {
				runErr = err
				continue
			}
			result.Failed++
			result.FailuresByKind[outcome.Failure.Kind]++
			if progress != nil {
				progress(ProgressEvent{
					Type:       ProgressFailed,
					Completed:  completed,
					Total:      total,
					DocumentID: outcome.DocumentID,
					Error:      nrwe.ParseErrorf(outcome.Failure.Kind, "%s", outcome.Failure.Detail),
				})
			}
			continue
		}

		if err := r.Records.Append(ctx, outcome.Record); err != nil {
			runErr = err
			continue
		}
		for _, f := range outcome.FieldFailures {
			if err := r.Failures.Record(ctx, f); err != nil {
				runErr = err
				break
			}
			result.FailuresByKind[f.Kind]++
		}
		if runErr != nil {
			continue
		}
		result.Parsed++
		result.FieldFailures += len(outcome.FieldFailures)

		if progress != nil {
			progress(ProgressEvent{
				Type:       ProgressCompleted,
				Completed:  completed,
				Total:      total,
				DocumentID: outcome.DocumentID,
			})
		}
	}

	if runErr != nil {
		return nil, runErr
	}

	if progress != nil {
		progress(ProgressEvent{
			Type:      ProgressFinished,
			Completed: total,
			Total:     total,
		})
	}

	return result, nil
}

// parseOne reads and parses a single document. Read errors classify as
// malformed documents rather than aborting the run: a file that cannot
// be read yields an outcome like any other.
func (r *Runner) parseOne(ctx context.Context, id string) *nrwe.ParseOutcome {
	doc, err := r.Source.Read(ctx, id)
	if err != nil {
		return &nrwe.ParseOutcome{
			DocumentID: id,
			Failure: &nrwe.Failure{
				DocumentID: id,
				Kind:       nrwe.FailureMalformedDocument,
				Detail:     "read: " + err.Error(),
			},
		}
	}
	return r.Parser.Parse(doc)
}
