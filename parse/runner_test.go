package parse_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jhenkel/nrwe"
	"github.com/jhenkel/nrwe/mock"
	"github.com/jhenkel/nrwe/parse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// corpusSource returns a DocumentSource over an in-memory id→html map.
func corpusSource(docs map[string]string) *mock.DocumentSource {
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	return &mock.DocumentSource{
		ListFn: func(ctx context.Context) ([]string, error) {
			return ids, nil
		},
		ReadFn: func(ctx context.Context, id string) (*nrwe.RawDocument, error) {
			html, ok := docs[id]
			if !ok {
				return nil, nrwe.Errorf(nrwe.ENOTFOUND, "document not found: %s", id)
			}
			return &nrwe.RawDocument{ID: id, HTML: html}, nil
		},
	}
}

// collectingLedgers returns mock ledgers that record appends and failures
// under a shared mutex.
func collectingLedgers(seen map[string]bool) (*mock.RecordLedger, *mock.FailureLedger, *sync.Mutex, *[]string, *[]nrwe.Failure) {
	var mu sync.Mutex
	var appended []string
	var failures []nrwe.Failure

	records := &mock.RecordLedger{
		AppendFn: func(ctx context.Context, record *nrwe.CaseRecord) error {
			mu.Lock()
			defer mu.Unlock()
			appended = append(appended, record.ID)
			return nil
		},
		HasFn: func(id string) bool {
			return seen[id]
		},
	}
	failureLedger := &mock.FailureLedger{
		RecordFn: func(ctx context.Context, failure nrwe.Failure) error {
			mu.Lock()
			defer mu.Unlock()
			failures = append(failures, failure)
			return nil
		},
	}
	return records, failureLedger, &mu, &appended, &failures
}

func okParser() *mock.Parser {
	return &mock.Parser{
		ParseFn: func(doc *nrwe.RawDocument) *nrwe.ParseOutcome {
			return &nrwe.ParseOutcome{
				DocumentID: doc.ID,
				Record: &nrwe.CaseRecord{
					ID:           doc.ID,
					Court:        "Oberlandesgericht Hamm",
					Date:         "15.01.2024",
					DocketNumber: "2 U 45/23",
					Format:       nrwe.FormatJudgment,
				},
			}
		},
	}
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	t.Run("every document yields exactly one outcome", func(t *testing.T) {
		t.Parallel()

		docs := map[string]string{
			"a.html": "<html>a</html>",
			"b.html": "<html>b</html>",
			"c.html": "<html>c</html>",
		}
		records, failures, mu, appended, _ := collectingLedgers(nil)

		runner := &parse.Runner{
			Source:   corpusSource(docs),
			Parser:   okParser(),
			Records:  records,
			Failures: failures,
		}
		result, err := runner.Run(context.Background(), nil)
		require.NoError(t, err)

		assert.Equal(t, 3, result.Parsed)
		assert.Equal(t, 0, result.Failed)
		mu.Lock()
		defer mu.Unlock()
		assert.ElementsMatch(t, []string{"a.html", "b.html", "c.html"}, *appended)
	})

	t.Run("skips documents already in the ledger", func(t *testing.T) {
		t.Parallel()

		docs := map[string]string{
			"a.html": "<html>a</html>",
			"b.html": "<html>b</html>",
		}
		records, failures, mu, appended, _ := collectingLedgers(map[string]bool{"a.html": true})

		runner := &parse.Runner{
			Source:   corpusSource(docs),
			Parser:   okParser(),
			Records:  records,
			Failures: failures,
		}
		result, err := runner.Run(context.Background(), nil)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Parsed)
		assert.Equal(t, 1, result.Skipped)
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, []string{"b.html"}, *appended)
	})

	t.Run("classified failures are recorded and counted per kind", func(t *testing.T) {
		t.Parallel()

		docs := map[string]string{
			"good.html":      "<html>ok</html>",
			"ambiguous.html": "<html>both</html>",
		}
		records, failureLedger, mu, _, failures := collectingLedgers(nil)

		parser := &mock.Parser{
			ParseFn: func(doc *nrwe.RawDocument) *nrwe.ParseOutcome {
				if doc.ID == "ambiguous.html" {
					return &nrwe.ParseOutcome{
						DocumentID: doc.ID,
						Failure: &nrwe.Failure{
							DocumentID: doc.ID,
							Kind:       nrwe.FailureAmbiguousFormat,
							Detail:     "both marker sets matched",
						},
					}
				}
				return okParser().Parse(doc)
			},
		}

		runner := &parse.Runner{
			Source:   corpusSource(docs),
			Parser:   parser,
			Records:  records,
			Failures: failureLedger,
		}
		result, err := runner.Run(context.Background(), nil)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Parsed)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, 1, result.FailuresByKind[nrwe.FailureAmbiguousFormat])
		mu.Lock()
		defer mu.Unlock()
		require.Len(t, *failures, 1)
		assert.Equal(t, "ambiguous.html", (*failures)[0].DocumentID)
	})

	t.Run("field failures are recorded without failing the document", func(t *testing.T) {
		t.Parallel()

		docs := map[string]string{"a.html": "<html>a</html>"}
		records, failureLedger, mu, appended, failures := collectingLedgers(nil)

		parser := &mock.Parser{
			ParseFn: func(doc *nrwe.RawDocument) *nrwe.ParseOutcome {
				outcome := okParser().Parse(doc)
				outcome.FieldFailures = []nrwe.Failure{{
					DocumentID: doc.ID,
					Kind:       nrwe.FailureFieldExtraction,
					Detail:     "keywords: unknown delimiter convention",
				}}
				return outcome
			},
		}

		runner := &parse.Runner{
			Source:   corpusSource(docs),
			Parser:   parser,
			Records:  records,
			Failures: failureLedger,
		}
		result, err := runner.Run(context.Background(), nil)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Parsed)
		assert.Equal(t, 1, result.FieldFailures)
		mu.Lock()
		defer mu.Unlock()
		assert.Len(t, *appended, 1)
		require.Len(t, *failures, 1)
		assert.Equal(t, nrwe.FailureFieldExtraction, (*failures)[0].Kind)
	})

	t.Run("unreadable documents classify as malformed", func(t *testing.T) {
		t.Parallel()

		source := &mock.DocumentSource{
			ListFn: func(ctx context.Context) ([]string, error) {
				return []string{"broken.html"}, nil
			},
			ReadFn: func(ctx context.Context, id string) (*nrwe.RawDocument, error) {
				return nil, nrwe.Errorf(nrwe.EINTERNAL, "permission denied")
			},
		}
		records, failureLedger, mu, _, failures := collectingLedgers(nil)

		runner := &parse.Runner{
			Source:   source,
			Parser:   okParser(),
			Records:  records,
			Failures: failureLedger,
		}
		result, err := runner.Run(context.Background(), nil)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, 1, result.FailuresByKind[nrwe.FailureMalformedDocument])
		mu.Lock()
		defer mu.Unlock()
		require.Len(t, *failures, 1)
	})

	t.Run("ledger append errors abort the run", func(t *testing.T) {
		t.Parallel()

		docs := map[string]string{"a.html": "<html>a</html>"}
		records := &mock.RecordLedger{
			AppendFn: func(ctx context.Context, record *nrwe.CaseRecord) error {
				return nrwe.Errorf(nrwe.EINTERNAL, "disk full")
			},
		}
		failureLedger := &mock.FailureLedger{
			RecordFn: func(ctx context.Context, failure nrwe.Failure) error {
				return nil
			},
		}

		runner := &parse.Runner{
			Source:   corpusSource(docs),
			Parser:   okParser(),
			Records:  records,
			Failures: failureLedger,
		}
		_, err := runner.Run(context.Background(), nil)
		require.Error(t, err)
		assert.Equal(t, nrwe.EINTERNAL, nrwe.ErrorCode(err))
	})

	t.Run("append errors do not strand in-flight workers", func(t *testing.T) {
		t.Parallel()

		// More documents than the outcome buffer holds; if the collector
		// stopped draining on the first append error, the remaining workers
		// would block forever and Run would never return.
		docs := make(map[string]string)
		for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
			docs[id+".html"] = "<html>" + id + "</html>"
		}

		var parsed atomic.Int64
		parser := &mock.Parser{
			ParseFn: func(doc *nrwe.RawDocument) *nrwe.ParseOutcome {
				parsed.Add(1)
				return okParser().Parse(doc)
			},
		}
		records := &mock.RecordLedger{
			AppendFn: func(ctx context.Context, record *nrwe.CaseRecord) error {
				return nrwe.Errorf(nrwe.EINTERNAL, "disk full")
			},
		}
		failureLedger := &mock.FailureLedger{
			RecordFn: func(ctx context.Context, failure nrwe.Failure) error {
				return nil
			},
		}

		runner := &parse.Runner{
			Source:      corpusSource(docs),
			Parser:      parser,
			Records:     records,
			Failures:    failureLedger,
			Concurrency: 2,
		}
		_, err := runner.Run(context.Background(), nil)
		require.Error(t, err)
		assert.Equal(t, int64(len(docs)), parsed.Load())
	})

	t.Run("reports progress events", func(t *testing.T) {
		t.Parallel()

		docs := map[string]string{
			"a.html": "<html>a</html>",
			"b.html": "<html>b</html>",
		}
		records, failureLedger, _, _, _ := collectingLedgers(nil)

		var events []parse.ProgressEvent
		runner := &parse.Runner{
			Source:      corpusSource(docs),
			Parser:      okParser(),
			Records:     records,
			Failures:    failureLedger,
			Concurrency: 1,
		}
		_, err := runner.Run(context.Background(), func(event parse.ProgressEvent) {
			events = append(events, event)
		})
		require.NoError(t, err)

		require.Len(t, events, 4) // started, 2 completed, finished
		assert.Equal(t, parse.ProgressStarted, events[0].Type)
		assert.Equal(t, 2, events[0].Total)
		assert.Equal(t, parse.ProgressFinished, events[3].Type)
	})
}
