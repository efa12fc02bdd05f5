package slog_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/jhenkel/nrwe"
	"github.com/jhenkel/nrwe/mock"
	nrweslog "github.com/jhenkel/nrwe/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingParser_Parse(t *testing.T) {
	t.Parallel()

	t.Run("logs a successful parse with its format", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Parser{
			ParseFn: func(doc *nrwe.RawDocument) *nrwe.ParseOutcome {
				return &nrwe.ParseOutcome{
					DocumentID: doc.ID,
					Record:     &nrwe.CaseRecord{ID: doc.ID, Format: nrwe.FormatJudgment},
				}
			},
		}

		p := nrweslog.NewLoggingParser(inner, logger)
		outcome := p.Parse(&nrwe.RawDocument{ID: "nrwe/olgs/2024/a.html"})
		require.NotNil(t, outcome.Record)

		output := buf.String()
		assert.Contains(t, output, "parsed")
		assert.Contains(t, output, "doc=nrwe/olgs/2024/a.html")
		assert.Contains(t, output, "format=judgment")
	})

	t.Run("logs a failure with its kind at warn level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Parser{
			ParseFn: func(doc *nrwe.RawDocument) *nrwe.ParseOutcome {
				return &nrwe.ParseOutcome{
					DocumentID: doc.ID,
					Failure: &nrwe.Failure{
						DocumentID: doc.ID,
						Kind:       nrwe.FailureAmbiguousFormat,
						Detail:     "both marker sets matched",
					},
				}
			},
		}

		p := nrweslog.NewLoggingParser(inner, logger)
		outcome := p.Parse(&nrwe.RawDocument{ID: "nrwe/olgs/2024/b.html"})
		require.True(t, outcome.Failed())

		output := buf.String()
		assert.Contains(t, output, "level=WARN")
		assert.Contains(t, output, "parse failed")
		assert.Contains(t, output, "kind=ambiguous_format")
	})
}
