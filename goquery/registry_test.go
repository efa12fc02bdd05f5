package goquery_test

import (
	"testing"

	"github.com/jhenkel/nrwe"
	"github.com/jhenkel/nrwe/goquery"
	"github.com/stretchr/testify/assert"
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	t.Run("returns the extractor registered for a format", func(t *testing.T) {
		t.Parallel()

		r := goquery.NewRegistry()
		r.Register(goquery.NewJudgmentExtractor())

		e := r.Get(nrwe.FormatJudgment)
		assert.NotNil(t, e)
		assert.Equal(t, nrwe.FormatJudgment, e.Format())
	})

	t.Run("returns nil for an unregistered format", func(t *testing.T) {
		t.Parallel()

		r := goquery.NewRegistry()
		r.Register(goquery.NewJudgmentExtractor())

		assert.Nil(t, r.Get(nrwe.FormatGrounds))
		assert.Nil(t, r.Get(nrwe.FormatUnknown))
	})

	t.Run("lists registered formats", func(t *testing.T) {
		t.Parallel()

		r := goquery.NewRegistry()
		r.Register(goquery.NewJudgmentExtractor())
		r.Register(goquery.NewGroundsExtractor())

		assert.ElementsMatch(t, []nrwe.Format{nrwe.FormatJudgment, nrwe.FormatGrounds}, r.List())
	})
}
