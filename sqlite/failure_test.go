package sqlite_test

import (
	"context"
	"testing"

	"github.com/jhenkel/nrwe"
	"github.com/jhenkel/nrwe/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailureService_Record(t *testing.T) {
	t.Parallel()

	t.Run("stores a classified failure", func(t *testing.T) {
		t.Parallel()

		db := MustOpenDB(t)
		s := sqlite.NewFailureService(db)
		ctx := context.Background()

		err := s.Record(ctx, nrwe.Failure{
			DocumentID: "nrwe/olgs/2024/doc.html",
			Kind:       nrwe.FailureMissingSection,
			Detail:     "no metadata section",
		})
		require.NoError(t, err)

		failures, err := s.FindByDocument(ctx, "nrwe/olgs/2024/doc.html")
		require.NoError(t, err)
		require.Len(t, failures, 1)
		assert.Equal(t, nrwe.FailureMissingSection, failures[0].Kind)
		assert.Equal(t, "no metadata section", failures[0].Detail)
	})

	t.Run("rejects a failure without a document ID", func(t *testing.T) {
		t.Parallel()

		db := MustOpenDB(t)
		s := sqlite.NewFailureService(db)

		err := s.Record(context.Background(), nrwe.Failure{Kind: nrwe.FailureMalformedDocument})
		assert.Equal(t, nrwe.EINVALID, nrwe.ErrorCode(err))
	})

	t.Run("rejects a failure without a kind", func(t *testing.T) {
		t.Parallel()

		db := MustOpenDB(t)
		s := sqlite.NewFailureService(db)

		err := s.Record(context.Background(), nrwe.Failure{DocumentID: "doc.html"})
		assert.Equal(t, nrwe.EINVALID, nrwe.ErrorCode(err))
	})
}

func TestFailureService_CountByKind(t *testing.T) {
	t.Parallel()

	db := MustOpenDB(t)
	s := sqlite.NewFailureService(db)
	ctx := context.Background()

	failures := []nrwe.Failure{
		{DocumentID: "a.html", Kind: nrwe.FailureUnrecognizedFormat},
		{DocumentID: "b.html", Kind: nrwe.FailureUnrecognizedFormat},
		{DocumentID: "c.html", Kind: nrwe.FailureAmbiguousFormat},
	}
	for _, f := range failures {
		require.NoError(t, s.Record(ctx, f))
	}

	counts, err := s.CountByKind(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[nrwe.FailureKind]int{
		nrwe.FailureUnrecognizedFormat: 2,
		nrwe.FailureAmbiguousFormat:    1,
	}, counts)
}
