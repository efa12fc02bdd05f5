package nrwe_test

import (
	"errors"
	"testing"

	"github.com/jhenkel/nrwe"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := nrwe.Errorf(nrwe.ENOTFOUND, "document %q not found", "test")

	assert.Equal(t, nrwe.ENOTFOUND, nrwe.ErrorCode(err))
	assert.Equal(t, "document \"test\" not found", nrwe.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, nrwe.ErrorCode(nil))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, nrwe.EINTERNAL, nrwe.ErrorCode(errors.New("boom")))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, nrwe.ErrorMessage(nil))
}

func TestFailureKindOf(t *testing.T) {
	t.Parallel()

	t.Run("classified parse error", func(t *testing.T) {
		t.Parallel()

		err := nrwe.ParseErrorf(nrwe.FailureAmbiguousFormat, "two marker sets matched")
		assert.Equal(t, nrwe.FailureAmbiguousFormat, nrwe.FailureKindOf(err))
	})

	t.Run("unclassified error maps to malformed document", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, nrwe.FailureMalformedDocument, nrwe.FailureKindOf(errors.New("boom")))
	})
}

func TestValidDocumentURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		href string
		want bool
	}{
		{"valid document URL", "https://www.example.org/nrwe/olgs/2024/1_U_123_23.html", true},
		{"http scheme allowed", "http://www.example.org/doc.html", true},
		{"relative URL", "/nrwe/olgs/doc.html", false},
		{"wrong scheme", "ftp://example.org/doc.html", false},
		{"not an html path", "https://example.org/doc.pdf", false},
		{"query parameters", "https://example.org/doc.html?print=1", false},
		{"fragment", "https://example.org/doc.html#top", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, nrwe.ValidDocumentURL(tt.href))
		})
	}
}

func TestCaseRecord_Validate(t *testing.T) {
	t.Parallel()

	valid := func() *nrwe.CaseRecord {
		return &nrwe.CaseRecord{
			ID:           "nrwe/olgs/2024/doc.html",
			Court:        "Oberlandesgericht Düsseldorf",
			Date:         "15.01.2024",
			DocketNumber: "I-1 U 123/23",
		}
	}

	t.Run("valid record", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, valid().Validate())
	})

	t.Run("missing court", func(t *testing.T) {
		t.Parallel()

		r := valid()
		r.Court = ""
		err := r.Validate()
		assert.Equal(t, nrwe.EINVALID, nrwe.ErrorCode(err))
	})

	t.Run("missing date", func(t *testing.T) {
		t.Parallel()

		r := valid()
		r.Date = ""
		assert.Equal(t, nrwe.EINVALID, nrwe.ErrorCode(r.Validate()))
	})
}
