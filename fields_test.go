package nrwe_test

import (
	"testing"

	"github.com/jhenkel/nrwe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"already canonical", "15.01.2024", "15.01.2024", true},
		{"slash punctuation", "15/01/2024", "15.01.2024", true},
		{"dash punctuation", "15-01-2024", "15.01.2024", true},
		{"unpadded day and month", "5.1.2024", "05.01.2024", true},
		{"spaces around separators", "15. 01. 2024", "15.01.2024", true},
		{"month out of range", "15.13.2024", "", false},
		{"day out of range", "32.01.2024", "", false},
		{"zero day", "00.01.2024", "", false},
		{"two-digit year", "15.01.24", "", false},
		{"not a date", "Urteil", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := nrwe.NormalizeDate(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeDate_Idempotent(t *testing.T) {
	t.Parallel()

	once, ok := nrwe.NormalizeDate("5/1/2024")
	require.True(t, ok)

	twice, ok := nrwe.NormalizeDate(once)
	require.True(t, ok)
	assert.Equal(t, once, twice)
}

func TestNormalizeECLI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"well-formed code", "ECLI:DE:OLGD:2024:0115.I1U123.23.00", "ECLI:DE:OLGD:2024:0115.I1U123.23.00", true},
		{"lowercase input is canonicalized", "ecli:de:olgd:2024:0115.i1u123.23.00", "ECLI:DE:OLGD:2024:0115.I1U123.23.00", true},
		{"surrounding whitespace", "  ECLI:DE:OLGHAM:2023:0301.4U12.22.00 ", "ECLI:DE:OLGHAM:2023:0301.4U12.22.00", true},
		{"missing ordinal dots", "ECLI:DE:OLGD:2024:0115I1U1232300", "", false},
		{"missing colon segment", "ECLI:DE:2024:0115.I1U123.23.00", "", false},
		{"wrong prefix", "ECLX:DE:OLGD:2024:0115.I1U123.23.00", "", false},
		{"plain docket number", "I-1 U 123/23", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := nrwe.NormalizeECLI(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitKeywords(t *testing.T) {
	t.Parallel()

	t.Run("semicolon convention", func(t *testing.T) {
		t.Parallel()

		got, err := nrwe.SplitKeywords("Kaufvertrag; Rücktritt;  Schadensersatz", nrwe.FormatJudgment)
		require.NoError(t, err)
		assert.Equal(t, []string{"Kaufvertrag", "Rücktritt", "Schadensersatz"}, got)
	})

	t.Run("comma convention", func(t *testing.T) {
		t.Parallel()

		got, err := nrwe.SplitKeywords("Berufung, Frist, Wiedereinsetzung", nrwe.FormatGrounds)
		require.NoError(t, err)
		assert.Equal(t, []string{"Berufung", "Frist", "Wiedereinsetzung"}, got)
	})

	t.Run("deduplicates preserving order", func(t *testing.T) {
		t.Parallel()

		got, err := nrwe.SplitKeywords("Mietrecht; Kündigung; Mietrecht", nrwe.FormatJudgment)
		require.NoError(t, err)
		assert.Equal(t, []string{"Mietrecht", "Kündigung"}, got)
	})

	t.Run("single keyword without delimiter", func(t *testing.T) {
		t.Parallel()

		got, err := nrwe.SplitKeywords("Werkvertragsrecht", nrwe.FormatJudgment)
		require.NoError(t, err)
		assert.Equal(t, []string{"Werkvertragsrecht"}, got)
	})

	t.Run("unknown delimiter convention fails the field", func(t *testing.T) {
		t.Parallel()

		got, err := nrwe.SplitKeywords("Mietrecht / Kündigung / Räumung", nrwe.FormatJudgment)
		require.Error(t, err)
		assert.Equal(t, nrwe.FailureFieldExtraction, nrwe.FailureKindOf(err))
		assert.Nil(t, got)
	})

	t.Run("empty value is absent not empty list", func(t *testing.T) {
		t.Parallel()

		got, err := nrwe.SplitKeywords("   ", nrwe.FormatJudgment)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestCollapseWhitespace(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a b c", nrwe.CollapseWhitespace("  a\n\tb   c "))
	assert.Empty(t, nrwe.CollapseWhitespace(" \n\t "))
}

func TestApplyRules(t *testing.T) {
	t.Parallel()

	t.Run("populates metadata fields", func(t *testing.T) {
		t.Parallel()

		fields := map[string]string{
			"gericht":          "Oberlandesgericht  Düsseldorf",
			"datum":            "15/01/2024",
			"aktenzeichen":     "I-1 U 123/23",
			"ecli":             "ECLI:DE:OLGD:2024:0115.I1U123.23.00",
			"spruchkörper":     "1. Zivilsenat",
			"entscheidungsart": "Urteil",
		}

		var r nrwe.CaseRecord
		failures := nrwe.ApplyRules(nrwe.MetadataRules(), fields, &r)

		assert.Empty(t, failures)
		assert.Equal(t, "Oberlandesgericht Düsseldorf", r.Court)
		assert.Equal(t, "15.01.2024", r.Date)
		assert.Equal(t, "I-1 U 123/23", r.DocketNumber)
		assert.Equal(t, "ECLI:DE:OLGD:2024:0115.I1U123.23.00", r.ECLI)
		assert.Equal(t, "1. Zivilsenat", r.Panel)
		assert.Equal(t, "Urteil", r.DecisionType)
	})

	t.Run("missing required field reported", func(t *testing.T) {
		t.Parallel()

		fields := map[string]string{
			"gericht": "Oberlandesgericht Köln",
			"datum":   "01.02.2023",
		}

		var r nrwe.CaseRecord
		failures := nrwe.ApplyRules(nrwe.MetadataRules(), fields, &r)

		require.Len(t, failures, 1)
		assert.Equal(t, nrwe.FailureFieldExtraction, failures[0].Kind)
		assert.Contains(t, failures[0].Detail, "docketNumber")
	})

	t.Run("invalid identifier code degrades to absent", func(t *testing.T) {
		t.Parallel()

		fields := map[string]string{
			"gericht":      "Oberlandesgericht Hamm",
			"datum":        "01.03.2023",
			"aktenzeichen": "4 U 12/22",
			"ecli":         "not-an-identifier",
		}

		var r nrwe.CaseRecord
		failures := nrwe.ApplyRules(nrwe.MetadataRules(), fields, &r)

		assert.Empty(t, failures)
		assert.Empty(t, r.ECLI)
	})

	t.Run("date label variant", func(t *testing.T) {
		t.Parallel()

		fields := map[string]string{
			"gericht":            "Oberlandesgericht Hamm",
			"entscheidungsdatum": "01.03.2023",
			"aktenzeichen":       "4 U 12/22",
		}

		var r nrwe.CaseRecord
		failures := nrwe.ApplyRules(nrwe.MetadataRules(), fields, &r)

		assert.Empty(t, failures)
		assert.Equal(t, "01.03.2023", r.Date)
	})
}
