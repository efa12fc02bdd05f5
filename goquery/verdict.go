package goquery

import (
	"regexp"
	"strings"

	"github.com/jhenkel/nrwe"
)

// Compile-time interface verification.
var (
	_ nrwe.VerdictExtractor = (*JudgmentExtractor)(nil)
	_ nrwe.VerdictExtractor = (*GroundsExtractor)(nil)
)

// judgmentRe splits the judgment layout: everything between the
// Tatbestand and Entscheidungsgründe headings is the facts part, the
// rest is the reasons part.
var judgmentRe = regexp.MustCompile(
	`(?is)^\s*t\s*a\s*t\s*b\s*e\s*s\s*t\s*a\s*n\s*d\s*:?\s*\n(.*?)\n` +
		`\s*e\s*n\s*t\s*s\s*c\s*h\s*e\s*i\s*d\s*u\s*n\s*g\s*s\s*g\s*r\s*ü\s*n\s*d\s*e\s*:?\s*\n(.*)\z`)

// groundsRe splits the numbered-grounds layout: subsection I. is the
// reference part, subsection II. the reasons, stopping at III. or end of
// text.
var groundsRe = regexp.MustCompile(
	`(?is)^\s*g\s*r\s*ü\s*n\s*d\s*e\s*:?\s*\n` +
		`\s*i\s*\.\s*\n(.*?)\n` +
		`\s*ii\s*\.\s*\n(.*?)` +
		`(?:\n\s*iii\s*\.\s*\n.*)?\z`)

// JudgmentExtractor splits reasoning text in the judgment layout.
type JudgmentExtractor struct{}

// NewJudgmentExtractor creates a new JudgmentExtractor.
func NewJudgmentExtractor() *JudgmentExtractor {
	return &JudgmentExtractor{}
}

// Format returns the layout this extractor handles.
func (e *JudgmentExtractor) Format() nrwe.Format {
	return nrwe.FormatJudgment
}

// Extract splits the text into facts and reasons.
func (e *JudgmentExtractor) Extract(text string) (*nrwe.Verdict, error) {
	m := judgmentRe.FindStringSubmatch(text)
	if m == nil {
		return nil, nrwe.ParseErrorf(nrwe.FailureUnrecognizedFormat,
			"text does not follow the judgment layout")
	}
	return &nrwe.Verdict{
		Facts:   strings.TrimSpace(m[1]),
		Reasons: strings.TrimSpace(m[2]),
	}, nil
}

// GroundsExtractor splits reasoning text in the numbered-grounds layout.
type GroundsExtractor struct{}

// NewGroundsExtractor creates a new GroundsExtractor.
func NewGroundsExtractor() *GroundsExtractor {
	return &GroundsExtractor{}
}

// Format returns the layout this extractor handles.
func (e *GroundsExtractor) Format() nrwe.Format {
	return nrwe.FormatGrounds
}

// Extract splits the text into reference and reasons.
func (e *GroundsExtractor) Extract(text string) (*nrwe.Verdict, error) {
	m := groundsRe.FindStringSubmatch(text)
	if m == nil {
		return nil, nrwe.ParseErrorf(nrwe.FailureUnrecognizedFormat,
			"text does not follow the numbered-grounds layout")
	}
	return &nrwe.Verdict{
		Reference: strings.TrimSpace(m[1]),
		Reasons:   strings.TrimSpace(m[2]),
	}, nil
}
