package goquery

import (
	"regexp"

	"github.com/jhenkel/nrwe"
)

// Ensure Detector implements nrwe.FormatDetector at compile time.
var _ nrwe.FormatDetector = (*Detector)(nil)

// Marker patterns tolerate the spaced-out letter styling some historical
// layouts use for headings ("T a t b e s t a n d").
var (
	// FormatJudgment markers: a Tatbestand heading line and an
	// Entscheidungsgründe heading line.
	factsHeadingRe = regexp.MustCompile(
		`(?im)^\s*t\s*a\s*t\s*b\s*e\s*s\s*t\s*a\s*n\s*d\s*:?\s*$`)
	decisionGroundsHeadingRe = regexp.MustCompile(
		`(?im)^\s*e\s*n\s*t\s*s\s*c\s*h\s*e\s*i\s*d\s*u\s*n\s*g\s*s\s*g\s*r\s*ü\s*n\s*d\s*e\s*:?\s*$`)

	// FormatGrounds markers: a standalone Gründe heading line followed by
	// roman-numeral subsection lines. The line anchors keep the heading
	// from matching inside "Entscheidungsgründe".
	groundsHeadingRe = regexp.MustCompile(
		`(?im)^\s*g\s*r\s*ü\s*n\s*d\s*e\s*:?\s*$`)
	romanOneRe = regexp.MustCompile(`(?im)^\s*i\s*\.\s*$`)
	romanTwoRe = regexp.MustCompile(`(?im)^\s*ii\s*\.\s*$`)
)

// Detector classifies reasoning text against the known layout marker
// sets. Marker sets are checked in fixed priority order so that
// classification is deterministic.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Matches returns every format whose marker set matches the text, in
// priority order. The caller maps an empty result to unrecognized_format
// and multiple results to ambiguous_format; the detector never silently
// picks a first match.
func (d *Detector) Matches(text string) []nrwe.Format {
	var formats []nrwe.Format

	if factsHeadingRe.MatchString(text) && decisionGroundsHeadingRe.MatchString(text) {
		formats = append(formats, nrwe.FormatJudgment)
	}

	if groundsHeadingRe.MatchString(text) && romanOneRe.MatchString(text) && romanTwoRe.MatchString(text) {
		formats = append(formats, nrwe.FormatGrounds)
	}

	return formats
}
