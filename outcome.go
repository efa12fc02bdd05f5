package nrwe

import (
	"context"
	"errors"
	"fmt"
)

// FailureKind classifies why a document could not be parsed, or why a
// single field could not be extracted. Failures are recovered at the
// single-document granularity and never abort a batch.
type FailureKind string

// Parse failure taxonomy.
const (
	// FailureUnrecognizedFormat: no format marker set matched the
	// reasoning text.
	FailureUnrecognizedFormat FailureKind = "unrecognized_format"

	// FailureAmbiguousFormat: more than one marker set matched. Never
	// silently resolved to the first match; corpus drift must surface.
	FailureAmbiguousFormat FailureKind = "ambiguous_format"

	// FailureMissingSection: a section required for the document (the
	// metadata block) could not be located.
	FailureMissingSection FailureKind = "missing_required_section"

	// FailureFieldExtraction: a field's patterns did not match inside an
	// otherwise-located section.
	FailureFieldExtraction FailureKind = "field_extraction_failure"

	// FailureMalformedDocument: the input carries no recognizable
	// document structure at all, or duplicates a section.
	FailureMalformedDocument FailureKind = "malformed_document"
)

// ParseError is a classified parse failure.
type ParseError struct {
	Kind   FailureKind
	Detail string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// ParseErrorf constructs a ParseError with formatting.
func ParseErrorf(kind FailureKind, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// FailureKindOf returns the failure kind of err. Errors that are not
// ParseErrors classify as malformed_document, since they can only arise
// from the document tree itself.
func FailureKindOf(err error) FailureKind {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return FailureMalformedDocument
}

// Failure records one classified failure keyed by document identifier.
type Failure struct {
	DocumentID string      `json:"documentId"`
	Kind       FailureKind `json:"kind"`
	Detail     string      `json:"detail,omitempty"`
}

// ParseOutcome is produced exactly once per input document. Either
// Record is set (success) or Failure is set (classified failure), never
// both and never neither. FieldFailures carries non-fatal per-field
// failures on an otherwise-emitted record, e.g. a keyword list using an
// unknown delimiter convention.
type ParseOutcome struct {
	DocumentID    string
	Record        *CaseRecord
	Failure       *Failure
	FieldFailures []Failure
}

// Failed reports whether the document failed to parse.
func (o *ParseOutcome) Failed() bool {
	return o.Failure != nil
}

// Parser turns one raw document into one outcome. Implementations are
// deterministic: parsing the same document twice yields identical
// outcomes.
type Parser interface {
	Parse(doc *RawDocument) *ParseOutcome
}

// FailureLedger records classified failures so a re-run can selectively
// retry failed documents.
type FailureLedger interface {
	// Record stores one failure.
	Record(ctx context.Context, failure Failure) error

	// CountByKind returns the aggregate number of recorded failures per
	// kind.
	CountByKind(ctx context.Context) (map[FailureKind]int, error)
}

// Converter transforms preserved reasoning markup into markdown for
// downstream consumers that prefer plain rendering.
type Converter interface {
	Convert(html string) (string, error)
}
