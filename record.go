package nrwe

import (
	"context"
	"time"
)

// CaseRecord is the structured result of parsing one decision document.
// Optional fields are omitted from serialized records when absent; a
// populated field is never an empty string, so absence in the output
// ledger always means "not present in the source".
type CaseRecord struct {
	// ID is the document identifier (path relative to the docs dir).
	ID string `json:"id"`

	// Metadata section fields.
	Court        string `json:"court"`
	Panel        string `json:"panel,omitempty"`
	DecisionType string `json:"decisionType,omitempty"`
	Date         string `json:"date"` // canonical dd.mm.yyyy
	DocketNumber string `json:"docketNumber"`
	ECLI         string `json:"ecli,omitempty"`

	// Principles section fields (all optional in the corpus).
	Keywords      []string `json:"keywords,omitempty"`
	Norms         string   `json:"norms,omitempty"`
	FieldOfLaw    string   `json:"fieldOfLaw,omitempty"`
	LegalForce    string   `json:"legalForce,omitempty"`
	Principles    string   `json:"principles,omitempty"`
	PriorInstance string   `json:"priorInstance,omitempty"`
	NextInstance  string   `json:"nextInstance,omitempty"`

	// Summary is the whitespace-normalized tenor text.
	Summary string `json:"summary,omitempty"`

	// Reasoning content, split according to the classified format.
	Format    Format `json:"format"`
	Facts     string `json:"facts,omitempty"`
	Reference string `json:"reference,omitempty"`
	Reasons   string `json:"reasons,omitempty"`

	// ReasoningHTML preserves the reasoning section's inner markup
	// byte-for-byte for downstream re-rendering.
	ReasoningHTML string `json:"reasoningHtml,omitempty"`

	// ReasoningMarkdown is populated only when markdown conversion is
	// enabled on the parse run.
	ReasoningMarkdown string `json:"reasoningMarkdown,omitempty"`

	ContentHash string    `json:"contentHash,omitempty"`
	ParsedAt    time.Time `json:"parsedAt"`
}

// Validate returns an error if the record is missing required fields.
func (r *CaseRecord) Validate() error {
	if r.ID == "" {
		return Errorf(EINVALID, "record document ID required")
	}
	if r.Court == "" {
		return Errorf(EINVALID, "record court required")
	}
	if r.Date == "" {
		return Errorf(EINVALID, "record date required")
	}
	if r.DocketNumber == "" {
		return Errorf(EINVALID, "record docket number required")
	}
	return nil
}

// RecordLedger is the append-only output stream of parsed records, one
// record per line. Appends are serialized by the implementation so that
// concurrent workers never interleave partial records.
type RecordLedger interface {
	// Append writes one record to the ledger.
	Append(ctx context.Context, record *CaseRecord) error

	// Has reports whether a record for the document identifier is already
	// present, allowing re-runs to skip parsed documents.
	Has(id string) bool
}
