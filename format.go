package nrwe

// Format identifies the publishing layout of a decision's reasoning text.
// The corpus spans several historical layouts; exactly one tag applies to
// any given document.
type Format string

// Known layout variants.
const (
	// FormatUnknown is the sentinel for documents whose reasoning text
	// matches no known marker set, or that carry no reasoning at all.
	FormatUnknown Format = ""

	// FormatJudgment is the layout with separate "Tatbestand" and
	// "Entscheidungsgründe" sections.
	FormatJudgment Format = "judgment"

	// FormatGrounds is the layout with a single "Gründe" heading divided
	// into roman-numeral subsections.
	FormatGrounds Format = "grounds"
)

// FormatDetector classifies the reasoning text of a document.
type FormatDetector interface {
	// Matches returns every format whose marker set matches the text, in
	// fixed priority order. An empty result means unrecognized; more than
	// one element means the document is ambiguous. The caller decides how
	// to surface either condition.
	Matches(text string) []Format
}

// Section names the semantic regions of a decision document.
type Section string

// Document sections.
const (
	SectionMetadata   Section = "metadata"
	SectionPrinciples Section = "principles"
	SectionSummary    Section = "summary"
	SectionReasoning  Section = "reasoning"
)

// Fragment is the raw content of a located section. Text holds the
// whitespace-normalized plain text. HTML is populated only for the
// reasoning section, which preserves its inner markup unmodified.
// Fields holds the label/value pairs of field-structured sections
// (metadata, principles).
type Fragment struct {
	Text   string
	HTML   string
	Fields map[string]string
}

// SectionSet maps each located section to its raw fragment. A section is
// either present with non-empty content or absent from the map; an entry
// is never an empty placeholder.
type SectionSet map[Section]Fragment

// Has reports whether the section was located in the document.
func (s SectionSet) Has(name Section) bool {
	_, ok := s[name]
	return ok
}

// SectionExtractor locates the semantic sections of a document.
type SectionExtractor interface {
	// Extract parses the document and returns its sections.
	// Returns a ParseError (malformed_document) if the document contains
	// no recognizable structure or duplicates a section.
	Extract(doc *RawDocument) (SectionSet, error)
}

// Verdict is the reasoning content split according to its format.
// Facts is empty for formats without a separate facts section; Reference
// is empty for formats without a reference part.
type Verdict struct {
	Facts     string
	Reference string
	Reasons   string
}

// VerdictExtractor splits reasoning text for one specific format.
type VerdictExtractor interface {
	// Extract splits the reasoning plain text into its parts.
	// Returns a ParseError (unrecognized_format) if the text does not
	// follow the extractor's layout after all.
	Extract(text string) (*Verdict, error)

	// Format returns the layout this extractor handles.
	Format() Format
}

// VerdictRegistry manages per-format verdict extractors.
type VerdictRegistry interface {
	// Get returns the extractor for a format, or nil if none is registered.
	Get(format Format) VerdictExtractor

	// Register adds an extractor for its format, replacing any existing one.
	Register(extractor VerdictExtractor)

	// List returns all registered formats.
	List() []Format
}
