package goquery

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
	"github.com/jhenkel/nrwe"
)

// Ensure Parser implements nrwe.Parser at compile time.
var _ nrwe.Parser = (*Parser)(nil)

// Parser composes the three parsing stages: section extraction, format
// classification, and field normalization. It is deterministic and total:
// every document yields exactly one outcome, and the same document always
// yields the same outcome.
type Parser struct {
	sections  nrwe.SectionExtractor
	detector  nrwe.FormatDetector
	registry  nrwe.VerdictRegistry
	converter nrwe.Converter
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithConverter enables markdown conversion of the preserved reasoning
// markup on every emitted record.
func WithConverter(c nrwe.Converter) ParserOption {
	return func(p *Parser) {
		p.converter = c
	}
}

// WithSectionExtractor replaces the default section extractor.
func WithSectionExtractor(s nrwe.SectionExtractor) ParserOption {
	return func(p *Parser) {
		p.sections = s
	}
}

// NewParser creates a Parser wired with the default section extractor,
// detector, and the extractors for all known formats.
func NewParser(opts ...ParserOption) *Parser {
	registry := NewRegistry()
	registry.Register(NewJudgmentExtractor())
	registry.Register(NewGroundsExtractor())

	p := &Parser{
		sections: NewSections(),
		detector: NewDetector(),
		registry: registry,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse turns one raw document into one outcome.
func (p *Parser) Parse(doc *nrwe.RawDocument) *nrwe.ParseOutcome {
	outcome := &nrwe.ParseOutcome{DocumentID: doc.ID}

	set, err := p.sections.Extract(doc)
	if err != nil {
		return fail(outcome, err)
	}

	meta, ok := set[nrwe.SectionMetadata]
	if !ok {
		return fail(outcome, nrwe.ParseErrorf(nrwe.FailureMissingSection, "metadata section not found"))
	}

	record := &nrwe.CaseRecord{
		ID:          doc.ID,
		ContentHash: hashContent(doc.HTML),
	}

	// Classify the reasoning first: the keyword delimiter conventions
	// depend on the format. A document without a reasoning section stays
	// unclassified and still emits.
	if reasoning, ok := set[nrwe.SectionReasoning]; ok {
		verdict, format, err := p.extractVerdict(reasoning.Text)
		if err != nil {
			return fail(outcome, err)
		}
		record.Format = format
		record.Facts = verdict.Facts
		record.Reference = verdict.Reference
		record.Reasons = verdict.Reasons
		record.ReasoningHTML = reasoning.HTML

		if p.converter != nil {
			md, err := p.converter.Convert(reasoning.HTML)
			if err != nil {
				outcome.FieldFailures = append(outcome.FieldFailures, nrwe.Failure{
					DocumentID: doc.ID,
					Kind:       nrwe.FailureFieldExtraction,
					Detail:     "reasoning markdown conversion: " + err.Error(),
				})
			} else {
				record.ReasoningMarkdown = md
			}
		}
	}

	if failures := nrwe.ApplyRules(nrwe.MetadataRules(), meta.Fields, record); len(failures) > 0 {
		// Required metadata fields are fatal for the whole record.
		return fail(outcome, nrwe.ParseErrorf(nrwe.FailureFieldExtraction, "%s", failures[0].Detail))
	}

	if principles, ok := set[nrwe.SectionPrinciples]; ok {
		nrwe.ApplyRules(nrwe.PrinciplesRules(), principles.Fields, record)

		if raw, ok := principles.Fields["schlagworte"]; ok {
			keywords, err := nrwe.SplitKeywords(raw, record.Format)
			if err != nil {
				outcome.FieldFailures = append(outcome.FieldFailures, nrwe.Failure{
					DocumentID: doc.ID,
					Kind:       nrwe.FailureKindOf(err),
					Detail:     err.Error(),
				})
			} else {
				record.Keywords = keywords
			}
		}
	}

	if summary, ok := set[nrwe.SectionSummary]; ok {
		record.Summary = summary.Text
	}

	outcome.Record = record
	return outcome
}

// extractVerdict classifies the reasoning text and splits it with the
// extractor registered for the winning format.
func (p *Parser) extractVerdict(text string) (*nrwe.Verdict, nrwe.Format, error) {
	matches := p.detector.Matches(text)
	switch len(matches) {
	case 0:
		return nil, nrwe.FormatUnknown,
			nrwe.ParseErrorf(nrwe.FailureUnrecognizedFormat, "no format marker set matched")
	case 1:
	default:
		return nil, nrwe.FormatUnknown,
			nrwe.ParseErrorf(nrwe.FailureAmbiguousFormat, "%d format marker sets matched", len(matches))
	}

	format := matches[0]
	extractor := p.registry.Get(format)
	if extractor == nil {
		return nil, nrwe.FormatUnknown,
			nrwe.ParseErrorf(nrwe.FailureUnrecognizedFormat, "no extractor registered for format %q", format)
	}

	verdict, err := extractor.Extract(text)
	if err != nil {
		return nil, nrwe.FormatUnknown, err
	}
	return verdict, format, nil
}

func fail(outcome *nrwe.ParseOutcome, err error) *nrwe.ParseOutcome {
	outcome.Failure = &nrwe.Failure{
		DocumentID: outcome.DocumentID,
		Kind:       nrwe.FailureKindOf(err),
		Detail:     err.Error(),
	}
	return outcome
}

// hashContent computes the xxHash of the source HTML as a hex string.
func hashContent(content string) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], xxhash.Sum64String(content))
	return hex.EncodeToString(b[:])
}
