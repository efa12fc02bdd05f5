// Package goquery implements the document parsing core using CSS
// selector based extraction: section location, format detection, and
// per-format verdict extraction.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jhenkel/nrwe"
)

// Ensure Sections implements nrwe.SectionExtractor at compile time.
var _ nrwe.SectionExtractor = (*Sections)(nil)

// Sections locates the semantic sections of a decision document. The
// corpus wraps every section in a div.maindiv block; the block's role is
// decided by its div.feldbezeichnung labels, except for the reasoning
// block which is identified by its absatzLinks paragraphs.
type Sections struct{}

// NewSections creates a new Sections extractor.
func NewSections() *Sections {
	return &Sections{}
}

// Extract parses the document and returns its sections. Sections are
// present with non-empty content or absent; a duplicated section or a
// document without any maindiv blocks is a malformed_document failure.
func (s *Sections) Extract(doc *nrwe.RawDocument) (nrwe.SectionSet, error) {
	tree, err := goquery.NewDocumentFromReader(strings.NewReader(doc.HTML))
	if err != nil {
		return nil, nrwe.ParseErrorf(nrwe.FailureMalformedDocument, "parsing document tree: %v", err)
	}

	blocks := tree.Find("div.maindiv")
	if blocks.Length() == 0 {
		return nil, nrwe.ParseErrorf(nrwe.FailureMalformedDocument, "no maindiv blocks")
	}

	set := make(nrwe.SectionSet)
	var blockErr error

	blocks.EachWithBreak(func(_ int, block *goquery.Selection) bool {
		if strings.TrimSpace(block.Text()) == "" {
			return true
		}

		name, ok := classifyBlock(block)
		if !ok {
			// Either an unknown block or one matching several roles at
			// once. Both are skipped; the document may still carry every
			// section it needs.
			return true
		}

		if set.Has(name) {
			blockErr = nrwe.ParseErrorf(nrwe.FailureMalformedDocument, "duplicate %s section", name)
			return false
		}

		frag, err := buildFragment(name, block)
		if err != nil {
			blockErr = err
			return false
		}
		if frag == nil {
			return true
		}

		set[name] = *frag
		return true
	})

	if blockErr != nil {
		return nil, blockErr
	}

	return set, nil
}

// classifyBlock decides the role of one maindiv block. The second return
// is false for unknown blocks and for blocks matching more than one role.
func classifyBlock(block *goquery.Selection) (nrwe.Section, bool) {
	labels := blockLabels(block)

	isMetadata := hasAnyLabel(labels, nrwe.MetadataLabels)
	isPrinciples := hasAnyLabel(labels, nrwe.PrinciplesLabels)
	isSummary := hasAnyLabel(labels, []string{nrwe.SummaryLabel}) ||
		block.Find("div.feldinhalt.tenor").Length() > 0
	isReasoning := block.Find("p.absatzLinks, table.absatzLinks").Length() > 0

	var matched []nrwe.Section
	if isMetadata {
		matched = append(matched, nrwe.SectionMetadata)
	}
	if isPrinciples {
		matched = append(matched, nrwe.SectionPrinciples)
	}
	if isSummary {
		matched = append(matched, nrwe.SectionSummary)
	}
	if isReasoning {
		matched = append(matched, nrwe.SectionReasoning)
	}

	if len(matched) != 1 {
		return "", false
	}
	return matched[0], true
}

// buildFragment extracts the raw content of a classified block. Returns
// nil for blocks whose content turns out to be empty, which keeps the
// never-present-but-empty invariant of SectionSet.
func buildFragment(name nrwe.Section, block *goquery.Selection) (*nrwe.Fragment, error) {
	switch name {
	case nrwe.SectionReasoning:
		text := reasoningText(block)
		if text == "" {
			return nil, nil
		}
		html, err := goquery.OuterHtml(block)
		if err != nil {
			return nil, nrwe.ParseErrorf(nrwe.FailureMalformedDocument, "serializing reasoning markup: %v", err)
		}
		return &nrwe.Fragment{Text: text, HTML: html}, nil

	case nrwe.SectionSummary:
		fields, err := blockFields(block)
		if err != nil {
			return nil, err
		}
		text := fields[nrwe.SummaryLabel]
		if text == "" {
			// Some layouts carry the tenor directly in a feldinhalt
			// container without a label.
			text = nrwe.CollapseWhitespace(block.Find("div.feldinhalt").Text())
		}
		if text == "" {
			return nil, nil
		}
		return &nrwe.Fragment{Text: text, Fields: fields}, nil

	default:
		fields, err := blockFields(block)
		if err != nil {
			return nil, err
		}
		if len(fields) == 0 {
			return nil, nil
		}
		return &nrwe.Fragment{Text: nrwe.CollapseWhitespace(block.Text()), Fields: fields}, nil
	}
}

// blockLabels returns the normalized feldbezeichnung labels of a block:
// lowercased, whitespace collapsed, trailing colon stripped.
func blockLabels(block *goquery.Selection) []string {
	var labels []string
	block.ChildrenFiltered("div.feldbezeichnung").Each(func(_ int, sel *goquery.Selection) {
		labels = append(labels, normalizeLabel(sel.Text()))
	})
	return labels
}

// blockFields pairs each feldbezeichnung label with its sibling
// feldinhalt value. Label and value counts must line up; the corpus
// always emits them pairwise and a mismatch means the block is broken.
func blockFields(block *goquery.Selection) (map[string]string, error) {
	keys := block.ChildrenFiltered("div.feldbezeichnung")
	values := block.ChildrenFiltered("div.feldinhalt")

	if keys.Length() != values.Length() {
		return nil, nrwe.ParseErrorf(nrwe.FailureMalformedDocument,
			"label/value mismatch: %d labels, %d values", keys.Length(), values.Length())
	}

	fields := make(map[string]string, keys.Length())
	keys.Each(func(i int, key *goquery.Selection) {
		label := normalizeLabel(key.Text())
		value := nrwe.CollapseWhitespace(values.Eq(i).Text())
		if label == "" || value == "" {
			return
		}
		fields[label] = value
	})

	return fields, nil
}

// reasoningText assembles the reasoning plain text: one line per
// absatzLinks paragraph with collapsed whitespace, blank-line separated.
func reasoningText(block *goquery.Selection) string {
	var paragraphs []string
	block.Find("p.absatzLinks").Each(func(_ int, p *goquery.Selection) {
		text := nrwe.CollapseWhitespace(p.Text())
		if text == "" {
			return
		}
		paragraphs = append(paragraphs, text)
	})
	return strings.Join(paragraphs, "\n\n")
}

func normalizeLabel(s string) string {
	return strings.TrimSuffix(strings.ToLower(nrwe.CollapseWhitespace(s)), ":")
}

func hasAnyLabel(labels []string, want []string) bool {
	for _, l := range labels {
		for _, w := range want {
			if l == w {
				return true
			}
		}
	}
	return false
}
