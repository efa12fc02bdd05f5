package nrwe

import (
	"fmt"
	"regexp"
	"strings"
)

// Field labels as they appear in the corpus (div.feldbezeichnung text,
// lowercased, trailing colon stripped). The label sets double as the
// section classification markers: a block carrying any metadata label is
// the metadata section, and so on.

// MetadataLabels are the labels of the metadata block.
var MetadataLabels = []string{
	"datum", "gericht", "spruchkörper", "entscheidungsart", "aktenzeichen", "ecli",
}

// PrinciplesLabels are the labels of the legal-principles block.
var PrinciplesLabels = []string{
	"vorinstanz", "nachinstanz", "schlagworte", "normen", "leitsätze",
	"rechtskraft", "sachgebiet",
}

// SummaryLabel is the label of the decision-summary block.
const SummaryLabel = "tenor"

// FieldRule binds a record field to its ordered label patterns and
// normalization function. New corpus quirks are added here, not to
// extraction control flow.
type FieldRule struct {
	// Field is the record field name, used in failure details.
	Field string

	// Labels are the accepted section labels, in match priority order.
	Labels []string

	// Required marks fields whose absence or failed normalization is a
	// fatal field_extraction_failure for the whole record.
	Required bool

	// Normalize canonicalizes the raw value. Returning ok=false means
	// the value is unusable; for optional fields it becomes absent.
	Normalize func(raw string) (value string, ok bool)

	// Assign writes the normalized value into the record.
	Assign func(r *CaseRecord, value string)
}

// MetadataRules returns the extraction table for the metadata section.
func MetadataRules() []FieldRule {
	return []FieldRule{
		{
			Field:     "court",
			Labels:    []string{"gericht"},
			Required:  true,
			Normalize: normalizeText,
			Assign:    func(r *CaseRecord, v string) { r.Court = v },
		},
		{
			Field:     "date",
			Labels:    []string{"datum", "entscheidungsdatum"},
			Required:  true,
			Normalize: NormalizeDate,
			Assign:    func(r *CaseRecord, v string) { r.Date = v },
		},
		{
			Field:     "docketNumber",
			Labels:    []string{"aktenzeichen", "az"},
			Required:  true,
			Normalize: normalizeText,
			Assign:    func(r *CaseRecord, v string) { r.DocketNumber = v },
		},
		{
			Field:     "ecli",
			Labels:    []string{"ecli"},
			Normalize: NormalizeECLI,
			Assign:    func(r *CaseRecord, v string) { r.ECLI = v },
		},
		{
			Field:     "panel",
			Labels:    []string{"spruchkörper"},
			Normalize: normalizeText,
			Assign:    func(r *CaseRecord, v string) { r.Panel = v },
		},
		{
			Field:     "decisionType",
			Labels:    []string{"entscheidungsart"},
			Normalize: normalizeText,
			Assign:    func(r *CaseRecord, v string) { r.DecisionType = v },
		},
	}
}

// PrinciplesRules returns the extraction table for the legal-principles
// section. Keywords are handled separately because their splitting
// depends on the classified format.
func PrinciplesRules() []FieldRule {
	return []FieldRule{
		{
			Field:     "norms",
			Labels:    []string{"normen"},
			Normalize: normalizeText,
			Assign:    func(r *CaseRecord, v string) { r.Norms = v },
		},
		{
			Field:     "fieldOfLaw",
			Labels:    []string{"sachgebiet"},
			Normalize: normalizeText,
			Assign:    func(r *CaseRecord, v string) { r.FieldOfLaw = v },
		},
		{
			Field:     "legalForce",
			Labels:    []string{"rechtskraft"},
			Normalize: normalizeText,
			Assign:    func(r *CaseRecord, v string) { r.LegalForce = v },
		},
		{
			Field:     "principles",
			Labels:    []string{"leitsätze", "leitsatz"},
			Normalize: normalizeText,
			Assign:    func(r *CaseRecord, v string) { r.Principles = v },
		},
		{
			Field:     "priorInstance",
			Labels:    []string{"vorinstanz"},
			Normalize: normalizeText,
			Assign:    func(r *CaseRecord, v string) { r.PriorInstance = v },
		},
		{
			Field:     "nextInstance",
			Labels:    []string{"nachinstanz"},
			Normalize: normalizeText,
			Assign:    func(r *CaseRecord, v string) { r.NextInstance = v },
		},
	}
}

// ApplyRules runs an extraction table over a section's label/value pairs.
// It returns a non-fatal Failure for every required field whose label is
// missing or whose value fails normalization; optional fields degrade to
// absent silently. The caller decides whether required failures are fatal.
func ApplyRules(rules []FieldRule, fields map[string]string, r *CaseRecord) []Failure {
	var failures []Failure

	for _, rule := range rules {
		raw, found := "", false
		for _, label := range rule.Labels {
			if v, ok := fields[label]; ok && strings.TrimSpace(v) != "" {
				raw, found = v, true
				break
			}
		}
		if !found {
			if rule.Required {
				failures = append(failures, Failure{
					Kind:   FailureFieldExtraction,
					Detail: fmt.Sprintf("field %q: no matching label", rule.Field),
				})
			}
			continue
		}

		value, ok := rule.Normalize(raw)
		if !ok {
			if rule.Required {
				failures = append(failures, Failure{
					Kind:   FailureFieldExtraction,
					Detail: fmt.Sprintf("field %q: value %q failed normalization", rule.Field, raw),
				})
			}
			continue
		}
		rule.Assign(r, value)
	}

	return failures
}

var dateRe = regexp.MustCompile(`^\s*(\d{1,2})\s*[./-]\s*(\d{1,2})\s*[./-]\s*(\d{4})\s*$`)

// NormalizeDate canonicalizes a decision date to dd.mm.yyyy. The corpus
// punctuates dates with ".", "/", or "-" depending on the era; all
// variants collapse to the dotted form. Normalizing an already-canonical
// date returns it unchanged.
func NormalizeDate(raw string) (string, bool) {
	m := dateRe.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}

	day, month := m[1], m[2]
	if len(day) == 1 {
		day = "0" + day
	}
	if len(month) == 1 {
		month = "0" + month
	}
	if day > "31" || day == "00" || month > "12" || month == "00" {
		return "", false
	}

	return day + "." + month + "." + m[3], true
}

// ecliRe matches the colon-delimited identifier shape with a dotted
// ordinal, e.g. ECLI:DE:OLGD:2024:0115.I1U123.23.00.
var ecliRe = regexp.MustCompile(`^ECLI:[A-Z]{2}:[A-Z0-9]{1,7}:\d{4}:[0-9A-Z]+(?:\.[0-9A-Z]+)+$`)

// NormalizeECLI validates an identifier code. A value that does not
// match the recognized structural pattern is rejected rather than passed
// through unvalidated; callers treat rejection as absence. A well-formed
// code round-trips unchanged apart from surrounding whitespace.
func NormalizeECLI(raw string) (string, bool) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if !ecliRe.MatchString(code) {
		return "", false
	}
	return code, true
}

// KeywordDelimiters returns the splitting conventions for the keyword
// field, in priority order per format. The delimiter conventions differ
// slightly between the historical layouts.
func KeywordDelimiters(format Format) []string {
	switch format {
	case FormatGrounds:
		return []string{",", ";"}
	default:
		return []string{";", ","}
	}
}

// SplitKeywords splits a raw keyword value on the first delimiter
// convention that applies, trims each entry, and deduplicates while
// preserving order. A value using a delimiter convention outside the
// known set is rejected so the caller can record a field-level failure.
func SplitKeywords(raw string, format Format) ([]string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}

	delims := KeywordDelimiters(format)

	var parts []string
	for _, d := range delims {
		if strings.Contains(trimmed, d) {
			parts = strings.Split(trimmed, d)
			break
		}
	}
	if parts == nil {
		// Slash- and pipe-separated lists have not been observed as a
		// deliberate convention in the corpus; refuse to guess.
		if strings.ContainsAny(trimmed, "/|") {
			return nil, ParseErrorf(FailureFieldExtraction,
				"field %q: unknown delimiter convention in %q", "keywords", trimmed)
		}
		parts = []string{trimmed}
	}

	seen := make(map[string]struct{}, len(parts))
	keywords := make([]string, 0, len(parts))
	for _, p := range parts {
		kw := CollapseWhitespace(p)
		if kw == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		keywords = append(keywords, kw)
	}

	if len(keywords) == 0 {
		return nil, nil
	}
	return keywords, nil
}

// CollapseWhitespace collapses runs of whitespace into single spaces and
// strips leading and trailing whitespace.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func normalizeText(raw string) (string, bool) {
	v := CollapseWhitespace(raw)
	return v, v != ""
}
