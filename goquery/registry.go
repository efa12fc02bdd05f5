package goquery

import "github.com/jhenkel/nrwe"

var _ nrwe.VerdictRegistry = (*Registry)(nil)

// Registry manages per-format verdict extractors. The parser asks it for
// the extractor matching the classified format; formats without an
// extractor return nil rather than a fallback, because guessing at an
// unknown layout would silently mis-parse the document.
type Registry struct {
	extractors map[nrwe.Format]nrwe.VerdictExtractor
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[nrwe.Format]nrwe.VerdictExtractor),
	}
}

// Get returns the extractor for a format, or nil if none is registered.
func (r *Registry) Get(format nrwe.Format) nrwe.VerdictExtractor {
	return r.extractors[format]
}

// Register adds an extractor under its own format, replacing any
// existing one.
func (r *Registry) Register(extractor nrwe.VerdictExtractor) {
	r.extractors[extractor.Format()] = extractor
}

// List returns all registered formats.
func (r *Registry) List() []nrwe.Format {
	formats := make([]nrwe.Format, 0, len(r.extractors))
	for f := range r.extractors {
		formats = append(formats, f)
	}
	return formats
}
