package mock

import (
	"github.com/jhenkel/nrwe"
)

var _ nrwe.Parser = (*Parser)(nil)

// Parser is a mock implementation of nrwe.Parser.
type Parser struct {
	ParseFn func(doc *nrwe.RawDocument) *nrwe.ParseOutcome
}

func (p *Parser) Parse(doc *nrwe.RawDocument) *nrwe.ParseOutcome {
	return p.ParseFn(doc)
}
