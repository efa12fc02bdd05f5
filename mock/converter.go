package mock

import (
	"github.com/jhenkel/nrwe"
)

var _ nrwe.Converter = (*Converter)(nil)

// Converter is a mock implementation of nrwe.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
