package mock

import (
	"context"

	"github.com/jhenkel/nrwe"
)

var _ nrwe.DocumentSource = (*DocumentSource)(nil)

// DocumentSource is a mock implementation of nrwe.DocumentSource.
type DocumentSource struct {
	ListFn func(ctx context.Context) ([]string, error)
	ReadFn func(ctx context.Context, id string) (*nrwe.RawDocument, error)
}

func (s *DocumentSource) List(ctx context.Context) ([]string, error) {
	return s.ListFn(ctx)
}

func (s *DocumentSource) Read(ctx context.Context, id string) (*nrwe.RawDocument, error) {
	return s.ReadFn(ctx, id)
}
