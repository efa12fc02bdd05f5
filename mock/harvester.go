package mock

import (
	"context"

	"github.com/jhenkel/nrwe"
)

var _ nrwe.Harvester = (*Harvester)(nil)

// Harvester is a mock implementation of nrwe.Harvester.
type Harvester struct {
	HarvestFn func(ctx context.Context, query nrwe.SearchQuery) ([]nrwe.CaseLink, error)
	CloseFn   func() error
}

func (h *Harvester) Harvest(ctx context.Context, query nrwe.SearchQuery) ([]nrwe.CaseLink, error) {
	return h.HarvestFn(ctx, query)
}

func (h *Harvester) Close() error {
	if h.CloseFn == nil {
		return nil
	}
	return h.CloseFn()
}
