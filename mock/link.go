package mock

import (
	"context"

	"github.com/jhenkel/nrwe"
)

var _ nrwe.LinkService = (*LinkService)(nil)

// LinkService is a mock implementation of nrwe.LinkService.
type LinkService struct {
	CreateLinkFn func(ctx context.Context, link *nrwe.CaseLink) error
	FindLinksFn  func(ctx context.Context, filter nrwe.LinkFilter) ([]*nrwe.CaseLink, error)
}

func (s *LinkService) CreateLink(ctx context.Context, link *nrwe.CaseLink) error {
	return s.CreateLinkFn(ctx, link)
}

func (s *LinkService) FindLinks(ctx context.Context, filter nrwe.LinkFilter) ([]*nrwe.CaseLink, error) {
	return s.FindLinksFn(ctx, filter)
}
