package mock

import (
	"context"

	"github.com/jhenkel/nrwe"
)

var _ nrwe.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of nrwe.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if l.WaitFn == nil {
		return nil
	}
	return l.WaitFn(ctx, domain)
}
