// Package bloom deduplicates harvested case links using Bloom filters.
package bloom

import (
	"github.com/bits-and-blooms/bloom/v3"
	"github.com/jhenkel/nrwe"
)

// Filter screens case-link hrefs before they reach the link store. The
// same decision shows up in overlapping search windows and on multiple
// result pages, so most harvested hrefs are repeats; testing against the
// filter avoids a store round-trip for each of them.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected hrefs
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Seed adds the hrefs of already-stored links, so a resumed harvest
// skips what earlier runs collected.
func (f *Filter) Seed(links []*nrwe.CaseLink) {
	for _, link := range links {
		f.f.AddString(link.Href)
	}
}

// Add adds an href to the filter.
func (f *Filter) Add(href string) {
	f.f.AddString(href)
}

// Test returns true if the href might have been seen before.
// False positives are possible; false negatives are not. A false
// positive only costs a dropped duplicate candidate, which the link
// store's unique constraint would have rejected anyway.
func (f *Filter) Test(href string) bool {
	return f.f.TestString(href)
}

// EstimatedCount returns the approximate number of hrefs in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
