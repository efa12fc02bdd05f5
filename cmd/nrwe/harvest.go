package main

import (
	"fmt"
	"time"

	"github.com/jhenkel/nrwe"
	"github.com/jhenkel/nrwe/bloom"
)

// expectedLinks sizes the dedup filter; a full multi-decade harvest of one
// court type stays well below this.
const expectedLinks = 500_000

// defaultWindowRetryDelays returns the backoff delays between attempts on
// one month window. The search UI fails in minutes-long stretches, so the
// delays are far coarser than the per-request fetch retries.
func defaultWindowRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Minute, 2 * time.Minute, 4 * time.Minute, 8 * time.Minute}
}

// Run executes the harvest command: it walks the date range one calendar
// month at a time and stores every new link. Links seen in an earlier run
// or an earlier window are dropped before they reach the store.
func (c *HarvestCmd) Run(deps *Dependencies) error {
	from, err := time.Parse("02.01.2006", c.From)
	if err != nil {
		return fmt.Errorf("invalid start date %q: expected dd.mm.yyyy", c.From)
	}
	to, err := time.Parse("02.01.2006", c.To)
	if err != nil {
		return fmt.Errorf("invalid end date %q: expected dd.mm.yyyy", c.To)
	}

	// Seed the dedup filter with everything previous runs collected.
	existing, err := deps.Links.FindLinks(deps.Ctx, nrwe.LinkFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", nrwe.ErrorMessage(err))
		return err
	}
	filter := bloom.NewFilter(expectedLinks, 0.001)
	filter.Seed(existing)

	windows := nrwe.MonthWindows(from, to)
	fmt.Fprintf(deps.Stdout, "Harvesting %d month windows\n", len(windows))

	var created, duplicates, failedWindows int
	for _, window := range windows {
		query := nrwe.SearchQuery{
			CourtType:    c.CourtType,
			Jurisdiction: c.Jurisdiction,
			DecisionType: c.DecisionType,
			From:         window.From,
			To:           window.To,
		}

		links, err := c.harvestWindow(deps, query)
		if err != nil {
			// One broken window must not lose the rest of the range.
			fmt.Fprintf(deps.Stderr, "  window %s - %s failed: %v\n",
				window.From.Format("02.01.2006"), window.To.Format("02.01.2006"), err)
			failedWindows++
			continue
		}

		for _, link := range links {
			if filter.Test(link.Href) {
				duplicates++
				continue
			}
			if err := deps.Links.CreateLink(deps.Ctx, &link); err != nil {
				if nrwe.ErrorCode(err) == nrwe.ECONFLICT {
					// Bloom false negative never happens, but a concurrent
					// writer could have stored the href first.
					duplicates++
					filter.Add(link.Href)
					continue
				}
				fmt.Fprintf(deps.Stderr, "error: %s\n", nrwe.ErrorMessage(err))
				return err
			}
			filter.Add(link.Href)
			created++
		}
	}

	fmt.Fprintf(deps.Stdout, "Harvested %d new links (%d duplicates", created, duplicates)
	if failedWindows > 0 {
		fmt.Fprintf(deps.Stdout, ", %d windows failed", failedWindows)
	}
	fmt.Fprintln(deps.Stdout, ")")
	return nil
}

// harvestWindow runs one search with exponential backoff retries. A window
// only counts as failed once every attempt is exhausted.
func (c *HarvestCmd) harvestWindow(deps *Dependencies, query nrwe.SearchQuery) ([]nrwe.CaseLink, error) {
	delays := c.RetryDelays
	if delays == nil {
		delays = defaultWindowRetryDelays()
	}
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		links, err := deps.Harvester.Harvest(deps.Ctx, query)
		if err == nil {
			return links, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 {
			break
		}

		fmt.Fprintf(deps.Stderr, "  retry window %s - %s (attempt %d): %v\n",
			query.From.Format("02.01.2006"), query.To.Format("02.01.2006"), attempt+2, err)

		select {
		case <-deps.Ctx.Done():
			return nil, deps.Ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}
