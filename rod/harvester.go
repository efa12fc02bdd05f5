// Package rod harvests case links from the court database search UI using
// Chrome browser automation. The search mask is driven by JavaScript, so a
// plain HTTP client cannot submit it.
package rod

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/jhenkel/nrwe"
)

const (
	// DefaultBaseURL is the court database search entry point.
	DefaultBaseURL = "https://www.justiz.nrw/BS/nrwe2/index.php"

	// DefaultPaginationDelay spaces out result-page navigation to avoid
	// overwhelming the server.
	DefaultPaginationDelay = 1 * time.Second
)

// Ensure Harvester implements nrwe.Harvester at compile time.
var _ nrwe.Harvester = (*Harvester)(nil)

// Harvester collects case links from the search UI: it submits the entry
// form, fills the search mask, and walks all result pages.
type Harvester struct {
	manager         *BrowserManager
	baseURL         string
	paginationDelay time.Duration
}

// HarvesterOption configures a Harvester.
type HarvesterOption func(*Harvester)

// WithBaseURL overrides the search entry point, used in tests to point the
// harvester at a local server.
func WithBaseURL(u string) HarvesterOption {
	return func(h *Harvester) {
		h.baseURL = u
	}
}

// WithPaginationDelay sets the delay between result pages.
func WithPaginationDelay(d time.Duration) HarvesterOption {
	return func(h *Harvester) {
		h.paginationDelay = d
	}
}

// NewHarvester creates a Harvester driving the manager's browser.
func NewHarvester(manager *BrowserManager, opts ...HarvesterOption) *Harvester {
	h := &Harvester{
		manager:         manager,
		baseURL:         DefaultBaseURL,
		paginationDelay: DefaultPaginationDelay,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Harvest submits the query and walks all result pages, collecting every
// anchor in the results container. The returned links carry the result page
// number they appeared on; IDs and scrape timestamps are assigned by the
// link store.
func (h *Harvester) Harvest(ctx context.Context, query nrwe.SearchQuery) ([]nrwe.CaseLink, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser, done := h.manager.Session()
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.Navigate(h.baseURL); err != nil {
		return nil, err
	}
	if err := page.WaitLoad(); err != nil {
		return nil, err
	}

	// The entry page forwards to the search mask through a hidden form.
	form, err := page.Element("#otherForm2")
	if err != nil {
		return nil, err
	}
	if _, err := form.Eval("() => this.submit()"); err != nil {
		return nil, err
	}
	if err := page.WaitLoad(); err != nil {
		return nil, err
	}

	if err := h.fillSearchMask(page, query); err != nil {
		return nil, err
	}

	submit, err := page.Element("#absenden")
	if err != nil {
		return nil, err
	}
	if _, err := submit.Eval("() => this.click()"); err != nil {
		return nil, err
	}

	links, err := h.collectPages(ctx, page)
	if err != nil {
		return nil, err
	}

	done()
	return links, nil
}

// Close releases browser resources.
func (h *Harvester) Close() error {
	return h.manager.Close()
}

// fillSearchMask sets the dropdowns and the date range on the search form.
func (h *Harvester) fillSearchMask(page *rod.Page, query nrwe.SearchQuery) error {
	dropdowns := []struct {
		selector string
		value    string
	}{
		{"#gerichtstyp", query.CourtType},
		{"#gerichtsbarkeit", query.Jurisdiction},
		{"#entscheidungsart", query.DecisionType},
	}
	for _, d := range dropdowns {
		if d.value == "" {
			continue
		}
		el, err := page.Element(d.selector)
		if err != nil {
			return err
		}
		if err := el.Select([]string{d.value}, true, rod.SelectorTypeText); err != nil {
			return err
		}
	}

	dates := []struct {
		selector string
		value    time.Time
	}{
		{"#von", query.From},
		{"#bis", query.To},
	}
	for _, d := range dates {
		el, err := page.Element(d.selector)
		if err != nil {
			return err
		}
		if err := el.SelectAllText(); err != nil {
			return err
		}
		if err := el.Input(d.value.Format("02.01.2006")); err != nil {
			return err
		}
	}

	return nil
}

// collectPages walks the result pages until no next-page button exists.
func (h *Harvester) collectPages(ctx context.Context, page *rod.Page) ([]nrwe.CaseLink, error) {
	var links []nrwe.CaseLink
	pageNum := 1

	for {
		results, err := page.Element(".alleErgebnisse")
		if err != nil {
			return nil, err
		}

		anchors, err := results.Elements("a")
		if err != nil {
			return nil, err
		}
		for _, a := range anchors {
			href, err := a.Attribute("href")
			if err != nil {
				return nil, err
			}
			if href == nil {
				return nil, nrwe.Errorf(nrwe.EINTERNAL, "result link without href on page %d", pageNum)
			}
			text, err := a.Text()
			if err != nil {
				return nil, err
			}
			links = append(links, nrwe.CaseLink{
				Page: pageNum,
				Text: text,
				Href: *href,
			})
		}

		hasNext, button, err := page.Has(fmt.Sprintf(`[name="page%d"]`, pageNum+1))
		if err != nil {
			return nil, err
		}
		if !hasNext {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(h.paginationDelay):
		}

		if _, err := button.Eval("() => this.click()"); err != nil {
			return nil, err
		}
		if err := page.WaitLoad(); err != nil {
			return nil, err
		}
		pageNum++
	}

	return links, nil
}
