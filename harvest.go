package nrwe

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// CaseLink is one search result harvested from the court database UI:
// when it was scraped, which result page it appeared on, the display
// text of the link, and the document URL.
type CaseLink struct {
	ID        string    `json:"id"`
	ScrapedAt time.Time `json:"scrapedAt"`
	Page      int       `json:"page"`
	Text      string    `json:"text"`
	Href      string    `json:"href"`
}

// Validate returns an error if the link contains invalid fields.
func (l *CaseLink) Validate() error {
	if l.Href == "" {
		return Errorf(EINVALID, "case link href required")
	}
	return nil
}

// ValidDocumentURL reports whether href points at a downloadable
// decision document: absolute, http(s), an .html path, and free of query
// parameters and fragments.
func ValidDocumentURL(href string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	if !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	if !strings.HasSuffix(u.Path, ".html") {
		return false
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return false
	}
	return true
}

// SearchQuery describes one search submitted to the court database UI.
type SearchQuery struct {
	CourtType    string
	Jurisdiction string
	DecisionType string
	From         time.Time
	To           time.Time
}

// DateRange is a closed interval of days.
type DateRange struct {
	From time.Time
	To   time.Time
}

// MonthWindows splits [from, to] into calendar-month windows. The search
// UI truncates large result sets, so harvesting proceeds one month at a
// time. The last window is clipped to the requested end date.
func MonthWindows(from, to time.Time) []DateRange {
	var windows []DateRange
	cur := from
	for !cur.After(to) {
		end := endOfMonth(cur)
		if end.After(to) {
			end = to
		}
		windows = append(windows, DateRange{From: cur, To: end})
		cur = end.AddDate(0, 0, 1)
	}
	return windows
}

func endOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, -1)
}

// Harvester collects case links from the court database search UI.
type Harvester interface {
	// Harvest submits the query and walks all result pages.
	Harvest(ctx context.Context, query SearchQuery) ([]CaseLink, error)

	// Close releases browser resources.
	Close() error
}

// LinkFilter represents a filter for FindLinks.
type LinkFilter struct {
	ID   *string
	Href *string
	Page *int

	Offset int
	Limit  int
}

// LinkService stores harvested case links.
type LinkService interface {
	// CreateLink stores a new link. Returns ECONFLICT if a link with the
	// same href already exists.
	CreateLink(ctx context.Context, link *CaseLink) error

	// FindLinks retrieves links matching the filter, ordered by scrape time.
	FindLinks(ctx context.Context, filter LinkFilter) ([]*CaseLink, error)
}
