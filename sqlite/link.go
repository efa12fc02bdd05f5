package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhenkel/nrwe"
)

// Compile-time interface verification.
var _ nrwe.LinkService = (*LinkService)(nil)

// LinkService implements nrwe.LinkService using SQLite.
type LinkService struct {
	db *DB
}

// NewLinkService creates a new LinkService.
func NewLinkService(db *DB) *LinkService {
	return &LinkService{db: db}
}

// CreateLink stores a new harvested link. The href column is unique, so
// re-harvesting a month window never duplicates links.
func (s *LinkService) CreateLink(ctx context.Context, link *nrwe.CaseLink) error {
	if err := link.Validate(); err != nil {
		return err
	}

	link.ID = uuid.New().String()
	if link.ScrapedAt.IsZero() {
		link.ScrapedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO case_links (id, scraped_at, page, text, href)
		VALUES (?, ?, ?, ?, ?)
	`, link.ID, link.ScrapedAt.Format(time.RFC3339), link.Page, link.Text, link.Href)

	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return nrwe.Errorf(nrwe.ECONFLICT, "link with href %q already exists", link.Href)
	}
	return err
}

// FindLinks retrieves links matching the filter, ordered by scrape time.
func (s *LinkService) FindLinks(ctx context.Context, filter nrwe.LinkFilter) ([]*nrwe.CaseLink, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, scraped_at, page, text, href FROM case_links WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Href != nil {
		query.WriteString(" AND href = ?")
		args = append(args, *filter.Href)
	}
	if filter.Page != nil {
		query.WriteString(" AND page = ?")
		args = append(args, *filter.Page)
	}

	query.WriteString(" ORDER BY scraped_at ASC, page ASC")

	if filter.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	} else if filter.Offset > 0 {
		// SQLite requires a LIMIT clause before OFFSET.
		query.WriteString(" LIMIT -1")
	}
	if filter.Offset > 0 {
		query.WriteString(" OFFSET ?")
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []*nrwe.CaseLink
	for rows.Next() {
		var link nrwe.CaseLink
		var scrapedAt string
		if err := rows.Scan(&link.ID, &scrapedAt, &link.Page, &link.Text, &link.Href); err != nil {
			return nil, err
		}
		link.ScrapedAt, err = time.Parse(time.RFC3339, scrapedAt)
		if err != nil {
			return nil, nrwe.Errorf(nrwe.EINTERNAL, "failed to parse scraped_at: %v", err)
		}
		links = append(links, &link)
	}

	return links, rows.Err()
}
