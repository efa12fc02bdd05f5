package rod

import (
	"context"
	"log/slog"
	"time"

	"github.com/jhenkel/nrwe"
)

// Ensure LoggingHarvester implements nrwe.Harvester.
var _ nrwe.Harvester = (*LoggingHarvester)(nil)

// LoggingHarvester wraps a Harvester with per-search logging.
type LoggingHarvester struct {
	next   nrwe.Harvester
	logger *slog.Logger
}

// NewLoggingHarvester creates a new LoggingHarvester.
func NewLoggingHarvester(next nrwe.Harvester, logger *slog.Logger) *LoggingHarvester {
	return &LoggingHarvester{next: next, logger: logger}
}

// Harvest logs the query window and result count, delegating to the
// wrapped harvester.
func (h *LoggingHarvester) Harvest(ctx context.Context, query nrwe.SearchQuery) (links []nrwe.CaseLink, err error) {
	defer func(begin time.Time) {
		h.logger.Info("harvest",
			"from", query.From.Format("02.01.2006"),
			"to", query.To.Format("02.01.2006"),
			"links", len(links),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return h.next.Harvest(ctx, query)
}

// Close delegates to the wrapped harvester.
func (h *LoggingHarvester) Close() error {
	return h.next.Close()
}
