// Package slog provides logging decorators around domain interfaces.
package slog

import (
	"log/slog"
	"time"

	"github.com/jhenkel/nrwe"
)

// Ensure LoggingParser implements nrwe.Parser.
var _ nrwe.Parser = (*LoggingParser)(nil)

// LoggingParser wraps a Parser with per-document outcome logging.
type LoggingParser struct {
	next   nrwe.Parser
	logger *slog.Logger
}

// NewLoggingParser creates a new LoggingParser.
func NewLoggingParser(next nrwe.Parser, logger *slog.Logger) *LoggingParser {
	return &LoggingParser{next: next, logger: logger}
}

// Parse logs the outcome of parsing one document and delegates to the
// wrapped parser. Failures log at warn level with their classified kind.
func (p *LoggingParser) Parse(doc *nrwe.RawDocument) *nrwe.ParseOutcome {
	begin := time.Now()
	outcome := p.next.Parse(doc)

	if outcome.Failed() {
		p.logger.Warn("parse failed",
			"doc", doc.ID,
			"kind", string(outcome.Failure.Kind),
			"detail", outcome.Failure.Detail,
			"duration", time.Since(begin),
		)
		return outcome
	}

	p.logger.Info("parsed",
		"doc", doc.ID,
		"format", string(outcome.Record.Format),
		"fieldFailures", len(outcome.FieldFailures),
		"duration", time.Since(begin),
	)
	return outcome
}
