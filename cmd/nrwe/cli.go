package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/jhenkel/nrwe"
	"github.com/jhenkel/nrwe/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	DB        *sqlite.DB
	Links     nrwe.LinkService
	Failures  nrwe.FailureLedger
	Harvester nrwe.Harvester
	Fetcher   nrwe.Fetcher
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Harvest  HarvestCmd  `cmd:"" help:"Harvest case links from the court database search UI"`
	Download DownloadCmd `cmd:"" help:"Download the documents behind harvested links"`
	Parse    ParseCmd    `cmd:"" help:"Parse downloaded documents into the record ledger"`
	Stats    StatsCmd    `cmd:"" help:"Show recorded parse failures per kind"`
}

// HarvestCmd is the "harvest" subcommand.
type HarvestCmd struct {
	From         string `arg:"" help:"Start date (dd.mm.yyyy)"`
	To           string `arg:"" help:"End date (dd.mm.yyyy)"`
	CourtType    string `default:"Oberlandesgericht" help:"Court type dropdown value"`
	Jurisdiction string `default:"Ordentliche Gerichtsbarkeit" help:"Jurisdiction dropdown value"`
	DecisionType string `default:"Urteil" help:"Decision type dropdown value"`

	// RetryDelays overrides the per-window backoff, used in tests to avoid
	// real waits.
	RetryDelays []time.Duration `kong:"-"`
}

// DownloadCmd is the "download" subcommand.
type DownloadCmd struct {
	DocsDir     string  `short:"d" default:"docs" help:"Directory the documents are written to"`
	Concurrency int     `short:"c" default:"4" help:"Concurrent fetch limit"`
	RPS         float64 `default:"2" help:"Requests per second per domain"`
}

// ParseCmd is the "parse" subcommand.
type ParseCmd struct {
	DocsDir     string `short:"d" default:"docs" help:"Directory the documents are read from"`
	Output      string `short:"o" default:"records.ndjson" help:"Record ledger path"`
	Markdown    bool   `help:"Also convert reasoning markup to markdown"`
	Concurrency int    `short:"c" default:"8" help:"Parser worker count"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct{}
