package main

import (
	"fmt"

	"github.com/jhenkel/nrwe"
	"github.com/jhenkel/nrwe/fs"
	"github.com/jhenkel/nrwe/goquery"
	"github.com/jhenkel/nrwe/htmltomarkdown"
	"github.com/jhenkel/nrwe/parse"
	nrweslog "github.com/jhenkel/nrwe/slog"
)

// Run executes the parse command.
func (c *ParseCmd) Run(deps *Dependencies) error {
	ledger, err := fs.OpenLedger(c.Output)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error opening ledger %q: %v\n", c.Output, err)
		return err
	}
	defer ledger.Close()

	var opts []goquery.ParserOption
	if c.Markdown {
		opts = append(opts, goquery.WithConverter(htmltomarkdown.NewConverter()))
	}
	var parser nrwe.Parser = goquery.NewParser(opts...)
	if deps.Logger != nil {
		parser = nrweslog.NewLoggingParser(parser, deps.Logger)
	}

	runner := &parse.Runner{
		Source:      fs.NewDirSource(c.DocsDir),
		Parser:      parser,
		Records:     ledger,
		Failures:    deps.Failures,
		Concurrency: c.Concurrency,
	}

	progress := func(event parse.ProgressEvent) {
		switch event.Type {
		case parse.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "  Parsing %d documents\n", event.Total)
		case parse.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  fail %s: %v\n", event.DocumentID, event.Error)
		case parse.ProgressFinished:
			// Summary printed below.
		}
	}

	result, err := runner.Run(deps.Ctx, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error parsing: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Parsed %d documents (%d skipped, %d failed, %d field failures)\n",
		result.Parsed, result.Skipped, result.Failed, result.FieldFailures)
	for kind, n := range result.FailuresByKind {
		fmt.Fprintf(deps.Stdout, "  %s: %d\n", kind, n)
	}
	return nil
}
