package main

import (
	"fmt"

	"github.com/jhenkel/nrwe"
	nrwehttp "github.com/jhenkel/nrwe/http"
	nrweslog "github.com/jhenkel/nrwe/slog"
)

// Run executes the download command.
func (c *DownloadCmd) Run(deps *Dependencies) error {
	var fetcher nrwe.Fetcher = deps.Fetcher
	if deps.Logger != nil {
		fetcher = nrweslog.NewLoggingFetcher(fetcher, deps.Logger)
	}

	downloader := nrwehttp.NewDownloader(fetcher, deps.Links, c.DocsDir,
		nrwehttp.WithConcurrency(c.Concurrency),
		nrwehttp.WithLimiter(nrwehttp.NewDomainLimiter(c.RPS)),
		nrwehttp.WithLogger(deps.Logger),
	)

	result, err := downloader.Download(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error downloading: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Downloaded %d documents (%d skipped, %d failed, %d invalid URLs)\n",
		result.Downloaded, result.Skipped, result.Failed, result.Invalid)
	return nil
}
