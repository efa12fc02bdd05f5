package http

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jhenkel/nrwe"
	"github.com/jhenkel/nrwe/fs"
	"golang.org/x/sync/errgroup"
)

// DefaultDownloadConcurrency is the default number of concurrent fetches.
const DefaultDownloadConcurrency = 4

// Downloader fetches the documents behind harvested case links into a
// local docs directory whose layout mirrors the URL paths. Downloads are
// idempotent: a URL whose target file already exists is skipped, so an
// interrupted run can simply be restarted.
type Downloader struct {
	fetcher     nrwe.Fetcher
	links       nrwe.LinkService
	limiter     nrwe.DomainLimiter
	docsDir     string
	concurrency int
	retryDelays []time.Duration
	log         *slog.Logger
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithConcurrency sets the number of concurrent fetches.
func WithConcurrency(n int) DownloaderOption {
	return func(d *Downloader) {
		d.concurrency = n
	}
}

// WithRetryDelays sets the backoff delays between fetch attempts.
func WithRetryDelays(delays []time.Duration) DownloaderOption {
	return func(d *Downloader) {
		d.retryDelays = delays
	}
}

// WithLimiter sets the per-domain rate limiter.
func WithLimiter(limiter nrwe.DomainLimiter) DownloaderOption {
	return func(d *Downloader) {
		d.limiter = limiter
	}
}

// WithLogger sets the logger for download progress and retries.
// A nil logger leaves logging disabled.
func WithLogger(log *slog.Logger) DownloaderOption {
	return func(d *Downloader) {
		if log != nil {
			d.log = log
		}
	}
}

// NewDownloader creates a Downloader writing under docsDir.
func NewDownloader(fetcher nrwe.Fetcher, links nrwe.LinkService, docsDir string, opts ...DownloaderOption) *Downloader {
	d := &Downloader{
		fetcher:     fetcher,
		links:       links,
		docsDir:     docsDir,
		concurrency: DefaultDownloadConcurrency,
		retryDelays: DefaultRetryDelays(),
		log:         slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DownloadResult summarizes one download run.
type DownloadResult struct {
	Downloaded int
	Skipped    int
	Invalid    int
	Failed     int
}

// Download fetches every stored link whose URL passes validation. Fetch
// failures are counted and logged but never abort the run; only local
// filesystem errors do.
func (d *Downloader) Download(ctx context.Context) (*DownloadResult, error) {
	links, err := d.links.FindLinks(ctx, nrwe.LinkFilter{})
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	result := &DownloadResult{}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)

	// Workers update result under mu while this loop is still dispatching,
	// so dispatch-side skips accumulate in locals and are folded in after
	// the group drains.
	var invalid, duplicates int

	seen := make(map[string]bool)
	for _, link := range links {
		if !nrwe.ValidDocumentURL(link.Href) {
			d.log.Warn("skipping invalid document URL", "href", link.Href)
			invalid++
			continue
		}

		rel, err := fs.URLToDocPath(link.Href)
		if err != nil {
			d.log.Warn("skipping unmappable document URL", "href", link.Href, "error", err)
			invalid++
			continue
		}
		target := filepath.Join(d.docsDir, filepath.FromSlash(rel))

		// At most one file per URL, even if the store holds near-duplicate
		// links pointing at the same document.
		if seen[target] {
			duplicates++
			continue
		}
		seen[target] = true

		href := link.Href
		g.Go(func() error {
			if _, err := os.Stat(target); err == nil {
				mu.Lock()
				result.Skipped++
				mu.Unlock()
				return nil
			}

			if d.limiter != nil {
				u, _ := url.Parse(href)
				if err := d.limiter.Wait(ctx, u.Hostname()); err != nil {
					return err
				}
			}

			html, err := FetchWithRetryDelays(ctx, href, d.fetcher.Fetch, d.log, d.retryDelays)
			if err != nil {
				d.log.Warn("download failed", "href", href, "error", err)
				mu.Lock()
				result.Failed++
				mu.Unlock()
				return nil
			}

			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			if err := os.WriteFile(target, []byte(html), 0644); err != nil {
				return err
			}

			d.log.Info("downloaded", "href", href, "path", target)
			mu.Lock()
			result.Downloaded++
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result.Invalid += invalid
	result.Skipped += duplicates
	return result, nil
}
