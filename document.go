package nrwe

import "context"

// RawDocument is an immutable input to the parsing core: a downloaded
// decision document addressed by a stable identifier (its path relative
// to the docs directory) together with its full HTML content.
type RawDocument struct {
	ID   string
	HTML string
}

// DocumentSource provides read-only access to the downloaded corpus.
// The parsing core never performs network I/O; everything it consumes
// comes through this boundary.
type DocumentSource interface {
	// List returns the identifiers of all documents in the source.
	List(ctx context.Context) ([]string, error)

	// Read returns the document with the given identifier.
	// Returns ENOTFOUND if the document does not exist.
	Read(ctx context.Context, id string) (*RawDocument, error)
}

// DomainLimiter throttles outbound requests per domain.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain,
	// or the context is canceled.
	Wait(ctx context.Context, domain string) error
}

// Fetcher retrieves document bodies over HTTP.
// Implementations enforce timeouts and validate that the response is an
// HTML document.
type Fetcher interface {
	// Fetch retrieves the body at the given URL.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (body string, err error)

	// Close releases client resources.
	Close() error
}
