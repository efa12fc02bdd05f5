// Package fs provides file-based implementations: the read-only document
// source over the downloaded corpus and the append-only NDJSON record
// ledger.
package fs

import (
	"context"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhenkel/nrwe"
)

// URLToDocPath converts a document URL to its relative path under the
// docs directory, mirroring the source site's path structure.
// Example: https://example.org/nrwe/olgs/2024/doc.html → nrwe/olgs/2024/doc.html
func URLToDocPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	path := strings.TrimPrefix(u.Path, "/")
	if path == "" {
		return "", nrwe.Errorf(nrwe.EINVALID, "URL has no path: %s", rawURL)
	}
	return path, nil
}

// Ensure DirSource implements nrwe.DocumentSource at compile time.
var _ nrwe.DocumentSource = (*DirSource)(nil)

// DirSource reads downloaded HTML documents from a directory tree.
// Document identifiers are slash-separated paths relative to the base
// directory.
type DirSource struct {
	baseDir string
}

// NewDirSource creates a DirSource over the given base directory.
func NewDirSource(baseDir string) *DirSource {
	return &DirSource{baseDir: baseDir}
}

// List returns the identifiers of all HTML documents under the base
// directory, in walk order.
func (s *DirSource) List(ctx context.Context) ([]string, error) {
	var ids []string

	err := filepath.WalkDir(s.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}

		rel, err := filepath.Rel(s.baseDir, path)
		if err != nil {
			return err
		}
		ids = append(ids, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ids, nil
}

// Read returns the document with the given identifier.
func (s *DirSource) Read(ctx context.Context, id string) (*nrwe.RawDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(filepath.Join(s.baseDir, filepath.FromSlash(id)))
	if os.IsNotExist(err) {
		return nil, nrwe.Errorf(nrwe.ENOTFOUND, "document %q not found", id)
	}
	if err != nil {
		return nil, err
	}

	return &nrwe.RawDocument{ID: id, HTML: string(content)}, nil
}
