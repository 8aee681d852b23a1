package repositories

import (
	"context"
	"io"
)

// ManifestRepository opens the remote manifest document.
type ManifestRepository interface {
	// Open returns the manifest body. Errors mean the document could not be
	// reached (connection failure or non-success status).
	Open(ctx context.Context, manifestURL string) (io.ReadCloser, error)
}
