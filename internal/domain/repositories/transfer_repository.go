package repositories

import "context"

// TransferProgressFunc receives the cumulative bytes written for the current
// file and its declared size (entities.UnknownSize when absent).
type TransferProgressFunc func(written, total int64)

// TransferRepository streams one remote file to a local path.
type TransferRepository interface {
	// Transfer downloads sourceURL into destPath, replacing any existing file,
	// and returns the number of bytes written. On failure the partial file is
	// removed. The context is checked between chunks.
	Transfer(
		ctx context.Context,
		sourceURL string,
		destPath string,
		onProgress TransferProgressFunc,
	) (int64, error)
}
