package repositories

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/qtech/forgeupdates/internal/domain/entities"
	domainRepos "github.com/qtech/forgeupdates/internal/domain/repositories"
)

// HTTPTransferRepository streams files over HTTP(S) in fixed-size chunks.
type HTTPTransferRepository struct {
	client    *retryablehttp.Client
	chunkSize int
}

var _ domainRepos.TransferRepository = (*HTTPTransferRepository)(nil)

// NewHTTPTransferRepository creates a transfer repository reading chunkSize
// bytes per progress step (entities.DefaultChunkSize when not positive).
func NewHTTPTransferRepository(client *retryablehttp.Client, chunkSize int) *HTTPTransferRepository {
	if chunkSize <= 0 {
		chunkSize = entities.DefaultChunkSize
	}
	return &HTTPTransferRepository{client: client, chunkSize: chunkSize}
}

func (it *HTTPTransferRepository) Transfer(
	ctx context.Context,
	sourceURL string,
	destPath string,
	onProgress domainRepos.TransferProgressFunc,
) (int64, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return 0, err
	}

	resp, err := it.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return 0, fmt.Errorf("GET %s returned %s", sourceURL, resp.Status)
	}

	total := resp.ContentLength
	if total < 0 {
		total = entities.UnknownSize
	}

	if removeErr := os.Remove(destPath); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
		return 0, fmt.Errorf("failed to replace %s: %w", destPath, removeErr)
	}

	file, err := os.Create(destPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", destPath, err)
	}

	written, err := it.copyChunks(ctx, file, resp.Body, total, onProgress)
	closeErr := file.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(destPath)
		return written, err
	}

	return written, nil
}

func (it *HTTPTransferRepository) copyChunks(
	ctx context.Context,
	dst io.Writer,
	src io.Reader,
	total int64,
	onProgress domainRepos.TransferProgressFunc,
) (int64, error) {
	buf := make([]byte, it.chunkSize)
	var written int64

	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		n, readErr := io.ReadFull(src, buf)
		if n > 0 {
			if _, err := dst.Write(buf[:n]); err != nil {
				return written, fmt.Errorf("write failed: %w", err)
			}
			written += int64(n)
			if onProgress != nil {
				onProgress(written, total)
			}
		}

		switch {
		case readErr == nil:
			continue
		case errors.Is(readErr, io.EOF), errors.Is(readErr, io.ErrUnexpectedEOF):
			if total != entities.UnknownSize && written != total {
				return written, fmt.Errorf("short body: got %d of %d bytes", written, total)
			}
			return written, nil
		default:
			return written, fmt.Errorf("read failed: %w", readErr)
		}
	}
}
