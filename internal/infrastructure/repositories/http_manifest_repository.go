package repositories

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/qtech/forgeupdates/internal/domain/entities"
	domainRepos "github.com/qtech/forgeupdates/internal/domain/repositories"
)

// HTTPManifestRepository fetches manifests over HTTP(S).
type HTTPManifestRepository struct {
	client  *retryablehttp.Client
	timeout time.Duration
}

var _ domainRepos.ManifestRepository = (*HTTPManifestRepository)(nil)

// NewHTTPManifestRepository creates a manifest repository on the given client.
// timeout bounds the whole fetch, body included; zero or less disables it.
func NewHTTPManifestRepository(client *retryablehttp.Client, timeout time.Duration) *HTTPManifestRepository {
	return &HTTPManifestRepository{client: client, timeout: timeout}
}

// Open issues a GET for manifestURL and reads the whole body before returning.
// Transport failures, non-2xx responses, timeouts and interrupted bodies are
// wrapped with entities.ErrOffline.
func (it *HTTPManifestRepository) Open(ctx context.Context, manifestURL string) (io.ReadCloser, error) {
	if it.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, it.timeout)
		defer cancel()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, manifestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrOffline, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := it.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrOffline, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: GET %s returned %s", entities.ErrOffline, manifestURL, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", entities.ErrOffline, manifestURL, err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
