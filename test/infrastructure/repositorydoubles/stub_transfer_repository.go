//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"os"
	"sync"

	"github.com/qtech/forgeupdates/internal/domain/repositories"
)

// SpyTransferRepository implements repositories.TransferRepository by writing
// canned content to the destination and recording every call.
type SpyTransferRepository struct {
	// Contents maps source URL to body; unknown URLs get "payload".
	Contents map[string]string
	// Errors maps source URL to the error its transfer fails with.
	Errors map[string]error
	// Gate, when set, blocks each transfer until it is closed or ctx is done.
	Gate chan struct{}

	mu      sync.Mutex
	sources []string
	dests   []string
}

var _ repositories.TransferRepository = (*SpyTransferRepository)(nil)

func (s *SpyTransferRepository) Transfer(
	ctx context.Context,
	sourceURL string,
	destPath string,
	onProgress repositories.TransferProgressFunc,
) (int64, error) {
	s.mu.Lock()
	s.sources = append(s.sources, sourceURL)
	s.dests = append(s.dests, destPath)
	s.mu.Unlock()

	if s.Gate != nil {
		select {
		case <-s.Gate:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	if err, ok := s.Errors[sourceURL]; ok {
		return 0, err
	}

	content, ok := s.Contents[sourceURL]
	if !ok {
		content = "payload"
	}
	if err := os.WriteFile(destPath, []byte(content), 0o600); err != nil {
		return 0, err
	}
	if onProgress != nil {
		onProgress(int64(len(content)), int64(len(content)))
	}
	return int64(len(content)), nil
}

// Sources returns the URLs transferred, in call order.
func (s *SpyTransferRepository) Sources() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sources...)
}

// Destinations returns the destination paths, in call order.
func (s *SpyTransferRepository) Destinations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.dests...)
}
