//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/qtech/forgeupdates/internal/domain/repositories"
)

// StubManifestRepository implements repositories.ManifestRepository with a
// fixed body. Body may be replaced between checks to simulate a new release.
type StubManifestRepository struct {
	mu      sync.Mutex
	body    string
	openErr error
	opened  []string
}

var _ repositories.ManifestRepository = (*StubManifestRepository)(nil)

// NewStubManifestRepository returns a stub serving body.
func NewStubManifestRepository(body string) *StubManifestRepository {
	return &StubManifestRepository{body: body}
}

// SetBody replaces the served document.
func (s *StubManifestRepository) SetBody(body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.body = body
}

// SetOpenErr makes Open fail with err (nil restores the body).
func (s *StubManifestRepository) SetOpenErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openErr = err
}

// Opened returns the URLs requested so far.
func (s *StubManifestRepository) Opened() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.opened...)
}

func (s *StubManifestRepository) Open(_ context.Context, manifestURL string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opened = append(s.opened, manifestURL)
	if s.openErr != nil {
		return nil, s.openErr
	}
	return io.NopCloser(strings.NewReader(s.body)), nil
}
