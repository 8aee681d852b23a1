package repositories

import (
	"fmt"
	"sort"
	"sync"

	"github.com/qtech/forgeupdates/internal/domain/entities"
	domainRepos "github.com/qtech/forgeupdates/internal/domain/repositories"
)

// UpdaterRegistry holds the updater of every configured component, keyed by component ID.
type UpdaterRegistry struct {
	mu       sync.RWMutex
	updaters map[string]domainRepos.UpdaterRepository
}

// NewUpdaterRegistry creates an empty updater registry.
func NewUpdaterRegistry() *UpdaterRegistry {
	return &UpdaterRegistry{
		updaters: make(map[string]domainRepos.UpdaterRepository),
	}
}

// Register adds an updater under its component ID. Registering the same ID
// twice fails with entities.ErrDuplicateRegistration.
func (r *UpdaterRegistry) Register(u domainRepos.UpdaterRepository) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.updaters[u.ID()]; exists {
		return fmt.Errorf("%w: %q", entities.ErrDuplicateRegistration, u.ID())
	}
	r.updaters[u.ID()] = u
	return nil
}

// Get returns the updater registered under id.
func (r *UpdaterRegistry) Get(id string) (domainRepos.UpdaterRepository, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.updaters[id]
	return u, ok
}

// All returns every registered updater ordered by component ID.
func (r *UpdaterRegistry) All() []domainRepos.UpdaterRepository {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domainRepos.UpdaterRepository, 0, len(r.updaters))
	for _, u := range r.updaters {
		result = append(result, u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID() < result[j].ID() })
	return result
}

// Names returns the sorted list of registered component IDs.
func (r *UpdaterRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.updaters))
	for name := range r.updaters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
