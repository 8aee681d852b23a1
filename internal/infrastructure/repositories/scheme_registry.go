package repositories

import (
	"fmt"
	"sort"

	"github.com/qtech/forgeupdates/internal/domain/entities"
	domainRepos "github.com/qtech/forgeupdates/internal/domain/repositories"
)

// UpdaterFactory is a constructor function that creates the updater of one component.
type UpdaterFactory func(
	component entities.Component,
	gameVersion string,
	manifests domainRepos.ManifestRepository,
) (domainRepos.UpdaterRepository, error)

// SchemeRegistry maps version scheme names to updater factories.
type SchemeRegistry struct {
	factories map[string]UpdaterFactory
}

// NewSchemeRegistry creates an empty scheme registry.
func NewSchemeRegistry() *SchemeRegistry {
	return &SchemeRegistry{
		factories: make(map[string]UpdaterFactory),
	}
}

// Register adds an updater factory under the given scheme name (e.g. "semver").
func (r *SchemeRegistry) Register(name string, factory UpdaterFactory) {
	r.factories[name] = factory
}

// Get builds the updater of component with the factory of its scheme.
func (r *SchemeRegistry) Get(
	component entities.Component,
	gameVersion string,
	manifests domainRepos.ManifestRepository,
) (domainRepos.UpdaterRepository, error) {
	factory, ok := r.factories[component.Scheme]
	if !ok {
		return nil, fmt.Errorf("component %q: unknown version scheme %q", component.ID, component.Scheme)
	}
	return factory(component, gameVersion, manifests)
}

// Names returns the sorted list of registered scheme names.
func (r *SchemeRegistry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
