package repositories

import (
	"github.com/qtech/forgeupdates/internal/domain/entities"
	domainRepos "github.com/qtech/forgeupdates/internal/domain/repositories"
)

// Runtime bundles the repositories built from one settings file.
type Runtime struct {
	Settings  *entities.Settings
	Updaters  *UpdaterRegistry
	Manifests domainRepos.ManifestRepository
	Transfers domainRepos.TransferRepository
}

// RuntimeFactory builds a Runtime once the settings file has been loaded.
type RuntimeFactory struct {
	schemes *SchemeRegistry
}

// NewRuntimeFactory creates a RuntimeFactory resolving updaters through schemes.
func NewRuntimeFactory(schemes *SchemeRegistry) *RuntimeFactory {
	return &RuntimeFactory{schemes: schemes}
}

// Build creates the HTTP repositories and registers one updater per configured component.
func (it *RuntimeFactory) Build(settings *entities.Settings) (*Runtime, error) {
	client := NewHTTPClient(settings.HTTPTimeout(), settings.Retries())
	manifests := NewHTTPManifestRepository(client, settings.HTTPTimeout())
	transfers := NewHTTPTransferRepository(client, settings.Download.ChunkSize)

	registry := NewUpdaterRegistry()
	for _, component := range settings.ToComponents() {
		updater, err := it.schemes.Get(component, settings.GameVersion, manifests)
		if err != nil {
			return nil, err
		}
		if err = registry.Register(updater); err != nil {
			return nil, err
		}
	}

	return &Runtime{
		Settings:  settings,
		Updaters:  registry,
		Manifests: manifests,
		Transfers: transfers,
	}, nil
}
