package repositories

import (
	"go.uber.org/dig"

	"github.com/qtech/forgeupdates/internal/domain/entities"
	"github.com/qtech/forgeupdates/internal/domain/updaters"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register scheme registry with every version scheme's updater factory
	if err := container.Provide(func() *SchemeRegistry {
		reg := NewSchemeRegistry()
		reg.Register(entities.SchemeSemver, updaters.NewSemverUpdater)
		reg.Register(entities.SchemeModule, updaters.NewModuleUpdater)
		reg.Register(entities.SchemeBuild, updaters.NewBuildUpdater)
		return reg
	}); err != nil {
		return err
	}

	if err := container.Provide(NewRuntimeFactory); err != nil {
		return err
	}

	return nil
}
