package updaters

import (
	"github.com/Masterminds/semver/v3"

	"github.com/qtech/forgeupdates/internal/domain/entities"
	"github.com/qtech/forgeupdates/internal/domain/repositories"
)

// NewSemverUpdater builds an updater ordering versions with Semantic Versioning.
func NewSemverUpdater(
	component entities.Component,
	gameVersion string,
	manifests repositories.ManifestRepository,
) (repositories.UpdaterRepository, error) {
	updater, err := NewUpdater[*semver.Version](component, gameVersion, entities.SemverScheme{}, manifests)
	if err != nil {
		return nil, err
	}
	return updater, nil
}

// NewModuleUpdater builds an updater ordering versions like Go module versions.
func NewModuleUpdater(
	component entities.Component,
	gameVersion string,
	manifests repositories.ManifestRepository,
) (repositories.UpdaterRepository, error) {
	updater, err := NewUpdater[entities.ModuleVersion](component, gameVersion, entities.ModuleScheme{}, manifests)
	if err != nil {
		return nil, err
	}
	return updater, nil
}

// NewBuildUpdater builds an updater ordering "major.minor.build-stageN" versions.
func NewBuildUpdater(
	component entities.Component,
	gameVersion string,
	manifests repositories.ManifestRepository,
) (repositories.UpdaterRepository, error) {
	updater, err := NewUpdater[entities.BuildVersion](component, gameVersion, entities.BuildScheme{}, manifests)
	if err != nil {
		return nil, err
	}
	return updater, nil
}
