package updaters

import (
	"context"
	"fmt"
	"sync"

	logger "github.com/sirupsen/logrus"

	"github.com/qtech/forgeupdates/internal/domain/entities"
	"github.com/qtech/forgeupdates/internal/domain/repositories"
)

// Updater checks one component for updates and caches the outcome.
//
// The last UpdateInfo is replaced on every check. The latest version, release
// URL and dependency set are only replaced by a successful resolution, so a
// failed check keeps the previously known release.
type Updater[V entities.Version] struct {
	component   entities.Component
	gameVersion string
	scheme      entities.VersionScheme[V]
	resolver    *ManifestResolver[V]
	current     V

	mu         sync.RWMutex
	info       entities.UpdateInfo
	latest     V
	hasLatest  bool
	releaseURL string
	deps       entities.DependencySet

	surfaceMu sync.Mutex
	lastKnown V
}

var _ repositories.UpdaterRepository = (*Updater[entities.BuildVersion])(nil)

// NewUpdater creates an updater for component. It fails when the component's
// current version cannot be parsed by scheme.
func NewUpdater[V entities.Version](
	component entities.Component,
	gameVersion string,
	scheme entities.VersionScheme[V],
	manifests repositories.ManifestRepository,
) (*Updater[V], error) {
	current, err := scheme.Parse(component.CurrentVersion)
	if err != nil {
		return nil, fmt.Errorf("component %q: current version: %w", component.ID, err)
	}

	return &Updater[V]{
		component:   component,
		gameVersion: gameVersion,
		scheme:      scheme,
		resolver:    NewManifestResolver(manifests, scheme),
		current:     current,
		info: entities.UpdateInfo{
			ComponentID: component.ID,
			Status:      entities.StatusUnchecked,
		},
		lastKnown: current,
	}, nil
}

func (it *Updater[V]) ID() string { return it.component.ID }

func (it *Updater[V]) Component() entities.Component { return it.component }

func (it *Updater[V]) CurrentVersion() entities.Version { return it.current }

// Scheme returns the version scheme the updater orders versions with.
func (it *Updater[V]) Scheme() entities.VersionScheme[V] { return it.scheme }

// CheckForUpdates resolves the manifest and swaps the cached state.
func (it *Updater[V]) CheckForUpdates(ctx context.Context) entities.UpdateInfo {
	resolution := it.resolver.CheckForUpdates(
		ctx,
		it.component.ManifestURL,
		it.gameVersion,
		it.component.Channel(),
		it.current,
	)
	info := resolution.Info
	info.ComponentID = it.component.ID

	it.mu.Lock()
	it.info = info
	if info.Resolved() {
		it.latest = resolution.Latest
		it.hasLatest = true
		it.releaseURL = info.ReleaseURL
		it.deps = info.Dependencies
	}
	it.mu.Unlock()

	switch info.Status {
	case entities.StatusOffline, entities.StatusIncompatible:
		logger.Warnf("[%s] Update check %s: %v", it.component.ID, info.Status, info.Err)
	default:
		logger.Debugf("[%s] Update check %s (latest %s)", it.component.ID, info.Status, info.LatestVersion)
	}

	return info
}

func (it *Updater[V]) LastInfo() entities.UpdateInfo {
	it.mu.RLock()
	defer it.mu.RUnlock()
	return it.info
}

// LatestVersion returns the latest version seen by a successful check.
func (it *Updater[V]) LatestVersion() (V, bool) {
	it.mu.RLock()
	defer it.mu.RUnlock()
	return it.latest, it.hasLatest
}

// HasUpdate reports whether a latest version is known and the running
// version precedes it.
func (it *Updater[V]) HasUpdate() bool {
	latest, ok := it.LatestVersion()
	return ok && it.scheme.Compare(it.current, latest) < 0
}

// IsUpToDate reports whether version is at least the latest known version.
// Before the first successful check every version is considered up to date.
func (it *Updater[V]) IsUpToDate(version V) bool {
	latest, ok := it.LatestVersion()
	return !ok || it.scheme.Compare(version, latest) >= 0
}

func (it *Updater[V]) Release() (entities.Dependency, bool) {
	it.mu.RLock()
	defer it.mu.RUnlock()
	if !it.hasLatest {
		return entities.Dependency{}, false
	}
	deps := it.deps
	return entities.NewDependency(it.component.ID, it.component.Name(), it.releaseURL, &deps), true
}

func (it *Updater[V]) Surface(info entities.UpdateInfo) bool {
	if info.Status != entities.StatusUpdateAvailable {
		return false
	}
	latest, ok := info.LatestVersion.(V)
	if !ok {
		return false
	}

	it.surfaceMu.Lock()
	defer it.surfaceMu.Unlock()
	if it.scheme.Compare(it.lastKnown, latest) >= 0 {
		return false
	}
	it.lastKnown = latest
	return true
}
