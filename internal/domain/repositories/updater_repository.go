package repositories

import (
	"context"

	"github.com/qtech/forgeupdates/internal/domain/entities"
)

// UpdaterRepository is the long-lived updater of one component. Implementations
// cache the last check result; concurrent readers always see a whole UpdateInfo.
type UpdaterRepository interface {
	// ID returns the component identifier the updater is registered under.
	ID() string

	// Component returns the component description the updater was built from.
	Component() entities.Component

	// CurrentVersion returns the parsed running version of the component.
	CurrentVersion() entities.Version

	// CheckForUpdates fetches and resolves the manifest, caches and returns the result.
	// It never fails: network and content errors are reported through the status.
	CheckForUpdates(ctx context.Context) entities.UpdateInfo

	// LastInfo returns the most recent check result (StatusUnchecked before the first).
	LastInfo() entities.UpdateInfo

	// HasUpdate reports whether a newer version than the running one is known.
	HasUpdate() bool

	// Release returns the latest known release as a dependency tree root, or
	// false before the first successful check.
	Release() (entities.Dependency, bool)

	// Surface records the latest version of info against the last version
	// already surfaced (seeded with the running version) and reports whether a
	// new update notice must be raised. It advances at most once per version.
	Surface(info entities.UpdateInfo) bool
}
