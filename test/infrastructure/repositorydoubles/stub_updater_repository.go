//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/qtech/forgeupdates/internal/domain/entities"
	"github.com/qtech/forgeupdates/internal/domain/repositories"
)

// SpyUpdaterRepository implements repositories.UpdaterRepository as a configurable spy.
// It is safe for concurrent use so poll cycles with several workers can drive it.
type SpyUpdaterRepository struct {
	// --- identity ---
	ComponentID string
	DisplayName string
	Current     entities.Version

	// --- CheckForUpdates ---
	// Infos are returned in order; the last one repeats once exhausted.
	Infos []entities.UpdateInfo

	// --- Release ---
	ReleaseDependency *entities.Dependency

	// --- Surface ---
	SurfaceResult bool

	mu            sync.Mutex
	checkCalls    int
	surfacedInfos []entities.UpdateInfo
	last          entities.UpdateInfo
}

var _ repositories.UpdaterRepository = (*SpyUpdaterRepository)(nil)

func (u *SpyUpdaterRepository) ID() string { return u.ComponentID }

func (u *SpyUpdaterRepository) Component() entities.Component {
	return entities.Component{
		ID:             u.ComponentID,
		DisplayName:    u.DisplayName,
		ManifestURL:    "https://example.com/" + u.ComponentID + ".json",
		CurrentVersion: u.CurrentVersion().String(),
		Stable:         true,
		Scheme:         entities.SchemeModule,
	}
}

func (u *SpyUpdaterRepository) CurrentVersion() entities.Version {
	if u.Current == nil {
		return entities.ModuleVersion("v1.0.0")
	}
	return u.Current
}

func (u *SpyUpdaterRepository) CheckForUpdates(_ context.Context) entities.UpdateInfo {
	u.mu.Lock()
	defer u.mu.Unlock()

	info := entities.UpdateInfo{ComponentID: u.ComponentID, Status: entities.StatusUpToDate}
	if len(u.Infos) > 0 {
		idx := min(u.checkCalls, len(u.Infos)-1)
		info = u.Infos[idx]
	}
	u.checkCalls++
	u.last = info
	return info
}

func (u *SpyUpdaterRepository) LastInfo() entities.UpdateInfo {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.last
}

func (u *SpyUpdaterRepository) HasUpdate() bool {
	return u.LastInfo().Status == entities.StatusUpdateAvailable
}

func (u *SpyUpdaterRepository) Release() (entities.Dependency, bool) {
	if u.ReleaseDependency == nil {
		return entities.Dependency{}, false
	}
	return *u.ReleaseDependency, true
}

func (u *SpyUpdaterRepository) Surface(info entities.UpdateInfo) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.surfacedInfos = append(u.surfacedInfos, info)
	return u.SurfaceResult
}

// CheckCalls returns how many times CheckForUpdates was called.
func (u *SpyUpdaterRepository) CheckCalls() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.checkCalls
}

// SurfacedInfos returns every info passed to Surface.
func (u *SpyUpdaterRepository) SurfacedInfos() []entities.UpdateInfo {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]entities.UpdateInfo(nil), u.surfacedInfos...)
}
