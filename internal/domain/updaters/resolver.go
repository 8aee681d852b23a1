package updaters

import (
	"context"
	"errors"
	"fmt"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/qtech/forgeupdates/internal/domain/entities"
	"github.com/qtech/forgeupdates/internal/domain/repositories"
)

// Resolution is the typed outcome of a manifest check. Latest is only
// meaningful when Info.Resolved() is true.
type Resolution[V entities.Version] struct {
	Info   entities.UpdateInfo
	Latest V
}

// ManifestResolver fetches a manifest and resolves the release entry of one
// game version and channel, ordering versions with a pluggable scheme.
type ManifestResolver[V entities.Version] struct {
	manifests repositories.ManifestRepository
	scheme    entities.VersionScheme[V]
	now       func() time.Time
}

// NewManifestResolver creates a resolver reading manifests through the given repository.
func NewManifestResolver[V entities.Version](
	manifests repositories.ManifestRepository,
	scheme entities.VersionScheme[V],
) *ManifestResolver[V] {
	return &ManifestResolver[V]{
		manifests: manifests,
		scheme:    scheme,
		now:       time.Now,
	}
}

// CheckForUpdates resolves the latest release for gameVersion/channel and
// compares it with current. It never returns an error: an unreachable manifest
// yields StatusOffline, unusable content yields StatusIncompatible, both with
// the cause attached.
func (it *ManifestResolver[V]) CheckForUpdates(
	ctx context.Context,
	manifestURL string,
	gameVersion string,
	channel entities.Channel,
	current V,
) Resolution[V] {
	checkedAt := it.now()

	body, err := it.manifests.Open(ctx, manifestURL)
	if err != nil {
		if !errors.Is(err, entities.ErrOffline) {
			err = fmt.Errorf("%w: %w", entities.ErrOffline, err)
		}
		return Resolution[V]{Info: entities.UpdateInfo{
			Status:    entities.StatusOffline,
			Err:       err,
			CheckedAt: checkedAt,
		}}
	}
	defer body.Close()

	incompatible := func(cause error) Resolution[V] {
		if !errors.Is(cause, entities.ErrIncompatible) {
			cause = fmt.Errorf("%w: %w", entities.ErrIncompatible, cause)
		}
		return Resolution[V]{Info: entities.UpdateInfo{
			Status:    entities.StatusIncompatible,
			Err:       cause,
			CheckedAt: checkedAt,
		}}
	}

	manifest, err := entities.ParseManifest(body)
	if err != nil {
		return incompatible(err)
	}

	if logger.IsLevelEnabled(logger.DebugLevel) {
		logger.Debugf("Update data from %s: %s", manifestURL, manifest.Raw())
	}

	release, err := manifest.Release(gameVersion, channel)
	if err != nil {
		return incompatible(err)
	}

	latest, err := it.scheme.Parse(release.Version)
	if err != nil {
		return incompatible(err)
	}

	status := entities.StatusUpToDate
	if it.scheme.Compare(current, latest) < 0 {
		status = entities.StatusUpdateAvailable
	}

	return Resolution[V]{
		Info: entities.UpdateInfo{
			Status:        status,
			LatestVersion: latest,
			ReleaseURL:    release.DownloadURL,
			Dependencies:  release.Dependencies,
			CheckedAt:     checkedAt,
		},
		Latest: latest,
	}
}
