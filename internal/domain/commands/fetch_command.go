package commands

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/qtech/forgeupdates/internal/domain/entities"
	infraRepos "github.com/qtech/forgeupdates/internal/infrastructure/repositories"
)

// Fetch is the interface for the fetch command (check, then download).
type Fetch interface {
	Execute(ctx context.Context, settings *entities.Settings, opts FetchOptions) (*DownloadTask, error)
}

// FetchOptions holds runtime options for a single fetch.
type FetchOptions struct {
	ComponentID string
	Destination string // Overrides download.destination when set
	Force       bool   // Download even when the component is up to date
	OnProgress  func(entities.Progress)
}

// FetchCommand checks one component and downloads its latest release together
// with every transitive dependency.
type FetchCommand struct {
	runtimes *infraRepos.RuntimeFactory
}

// NewFetchCommand creates a new FetchCommand.
func NewFetchCommand(runtimes *infraRepos.RuntimeFactory) *FetchCommand {
	return &FetchCommand{runtimes: runtimes}
}

// Execute resolves the latest release and starts its download. The returned
// task runs in the background; callers poll or wait on it.
func (it *FetchCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts FetchOptions,
) (*DownloadTask, error) {
	runtime, err := it.runtimes.Build(settings)
	if err != nil {
		return nil, err
	}

	updater, ok := runtime.Updaters.Get(opts.ComponentID)
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", entities.ErrNotFound, opts.ComponentID, runtime.Updaters.Names())
	}

	info := updater.CheckForUpdates(ctx)
	if !info.Resolved() {
		return nil, info.Err
	}
	if info.Status == entities.StatusUpToDate && !opts.Force {
		return nil, fmt.Errorf("%w: %s %s", entities.ErrUpToDate, opts.ComponentID, updater.CurrentVersion())
	}

	release, ok := updater.Release()
	if !ok {
		return nil, fmt.Errorf("%w: %q has no known release", entities.ErrNotFound, opts.ComponentID)
	}

	destination := opts.Destination
	if destination == "" {
		destination = settings.Download.Destination
	}

	logger.Infof(
		"Fetching %s %s with %d dependencies",
		release.DisplayName, info.LatestVersion, len(release.Dependencies.Flatten()),
	)

	request := NewDownloadRequest(release, destination)
	request.OnProgress = opts.OnProgress
	return NewDownloadCommand(runtime.Transfers).Start(ctx, request), nil
}
