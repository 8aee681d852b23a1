package commands

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"

	"github.com/qtech/forgeupdates/internal/domain/entities"
	"github.com/qtech/forgeupdates/internal/domain/repositories"
)

// DownloadRequest describes one release download: the primary artifact
// followed by every transitive dependency.
type DownloadRequest struct {
	PrimaryURL     string
	Dependencies   entities.DependencySet
	DestinationDir string
	// OnProgress, when set, is called from the download goroutine after every chunk.
	OnProgress func(entities.Progress)
}

// NewDownloadRequest builds a request for a release returned by UpdaterRepository.Release.
func NewDownloadRequest(release entities.Dependency, destinationDir string) DownloadRequest {
	return DownloadRequest{
		PrimaryURL:     release.DownloadURL,
		Dependencies:   release.Dependencies,
		DestinationDir: destinationDir,
	}
}

// DownloadCommand starts background downloads of releases.
type DownloadCommand struct {
	transfers repositories.TransferRepository
}

// NewDownloadCommand creates a DownloadCommand writing files through transfers.
func NewDownloadCommand(transfers repositories.TransferRepository) *DownloadCommand {
	return &DownloadCommand{transfers: transfers}
}

// Start launches the download on its own goroutine and returns immediately.
// The primary artifact is transferred first, then every dependency of
// request.Dependencies.Flatten(); the first failure aborts the rest.
func (it *DownloadCommand) Start(ctx context.Context, request DownloadRequest) *DownloadTask {
	ctx, cancel := context.WithCancel(ctx)

	sources := []string{request.PrimaryURL}
	seen := map[string]bool{request.PrimaryURL: true}
	for _, dep := range request.Dependencies.Flatten() {
		if seen[dep.DownloadURL] {
			continue
		}
		seen[dep.DownloadURL] = true
		sources = append(sources, dep.DownloadURL)
	}

	task := &DownloadTask{
		ID:         uuid.NewString(),
		cancel:     cancel,
		done:       make(chan struct{}),
		filesTotal: len(sources),
	}
	task.file.Store("")
	task.total.Store(entities.UnknownSize)

	go it.run(ctx, task, request, sources)
	return task
}

func (it *DownloadCommand) run(
	ctx context.Context,
	task *DownloadTask,
	request DownloadRequest,
	sources []string,
) {
	defer close(task.done)
	defer task.cancel()

	log := logger.WithField("task", task.ID)
	log.Infof("Downloading %d file(s) into %s", len(sources), request.DestinationDir)

	names, err := fileNames(sources)
	if err != nil {
		task.fail(log, fmt.Errorf("%w: %w", entities.ErrDownload, err))
		return
	}

	if err = os.MkdirAll(request.DestinationDir, 0o755); err != nil {
		task.fail(log, fmt.Errorf("%w: failed to create %s: %w", entities.ErrDownload, request.DestinationDir, err))
		return
	}

	files := make([]string, 0, len(sources))
	for i, source := range sources {
		if err = ctx.Err(); err != nil {
			task.fail(log, fmt.Errorf("%w: %w", entities.ErrDownload, err))
			return
		}

		name := names[i]
		dest := filepath.Join(request.DestinationDir, name)

		task.file.Store(source)
		task.downloaded.Store(0)
		task.total.Store(entities.UnknownSize)

		fileLog := log.WithField("file", name)
		fileLog.Debugf("Fetching %s", source)

		written, err := it.transfers.Transfer(ctx, source, dest, func(written, total int64) {
			task.total.Store(total)
			task.downloaded.Store(written)
			if request.OnProgress != nil {
				request.OnProgress(task.Progress())
			}
		})
		if err != nil {
			task.fail(fileLog, fmt.Errorf("%w: %s: %w", entities.ErrDownload, source, err))
			return
		}

		files = append(files, dest)
		task.filesDone.Add(1)
		fileLog.Infof("Downloaded %d bytes", written)
	}

	task.result = entities.DownloadResult{State: entities.DownloadCompleted, Files: files}
	log.Info("Download completed")
}

// fileNames maps every source to its destination file name and rejects two
// sources saving to the same name.
func fileNames(sources []string) ([]string, error) {
	names := make([]string, len(sources))
	owners := make(map[string]string, len(sources))
	for i, source := range sources {
		name, err := fileNameFromURL(source)
		if err != nil {
			return nil, err
		}
		if owner, taken := owners[name]; taken {
			return nil, fmt.Errorf("%s and %s both save to %q", owner, source, name)
		}
		owners[name] = source
		names[i] = name
	}
	return names, nil
}

// fileNameFromURL returns the last path segment of rawURL.
func fileNameFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid download URL %q: %w", rawURL, err)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("download URL %q has no file name", rawURL)
	}
	return name, nil
}

// DownloadTask is the handle of a running download. Progress may be polled
// from any goroutine while the transfer runs.
type DownloadTask struct {
	// ID correlates the task's log lines.
	ID string

	cancel     context.CancelFunc
	done       chan struct{}
	filesTotal int

	file       atomic.Value
	downloaded atomic.Int64
	total      atomic.Int64
	filesDone  atomic.Int32

	// result is written once before done is closed.
	result entities.DownloadResult
}

// Progress returns a snapshot of the transfer.
func (t *DownloadTask) Progress() entities.Progress {
	file, _ := t.file.Load().(string)
	return entities.Progress{
		File:       file,
		Downloaded: t.downloaded.Load(),
		Total:      t.total.Load(),
		FilesDone:  int(t.filesDone.Load()),
		FilesTotal: t.filesTotal,
	}
}

// Done is closed when the task reaches a terminal state.
func (t *DownloadTask) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes and returns its result.
func (t *DownloadTask) Wait() entities.DownloadResult {
	<-t.done
	return t.result
}

// Result returns the terminal result without blocking. While the task is
// running it reports DownloadRunning and false.
func (t *DownloadTask) Result() (entities.DownloadResult, bool) {
	select {
	case <-t.done:
		return t.result, true
	default:
		return entities.DownloadResult{State: entities.DownloadRunning}, false
	}
}

// Cancel stops the task between chunks; the result becomes DownloadFailed
// with context.Canceled in its chain.
func (t *DownloadTask) Cancel() {
	t.cancel()
}

func (t *DownloadTask) fail(log *logger.Entry, err error) {
	if errors.Is(err, context.Canceled) {
		log.Warnf("Download cancelled: %v", err)
	} else {
		log.Errorf("Download failed: %v", err)
	}
	t.result = entities.DownloadResult{State: entities.DownloadFailed, Err: err}
}
