//go:build unit

package commands_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qtech/forgeupdates/internal/domain/commands"
	"github.com/qtech/forgeupdates/internal/domain/entities"
	infraRepos "github.com/qtech/forgeupdates/internal/infrastructure/repositories"
	"github.com/qtech/forgeupdates/test/domain/entitybuilders"
	doubles "github.com/qtech/forgeupdates/test/infrastructure/repositorydoubles"
)

func waitForResult(t *testing.T, task *commands.DownloadTask) entities.DownloadResult {
	t.Helper()
	select {
	case <-task.Done():
		return task.Wait()
	case <-time.After(5 * time.Second):
		t.Fatal("download did not finish")
		return entities.DownloadResult{}
	}
}

func TestDownloadCommandStart(t *testing.T) {
	t.Parallel()

	t.Run("should download the primary artifact before every flattened dependency", func(t *testing.T) {
		t.Parallel()

		// given
		core := entitybuilders.NewDependencyBuilder().
			WithComponentID("core").WithDownloadURL("https://example.com/files/core-1.0.jar").BuildDependency()
		lib := entitybuilders.NewDependencyBuilder().
			WithComponentID("lib").WithDownloadURL("https://example.com/files/lib-2.0.jar").WithDependencies(core).BuildDependency()
		transfers := &doubles.SpyTransferRepository{}
		dest := filepath.Join(t.TempDir(), "updates")

		// when
		task := commands.NewDownloadCommand(transfers).Start(context.Background(), commands.DownloadRequest{
			PrimaryURL:     "https://example.com/files/examplemod-2.0.0.jar",
			Dependencies:   entities.NewDependencySet(lib),
			DestinationDir: dest,
		})
		result := waitForResult(t, task)

		// then
		require.NoError(t, result.Err)
		assert.Equal(t, entities.DownloadCompleted, result.State)
		assert.Equal(t, []string{
			"https://example.com/files/examplemod-2.0.0.jar",
			"https://example.com/files/core-1.0.jar",
			"https://example.com/files/lib-2.0.jar",
		}, transfers.Sources())
		assert.Equal(t, []string{
			filepath.Join(dest, "examplemod-2.0.0.jar"),
			filepath.Join(dest, "core-1.0.jar"),
			filepath.Join(dest, "lib-2.0.jar"),
		}, result.Files)
		for _, file := range result.Files {
			assert.FileExists(t, file)
		}

		progress := task.Progress()
		assert.Equal(t, 3, progress.FilesDone)
		assert.Equal(t, 3, progress.FilesTotal)
		assert.NotEmpty(t, task.ID)
	})

	t.Run("should download a URL shared by several dependencies once", func(t *testing.T) {
		t.Parallel()

		// given
		a := entitybuilders.NewDependencyBuilder().
			WithComponentID("a").WithDownloadURL("https://example.com/shared.jar").BuildDependency()
		b := entitybuilders.NewDependencyBuilder().
			WithComponentID("b").WithDownloadURL("https://example.com/shared.jar").BuildDependency()
		transfers := &doubles.SpyTransferRepository{}

		// when
		task := commands.NewDownloadCommand(transfers).Start(context.Background(), commands.DownloadRequest{
			PrimaryURL:     "https://example.com/mod.jar",
			Dependencies:   entities.NewDependencySet(a, b),
			DestinationDir: t.TempDir(),
		})
		result := waitForResult(t, task)

		// then
		require.False(t, result.Failed())
		assert.Len(t, transfers.Sources(), 2)
	})

	t.Run("should abort the remaining files after the first failure", func(t *testing.T) {
		t.Parallel()

		// given
		first := entitybuilders.NewDependencyBuilder().
			WithComponentID("a").WithDownloadURL("https://example.com/a.jar").BuildDependency()
		second := entitybuilders.NewDependencyBuilder().
			WithComponentID("b").WithDownloadURL("https://example.com/b.jar").BuildDependency()
		cause := errors.New("connection reset")
		transfers := &doubles.SpyTransferRepository{
			Errors: map[string]error{"https://example.com/a.jar": cause},
		}

		// when
		task := commands.NewDownloadCommand(transfers).Start(context.Background(), commands.DownloadRequest{
			PrimaryURL:     "https://example.com/mod.jar",
			Dependencies:   entities.NewDependencySet(first, second),
			DestinationDir: t.TempDir(),
		})
		result := waitForResult(t, task)

		// then
		assert.True(t, result.Failed())
		require.ErrorIs(t, result.Err, entities.ErrDownload)
		require.ErrorIs(t, result.Err, cause)
		assert.Empty(t, result.Files)
		assert.Equal(t, []string{"https://example.com/mod.jar", "https://example.com/a.jar"}, transfers.Sources())
		assert.Equal(t, 1, task.Progress().FilesDone)
	})

	t.Run("should fail for a URL without a file name", func(t *testing.T) {
		t.Parallel()

		// given
		transfers := &doubles.SpyTransferRepository{}

		// when
		task := commands.NewDownloadCommand(transfers).Start(context.Background(), commands.DownloadRequest{
			PrimaryURL:     "https://example.com/",
			DestinationDir: t.TempDir(),
		})
		result := waitForResult(t, task)

		// then
		require.ErrorIs(t, result.Err, entities.ErrDownload)
		assert.Empty(t, transfers.Sources())
	})

	t.Run("should fail before any transfer when two URLs save to the same file name", func(t *testing.T) {
		t.Parallel()

		// given
		first := entitybuilders.NewDependencyBuilder().
			WithComponentID("a").WithDownloadURL("http://a.example.com/x/lib.jar").BuildDependency()
		second := entitybuilders.NewDependencyBuilder().
			WithComponentID("b").WithDownloadURL("http://b.example.com/y/lib.jar").BuildDependency()
		transfers := &doubles.SpyTransferRepository{}

		// when
		task := commands.NewDownloadCommand(transfers).Start(context.Background(), commands.DownloadRequest{
			PrimaryURL:     "https://example.com/mod.jar",
			Dependencies:   entities.NewDependencySet(first, second),
			DestinationDir: t.TempDir(),
		})
		result := waitForResult(t, task)

		// then
		assert.True(t, result.Failed())
		require.ErrorIs(t, result.Err, entities.ErrDownload)
		assert.ErrorContains(t, result.Err, `"lib.jar"`)
		assert.Empty(t, transfers.Sources())
		assert.Empty(t, result.Files)
	})

	t.Run("should report running until the task finishes, then fail on cancel", func(t *testing.T) {
		t.Parallel()

		// given
		transfers := &doubles.SpyTransferRepository{Gate: make(chan struct{})}
		task := commands.NewDownloadCommand(transfers).Start(context.Background(), commands.DownloadRequest{
			PrimaryURL:     "https://example.com/mod.jar",
			DestinationDir: t.TempDir(),
		})

		// when
		running, finished := task.Result()
		task.Cancel()
		result := waitForResult(t, task)

		// then
		assert.False(t, finished)
		assert.Equal(t, entities.DownloadRunning, running.State)
		assert.True(t, result.Failed())
		require.ErrorIs(t, result.Err, entities.ErrDownload)
		require.ErrorIs(t, result.Err, context.Canceled)
		final, finished := task.Result()
		assert.True(t, finished)
		assert.Equal(t, result, final)
	})

	t.Run("should publish monotonic progress of a real transfer", func(t *testing.T) {
		t.Parallel()

		// given
		payload := bytes.Repeat([]byte("m"), 10000)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
			_, _ = w.Write(payload)
		}))
		t.Cleanup(server.Close)
		transfers := infraRepos.NewHTTPTransferRepository(infraRepos.NewHTTPClient(5*time.Second, 0), 1024)

		var (
			mu       sync.Mutex
			observed []entities.Progress
		)
		dest := t.TempDir()

		// when
		task := commands.NewDownloadCommand(transfers).Start(context.Background(), commands.DownloadRequest{
			PrimaryURL:     server.URL + "/files/examplemod.jar",
			DestinationDir: dest,
			OnProgress: func(p entities.Progress) {
				mu.Lock()
				observed = append(observed, p)
				mu.Unlock()
			},
		})
		result := waitForResult(t, task)

		// then
		require.NoError(t, result.Err)
		mu.Lock()
		defer mu.Unlock()
		require.NotEmpty(t, observed)
		for i := 1; i < len(observed); i++ {
			assert.GreaterOrEqual(t, observed[i].Downloaded, observed[i-1].Downloaded)
		}
		last := observed[len(observed)-1]
		assert.Equal(t, int64(10000), last.Downloaded)
		assert.Equal(t, int64(10000), last.Total)

		info, err := os.Stat(filepath.Join(dest, "examplemod.jar"))
		require.NoError(t, err)
		assert.Equal(t, int64(10000), info.Size())
	})
}

func TestFileNameFromURL(t *testing.T) {
	t.Parallel()

	t.Run("should use the last path segment", func(t *testing.T) {
		t.Parallel()

		// when
		name, err := commands.FileNameFromURL("https://example.com/files/mod%201.0.jar?token=abc")

		// then
		require.NoError(t, err)
		assert.Equal(t, "mod 1.0.jar", name)
	})

	t.Run("should reject URLs without a file name", func(t *testing.T) {
		t.Parallel()

		for _, raw := range []string{"https://example.com", "https://example.com/", "https://example.com/a/.."} {
			// when
			_, err := commands.FileNameFromURL(raw)

			// then
			require.Error(t, err, raw)
		}
	})
}
