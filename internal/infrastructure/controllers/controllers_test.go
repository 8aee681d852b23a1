//go:build unit

package controllers_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qtech/forgeupdates/internal/domain/commands"
	"github.com/qtech/forgeupdates/internal/domain/entities"
	"github.com/qtech/forgeupdates/internal/domain/repositories"
	"github.com/qtech/forgeupdates/internal/infrastructure/controllers"
	"github.com/qtech/forgeupdates/test/domain/commanddoubles"
	"github.com/qtech/forgeupdates/test/infrastructure/repositorydoubles"
)

const releaseURL = "https://example.com/examplemod/1.1.0"

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "forgeupdates.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
game_version: "1.12.2"
components:
  - id: examplemod
    name: Example Mod
    manifest_url: https://example.com/examplemod.json
    current_version: 1.0.0
`), 0o600))
	return path
}

func newCobraCommand(configPath string) (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("config", configPath, "")
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	return cmd, out
}

func TestCheckController_Execute(t *testing.T) {
	t.Parallel()

	t.Run("should print the available update with its flattened dependencies", func(t *testing.T) {
		t.Parallel()

		// given
		library := entities.NewDependency("corelib", "Core Library", "https://example.com/corelib.jar", nil)
		stub := &commanddoubles.StubCheckCommand{
			Results: []commands.CheckResult{{
				Component:      entities.Component{ID: "examplemod", DisplayName: "Example Mod"},
				CurrentVersion: entities.ModuleVersion("v1.0.0"),
				Info: entities.UpdateInfo{
					ComponentID:   "examplemod",
					Status:        entities.StatusUpdateAvailable,
					LatestVersion: entities.ModuleVersion("v1.1.0"),
					ReleaseURL:    releaseURL,
					Dependencies:  entities.NewDependencySet(library),
				},
			}},
		}
		controller := controllers.NewCheckController(stub)
		cmd, out := newCobraCommand(writeConfig(t))

		// when
		controller.Execute(cmd, []string{"examplemod"})

		// then
		assert.Equal(t, 1, stub.ExecuteCallCount)
		assert.Equal(t, "examplemod", stub.LastOpts.ComponentID)
		require.NotNil(t, stub.LastSettings)
		assert.Equal(t, "1.12.2", stub.LastSettings.GameVersion)
		assert.Contains(t, out.String(), "Example Mod: v1.0.0 -> ")
		assert.Contains(t, out.String(), "v1.1.0, minor")
		assert.Contains(t, out.String(), releaseURL)
		assert.Contains(t, out.String(), "  + Core Library (https://example.com/corelib.jar)")
	})

	t.Run("should print the failure status when the check did not resolve", func(t *testing.T) {
		t.Parallel()

		// given
		stub := &commanddoubles.StubCheckCommand{
			Results: []commands.CheckResult{{
				Component:      entities.Component{ID: "examplemod", DisplayName: "Example Mod"},
				CurrentVersion: entities.ModuleVersion("v1.0.0"),
				Info: entities.UpdateInfo{
					ComponentID: "examplemod",
					Status:      entities.StatusOffline,
					Err:         entities.ErrOffline,
				},
			}},
		}
		controller := controllers.NewCheckController(stub)
		cmd, out := newCobraCommand(writeConfig(t))

		// when
		controller.Execute(cmd, nil)

		// then
		assert.Empty(t, stub.LastOpts.ComponentID)
		assert.Contains(t, out.String(), entities.StatusOffline.String())
		assert.NotContains(t, out.String(), "  + ")
	})

	t.Run("should not run the command when the config cannot be loaded", func(t *testing.T) {
		t.Parallel()

		// given
		stub := &commanddoubles.StubCheckCommand{}
		controller := controllers.NewCheckController(stub)
		cmd, out := newCobraCommand(filepath.Join(t.TempDir(), "missing.yaml"))

		// when
		controller.Execute(cmd, nil)

		// then
		assert.Equal(t, 0, stub.ExecuteCallCount)
		assert.Empty(t, out.String())
	})

	t.Run("should print nothing when the command fails", func(t *testing.T) {
		t.Parallel()

		// given
		stub := &commanddoubles.StubCheckCommand{ExecuteErr: errors.New("boom")}
		controller := controllers.NewCheckController(stub)
		cmd, out := newCobraCommand(writeConfig(t))

		// when
		controller.Execute(cmd, nil)

		// then
		assert.Equal(t, 1, stub.ExecuteCallCount)
		assert.Empty(t, out.String())
	})
}

func TestListController_Execute(t *testing.T) {
	t.Parallel()

	t.Run("should print one row per configured component", func(t *testing.T) {
		t.Parallel()

		// given
		stub := &commanddoubles.StubListCommand{
			Updaters: []repositories.UpdaterRepository{
				&repositorydoubles.SpyUpdaterRepository{ComponentID: "examplemod", DisplayName: "Example Mod"},
				&repositorydoubles.SpyUpdaterRepository{
					ComponentID: "corelib",
					DisplayName: "Core Library",
					Current:     entities.ModuleVersion("v2.3.0"),
				},
			},
		}
		controller := controllers.NewListController(stub)
		cmd, out := newCobraCommand(writeConfig(t))

		// when
		controller.Execute(cmd, nil)

		// then
		assert.Equal(t, 1, stub.ExecuteCallCount)
		lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
		require.Len(t, lines, 3)
		assert.Contains(t, string(lines[0]), "ID")
		assert.Contains(t, string(lines[1]), "examplemod")
		assert.Contains(t, string(lines[1]), "v1.0.0")
		assert.Contains(t, string(lines[2]), "Core Library")
		assert.Contains(t, string(lines[2]), "v2.3.0")
		assert.Contains(t, string(lines[2]), entities.SchemeModule)
	})
}

func TestWatchController_Execute(t *testing.T) {
	t.Parallel()

	t.Run("should print every notice raised by the watch loop", func(t *testing.T) {
		t.Parallel()

		// given
		stub := &commanddoubles.StubWatchCommand{
			Notices: []entities.UpdateNotice{{
				ComponentID:   "examplemod",
				DisplayName:   "Example Mod",
				LatestVersion: entities.ModuleVersion("v1.1.0"),
				ReleaseURL:    releaseURL,
			}},
		}
		controller := controllers.NewWatchController(stub)
		cmd, out := newCobraCommand(writeConfig(t))

		// when
		controller.Execute(cmd, nil)

		// then
		assert.Equal(t, 1, stub.ExecuteCallCount)
		assert.Equal(t, "Example Mod: v1.1.0 is available ("+releaseURL+")\n", out.String())
	})
}
