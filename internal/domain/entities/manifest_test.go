//go:build unit

package entities_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qtech/forgeupdates/internal/domain/entities"
	"github.com/qtech/forgeupdates/test/domain/entitybuilders"
)

func TestParseManifest(t *testing.T) {
	t.Parallel()

	t.Run("should list the published game versions", func(t *testing.T) {
		t.Parallel()

		// given
		body := entitybuilders.NewManifestBuilder().
			WithRelease("1.12.2", entities.ChannelStable, "1.0.0", "https://example.com/a.jar").
			WithRelease("1.7.10", entities.ChannelStable, "0.9.0", "https://example.com/b.jar").
			BuildJSON()

		// when
		manifest, err := entities.ParseManifest(strings.NewReader(body))

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"1.12.2", "1.7.10"}, manifest.GameVersions())
		assert.Contains(t, manifest.Raw(), "1.12.2")
	})

	t.Run("should return ErrIncompatible for unusable documents", func(t *testing.T) {
		t.Parallel()

		for name, body := range map[string]string{
			"invalid json":      `{"mc_versions": `,
			"missing block":     `{"versions": {}}`,
			"null block":        `{"mc_versions": null}`,
			"non-object block":  `{"mc_versions": []}`,
			"top-level array":   `[]`,
			"top-level literal": `"text"`,
			"trailing garbage":  `{"mc_versions": {}} this is not json`,
			"second document":   `{"mc_versions": {}} {"mc_versions": {}}`,
		} {
			// when
			_, err := entities.ParseManifest(strings.NewReader(body))

			// then
			require.ErrorIs(t, err, entities.ErrIncompatible, name)
		}
	})
}

func TestManifestRelease(t *testing.T) {
	t.Parallel()

	t.Run("should resolve the channel entry with nested dependencies", func(t *testing.T) {
		t.Parallel()

		// given
		inner := entitybuilders.NewDependencyBuilder().
			WithComponentID("inner").WithDisplayName("Inner").WithDownloadURL("https://example.com/inner.jar").BuildDependency()
		outer := entitybuilders.NewDependencyBuilder().
			WithComponentID("outer").WithDisplayName("Outer").WithDownloadURL("https://example.com/outer.jar").
			WithDependencies(inner).BuildDependency()
		body := entitybuilders.NewManifestBuilder().
			WithRelease("1.12.2", entities.ChannelUnstable, "2.0.0-b1", "https://example.com/mod.jar", outer).
			BuildJSON()
		manifest, err := entities.ParseManifest(strings.NewReader(body))
		require.NoError(t, err)

		// when
		release, err := manifest.Release("1.12.2", entities.ChannelUnstable)

		// then
		require.NoError(t, err)
		assert.Equal(t, "2.0.0-b1", release.Version)
		assert.Equal(t, "https://example.com/mod.jar", release.DownloadURL)
		assert.Equal(t, []string{"outer"}, componentIDs(release.Dependencies.Items()))
		assert.Equal(t, []string{"inner", "outer"}, componentIDs(release.Dependencies.Flatten()))
		assert.Equal(t, "Inner", release.Dependencies.Flatten()[0].DisplayName)
	})

	t.Run("should skip dependency entries that are not objects", func(t *testing.T) {
		t.Parallel()

		// given
		body := `{"mc_versions": {"1.12.2": {"stable": {
			"version": "1.0.0",
			"download": "https://example.com/mod.jar",
			"dependencies": {
				"lib": {"name": "Lib", "download": "https://example.com/lib.jar"},
				"comment": "not a dependency",
				"count": 3
			}
		}}}}`
		manifest, err := entities.ParseManifest(strings.NewReader(body))
		require.NoError(t, err)

		// when
		release, err := manifest.Release("1.12.2", entities.ChannelStable)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"lib"}, componentIDs(release.Dependencies.Items()))
	})

	t.Run("should return ErrIncompatible for unusable entries", func(t *testing.T) {
		t.Parallel()

		cases := map[string]struct {
			body        string
			gameVersion string
		}{
			"missing game version": {
				body:        `{"mc_versions": {"1.7.10": {"stable": {"version": "1.0.0", "download": "https://example.com/a.jar"}}}}`,
				gameVersion: "1.12.2",
			},
			"missing channel": {
				body:        `{"mc_versions": {"1.12.2": {"unstable": {"version": "1.0.0", "download": "https://example.com/a.jar"}}}}`,
				gameVersion: "1.12.2",
			},
			"missing version": {
				body:        `{"mc_versions": {"1.12.2": {"stable": {"download": "https://example.com/a.jar"}}}}`,
				gameVersion: "1.12.2",
			},
			"numeric version": {
				body:        `{"mc_versions": {"1.12.2": {"stable": {"version": 1, "download": "https://example.com/a.jar"}}}}`,
				gameVersion: "1.12.2",
			},
			"missing download": {
				body:        `{"mc_versions": {"1.12.2": {"stable": {"version": "1.0.0"}}}}`,
				gameVersion: "1.12.2",
			},
			"relative download": {
				body:        `{"mc_versions": {"1.12.2": {"stable": {"version": "1.0.0", "download": "files/a.jar"}}}}`,
				gameVersion: "1.12.2",
			},
			"dependency without name": {
				body: `{"mc_versions": {"1.12.2": {"stable": {"version": "1.0.0", "download": "https://example.com/a.jar",
					"dependencies": {"lib": {"download": "https://example.com/lib.jar"}}}}}}`,
				gameVersion: "1.12.2",
			},
			"nested dependency without download": {
				body: `{"mc_versions": {"1.12.2": {"stable": {"version": "1.0.0", "download": "https://example.com/a.jar",
					"dependencies": {"lib": {"name": "Lib", "download": "https://example.com/lib.jar",
						"dependencies": {"core": {"name": "Core"}}}}}}}}`,
				gameVersion: "1.12.2",
			},
			"game version not an object": {
				body:        `{"mc_versions": {"1.12.2": "1.0.0"}}`,
				gameVersion: "1.12.2",
			},
		}

		for name, tc := range cases {
			// given
			manifest, err := entities.ParseManifest(strings.NewReader(tc.body))
			require.NoError(t, err, name)

			// when
			_, err = manifest.Release(tc.gameVersion, entities.ChannelStable)

			// then
			require.ErrorIs(t, err, entities.ErrIncompatible, name)
		}
	})

	t.Run("should ignore malformed entries of other game versions", func(t *testing.T) {
		t.Parallel()

		// given
		body := `{"mc_versions": {
			"1.7.10": {"stable": {"version": 7}},
			"1.12.2": {"stable": {"version": "1.0.0", "download": "https://example.com/a.jar"}}
		}}`
		manifest, err := entities.ParseManifest(strings.NewReader(body))
		require.NoError(t, err)

		// when
		release, err := manifest.Release("1.12.2", entities.ChannelStable)

		// then
		require.NoError(t, err)
		assert.Equal(t, "1.0.0", release.Version)
		assert.True(t, release.Dependencies.IsEmpty())
	})
}
