//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"encoding/json"

	"github.com/qtech/forgeupdates/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// ManifestBuilder assembles update manifest documents for tests.
type ManifestBuilder struct {
	*testkit.BaseBuilder
	gameVersions map[string]map[string]any
}

// NewManifestBuilder creates a builder for an empty "mc_versions" block.
func NewManifestBuilder() *ManifestBuilder {
	return &ManifestBuilder{
		BaseBuilder:  testkit.NewBaseBuilder(),
		gameVersions: make(map[string]map[string]any),
	}
}

// WithRelease adds a channel entry for gameVersion.
func (b *ManifestBuilder) WithRelease(
	gameVersion string,
	channel entities.Channel,
	version string,
	download string,
	deps ...entities.Dependency,
) *ManifestBuilder {
	entry := map[string]any{
		"version":  version,
		"download": download,
	}
	if len(deps) > 0 {
		entry["dependencies"] = dependencyDocuments(deps)
	}

	channels, ok := b.gameVersions[gameVersion]
	if !ok {
		channels = make(map[string]any)
		b.gameVersions[gameVersion] = channels
	}
	channels[string(channel)] = entry
	return b
}

// Build creates the manifest JSON (satisfies testkit.Builder interface).
func (b *ManifestBuilder) Build() interface{} {
	return b.BuildJSON()
}

// BuildJSON returns the manifest document as a string.
func (b *ManifestBuilder) BuildJSON() string {
	data, err := json.Marshal(map[string]any{"mc_versions": b.gameVersions})
	if err != nil {
		panic(err)
	}
	return string(data)
}

// Reset clears the builder state, allowing it to be reused.
func (b *ManifestBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.gameVersions = make(map[string]map[string]any)
	return b
}

// Clone creates a copy of the ManifestBuilder.
func (b *ManifestBuilder) Clone() testkit.Builder {
	gameVersions := make(map[string]map[string]any, len(b.gameVersions))
	for gameVersion, channels := range b.gameVersions {
		copied := make(map[string]any, len(channels))
		for channel, entry := range channels {
			copied[channel] = entry
		}
		gameVersions[gameVersion] = copied
	}
	return &ManifestBuilder{
		BaseBuilder:  b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		gameVersions: gameVersions,
	}
}

func dependencyDocuments(deps []entities.Dependency) map[string]any {
	docs := make(map[string]any, len(deps))
	for _, dep := range deps {
		doc := map[string]any{
			"name":     dep.DisplayName,
			"download": dep.DownloadURL,
		}
		if !dep.Dependencies.IsEmpty() {
			doc["dependencies"] = dependencyDocuments(dep.Dependencies.Items())
		}
		docs[dep.ComponentID] = doc
	}
	return docs
}
