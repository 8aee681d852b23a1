//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/qtech/forgeupdates/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// DependencyBuilder helps create test dependencies with a fluent interface.
type DependencyBuilder struct {
	*testkit.BaseBuilder
	componentID string
	displayName string
	downloadURL string
	children    []entities.Dependency
}

// NewDependencyBuilder creates a new dependency builder with sensible defaults.
func NewDependencyBuilder() *DependencyBuilder {
	return &DependencyBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		componentID: "testlib",
		displayName: "Test Library",
		downloadURL: "https://example.com/files/testlib-1.0.0.jar",
	}
}

// WithComponentID sets the component identifier.
func (b *DependencyBuilder) WithComponentID(id string) *DependencyBuilder {
	b.componentID = id
	return b
}

// WithDisplayName sets the display name.
func (b *DependencyBuilder) WithDisplayName(name string) *DependencyBuilder {
	b.displayName = name
	return b
}

// WithDownloadURL sets the download URL.
func (b *DependencyBuilder) WithDownloadURL(downloadURL string) *DependencyBuilder {
	b.downloadURL = downloadURL
	return b
}

// WithDependencies appends nested dependencies.
func (b *DependencyBuilder) WithDependencies(deps ...entities.Dependency) *DependencyBuilder {
	b.children = append(b.children, deps...)
	return b
}

// Build creates the dependency (satisfies testkit.Builder interface).
func (b *DependencyBuilder) Build() interface{} {
	return b.BuildDependency()
}

// BuildDependency creates the dependency with a concrete return type.
func (b *DependencyBuilder) BuildDependency() entities.Dependency {
	sub := entities.NewDependencySet(b.children...)
	return entities.NewDependency(b.componentID, b.displayName, b.downloadURL, &sub)
}

// Reset clears the builder state, allowing it to be reused.
func (b *DependencyBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.componentID = "testlib"
	b.displayName = "Test Library"
	b.downloadURL = "https://example.com/files/testlib-1.0.0.jar"
	b.children = nil
	return b
}

// Clone creates a deep copy of the DependencyBuilder.
func (b *DependencyBuilder) Clone() testkit.Builder {
	return &DependencyBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		componentID: b.componentID,
		displayName: b.displayName,
		downloadURL: b.downloadURL,
		children:    append([]entities.Dependency(nil), b.children...),
	}
}
