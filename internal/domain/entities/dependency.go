package entities

import (
	"fmt"
	"sort"
	"strings"
)

// Dependency is an auxiliary download required alongside a release. Values
// are immutable once built; Dependencies is always sealed.
type Dependency struct {
	ComponentID  string
	DisplayName  string
	DownloadURL  string
	Dependencies DependencySet
}

// NewDependency creates a dependency. A nil sub-set is treated as empty.
func NewDependency(componentID, displayName, downloadURL string, sub *DependencySet) Dependency {
	dep := Dependency{
		ComponentID: componentID,
		DisplayName: displayName,
		DownloadURL: downloadURL,
	}
	if sub != nil {
		dep.Dependencies = *sub
	}
	return dep
}

// Key is the identity of the dependency: component ID, download URL and the
// identity of every nested dependency. The display name is not part of it.
func (d Dependency) Key() string {
	var sb strings.Builder
	sb.WriteString(d.ComponentID)
	sb.WriteString("\x00")
	sb.WriteString(d.DownloadURL)
	sb.WriteString("\x00{")
	sb.WriteString(strings.Join(d.Dependencies.keys(), ","))
	sb.WriteString("}")
	return sb.String()
}

// ---------------------------------------------------------------------------
// DependencySet
// ---------------------------------------------------------------------------

// DependencySet is an immutable set of dependencies, unique by Key. The zero
// value is an empty set. Obtain a populated set from DependencySetBuilder.
type DependencySet struct {
	items map[string]Dependency
}

// Len returns the number of direct dependencies.
func (s DependencySet) Len() int {
	return len(s.items)
}

// IsEmpty reports whether the set has no direct dependencies.
func (s DependencySet) IsEmpty() bool {
	return len(s.items) == 0
}

// Contains reports whether a dependency with the same identity is a direct member.
func (s DependencySet) Contains(dep Dependency) bool {
	_, ok := s.items[dep.Key()]
	return ok
}

// Items returns the direct dependencies sorted by component ID then URL.
// The returned slice is a copy.
func (s DependencySet) Items() []Dependency {
	result := make([]Dependency, 0, len(s.items))
	for _, dep := range s.items {
		result = append(result, dep)
	}
	sortDependencies(result)
	return result
}

// Flatten returns the transitive closure: every direct dependency plus all of
// their nested dependencies, each identity exactly once. Order carries no
// meaning but is deterministic.
func (s DependencySet) Flatten() []Dependency {
	seen := make(map[string]Dependency)
	s.collect(seen)

	result := make([]Dependency, 0, len(seen))
	for _, dep := range seen {
		result = append(result, dep)
	}
	sortDependencies(result)
	return result
}

func (s DependencySet) collect(seen map[string]Dependency) {
	for key, dep := range s.items {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = dep
		dep.Dependencies.collect(seen)
	}
}

func (s DependencySet) keys() []string {
	keys := make([]string, 0, len(s.items))
	for key := range s.items {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sortDependencies(deps []Dependency) {
	sort.Slice(deps, func(i, j int) bool {
		if deps[i].ComponentID != deps[j].ComponentID {
			return deps[i].ComponentID < deps[j].ComponentID
		}
		if deps[i].DownloadURL != deps[j].DownloadURL {
			return deps[i].DownloadURL < deps[j].DownloadURL
		}
		return deps[i].Key() < deps[j].Key()
	})
}

// ---------------------------------------------------------------------------
// DependencySetBuilder
// ---------------------------------------------------------------------------

// DependencySetBuilder is the open stage of a DependencySet. After Seal every
// mutation fails with ErrSealed; the sealed set is unaffected by the builder.
type DependencySetBuilder struct {
	items  map[string]Dependency
	sealed bool
}

// NewDependencySetBuilder returns an empty, open builder.
func NewDependencySetBuilder() *DependencySetBuilder {
	return &DependencySetBuilder{items: make(map[string]Dependency)}
}

// Add inserts dep. It reports whether the set changed.
func (b *DependencySetBuilder) Add(dep Dependency) (bool, error) {
	if b.sealed {
		return false, fmt.Errorf("add %q: %w", dep.ComponentID, ErrSealed)
	}
	key := dep.Key()
	if _, ok := b.items[key]; ok {
		return false, nil
	}
	b.items[key] = dep
	return true, nil
}

// AddAll inserts every dependency of deps.
func (b *DependencySetBuilder) AddAll(deps ...Dependency) error {
	for _, dep := range deps {
		if _, err := b.Add(dep); err != nil {
			return err
		}
	}
	return nil
}

// Remove deletes dep. It reports whether the set changed.
func (b *DependencySetBuilder) Remove(dep Dependency) (bool, error) {
	if b.sealed {
		return false, fmt.Errorf("remove %q: %w", dep.ComponentID, ErrSealed)
	}
	key := dep.Key()
	if _, ok := b.items[key]; !ok {
		return false, nil
	}
	delete(b.items, key)
	return true, nil
}

// RemoveIf deletes every dependency matching pred and returns how many were
// removed.
func (b *DependencySetBuilder) RemoveIf(pred func(Dependency) bool) (int, error) {
	if b.sealed {
		return 0, fmt.Errorf("remove-if: %w", ErrSealed)
	}
	removed := 0
	for key, dep := range b.items {
		if pred(dep) {
			delete(b.items, key)
			removed++
		}
	}
	return removed, nil
}

// Clear deletes every dependency.
func (b *DependencySetBuilder) Clear() error {
	if b.sealed {
		return fmt.Errorf("clear: %w", ErrSealed)
	}
	b.items = make(map[string]Dependency)
	return nil
}

// Len returns the number of dependencies added so far.
func (b *DependencySetBuilder) Len() int {
	return len(b.items)
}

// IsSealed reports whether Seal was called.
func (b *DependencySetBuilder) IsSealed() bool {
	return b.sealed
}

// Seal closes the builder and returns the immutable set. Calling Seal again
// returns an equal set.
func (b *DependencySetBuilder) Seal() DependencySet {
	b.sealed = true
	items := make(map[string]Dependency, len(b.items))
	for key, dep := range b.items {
		items[key] = dep
	}
	return DependencySet{items: items}
}

// NewDependencySet builds a sealed set from deps.
func NewDependencySet(deps ...Dependency) DependencySet {
	builder := NewDependencySetBuilder()
	_ = builder.AddAll(deps...)
	return builder.Seal()
}
