package entities

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
)

// Manifest is the remote update document:
//
//	{"mc_versions": {"<game version>": {"stable": {...}, "unstable": {...}}}}
//
// Game-version entries are decoded lazily by Release so an unrelated malformed
// entry does not break the running game version.
type Manifest struct {
	gameVersions map[string]json.RawMessage
	raw          json.RawMessage
}

// ReleaseEntry is one channel entry of a game version.
type ReleaseEntry struct {
	Version      string
	DownloadURL  string
	Dependencies DependencySet
}

type releaseDocument struct {
	Version      *string                    `json:"version"`
	Download     *string                    `json:"download"`
	Dependencies map[string]json.RawMessage `json:"dependencies"`
}

type dependencyDocument struct {
	Name         *string                    `json:"name"`
	Download     *string                    `json:"download"`
	Dependencies map[string]json.RawMessage `json:"dependencies"`
}

// ParseManifest decodes a manifest document. Every failure wraps ErrIncompatible.
func ParseManifest(r io.Reader) (*Manifest, error) {
	dec := json.NewDecoder(r)
	var root map[string]json.RawMessage
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: decode manifest: %w", ErrIncompatible, err)
	}
	var trailing json.RawMessage
	if err := dec.Decode(&trailing); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after manifest", ErrIncompatible)
	}

	raw, ok := root["mc_versions"]
	if !ok {
		return nil, fmt.Errorf("%w: missing \"mc_versions\"", ErrIncompatible)
	}

	var gameVersions map[string]json.RawMessage
	if err := json.Unmarshal(raw, &gameVersions); err != nil {
		return nil, fmt.Errorf("%w: \"mc_versions\" is not an object: %w", ErrIncompatible, err)
	}
	if gameVersions == nil {
		return nil, fmt.Errorf("%w: \"mc_versions\" is null", ErrIncompatible)
	}

	return &Manifest{gameVersions: gameVersions, raw: raw}, nil
}

// GameVersions returns the game versions the manifest publishes, sorted.
func (m *Manifest) GameVersions() []string {
	result := make([]string, 0, len(m.gameVersions))
	for id := range m.gameVersions {
		result = append(result, id)
	}
	sort.Strings(result)
	return result
}

// Raw returns the undecoded "mc_versions" block.
func (m *Manifest) Raw() string {
	return string(m.raw)
}

// Release selects the channel entry for a game version and resolves its
// dependency tree into a sealed set. Every failure wraps ErrIncompatible.
func (m *Manifest) Release(gameVersion string, channel Channel) (ReleaseEntry, error) {
	rawChannels, ok := m.gameVersions[gameVersion]
	if !ok {
		return ReleaseEntry{}, fmt.Errorf(
			"%w: game version %q not listed", ErrIncompatible, gameVersion,
		)
	}

	var channels map[string]json.RawMessage
	if err := json.Unmarshal(rawChannels, &channels); err != nil || channels == nil {
		return ReleaseEntry{}, fmt.Errorf(
			"%w: game version %q is not an object", ErrIncompatible, gameVersion,
		)
	}

	rawRelease, ok := channels[string(channel)]
	if !ok {
		return ReleaseEntry{}, fmt.Errorf(
			"%w: game version %q has no %q channel", ErrIncompatible, gameVersion, channel,
		)
	}

	var doc releaseDocument
	if err := json.Unmarshal(rawRelease, &doc); err != nil {
		return ReleaseEntry{}, fmt.Errorf(
			"%w: %s/%s: %w", ErrIncompatible, gameVersion, channel, err,
		)
	}
	if doc.Version == nil || *doc.Version == "" {
		return ReleaseEntry{}, fmt.Errorf(
			"%w: %s/%s: missing \"version\"", ErrIncompatible, gameVersion, channel,
		)
	}
	if doc.Download == nil {
		return ReleaseEntry{}, fmt.Errorf(
			"%w: %s/%s: missing \"download\"", ErrIncompatible, gameVersion, channel,
		)
	}
	if err := validateDownloadURL(*doc.Download); err != nil {
		return ReleaseEntry{}, fmt.Errorf("%w: %s/%s: %w", ErrIncompatible, gameVersion, channel, err)
	}

	deps, err := parseDependencies(doc.Dependencies)
	if err != nil {
		return ReleaseEntry{}, fmt.Errorf("%w: %s/%s: %w", ErrIncompatible, gameVersion, channel, err)
	}

	return ReleaseEntry{
		Version:      *doc.Version,
		DownloadURL:  *doc.Download,
		Dependencies: deps,
	}, nil
}

// parseDependencies resolves a "dependencies" object recursively. Entries whose
// value is not a JSON object are ignored.
func parseDependencies(raw map[string]json.RawMessage) (DependencySet, error) {
	builder := NewDependencySetBuilder()

	for componentID, value := range raw {
		if !isJSONObject(value) {
			continue
		}

		var doc dependencyDocument
		if err := json.Unmarshal(value, &doc); err != nil {
			return DependencySet{}, fmt.Errorf("dependency %q: %w", componentID, err)
		}
		if doc.Name == nil {
			return DependencySet{}, fmt.Errorf("dependency %q: missing \"name\"", componentID)
		}
		if doc.Download == nil {
			return DependencySet{}, fmt.Errorf("dependency %q: missing \"download\"", componentID)
		}
		if err := validateDownloadURL(*doc.Download); err != nil {
			return DependencySet{}, fmt.Errorf("dependency %q: %w", componentID, err)
		}

		sub, err := parseDependencies(doc.Dependencies)
		if err != nil {
			return DependencySet{}, fmt.Errorf("dependency %q: %w", componentID, err)
		}

		if _, err = builder.Add(NewDependency(componentID, *doc.Name, *doc.Download, &sub)); err != nil {
			return DependencySet{}, err
		}
	}

	return builder.Seal(), nil
}

func isJSONObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func validateDownloadURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("malformed download URL %q: %w", raw, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("download URL %q is not absolute", raw)
	}
	return nil
}
