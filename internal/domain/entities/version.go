package entities

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	modsemver "golang.org/x/mod/semver"
)

// Version is a parsed release identifier. Values are only comparable through
// the VersionScheme that produced them.
type Version interface {
	String() string
}

// VersionScheme parses and orders the versions of one component.
// Compare returns -1, 0 or 1 like strings.Compare.
type VersionScheme[V Version] interface {
	Name() string
	Parse(raw string) (V, error)
	Compare(a, b V) int
}

// Scheme names accepted in the settings file.
const (
	SchemeSemver = "semver"
	SchemeModule = "gomod"
	SchemeBuild  = "build"
)

// KnownSchemes lists every scheme name a component may declare.
func KnownSchemes() []string {
	return []string{SchemeSemver, SchemeModule, SchemeBuild}
}

// ---------------------------------------------------------------------------
// semver (default)
// ---------------------------------------------------------------------------

// SemverScheme orders versions following Semantic Versioning 2.0.0.
// A leading "v" is accepted.
type SemverScheme struct{}

var _ VersionScheme[*semver.Version] = SemverScheme{}

func (SemverScheme) Name() string { return SchemeSemver }

func (SemverScheme) Parse(raw string) (*semver.Version, error) {
	v, err := semver.StrictNewVersion(strings.TrimPrefix(strings.TrimSpace(raw), "v"))
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrParse, raw, err)
	}
	return v, nil
}

func (SemverScheme) Compare(a, b *semver.Version) int {
	return a.Compare(b)
}

// ---------------------------------------------------------------------------
// gomod
// ---------------------------------------------------------------------------

// ModuleVersion is a canonical Go module version such as "v1.2.3-rc.1".
type ModuleVersion string

func (v ModuleVersion) String() string { return string(v) }

// ModuleScheme orders versions the way the Go toolchain does. Shorthands like
// "v1.2" are accepted and canonicalised.
type ModuleScheme struct{}

var _ VersionScheme[ModuleVersion] = ModuleScheme{}

func (ModuleScheme) Name() string { return SchemeModule }

func (ModuleScheme) Parse(raw string) (ModuleVersion, error) {
	normalized := normalizeVersion(raw)
	if !modsemver.IsValid(normalized) {
		return "", fmt.Errorf("%w %q", ErrParse, raw)
	}
	return ModuleVersion(modsemver.Canonical(normalized)), nil
}

func (ModuleScheme) Compare(a, b ModuleVersion) int {
	return modsemver.Compare(string(a), string(b))
}

// normalizeVersion ensures version has 'v' prefix for semver compatibility
func normalizeVersion(version string) string {
	version = strings.TrimSpace(version)
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}

// ---------------------------------------------------------------------------
// build
// ---------------------------------------------------------------------------

var buildVersionRegex = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)(?:-(alpha|a|beta|b|pre|rc)(\d+))?$`)

// Stage ranks the release stage of a BuildVersion. Release sorts last.
type Stage int

const (
	StageAlpha Stage = iota
	StageBeta
	StagePre
	StageCandidate
	StageRelease
)

var stageNames = map[string]Stage{
	"alpha": StageAlpha,
	"a":     StageAlpha,
	"beta":  StageBeta,
	"b":     StageBeta,
	"pre":   StagePre,
	"rc":    StageCandidate,
}

var stageSuffixes = map[Stage]string{
	StageAlpha:     "a",
	StageBeta:      "b",
	StagePre:       "pre",
	StageCandidate: "rc",
}

// BuildVersion is a "major.minor.build" version with an optional stage tag
// such as "2.0.1386-b1".
type BuildVersion struct {
	Major      int
	Minor      int
	Build      int
	Stage      Stage
	StageBuild int
}

func (v BuildVersion) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Build)
	if v.Stage != StageRelease {
		s += fmt.Sprintf("-%s%d", stageSuffixes[v.Stage], v.StageBuild)
	}
	return s
}

// IsStable reports whether the version carries no pre-release stage.
func (v BuildVersion) IsStable() bool {
	return v.Stage == StageRelease
}

// BuildScheme orders BuildVersion values: major, minor, build, then stage.
type BuildScheme struct{}

var _ VersionScheme[BuildVersion] = BuildScheme{}

func (BuildScheme) Name() string { return SchemeBuild }

func (BuildScheme) Parse(raw string) (BuildVersion, error) {
	matches := buildVersionRegex.FindStringSubmatch(strings.TrimSpace(raw))
	if matches == nil {
		return BuildVersion{}, fmt.Errorf("%w %q", ErrParse, raw)
	}

	v := BuildVersion{Stage: StageRelease}
	v.Major, _ = strconv.Atoi(matches[1])
	v.Minor, _ = strconv.Atoi(matches[2])
	v.Build, _ = strconv.Atoi(matches[3])
	if matches[4] != "" {
		v.Stage = stageNames[matches[4]]
		v.StageBuild, _ = strconv.Atoi(matches[5])
	}
	return v, nil
}

func (BuildScheme) Compare(a, b BuildVersion) int {
	for _, pair := range [][2]int{
		{a.Major, b.Major},
		{a.Minor, b.Minor},
		{a.Build, b.Build},
		{int(a.Stage), int(b.Stage)},
		{a.StageBuild, b.StageBuild},
	} {
		switch {
		case pair[0] > pair[1]:
			return 1
		case pair[0] < pair[1]:
			return -1
		}
	}
	return 0
}
