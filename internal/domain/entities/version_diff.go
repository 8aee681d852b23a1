package entities

import (
	modsemver "golang.org/x/mod/semver"
)

// ChangeKind classifies the step between a running version and the latest one.
type ChangeKind int

const (
	ChangeUnknown ChangeKind = iota
	ChangePatch
	ChangeMinor
	ChangeMajor
)

func (k ChangeKind) String() string {
	switch k {
	case ChangePatch:
		return "patch"
	case ChangeMinor:
		return "minor"
	case ChangeMajor:
		return "major"
	default:
		return "unknown"
	}
}

// AnalyzeChange determines the kind of change from current to latest. Versions
// that do not read as semantic versions yield ChangeUnknown, as does a latest
// version that is not newer.
func AnalyzeChange(current, latest string) ChangeKind {
	cur := modsemver.Canonical(normalizeVersion(current))
	next := modsemver.Canonical(normalizeVersion(latest))
	if cur == "" || next == "" || modsemver.Compare(next, cur) <= 0 {
		return ChangeUnknown
	}

	if modsemver.Major(cur) != modsemver.Major(next) {
		return ChangeMajor
	}
	if modsemver.MajorMinor(cur) != modsemver.MajorMinor(next) {
		return ChangeMinor
	}
	return ChangePatch
}
