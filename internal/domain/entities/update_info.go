package entities

import "time"

// UpdateStatus is the outcome of one manifest check.
type UpdateStatus int

const (
	// StatusUnchecked means no check has completed yet.
	StatusUnchecked UpdateStatus = iota
	// StatusUpToDate means the running version is the latest or newer.
	StatusUpToDate
	// StatusUpdateAvailable means the manifest publishes a newer version.
	StatusUpdateAvailable
	// StatusIncompatible means the manifest was fetched but is unusable.
	StatusIncompatible
	// StatusOffline means the manifest could not be fetched.
	StatusOffline
)

// String returns a human-readable string for the update status.
func (s UpdateStatus) String() string {
	switch s {
	case StatusUnchecked:
		return "unchecked"
	case StatusUpToDate:
		return "up-to-date"
	case StatusUpdateAvailable:
		return "update-available"
	case StatusIncompatible:
		return "incompatible"
	case StatusOffline:
		return "offline"
	default:
		return "unknown"
	}
}

// UpdateInfo is the result of one check. A new value is produced for every
// check and replaces the previous one as a whole.
type UpdateInfo struct {
	ComponentID string
	Status      UpdateStatus
	// Err is set for StatusOffline and StatusIncompatible.
	Err error
	// LatestVersion is nil unless the manifest was resolved.
	LatestVersion Version
	ReleaseURL    string
	Dependencies  DependencySet
	CheckedAt     time.Time
}

// Resolved reports whether the manifest entry was read successfully.
func (i UpdateInfo) Resolved() bool {
	return i.Status == StatusUpToDate || i.Status == StatusUpdateAvailable
}

// UpdateNotice is raised once when a newer version than any seen before
// becomes available for a component.
type UpdateNotice struct {
	ComponentID   string
	DisplayName   string
	LatestVersion Version
	ReleaseURL    string
}
