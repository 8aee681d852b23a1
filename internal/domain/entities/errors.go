package entities

import "errors"

var (
	// ErrOffline means the manifest could not be fetched at all.
	ErrOffline = errors.New("manifest unreachable")

	// ErrIncompatible means the manifest was fetched but cannot be used for
	// the running game version or channel.
	ErrIncompatible = errors.New("manifest incompatible")

	// ErrDownload wraps every failure of a file transfer.
	ErrDownload = errors.New("download failed")

	// ErrParse is returned by version schemes for malformed version strings.
	ErrParse = errors.New("invalid version")

	// ErrSealed is returned when a sealed dependency set builder is mutated.
	ErrSealed = errors.New("dependency set is sealed and read only")

	// ErrDuplicateRegistration is returned when a component ID is registered twice.
	ErrDuplicateRegistration = errors.New("updater already registered")

	// ErrNotFound is returned when a component ID has no registered updater.
	ErrNotFound = errors.New("updater not found")

	// ErrUpToDate is returned when a download is requested for a component
	// that is already at its latest version.
	ErrUpToDate = errors.New("component is up to date")
)
