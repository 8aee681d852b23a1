package commands

// FileNameFromURL exports fileNameFromURL for testing.
var FileNameFromURL = fileNameFromURL //nolint:gochecknoglobals // test export
