package controllers

// RenderProgress exports renderProgress for testing.
var RenderProgress = renderProgress //nolint:gochecknoglobals // test export
