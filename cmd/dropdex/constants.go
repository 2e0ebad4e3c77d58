package main

// Default limits for CLI commands.
const (
	DefaultSuggestLimit      = 3
	DefaultSnapshotListLimit = 20
	DefaultPreviewRows       = 20
)

// Valid output formats.
var (
	validFormats  = []string{"table", "json", "csv", "markdown"}
	exportFormats = []string{"json", "csv", "markdown"}
)
