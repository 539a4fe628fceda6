// Package version records the tool version stamped into generated file
// banners and findings report headers.
package version

// Current is the version of this tool.
const Current = "1.0.0"
