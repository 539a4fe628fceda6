// Package diag provides structured findings for the SVD processing pipeline.
//
// Every stage of the pipeline (parse, validate, plan, emit) surfaces problems
// as Finding values instead of free-text prints: a severity, a machine-readable
// kind, the path of the offending entity (Device/Peripheral/Register/Field),
// and a human-readable detail. Findings are delivered to a Reporter.
//
// # Basic Usage
//
// Callers configure reporting by providing a Reporter implementation:
//
//	// For development: findings on the console via slog
//	rep := diag.NewSlogReporter(slog.Default())
//
//	// For tooling: write a machine-readable report file
//	rep, _ := diag.NewFileReporter("findings.svdrep", version.Current)
//
//	// Both: use MultiReporter
//	rep := diag.NewMultiReporter(slogRep, fileRep)
//
//	// For tests: collect and assert
//	col := &diag.Collector{}
//
// # File Format
//
// Report files are a CBOR stream: one Header record followed by zero or more
// Finding records. Reader streams them back, optionally filtered.
package diag
