package model

import "fmt"

// DiagnosticKind names the non-fatal error taxonomy of the engine (§7).
// Fatal failures (BuildTimeout, BuilderFailure) are returned as errors
// instead and never appear here.
type DiagnosticKind string

const (
	// DiagnosticInputEmpty is recorded when an analysis run has no
	// DiffFiles or no DiffHunks. Not an error: the run still completes
	// with an empty group map.
	DiagnosticInputEmpty DiagnosticKind = "InputEmpty"

	// DiagnosticParseFailure is recorded when a single file's source
	// failed to parse. The file contributes no nodes; analysis continues.
	DiagnosticParseFailure DiagnosticKind = "ParseFailure"

	// DiagnosticInvalidIdentifier is recorded when a malformed composite
	// key is encountered during grouping. The hunk is skipped.
	DiagnosticInvalidIdentifier DiagnosticKind = "InvalidIdentifier"
)

// Diagnostic is a recoverable, non-fatal condition surfaced alongside a
// successful analysis result.
type Diagnostic struct {
	Kind DiagnosticKind

	// FilePath is set for file-scoped diagnostics (ParseFailure). Empty
	// otherwise.
	FilePath string

	// CompositeKey is set for hunk-scoped diagnostics (InvalidIdentifier).
	// Empty otherwise.
	CompositeKey string

	Message string
}

// String implements fmt.Stringer for log output.
func (d Diagnostic) String() string {
	switch {
	case d.FilePath != "":
		return fmt.Sprintf("%s: %s: %s", d.Kind, d.FilePath, d.Message)
	case d.CompositeKey != "":
		return fmt.Sprintf("%s: %s: %s", d.Kind, d.CompositeKey, d.Message)
	default:
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
}
