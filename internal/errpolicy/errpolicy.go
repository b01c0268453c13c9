// Package errpolicy defines the error taxonomy every public operation
// raises and how each kind is logged and surfaced, mirroring the layered
// error handling internal/cli used for search configuration: a
// synchronous ConfigurationError before work starts, and narrower
// per-operation error types once a walk is underway.
package errpolicy

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// ConfigurationError is returned synchronously, before any traversal
// begins, for an option combination or pattern the caller must fix.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string { return "configuration: " + e.Reason }

// CancellationError is returned when a walk stops because its context
// was cancelled or a configured signal fired.
type CancellationError struct {
	Cause error
}

func (e *CancellationError) Error() string { return fmt.Sprintf("walk cancelled: %v", e.Cause) }
func (e *CancellationError) Unwrap() error  { return e.Cause }

// WalkRootVariant distinguishes why a walk root could not be opened.
type WalkRootVariant int

const (
	RootNotFound WalkRootVariant = iota
	RootPermissionDenied
)

// WalkRootError describes a pattern's planned root directory that
// cannot be opened at all, so no part of that pattern can ever match.
// Reporter.AbsorbRoot builds and logs it; it does not reach the caller of
// the public API, which gets an empty result for that pattern.
type WalkRootError struct {
	Path    string
	Variant WalkRootVariant
	Cause   error
}

func (e *WalkRootError) Error() string {
	switch e.Variant {
	case RootPermissionDenied:
		return fmt.Sprintf("walk root %q: permission denied", e.Path)
	default:
		return fmt.Sprintf("walk root %q: not found", e.Path)
	}
}
func (e *WalkRootError) Unwrap() error { return e.Cause }

// TraversalError is an error encountered mid-walk on some subtree other
// than the root: a directory that disappeared, a permission-denied
// subdirectory, a broken symlink. It is always absorbed — logged and
// skipped — never surfaced to the caller, since one unreadable subtree
// should not fail an entire walk.
type TraversalError struct {
	Path  string
	Cause error
}

func (e *TraversalError) Error() string { return fmt.Sprintf("traversal %q: %v", e.Path, e.Cause) }
func (e *TraversalError) Unwrap() error  { return e.Cause }

// Reporter logs TraversalErrors under a per-walk trace id so multiple
// concurrent walks in one process can be told apart in logs, the way a
// request id threads through a server's structured logging.
type Reporter struct {
	TraceID string
	Logger  *log.Logger
}

// NewReporter creates a Reporter with a fresh trace id and a logger
// scoped to it.
func NewReporter(base *log.Logger) *Reporter {
	id := uuid.NewString()
	return &Reporter{
		TraceID: id,
		Logger:  base.With("trace_id", id),
	}
}

// Absorb logs a TraversalError and swallows it. It returns nothing, so
// the error never reaches the public API.
func (r *Reporter) Absorb(path string, cause error) {
	r.Logger.Warn("skipping unreadable path", "path", path, "error", cause)
}

// AbsorbRoot logs a WalkRootError for a pattern whose planned root could
// not be opened at all and returns it. Like Absorb, the error is
// swallowed here rather than returned to the caller: no part of that
// one pattern could ever match, but the other patterns in the same walk
// still run normally.
func (r *Reporter) AbsorbRoot(path string, cause error) *WalkRootError {
	variant := RootNotFound
	if os.IsPermission(cause) {
		variant = RootPermissionDenied
	}
	e := &WalkRootError{Path: path, Variant: variant, Cause: cause}
	r.Logger.Warn("walk root unavailable", "path", path, "error", e)
	return e
}
