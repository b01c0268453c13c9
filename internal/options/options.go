// Package options normalizes and validates the public options surface
// that every public operation (Walk, Compile, ...) accepts: reject
// contradictory combinations synchronously, before any traversal begins.
package options

import "fmt"

// Options is the normalized form of every knob a caller may set on a
// glob operation.
type Options struct {
	CaseSensitive    bool
	Dot              bool
	MatchBase        bool
	NoBrace          bool
	NoExt            bool
	NoGlobstar       bool
	NoCase           bool
	Absolute         bool
	Mark             bool
	WithFileTypes    bool
	IncludeChildren  bool // includeChildMatches
	RespectGitignore bool
	FollowSymlinks   bool
	Parallel         bool
	MaxDepth         int // -1 means unbounded
	Ignore           []string
	ExtraSeparator   rune
	EscapeEnabled    bool
}

// Default returns the option set with the defaults the public API
// promises: case-sensitive matching, escape enabled, depth unbounded,
// separator '/' only.
func Default() Options {
	return Options{
		CaseSensitive: true,
		EscapeEnabled: true,
		MaxDepth:      -1,
	}
}

// ConfigurationError reports an option combination rejected at
// normalization time, before any directory is touched.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid options: %s", e.Reason)
}

// Validate rejects option combinations that cannot be jointly satisfied.
func (o *Options) Validate() error {
	if o.WithFileTypes && o.Absolute {
		return &ConfigurationError{Reason: "withFileTypes and absolute cannot be combined: file-type entries are always root-relative"}
	}
	if o.MatchBase && o.NoGlobstar {
		return &ConfigurationError{Reason: "matchBase cannot be combined with noglobstar"}
	}
	if o.MaxDepth < -1 {
		return &ConfigurationError{Reason: "maxDepth must be -1 (unbounded) or >= 0"}
	}
	if o.IncludeChildren && len(o.Ignore) == 0 {
		return &ConfigurationError{Reason: "includeChildMatches has no effect without an ignore set"}
	}
	return nil
}
