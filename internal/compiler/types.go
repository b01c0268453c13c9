// Package compiler turns lexed, brace-expanded glob patterns into
// CompiledPattern values: a classification tag plus the matcher needed for
// that classification. Classification is computed once, at compile time,
// so the walker's hot loop never does virtual dispatch or regex work it
// doesn't need.
package compiler

import (
	"regexp"

	"go.elara.ws/pcre"

	"github.com/dl/globwalk/internal/lexer"
)

// Classification tags a CompiledPattern with the cheapest matching strategy
// that can correctly evaluate it.
type Classification int

const (
	// Static patterns contain no magic atoms at all; resolution is a
	// single stat of the literal path.
	Static Classification = iota
	// FastExtension is "*.ext" or "**/*.ext" with a literal extension.
	FastExtension
	// FastBasename is a single segment of literals, '*' and '?' only.
	FastBasename
	// Segmented patterns need per-segment structural matching but no
	// regex (no extglob groups). Character classes, including POSIX
	// names such as [[:digit:]], are matched here as well.
	Segmented
	// Regex patterns need a compiled regular expression for the
	// irregular tail: patterns containing extglob groups. A POSIX-class
	// character class alone does not lead to this classification.
	Regex
)

func (c Classification) String() string {
	switch c {
	case Static:
		return "static"
	case FastExtension:
		return "fast-extension"
	case FastBasename:
		return "fast-basename"
	case Segmented:
		return "segmented"
	case Regex:
		return "regex"
	default:
		return "unknown"
	}
}

// CompiledPattern is the immutable, reusable result of compiling one glob
// pattern.
type CompiledPattern struct {
	Raw            string
	Classification Classification
	Negated        bool
	Absolute       bool
	CaseSensitive  bool
	AllowDot       bool

	// Segments are the structural, per-directory-depth matchers. For
	// Static and FastExtension/FastBasename classifications this is
	// still populated (it doubles as the literal-prefix / basename
	// source) but the walker takes the fast path instead of calling
	// Segments[i].Match in a loop.
	Segments []SegmentMatcher

	// LiteralPath is set only for Static patterns: the full literal
	// path the pattern resolves to.
	LiteralPath string

	// Extension is set only for FastExtension: the literal suffix
	// (e.g. ".go") every matching basename must end with.
	Extension string
	// ExtensionGlobstar is true for "**/*.ext" (any depth), false for
	// "*.ext" (current directory only, or matchBase semantics).
	ExtensionGlobstar bool

	// TailRegex/TailPCRE: once a segment requires regex fallback, every
	// segment from that point on (inclusive) is matched as one compiled
	// expression against the remaining relative path. Exactly one of
	// TailRegex/TailPCRE is non-nil when Classification == Regex.
	TailStart int
	TailRegex *regexp.Regexp
	TailPCRE  *pcre.Regexp
}

// SegmentMatcher matches one path segment's tokens against a basename.
// Globstar segments are markers the walker interprets directly; Match is
// never called on them.
type SegmentMatcher struct {
	Tokens    []lexer.Token
	IsGlobstar bool
	// DotOK is true if this segment's literal text explicitly begins
	// with '.', so a leading dot in the candidate name is permitted
	// even when the dot option is false.
	DotOK bool
}

// Match reports whether name (a single path component, no separators)
// satisfies this segment's tokens.
func (s SegmentMatcher) Match(name string, caseSensitive bool) bool {
	return matchTokens(s.Tokens, name, caseSensitive)
}
