// Package planner turns a CompiledPattern into a WalkPlan: the physical
// directory to start from, how deep the walk may go, and the per-depth
// matchers the walker consults to prune subtrees before descending into
// them. Planning happens once per pattern, at walk start, so the walker
// itself never re-derives this from the pattern string.
package planner

import (
	"strings"

	"github.com/dl/globwalk/internal/compiler"
	"github.com/dl/globwalk/internal/lexer"
)

// Plan is the result of planning one CompiledPattern.
type Plan struct {
	Pattern *compiler.CompiledPattern

	// Root is the directory the walker should open first: the longest
	// run of leading literal segments in the pattern, so a pattern like
	// "src/pkg/**/*.go" starts the walk at "src/pkg" instead of ".".
	Root string

	// RootIsFile is true when the whole pattern is Static: Root is
	// itself the candidate path, resolved by exactly one stat and no
	// directory read. The walker skips such plans; the caller does the
	// stat.
	RootIsFile bool

	// Matchers are the pattern's segments from the first non-literal
	// segment onward; Matchers[0] applies at depth PrefixDepth relative
	// to the walk root passed by the caller, Matchers[1] at the next
	// depth, and so on. A trailing Globstar matcher means any depth at
	// or beyond its position may terminate the match.
	Matchers []compiler.SegmentMatcher

	// PrefixDepth is how many leading literal segments were folded into
	// Root and should not be matched against again.
	PrefixDepth int

	// MaxDepth bounds how many directory levels beneath Root the walker
	// will descend, measuring from Root. -1 means unbounded (a "**"
	// segment anywhere in the tail, or the Regex classification, leaves
	// it unbounded).
	MaxDepth int
}

// Plan derives a WalkPlan from a single compiled pattern.
func Plan(cp *compiler.CompiledPattern) *Plan {
	if cp.Classification == compiler.Static {
		root := cp.LiteralPath
		root = strings.TrimPrefix(root, "/")
		if root == "" {
			root = "."
		}
		return &Plan{
			Pattern:    cp,
			Root:       root,
			RootIsFile: true,
			MaxDepth:   0,
		}
	}

	prefixDepth, root := literalPrefix(cp.Segments)

	if cp.Classification == compiler.Regex {
		// A Regex tail can span extglob groups that no SegmentMatcher can
		// evaluate (matchTokens rejects KindExtGroup outright), so the
		// walker can't prune by segment here. Instead it descends
		// everything beneath root via a single open-ended globstar
		// matcher, and the caller re-tests each candidate's full path
		// against cp.TailRegex/TailPCRE through compiler.MatchPath.
		return &Plan{
			Pattern:     cp,
			Root:        root,
			Matchers:    []compiler.SegmentMatcher{{IsGlobstar: true}},
			PrefixDepth: prefixDepth,
			MaxDepth:    -1,
		}
	}

	tail := cp.Segments[prefixDepth:]

	maxDepth := boundedDepth(tail)

	return &Plan{
		Pattern:     cp,
		Root:        root,
		Matchers:    tail,
		PrefixDepth: prefixDepth,
		MaxDepth:    maxDepth,
	}
}

// literalPrefix returns how many leading segments are pure-literal
// (Static-equivalent at the segment level) and the directory path they
// form, so the walker can open that subdirectory directly instead of
// starting from ".".
func literalPrefix(segments []compiler.SegmentMatcher) (depth int, root string) {
	var parts []string
	for _, seg := range segments {
		if seg.IsGlobstar || len(seg.Tokens) != 1 || seg.Tokens[0].Kind != lexer.KindLiteral {
			break
		}
		parts = append(parts, seg.Tokens[0].Literal)
		depth++
	}
	if len(parts) == 0 {
		return 0, "."
	}
	return depth, strings.Join(parts, "/")
}

// boundedDepth returns the maximum number of directory levels beneath
// root the walker may need to descend to satisfy tail, or -1 if a
// globstar or regex tail leaves it unbounded.
func boundedDepth(tail []compiler.SegmentMatcher) int {
	for _, seg := range tail {
		if seg.IsGlobstar {
			return -1
		}
	}
	return len(tail)
}

// MergeRoots computes the walk root to use when evaluating several
// patterns in one traversal: the longest common literal directory
// prefix shared by every plan's Root, falling back to "." when no
// common prefix exists or any plan needs the whole tree.
func MergeRoots(plans []*Plan) string {
	if len(plans) == 0 {
		return "."
	}
	common := strings.Split(strings.TrimPrefix(plans[0].Root, "/"), "/")
	for _, p := range plans[1:] {
		parts := strings.Split(strings.TrimPrefix(p.Root, "/"), "/")
		common = commonPrefix(common, parts)
		if len(common) == 0 {
			return "."
		}
	}
	joined := strings.Join(common, "/")
	if joined == "" {
		return "."
	}
	return joined
}

func commonPrefix(a, b []string) []string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}
