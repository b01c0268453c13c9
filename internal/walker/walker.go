// Package walker implements the DirectoryWalker: it descends a directory
// tree using raw getdents64 reads, evaluating a plan's segment matchers
// against each entry's name and emitting Candidates for matches. It never
// reads file contents — only names, types and (optionally) stat metadata.
package walker

import (
	"context"
	"runtime"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/dl/globwalk/internal/compiler"
	"github.com/dl/globwalk/internal/planner"
)

// Candidate is one path the walker has matched against a plan's segments.
type Candidate struct {
	// Path is relative to the plan's Root.
	Path  string
	Depth int
	IsDir bool
	Type  uint8 // DT_* constant as read from getdents64; DT_UNKNOWN if the filesystem reported none (IsDir then comes from a stat) and for a directory emitted as a whole-path match
}

// Options configures traversal behavior shared by every plan in one walk.
type Options struct {
	FollowSymlinks   bool
	RespectGitignore bool
	Dot              bool // when true, names starting with '.' are eligible; when false, only where the segment itself starts with '.'
	Parallel         bool
	CaseSensitive    bool
}

// Walk evaluates plans against the directory tree rooted at each plan's
// own Root and streams Candidates (and any TraversalErrors it decides are
// worth surfacing) to the supplied callbacks. It returns when every plan
// has been fully evaluated or ctx is cancelled.
//
// Static plans never call into the directory-reading machinery at all:
// the caller is expected to check Plan.RootIsFile and stat directly.
func Walk(ctx context.Context, plans []*planner.Plan, opts Options, emit func(Candidate), onErr func(path string, err error)) {
	if len(plans) == 0 {
		return
	}

	if !opts.Parallel {
		w := &serialWalker{opts: opts, emit: emit, onErr: onErr, ctx: ctx}
		for _, p := range plans {
			if p.RootIsFile {
				continue
			}
			w.run(p)
		}
		return
	}

	pw := &parallelWalker{opts: opts, emit: emit, onErr: onErr, ctx: ctx}
	pw.cond = sync.NewCond(&pw.mu)
	for _, p := range plans {
		if p.RootIsFile {
			continue
		}
		var layers []ignoreLayer
		if opts.RespectGitignore {
			layers = []ignoreLayer{loadIgnoreLayer(p.Root)}
		}
		pw.enqueue(walkItem{plan: p, dir: p.Root, rel: "", positions: initialPositions(p), depth: 0, ignores: layers})
	}
	if pw.pending == 0 {
		return
	}

	workers := runtime.NumCPU()
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pw.worker()
		}()
	}
	wg.Wait()
}

// initialPositions is the matcher-position set a plan starts traversal in:
// just {0}, expanded for any leading globstars.
func initialPositions(p *planner.Plan) []int {
	return expandZeroWidth(p.Matchers, []int{0})
}

// expandZeroWidth computes the closure of positions under "a globstar
// matches zero path components": every position pointing at a globstar
// segment also makes position+1 (and its own closure) reachable without
// consuming an entry. This is the NFA-style epsilon-closure that lets the
// walker track "**" as a set of live matcher offsets instead of needing
// true backtracking across directory levels.
func expandZeroWidth(matchers []compiler.SegmentMatcher, positions []int) []int {
	seen := make(map[int]bool, len(positions)+2)
	var stack []int
	for _, p := range positions {
		stack = append(stack, p)
	}
	var out []int
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
		if p < len(matchers) && matchers[p].IsGlobstar {
			stack = append(stack, p+1)
		}
	}
	return out
}

// isTerminal reports whether positions contains len(matchers): the
// directory itself (not one of its entries) is a full match.
func isTerminal(matchers []compiler.SegmentMatcher, positions []int) bool {
	for _, p := range positions {
		if p == len(matchers) {
			return true
		}
	}
	return false
}

func dotAllowed(name string, opts Options, m *compiler.SegmentMatcher) bool {
	if opts.Dot {
		return true
	}
	if len(name) == 0 || name[0] != '.' {
		return true
	}
	return m != nil && m.DotOK
}

// step evaluates one directory entry against the live matcher positions,
// returning the next position set to use if the entry is a directory
// worth descending into, and whether the entry itself is a terminal
// match (a Candidate to emit).
func step(matchers []compiler.SegmentMatcher, positions []int, name string, isDir bool, opts Options) (next []int, matched bool) {
	seen := make(map[int]bool)
	for _, p := range positions {
		if p >= len(matchers) {
			continue
		}
		m := matchers[p]

		if m.IsGlobstar {
			// Trailing "**" matches any entry at or below this point.
			if p == len(matchers)-1 {
				matched = true
				if isDir {
					if !seen[p] {
						seen[p] = true
						next = append(next, p)
					}
				}
				continue
			}
			// Non-trailing "**": this entry is one of the components it
			// spans. Stay at p (globstar persists) if isDir; the
			// zero-width alternative (p+1) was already folded into
			// positions by expandZeroWidth before step was called, so
			// matching matchers[p+1] directly against this same name is
			// handled by that other position in the set, not here.
			if isDir && !dotAllowedName(name, opts) {
				continue
			}
			if isDir && !seen[p] {
				seen[p] = true
				next = append(next, p)
			}
			continue
		}

		if !dotAllowed(name, opts, &m) {
			continue
		}
		if !m.Match(name, opts.CaseSensitive) {
			continue
		}
		if p+1 == len(matchers) {
			matched = true
			continue
		}
		if isDir && !seen[p+1] {
			seen[p+1] = true
			next = append(next, p+1)
		}
	}
	if len(next) > 0 {
		next = expandZeroWidth(matchers, next)
	}
	return next, matched
}

func dotAllowedName(name string, opts Options) bool {
	if opts.Dot {
		return true
	}
	return len(name) == 0 || name[0] != '.'
}

func joinPath(dirPath, name string) string {
	if dirPath == "" {
		return name
	}
	needsSep := dirPath[len(dirPath)-1] != '/'
	n := len(dirPath) + len(name)
	if needsSep {
		n++
	}
	buf := make([]byte, n)
	copy(buf, dirPath)
	i := len(dirPath)
	if needsSep {
		buf[i] = '/'
		i++
	}
	copy(buf[i:], name)
	return unsafe.String(&buf[0], len(buf))
}

func skipDir(name string) bool {
	switch name {
	case ".git", ".svn", ".hg":
		return true
	}
	return false
}
