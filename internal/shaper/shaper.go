// Package shaper implements the ResultShaper: turning the raw, possibly
// duplicate, possibly out-of-order Candidates several compiled patterns
// produced into the final result set a caller sees — deduplicated,
// ignore-filtered, and formatted per OptionsModel.
package shaper

import (
	"path"
	"strings"
	"sync"

	"golang.org/x/exp/slices"

	"github.com/dl/globwalk/internal/options"
	"github.com/dl/globwalk/internal/walker"
)

// Entry is one shaped result ready to hand back to a caller. Basename
// and FullPath are only filled in when WithFileTypes is set.
type Entry struct {
	Path     string
	IsDir    bool
	Type     uint8
	Basename string
	FullPath string
}

// IgnoreFunc reports whether path (relative, '/'-separated) should be
// dropped from the result set. Whether descendants of an ignored
// directory are dropped too is up to the function; NegationIgnore
// decides it with its includeChildren flag.
type IgnoreFunc func(relPath string, isDir bool) (ignored bool)

// Shaper accumulates Candidates from one or more plans and produces the
// final, deduplicated Entry set.
type Shaper struct {
	opts   options.Options
	ignore IgnoreFunc

	// root is the merged pattern root every incoming Candidate.Path is
	// relative to; it is itself relative (e.g. "sub", ".") and is used to
	// reconstruct a cwd-relative path, never an absolute one.
	root string

	// absBase is the real filesystem directory root is relative to
	// (typically the process's working directory), used only to build
	// Absolute-mode paths. It must itself be absolute.
	absBase string

	// mu guards seen/entries: Add is called concurrently by every
	// worker goroutine when a walk runs with Options.Parallel, and the
	// ignore closure itself may mutate shared state (NegationIgnore's
	// ignoredDirs set), so the whole method body is serialized rather
	// than just the map/slice writes.
	mu      sync.Mutex
	seen    map[string]struct{}
	entries []Entry
}

// New creates a Shaper for the given merged pattern root (every
// Candidate.Path it receives is relative to root) and the absolute
// filesystem directory root is relative to.
func New(root, absBase string, opts options.Options, ignore IgnoreFunc) *Shaper {
	return &Shaper{
		opts:    opts,
		ignore:  ignore,
		root:    root,
		absBase: absBase,
		seen:    make(map[string]struct{}),
	}
}

// Add folds one walker Candidate into the result set, applying the
// ignore policy, dedup-by-union semantics, and maxDepth bound. Safe to
// call concurrently from several walker workers.
func (s *Shaper) Add(c walker.Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.opts.MaxDepth >= 0 && c.Depth > s.opts.MaxDepth {
		return
	}
	if s.ignore != nil && s.ignore(c.Path, c.IsDir) {
		return
	}
	if _, dup := s.seen[c.Path]; dup {
		return
	}
	s.seen[c.Path] = struct{}{}
	s.entries = append(s.entries, Entry{Path: c.Path, IsDir: c.IsDir, Type: c.Type})
}

// Finish applies formatting (Absolute and Mark; no "./" dot-relative
// prefix is ever added) and returns the
// entries in deterministic sorted order, deduplicated a second time by
// formatted path in case formatting collapsed two distinct relative
// paths onto the same string (it never should, but CompactFunc after
// SortFunc is the cheap way to make that an invariant rather than an
// assumption).
func (s *Shaper) Finish() []Entry {
	s.mu.Lock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	s.mu.Unlock()

	for i := range out {
		s.format(&out[i])
	}
	slices.SortFunc(out, func(a, b Entry) int { return strings.Compare(a.Path, b.Path) })
	out = slices.CompactFunc(out, func(a, b Entry) bool { return a.Path == b.Path })
	return out
}

// format rewrites e.Path in place according to Absolute/Mark, and, when
// WithFileTypes is set, fills in the metadata-record fields: Basename
// (the raw path's last component, independent of display mode) and
// FullPath (always the real absolute path, even when Absolute is unset —
// WithFileTypes and Absolute can't both be set, see options.Validate,
// so this is the only way a caller in metadata mode learns the absolute
// location at all).
func (s *Shaper) format(e *Entry) {
	if s.opts.WithFileTypes {
		e.Basename = path.Base(e.Path)
		full := path.Join(s.absBase, s.root, e.Path)
		if !strings.HasPrefix(full, "/") {
			full = "/" + full
		}
		e.FullPath = full
	}

	p := e.Path
	if s.opts.Absolute {
		p = path.Join(s.absBase, s.root, p)
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
	} else if s.root != "." && s.root != "" {
		p = path.Join(s.root, p)
	}
	if s.opts.Mark && e.IsDir && !strings.HasSuffix(p, "/") {
		p += "/"
	}
	e.Path = p
}

// NegationIgnore builds an IgnoreFunc around matches, a predicate that
// reports whether a path hits any ignore or negation pattern. A directory
// it matches is remembered; includeChildren controls whether such a
// directory also hides the paths beneath it that are added later.
func NegationIgnore(matches func(relPath string, isDir bool) bool, includeChildren bool) IgnoreFunc {
	ignoredDirs := make(map[string]struct{})
	return func(relPath string, isDir bool) bool {
		for dir := range ignoredDirs {
			if !includeChildren && strings.HasPrefix(relPath, dir+"/") {
				return true
			}
		}
		if matches(relPath, isDir) {
			if isDir {
				ignoredDirs[relPath] = struct{}{}
			}
			return true
		}
		return false
	}
}
