// Package globwalk is a drop-in, high-performance engine for evaluating
// shell-style glob patterns against a directory tree: brace expansion,
// extglob groups, globstar, POSIX character classes, and gitignore-aware
// filtering, all without shelling out and without building more regex
// machinery than a pattern actually needs.
package globwalk

import (
	"context"
	"iter"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/dl/globwalk/internal/brace"
	"github.com/dl/globwalk/internal/compiler"
	"github.com/dl/globwalk/internal/errpolicy"
	"github.com/dl/globwalk/internal/options"
	"github.com/dl/globwalk/internal/planner"
	"github.com/dl/globwalk/internal/shaper"
	"github.com/dl/globwalk/internal/walker"
)

// Options is the public configuration surface for every operation in
// this package. DefaultOptions gives case-sensitive matching, dotfiles
// excluded, unbounded depth and serial traversal. The zero value differs:
// CaseSensitive and EscapeEnabled are false and MaxDepth is 0, which
// drops every match found by walking a directory.
type Options = options.Options

// DefaultOptions returns the documented default option set.
func DefaultOptions() Options { return options.Default() }

// Result is one matched path, shaped according to Options (absolute,
// mark, etc.) and ready to hand to a caller. Basename, FullPath, IsFile
// and IsSymlink are only populated when Options.WithFileTypes is set;
// otherwise Path alone is the result and those fields stay zero.
type Result struct {
	Path  string
	IsDir bool
	Type  uint8

	Basename  string
	FullPath  string
	IsFile    bool
	IsSymlink bool
}

// Pattern is a compiled, reusable glob pattern produced by Compile.
type Pattern struct {
	compiled *compiler.CompiledPattern
	plan     *planner.Plan
}

// Compile lowers a single pattern (possibly itself containing brace
// groups, which are expanded into one Pattern per alternative) into its
// cheapest-correct matching strategy. Compile never touches the
// filesystem.
func Compile(pattern string, opts Options) ([]*Pattern, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	raw, err := brace.Expand(pattern, opts.NoBrace)
	if err != nil {
		return nil, err
	}
	out := make([]*Pattern, 0, len(raw))
	for _, p := range raw {
		cp, err := compiler.Compile(p, compiler.Options{
			CaseSensitive:  opts.CaseSensitive,
			AllowDot:       opts.Dot,
			NoExt:          opts.NoExt,
			NoGlobstar:     opts.NoGlobstar,
			MatchBase:      opts.MatchBase,
			Escape:         opts.EscapeEnabled,
			ExtraSeparator: opts.ExtraSeparator,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, &Pattern{compiled: cp, plan: planner.Plan(cp)})
	}
	return out, nil
}

// HasMagic reports whether pattern contains any atom that changes glob
// interpretation, without compiling anything.
func HasMagic(pattern string, opts Options) bool {
	return compiler.HasMagic(pattern, compiler.Options{NoExt: opts.NoExt, Escape: opts.EscapeEnabled})
}

// Escape returns pattern with every magic character preceded by a
// backslash, so that compiling the result is guaranteed to match only
// the literal string pattern.
func Escape(pattern string) string {
	out := make([]byte, 0, len(pattern)*2)
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if compiler.IsMagicByte(c) {
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	return string(out)
}

// Unescape reverses Escape: every backslash-prefixed character becomes
// the bare character, and unescape(escape(s)) == s for every s.
func Unescape(pattern string) string {
	out := make([]byte, 0, len(pattern))
	for i := 0; i < len(pattern); i++ {
		if pattern[i] == '\\' && i+1 < len(pattern) {
			i++
			out = append(out, pattern[i])
			continue
		}
		out = append(out, pattern[i])
	}
	return string(out)
}

// Walk compiles patterns and evaluates them synchronously, returning the
// complete shaped result set. A pattern beginning with "!" (after brace
// expansion) is not walked itself: it is a post-accumulation filter that
// drops any other pattern's match it also matches, the same as an
// Options.Ignore entry.
func Walk(ctx context.Context, patterns []string, opts Options) ([]Result, error) {
	all, err := compileAll(patterns, opts)
	if err != nil {
		return nil, err
	}

	var positive, negating []*Pattern
	for _, p := range all {
		if p.compiled.Negated {
			negating = append(negating, p)
		} else {
			positive = append(positive, p)
		}
	}
	root := mergeRoots(positive)

	reporter := errpolicy.NewReporter(log.Default())
	var ignorePatterns []*Pattern
	if len(opts.Ignore) > 0 {
		ignorePatterns, err = compileAll(opts.Ignore, opts)
		if err != nil {
			return nil, err
		}
	}
	filterPatterns := append(append([]*Pattern{}, ignorePatterns...), negating...)

	absBase, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	sh := shaper.New(root, absBase, opts, shaper.NegationIgnore(func(relPath string, isDir bool) bool {
		for _, fp := range filterPatterns {
			if matchesPattern(fp, relPath, isDir, opts) {
				return true
			}
		}
		return false
	}, opts.IncludeChildren))

	walkOpts := walker.Options{
		FollowSymlinks:   opts.FollowSymlinks,
		RespectGitignore: opts.RespectGitignore,
		Dot:              opts.Dot,
		Parallel:         opts.Parallel,
		CaseSensitive:    opts.CaseSensitive,
	}
	for _, p := range positive {
		if ctx.Err() != nil {
			break
		}
		if p.compiled.Classification == compiler.Static {
			resolveStatic(ctx, p, root, sh, reporter)
			continue
		}
		// Candidates come back relative to this plan's own Root, which may
		// sit deeper than the shared root every other pattern's Candidate
		// is reported against (e.g. "src/pkg" vs. the merged "src"); rejoin
		// the portion MergeRoots trimmed off before handing it to the
		// shaper.
		prefix := ""
		if p.plan.Root != root {
			prefix = p.plan.Root
			if root != "." {
				prefix = strings.TrimPrefix(p.plan.Root, root+"/")
			}
		}
		isRegex := p.compiled.Classification == compiler.Regex
		walker.Walk(ctx, []*planner.Plan{p.plan}, walkOpts, func(c walker.Candidate) {
			// A Regex plan's Matchers are a single catch-all globstar (see
			// planner.Plan): every entry beneath Root comes through here as
			// a structural "match", and the compiled tail expression is the
			// only thing that actually decides membership.
			if isRegex && !matchesRegexTail(p, c.Path) {
				return
			}
			c.Path = joinRel(prefix, c.Path)
			sh.Add(c)
		}, func(path string, err error) {
			if path == p.plan.Root {
				reporter.AbsorbRoot(path, err)
				return
			}
			reporter.Absorb(path, err)
		})
	}

	if err := ctx.Err(); err != nil {
		return nil, &errpolicy.CancellationError{Cause: err}
	}

	entries := sh.Finish()
	results := make([]Result, len(entries))
	for i, e := range entries {
		r := Result{Path: e.Path, IsDir: e.IsDir, Type: e.Type}
		if opts.WithFileTypes {
			r.Basename = e.Basename
			r.FullPath = e.FullPath
			r.IsFile = e.Type == walker.DT_REG
			r.IsSymlink = e.Type == walker.DT_LNK
		}
		results[i] = r
	}
	return results, nil
}

// WalkAsync runs Walk in a goroutine, streaming results as they are
// shaped. The error channel receives at most one error and is then
// closed, matching the result channel's close.
func WalkAsync(ctx context.Context, patterns []string, opts Options) (<-chan Result, <-chan error) {
	resCh := make(chan Result, 256)
	errCh := make(chan error, 1)
	go func() {
		defer close(resCh)
		defer close(errCh)
		results, err := Walk(ctx, patterns, opts)
		if err != nil {
			errCh <- err
			return
		}
		for _, r := range results {
			select {
			case resCh <- r:
			case <-ctx.Done():
				return
			}
		}
	}()
	return resCh, errCh
}

// Stream evaluates patterns and invokes fn for each result as soon as
// the shaper finalizes it, stopping early if fn returns an error.
func Stream(ctx context.Context, patterns []string, opts Options, fn func(Result) error) error {
	results, err := Walk(ctx, patterns, opts)
	if err != nil {
		return err
	}
	for _, r := range results {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

// Iterate returns a Go range-over-func iterator over the matched
// results, for callers who want "for r := range globwalk.Iterate(...)"
// without pre-building a callback.
func Iterate(ctx context.Context, patterns []string, opts Options) (iter.Seq[Result], error) {
	results, err := Walk(ctx, patterns, opts)
	if err != nil {
		return nil, err
	}
	return func(yield func(Result) bool) {
		for _, r := range results {
			if !yield(r) {
				return
			}
		}
	}, nil
}

func compileAll(patterns []string, opts Options) ([]*Pattern, error) {
	var all []*Pattern
	for _, raw := range patterns {
		compiled, err := Compile(raw, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, compiled...)
	}
	return all, nil
}

func mergeRoots(patterns []*Pattern) string {
	plans := make([]*planner.Plan, len(patterns))
	for i, p := range patterns {
		plans[i] = p.plan
	}
	return planner.MergeRoots(plans)
}

func resolveStatic(ctx context.Context, p *Pattern, root string, sh *shaper.Shaper, reporter *errpolicy.Reporter) {
	select {
	case <-ctx.Done():
		return
	default:
	}
	info, err := os.Stat(p.plan.Root)
	if err != nil {
		reporter.AbsorbRoot(p.plan.Root, err)
		return
	}
	rel := ""
	if p.plan.Root != root {
		rel = p.plan.Root
		if root != "." {
			rel = strings.TrimPrefix(p.plan.Root, root+"/")
		}
	}
	sh.Add(walker.Candidate{Path: rel, IsDir: info.IsDir()})
}

func matchesPattern(p *Pattern, relPath string, isDir bool, opts Options) bool {
	_ = isDir
	return compiler.MatchPath(p.compiled, relPath)
}

// matchesRegexTail re-tests a Regex-classified candidate's full path
// (its plan's literal root rejoined with its Root-relative walk path)
// against the pattern's compiled tail expression.
func matchesRegexTail(p *Pattern, relPath string) bool {
	full := relPath
	if p.plan.Root != "." && p.plan.Root != "" {
		if relPath == "" {
			full = p.plan.Root
		} else {
			full = p.plan.Root + "/" + relPath
		}
	}
	return compiler.MatchPath(p.compiled, full)
}

// joinRel joins a plan-root-relative prefix back onto a Candidate's own
// path, without introducing a spurious leading or doubled slash when
// either half is empty.
func joinRel(prefix, rel string) string {
	switch {
	case prefix == "":
		return rel
	case rel == "":
		return prefix
	default:
		return prefix + "/" + rel
	}
}
