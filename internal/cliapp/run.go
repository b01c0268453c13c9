package cliapp

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dl/globwalk"
	"github.com/dl/globwalk/internal/output"
	"github.com/dl/globwalk/internal/uring"
	"github.com/dl/globwalk/internal/uringstat"
)

// Run executes the configured walk and renders results to stdout.
// Returns an exit code: 0 = at least one match, 1 = no matches,
// 2 = error.
func Run(cfg Config) int {
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "globls: %v\n", err)
		return 2
	}

	opts := globwalk.DefaultOptions()
	opts.CaseSensitive = cfg.CaseSensitive
	opts.Dot = cfg.Dot
	opts.MatchBase = cfg.MatchBase
	opts.NoBrace = cfg.NoBrace
	opts.NoExt = cfg.NoExt
	opts.NoGlobstar = cfg.NoGlobstar
	opts.Absolute = cfg.Absolute
	opts.Mark = cfg.Mark
	opts.WithFileTypes = cfg.WithFileTypes
	opts.IncludeChildren = cfg.IncludeChildren
	opts.RespectGitignore = cfg.RespectGitignore
	opts.FollowSymlinks = cfg.FollowSymlinks
	opts.Parallel = cfg.Parallel
	opts.MaxDepth = cfg.MaxDepth
	opts.Ignore = cfg.Ignore
	opts.EscapeEnabled = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := globwalk.Walk(ctx, cfg.Patterns, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "globls: %v\n", err)
		return 2
	}

	styles := output.NoStyles()
	useColor := cfg.Color == "always"
	if cfg.Color == "auto" || cfg.Color == "" {
		useColor = output.StdoutIsTerminal()
	}
	if useColor {
		styles = output.NewStyles()
	}

	var sizes map[string]uint64
	if cfg.Stat && len(results) > 0 {
		sizes = resolveSizes(results)
	}

	var formatter output.Formatter
	if cfg.JSONOutput {
		formatter = output.NewJSONFormatter()
	} else {
		formatter = output.NewTextFormatter(styles, useColor)
	}

	w := output.NewWriter()
	var buf []byte
	for _, r := range results {
		if sizes != nil {
			fmt.Fprintf(os.Stdout, "%d\t%s\n", sizes[r.Path], r.Path)
			continue
		}
		res := output.Result{Path: r.Path, IsDir: r.IsDir, Type: r.Type}
		if cfg.WithFileTypes {
			res.Basename = r.Basename
			res.FullPath = r.FullPath
			res.IsFile = r.IsFile
			res.IsSymlink = r.IsSymlink
		}
		buf = formatter.Format(buf[:0], res)
		if err := w.Write(buf); err != nil {
			fmt.Fprintf(os.Stderr, "globls: write: %v\n", err)
			return 2
		}
	}

	if len(results) == 0 {
		return 1
	}
	return 0
}

// resolveSizes batches every result's path through io_uring statx calls
// instead of issuing one blocking stat(2) per match. A path whose statx
// fails is printed with size 0. If the ring cannot be created or the
// batch fails, it returns nil and Run prints the results without sizes.
func resolveSizes(results []globwalk.Result) map[string]uint64 {
	ring, err := uring.NewRing(128)
	if err != nil {
		return nil
	}
	defer ring.Close()

	paths := make([]string, len(results))
	for i, r := range results {
		paths[i] = r.Path
	}
	meta, err := uringstat.Batch(paths, ring)
	if err != nil {
		return nil
	}
	out := make(map[string]uint64, len(meta))
	for _, m := range meta {
		if m.Err == nil {
			out[m.Path] = m.Size
		}
	}
	return out
}
