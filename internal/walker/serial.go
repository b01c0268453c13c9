package walker

import (
	"context"

	"golang.org/x/sys/unix"

	"github.com/dl/globwalk/internal/planner"
)

// serialWalker evaluates one plan at a time with a single goroutine, in
// deterministic depth-first, lexical-per-directory order.
type serialWalker struct {
	opts  Options
	emit  func(Candidate)
	onErr func(path string, err error)
	ctx   context.Context
}

func (w *serialWalker) run(p *planner.Plan) {
	var layers []ignoreLayer
	if w.opts.RespectGitignore {
		layers = []ignoreLayer{loadIgnoreLayer(p.Root)}
	}
	w.descend(p, p.Root, "", initialPositions(p), 0, layers)
}

func (w *serialWalker) descend(p *planner.Plan, dirPath, rel string, positions []int, depth int, ignores []ignoreLayer) {
	select {
	case <-w.ctx.Done():
		return
	default:
	}

	if isTerminal(p.Matchers, positions) && rel != "" {
		w.emit(Candidate{Path: rel, Depth: depth, IsDir: true})
	}
	if p.MaxDepth >= 0 && depth > p.MaxDepth {
		return
	}

	entries, err := readDirSorted(dirPath)
	if err != nil {
		w.onErr(dirPath, err)
		return
	}

	for _, entry := range entries {
		fullPath := joinPath(dirPath, entry.Name)
		relPath := joinPath(rel, entry.Name)

		isDir := entry.Type == DT_DIR
		if entry.Type == DT_LNK && w.opts.FollowSymlinks {
			if st, err := statFollow(fullPath); err == nil {
				isDir = st.Mode&unix.S_IFMT == unix.S_IFDIR
			}
		}
		if entry.Type == DT_UNKNOWN {
			if st, err := statFollow(fullPath); err == nil {
				isDir = st.Mode&unix.S_IFMT == unix.S_IFDIR
			}
		}

		if isDir && skipDir(entry.Name) {
			continue
		}
		if ignores != nil && isIgnoredByLayers(ignores, fullPath, isDir) {
			continue
		}

		next, matched := step(p.Matchers, positions, entry.Name, isDir, w.opts)
		if matched && (entry.Type != DT_LNK || w.opts.FollowSymlinks || !isDir) {
			w.emit(Candidate{Path: relPath, Depth: depth + 1, IsDir: isDir, Type: entry.Type})
		}
		if isDir && len(next) > 0 {
			var childIgnores []ignoreLayer
			if w.opts.RespectGitignore {
				childIgnores = make([]ignoreLayer, len(ignores)+1)
				copy(childIgnores, ignores)
				childIgnores[len(ignores)] = loadIgnoreLayer(fullPath)
			}
			w.descend(p, fullPath, relPath, next, depth+1, childIgnores)
		}
	}
}
