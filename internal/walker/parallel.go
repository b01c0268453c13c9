package walker

import (
	"context"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/dl/globwalk/internal/planner"
)

// walkItem is one directory queued for processing by a worker. Its plan
// and matcher-position set travel with it since several plans, and
// several still-live globstar branches of one plan, may be walking the
// same physical tree concurrently.
type walkItem struct {
	plan      *planner.Plan
	dir       string
	rel       string
	positions []int
	depth     int
	ignores   []ignoreLayer
}

// parallelWalker coordinates concurrent BFS directory traversal across
// every plan given to one Walk call. Emission order is therefore not the
// same as serialWalker's, but the resulting Candidate set is identical
// the resulting set is still well-defined even though its order isn't.
type parallelWalker struct {
	opts  Options
	emit  func(Candidate)
	onErr func(path string, err error)
	ctx   context.Context

	mu      sync.Mutex
	queue   []walkItem
	pending int
	cond    *sync.Cond
	done    bool
}

func (pw *parallelWalker) enqueue(item walkItem) {
	pw.mu.Lock()
	pw.queue = append(pw.queue, item)
	pw.pending++
	pw.mu.Unlock()
	pw.cond.Signal()
}

func (pw *parallelWalker) dequeue() (walkItem, bool) {
	pw.mu.Lock()
	for len(pw.queue) == 0 && !pw.done {
		pw.cond.Wait()
	}
	if pw.done && len(pw.queue) == 0 {
		pw.mu.Unlock()
		return walkItem{}, false
	}
	item := pw.queue[0]
	pw.queue = pw.queue[1:]
	pw.mu.Unlock()
	return item, true
}

func (pw *parallelWalker) finish() {
	pw.mu.Lock()
	pw.pending--
	if pw.pending == 0 && len(pw.queue) == 0 {
		pw.done = true
		pw.cond.Broadcast()
	}
	pw.mu.Unlock()
}

func (pw *parallelWalker) worker() {
	for {
		select {
		case <-pw.ctx.Done():
			pw.drain()
			return
		default:
		}
		item, ok := pw.dequeue()
		if !ok {
			return
		}
		pw.processDir(item)
		pw.finish()
	}
}

// drain discards remaining queued work after cancellation so finish()'s
// bookkeeping still converges and worker goroutines exit.
func (pw *parallelWalker) drain() {
	for {
		pw.mu.Lock()
		if len(pw.queue) == 0 {
			pw.done = true
			pw.cond.Broadcast()
			pw.mu.Unlock()
			return
		}
		pw.queue = pw.queue[1:]
		pw.mu.Unlock()
		pw.finish()
	}
}

func (pw *parallelWalker) processDir(item walkItem) {
	if isTerminal(item.plan.Matchers, item.positions) && item.rel != "" {
		pw.emit(Candidate{Path: item.rel, Depth: item.depth, IsDir: true})
	}
	if item.plan.MaxDepth >= 0 && item.depth > item.plan.MaxDepth {
		return
	}

	entries, err := readDirSorted(item.dir)
	if err != nil {
		pw.onErr(item.dir, err)
		return
	}

	var subdirs []walkItem
	for _, entry := range entries {
		fullPath := joinPath(item.dir, entry.Name)
		relPath := joinPath(item.rel, entry.Name)

		isDir := entry.Type == DT_DIR
		if (entry.Type == DT_LNK && pw.opts.FollowSymlinks) || entry.Type == DT_UNKNOWN {
			if st, err := statFollow(fullPath); err == nil {
				isDir = st.Mode&unix.S_IFMT == unix.S_IFDIR
			}
		}

		if isDir && skipDir(entry.Name) {
			continue
		}
		if item.ignores != nil && isIgnoredByLayers(item.ignores, fullPath, isDir) {
			continue
		}

		next, matched := step(item.plan.Matchers, item.positions, entry.Name, isDir, pw.opts)
		if matched && (entry.Type != DT_LNK || pw.opts.FollowSymlinks || !isDir) {
			pw.emit(Candidate{Path: relPath, Depth: item.depth + 1, IsDir: isDir, Type: entry.Type})
		}
		if isDir && len(next) > 0 {
			var childIgnores []ignoreLayer
			if pw.opts.RespectGitignore {
				childIgnores = make([]ignoreLayer, len(item.ignores)+1)
				copy(childIgnores, item.ignores)
				childIgnores[len(item.ignores)] = loadIgnoreLayer(fullPath)
			}
			subdirs = append(subdirs, walkItem{
				plan: item.plan, dir: fullPath, rel: relPath,
				positions: next, depth: item.depth + 1, ignores: childIgnores,
			})
		}
	}

	for _, sub := range subdirs {
		pw.enqueue(sub)
	}
}
