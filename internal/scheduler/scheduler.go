// Package scheduler resolves per-path metadata for a stream of walker
// Candidates using a fixed worker pool. Neither Walk nor the CLI calls
// it. Results carry sequence numbers so output.OrderedWriter can write
// them in the order the workers received the candidates.
package scheduler

import (
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"github.com/dl/globwalk/internal/output"
	"github.com/dl/globwalk/internal/walker"
)

// Scheduler manages a pool of workers that stat candidates concurrently.
type Scheduler struct {
	workers int
}

// New creates a Scheduler with the given number of workers. If workers
// is 0, it defaults to NumCPU * 2, matching the I/O-bound (not
// CPU-bound) nature of stat(2) calls.
func New(workers int) *Scheduler {
	if workers <= 0 {
		workers = runtime.NumCPU() * 2
	}
	return &Scheduler{workers: workers}
}

// Run consumes candidates and emits one output.Result per candidate. A
// candidate that already carries a dirent type passes through unchanged;
// for one with Type 0 (DT_UNKNOWN) the worker stats the path and sets
// IsDir from the result, leaving Type at 0.
func (s *Scheduler) Run(candidates <-chan walker.Candidate) <-chan output.Result {
	resultCh := make(chan output.Result, s.workers*2)
	var seq atomic.Int64

	var wg sync.WaitGroup
	for range s.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range candidates {
				seqNum := int(seq.Add(1))
				result := s.resolve(c)
				result.SeqNum = seqNum
				resultCh <- result
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	return resultCh
}

func (s *Scheduler) resolve(c walker.Candidate) output.Result {
	result := output.Result{Path: c.Path, IsDir: c.IsDir, Type: c.Type}
	if c.Type != 0 {
		return result
	}
	var st unix.Stat_t
	if err := unix.Stat(c.Path, &st); err != nil {
		result.Err = err
		return result
	}
	result.IsDir = st.Mode&unix.S_IFMT == unix.S_IFDIR
	return result
}
