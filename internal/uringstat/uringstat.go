// Package uringstat batches statx(2) calls through io_uring so the CLI's
// --stat flag can resolve the sizes of a batch of result paths without
// one blocking syscall per path.
// It repurposes the io_uring ring for a different opcode
// (IORING_OP_STATX instead of openat+read): same submission/completion
// machinery, new workload.
package uringstat

import (
	"fmt"

	"github.com/dl/globwalk/internal/uring"
)

// Metadata is the subset of statx(2) output kept for one path: its mode
// bits and size, or the error its statx returned.
type Metadata struct {
	Path  string
	Mode  uint16
	Size  uint64
	Err   error
}

// Batch resolves metadata for every path in paths using a single ring,
// submitting all statx requests before reaping any completions so the
// kernel can service them concurrently. Results are returned in the same
// order as paths regardless of completion order.
func Batch(paths []string, ring *uring.Ring) ([]Metadata, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	if uint32(len(paths)) > ring.Entries() {
		out := make([]Metadata, 0, len(paths))
		for start := 0; start < len(paths); start += int(ring.Entries()) {
			end := min(start+int(ring.Entries()), len(paths))
			part, err := Batch(paths[start:end], ring)
			if err != nil {
				return nil, err
			}
			out = append(out, part...)
		}
		return out, nil
	}

	bufs := make([]uring.Statx, len(paths))
	cstrs := make([][]byte, len(paths))
	results := make([]Metadata, len(paths))

	for i, p := range paths {
		cstrs[i] = append([]byte(p), 0)
		sqe := ring.GetSQE(uint32(i))
		if sqe == nil {
			return nil, fmt.Errorf("uringstat: submission queue exhausted at index %d", i)
		}
		sqe.PrepStatx(uring.ATFdCwd(), &cstrs[i][0], 0, uring.StatxSizeMask(), &bufs[i])
		sqe.UserData = uint64(i)
		results[i] = Metadata{Path: p}
	}

	err := ring.SubmitAndWait(uint32(len(paths)), func(cqe *uring.CQE) {
		idx := int(cqe.UserData)
		if idx < 0 || idx >= len(results) {
			return
		}
		if cqe.Res < 0 {
			results[idx].Err = fmt.Errorf("statx %q: errno %d", paths[idx], -cqe.Res)
			return
		}
		results[idx].Mode = bufs[idx].Mode
		results[idx].Size = bufs[idx].Size
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
