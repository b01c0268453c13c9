package output

import (
	"os"

	"golang.org/x/sys/unix"
)

// Writer writes formatted output to stdout, using writev for batching.
type Writer struct {
	fd int
}

// NewWriter creates a Writer that writes to stdout.
func NewWriter() *Writer {
	return &Writer{fd: int(os.Stdout.Fd())}
}

// Write writes the given bytes to stdout using writev for scatter-gather I/O.
func (w *Writer) Write(data []byte) error {
	if len(data) == 0 {
		return nil
	}

	for len(data) > 0 {
		iovs := [][]byte{data}
		n, err := unix.Writev(w.fd, iovs)
		if err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// OrderedWriter receives results from a channel and writes them in
// sequence order: ascending SeqNum starting at 1, as assigned by
// scheduler.Run when a worker takes a candidate. This is the order the
// candidates were received in, not an order sorted by path; sorting by
// path is done by the shaper.
type OrderedWriter struct {
	writer    *Writer
	formatter Formatter
}

// NewOrderedWriter creates an OrderedWriter.
func NewOrderedWriter(w *Writer, f Formatter) *OrderedWriter {
	return &OrderedWriter{writer: w, formatter: f}
}

// WriteOrdered consumes results from the channel, buffering out-of-order
// results and writing them in sequence-number order.
func (ow *OrderedWriter) WriteOrdered(results <-chan Result, onEntry func()) {
	nextSeq := 1
	pending := make(map[int]Result)

	for r := range results {
		if r.Err == nil && onEntry != nil {
			onEntry()
		}

		if r.SeqNum == nextSeq {
			ow.writeResult(r)
			nextSeq++
			for {
				if p, ok := pending[nextSeq]; ok {
					ow.writeResult(p)
					delete(pending, nextSeq)
					nextSeq++
				} else {
					break
				}
			}
		} else {
			pending[r.SeqNum] = r
		}
	}
}

func (ow *OrderedWriter) writeResult(r Result) {
	if r.Err != nil {
		return
	}
	data := ow.formatter.Format(nil, r)
	ow.writer.Write(data)
}
