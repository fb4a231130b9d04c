package logging

import (
	"bytes"
	"io"
	"sync"
)

// lineWriter prepends a marker to each complete line. A partial line is
// held until its newline arrives, and every marked line reaches out in a
// single Write so concurrent requests never interleave within a line.
type lineWriter struct {
	mu      sync.Mutex
	marker  []byte
	out     io.Writer
	pending []byte
}

func newLineWriter(marker string, out io.Writer) *lineWriter {
	return &lineWriter{marker: []byte(marker), out: out}
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending = append(w.pending, p...)
	for {
		end := bytes.IndexByte(w.pending, '\n')
		if end < 0 {
			break
		}
		if err := w.emit(w.pending[:end+1]); err != nil {
			return 0, err
		}
		w.pending = w.pending[end+1:]
	}
	if len(w.pending) == 0 {
		w.pending = nil
	}
	return len(p), nil
}

// Flush writes a held partial line, terminating it
func (w *lineWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.pending) == 0 {
		return nil
	}
	line := append(w.pending, '\n')
	w.pending = nil
	return w.emit(line)
}

func (w *lineWriter) emit(line []byte) error {
	buf := make([]byte, 0, len(w.marker)+len(line))
	buf = append(buf, w.marker...)
	buf = append(buf, line...)
	_, err := w.out.Write(buf)
	return err
}
