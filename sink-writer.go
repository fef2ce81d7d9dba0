//go:build !tinygo

package binlog

import (
	"io"
)

// WriterSink adapts an io.Writer to the Sink interface. Useful on the host
// for capturing a record stream into a file or buffer.
type WriterSink struct {
	w io.Writer
}

// NewWriterSink returns a Sink writing record bytes to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Write implements Sink. A short write is reported as an error so the
// encoder abandons the rest of the record.
func (s *WriterSink) Write(p []byte) error {
	n, err := s.w.Write(p)
	if err != nil {
		return err
	}
	if n < len(p) {
		return io.ErrShortWrite
	}
	return nil
}
