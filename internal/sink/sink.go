// Package sink provides append-only persistence for report lines. A sink is
// opened once per run and must be flushed and closed on every exit path,
// including aborted runs.
package sink

import (
	"bufio"
	"os"
	"sync"

	"github.com/kmartell/netsweep/internal/errors"
)

const sinkFilePerm = 0600

// Sink persists report lines in order of appending.
type Sink interface {
	// Append writes one line, adding the trailing newline.
	Append(line string) error
	// Close flushes buffered lines and releases the underlying resource.
	Close() error
}

// FileSink appends lines to a single file, buffered, safe for use from one
// goroutine at a time plus a concurrent Close.
type FileSink struct {
	mu     sync.Mutex
	file   *os.File
	writer *bufio.Writer
	closed bool
}

// NewFileSink opens (or creates) the file for appending.
func NewFileSink(path string) (*FileSink, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, sinkFilePerm)
	if err != nil {
		return nil, errors.WrapSweepError(errors.CodeSinkOpen, "cannot open results file", err)
	}
	return &FileSink{
		file:   file,
		writer: bufio.NewWriter(file),
	}, nil
}

// Append implements Sink.
func (s *FileSink) Append(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.NewSweepError(errors.CodeSinkAppend, "sink already closed")
	}
	if _, err := s.writer.WriteString(line + "\n"); err != nil {
		return errors.WrapSweepError(errors.CodeSinkAppend, "cannot append line", err)
	}
	return nil
}

// Close flushes and closes the file. Close is idempotent.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	flushErr := s.writer.Flush()
	closeErr := s.file.Close()
	if flushErr != nil {
		return errors.WrapSweepError(errors.CodeSinkAppend, "cannot flush results file", flushErr)
	}
	return closeErr
}
