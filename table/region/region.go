package region

import (
	"errors"
	"io"
)

var (
	// ErrOutOfBounds indicates a stream access past the end of the region.
	ErrOutOfBounds = errors.New("region: access out of bounds")

	// ErrClosed indicates the region has been closed or released.
	ErrClosed = errors.New("region: closed")

	// ErrFinished indicates use of a stream after Finish.
	ErrFinished = errors.New("region: stream already finished")
)

// Region is a fixed-size, byte-addressable extent.
type Region interface {
	// Size returns the region length in bytes. It never changes.
	Size() int64

	// OpenReader returns a stream reading forward from off.
	OpenReader(off int64) (Reader, error)

	// OpenWriter returns a stream writing forward from off.
	OpenWriter(off int64) (Writer, error)
}

// Reader is a forward-only read stream. Finish releases it.
type Reader interface {
	io.Reader
	Finish() error
}

// Writer is a forward-only write stream. Finish releases it and publishes
// the written extent to the region (dirty tracking for mapped files).
type Writer interface {
	io.Writer
	Finish() error
}

// stream is the shared cursor over a byte slice used by every in-process
// region. onFinish receives the [start, end) extent a writer touched.
type stream struct {
	data     []byte
	start    int64
	off      int64
	done     bool
	onFinish func(start, end int64)
}

func newStream(data []byte, off int64, onFinish func(start, end int64)) (*stream, error) {
	if data == nil {
		return nil, ErrClosed
	}
	if off < 0 || off > int64(len(data)) {
		return nil, ErrOutOfBounds
	}
	return &stream{data: data, start: off, off: off, onFinish: onFinish}, nil
}

func (s *stream) Read(p []byte) (int, error) {
	if s.done {
		return 0, ErrFinished
	}
	if s.off >= int64(len(s.data)) {
		return 0, io.EOF
	}
	n := copy(p, s.data[s.off:])
	s.off += int64(n)
	return n, nil
}

// Write is all-or-nothing: a write that would cross the end of the region
// writes nothing.
func (s *stream) Write(p []byte) (int, error) {
	if s.done {
		return 0, ErrFinished
	}
	if s.off+int64(len(p)) > int64(len(s.data)) {
		return 0, ErrOutOfBounds
	}
	n := copy(s.data[s.off:], p)
	s.off += int64(n)
	return n, nil
}

func (s *stream) Finish() error {
	if s.done {
		return ErrFinished
	}
	s.done = true
	if s.onFinish != nil && s.off > s.start {
		s.onFinish(s.start, s.off)
	}
	return nil
}
