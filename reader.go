package textdecoder

import (
	"errors"
	"fmt"
	"io"
)

// Reader decodes the bytes of an underlying io.Reader through a Session and
// yields UTF-8 text.
type Reader struct {
	r     io.Reader
	s     *Session
	chunk []byte
	rb    readBuffer

	offset int64 // input bytes decoded so far
	err    error
}

type ReaderOption func(r *Reader)

// WithBufferSize sets how many input bytes are read and decoded at a time.
// Sizes are clamped to [1, 8 MiB].
func WithBufferSize(size int) ReaderOption {
	return func(r *Reader) {
		r.chunk = make([]byte, min(max(size, 1), maxReadBufSize))
	}
}

// NewReader returns a Reader decoding r with s. Every chunk is decoded as part
// of one stream, which is flushed when r returns io.EOF.
func NewReader(r io.Reader, s *Session, opts ...ReaderOption) *Reader {
	rd := &Reader{r: r, s: s}

	for _, opt := range opts {
		opt(rd)
	}

	if rd.chunk == nil {
		rd.chunk = make([]byte, defaultReadBufSize)
	}

	return rd
}

// Read writes decoded text to p. Text is only split between calls on byte
// boundaries, so a rune may straddle two reads.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	for r.rb.len() == 0 && r.err == nil {
		r.fill()
	}

	n := copy(p, r.rb.window())
	r.rb.advance(n)
	if n > 0 {
		return n, nil
	}

	return 0, r.err
}

func (r *Reader) fill() {
	n, err := r.r.Read(r.chunk)
	if n > 0 {
		text, derr := r.s.Decode(r.chunk[:n], true)
		if derr != nil {
			r.err = fmt.Errorf("[textdecoder] chunk at byte %d: %w", r.offset, derr)
			return
		}
		r.offset += int64(n)
		r.rb.writeString(text)
	}

	switch {
	case errors.Is(err, io.EOF):
		text, derr := r.s.Decode(nil, false)
		if derr != nil {
			r.err = fmt.Errorf("[textdecoder] end of stream at byte %d: %w", r.offset, derr)
			return
		}
		r.rb.writeString(text)
		r.err = io.EOF
	case err != nil:
		r.err = err
	}
}
