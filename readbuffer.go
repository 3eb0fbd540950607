package textdecoder

const (
	defaultReadBufSize = 32 * 1024
	maxReadBufSize     = 8 * 1024 * 1024
)

// readBuffer queues decoded text that did not fit into the caller's slice.
type readBuffer struct {
	buf        []byte
	start, end int
}

func (rb *readBuffer) window() []byte {
	return rb.buf[rb.start:rb.end]
}

func (rb *readBuffer) len() int {
	return rb.end - rb.start
}

func (rb *readBuffer) advance(consumed int) {
	if consumed <= 0 {
		return
	}
	rb.start += consumed
	if rb.start >= rb.end {
		rb.start, rb.end = 0, 0
	}
}

func (rb *readBuffer) compact() {
	if rb.start == 0 || rb.start == rb.end {
		return
	}
	copy(rb.buf, rb.buf[rb.start:rb.end])
	rb.end -= rb.start
	rb.start = 0
}

// writeString appends s, compacting before it grows.
func (rb *readBuffer) writeString(s string) {
	if len(s) == 0 {
		return
	}
	if rb.end+len(s) > len(rb.buf) {
		rb.compact()
	}
	if rb.end+len(s) > len(rb.buf) {
		newLen := max(2*len(rb.buf), defaultReadBufSize)
		for newLen < rb.end+len(s) {
			newLen *= 2
		}
		nb := make([]byte, newLen)
		copy(nb, rb.window())
		rb.end -= rb.start
		rb.start = 0
		rb.buf = nb
	}
	rb.end += copy(rb.buf[rb.end:], s)
}
