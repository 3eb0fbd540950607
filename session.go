package textdecoder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.llib.dev/frameless/pkg/logging"
)

var (
	ErrUnsupportedEncoding = errors.New("the given encoding is not supported")
	ErrEncoding            = errors.New("decoding failed")
)

// Session decodes a stream of byte chunks to text under one encoding. Decoder
// state and any incomplete trailing bytes carry over from a call made with
// stream set to the call after it; any other call starts afresh.
//
// A Session is not safe for concurrent use.
type Session struct {
	codec  Codec
	enc    Encoding
	fatal  bool
	logger *logging.Logger

	validUpTo   func([]byte) int
	passthrough bool // valid prefix decodes to itself, so it can be copied

	decoder    Decoder
	pending    []byte
	doNotFlush bool
}

type Option func(s *Session)

// WithCodec resolves labels and creates decoders with c instead of WHATWG.
func WithCodec(c Codec) Option {
	return func(s *Session) {
		s.codec = c
	}
}

// WithLogger logs session resets and decoding failures to l at debug level.
func WithLogger(l *logging.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// New returns a Session for the encoding label resolves to. With fatal set,
// malformed input fails Decode with ErrEncoding; otherwise it is replaced with
// U+FFFD.
func New(label string, fatal bool, opts ...Option) (*Session, error) {
	s := &Session{codec: WHATWG, fatal: fatal}

	for _, opt := range opts {
		opt(s)
	}

	enc, err := s.codec.Lookup(label)
	if err != nil {
		if !errors.Is(err, ErrUnsupportedEncoding) {
			err = fmt.Errorf("[textdecoder] label %q: %w: %w", label, ErrUnsupportedEncoding, err)
		}
		return nil, err
	}

	s.enc = enc
	s.decoder = enc.NewDecoder()
	s.validUpTo = ASCIIValidUpTo

	// Only the built-in encodings are known to decode their valid prefix to
	// itself; other codecs always see every byte.
	if _, ok := enc.(*whatwgEncoding); ok {
		switch enc.Name() {
		case "utf-8":
			s.validUpTo = UTF8ValidUpTo
			s.passthrough = true
		case "iso-2022-jp":
			s.validUpTo = ISO2022JPASCIIValidUpTo
		case "utf-16be", "utf-16le":
			// ASCII bytes are half a code unit; decode them.
		default:
			s.passthrough = true
		}
	}

	return s, nil
}

// fresh returns a new Session for the same encoding and policy, without
// resolving the label again.
func (s *Session) fresh() *Session {
	return &Session{
		codec:       s.codec,
		enc:         s.enc,
		fatal:       s.fatal,
		logger:      s.logger,
		validUpTo:   s.validUpTo,
		passthrough: s.passthrough,
		decoder:     s.enc.NewDecoder(),
	}
}

// Encoding returns the canonical lower case name of the session's encoding.
func (s *Session) Encoding() string {
	return strings.ToLower(s.enc.Name())
}

// Fatal reports whether malformed input is an error rather than replaced.
func (s *Session) Fatal() bool {
	return s.fatal
}

// Decode appends input to the bytes left over from the previous call and
// returns as much of them as can be decoded. stream declares that more input
// follows, so the next call continues from the current state; with stream
// false the decoder is flushed and the next call starts a new stream.
//
// A nil input is the same as an empty one.
func (s *Session) Decode(input []byte, stream bool) (string, error) {
	if !s.doNotFlush {
		s.reset()
	}
	s.doNotFlush = stream
	s.pending = append(s.pending, input...)

	if s.fatal {
		return s.decodeFatal(stream)
	}
	return s.decodeReplacement(stream), nil
}

func (s *Session) reset() {
	s.decoder = s.enc.NewDecoder()
	s.pending = s.pending[:0]
}

func (s *Session) decodeFatal(stream bool) (string, error) {
	out := make([]byte, 0, MaxDecodedLength(len(s.pending)))

	out, read, res := s.decoder.DecodeWithoutReplacement(out, s.pending, !stream)
	switch res {
	case ResultComplete, ResultInputExhausted:
		s.consume(read)
		return string(out), nil
	}

	// The decoder may have moved past bytes still held in pending; end the
	// stream so the next call cannot resume from that mismatch.
	s.debug("malformed input, ending stream",
		logging.Field("encoding", s.enc.Name()),
		logging.Field("pending", len(s.pending)),
		logging.Field("read", read),
	)
	s.doNotFlush = false
	s.pending = s.pending[:0]

	return "", fmt.Errorf("[textdecoder] %s input malformed near byte %d: %w", s.enc.Name(), read, ErrEncoding)
}

func (s *Session) decodeReplacement(stream bool) string {
	out := make([]byte, 0, MaxDecodedLength(len(s.pending)))

	read := 0
	if valid := s.validUpTo(s.pending); valid > 0 {
		if s.passthrough {
			out = append(out, s.pending[:valid]...)
			read = valid
		} else {
			out, read = s.decoder.Decode(out, s.pending[:valid], false)
		}
	}

	out, n := s.decoder.Decode(out, s.pending[read:], !stream)
	s.consume(read + n)

	return string(out)
}

// consume drops the first n pending bytes, keeping the backing array.
func (s *Session) consume(n int) {
	s.pending = s.pending[:copy(s.pending, s.pending[n:])]
}

func (s *Session) debug(msg string, ds ...logging.Detail) {
	if s.logger == nil {
		return
	}
	s.logger.Debug(context.Background(), msg, ds...)
}
