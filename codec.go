package textdecoder

// Codec resolves encoding labels.
type Codec interface {
	// Lookup returns the encoding for label, or an error wrapping
	// ErrUnsupportedEncoding.
	Lookup(label string) (Encoding, error)
}

// Encoding is a character encoding that can decode to UTF-8.
type Encoding interface {
	// Name returns the canonical name of the encoding in lower case.
	Name() string

	// NewDecoder returns a decoder in its initial state. It never sniffs or
	// strips a byte order mark.
	NewDecoder() Decoder
}

// Decoder converts bytes of one encoding to UTF-8, keeping whatever state the
// encoding needs between calls.
//
// Both methods append their output to dst and return the extended slice along
// with the number of bytes of src consumed. When last is false a trailing
// incomplete sequence is left unconsumed; when last is true the decoder
// flushes and treats it as malformed.
type Decoder interface {
	// DecodeWithoutReplacement stops at the first malformed sequence and
	// reports ResultMalformed.
	DecodeWithoutReplacement(dst, src []byte, last bool) (out []byte, read int, res Result)

	// Decode substitutes U+FFFD for malformed sequences and never fails.
	Decode(dst, src []byte, last bool) (out []byte, read int)
}
