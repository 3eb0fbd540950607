package textdecoder

import (
	"bytes"
	"fmt"
	"slices"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// WHATWG is the Codec for the encodings of the WHATWG Encoding Standard,
// backed by golang.org/x/text.
var WHATWG Codec = whatwgCodec{}

var names = []string{
	"utf-8",
	"ibm866",
	"iso-8859-2",
	"iso-8859-3",
	"iso-8859-4",
	"iso-8859-5",
	"iso-8859-6",
	"iso-8859-7",
	"iso-8859-8",
	"iso-8859-8-i",
	"iso-8859-10",
	"iso-8859-13",
	"iso-8859-14",
	"iso-8859-15",
	"iso-8859-16",
	"koi8-r",
	"koi8-u",
	"macintosh",
	"windows-874",
	"windows-1250",
	"windows-1251",
	"windows-1252",
	"windows-1253",
	"windows-1254",
	"windows-1255",
	"windows-1256",
	"windows-1257",
	"windows-1258",
	"x-mac-cyrillic",
	"gbk",
	"gb18030",
	"big5",
	"euc-jp",
	"iso-2022-jp",
	"shift_jis",
	"euc-kr",
	"utf-16be",
	"utf-16le",
	"x-user-defined",
}

// Names returns the canonical names of the encodings WHATWG can decode.
func Names() []string {
	return slices.Clone(names)
}

// Encodings that can represent U+FFFD themselves, keyed to the bytes that do.
var encodedReplacement = map[string][]byte{
	"utf-16be": {0xff, 0xfd},
	"utf-16le": {0xfd, 0xff},
	"gb18030":  {0x84, 0x31, 0xa4, 0x37},
}

var replacementUTF8 = []byte(string(utf8.RuneError))

type whatwgCodec struct{}

func (whatwgCodec) Lookup(label string) (Encoding, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("[textdecoder] label %q: %w", label, ErrUnsupportedEncoding)
	}
	name, err := htmlindex.Name(enc)
	if err != nil || enc == encoding.Replacement || name == "replacement" {
		return nil, fmt.Errorf("[textdecoder] label %q: %w", label, ErrUnsupportedEncoding)
	}

	return &whatwgEncoding{
		name:        name,
		enc:         enc,
		replacement: encodedReplacement[name],
	}, nil
}

type whatwgEncoding struct {
	name string
	enc  encoding.Encoding

	// replacement is how the encoding spells U+FFFD, nil if it cannot.
	replacement []byte
}

func (e *whatwgEncoding) Name() string { return e.name }

func (e *whatwgEncoding) NewDecoder() Decoder {
	d := &transformDecoder{enc: e, lossy: e.enc.NewDecoder()}
	if e.name == "utf-8" {
		d.strict = encoding.UTF8Validator
	}
	return d
}

// transformDecoder drives x/text transformers. The transformer holds the
// decoder state; incomplete trailing input is handed back to the caller
// through transform.ErrShortSrc.
type transformDecoder struct {
	enc    *whatwgEncoding
	lossy  transform.Transformer
	strict transform.Transformer // nil unless the encoding has a validating transformer
}

func (d *transformDecoder) Decode(dst, src []byte, last bool) ([]byte, int) {
	out, read, _ := runTransform(d.lossy, dst, src, last)
	return out, read
}

func (d *transformDecoder) DecodeWithoutReplacement(dst, src []byte, last bool) ([]byte, int, Result) {
	start := len(dst)

	t := d.lossy
	if d.strict != nil {
		t = d.strict
	}

	out, read, err := runTransform(t, dst, src, last)
	if err != nil {
		return out[:start], read, ResultMalformed
	}

	if d.strict == nil && bytes.Contains(out[start:], replacementUTF8) {
		if d.enc.replacement == nil || !d.enc.onlyEncodedReplacements(src[:read], last) {
			return out[:start], read, ResultMalformed
		}
	}

	if read < len(src) {
		return out, read, ResultInputExhausted
	}
	return out, read, ResultComplete
}

// onlyEncodedReplacements re-decodes src one code point at a time and reports
// whether every U+FFFD came from the encoding's own spelling of it. A decoder
// that stops making progress fails the check. Only called for encodings whose
// decoders keep no state between calls.
func (e *whatwgEncoding) onlyEncodedReplacements(src []byte, last bool) bool {
	t := e.enc.NewDecoder()

	var buf [utf8.UTFMax]byte
	for len(src) > 0 {
		// Three bytes hold a lone U+FFFD but never U+FFFD next to another
		// rune; supplementary runes need the fourth byte.
		nDst, nSrc, err := t.Transform(buf[:len(replacementUTF8)], src, last)
		if nDst == 0 && err == transform.ErrShortDst {
			nDst, nSrc, _ = t.Transform(buf[:], src, last)
		}
		if nSrc == 0 {
			return false
		}
		if bytes.Equal(buf[:nDst], replacementUTF8) && !bytes.Equal(src[:nSrc], e.replacement) {
			return false
		}
		src = src[nSrc:]
	}

	return true
}

// runTransform appends the transformation of src to dst until src is
// consumed, t needs more input or t fails. transform.ErrShortSrc is not an
// error here: it leaves read short of len(src).
func runTransform(t transform.Transformer, dst, src []byte, last bool) ([]byte, int, error) {
	if free := cap(dst) - len(dst); free < utf8.UTFMax {
		dst = slices.Grow(dst, MaxDecodedLength(len(src)))
	}

	read := 0
	for {
		nDst, nSrc, err := t.Transform(dst[len(dst):cap(dst)], src[read:], last)
		dst = dst[:len(dst)+nDst]
		read += nSrc

		switch err {
		case transform.ErrShortDst:
			dst = slices.Grow(dst, max(cap(dst), utf8.UTFMax))
		case transform.ErrShortSrc:
			return dst, read, nil
		default:
			return dst, read, err
		}
	}
}
