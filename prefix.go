package textdecoder

import "unicode/utf8"

// UTF8ValidUpTo returns the length of the longest prefix of b that is
// well-formed UTF-8. A trailing sequence that is merely incomplete is not
// part of the prefix.
func UTF8ValidUpTo(b []byte) int {
	i := 0
	for i < len(b) {
		if c := b[i]; c < utf8.RuneSelf {
			i++
			continue
		}
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return i
}

// ASCIIValidUpTo returns the length of the longest prefix of b that is ASCII.
func ASCIIValidUpTo(b []byte) int {
	for i, c := range b {
		if c >= utf8.RuneSelf {
			return i
		}
	}
	return len(b)
}

// ISO2022JPASCIIValidUpTo is like ASCIIValidUpTo but also stops at the bytes
// that switch ISO-2022-JP state: ESC, SO and SI.
func ISO2022JPASCIIValidUpTo(b []byte) int {
	for i, c := range b {
		if c >= utf8.RuneSelf || c == 0x1b || c == 0x0e || c == 0x0f {
			return i
		}
	}
	return len(b)
}
