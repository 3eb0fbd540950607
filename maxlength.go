package textdecoder

// MaxDecodedLength returns an upper bound on the UTF-8 output produced from
// length bytes of input in any supported encoding, with or without
// replacement.
func MaxDecodedLength(length int) int {
	// Every input byte yields at most one U+FFFD (3 bytes); multi-byte
	// sequences never expand beyond that ratio. Escape sequences yield nothing.
	return length*3 + // worst case: all bytes replaced or single byte to 3-byte rune
		4 // one supplementary rune completed from state carried by the decoder
}
