package tlshx

const hexDigits = "0123456789ABCDEF"

// appendHex appends the two uppercase hex digits of b to dst.
func appendHex(dst []byte, b byte) []byte {
	return append(dst, hexDigits[b>>4], hexDigits[b&0x0F])
}

// hexNibble decodes one hex digit of either case.
func hexNibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}

	return 0, false
}

// decodeHexByte decodes s[i:i+2].
func decodeHexByte(s string, i int) (byte, bool) {
	hi, ok := hexNibble(s[i])
	if !ok {
		return 0, false
	}

	lo, ok := hexNibble(s[i+1])
	if !ok {
		return 0, false
	}

	return hi<<4 | lo, true
}

// swapNibbles exchanges the high and low nibbles of b.
func swapNibbles(b byte) byte {
	return b<<4 | b>>4
}
