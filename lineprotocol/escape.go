package lineprotocol

import (
	"strings"
)

var (
	// measurementEscaper escapes measurement names. An '=' is legal
	// in a measurement because the tag section starts at the first
	// unescaped comma.
	measurementEscaper = newEscaper(", ")

	// identEscaper escapes tag keys, tag values and field keys.
	identEscaper = newEscaper(", =")

	// stringFieldEscaper escapes the contents of a quoted string
	// field value.
	stringFieldEscaper = newEscaper(`\"`)
)

// escaper represents a set of characters that can be escaped.
type escaper struct {
	// table holds a non-zero entry for every byte value
	// that must be preceded by a backslash.
	table [256]byte

	// escapes holds all the characters that need to be escaped.
	escapes string
}

// newEscaper returns an escaper that escapes the
// given characters. All of them must be ASCII.
func newEscaper(escapes string) *escaper {
	var e escaper
	for i := 0; i < len(escapes); i++ {
		e.table[escapes[i]] = escapes[i]
	}
	e.escapes = escapes
	return &e
}

// appendEscaped returns the escaped form of s appended to buf.
func (e *escaper) appendEscaped(buf []byte, s string) []byte {
	newLen, startIndex := e.escapedLen(s)
	if newLen == len(s) {
		return append(buf, s...)
	}
	if cap(buf)-len(buf) < newLen {
		nBuf := make([]byte, len(buf), len(buf)+newLen)
		copy(nBuf, buf)
		buf = nBuf
	}
	e._escape(buf[len(buf):len(buf)+newLen], s, startIndex)
	return buf[:len(buf)+newLen]
}

// escapedLen returns the length that s will be after escaping
// and the index of the first character in s that needs escaping.
func (e *escaper) escapedLen(s string) (escLen, startIndex int) {
	startIndex = len(s)
	n := len(s)
	for i := 0; i < len(e.escapes); i++ {
		k := strings.IndexByte(s, e.escapes[i])
		if k == -1 {
			continue
		}
		if k < startIndex {
			startIndex = k
		}
		n += 1 + strings.Count(s[k+1:], e.escapes[i:i+1])
	}
	return n, startIndex
}

// _escape writes the escaped form of s into buf. It
// assumes buf is the correct length (as determined
// by escapedLen).
// This method should be treated as private to escaper.
func (e *escaper) _escape(buf []byte, s string, escIndex int) {
	copy(buf, s[:escIndex])
	j := escIndex
	for i := escIndex; i < len(s); i++ {
		b := s[i]
		if e.table[b] != 0 {
			buf[j] = '\\'
			buf[j+1] = b
			j += 2
		} else {
			buf[j] = b
			j++
		}
	}
}
