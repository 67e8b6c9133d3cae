package control

import "bytes"

// lineDelim is the Control Port's line terminator. The protocol is
// CRLF-terminated throughout (tor-spec control-spec.txt §2.3).
var lineDelim = []byte("\r\n")

// lineFramer turns an arbitrary byte stream into CRLF-terminated lines.
// It buffers whatever partial line is still pending across feed calls, so
// framing is idempotent under arbitrary chunk boundaries: feeding the same
// bytes through any partition of chunk sizes yields the same line sequence.
type lineFramer struct {
	tail []byte
}

// feed appends chunk to the pending tail, splits on CRLF, and returns every
// complete line found. The final split segment (which may be empty) becomes
// the new tail and is not returned, since it has not yet seen a terminator.
func (f *lineFramer) feed(chunk []byte) []string {
	buf := append(f.tail, chunk...)

	var lines []string
	for {
		idx := bytes.Index(buf, lineDelim)
		if idx < 0 {
			break
		}
		lines = append(lines, string(buf[:idx]))
		buf = buf[idx+len(lineDelim):]
	}

	// Keep our own copy of the remainder rather than a sub-slice of buf,
	// which may share the old tail's backing array.
	f.tail = append([]byte(nil), buf...)
	return lines
}
