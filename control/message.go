package control

import "strings"

// isFinalLine reports whether line matches ^\d{3}[ -] ... specifically the
// "digits-space" final-line form ^\d{3} (a space, not a dash or plus) in
// the third position.
func isFinalLine(line string) bool {
	if len(line) < 4 {
		return false
	}
	for i := 0; i < 3; i++ {
		if line[i] < '0' || line[i] > '9' {
			return false
		}
	}
	return line[3] == ' '
}

// statusPrefix returns the 3-digit status code prefix of a reply line.
func statusPrefix(line string) string {
	if len(line) < 3 {
		return ""
	}
	return line[:3]
}

// messageAssembler groups framed lines into complete control-protocol
// messages, handling both the single-line and the 250+key=...\r\n.\r\n
// multi-line reply shapes.
//
// A message is complete when the latest line matches isFinalLine AND
// either the buffer holds only that one line, or the buffer's first line
// shares the same 3-digit status prefix as this final line.
type messageAssembler struct {
	pending []string
}

// feed appends line to the pending buffer and reports whether the buffer
// is now a complete message. On completion it returns the buffer joined
// with CRLF and resets internal state.
func (a *messageAssembler) feed(line string) (msg string, complete bool) {
	a.pending = append(a.pending, line)

	if !isFinalLine(line) {
		return "", false
	}

	if len(a.pending) == 1 || statusPrefix(a.pending[0]) == statusPrefix(line) {
		msg = strings.Join(a.pending, "\r\n")
		a.pending = nil
		return msg, true
	}

	return "", false
}
