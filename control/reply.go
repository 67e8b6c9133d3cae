package control

import "strconv"

// Reply is an assembled control-protocol message split into its status
// code and body lines.
type Reply struct {
	Code  int
	Lines []string
	// Err is set when Code is a 4xx/5xx class, or when the connection was
	// lost before a reply arrived.
	Err error
}

// parseReply splits a raw CRLF-joined message (as produced by the message
// assembler) into a Reply. The leading status code is read from the first
// line's first three characters.
func parseReply(msg string) Reply {
	lines := splitCRLF(msg)
	if len(lines) == 0 {
		return Reply{Err: &ProtocolError{Code: 0, Lines: nil}}
	}

	code, err := strconv.Atoi(statusPrefix(lines[0]))
	if err != nil {
		return Reply{Err: &ProtocolError{Code: 0, Lines: lines}}
	}

	r := Reply{Code: code, Lines: lines}
	if code >= 400 && code <= 599 {
		r.Err = &ProtocolError{Code: code, Lines: lines}
	}
	return r
}

func splitCRLF(s string) []string {
	var lines []string
	start := 0
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '\r' && s[i+1] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 2
			i++
		}
	}
	lines = append(lines, s[start:])
	return lines
}

// isEventCode reports whether code is the async-event status class.
func isEventCode(code int) bool {
	return code == 650
}
