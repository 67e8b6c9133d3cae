package control

import "strings"

// EventRecord is the parsed form of a "650 <type> ..." asynchronous
// notification. Positional holds unnamed tokens in
// arrival order; Params holds KEY=VALUE tokens keyed by name.
type EventRecord struct {
	Type       string
	Positional []string
	Params     map[string]string
}

// Field returns the i'th positional token, or "" if out of range. Useful
// for the fixed-shape CIRC/STREAM events, whose fields are positional.
func (r EventRecord) Field(i int) string {
	if i < 0 || i >= len(r.Positional) {
		return ""
	}
	return r.Positional[i]
}

// parseEventParams tokenizes the parameter portion of a "650 <type> ..."
// message (everything after "650 <type> "). Whitespace separates tokens,
// except inside a double-quoted substring, whose embedded whitespace is
// preserved verbatim. A token with "=" after its first character is a
// KEY=VALUE pair; everything else is positional. The check runs on the
// token after its quotes are stripped, so a quoted token containing "="
// is also taken as KEY=VALUE.
func parseEventParams(rest string) EventRecord {
	tokens := tokenize(rest)

	rec := EventRecord{Params: map[string]string{}}
	for _, tok := range tokens {
		if eq := strings.IndexByte(tok, '='); eq > 0 {
			rec.Params[tok[:eq]] = tok[eq+1:]
			continue
		}
		rec.Positional = append(rec.Positional, tok)
	}
	return rec
}

// tokenize splits s on whitespace, treating a double-quoted run as one
// atomic token (quotes are stripped, embedded whitespace kept).
func tokenize(s string) []string {
	var tokens []string
	var cur strings.Builder
	inQuotes := false
	hasCur := false

	flush := func() {
		if hasCur {
			tokens = append(tokens, cur.String())
			cur.Reset()
			hasCur = false
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
			hasCur = true
		case (c == ' ' || c == '\t') && !inQuotes:
			flush()
		default:
			cur.WriteByte(c)
			hasCur = true
		}
	}
	flush()

	return tokens
}

// eventPredicate builds the dispatcher predicate for "650 <type> " messages.
func eventPredicate(eventType string) dispatchPredicate {
	prefix := "650 " + eventType + " "
	exact := "650 " + eventType
	return func(msg string) bool {
		return strings.HasPrefix(msg, prefix) || msg == exact
	}
}

// eventPayload strips the "650 <type> " prefix, returning the parameter
// portion to be tokenized. A bare "650 <type>" has an empty parameter
// portion.
func eventPayload(eventType, msg string) string {
	if msg == "650 "+eventType {
		return ""
	}
	prefix := "650 " + eventType + " "
	return strings.TrimPrefix(msg, prefix)
}
