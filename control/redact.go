package control

import (
	"context"
	"log/slog"
	"strings"
)

// redactMask replaces a secret value in logged output.
const redactMask = "***REDACTED***"

// sensitiveAttrKeywords are substrings of an attribute key that mark its
// value as sensitive regardless of exact spelling, mirroring the
// keyword-contains check used for slog attribute sanitization elsewhere in
// the example pack.
var sensitiveAttrKeywords = []string{"password", "secret", "auth"}

// redactingHandler wraps an slog.Handler and sanitizes attribute values
// and command text that could leak the control-port password.
type redactingHandler struct {
	next slog.Handler
}

// NewRedactingHandler wraps handler so that any attribute whose key
// contains "password", "secret", or "auth" is masked, and any
// string-valued attribute whose value starts with "authenticate" (any
// case) has its argument masked, before reaching handler. The record's
// message text is passed through unchanged.
func NewRedactingHandler(handler slog.Handler) slog.Handler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &redactingHandler{next: handler}
}

func (h *redactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *redactingHandler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(sanitizeAttr(a))
		return true
	})
	return h.next.Handle(ctx, sanitized)
}

func (h *redactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitized := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		sanitized[i] = sanitizeAttr(a)
	}
	return &redactingHandler{next: h.next.WithAttrs(sanitized)}
}

func (h *redactingHandler) WithGroup(name string) slog.Handler {
	return &redactingHandler{next: h.next.WithGroup(name)}
}

func sanitizeAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		sanitized := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			sanitized[i] = sanitizeAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(sanitized...)}
	}

	keyLower := strings.ToLower(a.Key)
	for _, kw := range sensitiveAttrKeywords {
		if strings.Contains(keyLower, kw) {
			return slog.String(a.Key, redactMask)
		}
	}

	if a.Value.Kind() == slog.KindString && looksLikeAuthenticateCommand(a.Value.String()) {
		return slog.String(a.Key, redactCommandText(a.Value.String()))
	}

	return a
}

func looksLikeAuthenticateCommand(s string) bool {
	return strings.HasPrefix(strings.ToLower(s), "authenticate")
}

// redactCommandText keeps the command verb but masks its argument, so a
// trace log still shows "authenticate <cmd>" without the secret itself.
func redactCommandText(s string) string {
	fields := strings.SplitN(s, " ", 2)
	if len(fields) < 2 {
		return s
	}
	return fields[0] + " " + redactMask
}
