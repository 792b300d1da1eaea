package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// MaskValue is the string used to replace personal data.
const MaskValue = "***REDACTED***"

// sensitiveKeys contains attribute keys whose values are always masked.
var sensitiveKeys = map[string]bool{
	// Identity
	"ssn":                    true,
	"social_security_number": true,
	"tax_id":                 true,
	"taxid":                  true,
	"tin":                    true,
	"fein":                   true,
	"ein":                    true,
	"dob":                    true,
	"date_of_birth":          true,
	"birth_date":             true,
	"birthdate":              true,
	"driver_license":         true,
	"drivers_license":        true,
	"license_number":         true,

	// Policy and billing
	"policy_number": true,
	"policy_no":     true,
	"policy":        true,
	"account":       true,
	"account_no":    true,
	"card_number":   true,
	"iban":          true,
	"routing":       true,

	// Raw document content
	"row":   true,
	"rows":  true,
	"cells": true,
	"cell":  true,
	"text":  true,
	"data":  true,
	"field": true,
}

// sensitiveKeywords mark a key as sensitive when contained in it.
var sensitiveKeywords = []string{
	"ssn", "social_security", "birth", "tax_id", "license_n",
	"policy_n", "account_n", "card_n", "password", "secret",
}

// sensitivePatterns match values that are masked as a whole regardless of key.
var sensitivePatterns = []*regexp.Regexp{
	// Social security numbers, with or without dashes
	regexp.MustCompile(`^\d{3}-?\d{2}-?\d{4}$`),

	// Employer identification numbers
	regexp.MustCompile(`^\d{2}-\d{7}$`),

	// Card numbers
	regexp.MustCompile(`^(?:\d[ -]?){12,18}\d$`),

	// US style dates of birth
	regexp.MustCompile(`^(0?[1-9]|1[0-2])/(0?[1-9]|[12]\d|3[01])/(19|20)\d{2}$`),
}

// embeddedPatterns match personal data inside longer strings.
var embeddedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
	regexp.MustCompile(`\b\d{2}-\d{7}\b`),
}

// RedactHandler wraps an slog.Handler to mask personal data.
// It intercepts log records and masks attribute values that match
// sensitive key names or value patterns before passing them to the
// underlying handler.
type RedactHandler struct {
	handler slog.Handler
}

// NewRedactHandler creates a new RedactHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used.
func NewRedactHandler(handler slog.Handler) *RedactHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &RedactHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
func (h *RedactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's message and attributes and passes the record
// to the underlying handler.
func (h *RedactHandler) Handle(ctx context.Context, r slog.Record) error {
	redacted := slog.NewRecord(r.Time, r.Level, redactEmbedded(r.Message), r.PC)

	r.Attrs(func(a slog.Attr) bool {
		redacted.AddAttrs(redactAttr(a))
		return true
	})

	return h.handler.Handle(ctx, redacted)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are masked before being added.
func (h *RedactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = redactAttr(a)
	}
	return &RedactHandler{handler: h.handler.WithAttrs(redacted)}
}

// WithGroup returns a new handler with the given group name.
func (h *RedactHandler) WithGroup(name string) slog.Handler {
	return &RedactHandler{handler: h.handler.WithGroup(name)}
}

// redactAttr masks a single attribute, recursively handling groups.
func redactAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		redacted := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			redacted[i] = redactAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redacted...)}
	}

	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}

	switch a.Value.Kind() {
	case slog.KindString:
		s := a.Value.String()
		if isSensitiveValue(s) {
			return slog.String(a.Key, MaskValue)
		}
		return slog.String(a.Key, redactEmbedded(s))
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			return slog.String(a.Key, redactEmbedded(err.Error()))
		}
	}

	return a
}

// isSensitiveKey reports whether key names personal data.
func isSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	if sensitiveKeys[key] {
		return true
	}
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(key, keyword) {
			return true
		}
	}
	return false
}

// isSensitiveValue reports whether value as a whole is personal data.
func isSensitiveValue(value string) bool {
	value = strings.TrimSpace(value)
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}

// redactEmbedded masks personal data inside s.
func redactEmbedded(s string) string {
	for _, pattern := range embeddedPatterns {
		s = pattern.ReplaceAllString(s, MaskValue)
	}
	return s
}

// NewLogger creates a text slog.Logger that masks personal data.
// verbose selects slog.LevelDebug; otherwise only warnings and errors are
// logged.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewRedactHandler(slog.NewTextHandler(w, handlerOptions(verbose))))
}

// NewJSONLogger is NewLogger with JSON output, for log aggregation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewRedactHandler(slog.NewJSONHandler(w, handlerOptions(verbose))))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
