package logging

import (
	"log/slog"
	"regexp"
	"strings"

	"drepo-hq/portage/pkg/config"
)

// Redacted replaces values of sensitive attributes.
const Redacted = "[REDACTED]"

// Built-in pattern names.
const (
	PatternURLCredentials = "url_credentials"
	PatternAccessToken    = "access_token"
	PatternBearerToken    = "bearer_token"
	PatternPassword       = "password"
)

// Redactor scrubs secrets from log values.
type Redactor struct {
	patterns []redactPattern
}

type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

var sensitiveKeys = []string{
	"password", "passwd", "secret", "token",
	"private_key", "authorization", "credential",
}

// NewRedactor creates a Redactor with the built-in patterns followed by
// the custom ones. Custom patterns that do not compile are skipped.
func NewRedactor(custom []config.RedactPattern) *Redactor {
	r := &Redactor{
		patterns: []redactPattern{
			{
				name:        PatternURLCredentials,
				regex:       regexp.MustCompile(`([a-zA-Z][a-zA-Z0-9+.-]*://)[^/\s:@]+(:[^/\s@]*)?@`),
				replacement: "${1}***@",
			},
			{
				name:        PatternAccessToken,
				regex:       regexp.MustCompile(`\b(glpat|gho|ghp|ghs|ghu)[-_][A-Za-z0-9_\-]{8,}`),
				replacement: "${1}-***",
			},
			{
				name:        PatternBearerToken,
				regex:       regexp.MustCompile(`Bearer\s+[a-zA-Z0-9\-._~+/]+=*`),
				replacement: "Bearer ***",
			},
			{
				name:        PatternPassword,
				regex:       regexp.MustCompile(`(?i)(password|passwd|pwd)\s*[:=]\s*\S+`),
				replacement: "${1}=***",
			},
		},
	}

	for _, p := range custom {
		regex, err := regexp.Compile(p.Pattern)
		if err != nil {
			continue
		}
		r.patterns = append(r.patterns, redactPattern{
			name:        p.Name,
			regex:       regex,
			replacement: p.Replacement,
		})
	}

	return r
}

// RedactString applies every pattern to value in order.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}
	for _, p := range r.patterns {
		value = p.regex.ReplaceAllString(value, p.replacement)
	}
	return value
}

// RedactAttr returns a with secrets removed. Attributes with a sensitive
// key lose their value entirely; string, error and group values are
// scanned for secret patterns.
func (r *Redactor) RedactAttr(a slog.Attr) slog.Attr {
	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, Redacted)
	}

	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return slog.String(a.Key, r.RedactString(v.String()))
	case slog.KindGroup:
		group := v.Group()
		out := make([]slog.Attr, len(group))
		for i, ga := range group {
			out[i] = r.RedactAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return slog.String(a.Key, r.RedactString(err.Error()))
		}
	}
	return slog.Attr{Key: a.Key, Value: v}
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
