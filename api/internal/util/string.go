package util

import (
	"strings"
	"unicode/utf8"
)

// StripCodeFences removes a surrounding markdown fence (```json ... ```)
// that some models add even in JSON mode. The fence may sit on one line.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// language tag: ```json\n{...}, ```json {...}, ```json{...}
	if i := strings.IndexAny(s, "{[\n"); i > 0 && isFenceTag(strings.TrimSpace(s[:i])) {
		s = s[i:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func isFenceTag(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// Truncate keeps at most n bytes of s and marks the cut with "...", so the
// result can be n+3 bytes long. A UTF-8 sequence is never split.
func Truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
