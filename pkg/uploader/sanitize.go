package uploader

import (
	"fmt"
	"strings"
	"time"
)

// DefaultFilename substitutes for names that sanitize to nothing.
const DefaultFilename = "document"

// SanitizeFilename rewrites a user-supplied filename into a form safe for
// path-addressed storage APIs: spaces become underscores, every character
// outside [A-Za-z0-9._-] is stripped, and a millisecond timestamp prefix
// guarantees uniqueness within the destination folder.
func SanitizeFilename(name string, now time.Time) string {
	name = strings.ReplaceAll(name, " ", "_")

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z',
			r >= 'a' && r <= 'z',
			r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if cleaned == "" {
		cleaned = DefaultFilename
	}

	return fmt.Sprintf("%d_%s", now.UnixMilli(), cleaned)
}
