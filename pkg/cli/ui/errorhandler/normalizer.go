package errorhandler

import "strings"

// DefaultNormalizer reduces captured stderr output to a single user-facing
// message line.
type DefaultNormalizer struct{}

// Normalize trims whitespace, strips cobra's "Error: " prefix, and collapses
// the capture to its first non-empty line.
func (DefaultNormalizer) Normalize(captured string) string {
	for _, line := range strings.Split(captured, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		return strings.TrimPrefix(line, "Error: ")
	}

	return ""
}
