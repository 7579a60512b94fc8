package fetcher

import (
	"regexp"
	"strings"
)

const maxFilenameLen = 240

var (
	illegalChars = regexp.MustCompile(`[\\/:"*?<>|]+`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// sanitizeFilename strips characters that are illegal in file names,
// collapses whitespace and caps the length so titles coming from arbitrary
// sites can't produce unusable paths
func sanitizeFilename(name string) string {
	name = illegalChars.ReplaceAllString(name, "_")
	name = strings.TrimSpace(whitespace.ReplaceAllString(name, " "))

	if len(name) > maxFilenameLen {
		name = name[:maxFilenameLen]
	}

	return name
}
