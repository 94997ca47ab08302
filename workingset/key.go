package workingset

import (
	"regexp"
	"strings"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9.]+`)

// Key normalizes a project name to its working-set key: runs of characters
// outside [A-Za-z0-9.] fold to a single dash, and the result is lowercased.
// Distinct names can share a key; collisions are detected against the
// table at registration time, never predicted from the names alone.
func Key(name string) string {
	return strings.ToLower(unsafeChars.ReplaceAllString(name, "-"))
}
