package media

import (
	"regexp"
	"strings"
)

// illegalChars are characters not allowed in filenames on common
// filesystems (FAT and NTFS are the strictest of the usual targets).
var illegalChars = regexp.MustCompile(`["*/:<>?\\|\x00]`)

// multiSpace matches runs of whitespace.
var multiSpace = regexp.MustCompile(`\s+`)

// SanitizeFilename strips characters that are unsafe for filenames and
// collapses the whitespace left behind.
func SanitizeFilename(name string) string {
	name = illegalChars.ReplaceAllString(name, "")
	name = multiSpace.ReplaceAllString(name, " ")
	return strings.Trim(name, " .")
}
