package utils

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// Characters invalid in filenames on most filesystems
	invalidFilenameChars = regexp.MustCompile(`[<>:"|?*\x00-\x1f]`)
	// Multiple spaces to collapse
	multipleSpaces = regexp.MustCompile(`\s+`)
)

const maxFilenameLength = 200

// SanitizeFilename reduces an untrusted file name, such as one sent with a
// multipart upload, to a safe base name. Directory components are dropped and
// the extension is preserved so format detection still works.
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "/")
	filename = filepath.Base(filename)
	if filename == "." || filename == "/" || filename == ".." {
		filename = ""
	}

	filename = multipleSpaces.ReplaceAllString(filename, " ")
	filename = invalidFilenameChars.ReplaceAllString(filename, "")
	filename = strings.TrimSpace(filename)
	filename = strings.TrimLeft(filename, ".")

	if len(filename) > maxFilenameLength {
		ext := filepath.Ext(filename)
		if len(ext) > 16 {
			ext = ""
		}
		filename = strings.TrimSpace(filename[:maxFilenameLength-len(ext)]) + ext
	}

	if filename == "" {
		filename = "upload"
	}
	return filename
}
