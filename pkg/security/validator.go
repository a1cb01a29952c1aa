package security

import (
	"path/filepath"
	"strings"
	"unicode"
)

// MaxExtensionLength bounds the extension kept from an uploaded filename, dot included
const MaxExtensionLength = 16

// Extension returns the extension of an uploaded filename as the client
// sent it, or "" when the extension is missing, too long or contains
// anything other than letters and digits.
func Extension(filename string) string {
	// Browsers on Windows may send full client paths
	filename = strings.ReplaceAll(filename, "\\", "/")
	ext := filepath.Ext(filepath.Base(filename))

	if len(ext) < 2 || len(ext) > MaxExtensionLength {
		return ""
	}

	for _, char := range ext[1:] {
		if !isValidExtensionChar(char) {
			return ""
		}
	}

	return ext
}

// SafeExtension is Extension lower-cased, so names built from it do not
// depend on the client's casing.
func SafeExtension(filename string) string {
	return strings.ToLower(Extension(filename))
}

// isValidExtensionChar checks if a character may appear in a stored extension
func isValidExtensionChar(char rune) bool {
	return char < unicode.MaxASCII && (unicode.IsLetter(char) || unicode.IsDigit(char))
}
