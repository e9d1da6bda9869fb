// Package utils provides filename sanitization and UUID generation.
//
// Functions:
//   - SanitizeFilename: Returns a safe, lowercase filename component.
//     Input: string (raw identifier)
//     Output: string (sanitized identifier, no extension)
//   - FoldDiacritics: Strips combining marks ("María" -> "Maria").
//   - GenerateUUID: Returns a new UUID string.
//
// Used throughout the backend for safe file handling and unique IDs.
package utils

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	unsafeChars   = regexp.MustCompile(`[<>:"/\\|?*]`)
	nonASCII      = regexp.MustCompile(`[^A-Za-z0-9 ._-]`)
	whitespaceRun = regexp.MustCompile(`\s+`)
	underscoreRun = regexp.MustCompile(`_+`)

	diacriticFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// SanitizeFilename makes name safe for use as a filename component:
// filesystem-unsafe characters become underscores, whitespace and
// underscore runs collapse to a single underscore, leading/trailing
// underscores are trimmed, and the result is lowercased. Any non-ASCII
// left after diacritic folding is dropped.
func SanitizeFilename(name string) string {
	s := FoldDiacritics(name)
	s = unsafeChars.ReplaceAllString(s, "_")
	s = nonASCII.ReplaceAllString(s, "")
	s = whitespaceRun.ReplaceAllString(s, "_")
	s = underscoreRun.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return strings.ToLower(s)
}

// FoldDiacritics decomposes accented characters and removes the combining
// marks, so e.g. "Ñoño" becomes "Nono". Characters without a decomposition
// pass through unchanged.
func FoldDiacritics(s string) string {
	out, _, err := transform.String(diacriticFolder, s)
	if err != nil {
		return s
	}
	return out
}

func GenerateUUID() string {
	return uuid.New().String()
}
