package storage

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SanitizeFilename turns an arbitrary filename into a safe object key segment:
// diacritics are stripped, everything outside [a-z0-9.] collapses to a single
// dash, and the result is lower-cased. The extension is sanitized separately so
// "Fotoğraf Ünal (1).JPG" becomes "fotograf-unal-1.jpg". Object storage naming
// rules are stricter than the local filesystem, so both backends get the
// sanitized form to keep keys and public URLs identical across them.
func SanitizeFilename(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	base := strings.TrimSuffix(name, filepath.Ext(name))

	if folded, _, err := transform.String(stripMarks, base); err == nil {
		base = folded
	}
	base = strings.ToLower(base)

	var b strings.Builder
	lastDash := true // suppress a leading dash
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		out = "file"
	}

	if folded, _, err := transform.String(stripMarks, ext); err == nil {
		ext = folded
	}
	ext = keepAlnumDot(ext)
	return out + ext
}

func keepAlnumDot(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
