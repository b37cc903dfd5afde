package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "photo.jpg", "photo.jpg"},
		{"uppercase and spaces", "Team Photo 2024.JPG", "team-photo-2024.jpg"},
		{"diacritics", "Fotoğraf Ünal.png", "fotograf-unal.png"},
		{"umlauts", "jahresbericht-über-uns.pdf", "jahresbericht-uber-uns.pdf"},
		{"punctuation collapses", "scan (final) -- v2!.pdf", "scan-final-v2.pdf"},
		{"leading trailing junk", "__draft__.docx", "draft.docx"},
		{"no extension", "README", "readme"},
		{"only junk", "???.png", "file.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestSanitizeFilenameIsIdempotent(t *testing.T) {
	once := SanitizeFilename("Curaçao Trip (1).JPEG")
	require.Equal(t, once, SanitizeFilename(once))
}
