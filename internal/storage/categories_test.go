package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCategoryFor(t *testing.T) {
	tests := []struct {
		contentType string
		filename    string
		want        Category
	}{
		{"image/jpeg", "a.jpg", CategoryImages},
		{"image/png; charset=binary", "a.png", CategoryImages},
		{"image/x-exotic", "a.bin", CategoryImages}, // image/* prefix rule
		{"video/mp4", "clip.mp4", CategoryVideos},
		{"application/pdf", "paper.pdf", CategoryDocuments},
		{"application/zip", "bundle.zip", CategoryDocuments},
		{"text/plain", "notes.txt", CategoryDocuments},
		{"", "portrait.JPEG", CategoryImages},       // extension fallback
		{"", "lecture.webm", CategoryVideos},        // extension fallback
		{"application/unknown", "x.bin", CategoryDocuments}, // default
	}
	for _, tt := range tests {
		t.Run(tt.contentType+"/"+tt.filename, func(t *testing.T) {
			require.Equal(t, tt.want, CategoryFor(tt.contentType, tt.filename))
		})
	}
}

func TestCategoriesListsAll(t *testing.T) {
	require.ElementsMatch(t,
		[]Category{CategoryImages, CategoryVideos, CategoryDocuments},
		Categories())
}

func TestParseCategory(t *testing.T) {
	cat, ok := ParseCategory("images")
	require.True(t, ok)
	require.Equal(t, CategoryImages, cat)

	_, ok = ParseCategory("audio")
	require.False(t, ok)

	_, ok = ParseCategory("")
	require.False(t, ok)
}
