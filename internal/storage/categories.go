package storage

import (
	"path/filepath"
	"strings"
)

// Category is the logical storage grouping for an asset. On the S3 backend it
// selects the bucket, on the local backend the directory under the upload root.
type Category string

const (
	CategoryImages    Category = "images"
	CategoryVideos    Category = "videos"
	CategoryDocuments Category = "documents"
)

var mimeCategories = map[string]Category{
	"image/jpeg":    CategoryImages,
	"image/png":     CategoryImages,
	"image/gif":     CategoryImages,
	"image/webp":    CategoryImages,
	"image/svg+xml": CategoryImages,

	"video/mp4":       CategoryVideos,
	"video/webm":      CategoryVideos,
	"video/quicktime": CategoryVideos,
	"video/x-msvideo": CategoryVideos,

	"application/pdf":    CategoryDocuments,
	"application/msword": CategoryDocuments,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": CategoryDocuments,
	"application/vnd.ms-excel": CategoryDocuments,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": CategoryDocuments,
	"text/plain":       CategoryDocuments,
	"application/zip":  CategoryDocuments,
	"application/gzip": CategoryDocuments,
}

var extCategories = map[string]Category{
	".jpg": CategoryImages, ".jpeg": CategoryImages, ".png": CategoryImages,
	".gif": CategoryImages, ".webp": CategoryImages, ".svg": CategoryImages,
	".mp4": CategoryVideos, ".webm": CategoryVideos, ".mov": CategoryVideos, ".avi": CategoryVideos,
	".pdf": CategoryDocuments, ".doc": CategoryDocuments, ".docx": CategoryDocuments,
	".xls": CategoryDocuments, ".xlsx": CategoryDocuments, ".txt": CategoryDocuments,
	".zip": CategoryDocuments, ".gz": CategoryDocuments,
}

// CategoryFor maps a declared content type (and, as a fallback, the file
// extension) to a storage category. Unrecognized but otherwise allowed types
// land in documents. The upload pipeline and the seed loader must route through
// this same table so interactive uploads and seeded files end up side by side.
func CategoryFor(contentType, filename string) Category {
	ct := contentType
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	ct = strings.TrimSpace(strings.ToLower(ct))
	if cat, ok := mimeCategories[ct]; ok {
		return cat
	}
	switch {
	case strings.HasPrefix(ct, "image/"):
		return CategoryImages
	case strings.HasPrefix(ct, "video/"):
		return CategoryVideos
	}
	if cat, ok := extCategories[strings.ToLower(filepath.Ext(filename))]; ok {
		return cat
	}
	return CategoryDocuments
}

// Categories lists all storage categories, for callers that iterate buckets or
// candidate directories.
func Categories() []Category {
	return []Category{CategoryImages, CategoryVideos, CategoryDocuments}
}

// ParseCategory resolves an externally supplied category name, e.g. a URL path
// segment.
func ParseCategory(name string) (Category, bool) {
	for _, cat := range Categories() {
		if Category(name) == cat {
			return cat, true
		}
	}
	return "", false
}
