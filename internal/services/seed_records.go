package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/portico/backend/internal/models"
)

// Kind names a seedable entity type. Kinds are reconciled independently, in
// KindOrder, so records that reference earlier kinds (a publication naming a
// member as author) are seeded after their dependencies.
type Kind string

const (
	KindMembers      Kind = "members"
	KindGallery      Kind = "gallery"
	KindPublications Kind = "publications"
	KindVideos       Kind = "videos"
	KindMaterials    Kind = "educational-material"
	KindEvents       Kind = "events"
)

// KindOrder is the fixed reconciliation order for a full seed pass.
var KindOrder = []Kind{KindMembers, KindGallery, KindPublications, KindVideos, KindMaterials, KindEvents}

// ParseKind resolves an externally supplied kind name, e.g. a CLI flag. A typo
// must fail here rather than succeed as an empty reconciliation.
func ParseKind(name string) (Kind, error) {
	for _, k := range KindOrder {
		if Kind(name) == k {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown seed kind %q", name)
}

// fileRef is one file-reference field of a seed record. Path points into the
// record so the materializer can rewrite the relative reference to the stored
// public URL in place. The materializer routes each file through the same
// category table the upload pipeline uses.
type fileRef struct {
	Field string
	Path  *string
}

// seedRecord is one validated entry from a JSON seed source.
type seedRecord interface {
	RecordID() string
	// Validate reports the first missing required field, if any.
	Validate(kind Kind) error
	FileRefs() []fileRef
}

type memberSeed struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Email string `json:"email"`
	Bio   string `json:"bio"`
	Photo string `json:"photo"`
}

func (r *memberSeed) RecordID() string { return r.ID }

func (r *memberSeed) Validate(kind Kind) error {
	return requireFields(kind, r.ID, map[string]string{"id": r.ID, "name": r.Name, "role": r.Role})
}

func (r *memberSeed) FileRefs() []fileRef {
	if r.Photo == "" {
		return nil
	}
	return []fileRef{{Field: "photo", Path: &r.Photo}}
}

type gallerySeed struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Path          string `json:"path"`
	ThumbnailPath string `json:"thumbnailPath"`
}

func (r *gallerySeed) RecordID() string { return r.ID }

func (r *gallerySeed) Validate(kind Kind) error {
	return requireFields(kind, r.ID, map[string]string{"id": r.ID, "title": r.Title, "path": r.Path})
}

func (r *gallerySeed) FileRefs() []fileRef {
	refs := []fileRef{{Field: "path", Path: &r.Path}}
	if r.ThumbnailPath != "" {
		refs = append(refs, fileRef{Field: "thumbnailPath", Path: &r.ThumbnailPath})
	}
	return refs
}

type publicationSeed struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Authors  string `json:"authors"`
	Year     int    `json:"year"`
	FilePath string `json:"filePath"`
}

func (r *publicationSeed) RecordID() string { return r.ID }

func (r *publicationSeed) Validate(kind Kind) error {
	return requireFields(kind, r.ID, map[string]string{"id": r.ID, "title": r.Title, "filePath": r.FilePath})
}

func (r *publicationSeed) FileRefs() []fileRef {
	return []fileRef{{Field: "filePath", Path: &r.FilePath}}
}

type videoSeed struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	VideoPath     string `json:"videoPath"`
	ThumbnailPath string `json:"thumbnailPath"`
}

func (r *videoSeed) RecordID() string { return r.ID }

func (r *videoSeed) Validate(kind Kind) error {
	return requireFields(kind, r.ID, map[string]string{"id": r.ID, "title": r.Title, "videoPath": r.VideoPath})
}

func (r *videoSeed) FileRefs() []fileRef {
	refs := []fileRef{{Field: "videoPath", Path: &r.VideoPath}}
	if r.ThumbnailPath != "" {
		refs = append(refs, fileRef{Field: "thumbnailPath", Path: &r.ThumbnailPath})
	}
	return refs
}

type materialSeed struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	FilePath    string `json:"filePath"`
}

func (r *materialSeed) RecordID() string { return r.ID }

func (r *materialSeed) Validate(kind Kind) error {
	return requireFields(kind, r.ID, map[string]string{"id": r.ID, "title": r.Title, "filePath": r.FilePath})
}

func (r *materialSeed) FileRefs() []fileRef {
	return []fileRef{{Field: "filePath", Path: &r.FilePath}}
}

type eventSeed struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

func (r *eventSeed) RecordID() string { return r.ID }

func (r *eventSeed) Validate(kind Kind) error {
	if err := requireFields(kind, r.ID, map[string]string{"id": r.ID, "title": r.Title, "date": r.Date}); err != nil {
		return err
	}
	if _, err := parseEventDate(r.Date); err != nil {
		return &SeedValidationError{Kind: string(kind), RecordID: r.ID, Field: "date"}
	}
	return nil
}

func (r *eventSeed) FileRefs() []fileRef {
	if r.Image == "" {
		return nil
	}
	return []fileRef{{Field: "image", Path: &r.Image}}
}

func parseEventDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// requireFields reports the first empty required field in declaration order.
func requireFields(kind Kind, id string, fields map[string]string) error {
	// deterministic order for stable error messages
	for _, name := range []string{"id", "name", "role", "title", "path", "filePath", "videoPath", "date"} {
		if v, ok := fields[name]; ok && v == "" {
			return &SeedValidationError{Kind: string(kind), RecordID: id, Field: name}
		}
	}
	return nil
}

// decodeSeedRecords parses one JSON source for a kind into typed records.
func decodeSeedRecords(kind Kind, data []byte) ([]seedRecord, error) {
	wrap := func(err error) error {
		return fmt.Errorf("failed to decode %s seed source: %w", kind, err)
	}
	switch kind {
	case KindMembers:
		var rows []*memberSeed
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, wrap(err)
		}
		return asSeedRecords(rows), nil
	case KindGallery:
		var rows []*gallerySeed
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, wrap(err)
		}
		return asSeedRecords(rows), nil
	case KindPublications:
		var rows []*publicationSeed
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, wrap(err)
		}
		return asSeedRecords(rows), nil
	case KindVideos:
		var rows []*videoSeed
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, wrap(err)
		}
		return asSeedRecords(rows), nil
	case KindMaterials:
		var rows []*materialSeed
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, wrap(err)
		}
		return asSeedRecords(rows), nil
	case KindEvents:
		var rows []*eventSeed
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, wrap(err)
		}
		return asSeedRecords(rows), nil
	default:
		return nil, fmt.Errorf("unknown seed kind %q", kind)
	}
}

func asSeedRecords[T seedRecord](rows []T) []seedRecord {
	out := make([]seedRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, r)
	}
	return out
}

// buildRows converts validated, file-resolved records into the typed model
// slice the bulk insert writes.
func buildRows(kind Kind, records []seedRecord) (interface{}, error) {
	switch kind {
	case KindMembers:
		rows := make([]models.Member, 0, len(records))
		for _, rec := range records {
			r := rec.(*memberSeed)
			rows = append(rows, models.Member{ID: r.ID, Name: r.Name, Role: r.Role, Email: r.Email, Bio: r.Bio, PhotoPath: r.Photo})
		}
		return rows, nil
	case KindGallery:
		rows := make([]models.GalleryItem, 0, len(records))
		for _, rec := range records {
			r := rec.(*gallerySeed)
			rows = append(rows, models.GalleryItem{ID: r.ID, Title: r.Title, Description: r.Description, Path: r.Path, ThumbnailPath: r.ThumbnailPath})
		}
		return rows, nil
	case KindPublications:
		rows := make([]models.Publication, 0, len(records))
		for _, rec := range records {
			r := rec.(*publicationSeed)
			rows = append(rows, models.Publication{ID: r.ID, Title: r.Title, Authors: r.Authors, Year: r.Year, FilePath: r.FilePath})
		}
		return rows, nil
	case KindVideos:
		rows := make([]models.Video, 0, len(records))
		for _, rec := range records {
			r := rec.(*videoSeed)
			rows = append(rows, models.Video{ID: r.ID, Title: r.Title, Description: r.Description, VideoPath: r.VideoPath, ThumbnailPath: r.ThumbnailPath})
		}
		return rows, nil
	case KindMaterials:
		rows := make([]models.Material, 0, len(records))
		for _, rec := range records {
			r := rec.(*materialSeed)
			rows = append(rows, models.Material{ID: r.ID, Title: r.Title, Description: r.Description, FilePath: r.FilePath})
		}
		return rows, nil
	case KindEvents:
		rows := make([]models.Event, 0, len(records))
		for _, rec := range records {
			r := rec.(*eventSeed)
			date, err := parseEventDate(r.Date)
			if err != nil {
				// Validate already checked the format; a failure here is a bug.
				return nil, fmt.Errorf("unparseable event date %q for record %s", r.Date, r.ID)
			}
			rows = append(rows, models.Event{ID: r.ID, Title: r.Title, Date: date, Location: r.Location, Description: r.Description, ImagePath: r.Image})
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("unknown seed kind %q", kind)
	}
}
