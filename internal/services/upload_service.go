package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/portico/backend/internal/config"
	"github.com/portico/backend/internal/models"
	"github.com/portico/backend/internal/storage"
	"gorm.io/gorm"
)

// UploadProfile is the validation context for a calling form: which declared
// content types are accepted and how large the file may be.
type UploadProfile struct {
	Name    string
	Allowed map[string]bool
	MaxSize int64
}

const (
	ProfileImages    = "images"
	ProfileDocuments = "documents"
	ProfileVideos    = "videos"
	ProfileGeneral   = "general"
)

// UploadService orchestrates the ingest pipeline: validate, hash, dedup,
// route, store, thumbnail.
type UploadService struct {
	db       *gorm.DB
	cfg      *config.Config
	backend  storage.Backend
	profiles map[string]UploadProfile
}

func NewUploadService(db *gorm.DB, cfg *config.Config, backend storage.Backend) *UploadService {
	return &UploadService{
		db:      db,
		cfg:     cfg,
		backend: backend,
		profiles: map[string]UploadProfile{
			ProfileImages: {
				Name:    ProfileImages,
				Allowed: map[string]bool{"image/jpeg": true, "image/png": true, "image/gif": true, "image/webp": true},
				MaxSize: cfg.UploadMaxImageSize,
			},
			ProfileDocuments: {
				Name: ProfileDocuments,
				Allowed: map[string]bool{
					"application/pdf": true,
					"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
					"application/msword": true,
					"text/plain":         true,
				},
				MaxSize: cfg.UploadMaxDocumentSize,
			},
			ProfileVideos: {
				Name:    ProfileVideos,
				Allowed: map[string]bool{"video/mp4": true, "video/webm": true, "video/quicktime": true},
				MaxSize: cfg.UploadMaxSize,
			},
			ProfileGeneral: {
				Name:    ProfileGeneral,
				Allowed: nil, // any type routed by the category table
				MaxSize: cfg.UploadMaxSize,
			},
		},
	}
}

// UploadInput describes one file submitted through an admin form.
type UploadInput struct {
	Data        []byte
	ContentType string
	Filename    string

	// Owning domain record, e.g. ("members", "jane-doe"). Re-submitting the
	// same bytes for the same owner is a no-op; for a different owner it is a
	// duplicate-content rejection.
	OwnerKind string
	OwnerID   string

	Profile           string
	GenerateThumbnail bool
}

// Ingest validates, deduplicates and stores one uploaded file, returning the
// resulting Asset. On any validation or duplicate failure nothing is written
// to the backend.
func (s *UploadService) Ingest(ctx context.Context, in UploadInput) (*models.Asset, error) {
	profile, ok := s.profiles[in.Profile]
	if !ok {
		profile = s.profiles[ProfileGeneral]
	}

	contentType := normalizeContentType(in.ContentType)
	if profile.Allowed != nil && !profile.Allowed[contentType] {
		return nil, &UploadError{Filename: in.Filename, ContentType: contentType, Err: ErrTypeNotAllowed}
	}
	if int64(len(in.Data)) > profile.MaxSize {
		return nil, &UploadError{
			Filename:    in.Filename,
			ContentType: contentType,
			Err:         fmt.Errorf("%w: %d bytes (max %d)", ErrSizeExceeded, len(in.Data), profile.MaxSize),
		}
	}

	contentHash := storage.HashBytes(in.Data)
	category := storage.CategoryFor(contentType, in.Filename)

	// Pre-check for the friendly owner-aware error. The unique index on
	// (content_hash, category) remains the authoritative check below.
	var existing models.Asset
	err := s.db.WithContext(ctx).
		Where("content_hash = ? AND category = ?", contentHash, string(category)).
		First(&existing).Error
	switch {
	case err == nil:
		if existing.OwnerKind == in.OwnerKind && existing.OwnerID == in.OwnerID {
			return &existing, nil
		}
		return nil, &UploadError{Filename: in.Filename, ContentType: contentType, Err: ErrDuplicateContent}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("failed to look up existing asset: %w", err)
	}

	key := storage.BuildObjectKey(contentHash, in.Filename)

	writeCtx, cancel := context.WithTimeout(ctx, s.cfg.StorageWriteTimeout)
	defer cancel()
	obj, err := s.backend.Store(writeCtx, key, bytes.NewReader(in.Data), contentType, category)
	if err != nil {
		return nil, fmt.Errorf("failed to store %s on %s backend: %w", in.Filename, s.backend.Name(), err)
	}
	if obj.Hash != "" && obj.Hash != contentHash {
		s.discard(ctx, key, category)
		return nil, fmt.Errorf("checksum mismatch storing %s: backend wrote %s, expected %s", in.Filename, obj.Hash, contentHash)
	}

	asset := &models.Asset{
		Key:         obj.Key,
		Filename:    in.Filename,
		ContentType: contentType,
		Category:    string(category),
		SizeBytes:   int64(len(in.Data)),
		ContentHash: contentHash,
		PublicURL:   obj.PublicURL,
		OwnerKind:   in.OwnerKind,
		OwnerID:     in.OwnerID,
	}

	if in.GenerateThumbnail && category == storage.CategoryImages {
		thumbData, thumbType, err := renderThumbnail(in.Data, s.cfg.ThumbnailMaxEdge)
		if err != nil {
			s.discard(ctx, key, category)
			return nil, fmt.Errorf("failed to derive thumbnail for %s: %w", in.Filename, err)
		}
		thumbKey := storage.ThumbnailKey(key)
		thumbCtx, cancelThumb := context.WithTimeout(ctx, s.cfg.StorageWriteTimeout)
		defer cancelThumb()
		thumbObj, err := s.backend.Store(thumbCtx, thumbKey, bytes.NewReader(thumbData), thumbType, category)
		if err != nil {
			s.discard(ctx, key, category)
			return nil, fmt.Errorf("failed to store thumbnail for %s: %w", in.Filename, err)
		}
		asset.ThumbnailKey = thumbObj.Key
		asset.ThumbnailURL = thumbObj.PublicURL
	}

	if err := s.db.WithContext(ctx).Create(asset).Error; err != nil {
		// A concurrent upload of the same bytes won the race; the constraint
		// is the authoritative duplicate signal.
		s.discard(ctx, key, category)
		if asset.ThumbnailKey != "" {
			s.discard(ctx, asset.ThumbnailKey, category)
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &UploadError{Filename: in.Filename, ContentType: contentType, Err: ErrDuplicateContent}
		}
		return nil, fmt.Errorf("failed to create asset record: %w", err)
	}

	return asset, nil
}

// Remove deletes an asset row and frees the underlying backend object(s).
// The backend delete runs first so a failure never leaves an orphaned object
// behind a missing row.
func (s *UploadService) Remove(ctx context.Context, assetID uuid.UUID) error {
	var asset models.Asset
	if err := s.db.WithContext(ctx).First(&asset, "id = ?", assetID).Error; err != nil {
		return fmt.Errorf("asset not found: %w", err)
	}

	category := storage.Category(asset.Category)
	if err := s.backend.Delete(ctx, asset.Key, category); err != nil {
		log.Printf("upload: backend delete of %s failed, continuing: %v", asset.Key, err)
	}
	if asset.ThumbnailKey != "" {
		if err := s.backend.Delete(ctx, asset.ThumbnailKey, category); err != nil {
			log.Printf("upload: backend delete of %s failed, continuing: %v", asset.ThumbnailKey, err)
		}
	}

	if err := s.db.WithContext(ctx).Delete(&asset).Error; err != nil {
		return fmt.Errorf("failed to delete asset record: %w", err)
	}
	return nil
}

// GetByID returns a single asset.
func (s *UploadService) GetByID(ctx context.Context, assetID uuid.UUID) (*models.Asset, error) {
	var asset models.Asset
	if err := s.db.WithContext(ctx).First(&asset, "id = ?", assetID).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

// List returns assets newest-first with pagination.
func (s *UploadService) List(ctx context.Context, limit, offset int) ([]models.Asset, int64, error) {
	var assets []models.Asset
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Asset{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Offset(offset).Find(&assets).Error; err != nil {
		return nil, 0, err
	}
	return assets, total, nil
}

func (s *UploadService) discard(ctx context.Context, key string, category storage.Category) {
	delCtx, cancel := context.WithTimeout(ctx, s.cfg.StorageWriteTimeout)
	defer cancel()
	if err := s.backend.Delete(delCtx, key, category); err != nil {
		log.Printf("upload: cleanup delete of %s failed: %v", key, err)
	}
}

func normalizeContentType(ct string) string {
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return strings.TrimSpace(strings.ToLower(ct))
}
