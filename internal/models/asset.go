package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Asset represents a stored binary object on whichever backend was active when
// it was written. ContentHash is the dedup key: the composite unique index on
// (content_hash, category) is the authoritative duplicate check. Two
// concurrent uploads of identical bytes may both pass the application-level
// lookup, but only one insert survives.
type Asset struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Key          string    `gorm:"size:512;uniqueIndex" json:"key"`
	ThumbnailKey string    `gorm:"size:512" json:"thumbnail_key,omitempty"`
	Filename     string    `gorm:"size:255" json:"filename"`
	ContentType  string    `gorm:"size:120" json:"content_type"`
	Category     string    `gorm:"size:32;index;uniqueIndex:idx_assets_hash_category" json:"category"`
	SizeBytes    int64     `json:"size_bytes"`
	ContentHash  string    `gorm:"size:128;uniqueIndex:idx_assets_hash_category" json:"content_hash"`
	PublicURL    string    `gorm:"size:1024" json:"public_url"`
	ThumbnailURL string    `gorm:"size:1024" json:"thumbnail_url,omitempty"`

	// Owning domain record, e.g. ("members", "jane-doe"). Used to distinguish
	// a benign re-submit from a foreign duplicate.
	OwnerKind string `gorm:"size:64;index:idx_assets_owner" json:"owner_kind"`
	OwnerID   string `gorm:"size:64;index:idx_assets_owner" json:"owner_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
