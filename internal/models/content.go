package models

import "time"

// Content rows are keyed by a caller-supplied string ID: the seed id for
// seeded rows, a generated UUID string for rows created through the admin API.
// A string primary key lets the seed loader's conflict-ignoring bulk insert
// stay idempotent across runs.

// Member is a person listed on the public site.
type Member struct {
	ID        string `gorm:"size:64;primaryKey" json:"id"`
	Name      string `gorm:"size:255;not null" json:"name"`
	Role      string `gorm:"size:255" json:"role"`
	Email     string `gorm:"size:255" json:"email,omitempty"`
	Bio       string `gorm:"size:2000" json:"bio,omitempty"`
	PhotoPath string `gorm:"size:1024" json:"photo_path,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GalleryItem is a single image in the public gallery.
type GalleryItem struct {
	ID            string `gorm:"size:64;primaryKey" json:"id"`
	Title         string `gorm:"size:255;not null" json:"title"`
	Description   string `gorm:"size:2000" json:"description,omitempty"`
	Path          string `gorm:"size:1024" json:"path"`
	ThumbnailPath string `gorm:"size:1024" json:"thumbnail_path,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Publication is a downloadable document (paper, report, newsletter).
type Publication struct {
	ID       string `gorm:"size:64;primaryKey" json:"id"`
	Title    string `gorm:"size:512;not null" json:"title"`
	Authors  string `gorm:"size:512" json:"authors,omitempty"`
	Year     int    `json:"year,omitempty"`
	FilePath string `gorm:"size:1024" json:"file_path"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Video is an embedded or hosted video entry.
type Video struct {
	ID            string `gorm:"size:64;primaryKey" json:"id"`
	Title         string `gorm:"size:255;not null" json:"title"`
	Description   string `gorm:"size:2000" json:"description,omitempty"`
	VideoPath     string `gorm:"size:1024" json:"video_path"`
	ThumbnailPath string `gorm:"size:1024" json:"thumbnail_path,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Material is a piece of educational material.
type Material struct {
	ID          string `gorm:"size:64;primaryKey" json:"id"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"size:2000" json:"description,omitempty"`
	FilePath    string `gorm:"size:1024" json:"file_path"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Event is a public event announcement.
type Event struct {
	ID          string    `gorm:"size:64;primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Date        time.Time `json:"date"`
	Location    string    `gorm:"size:255" json:"location,omitempty"`
	Description string    `gorm:"size:2000" json:"description,omitempty"`
	ImagePath   string    `gorm:"size:1024" json:"image_path,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
