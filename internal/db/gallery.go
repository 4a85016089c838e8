package db

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GalleryImage is one photograph entry. The row exists only once the
// original upload has been durably stored; OriginalURL always points at a
// real storage object.
type GalleryImage struct {
	ID           string         `gorm:"primaryKey;size:36" json:"id"`
	Title        string         `gorm:"not null" json:"title"`
	Description  string         `json:"description"`
	AltText      string         `json:"alt_text"`
	Category     string         `json:"category"`
	OriginalURL  string         `gorm:"not null" json:"original_url"`
	DisplayOrder int            `gorm:"default:0" json:"display_order"`
	IsFeatured   bool           `json:"is_featured"`
	IsActive     bool           `json:"is_active"`
	UploadedBy   string         `json:"uploaded_by"`
	Variants     []ImageVariant `gorm:"foreignKey:GalleryImageID;constraint:OnDelete:CASCADE" json:"image_variants"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (g *GalleryImage) BeforeCreate(*gorm.DB) error {
	if strings.TrimSpace(g.ID) == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// ImageVariant is a derived rendition owned by exactly one GalleryImage.
// The set of rows for an image is always a subset of what the generator
// produced and the store accepted; it may be empty.
type ImageVariant struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	GalleryImageID string    `gorm:"index;not null" json:"gallery_image_id"`
	VariantType    string    `gorm:"not null" json:"variant_type"`
	URL            string    `gorm:"not null" json:"url"`
	Width          int       `json:"width"`
	Height         int       `json:"height"`
	FileSize       int       `json:"file_size"`
	Format         string    `json:"format"`
	CreatedAt      time.Time `json:"created_at"`
}

func (v *ImageVariant) BeforeCreate(*gorm.DB) error {
	if strings.TrimSpace(v.ID) == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
