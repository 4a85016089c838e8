package db

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HomeContent is one editable section of the public site (hero, about,
// features, ...). Content is stored as markdown and rendered on the way out.
type HomeContent struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	SectionKey   string    `gorm:"uniqueIndex;not null" json:"section_key"`
	Title        string    `json:"title"`
	Subtitle     string    `json:"subtitle"`
	Content      string    `gorm:"type:text" json:"content"`
	ImageURL     string    `json:"image_url"`
	ButtonText   string    `json:"button_text"`
	ButtonURL    string    `json:"button_url"`
	DisplayOrder int       `gorm:"default:0" json:"display_order"`
	IsActive     bool      `json:"is_active"`
	UpdatedBy    string    `json:"updated_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (h *HomeContent) BeforeCreate(*gorm.DB) error {
	if strings.TrimSpace(h.ID) == "" {
		h.ID = uuid.NewString()
	}
	return nil
}
