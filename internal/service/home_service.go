package service

import (
	"bytes"
	"errors"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"gorm.io/gorm"

	"github.com/maisoncms/backend/internal/db"
)

var (
	ErrSectionNotFound   = errors.New("home content section not found")
	ErrSectionKeyMissing = errors.New("section key is required")
	ErrSectionExists     = errors.New("home content section already exists")
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// HomeService manages the editable sections of the public site.
type HomeService struct {
	db *gorm.DB
}

// HomeSectionInput carries the fields accepted when creating or editing a
// section. Content is markdown.
type HomeSectionInput struct {
	SectionKey   string
	Title        string
	Subtitle     string
	Content      string
	ImageURL     string
	ButtonText   string
	ButtonURL    string
	DisplayOrder int
	IsActive     *bool
}

// RenderedSection is a section prepared for the public site: the stored
// markdown rendered to sanitized HTML.
type RenderedSection struct {
	db.HomeContent
	ContentHTML template.HTML `json:"content_html"`
}

// NewHomeService creates a HomeService instance.
func NewHomeService(gdb *gorm.DB) *HomeService {
	return &HomeService{db: gdb}
}

// ListActive returns the active sections in display order with their
// content rendered for the public page.
func (s *HomeService) ListActive() ([]RenderedSection, error) {
	var sections []db.HomeContent
	if err := s.db.Where("is_active = ?", true).
		Order("display_order asc").
		Find(&sections).Error; err != nil {
		return nil, err
	}

	rendered := make([]RenderedSection, 0, len(sections))
	for _, section := range sections {
		rendered = append(rendered, RenderedSection{
			HomeContent: section,
			ContentHTML: renderMarkdown(section.Content),
		})
	}
	return rendered, nil
}

// ListAll returns every section, active or not, for the admin editor.
func (s *HomeService) ListAll() ([]db.HomeContent, error) {
	var sections []db.HomeContent
	if err := s.db.Order("display_order asc").Find(&sections).Error; err != nil {
		return nil, err
	}
	return sections, nil
}

// GetBySection fetches one section by its key.
func (s *HomeService) GetBySection(key string) (*db.HomeContent, error) {
	var section db.HomeContent
	if err := s.db.Where("section_key = ?", strings.TrimSpace(key)).First(&section).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}
	return &section, nil
}

// Create inserts a new section. Section keys are unique.
func (s *HomeService) Create(input HomeSectionInput, actorID string) (*db.HomeContent, error) {
	key := strings.TrimSpace(input.SectionKey)
	if key == "" {
		return nil, ErrSectionKeyMissing
	}

	var existing db.HomeContent
	err := s.db.Where("section_key = ?", key).First(&existing).Error
	if err == nil {
		return nil, ErrSectionExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	section := db.HomeContent{
		SectionKey:   key,
		Title:        strings.TrimSpace(input.Title),
		Subtitle:     strings.TrimSpace(input.Subtitle),
		Content:      input.Content,
		ImageURL:     strings.TrimSpace(input.ImageURL),
		ButtonText:   strings.TrimSpace(input.ButtonText),
		ButtonURL:    strings.TrimSpace(input.ButtonURL),
		DisplayOrder: input.DisplayOrder,
		IsActive:     boolOrDefault(input.IsActive, true),
		UpdatedBy:    actorID,
	}
	if err := s.db.Create(&section).Error; err != nil {
		return nil, err
	}
	return &section, nil
}

// Update overwrites a section's editable fields. The section key itself
// never changes.
func (s *HomeService) Update(key string, input HomeSectionInput, actorID string) (*db.HomeContent, error) {
	section, err := s.GetBySection(key)
	if err != nil {
		return nil, err
	}

	section.Title = strings.TrimSpace(input.Title)
	section.Subtitle = strings.TrimSpace(input.Subtitle)
	section.Content = input.Content
	section.ImageURL = strings.TrimSpace(input.ImageURL)
	section.ButtonText = strings.TrimSpace(input.ButtonText)
	section.ButtonURL = strings.TrimSpace(input.ButtonURL)
	section.DisplayOrder = input.DisplayOrder
	if input.IsActive != nil {
		section.IsActive = *input.IsActive
	}
	section.UpdatedBy = actorID

	if err := s.db.Save(section).Error; err != nil {
		return nil, err
	}
	return section, nil
}

// ToggleActive flips a section's visibility.
func (s *HomeService) ToggleActive(key string, actorID string) (*db.HomeContent, error) {
	section, err := s.GetBySection(key)
	if err != nil {
		return nil, err
	}

	section.IsActive = !section.IsActive
	section.UpdatedBy = actorID
	if err := s.db.Save(section).Error; err != nil {
		return nil, err
	}
	return section, nil
}

// Delete removes a section.
func (s *HomeService) Delete(key string) error {
	section, err := s.GetBySection(key)
	if err != nil {
		return err
	}
	return s.db.Delete(section).Error
}

// renderMarkdown converts stored markdown to HTML and strips anything the
// sanitizer does not allow. A render failure falls back to escaped text.
func renderMarkdown(markdown string) template.HTML {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(markdown), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(markdown))
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes()))
}
