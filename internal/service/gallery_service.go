package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/maisoncms/backend/internal/db"
	"github.com/maisoncms/backend/internal/imaging"
	"github.com/maisoncms/backend/internal/logger"
	"github.com/maisoncms/backend/internal/storage"
)

var (
	ErrImageNotFound     = errors.New("gallery image not found")
	ErrImageTitleMissing = errors.New("image title is required")
)

// FileUploadError rejects an upload before any side effect happens. The
// reason is safe to show to the client.
type FileUploadError struct {
	Reason string
}

func (e *FileUploadError) Error() string {
	return e.Reason
}

var allowedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".webp": true,
	".avif": true,
}

var allowedMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/avif": true,
}

// GalleryService runs the image ingestion pipeline and gallery CRUD.
type GalleryService struct {
	db             *gorm.DB
	store          storage.ObjectStore
	uploader       *storage.Uploader
	log            *logger.Logger
	maxUploadBytes int64
}

// UploadFile is the raw file part of an ingestion request.
type UploadFile struct {
	Bytes    []byte
	Filename string
	MIMEType string
	Size     int64
}

// UploadMetadata carries the descriptive fields accepted alongside the file.
type UploadMetadata struct {
	Title        string
	Description  string
	AltText      string
	Category     string
	DisplayOrder int
	IsFeatured   *bool
	IsActive     *bool
}

// GalleryFilter describes filters for listing gallery images.
type GalleryFilter struct {
	IsActive   *bool
	IsFeatured *bool
	Category   string
	Limit      int
	Offset     int
}

// GalleryListResult aggregates a filtered page of gallery images.
type GalleryListResult struct {
	Items []db.GalleryImage
	Total int64
}

// GalleryUpdateInput holds the metadata fields an edit may change. Nil
// pointers leave the stored value untouched.
type GalleryUpdateInput struct {
	Title        *string
	Description  *string
	AltText      *string
	Category     *string
	DisplayOrder *int
	IsFeatured   *bool
	IsActive     *bool
}

// ReorderItem assigns one image its new display position.
type ReorderItem struct {
	ID           string `json:"id"`
	DisplayOrder int    `json:"display_order"`
}

// NewGalleryService creates a GalleryService instance.
func NewGalleryService(gdb *gorm.DB, store storage.ObjectStore, log *logger.Logger, maxUploadBytes int64) *GalleryService {
	return &GalleryService{
		db:             gdb,
		store:          store,
		uploader:       storage.NewUploader(store, log),
		log:            log,
		maxUploadBytes: maxUploadBytes,
	}
}

// Upload runs the full ingestion pipeline: validate, transcode, store,
// persist. Storage is written before the database row; if the row insert
// fails, every uploaded object is deleted again and the error propagates.
// Failures after the image row exists are logged and swallowed so a stored
// image is never lost to secondary-metadata trouble.
func (s *GalleryService) Upload(ctx context.Context, file UploadFile, meta UploadMetadata, actorID string) (*db.GalleryImage, error) {
	if err := s.validateUpload(file); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(meta.Title)
	if title == "" {
		return nil, ErrImageTitleMissing
	}

	s.log.Info("ingesting gallery image", "filename", file.Filename, "size", file.Size)

	processed := imaging.Process(file.Bytes, file.MIMEType)

	uploaded, err := s.uploader.Upload(ctx, processed, file.Filename)
	if err != nil {
		return nil, err
	}

	altText := strings.TrimSpace(meta.AltText)
	if altText == "" {
		altText = title
	}

	item := db.GalleryImage{
		Title:        title,
		Description:  strings.TrimSpace(meta.Description),
		AltText:      altText,
		Category:     strings.TrimSpace(meta.Category),
		OriginalURL:  uploaded.Original.URL,
		DisplayOrder: meta.DisplayOrder,
		IsFeatured:   boolOrDefault(meta.IsFeatured, true),
		IsActive:     boolOrDefault(meta.IsActive, true),
		UploadedBy:   actorID,
	}

	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		// Compensate: the objects are orphans without a row pointing at
		// them. Delete is best-effort and must not mask the insert error.
		s.log.Warn("image insert failed, removing uploaded objects", "paths", uploaded.Paths(), "error", err)
		s.store.Delete(ctx, uploaded.Paths())
		return nil, fmt.Errorf("persist gallery image: %w", err)
	}

	if len(uploaded.Variants) > 0 {
		rows := make([]db.ImageVariant, 0, len(uploaded.Variants))
		for variantType, artifact := range uploaded.Variants {
			rows = append(rows, db.ImageVariant{
				GalleryImageID: item.ID,
				VariantType:    variantType,
				URL:            artifact.URL,
				Width:          artifact.Width,
				Height:         artifact.Height,
				FileSize:       artifact.Size,
				Format:         artifact.Format,
			})
		}
		if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
			// The image row and its original stay valid; the image just
			// ends up with fewer variant rows than were uploaded.
			s.log.Error("failed to persist variant rows", "image_id", item.ID, "error", err)
		}
	}

	s.log.Info("gallery image stored", "image_id", item.ID, "variants", len(uploaded.Variants))

	return s.Get(item.ID)
}

// List returns gallery images matching the filter together with the
// unpaginated total, ordered by display order then recency.
func (s *GalleryService) List(filter GalleryFilter) (GalleryListResult, error) {
	var result GalleryListResult

	query := s.db.Model(&db.GalleryImage{})
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.IsFeatured != nil {
		query = query.Where("is_featured = ?", *filter.IsFeatured)
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Count(&result.Total).Error; err != nil {
		return result, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	if err := query.Preload("Variants").
		Order("display_order asc").Order("created_at desc").
		Find(&result.Items).Error; err != nil {
		return result, err
	}

	return result, nil
}

// Featured returns active featured images for the public landing page.
func (s *GalleryService) Featured(limit int) ([]db.GalleryImage, error) {
	active, featured := true, true
	result, err := s.List(GalleryFilter{IsActive: &active, IsFeatured: &featured, Limit: limit})
	if err != nil {
		return nil, err
	}
	return result.Items, nil
}

// Get fetches a gallery image with its variants by id.
func (s *GalleryService) Get(id string) (*db.GalleryImage, error) {
	var item db.GalleryImage
	if err := s.db.Preload("Variants").First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Update applies a partial metadata edit. Variants are never touched here.
func (s *GalleryService) Update(id string, input GalleryUpdateInput) (*db.GalleryImage, error) {
	var item db.GalleryImage
	if err := s.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrImageTitleMissing
		}
		item.Title = title
	}
	if input.Description != nil {
		item.Description = strings.TrimSpace(*input.Description)
	}
	if input.AltText != nil {
		item.AltText = strings.TrimSpace(*input.AltText)
	}
	if input.Category != nil {
		item.Category = strings.TrimSpace(*input.Category)
	}
	if input.DisplayOrder != nil {
		item.DisplayOrder = *input.DisplayOrder
	}
	if input.IsFeatured != nil {
		item.IsFeatured = *input.IsFeatured
	}
	if input.IsActive != nil {
		item.IsActive = *input.IsActive
	}

	if err := s.db.Save(&item).Error; err != nil {
		return nil, err
	}
	return s.Get(item.ID)
}

// Delete removes the image row (variants cascade with it) and then tries
// to remove the stored objects. Database state never depends on the
// storage cleanup succeeding.
func (s *GalleryService) Delete(ctx context.Context, id string) error {
	var item db.GalleryImage
	if err := s.db.Preload("Variants").First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImageNotFound
		}
		return err
	}

	if err := s.db.WithContext(ctx).Select("Variants").Delete(&item).Error; err != nil {
		return err
	}

	paths := make([]string, 0, len(item.Variants)+1)
	if path := objectPathFromURL(item.OriginalURL); path != "" {
		paths = append(paths, path)
	}
	for _, v := range item.Variants {
		if path := objectPathFromURL(v.URL); path != "" {
			paths = append(paths, path)
		}
	}
	s.store.Delete(ctx, paths)

	return nil
}

// Reorder applies new display positions as independent per-row updates
// issued concurrently. There is no cross-row transaction: a partial
// failure leaves a mixed order, and re-issuing the same request converges.
func (s *GalleryService) Reorder(ctx context.Context, items []ReorderItem) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, it := range items {
		it := it
		g.Go(func() error {
			res := s.db.WithContext(gctx).Model(&db.GalleryImage{}).
				Where("id = ?", it.ID).
				Update("display_order", it.DisplayOrder)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", ErrImageNotFound, it.ID)
			}
			return nil
		})
	}
	return g.Wait()
}

func (s *GalleryService) validateUpload(file UploadFile) error {
	if len(file.Bytes) == 0 {
		return &FileUploadError{Reason: "uploaded file is empty"}
	}
	if file.Size > s.maxUploadBytes {
		return &FileUploadError{Reason: fmt.Sprintf("file exceeds the maximum size of %d bytes", s.maxUploadBytes)}
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return &FileUploadError{Reason: fmt.Sprintf("file extension %q is not allowed", ext)}
	}
	mimeType := strings.ToLower(strings.TrimSpace(file.MIMEType))
	if !allowedMIMETypes[mimeType] {
		return &FileUploadError{Reason: fmt.Sprintf("content type %q is not an accepted image type", mimeType)}
	}
	return nil
}

// objectPathFromURL recovers the storage path from a public URL so cleanup
// can address the object directly.
func objectPathFromURL(raw string) string {
	for _, prefix := range []string{"originals/", "variants/"} {
		if idx := strings.Index(raw, prefix); idx >= 0 {
			return raw[idx:]
		}
	}
	return ""
}

func boolOrDefault(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
