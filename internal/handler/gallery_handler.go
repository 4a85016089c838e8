package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/maisoncms/backend/internal/service"
)

type galleryUpdatePayload struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	AltText      *string `json:"alt_text"`
	Category     *string `json:"category"`
	DisplayOrder *int    `json:"display_order"`
	IsFeatured   *bool   `json:"is_featured"`
	IsActive     *bool   `json:"is_active"`
}

type reorderPayload struct {
	Items []service.ReorderItem `json:"items"`
}

// UploadGalleryImage ingests a multipart image upload with its metadata.
func (a *API) UploadGalleryImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "image file is required")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "could not read uploaded file")
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		respondError(c, http.StatusBadRequest, "could not read uploaded file")
		return
	}

	meta := service.UploadMetadata{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		AltText:     c.PostForm("alt_text"),
		Category:    c.PostForm("category"),
	}
	if raw := strings.TrimSpace(c.PostForm("display_order")); raw != "" {
		if order, err := strconv.Atoi(raw); err == nil {
			meta.DisplayOrder = order
		}
	}
	if raw := strings.TrimSpace(c.PostForm("is_featured")); raw != "" {
		if featured, err := strconv.ParseBool(raw); err == nil {
			meta.IsFeatured = &featured
		}
	}
	if raw := strings.TrimSpace(c.PostForm("is_active")); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			meta.IsActive = &active
		}
	}

	file := service.UploadFile{
		Bytes:    data,
		Filename: fileHeader.Filename,
		MIMEType: fileHeader.Header.Get("Content-Type"),
		Size:     fileHeader.Size,
	}

	item, err := a.gallery.Upload(c.Request.Context(), file, meta, c.GetString(contextAdminID))
	if err != nil {
		var uploadErr *service.FileUploadError
		switch {
		case errors.As(err, &uploadErr):
			respondError(c, http.StatusBadRequest, uploadErr.Reason)
		case errors.Is(err, service.ErrImageTitleMissing):
			respondError(c, http.StatusBadRequest, "title is required")
		default:
			a.log.Error("gallery upload failed", "error", err)
			respondError(c, http.StatusInternalServerError, "failed to store the image")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// ListGalleryImages returns gallery images for the admin view, with
// optional is_active / is_featured / category filters and pagination.
func (a *API) ListGalleryImages(c *gin.Context) {
	filter := service.GalleryFilter{
		IsActive:   parseBoolQuery(c, "is_active"),
		IsFeatured: parseBoolQuery(c, "is_featured"),
		Category:   c.Query("category"),
		Limit:      parseIntQuery(c, "limit", 0),
		Offset:     parseIntQuery(c, "offset", 0),
	}

	result, err := a.gallery.List(filter)
	if err != nil {
		a.log.Error("gallery list failed", "error", err)
		respondError(c, http.StatusInternalServerError, "failed to load gallery")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": result.Items, "total": result.Total})
}

// PublicGallery returns only active images for the public site.
func (a *API) PublicGallery(c *gin.Context) {
	active := true
	result, err := a.gallery.List(service.GalleryFilter{
		IsActive: &active,
		Category: c.Query("category"),
		Limit:    parseIntQuery(c, "limit", 0),
		Offset:   parseIntQuery(c, "offset", 0),
	})
	if err != nil {
		a.log.Error("public gallery list failed", "error", err)
		respondError(c, http.StatusInternalServerError, "failed to load gallery")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": result.Items, "total": result.Total})
}

// FeaturedGallery returns active featured images for the landing page.
func (a *API) FeaturedGallery(c *gin.Context) {
	items, err := a.gallery.Featured(parseIntQuery(c, "limit", 6))
	if err != nil {
		a.log.Error("featured gallery failed", "error", err)
		respondError(c, http.StatusInternalServerError, "failed to load featured images")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetGalleryImage returns one image with its variants.
func (a *API) GetGalleryImage(c *gin.Context) {
	item, err := a.gallery.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			respondError(c, http.StatusNotFound, "image not found")
			return
		}
		a.log.Error("gallery get failed", "error", err)
		respondError(c, http.StatusInternalServerError, "failed to load image")
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// UpdateGalleryImage applies a partial metadata edit.
func (a *API) UpdateGalleryImage(c *gin.Context) {
	var payload galleryUpdatePayload
	if !bindJSON(c, &payload, "invalid update request") {
		return
	}

	item, err := a.gallery.Update(c.Param("id"), service.GalleryUpdateInput{
		Title:        payload.Title,
		Description:  payload.Description,
		AltText:      payload.AltText,
		Category:     payload.Category,
		DisplayOrder: payload.DisplayOrder,
		IsFeatured:   payload.IsFeatured,
		IsActive:     payload.IsActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImageNotFound):
			respondError(c, http.StatusNotFound, "image not found")
		case errors.Is(err, service.ErrImageTitleMissing):
			respondError(c, http.StatusBadRequest, "title cannot be empty")
		default:
			a.log.Error("gallery update failed", "error", err)
			respondError(c, http.StatusInternalServerError, "failed to update image")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// DeleteGalleryImage removes the image, its variant rows and, best-effort,
// its stored objects.
func (a *API) DeleteGalleryImage(c *gin.Context) {
	if err := a.gallery.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			respondError(c, http.StatusNotFound, "image not found")
			return
		}
		a.log.Error("gallery delete failed", "error", err)
		respondError(c, http.StatusInternalServerError, "failed to delete image")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "image deleted"})
}

// ReorderGalleryImages applies new display positions.
func (a *API) ReorderGalleryImages(c *gin.Context) {
	var payload reorderPayload
	if !bindJSON(c, &payload, "invalid reorder request") {
		return
	}
	if len(payload.Items) == 0 {
		respondError(c, http.StatusBadRequest, "no items to reorder")
		return
	}

	if err := a.gallery.Reorder(c.Request.Context(), payload.Items); err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			respondError(c, http.StatusNotFound, "one or more images were not found")
			return
		}
		a.log.Error("gallery reorder failed", "error", err)
		respondError(c, http.StatusInternalServerError, "failed to reorder images")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "order updated"})
}
