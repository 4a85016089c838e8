package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maisoncms/backend/internal/service"
)

type homeSectionPayload struct {
	SectionKey   string `json:"section_key"`
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	Content      string `json:"content"`
	ImageURL     string `json:"image_url"`
	ButtonText   string `json:"button_text"`
	ButtonURL    string `json:"button_url"`
	DisplayOrder int    `json:"display_order"`
	IsActive     *bool  `json:"is_active"`
}

func (p homeSectionPayload) toInput() service.HomeSectionInput {
	return service.HomeSectionInput{
		SectionKey:   p.SectionKey,
		Title:        p.Title,
		Subtitle:     p.Subtitle,
		Content:      p.Content,
		ImageURL:     p.ImageURL,
		ButtonText:   p.ButtonText,
		ButtonURL:    p.ButtonURL,
		DisplayOrder: p.DisplayOrder,
		IsActive:     p.IsActive,
	}
}

// PublicHomeContent returns the active sections with rendered HTML.
func (a *API) PublicHomeContent(c *gin.Context) {
	sections, err := a.home.ListActive()
	if err != nil {
		a.log.Error("home content list failed", "error", err)
		respondError(c, http.StatusInternalServerError, "failed to load content")
		return
	}

	c.JSON(http.StatusOK, gin.H{"sections": sections})
}

// ListHomeContent returns every section, raw markdown included, for the
// admin editor.
func (a *API) ListHomeContent(c *gin.Context) {
	sections, err := a.home.ListAll()
	if err != nil {
		a.log.Error("home content list failed", "error", err)
		respondError(c, http.StatusInternalServerError, "failed to load content")
		return
	}

	c.JSON(http.StatusOK, gin.H{"sections": sections})
}

// GetHomeContent returns one section by key.
func (a *API) GetHomeContent(c *gin.Context) {
	section, err := a.home.GetBySection(c.Param("key"))
	if err != nil {
		if errors.Is(err, service.ErrSectionNotFound) {
			respondError(c, http.StatusNotFound, "section not found")
			return
		}
		a.log.Error("home content get failed", "error", err)
		respondError(c, http.StatusInternalServerError, "failed to load section")
		return
	}

	c.JSON(http.StatusOK, gin.H{"section": section})
}

// CreateHomeContent adds a new section.
func (a *API) CreateHomeContent(c *gin.Context) {
	var payload homeSectionPayload
	if !bindJSON(c, &payload, "invalid section request") {
		return
	}

	section, err := a.home.Create(payload.toInput(), c.GetString(contextAdminID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSectionKeyMissing):
			respondError(c, http.StatusBadRequest, "section key is required")
		case errors.Is(err, service.ErrSectionExists):
			respondError(c, http.StatusConflict, "section already exists")
		default:
			a.log.Error("home content create failed", "error", err)
			respondError(c, http.StatusInternalServerError, "failed to create section")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"section": section})
}

// UpdateHomeContent overwrites a section's editable fields.
func (a *API) UpdateHomeContent(c *gin.Context) {
	var payload homeSectionPayload
	if !bindJSON(c, &payload, "invalid section request") {
		return
	}

	section, err := a.home.Update(c.Param("key"), payload.toInput(), c.GetString(contextAdminID))
	if err != nil {
		if errors.Is(err, service.ErrSectionNotFound) {
			respondError(c, http.StatusNotFound, "section not found")
			return
		}
		a.log.Error("home content update failed", "error", err)
		respondError(c, http.StatusInternalServerError, "failed to update section")
		return
	}

	c.JSON(http.StatusOK, gin.H{"section": section})
}

// ToggleHomeContent flips a section's visibility.
func (a *API) ToggleHomeContent(c *gin.Context) {
	section, err := a.home.ToggleActive(c.Param("key"), c.GetString(contextAdminID))
	if err != nil {
		if errors.Is(err, service.ErrSectionNotFound) {
			respondError(c, http.StatusNotFound, "section not found")
			return
		}
		a.log.Error("home content toggle failed", "error", err)
		respondError(c, http.StatusInternalServerError, "failed to toggle section")
		return
	}

	c.JSON(http.StatusOK, gin.H{"section": section})
}

// DeleteHomeContent removes a section.
func (a *API) DeleteHomeContent(c *gin.Context) {
	if err := a.home.Delete(c.Param("key")); err != nil {
		if errors.Is(err, service.ErrSectionNotFound) {
			respondError(c, http.StatusNotFound, "section not found")
			return
		}
		a.log.Error("home content delete failed", "error", err)
		respondError(c, http.StatusInternalServerError, "failed to delete section")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "section deleted"})
}
