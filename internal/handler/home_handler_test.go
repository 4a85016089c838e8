package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHomeContentCreateAndPublicRender(t *testing.T) {
	api, _, cleanup := setupTestAPI(t)
	defer cleanup()

	payload, _ := json.Marshal(map[string]any{
		"section_key": "hero",
		"title":       "Maison",
		"content":     "A table worth **remembering**.",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/home", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(contextAdminID, "admin-1")

	api.CreateHomeContent(c)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	// Duplicate key conflicts.
	w = postJSON(t, api.CreateHomeContent, "/api/admin/home", map[string]any{"section_key": "hero"})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/home", nil)
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = req

	api.PublicHomeContent(c)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "<strong>remembering</strong>") {
		t.Fatalf("expected rendered markdown in public payload: %s", w.Body.String())
	}
}

func TestHomeContentUpdateAndDelete(t *testing.T) {
	api, _, cleanup := setupTestAPI(t)
	defer cleanup()

	w := postJSON(t, api.CreateHomeContent, "/api/admin/home", map[string]any{"section_key": "hours", "title": "Hours"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", w.Code)
	}

	payload, _ := json.Marshal(map[string]any{"title": "Opening Hours"})
	req := httptest.NewRequest(http.MethodPut, "/api/admin/home/hours", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = req
	c.Params = gin.Params{gin.Param{Key: "key", Value: "hours"}}
	c.Set(contextAdminID, "admin-2")

	api.UpdateHomeContent(c)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/admin/home/hours", nil)
	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = req
	c.Params = gin.Params{gin.Param{Key: "key", Value: "hours"}}

	api.DeleteHomeContent(c)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/home/hours", nil)
	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = req
	c.Params = gin.Params{gin.Param{Key: "key", Value: "hours"}}

	api.GetHomeContent(c)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 after delete, got %d", rec.Code)
	}
}
