package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func postJSON(t *testing.T, handler gin.HandlerFunc, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	handler(c)
	return w
}

func loginTokens(t *testing.T, api *API, email, password string) (access, refresh string) {
	t.Helper()

	w := postJSON(t, api.Login, "/api/auth/login", map[string]string{"email": email, "password": password})
	if w.Code != http.StatusOK {
		t.Fatalf("login failed with status %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Tokens struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		} `json:"tokens"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	return resp.Tokens.AccessToken, resp.Tokens.RefreshToken
}

func TestLoginReturnsTokensAndRejectsBadPassword(t *testing.T) {
	api, gdb, cleanup := setupTestAPI(t)
	defer cleanup()

	seedTestAdmin(t, gdb, "owner@example.com", "correct horse")

	access, refresh := loginTokens(t, api, "owner@example.com", "correct horse")
	if access == "" || refresh == "" {
		t.Fatalf("expected both tokens to be issued")
	}

	w := postJSON(t, api.Login, "/api/auth/login", map[string]string{"email": "owner@example.com", "password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestRefreshEndpoint(t *testing.T) {
	api, gdb, cleanup := setupTestAPI(t)
	defer cleanup()

	seedTestAdmin(t, gdb, "owner@example.com", "correct horse")
	_, refresh := loginTokens(t, api, "owner@example.com", "correct horse")

	w := postJSON(t, api.Refresh, "/api/auth/refresh", map[string]string{"refresh_token": refresh})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	w = postJSON(t, api.Refresh, "/api/auth/refresh", map[string]string{"refresh_token": "garbage"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestAuthRequiredMiddleware(t *testing.T) {
	api, gdb, cleanup := setupTestAPI(t)
	defer cleanup()

	admin := seedTestAdmin(t, gdb, "owner@example.com", "correct horse")
	access, _ := loginTokens(t, api, "owner@example.com", "correct horse")

	r := gin.New()
	r.GET("/me", api.AuthRequired(), api.Me)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without token, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 with bad token, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 with valid token, got %d", w.Code)
	}

	var me struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &me); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if me.ID != admin.ID {
		t.Fatalf("expected identity %s, got %s", admin.ID, me.ID)
	}
}

func TestRequireRole(t *testing.T) {
	api, gdb, cleanup := setupTestAPI(t)
	defer cleanup()

	seedTestAdmin(t, gdb, "owner@example.com", "correct horse")
	access, _ := loginTokens(t, api, "owner@example.com", "correct horse")

	r := gin.New()
	r.GET("/super", api.AuthRequired(), RequireRole("super_admin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/super", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403 for plain admin, got %d", w.Code)
	}
}

func TestLoginRateLimitBlocksAfterBurst(t *testing.T) {
	api, gdb, cleanup := setupTestAPI(t)
	defer cleanup()

	seedTestAdmin(t, gdb, "owner@example.com", "correct horse")

	r := gin.New()
	r.POST("/login", LoginRateLimit(1, 2), api.Login)

	body := []byte(`{"email":"owner@example.com","password":"wrong"}`)
	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
	}

	if statuses[0] != http.StatusUnauthorized || statuses[1] != http.StatusUnauthorized {
		t.Fatalf("expected first attempts to reach the handler, got %v", statuses)
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Fatalf("expected third attempt to be rate limited, got %v", statuses)
	}
}
