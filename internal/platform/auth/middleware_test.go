package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newGuardedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	protected := r.Group("/", RequireAuth(testSecret))
	protected.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString(CtxUserIDKey),
			"role":    c.GetString(CtxRoleKey),
		})
	})

	admin := protected.Group("/", RequireAdmin())
	admin.GET("/admin", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func loginToken(t *testing.T, role string) string {
	t.Helper()
	store := newFakeStore()
	seedAccount(t, store, "budi@example.com", "rahasia", role)
	token, _, err := NewServiceWithStore(store, testSecret).Login(context.Background(), "budi@example.com", "rahasia")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return token
}

func get(r *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	r := newGuardedRouter()

	t.Run("missing header", func(t *testing.T) {
		if w := get(r, "/me", ""); w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		if w := get(r, "/me", "Token abc"); w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		if w := get(r, "/me", "Bearer not.a.jwt"); w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("token signed with a different secret", func(t *testing.T) {
		store := newFakeStore()
		seedAccount(t, store, "budi@example.com", "rahasia", "staff")
		token, _, err := NewServiceWithStore(store, []byte("other-secret")).Login(context.Background(), "budi@example.com", "rahasia")
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		if w := get(r, "/me", "Bearer "+token); w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("valid token passes with claims in context", func(t *testing.T) {
		w := get(r, "/me", "Bearer "+loginToken(t, "staff"))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		body := w.Body.String()
		if !strings.Contains(body, "01ARZ3NDEKTSV4RRFFQ69G5FAV") || !strings.Contains(body, "staff") {
			t.Fatalf("claims missing from context: %s", body)
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	r := newGuardedRouter()

	t.Run("staff is forbidden", func(t *testing.T) {
		if w := get(r, "/admin", "Bearer "+loginToken(t, "staff")); w.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", w.Code)
		}
	})

	t.Run("admin passes", func(t *testing.T) {
		if w := get(r, "/admin", "Bearer "+loginToken(t, "admin")); w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})
}
