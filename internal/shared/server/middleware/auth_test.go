package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"lexibox-backend/internal/shared/auth"
	"lexibox-backend/internal/users"
)

func newAuthRouter(t *testing.T) (*gin.Engine, users.User) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := users.NewMemoryRepo()
	user := users.User{
		ID:        "u1",
		Name:      "Alice",
		Email:     "a@example.com",
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	r := gin.New()
	r.Use(Auth(repo))
	r.GET("/whoami", func(c *gin.Context) {
		actor, _ := users.ActorFromContext(c)
		c.String(http.StatusOK, actor.Email)
	})
	return r, user
}

func TestAuthAcceptsValidToken(t *testing.T) {
	r, user := newAuthRouter(t)

	token, err := auth.GenerateToken(user.Email, time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if resp.Body.String() != user.Email {
		t.Fatalf("expected actor %s, got %s", user.Email, resp.Body.String())
	}
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	r, _ := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestAuthRejectsMalformedToken(t *testing.T) {
	r, _ := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	r, user := newAuthRouter(t)

	token, err := auth.GenerateToken(user.Email, -time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", resp.Code)
	}
}

func TestAuthRejectsTokenForDeletedUser(t *testing.T) {
	r, _ := newAuthRouter(t)

	// Valid token whose subject never existed in the repo.
	token, err := auth.GenerateToken("ghost@example.com", time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown subject, got %d", resp.Code)
	}
}
