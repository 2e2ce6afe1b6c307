package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lexibox-backend/internal/shared/apperr"
	"lexibox-backend/internal/shared/auth"
	"lexibox-backend/internal/shared/server/respond"
	"lexibox-backend/internal/users"
)

// Auth validates the bearer token and resolves it to a user record, which is
// stored on the context for handlers. A valid token whose subject no longer
// exists is treated the same as an invalid token.
func Auth(repo users.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		claims, err := auth.ParseToken(token)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		actor, err := repo.GetByEmail(c.Request.Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to resolve identity", nil)
			return
		}

		users.SetActor(c, actor)
		c.Next()
	}
}
