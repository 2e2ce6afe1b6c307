package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lexibox-backend/internal/admin"
	"lexibox-backend/internal/documents"
	"lexibox-backend/internal/orgs"
	"lexibox-backend/internal/shared/config"
	"lexibox-backend/internal/shared/server/middleware"
	"lexibox-backend/internal/shared/server/respond"
	"lexibox-backend/internal/users"
)

// RouterDeps carries the handlers and repositories the router wires together.
type RouterDeps struct {
	Config           config.Config
	UsersRepo        users.Repo
	UsersHandler     *users.Handler
	DocumentsHandler *documents.Handler
	OrgsHandler      *orgs.Handler
	AdminHandler     *admin.Handler
}

// credentialRateLimit throttles the signup and login endpoints per client IP.
var credentialRateLimit = middleware.RateLimitRule{Rate: 1, Burst: 10}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	public := r.Group("/")
	public.Use(middleware.RateLimit(credentialRateLimit, middleware.NewRateLimiter(nil)))
	deps.UsersHandler.RegisterPublicRoutes(public)

	authed := r.Group("/")
	authed.Use(middleware.Auth(deps.UsersRepo))
	deps.UsersHandler.RegisterRoutes(authed)
	deps.DocumentsHandler.RegisterRoutes(authed)
	deps.OrgsHandler.RegisterRoutes(authed)
	deps.AdminHandler.RegisterRoutes(authed)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
