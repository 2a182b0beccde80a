package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"findoc-backend/internal/documents"
	"findoc-backend/internal/shared/config"
	"findoc-backend/internal/shared/server/middleware"
	"findoc-backend/internal/shared/server/respond"
	"findoc-backend/internal/users"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config          config.Config
	UsersHandler    *users.Handler
	DocumentHandler *documents.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
// Auth routes are public except the profile; all document routes sit behind
// the auth gate.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env != "dev" && deps.Config.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
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

	requireAuth := middleware.Auth([]byte(deps.Config.JWTSecret))

	authGroup := r.Group("/auth")
	deps.UsersHandler.RegisterRoutes(authGroup, requireAuth)

	uploadGroup := r.Group("/upload")
	uploadGroup.Use(requireAuth)
	deps.DocumentHandler.RegisterRoutes(uploadGroup)

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
