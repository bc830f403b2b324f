package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"localcooks-backend/internal/applications"
	"localcooks-backend/internal/identity"
	"localcooks-backend/internal/shared/config"
	"localcooks-backend/internal/shared/metrics"
	"localcooks-backend/internal/shared/server/middleware"
	"localcooks-backend/internal/shared/server/respond"
	"localcooks-backend/internal/uploads"
	"localcooks-backend/internal/users"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config              config.Config
	ApplicationsHandler *applications.Handler
	UploadsHandler      *uploads.Handler
	UsersHandler        *users.Handler
	GoogleAuth          *identity.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.Env),
	)

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterRoutes(api)
	}
	if deps.ApplicationsHandler != nil {
		deps.ApplicationsHandler.RegisterRoutes(api)
	}
	if deps.UploadsHandler != nil {
		// Uploads are the heaviest requests; throttle them per principal.
		uploadGroup := api.Group("")
		uploadGroup.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"UPLOAD": {Rate: 0.5, Burst: 5},
			},
			DefaultGroup: "UPLOAD",
		}))
		deps.UploadsHandler.RegisterRoutes(uploadGroup)
	}

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
