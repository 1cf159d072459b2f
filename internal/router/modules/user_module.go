package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BenjaminMehrez/ChallengeWithYari/internal/container"
	handlers "github.com/BenjaminMehrez/ChallengeWithYari/internal/interface/http"
	"github.com/BenjaminMehrez/ChallengeWithYari/internal/interface/middleware"
	"github.com/BenjaminMehrez/ChallengeWithYari/pkg/helpers"
)

// UserModule wires user CRUD routes.
// Public: POST /api/v1/users/register
// Protected: the rest of /api/v1/users

type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	rg.POST("/users/register", registerLimiter, m.Handler.Register)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("/users", m.Handler.List)
		auth.GET("/users/search", m.Handler.Search)
		auth.GET("/users/statistics", m.Handler.Statistics)
		auth.GET("/users/:id", m.Handler.Get)
		auth.PUT("/users/:id", m.Handler.Update)
		auth.PATCH("/users/:id/activate", m.Handler.Activate)
		auth.PATCH("/users/:id/deactivate", m.Handler.Deactivate)
		auth.DELETE("/users/:id", m.Handler.Delete)
	}
}
