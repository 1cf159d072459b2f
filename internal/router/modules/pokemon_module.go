package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BenjaminMehrez/ChallengeWithYari/internal/container"
	handlers "github.com/BenjaminMehrez/ChallengeWithYari/internal/interface/http"
	"github.com/BenjaminMehrez/ChallengeWithYari/internal/interface/middleware"
	"github.com/BenjaminMehrez/ChallengeWithYari/pkg/helpers"
)

// PokemonModule wires the catalog proxy endpoints and the per-user
// collection routes.
// Public: GET /api/v1/pokemon/:id, GET /api/v1/pokemon/name/:name
// Protected: /api/v1/users/:id/pokemons*

type PokemonModule struct {
	Handler *handlers.PokemonHandler
	JWT     *helpers.JWTManager
}

func NewPokemonModule(h *handlers.PokemonHandler, jwt *helpers.JWTManager) *PokemonModule {
	return &PokemonModule{Handler: h, JWT: jwt}
}

func (m *PokemonModule) Register(rg *gin.RouterGroup) {
	catalogLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), nil)
	rg.GET("/pokemon/:id", catalogLimiter, m.Handler.GetByID)
	rg.GET("/pokemon/name/:name", catalogLimiter, m.Handler.GetByName)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/users/:id/pokemons", m.Handler.ListForUser)
		auth.POST("/users/:id/pokemons/:pokemon_id", m.Handler.Add)
		auth.PUT("/users/:id/pokemons", m.Handler.Replace)
		auth.DELETE("/users/:id/pokemons/:pokemon_id", m.Handler.Remove)
	}
}
