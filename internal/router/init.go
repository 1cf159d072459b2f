package router

import (
	userapp "github.com/BenjaminMehrez/ChallengeWithYari/internal/application"
	"github.com/BenjaminMehrez/ChallengeWithYari/internal/container"
	pginfra "github.com/BenjaminMehrez/ChallengeWithYari/internal/infrastructure/postgres"
	handlers "github.com/BenjaminMehrez/ChallengeWithYari/internal/interface/http"
	"github.com/BenjaminMehrez/ChallengeWithYari/internal/router/modules"
)

// InitModules initializes all application modules and registers them with
// the router registry. Called once during application startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	repo := pginfra.NewUserRepository(container.GetPGPool())

	service := userapp.NewService(
		repo,
		container.GetPokeAPI(),
		container.GetJWT(),
		container.GetRedis(),
		container.GetLogger(),
		container.GetES(),
		cfg.ESUsersIndex,
		container.GetRabbitPub(),
		cfg.MailSendEnabled,
	)

	userHandler := handlers.NewUserHandler(service, container.GetLogger())
	authHandler := handlers.NewAuthHandler(service, container.GetLogger())
	pokemonHandler := handlers.NewPokemonHandler(service, container.GetPokeAPI(), container.GetLogger())

	r.Add(modules.NewAuthModule(authHandler, container.GetJWT()))
	r.Add(modules.NewUserModule(userHandler, container.GetJWT()))
	r.Add(modules.NewPokemonModule(pokemonHandler, container.GetJWT()))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
