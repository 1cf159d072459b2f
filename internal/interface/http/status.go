package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	userapp "github.com/BenjaminMehrez/ChallengeWithYari/internal/application"
	"github.com/BenjaminMehrez/ChallengeWithYari/internal/domain/entity"
	"github.com/BenjaminMehrez/ChallengeWithYari/internal/interface/middleware"
	"github.com/BenjaminMehrez/ChallengeWithYari/pkg/response"
)

// errStatus resolves a service outcome to an HTTP status.
func errStatus(err error) int {
	switch {
	case errors.Is(err, userapp.ErrUserNotFound), errors.Is(err, userapp.ErrPokemonNotFound):
		return http.StatusNotFound
	case errors.Is(err, userapp.ErrEmailTaken), errors.Is(err, userapp.ErrUsernameTaken),
		errors.Is(err, userapp.ErrPokemonDuplicate):
		return http.StatusConflict
	case errors.Is(err, userapp.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, userapp.ErrUserInactive), errors.Is(err, userapp.ErrSuperuserDelete):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	response.Error[any](c, errStatus(err), err.Error(), nil)
}

func forbidden(c *gin.Context) {
	response.Error[any](c, http.StatusForbidden, "not enough permissions", nil)
}

// currentUserID returns the authenticated user id set by the auth middleware.
func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.CtxUserIDKey)
}

// userPayload is the wire shape of a user; the password hash never leaves
// the service.
func userPayload(u *entity.User) gin.H {
	pokemons := u.Pokemons
	if pokemons == nil {
		pokemons = []entity.PokemonRef{}
	}
	return gin.H{
		"id":           u.ID,
		"email":        u.Email,
		"username":     u.Username,
		"pokemons":     pokemons,
		"is_active":    u.IsActive,
		"is_superuser": u.IsSuperuser,
		"created_at":   u.CreatedAt,
		"updated_at":   u.UpdatedAt,
	}
}

func usersPayload(users []*entity.User) []gin.H {
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, userPayload(u))
	}
	return out
}
