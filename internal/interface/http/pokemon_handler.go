package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/BenjaminMehrez/ChallengeWithYari/internal/application"
	"github.com/BenjaminMehrez/ChallengeWithYari/internal/domain/entity"
	"github.com/BenjaminMehrez/ChallengeWithYari/internal/infrastructure/pokeapi"
	"github.com/BenjaminMehrez/ChallengeWithYari/pkg/response"
	"github.com/BenjaminMehrez/ChallengeWithYari/pkg/validation"
)

type PokemonHandler struct {
	Svc     *userapp.Service
	Catalog userapp.CatalogClient
	Logger  *logrus.Logger
}

func NewPokemonHandler(svc *userapp.Service, catalog userapp.CatalogClient, logger *logrus.Logger) *PokemonHandler {
	return &PokemonHandler{Svc: svc, Catalog: catalog, Logger: logger}
}

type pokemonEntry struct {
	ID   int    `json:"id" binding:"required,gte=1,lte=1025"`
	Name string `json:"name" binding:"required,min=1"`
}

// catalogStatus maps lookup client failures for the catalog proxy
// endpoints, where the full taxonomy stays visible. The collection add
// path collapses all of these into a plain not-found instead.
func catalogStatus(err error) int {
	switch {
	case errors.Is(err, pokeapi.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, pokeapi.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, pokeapi.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusNotFound
	}
}

// GetByID GET /api/v1/pokemon/:id
func (h *PokemonHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "pokemon id must be an integer", nil)
		return
	}
	ref, err := h.Catalog.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error[any](c, catalogStatus(err), err.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, ref, "pokemon", nil)
}

// GetByName GET /api/v1/pokemon/name/:name
func (h *PokemonHandler) GetByName(c *gin.Context) {
	ref, err := h.Catalog.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error[any](c, catalogStatus(err), err.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, ref, "pokemon", nil)
}

// ListForUser GET /api/v1/users/:id/pokemons (self only)
func (h *PokemonHandler) ListForUser(c *gin.Context) {
	id := c.Param("id")
	if currentUserID(c) != id {
		forbidden(c)
		return
	}
	pokemons, err := h.Svc.ListPokemons(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, pokemons, "pokemons", nil)
}

// Add POST /api/v1/users/:id/pokemons/:pokemon_id (self only)
func (h *PokemonHandler) Add(c *gin.Context) {
	id := c.Param("id")
	if currentUserID(c) != id {
		forbidden(c)
		return
	}
	pokemonID, err := strconv.Atoi(c.Param("pokemon_id"))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "pokemon id must be an integer", nil)
		return
	}
	u, err := h.Svc.AddPokemon(c.Request.Context(), id, pokemonID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, userPayload(u), "pokemon added", nil)
}

// Replace PUT /api/v1/users/:id/pokemons (self only)
func (h *PokemonHandler) Replace(c *gin.Context) {
	id := c.Param("id")
	if currentUserID(c) != id {
		forbidden(c)
		return
	}
	var req []pokemonEntry
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	pokemons := make([]entity.PokemonRef, len(req))
	for i, p := range req {
		pokemons[i] = entity.PokemonRef{ID: p.ID, Name: p.Name}
	}
	u, err := h.Svc.ReplacePokemons(c.Request.Context(), id, pokemons)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, userPayload(u), "collection replaced", nil)
}

// Remove DELETE /api/v1/users/:id/pokemons/:pokemon_id (self only)
func (h *PokemonHandler) Remove(c *gin.Context) {
	id := c.Param("id")
	if currentUserID(c) != id {
		forbidden(c)
		return
	}
	pokemonID, err := strconv.Atoi(c.Param("pokemon_id"))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "pokemon id must be an integer", nil)
		return
	}
	u, err := h.Svc.RemovePokemon(c.Request.Context(), id, pokemonID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, userPayload(u), "pokemon removed", nil)
}
