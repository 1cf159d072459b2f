package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/BenjaminMehrez/ChallengeWithYari/internal/application"
	"github.com/BenjaminMehrez/ChallengeWithYari/pkg/response"
	"github.com/BenjaminMehrez/ChallengeWithYari/pkg/validation"
)

type UserHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,uname"`
	Password string `json:"password" binding:"required,pwd"`
}

type updateUserRequest struct {
	Email    string `json:"email" binding:"omitempty,email"`
	Username string `json:"username" binding:"omitempty,uname"`
	Password string `json:"password" binding:"omitempty,pwd"`
	IsActive *bool  `json:"is_active"`
}

func skipLimit(c *gin.Context) (int, int) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if skip < 0 {
		skip = 0
	}
	return skip, limit
}

// Register POST /api/v1/users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), userapp.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, userPayload(u), "user registered", nil)
}

// List GET /api/v1/users?skip=&limit=&active_only=
func (h *UserHandler) List(c *gin.Context) {
	skip, limit := skipLimit(c)
	activeOnly, _ := strconv.ParseBool(c.DefaultQuery("active_only", "false"))

	list := h.Svc.ListUsers
	if activeOnly {
		list = h.Svc.ListActiveUsers
	}
	users, err := list(skip, limit)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Error("list users failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to list users", nil)
		return
	}
	response.Success(c, http.StatusOK, usersPayload(users), "users", gin.H{"skip": skip, "limit": limit})
}

// Get GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, userPayload(u), "user", nil)
}

// Statistics GET /api/v1/users/statistics
func (h *UserHandler) Statistics(c *gin.Context) {
	stats, err := h.Svc.GetStatistics()
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Error("statistics failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to compute statistics", nil)
		return
	}
	response.Success(c, http.StatusOK, stats, "statistics", nil)
}

// Search GET /api/v1/users/search?q=
func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "q is required", nil)
		return
	}
	skip, limit := skipLimit(c)
	users, err := h.Svc.SearchUsers(c.Request.Context(), q, skip, limit)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Error("search failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, usersPayload(users), "search results", gin.H{"q": q})
}

// Update PUT /api/v1/users/:id (self only)
func (h *UserHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if currentUserID(c) != id {
		forbidden(c)
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateUser(c.Request.Context(), id, userapp.UpdateUserInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		IsActive: req.IsActive,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, userPayload(u), "user updated", nil)
}

// Activate PATCH /api/v1/users/:id/activate (superuser only)
func (h *UserHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

// Deactivate PATCH /api/v1/users/:id/deactivate (superuser only)
func (h *UserHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *UserHandler) setActive(c *gin.Context, active bool) {
	caller, err := h.Svc.GetProfile(currentUserID(c))
	if err != nil || !caller.IsSuperuser {
		forbidden(c)
		return
	}
	var u = caller
	if active {
		u, err = h.Svc.ActivateUser(c.Request.Context(), c.Param("id"))
	} else {
		u, err = h.Svc.DeactivateUser(c.Request.Context(), c.Param("id"))
	}
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, userPayload(u), "user updated", nil)
}

// Delete DELETE /api/v1/users/:id (self or superuser; superusers cannot
// be deleted)
func (h *UserHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if currentUserID(c) != id {
		caller, err := h.Svc.GetProfile(currentUserID(c))
		if err != nil || !caller.IsSuperuser {
			forbidden(c)
			return
		}
	}
	if err := h.Svc.DeleteUser(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
