package auth

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hotelpms/internal/domain"
	"hotelpms/internal/middleware"
	"hotelpms/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts endpoints that need no token.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/me", h.Me)

	staff := rg.Group("/staff", middleware.RequirePermission(domain.PermManageStaff))
	{
		staff.GET("", h.ListStaff)
		staff.POST("", h.CreateStaff)
		staff.PUT("/:id/permissions", h.UpdatePermissions)
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	res, err := h.service.Login(c.Request.Context(), req)
	switch {
	case errors.Is(err, ErrAccountLocked):
		response.Error(c, http.StatusForbidden, "ACCOUNT_LOCKED", "Account locked, try again later")
		return
	case errors.Is(err, ErrAccountDisabled):
		response.Error(c, http.StatusForbidden, "ACCOUNT_DISABLED", "Account disabled")
		return
	case errors.Is(err, ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
		return
	case err != nil:
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Login successful", res)
}

func (h *Handler) Me(c *gin.Context) {
	me, err := h.service.Me(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", me)
}

func (h *Handler) ListStaff(c *gin.Context) {
	staff, err := h.service.ListStaff(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", staff)
}

func (h *Handler) CreateStaff(c *gin.Context) {
	var req CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	u, err := h.service.CreateStaff(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Staff account created", u)
}

func (h *Handler) UpdatePermissions(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid staff ID")
		return
	}
	var req UpdatePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	u, err := h.service.UpdatePermissions(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Permissions updated", u)
}
