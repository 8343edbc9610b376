package handlers

import (
	"net/http"

	"homeserve/services/user"
	"homeserve/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler serves the caller's profile and admin user management.
type UserHandler struct {
	UserService user.UserService
}

func NewUserHandler(us user.UserService) *UserHandler {
	return &UserHandler{UserService: us}
}

// GetMe handles GET /api/users/me.
func (h *UserHandler) GetMe(c *gin.Context) {
	u, err := h.UserService.GetProfile(c.Request.Context(), principal(c).ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// UpdateMe handles PUT /api/users/me.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var patch user.ProfilePatch
	if !bindJSON(c, &patch) {
		return
	}
	u, err := h.UserService.UpdateProfile(c.Request.Context(), principal(c).ID, patch)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// CreateAdmin handles POST /api/admin/admins.
func (h *UserHandler) CreateAdmin(c *gin.Context) {
	var in user.AdminInput
	if !bindJSON(c, &in) {
		return
	}
	caller := principal(c)
	admin, err := h.UserService.CreateAdmin(c.Request.Context(), in, caller.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("admin created", zap.String("adminID", admin.ID), zap.String("by", caller.ID))
	c.JSON(http.StatusCreated, admin)
}

// ListAdmins handles GET /api/admin/admins.
func (h *UserHandler) ListAdmins(c *gin.Context) {
	page, err := h.UserService.ListAdmins(c.Request.Context(), pageRequest(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetAdmin handles GET /api/admin/admins/:adminId.
func (h *UserHandler) GetAdmin(c *gin.Context) {
	admin, err := h.UserService.GetAdmin(c.Request.Context(), c.Param("adminId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, admin)
}

// ListUsers handles GET /api/admin/users.
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, err := h.UserService.ListUsers(c.Request.Context(), pageRequest(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetUser handles GET /api/admin/users/:userId.
func (h *UserHandler) GetUser(c *gin.Context) {
	u, err := h.UserService.GetUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// DeleteUser handles DELETE /api/admin/users/:userId.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id := c.Param("userId")
	if err := h.UserService.DeleteUser(c.Request.Context(), id); err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("user deleted", zap.String("userID", id))
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
