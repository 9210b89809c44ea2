package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/profitpilotai/controlplane/internal/models"
	"github.com/profitpilotai/controlplane/internal/service"
)

type CreateUserRequest struct {
	LoginID       string `json:"login_id" binding:"required"`
	Password      string `json:"password" binding:"required"`
	AccountType   string `json:"account_type" binding:"required"`
	DerivAPIToken string `json:"deriv_api_token"`
}

type UpdateUserRequest struct {
	Password          *string `json:"password"`
	PreferredStrategy *string `json:"preferred_strategy"`
	IsActive          *bool   `json:"is_active"`
}

type AdminHandler struct {
	admin service.AdminService
	audit service.AuditService
}

func NewAdminHandler(admin service.AdminService, audit service.AuditService) *AdminHandler {
	return &AdminHandler{admin: admin, audit: audit}
}

// @Summary List users
// @Description Returns all accounts ordered by creation time
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Accounts"
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.admin.ListUsers()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// @Summary Create user
// @Description Creates an account with its default config and inactive bot
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body CreateUserRequest true "New user"
// @Success 201 {object} map[string]interface{} "Account created"
// @Failure 400 {object} map[string]string "Invalid JSON"
// @Failure 409 {object} map[string]string "Duplicate login_id"
// @Router /admin/users [post]
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	account, err := h.admin.CreateUser(req.LoginID, req.Password, models.Role(req.AccountType), req.DerivAPIToken)
	if err != nil {
		writeError(c, err)
		return
	}

	actor := c.GetString("login_id")
	h.audit.Record(actor, "CreateUser", "Admin created user", c.ClientIP(), map[string]interface{}{
		"login_id": account.LoginID,
		"role":     account.Role,
	})
	c.JSON(http.StatusCreated, gin.H{"user": account})
}

// @Summary Update user
// @Description Updates password, preferred strategy or active flag
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param login_id path string true "Login ID"
// @Param update body UpdateUserRequest true "Fields to update"
// @Success 200 {object} map[string]interface{} "Account"
// @Failure 404 {object} map[string]string "Unknown user"
// @Router /admin/users/{login_id} [put]
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	loginID := c.Param("login_id")
	account, err := h.admin.UpdateUser(loginID, service.UserUpdate{
		Password:          req.Password,
		PreferredStrategy: req.PreferredStrategy,
		IsActive:          req.IsActive,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	actor := c.GetString("login_id")
	h.audit.Record(actor, "UpdateUser", "Admin updated user", c.ClientIP(), map[string]interface{}{
		"login_id": loginID,
	})
	c.JSON(http.StatusOK, gin.H{"user": account})
}

// @Summary Delete user
// @Description Deletes the account and cascades sessions, config, bot state and subscriptions
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param login_id path string true "Login ID"
// @Success 200 {object} map[string]string "Deleted"
// @Failure 404 {object} map[string]string "Unknown user"
// @Router /admin/users/{login_id} [delete]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	loginID := c.Param("login_id")
	if err := h.admin.DeleteUser(loginID); err != nil {
		writeError(c, err)
		return
	}

	actor := c.GetString("login_id")
	h.audit.Record(actor, "DeleteUser", "Admin deleted user", c.ClientIP(), map[string]interface{}{
		"login_id": loginID,
	})
	c.JSON(http.StatusOK, gin.H{"status": "User deleted"})
}

// @Summary Audit trail
// @Description Lists recorded control-plane actions, newest first
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max entries"
// @Param login_id query string false "Filter by account"
// @Success 200 {object} map[string]interface{} "Entries"
// @Router /admin/logs [get]
func (h *AdminHandler) ListLogs(c *gin.Context) {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "100"), 10, 64)
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
		return
	}

	var logs []*models.AuditEntry
	if loginID := c.Query("login_id"); loginID != "" {
		logs, err = h.audit.ListByLogin(loginID, limit)
	} else {
		logs, err = h.audit.List(limit)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
