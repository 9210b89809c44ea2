package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/profitpilotai/controlplane/internal/models"
	"github.com/profitpilotai/controlplane/internal/service"
)

type LoginRequest struct {
	LoginID  string `json:"login_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthHandler struct {
	sessions service.SessionService
	audit    service.AuditService
}

func NewAuthHandler(sessions service.SessionService, audit service.AuditService) *AuthHandler {
	return &AuthHandler{sessions: sessions, audit: audit}
}

// @Summary Log in
// @Description Verifies credentials and issues a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} map[string]interface{} "Session token"
// @Failure 400 {object} map[string]string "Invalid JSON"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	token, account, err := h.sessions.Login(req.LoginID, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	h.audit.Record(account.LoginID, "Login", "User logged in", c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"user":         account,
	})
}

// @Summary Current user
// @Description Returns the account behind the session token
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Account"
// @Failure 401 {object} map[string]string "Unauthenticated"
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	account := c.MustGet("account").(*models.Account)
	c.JSON(http.StatusOK, gin.H{"user": account})
}

// @Summary Log out
// @Description Destroys the current session; unknown tokens are a no-op
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "Logged out"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString("token")
	h.sessions.Logout(token)

	loginID := c.GetString("login_id")
	h.audit.Record(loginID, "Logout", "User logged out", c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"status": "Logged out"})
}
