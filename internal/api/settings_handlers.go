package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/profitpilotai/controlplane/internal/models"
	"github.com/profitpilotai/controlplane/internal/service"
)

type SaveSettingsRequest struct {
	DerivAPIToken string   `json:"deriv_api_token" binding:"required"`
	AccountMode   string   `json:"account_mode" binding:"required"`
	Strategy      string   `json:"strategy" binding:"required"`
	TradingType   string   `json:"trading_type" binding:"required"`
	SelectedPairs []string `json:"selected_pairs"`
}

type SettingsHandler struct {
	settings service.SettingsService
	audit    service.AuditService
}

func NewSettingsHandler(settings service.SettingsService, audit service.AuditService) *SettingsHandler {
	return &SettingsHandler{settings: settings, audit: audit}
}

// @Summary Instrument catalog
// @Description Returns the tradable pairs from the execution engine
// @Tags Settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Pairs"
// @Failure 503 {object} map[string]string "Engine unavailable"
// @Router /pairs [get]
func (h *SettingsHandler) GetPairs(c *gin.Context) {
	pairs, err := h.settings.GetPairs(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pairs": pairs})
}

// @Summary Get settings
// @Description Returns the caller's trading configuration
// @Tags Settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Settings"
// @Router /user/settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	loginID := c.GetString("login_id")
	config, err := h.settings.GetSettings(loginID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": config})
}

// @Summary Save settings
// @Description Replaces the caller's trading configuration wholesale
// @Tags Settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param settings body SaveSettingsRequest true "New configuration"
// @Success 200 {object} map[string]interface{} "Saved"
// @Failure 400 {object} map[string]string "Validation error"
// @Router /user/settings [post]
func (h *SettingsHandler) SaveSettings(c *gin.Context) {
	var req SaveSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	loginID := c.GetString("login_id")
	config, err := h.settings.SaveSettings(loginID, &models.UserConfig{
		DerivAPIToken: req.DerivAPIToken,
		AccountMode:   models.AccountMode(req.AccountMode),
		Strategy:      models.Strategy(req.Strategy),
		TradingType:   models.TradingType(req.TradingType),
		SelectedPairs: req.SelectedPairs,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	h.audit.Record(loginID, "SaveSettings", "User saved settings", c.ClientIP(), map[string]interface{}{
		"strategy":     config.Strategy,
		"trading_type": config.TradingType,
	})
	c.JSON(http.StatusOK, gin.H{"settings": config})
}
