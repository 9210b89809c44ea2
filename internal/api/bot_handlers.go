package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/profitpilotai/controlplane/internal/models"
	"github.com/profitpilotai/controlplane/internal/service"
)

type BotHandler struct {
	bots  *service.BotService
	audit service.AuditService
}

func NewBotHandler(bots *service.BotService, audit service.AuditService) *BotHandler {
	return &BotHandler{bots: bots, audit: audit}
}

// @Summary Start bot
// @Description Starts the caller's bot; idempotent when already running
// @Tags Bot
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "Status"
// @Failure 503 {object} map[string]string "Engine unavailable"
// @Router /bot/start [post]
func (h *BotHandler) Start(c *gin.Context) {
	h.command(c, models.CmdStart)
}

// @Summary Pause bot
// @Description Pauses a running bot; rejected unless a run is in progress
// @Tags Bot
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "Status"
// @Failure 409 {object} map[string]string "Invalid transition"
// @Router /bot/pause [post]
func (h *BotHandler) Pause(c *gin.Context) {
	h.command(c, models.CmdPause)
}

// @Summary Stop bot
// @Description Stops the caller's bot; idempotent when already stopped
// @Tags Bot
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "Status"
// @Failure 503 {object} map[string]string "Engine unavailable"
// @Router /bot/stop [post]
func (h *BotHandler) Stop(c *gin.Context) {
	h.command(c, models.CmdStop)
}

// @Summary Bot status
// @Description Returns the current lifecycle state of the caller's bot
// @Tags Bot
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Status"
// @Router /bot/status [get]
func (h *BotHandler) Status(c *gin.Context) {
	loginID := c.GetString("login_id")
	state := h.bots.Status(loginID)
	c.JSON(http.StatusOK, gin.H{
		"status":             state.Status,
		"last_transition_at": state.LastTransitionAt,
	})
}

func (h *BotHandler) command(c *gin.Context, cmd models.BotCommand) {
	loginID := c.GetString("login_id")
	state, err := h.bots.Command(c.Request.Context(), loginID, cmd)
	if err != nil {
		writeError(c, err)
		return
	}

	h.audit.Record(loginID, "BotCommand", string(cmd), c.ClientIP(), map[string]interface{}{
		"status": state.Status,
	})
	c.JSON(http.StatusOK, gin.H{"status": state.Status})
}
