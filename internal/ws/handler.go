package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/profitpilotai/controlplane/internal/models"
)

const (
	writeWait = 10 * time.Second

	pongWait = 60 * time.Second

	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StatusSource answers the current bot status for an account, sent as the
// snapshot when a subscriber first connects.
type StatusSource interface {
	Status(loginID string) models.BotState
}

type Handler struct {
	hub    *Hub
	status StatusSource
	log    *zap.Logger
}

func NewHandler(hub *Hub, status StatusSource, log *zap.Logger) *Handler {
	return &Handler{hub: hub, status: status, log: log}
}

// HandleConnection upgrades /ws/:login_id. The middleware has already
// authenticated the session; a client may only subscribe to its own account.
func (h *Handler) HandleConnection(c *gin.Context) {
	account, ok := c.MustGet("account").(*models.Account)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated"})
		return
	}
	if c.Param("login_id") != account.LoginID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot subscribe to another account"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	sub := h.hub.Subscribe(account.LoginID, conn)

	// A late subscriber gets the current status immediately; there is no
	// event backlog to replay.
	snapshot := models.NewStatusEvent(h.status.Status(account.LoginID).Status)
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(snapshot); err != nil {
		h.hub.Unsubscribe(sub)
		return
	}

	go h.writePump(sub)
	go h.readPump(sub)
}

// readPump drains the connection until it dies; no client-to-server messages
// are expected after the upgrade.
func (h *Handler) readPump(sub *Subscription) {
	defer h.hub.Unsubscribe(sub)

	sub.Conn.SetReadLimit(maxMessageSize)
	sub.Conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.Conn.SetPongHandler(func(string) error {
		sub.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := sub.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				h.log.Debug("subscription read error",
					zap.String("login_id", sub.LoginID),
					zap.Error(err))
			}
			return
		}
	}
}

func (h *Handler) writePump(sub *Subscription) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sub.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-sub.Send:
			sub.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				sub.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := sub.Conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			sub.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
