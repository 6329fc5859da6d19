package websocket

import (
	"time"

	"municipal-portal-backend/config"
	"municipal-portal-backend/token"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// WsHandler upgrades authenticated connections and keeps them registered
// with the hub for notification pushes.
type WsHandler struct {
	hub  *Hub
	auth token.Maker
}

func NewWsHandler(hub *Hub, auth token.Maker) *WsHandler {
	return &WsHandler{hub: hub, auth: auth}
}

// HandleWebSocket authenticates the upgrade request via the access-token
// cookie and hands the connection to the hub.
func (h *WsHandler) HandleWebSocket(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	tokenStr := c.Cookies("access_token")
	if tokenStr == "" {
		config.Logger.Warn("WebSocket connection attempted without access token cookie")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	payload, err := h.auth.VerifyToken(tokenStr)
	if err != nil {
		config.Logger.Warn("Invalid access token for WebSocket", zap.Error(err))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired token",
		})
	}

	userID := payload.UserID
	return websocket.New(func(conn *websocket.Conn) {
		client := &Client{
			UserID: userID,
			Conn:   conn,
			Hub:    h.hub,
			Send:   make(chan WebSocketMessage, 16),
		}

		h.hub.register <- client
		config.Logger.Info("WebSocket client connected", zap.String("userID", userID))

		defer func() {
			h.hub.unregister <- client
			conn.Close()
			config.Logger.Info("WebSocket client disconnected", zap.String("userID", userID))
		}()

		go client.writePump()
		client.readPump()
	})(c)
}

// writePump drains the client's send channel onto the wire.
func (c *Client) writePump() {
	for message := range c.Send {
		c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.Conn.WriteJSON(message); err != nil {
			config.Logger.Warn("WebSocket write failed",
				zap.String("userID", c.UserID), zap.Error(err))
			return
		}
	}
}

// readPump discards inbound frames; this channel is push-only. It exists
// to detect the close handshake.
func (c *Client) readPump() {
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
