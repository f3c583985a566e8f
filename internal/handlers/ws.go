package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// WebSocketHandler streams photo activity to the connection's rooms.
func WebSocketHandler(hub *Hub) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		// Retrieve user info from locals (set by middleware)
		userID, _ := c.Locals("user_id").(string)

		connID := uuid.New().String()
		hub.Register(connID, userID, c)
		defer func() {
			hub.Unregister(connID)
			c.Close()
		}()

		hub.Send(connID, map[string]string{
			"event":   "connected",
			"message": "Welcome to the photo activity feed",
		})

		for {
			msgType, msg, err := c.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					hub.log.Debug().Err(err).Str("conn_id", connID).Msg("websocket closed")
				}
				break
			}

			HandleMessage(hub, msgType, msg, connID)
		}
	})
}

// WSUpgradeMiddleware rejects requests that are not websocket upgrades
func WSUpgradeMiddleware(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		c.Locals("allowed", true)
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}
