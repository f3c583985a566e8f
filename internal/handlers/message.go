package handlers

import (
	"strings"
	"time"

	"photo-backend/internal/models"
	"photo-backend/internal/utils"

	"github.com/gofiber/websocket/v2"
)

// HandleMessage processes a client frame. Clients only join and leave rooms;
// activity flows from the server to the client.
func HandleMessage(hub *Hub, msgType int, msg []byte, connID string) {
	if msgType != websocket.TextMessage {
		return
	}

	var wsMsg models.WSMessage
	if err := utils.SafeJSONParse(msg, &wsMsg); err != nil {
		hub.Send(connID, errorMessage("invalid message"))
		return
	}

	switch wsMsg.Event {
	case "join":
		room := strings.TrimSpace(wsMsg.Room)
		if !validRoom(room) {
			hub.Send(connID, errorMessage("unknown room"))
			return
		}
		hub.Join(room, connID)
		hub.Send(connID, models.WSMessage{Event: "joined", Room: room, Timestamp: time.Now().UnixMilli()})
	case "leave":
		hub.Leave(wsMsg.Room, connID)
		hub.Send(connID, models.WSMessage{Event: "left", Room: wsMsg.Room, Timestamp: time.Now().UnixMilli()})
	default:
		hub.Send(connID, errorMessage("unsupported event"))
	}
}

func validRoom(room string) bool {
	return room == FeedRoom || (strings.HasPrefix(room, "photo:") && len(room) > len("photo:"))
}

func errorMessage(text string) models.WSMessage {
	return models.WSMessage{Event: "error", Message: text, Timestamp: time.Now().UnixMilli()}
}
