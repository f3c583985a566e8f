package models

import "time"

// Activity event names published by the photo service.
const (
	EventPhotoCreated   = "photo_created"
	EventPhotoUpdated   = "photo_updated"
	EventPhotoDeleted   = "photo_deleted"
	EventPhotoLiked     = "photo_liked"
	EventPhotoCommented = "photo_commented"
)

// Activity describes a change to a photo that is pushed to feed subscribers.
type Activity struct {
	Event     string    `json:"event"`
	PhotoID   string    `json:"photo_id"`
	UserID    string    `json:"user_id"`
	Photo     *Photo    `json:"photo,omitempty"`
	Comment   *Comment  `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// WebSocket Message Structure
type WSMessage struct {
	Event     string    `json:"event"` // "join", "leave", "joined", "left", "error"
	Room      string    `json:"room,omitempty"`
	Message   string    `json:"message,omitempty"`
	Activity  *Activity `json:"activity,omitempty"`
	Timestamp int64     `json:"timestamp,omitempty"`
}
