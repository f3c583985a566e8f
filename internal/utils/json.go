package utils

import (
	"encoding/json"
	"time"
)

// SafeJSONParse parses JSON safely
func SafeJSONParse(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// JSONWriter is the part of a websocket connection SendJSON needs.
type JSONWriter interface {
	SetWriteDeadline(t time.Time) error
	WriteJSON(v interface{}) error
}

// SendJSON writes a JSON payload, giving up after timeout.
// Websocket connections are not safe for concurrent writes; callers
// must ensure a single writer per connection.
func SendJSON(c JSONWriter, payload interface{}, timeout time.Duration) error {
	if timeout > 0 {
		if err := c.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
			return err
		}
	}
	return c.WriteJSON(payload)
}
