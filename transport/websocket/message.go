package websocket

import (
	"encoding/json"
	"fmt"
)

// Message is the envelope exchanged in both directions: a named event and its
// JSON payload.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func encodeMessage(event string, payload any) ([]byte, error) {
	message := Message{Event: event}

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		message.Data = data
	}

	frame, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	return frame, nil
}
