// Package protocol holds the inspector wire types: the JSON envelope shared
// by requests, replies and events, and the Runtime domain payloads used by
// the bridge.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Request is one outbound command. Ids are unique within a session.
type Request struct {
	ID     int64  `json:"id"`
	Method string `json:"method"`
	Params any    `json:"params,omitempty"`
}

// Message is any inbound frame. A frame carrying an id is a reply; a frame
// carrying only a method is an event.
type Message struct {
	ID     *int64          `json:"id,omitempty"`
	Method string          `json:"method,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *Error          `json:"error,omitempty"`
}

func (m Message) IsReply() bool {
	return m.ID != nil
}

func (m Message) IsEvent() bool {
	return m.ID == nil && m.Method != ""
}

// Event is an unsolicited notification routed by method name.
type Event struct {
	Method string
	Params json.RawMessage
}

// Error is the error payload of a failed request.
type Error struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("inspector error %d", e.Code)
	}
	return fmt.Sprintf("inspector error %d: %s", e.Code, e.Message)
}
