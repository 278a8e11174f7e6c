package domain

import "strings"

type TargetID string

// Target is one inspectable app runtime advertised by the bundler.
type Target struct {
	ID          TargetID `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	DeviceName  string   `json:"deviceName,omitempty"`
	AppID       string   `json:"appId,omitempty"`
	VM          string   `json:"vm,omitempty"`
	Endpoint    string   `json:"webSocketDebuggerUrl"`
}

// DisplayName falls back to the id when the bundler advertises no title.
func (t Target) DisplayName() string {
	if title := strings.TrimSpace(t.Title); title != "" {
		return title
	}
	return string(t.ID)
}
