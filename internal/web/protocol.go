package web

import (
	"time"

	"github.com/sweeney/breath-sync/internal/logic"
	"github.com/sweeney/breath-sync/internal/status"
)

// MessageType identifies a websocket message.
type MessageType string

const (
	MsgSnapshot MessageType = "snapshot"
	MsgUpdate   MessageType = "update"
)

// WSMessage is the envelope of every websocket message.
type WSMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// SnapshotPayload is sent once to each client on connect.
type SnapshotPayload struct {
	Session status.SessionJSON `json:"session"`
}

// UpdatePayload carries the latest session and the events coalesced since
// the previous update.
type UpdatePayload struct {
	Session status.SessionJSON `json:"session"`
	Events  []EventJSON        `json:"events,omitempty"`
}

// EventJSON is the websocket representation of a session event.
type EventJSON struct {
	Type      string `json:"type"`
	Status    string `json:"status"`
	Phase     string `json:"phase"`
	Countdown int    `json:"countdown"`
	Remaining int    `json:"remaining_seconds"`
	Timestamp string `json:"timestamp"`
}

func eventJSON(e logic.Event) EventJSON {
	return EventJSON{
		Type:      string(e.Type),
		Status:    string(e.Status),
		Phase:     string(e.Phase),
		Countdown: e.Countdown,
		Remaining: e.Remaining,
		Timestamp: e.Timestamp.UTC().Format(time.RFC3339Nano),
	}
}
