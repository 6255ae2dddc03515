package status

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sweeney/breath-sync/internal/logic"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Session       SessionJSON  `json:"session"`
	LastEvent     string       `json:"last_event,omitempty"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"event_counts"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// SessionJSON is the renderer-facing view of a session snapshot.
type SessionJSON struct {
	Status           string    `json:"status"`
	Countdown        int       `json:"countdown"`
	RemainingSeconds int       `json:"remaining_seconds"`
	Remaining        string    `json:"remaining"`
	Phase            string    `json:"phase"`
	Instruction      string    `json:"instruction"`
	Target           PointJSON `json:"target"`
	Current          PointJSON `json:"current"`
	DurationSeconds  int       `json:"duration_seconds"`
	Theme            string    `json:"theme"`
}

// PointJSON is a position in percent of the container.
type PointJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	SessionsStarted   int `json:"sessions_started"`
	SessionsCompleted int `json:"sessions_completed"`
	SessionsCancelled int `json:"sessions_cancelled"`
	BreathCycles      int `json:"breath_cycles"`
	Relocations       int `json:"relocations"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	TickMs            int64   `json:"tick_ms"`
	PollMs            int64   `json:"poll_ms"`
	DebounceMs        int64   `json:"debounce_ms"`
	HeartbeatMs       int64   `json:"heartbeat_ms"`
	RelocateMs        int64   `json:"relocate_ms"`
	InterpolateMs     int64   `json:"interpolate_ms"`
	InterpolateFactor float64 `json:"interpolate_factor"`
	Broker            string  `json:"broker"`
	HTTPAddr          string  `json:"http_addr"`
}

// FormatRemaining renders seconds as m:ss.
func FormatRemaining(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// Instruction returns the text shown to the user for a phase.
func Instruction(p logic.Phase) string {
	switch p {
	case logic.PhaseInhale:
		return "Breathe In"
	case logic.PhaseExhale:
		return "Breathe Out"
	default:
		return "Hold"
	}
}

// Session builds the renderer view of a session snapshot.
func Session(s logic.State) SessionJSON {
	return SessionJSON{
		Status:           string(s.Status),
		Countdown:        s.CountdownValue,
		RemainingSeconds: s.RemainingSeconds,
		Remaining:        FormatRemaining(s.RemainingSeconds),
		Phase:            string(s.Phase),
		Instruction:      Instruction(s.Phase),
		Target:           PointJSON{X: s.Target.X, Y: s.Target.Y},
		Current:          PointJSON{X: s.Current.X, Y: s.Current.Y},
		DurationSeconds:  s.Config.DurationSeconds,
		Theme:            string(s.Config.Theme),
	}
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		Session:       Session(snap.Session),
		LastEvent:     string(snap.LastEvent),
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			SessionsStarted:   snap.Counts.SessionsStarted,
			SessionsCompleted: snap.Counts.SessionsCompleted,
			SessionsCancelled: snap.Counts.SessionsCancelled,
			BreathCycles:      snap.Counts.BreathCycles,
			Relocations:       snap.Counts.Relocations,
		},
		Config: ConfigJSON{
			TickMs:            snap.Config.TickMs,
			PollMs:            snap.Config.PollMs,
			DebounceMs:        snap.Config.DebounceMs,
			HeartbeatMs:       snap.Config.HeartbeatMs,
			RelocateMs:        snap.Config.RelocateMs,
			InterpolateMs:     snap.Config.InterpolateMs,
			InterpolateFactor: snap.Config.InterpolateFactor,
			Broker:            snap.Config.Broker,
			HTTPAddr:          snap.Config.HTTPAddr,
		},
	}
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
