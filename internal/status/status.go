// Package status provides a thread-safe status tracker for the breath-sync daemon.
// It is the read-only view of the session used by HTTP handlers, the websocket
// stream and MQTT system events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/breath-sync/internal/logic"
)

// NetworkInfo contains network state as reported by pi-helper.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	TickMs            int64
	PollMs            int64
	DebounceMs        int64
	HeartbeatMs       int64
	RelocateMs        int64
	InterpolateMs     int64
	InterpolateFactor float64
	Broker            string
	HTTPAddr          string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type and safe to use after the lock is released.
type Snapshot struct {
	Session       logic.State
	Counts        logic.EventCounts
	LastEvent     logic.EventType
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time, config and the
// engine's initial session state.
func NewTracker(startTime time.Time, initial logic.State, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			Session:   initial,
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the session state, event counts and most recent event type.
// Called by the session controller after every mutation.
func (t *Tracker) Update(state logic.State, counts logic.EventCounts, events []logic.Event) {
	t.mu.Lock()
	t.snap.Session = state
	t.snap.Counts = counts
	if n := len(events); n > 0 {
		t.snap.LastEvent = events[n-1].Type
	}
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
