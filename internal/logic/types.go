// Package logic contains the pure timing engine for guided breathing sessions.
// This package has NO external dependencies (no timers, goroutines, GPIO, MQTT, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import (
	"errors"
	"time"
)

// ErrInvalidTransition is returned when an operation is not allowed in the
// current session status. The engine state is unchanged when it is returned.
var ErrInvalidTransition = errors.New("invalid session transition")

// Status is the overall lifecycle status of a session.
type Status string

const (
	StatusIdle      Status = "IDLE"
	StatusCountdown Status = "COUNTDOWN"
	StatusActive    Status = "ACTIVE"
)

// Phase is one segment of a breath cycle.
type Phase string

const (
	PhaseInhale          Phase = "INHALE"
	PhaseHoldAfterInhale Phase = "HOLD_AFTER_INHALE"
	PhaseExhale          Phase = "EXHALE"
	PhaseHoldAfterExhale Phase = "HOLD_AFTER_EXHALE"
)

// Theme affects presentation only, never timing.
type Theme string

const (
	ThemeDay   Theme = "day"
	ThemeNight Theme = "night"
)

// ParseTheme maps anything other than "night" to ThemeDay.
func ParseTheme(s string) Theme {
	if Theme(s) == ThemeNight {
		return ThemeNight
	}
	return ThemeDay
}

// Point is a position in percentage coordinates of the render container.
type Point struct {
	X float64
	Y float64
}

// SessionConfig is fixed for the lifetime of a session.
type SessionConfig struct {
	DurationSeconds int
	Theme           Theme
}

// State is the shared session snapshot. It is a value type; callers always
// receive a copy.
type State struct {
	Status           Status
	CountdownValue   int // meaningful only while COUNTDOWN
	RemainingSeconds int // meaningful only while ACTIVE
	Phase            Phase
	Target           Point
	Current          Point
	Config           SessionConfig
}

// EventType identifies a discrete session transition.
type EventType string

const (
	EventStarted   EventType = "SESSION_START"
	EventCountdown EventType = "COUNTDOWN_TICK"
	EventActive    EventType = "SESSION_ACTIVE"
	EventTick      EventType = "CLOCK_TICK"
	EventPhase     EventType = "PHASE"
	EventRelocate  EventType = "RELOCATE"
	EventComplete  EventType = "SESSION_COMPLETE"
	EventCancelled EventType = "SESSION_CANCELLED"
)

// Event represents a state transition to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Status    Status
	Phase     Phase
	Countdown int
	Remaining int
}

// EventCounts tracks session activity since startup.
type EventCounts struct {
	SessionsStarted   int
	SessionsCompleted int
	SessionsCancelled int
	BreathCycles      int
	Relocations       int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    EventCounts
}

// Rand is the random source used for target relocation.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}
