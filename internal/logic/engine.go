package logic

import "time"

type timerID int

// Timer firing order for deadlines that fall on the same instant.
const (
	timerCountdown timerID = iota
	timerClock
	timerPhase
	timerRelocate
	timerInterpolate
	numTimers
)

// deadline is the cancellation handle of one periodic activity.
// A disarmed deadline can never fire.
type deadline struct {
	at    time.Time
	armed bool
}

// Engine owns the session snapshot and the five session timers.
// It is not safe for concurrent use; session.Controller serializes access.
type Engine struct {
	tuning   Tuning
	rng      Rand
	config   SessionConfig
	state    State
	timers   [numTimers]deadline
	phaseIdx int
	counts   EventCounts
	revision uint64
}

// NewEngine creates an idle engine. Tuning is normalized first.
func NewEngine(tuning Tuning, rng Rand) *Engine {
	e := &Engine{
		tuning: tuning.Normalize(),
		rng:    rng,
		config: SessionConfig{DurationSeconds: DefaultDurationSeconds, Theme: ThemeDay},
	}
	e.reset()
	return e
}

// Configure selects the duration and theme for the next session.
// A preset chosen while a session is running stops it first; a custom value
// chosen while running is rejected with ErrInvalidTransition.
func (e *Engine) Configure(sel Selection, theme Theme, now time.Time) ([]Event, error) {
	var events []Event
	if e.state.Status != StatusIdle {
		if sel.Kind != SelectionPreset {
			return nil, ErrInvalidTransition
		}
		events = append(events, e.teardown(now, EventCancelled))
	}

	cfg := SessionConfig{
		DurationSeconds: sel.DurationSeconds(),
		Theme:           ParseTheme(string(theme)),
	}
	if cfg != e.config {
		e.config = cfg
		e.state.Config = cfg
		e.revision++
	}
	return events, nil
}

// Start enters the countdown. Only the countdown timer is armed.
func (e *Engine) Start(now time.Time) ([]Event, error) {
	if e.state.Status != StatusIdle {
		return nil, ErrInvalidTransition
	}

	e.state.Status = StatusCountdown
	e.state.CountdownValue = e.tuning.CountdownFrom
	e.arm(timerCountdown, now.Add(e.tuning.CountdownInterval))
	e.counts.SessionsStarted++
	e.revision++

	return []Event{e.event(now, EventStarted)}, nil
}

// Stop cancels every timer and resets the snapshot. It is a no-op when idle.
func (e *Engine) Stop(now time.Time) []Event {
	if e.state.Status == StatusIdle {
		return nil
	}
	return []Event{e.teardown(now, EventCancelled)}
}

// Advance fires every timer due at or before now, oldest deadline first,
// and returns the resulting events. Timers are re-armed relative to their own
// previous deadline, so a late call catches up on every missed tick.
func (e *Engine) Advance(now time.Time) []Event {
	var events []Event
	for {
		id, ok := e.due(now)
		if !ok {
			return events
		}
		if ev, ok := e.fire(id, e.timers[id].at); ok {
			events = append(events, ev)
		}
	}
}

// State returns a copy of the current snapshot.
func (e *Engine) State() State {
	return e.state
}

// Counts returns the activity counters since the engine was created.
func (e *Engine) Counts() EventCounts {
	return e.counts
}

// Revision increases on every mutation of the snapshot.
func (e *Engine) Revision() uint64 {
	return e.revision
}

// Tuning returns the normalized constants in use.
func (e *Engine) Tuning() Tuning {
	return e.tuning
}

func (e *Engine) due(now time.Time) (timerID, bool) {
	best := timerID(-1)
	for id := timerID(0); id < numTimers; id++ {
		d := e.timers[id]
		if !d.armed || d.at.After(now) {
			continue
		}
		if best < 0 || d.at.Before(e.timers[best].at) {
			best = id
		}
	}
	return best, best >= 0
}

func (e *Engine) fire(id timerID, at time.Time) (Event, bool) {
	switch id {
	case timerCountdown:
		e.state.CountdownValue--
		e.revision++
		if e.state.CountdownValue > 0 {
			e.timers[id].at = at.Add(e.tuning.CountdownInterval)
			return e.event(at, EventCountdown), true
		}
		e.activate(at)
		return e.event(at, EventActive), true

	case timerClock:
		e.state.RemainingSeconds--
		if e.state.RemainingSeconds <= 0 {
			return e.teardown(at, EventComplete), true
		}
		e.revision++
		e.timers[id].at = at.Add(e.tuning.ClockInterval)
		return e.event(at, EventTick), true

	case timerPhase:
		e.phaseIdx = (e.phaseIdx + 1) % len(BreathCycle)
		if e.phaseIdx == 0 {
			e.counts.BreathCycles++
		}
		step := BreathCycle[e.phaseIdx]
		e.state.Phase = step.Phase
		e.timers[id].at = at.Add(step.Duration)
		e.revision++
		return e.event(at, EventPhase), true

	case timerRelocate:
		e.state.Target = RandomPoint(e.rng, e.tuning.MinCoord, e.tuning.MaxCoord)
		e.counts.Relocations++
		e.timers[id].at = at.Add(e.tuning.RelocateInterval)
		e.revision++
		return e.event(at, EventRelocate), true

	case timerInterpolate:
		next := ApproachPoint(e.state.Current, e.state.Target, e.tuning.InterpolateFactor)
		if next != e.state.Current {
			e.state.Current = next
			e.revision++
		}
		e.timers[id].at = at.Add(e.tuning.InterpolateInterval)
	}
	return Event{}, false
}

// activate performs the COUNTDOWN -> ACTIVE transition. All active timers are
// armed together; relocation is due immediately.
func (e *Engine) activate(at time.Time) {
	e.timers[timerCountdown] = deadline{}

	e.state.Status = StatusActive
	e.state.CountdownValue = e.tuning.CountdownFrom
	e.state.RemainingSeconds = e.config.DurationSeconds
	e.phaseIdx = 0
	e.state.Phase = BreathCycle[0].Phase

	e.arm(timerClock, at.Add(e.tuning.ClockInterval))
	e.arm(timerPhase, at.Add(BreathCycle[0].Duration))
	e.arm(timerRelocate, at)
	e.arm(timerInterpolate, at.Add(e.tuning.InterpolateInterval))
}

// teardown disarms every timer before resetting the snapshot.
func (e *Engine) teardown(now time.Time, reason EventType) Event {
	for i := range e.timers {
		e.timers[i] = deadline{}
	}
	if reason == EventComplete {
		e.counts.SessionsCompleted++
	} else {
		e.counts.SessionsCancelled++
	}
	e.reset()
	e.revision++
	return e.event(now, reason)
}

func (e *Engine) reset() {
	e.phaseIdx = 0
	e.state = State{
		Status:         StatusIdle,
		CountdownValue: e.tuning.CountdownFrom,
		Phase:          BreathCycle[0].Phase,
		Target:         center,
		Current:        center,
		Config:         e.config,
	}
}

func (e *Engine) arm(id timerID, at time.Time) {
	e.timers[id] = deadline{at: at, armed: true}
}

func (e *Engine) event(at time.Time, t EventType) Event {
	return Event{
		Timestamp: at,
		Type:      t,
		Status:    e.state.Status,
		Phase:     e.state.Phase,
		Countdown: e.state.CountdownValue,
		Remaining: e.state.RemainingSeconds,
	}
}
