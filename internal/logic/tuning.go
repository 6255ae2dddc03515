package logic

import "time"

// PhaseStep is one row of the breath cycle schedule.
type PhaseStep struct {
	Phase    Phase
	Duration time.Duration
}

// BreathCycle is the fixed 12 second schedule. It always starts at INHALE.
var BreathCycle = []PhaseStep{
	{PhaseInhale, 4 * time.Second},
	{PhaseHoldAfterInhale, 2 * time.Second},
	{PhaseExhale, 4 * time.Second},
	{PhaseHoldAfterExhale, 2 * time.Second},
}

// CyclePeriod returns the total length of one breath cycle.
func CyclePeriod() time.Duration {
	var d time.Duration
	for _, s := range BreathCycle {
		d += s.Duration
	}
	return d
}

// Tuning holds the timing and motion constants of the engine.
// The phase schedule is not tunable.
type Tuning struct {
	CountdownFrom       int
	CountdownInterval   time.Duration
	ClockInterval       time.Duration
	RelocateInterval    time.Duration
	InterpolateInterval time.Duration
	InterpolateFactor   float64
	MinCoord            float64
	MaxCoord            float64
}

// DefaultTuning returns the standard session constants.
func DefaultTuning() Tuning {
	return Tuning{
		CountdownFrom:       3,
		CountdownInterval:   time.Second,
		ClockInterval:       time.Second,
		RelocateInterval:    8 * time.Second,
		InterpolateInterval: 50 * time.Millisecond,
		InterpolateFactor:   0.02,
		MinCoord:            15,
		MaxCoord:            85,
	}
}

// Normalize replaces out-of-range values with defaults.
// A factor outside (0, 1] could overshoot or diverge, so it is never kept.
func (t Tuning) Normalize() Tuning {
	def := DefaultTuning()
	if t.CountdownFrom < 1 {
		t.CountdownFrom = def.CountdownFrom
	}
	if t.CountdownInterval <= 0 {
		t.CountdownInterval = def.CountdownInterval
	}
	if t.ClockInterval <= 0 {
		t.ClockInterval = def.ClockInterval
	}
	if t.RelocateInterval <= 0 {
		t.RelocateInterval = def.RelocateInterval
	}
	if t.InterpolateInterval <= 0 {
		t.InterpolateInterval = def.InterpolateInterval
	}
	if t.InterpolateFactor <= 0 || t.InterpolateFactor > 1 {
		t.InterpolateFactor = def.InterpolateFactor
	}
	if t.MinCoord >= t.MaxCoord || t.MinCoord < 0 || t.MaxCoord > 100 {
		t.MinCoord = def.MinCoord
		t.MaxCoord = def.MaxCoord
	}
	return t
}

// center is both the initial target and the initial displayed position.
var center = Point{X: 50, Y: 50}
