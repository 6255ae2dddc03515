package logic

// Duration bounds for a session.
const (
	MinMinutes         = 1
	MaxMinutes         = 30
	MinDurationSeconds = MinMinutes * 60
	MaxDurationSeconds = MaxMinutes * 60
)

// Presets are the selectable fixed durations, in seconds.
var Presets = []int{60, 120, 300}

// DefaultDurationSeconds is the duration selected before the user picks one.
const DefaultDurationSeconds = 60

// SelectionKind distinguishes preset from custom duration choices.
type SelectionKind int

const (
	SelectionPreset SelectionKind = iota
	SelectionCustom
)

// Selection is a duration choice as made by the user.
type Selection struct {
	Kind  SelectionKind
	Value int // seconds for presets, minutes for custom
}

// Preset selects a fixed duration given in seconds.
func Preset(seconds int) Selection {
	return Selection{Kind: SelectionPreset, Value: seconds}
}

// Custom selects a duration given in whole minutes.
func Custom(minutes int) Selection {
	return Selection{Kind: SelectionCustom, Value: minutes}
}

// DurationSeconds normalizes the selection. Out-of-range values are clamped,
// never rejected.
func (s Selection) DurationSeconds() int {
	if s.Kind == SelectionCustom {
		return clampInt(s.Value, MinMinutes, MaxMinutes) * 60
	}
	return clampInt(s.Value, MinDurationSeconds, MaxDurationSeconds)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
