package logic

import "time"

// Button debounces a push-button level sampled on a poll tick.
type Button struct {
	debounce time.Duration
	// Current stable (debounced) level
	stable bool
	// Pending level during debounce
	pending    bool
	hasPending bool
	// Time when pending level was first observed
	pendingSince time.Time
	// Whether we have established a baseline
	baselined bool
}

// NewButton creates a debouncer with the given debounce duration.
func NewButton(debounce time.Duration) *Button {
	return &Button{debounce: debounce}
}

// Process takes a new sample and reports whether it completed a press.
// Only a debounced released -> pressed transition counts; the baseline never does.
func (b *Button) Process(pressed bool, now time.Time) bool {
	if !b.baselined {
		if !b.hasPending || b.pending != pressed {
			// Start observing, or level changed during baseline
			b.pending = pressed
			b.hasPending = true
			b.pendingSince = now
			return false
		}
		if now.Sub(b.pendingSince) >= b.debounce {
			b.stable = pressed
			b.baselined = true
			b.hasPending = false
		}
		return false
	}

	if pressed == b.stable {
		b.hasPending = false
		return false
	}

	if !b.hasPending || b.pending != pressed {
		b.pending = pressed
		b.hasPending = true
		b.pendingSince = now
		return false
	}

	if now.Sub(b.pendingSince) < b.debounce {
		return false
	}

	b.stable = pressed
	b.hasPending = false
	return pressed
}

// IsBaselined returns whether the button has established a baseline.
func (b *Button) IsBaselined() bool {
	return b.baselined
}

// Pressed returns the current debounced level.
func (b *Button) Pressed() bool {
	return b.stable
}
