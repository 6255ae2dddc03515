package gpio

import (
	"log"
	"sync"

	"github.com/sweeney/breath-sync/internal/logic"
	"github.com/sweeney/breath-sync/internal/session"
)

// LEDOn reports whether the phase LED should be lit for s.
// It is lit while the lungs fill or are full, blinks with the countdown and
// stays dark otherwise.
func LEDOn(s logic.State) bool {
	switch s.Status {
	case logic.StatusCountdown:
		return s.CountdownValue%2 == 1
	case logic.StatusActive:
		return s.Phase == logic.PhaseInhale || s.Phase == logic.PhaseHoldAfterInhale
	default:
		return false
	}
}

// LED mirrors session updates onto an Indicator. Writes happen only when
// the desired level changes.
type LED struct {
	ind Indicator

	mu    sync.Mutex
	known bool
	on    bool
}

// NewLED wraps ind. The LED is switched off immediately.
func NewLED(ind Indicator) *LED {
	l := &LED{ind: ind}
	l.set(false)
	return l
}

// Observe implements session.Observer.
func (l *LED) Observe(u session.Update) {
	l.set(LEDOn(u.State))
}

func (l *LED) set(on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.known && l.on == on {
		return
	}
	if err := l.ind.Set(on); err != nil {
		log.Printf("led write error: %v", err)
		l.known = false
		return
	}
	l.known = true
	l.on = on
}
