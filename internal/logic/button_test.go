package logic

import (
	"testing"
	"time"
)

func setupBaselinedButton(t *testing.T, pressed bool) (*Button, time.Time) {
	t.Helper()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	b := NewButton(50 * time.Millisecond)

	b.Process(pressed, now)
	b.Process(pressed, now.Add(50*time.Millisecond))

	if !b.IsBaselined() {
		t.Fatal("failed to establish baseline")
	}
	return b, now.Add(time.Second)
}

func TestButtonBaselineProducesNoPress(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	b := NewButton(50 * time.Millisecond)

	// Held down at boot: becomes the baseline, not a press
	if b.Process(true, now) {
		t.Error("first sample must not be a press")
	}
	if b.Process(true, now.Add(20*time.Millisecond)) {
		t.Error("sample before debounce must not be a press")
	}
	if b.IsBaselined() {
		t.Error("should not be baselined before debounce period")
	}
	if b.Process(true, now.Add(50*time.Millisecond)) {
		t.Error("baseline must not be a press")
	}
	if !b.IsBaselined() {
		t.Error("should be baselined after debounce period")
	}
	if !b.Pressed() {
		t.Error("expected stable level pressed")
	}
}

func TestButtonBaselineResetOnChange(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	b := NewButton(50 * time.Millisecond)

	b.Process(true, now)
	b.Process(false, now.Add(30*time.Millisecond))
	b.Process(false, now.Add(60*time.Millisecond))
	if b.IsBaselined() {
		t.Error("baseline timer should restart when the level changes")
	}
	b.Process(false, now.Add(80*time.Millisecond))
	if !b.IsBaselined() {
		t.Error("should be baselined 50ms after the level settled")
	}
}

func TestButtonSinglePress(t *testing.T) {
	b, now := setupBaselinedButton(t, false)

	if b.Process(true, now) {
		t.Error("press must not register before debounce")
	}
	if b.Process(true, now.Add(40*time.Millisecond)) {
		t.Error("press must not register before debounce")
	}
	if !b.Process(true, now.Add(50*time.Millisecond)) {
		t.Fatal("expected press after debounce")
	}
	// Holding the button does not repeat
	for i := 1; i <= 10; i++ {
		if b.Process(true, now.Add(50*time.Millisecond+time.Duration(i)*10*time.Millisecond)) {
			t.Fatalf("hold sample %d registered a second press", i)
		}
	}
}

func TestButtonReleaseIsNotAPress(t *testing.T) {
	b, now := setupBaselinedButton(t, true)

	b.Process(false, now)
	if b.Process(false, now.Add(50*time.Millisecond)) {
		t.Error("release must not register as a press")
	}
	if b.Pressed() {
		t.Error("expected stable level released")
	}
}

func TestButtonBounceShorterThanDebounce(t *testing.T) {
	b, now := setupBaselinedButton(t, false)

	samples := []bool{true, false, true, false, false, false}
	for i, s := range samples {
		if b.Process(s, now.Add(time.Duration(i)*10*time.Millisecond)) {
			t.Fatalf("bounce sample %d registered a press", i)
		}
	}
	if b.Pressed() {
		t.Error("bounce must not change the stable level")
	}
}

func TestButtonTwoPresses(t *testing.T) {
	b, now := setupBaselinedButton(t, false)

	presses := 0
	levels := []bool{true, true, false, false, true, true}
	for i, l := range levels {
		if b.Process(l, now.Add(time.Duration(i)*50*time.Millisecond)) {
			presses++
		}
	}
	if presses != 2 {
		t.Errorf("expected 2 presses, got %d", presses)
	}
}
