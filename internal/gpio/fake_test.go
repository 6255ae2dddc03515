package gpio

import (
	"errors"
	"testing"
)

func TestFakeReaderRead(t *testing.T) {
	f := NewFakeReader([]bool{false, true, true})

	for i, want := range []bool{false, true, true, true} {
		got, err := f.Read()
		if err != nil {
			t.Fatalf("read %d: unexpected error: %v", i, err)
		}
		if got != want {
			t.Errorf("read %d: got %v, want %v", i, got, want)
		}
	}
}

func TestFakeReaderNoSamples(t *testing.T) {
	f := NewFakeReader(nil)

	if _, err := f.Read(); err == nil {
		t.Error("expected error with no samples")
	}
}

func TestFakeReaderError(t *testing.T) {
	f := NewFakeReader([]bool{true})
	f.ReadError = errors.New("simulated error")

	_, err := f.Read()
	if err == nil || err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFakeReaderCloseAndReset(t *testing.T) {
	f := NewFakeReader([]bool{true, false})

	f.Read()
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}

	f.Reset()
	if f.Closed {
		t.Error("should not be closed after Reset()")
	}
	if got, _ := f.Read(); got != true {
		t.Error("after reset: expected first sample again")
	}
}

func TestFakeIndicator(t *testing.T) {
	f := &FakeIndicator{}

	if f.Lit() {
		t.Error("expected unlit before any write")
	}
	f.Set(true)
	f.Set(false)
	f.Set(true)

	writes := f.Writes()
	if len(writes) != 3 || !writes[0] || writes[1] || !writes[2] {
		t.Errorf("unexpected writes: %v", writes)
	}
	if !f.Lit() {
		t.Error("expected lit after last write")
	}

	f.Close()
	if !f.IsClosed() {
		t.Error("expected closed")
	}
}
