package logic

import (
	"testing"
	"time"
)

func TestHeartbeatDisabledWithZeroInterval(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	h := NewHeartbeat(start)

	if hb := h.Check(start.Add(15*time.Minute), 0, EventCounts{}); hb != nil {
		t.Error("should not return heartbeat when interval is 0 (disabled)")
	}
	if hb := h.Check(start.Add(15*time.Minute), -time.Minute, EventCounts{}); hb != nil {
		t.Error("should not return heartbeat when interval is negative")
	}
}

func TestHeartbeatBeforeInterval(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	h := NewHeartbeat(start)

	if hb := h.Check(start.Add(14*time.Minute), 15*time.Minute, EventCounts{}); hb != nil {
		t.Error("should not return heartbeat before interval")
	}
}

func TestHeartbeatAtIntervalUpdatesLastTime(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	h := NewHeartbeat(start)
	counts := EventCounts{SessionsStarted: 2, SessionsCompleted: 1, BreathCycles: 9}

	first := start.Add(15 * time.Minute)
	hb := h.Check(first, 15*time.Minute, counts)
	if hb == nil {
		t.Fatal("expected heartbeat at interval")
	}
	if !hb.Timestamp.Equal(first) {
		t.Errorf("Timestamp: got %v, want %v", hb.Timestamp, first)
	}
	if hb.Uptime != 15*time.Minute {
		t.Errorf("Uptime: got %v, want 15m", hb.Uptime)
	}
	if hb.Counts != counts {
		t.Errorf("Counts: got %+v, want %+v", hb.Counts, counts)
	}

	if hb := h.Check(first.Add(time.Minute), 15*time.Minute, counts); hb != nil {
		t.Error("should not return heartbeat one minute after the last one")
	}

	hb = h.Check(first.Add(15*time.Minute), 15*time.Minute, counts)
	if hb == nil {
		t.Fatal("expected second heartbeat")
	}
	if hb.Uptime != 30*time.Minute {
		t.Errorf("second Uptime: got %v, want 30m", hb.Uptime)
	}
}
