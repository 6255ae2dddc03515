package logic

import (
	"math/rand"
	"testing"
	"time"
)

func TestApproach(t *testing.T) {
	tests := []struct {
		name                    string
		current, target, factor float64
		want                    float64
	}{
		{"from below", 50, 60, 0.02, 50.2},
		{"from above", 60, 50, 0.02, 59.8},
		{"equal", 42, 42, 0.02, 42},
		{"full step", 10, 80, 1, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Approach(tt.current, tt.target, tt.factor)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("Approach(%v, %v, %v) = %v, want %v", tt.current, tt.target, tt.factor, got, tt.want)
			}
		})
	}
}

func TestApproachNeverOvershoots(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		cur := r.Float64() * 100
		target := r.Float64() * 100
		for step := 0; step < 500; step++ {
			next := Approach(cur, target, 0.02)
			if target >= cur && (next < cur || next > target) {
				t.Fatalf("from below: %v -> %v, target %v", cur, next, target)
			}
			if target < cur && (next > cur || next < target) {
				t.Fatalf("from above: %v -> %v, target %v", cur, next, target)
			}
			cur = next
		}
	}
}

func TestRandomPointBounds(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		p := RandomPoint(r, 15, 85)
		if p.X < 15 || p.X >= 85 || p.Y < 15 || p.Y >= 85 {
			t.Fatalf("point %v outside [15, 85)", p)
		}
	}
}

func TestSelectionDurationSeconds(t *testing.T) {
	tests := []struct {
		sel  Selection
		want int
	}{
		{Preset(60), 60},
		{Preset(120), 120},
		{Preset(300), 300},
		{Custom(45), 1800},
		{Custom(0), 60},
		{Custom(3), 180},
	}
	for _, tt := range tests {
		if got := tt.sel.DurationSeconds(); got != tt.want {
			t.Errorf("%+v: got %d, want %d", tt.sel, got, tt.want)
		}
	}
}

func TestTuningNormalize(t *testing.T) {
	got := Tuning{InterpolateFactor: 1.5, MinCoord: 90, MaxCoord: 10}.Normalize()
	if got != DefaultTuning() {
		t.Errorf("expected defaults, got %+v", got)
	}

	custom := DefaultTuning()
	custom.InterpolateFactor = 0.05
	custom.RelocateInterval = 4 * time.Second
	if custom.Normalize() != custom {
		t.Errorf("valid tuning should be kept, got %+v", custom.Normalize())
	}
}
