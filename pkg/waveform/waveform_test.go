package waveform

import (
	"math"
	"testing"

	"github.com/voltlab/voltra/pkg/errors"
)

// ramp builds a recording with a linear time axis and the given signals.
func ramp(t *testing.T, n int, step float64, signals map[string]func(t float64) float64) *Recording {
	t.Helper()
	time := make([]float64, n)
	for i := range time {
		time[i] = float64(i) * step
	}
	r := New(time)
	// Deterministic order for tests
	for _, name := range []string{"vin", "out", "a", "b"} {
		fn, ok := signals[name]
		if !ok {
			continue
		}
		values := make([]float64, n)
		for i, tv := range time {
			values[i] = fn(tv)
		}
		if err := r.AddSignal(name, values); err != nil {
			t.Fatalf("AddSignal(%q): %v", name, err)
		}
	}
	return r
}

func TestAddSignal(t *testing.T) {
	r := New([]float64{0, 1, 2})

	if err := r.AddSignal("a", []float64{1, 2, 3}); err != nil {
		t.Fatalf("AddSignal: %v", err)
	}

	// Misaligned
	err := r.AddSignal("b", []float64{1, 2})
	if !errors.Is(err, errors.ErrCodeInvalidWaveform) {
		t.Errorf("misaligned signal: code = %v, want INVALID_WAVEFORM", errors.GetCode(err))
	}

	// Duplicate
	err = r.AddSignal("a", []float64{4, 5, 6})
	if !errors.Is(err, errors.ErrCodeInvalidWaveform) {
		t.Errorf("duplicate signal: code = %v, want INVALID_WAVEFORM", errors.GetCode(err))
	}

	if got := r.Names(); len(got) != 1 || got[0] != "a" {
		t.Errorf("Names() = %v, want [a]", got)
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		build   func() *Recording
		wantErr bool
	}{
		{
			name: "valid",
			build: func() *Recording {
				r := New([]float64{0, 1e-10, 2e-10})
				_ = r.AddSignal("v", []float64{0, 1, 2})
				return r
			},
		},
		{
			name:    "empty time axis",
			build:   func() *Recording { return New(nil) },
			wantErr: true,
		},
		{
			name: "non-increasing time",
			build: func() *Recording {
				return New([]float64{0, 1e-10, 1e-10})
			},
			wantErr: true,
		},
		{
			name: "decreasing time",
			build: func() *Recording {
				return New([]float64{0, 2e-10, 1e-10})
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build().Check()
			if (err != nil) != tt.wantErr {
				t.Errorf("Check() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAt(t *testing.T) {
	r := ramp(t, 11, 1, map[string]func(float64) float64{
		"a": func(tv float64) float64 { return 2 * tv },
	})

	tests := []struct {
		t    float64
		want float64
	}{
		{0, 0},
		{5, 10},
		{2.5, 5},   // interpolated
		{-1, 0},    // clamps low
		{100, 20},  // clamps high
		{9.75, 19.5},
	}
	for _, tt := range tests {
		got, err := r.At("a", tt.t)
		if err != nil {
			t.Fatalf("At(%g): %v", tt.t, err)
		}
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("At(%g) = %g, want %g", tt.t, got, tt.want)
		}
	}

	if _, err := r.At("missing", 0); !errors.Is(err, errors.ErrCodeSignalNotFound) {
		t.Errorf("unknown signal: code = %v, want SIGNAL_NOT_FOUND", errors.GetCode(err))
	}
}

func TestCrossingTimes(t *testing.T) {
	// Triangle wave: 0 → 10 → 0 over 20s
	r := ramp(t, 21, 1, map[string]func(float64) float64{
		"a": func(tv float64) float64 { return 10 - math.Abs(tv-10) },
	})

	rising, err := r.CrossingTimes("a", 5, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(rising) != 1 || math.Abs(rising[0]-5) > 1e-12 {
		t.Errorf("rising crossings = %v, want [5]", rising)
	}

	falling, err := r.CrossingTimes("a", 5, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(falling) != 1 || math.Abs(falling[0]-15) > 1e-12 {
		t.Errorf("falling crossings = %v, want [15]", falling)
	}
}

func TestPropagationDelay(t *testing.T) {
	// Square input; output is the complement delayed by 1s.
	in := func(tv float64) float64 {
		if math.Mod(tv, 20) < 10 {
			return 0
		}
		return 5
	}
	r := ramp(t, 41, 1, map[string]func(float64) float64{
		"vin": in,
		"out": func(tv float64) float64 { return 5 - in(tv-1) },
	})

	d, err := r.PropagationDelay("vin", "out", 2.5)
	if err != nil {
		t.Fatalf("PropagationDelay: %v", err)
	}
	if math.Abs(d-1) > 0.1 {
		t.Errorf("delay = %g, want ~1", d)
	}
}

func TestRiseFallTime(t *testing.T) {
	// One clean 0→10 edge over 10s, then a 10→0 edge.
	r := ramp(t, 31, 1, map[string]func(float64) float64{
		"a": func(tv float64) float64 {
			switch {
			case tv < 10:
				return tv
			case tv < 20:
				return 10
			default:
				return 10 - (tv - 20)
			}
		},
	})

	rise, err := r.RiseTime("a")
	if err != nil {
		t.Fatalf("RiseTime: %v", err)
	}
	// 10% to 90% of a linear 10s edge is 8s
	if math.Abs(rise-8) > 1e-9 {
		t.Errorf("RiseTime = %g, want 8", rise)
	}

	fall, err := r.FallTime("a")
	if err != nil {
		t.Fatalf("FallTime: %v", err)
	}
	if math.Abs(fall-8) > 1e-9 {
		t.Errorf("FallTime = %g, want 8", fall)
	}
}

func TestBounds(t *testing.T) {
	r := ramp(t, 11, 1, map[string]func(float64) float64{
		"a": func(tv float64) float64 { return tv },
		"b": func(tv float64) float64 { return -tv },
	})

	min, max, err := r.Bounds()
	if err != nil {
		t.Fatal(err)
	}
	if min != -10 || max != 10 {
		t.Errorf("Bounds() = %g, %g, want -10, 10", min, max)
	}

	min, max, err = r.Bounds("a")
	if err != nil {
		t.Fatal(err)
	}
	if min != 0 || max != 10 {
		t.Errorf("Bounds(a) = %g, %g, want 0, 10", min, max)
	}

	if _, _, err := r.Bounds("missing"); !errors.Is(err, errors.ErrCodeSignalNotFound) {
		t.Errorf("unknown signal: code = %v", errors.GetCode(err))
	}
}
