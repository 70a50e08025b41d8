package circuit

import (
	"math"
	"testing"
)

// spec matches the demo inverter input: 0-5V, 1ns edges, 5ns width, 10ns period.
var demoPulse = PulseSpec{
	Initial: 0,
	Pulsed:  5,
	Rise:    1e-9,
	Fall:    1e-9,
	Width:   5e-9,
	Period:  10e-9,
}

func TestPulseAt(t *testing.T) {
	tests := []struct {
		name string
		t    float64
		want float64
	}{
		{"start", 0, 0},
		{"mid rise", 0.5e-9, 2.5},
		{"end of rise", 1e-9, 5},
		{"plateau", 3e-9, 5},
		{"end of width", 5.9e-9, 5},
		{"mid fall", 6.5e-9, 2.5},
		{"after fall", 8e-9, 0},
		{"second period start", 10e-9, 0},
		{"second period plateau", 13e-9, 5},
		{"fifth period mid rise", 40.5e-9, 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := demoPulse.At(tt.t)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("At(%g) = %g, want %g", tt.t, got, tt.want)
			}
		})
	}
}

func TestPulseDelay(t *testing.T) {
	s := demoPulse
	s.Delay = 2e-9

	if got := s.At(1e-9); got != 0 {
		t.Errorf("At before delay = %g, want 0", got)
	}
	if got := s.At(3e-9); math.Abs(got-5) > 1e-9 {
		t.Errorf("At(delay+rise) = %g, want 5", got)
	}
}

func TestPulseSinglePulse(t *testing.T) {
	// Period 0 means the pulse does not repeat.
	s := PulseSpec{Initial: 0, Pulsed: 1, Rise: 1e-9, Width: 1e-9, Fall: 1e-9}

	if got := s.At(1.5e-9); got != 1 {
		t.Errorf("At during width = %g, want 1", got)
	}
	if got := s.At(100e-9); got != 0 {
		t.Errorf("At long after = %g, want 0 (no repetition)", got)
	}
}

func TestPulseZeroEdges(t *testing.T) {
	// Ideal square wave: zero rise/fall must not divide by zero.
	s := PulseSpec{Initial: 0, Pulsed: 1, Width: 5e-9, Period: 10e-9}

	if got := s.At(0); got != 1 {
		t.Errorf("At(0) = %g, want 1 (instant rise)", got)
	}
	if got := s.At(6e-9); got != 0 {
		t.Errorf("At after width = %g, want 0 (instant fall)", got)
	}
}
