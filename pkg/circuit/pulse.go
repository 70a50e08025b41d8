package circuit

import "github.com/voltlab/voltra/pkg/errors"

// PulseSpec describes a SPICE PULSE waveform. All times are in seconds,
// values in volts. The waveform holds Initial until Delay, ramps to Pulsed
// over Rise, holds for Width, ramps back over Fall, and repeats every Period.
type PulseSpec struct {
	Initial float64 // value before the pulse and between pulses
	Pulsed  float64 // value during the pulse
	Delay   float64 // delay before the first pulse
	Rise    float64 // rise time
	Fall    float64 // fall time
	Width   float64 // pulse width (time at Pulsed)
	Period  float64 // repetition period; 0 means a single pulse
}

// At returns the waveform value at time t.
// The shape is piecewise linear; edges interpolate between Initial and Pulsed.
func (s PulseSpec) At(t float64) float64 {
	if t < s.Delay {
		return s.Initial
	}
	t -= s.Delay
	if s.Period > 0 {
		// Reduce into the first period. Phases at exact multiples of the
		// period restart the pulse, matching SPICE semantics.
		n := int(t / s.Period)
		t -= float64(n) * s.Period
	}

	switch {
	case t < s.Rise:
		if s.Rise == 0 {
			return s.Pulsed
		}
		return s.Initial + (s.Pulsed-s.Initial)*t/s.Rise
	case t < s.Rise+s.Width:
		return s.Pulsed
	case t < s.Rise+s.Width+s.Fall:
		if s.Fall == 0 {
			return s.Initial
		}
		frac := (t - s.Rise - s.Width) / s.Fall
		return s.Pulsed + (s.Initial-s.Pulsed)*frac
	default:
		return s.Initial
	}
}

// check validates the pulse timing parameters. owner names the element in
// error messages.
func (s PulseSpec) check(owner string) error {
	if s.Delay < 0 || s.Rise < 0 || s.Fall < 0 || s.Width < 0 || s.Period < 0 {
		return errors.New(errors.ErrCodeInvalidNetlist, "pulse source %q: negative timing parameter", owner)
	}
	if s.Period > 0 && s.Rise+s.Width+s.Fall > s.Period {
		return errors.New(errors.ErrCodeInvalidNetlist,
			"pulse source %q: rise+width+fall (%g) exceeds period (%g)", owner, s.Rise+s.Width+s.Fall, s.Period)
	}
	return nil
}
