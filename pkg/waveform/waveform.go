// Package waveform defines the Waveform Recording produced by transient
// analyses: a monotonically increasing time axis plus named signal traces,
// all aligned index for index.
//
// Recordings are the single data contract between the engine, the renderers,
// and the cache. [Recording.Check] enforces the alignment invariants; the
// engine always returns checked recordings, and decoders re-check after
// deserialization so corrupt cache entries cannot leak through.
package waveform

import (
	"gonum.org/v1/gonum/floats"

	"github.com/voltlab/voltra/pkg/errors"
)

// Recording is a time-aligned set of signal traces.
// Signal insertion order is preserved: it determines plot legend order and
// keeps serialized forms deterministic.
type Recording struct {
	time    []float64
	names   []string
	signals map[string][]float64
}

// New creates a recording over the given time axis.
// The slice is retained, not copied.
func New(time []float64) *Recording {
	return &Recording{
		time:    time,
		signals: make(map[string][]float64),
	}
}

// Time returns the time axis in seconds.
func (r *Recording) Time() []float64 { return r.time }

// Len returns the number of timepoints.
func (r *Recording) Len() int { return len(r.time) }

// Names returns the signal names in insertion order.
func (r *Recording) Names() []string { return r.names }

// Signal returns the trace for the given name.
func (r *Recording) Signal(name string) ([]float64, bool) {
	s, ok := r.signals[name]
	return s, ok
}

// AddSignal adds a named trace. The trace must be aligned with the time axis.
func (r *Recording) AddSignal(name string, values []float64) error {
	if len(values) != len(r.time) {
		return errors.New(errors.ErrCodeInvalidWaveform,
			"signal %q has %d points, time axis has %d", name, len(values), len(r.time))
	}
	if _, exists := r.signals[name]; exists {
		return errors.New(errors.ErrCodeInvalidWaveform, "duplicate signal %q", name)
	}
	r.names = append(r.names, name)
	r.signals[name] = values
	return nil
}

// Check verifies the recording invariants: a non-empty, strictly increasing
// time axis and every signal aligned with it.
func (r *Recording) Check() error {
	if len(r.time) == 0 {
		return errors.New(errors.ErrCodeInvalidWaveform, "empty time axis")
	}
	for i := 1; i < len(r.time); i++ {
		if r.time[i] <= r.time[i-1] {
			return errors.New(errors.ErrCodeInvalidWaveform,
				"time axis not strictly increasing at index %d (%g after %g)", i, r.time[i], r.time[i-1])
		}
	}
	for _, name := range r.names {
		if len(r.signals[name]) != len(r.time) {
			return errors.New(errors.ErrCodeInvalidWaveform,
				"signal %q has %d points, time axis has %d", name, len(r.signals[name]), len(r.time))
		}
	}
	return nil
}

// Bounds returns the minimum and maximum values across the named signals.
// With no names given, all signals are considered.
func (r *Recording) Bounds(names ...string) (min, max float64, err error) {
	if len(names) == 0 {
		names = r.names
	}
	if len(names) == 0 {
		return 0, 0, errors.New(errors.ErrCodeInvalidWaveform, "recording has no signals")
	}

	first := true
	for _, name := range names {
		s, ok := r.signals[name]
		if !ok {
			return 0, 0, errors.New(errors.ErrCodeSignalNotFound, "unknown signal %q", name)
		}
		if len(s) == 0 {
			continue
		}
		lo, hi := floats.Min(s), floats.Max(s)
		if first {
			min, max = lo, hi
			first = false
			continue
		}
		if lo < min {
			min = lo
		}
		if hi > max {
			max = hi
		}
	}
	if first {
		return 0, 0, errors.New(errors.ErrCodeInvalidWaveform, "recording is empty")
	}
	return min, max, nil
}
