package waveform

import (
	"gonum.org/v1/gonum/floats"

	"github.com/voltlab/voltra/pkg/errors"
)

// At returns the value of the named signal at time t, linearly interpolating
// between samples. Times outside the recorded span clamp to the endpoints.
func (r *Recording) At(name string, t float64) (float64, error) {
	s, ok := r.signals[name]
	if !ok {
		return 0, errors.New(errors.ErrCodeSignalNotFound, "unknown signal %q", name)
	}
	if len(s) == 0 {
		return 0, errors.New(errors.ErrCodeInvalidWaveform, "signal %q is empty", name)
	}

	if t <= r.time[0] {
		return s[0], nil
	}
	if t >= r.time[len(r.time)-1] {
		return s[len(s)-1], nil
	}

	// Binary search for the bracketing interval.
	lo, hi := 0, len(r.time)-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if r.time[mid] <= t {
			lo = mid
		} else {
			hi = mid
		}
	}
	frac := (t - r.time[lo]) / (r.time[hi] - r.time[lo])
	return s[lo] + (s[hi]-s[lo])*frac, nil
}

// CrossingTimes returns the times at which the named signal crosses the
// threshold in the given direction, linearly interpolated between samples.
func (r *Recording) CrossingTimes(name string, threshold float64, rising bool) ([]float64, error) {
	s, ok := r.signals[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeSignalNotFound, "unknown signal %q", name)
	}

	var crossings []float64
	for i := 1; i < len(s); i++ {
		var crossed bool
		if rising {
			crossed = s[i-1] < threshold && s[i] >= threshold
		} else {
			crossed = s[i-1] > threshold && s[i] <= threshold
		}
		if !crossed {
			continue
		}
		frac := (threshold - s[i-1]) / (s[i] - s[i-1])
		crossings = append(crossings, r.time[i-1]+frac*(r.time[i]-r.time[i-1]))
	}
	return crossings, nil
}

// PropagationDelay measures the average delay from each threshold crossing
// of the input signal to the next opposite-direction crossing of the output
// signal. This matches the inverting behavior of logic stages: an input rise
// pairs with an output fall and vice versa.
func (r *Recording) PropagationDelay(in, out string, threshold float64) (float64, error) {
	inRise, err := r.CrossingTimes(in, threshold, true)
	if err != nil {
		return 0, err
	}
	inFall, err := r.CrossingTimes(in, threshold, false)
	if err != nil {
		return 0, err
	}
	outRise, err := r.CrossingTimes(out, threshold, true)
	if err != nil {
		return 0, err
	}
	outFall, err := r.CrossingTimes(out, threshold, false)
	if err != nil {
		return 0, err
	}

	var total float64
	var n int
	for _, t := range inRise {
		if d, ok := nextAfter(outFall, t); ok {
			total += d - t
			n++
		}
	}
	for _, t := range inFall {
		if d, ok := nextAfter(outRise, t); ok {
			total += d - t
			n++
		}
	}
	if n == 0 {
		return 0, errors.New(errors.ErrCodeInvalidWaveform,
			"no paired crossings between %q and %q at threshold %g", in, out, threshold)
	}
	return total / float64(n), nil
}

// nextAfter returns the first time in ts strictly after t.
func nextAfter(ts []float64, t float64) (float64, bool) {
	for _, v := range ts {
		if v > t {
			return v, true
		}
	}
	return 0, false
}

// RiseTime measures the 10%-90% rise time of the first full upward swing of
// the named signal. The swing range is taken from the signal's own extremes.
func (r *Recording) RiseTime(name string) (float64, error) {
	return r.edgeTime(name, true)
}

// FallTime measures the 90%-10% fall time of the first full downward swing
// of the named signal.
func (r *Recording) FallTime(name string) (float64, error) {
	return r.edgeTime(name, false)
}

func (r *Recording) edgeTime(name string, rising bool) (float64, error) {
	s, ok := r.signals[name]
	if !ok {
		return 0, errors.New(errors.ErrCodeSignalNotFound, "unknown signal %q", name)
	}
	if len(s) == 0 {
		return 0, errors.New(errors.ErrCodeInvalidWaveform, "signal %q is empty", name)
	}

	lo, hi := floats.Min(s), floats.Max(s)
	if hi-lo == 0 {
		return 0, errors.New(errors.ErrCodeInvalidWaveform, "signal %q is constant", name)
	}
	t10 := lo + 0.10*(hi-lo)
	t90 := lo + 0.90*(hi-lo)

	first, second := t10, t90
	if !rising {
		first, second = t90, t10
	}

	starts, err := r.CrossingTimes(name, first, rising)
	if err != nil {
		return 0, err
	}
	ends, err := r.CrossingTimes(name, second, rising)
	if err != nil {
		return 0, err
	}
	for _, ts := range starts {
		if te, ok := nextAfter(ends, ts); ok {
			return te - ts, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidWaveform, "signal %q has no complete edge", name)
}
