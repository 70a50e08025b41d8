package engine

import (
	"context"
	"math"
	"time"

	"github.com/voltlab/voltra/pkg/errors"
	"github.com/voltlab/voltra/pkg/observability"
	"github.com/voltlab/voltra/pkg/waveform"
)

// TranSpec describes a fixed-step transient analysis over [0, End].
type TranSpec struct {
	// Step is the fixed timestep in seconds.
	Step float64

	// End is the final simulation time in seconds.
	End float64

	// UseIC skips the operating-point solve and starts from the declared
	// initial conditions (zero where none are given).
	UseIC bool
}

func (t TranSpec) check() error {
	if t.Step <= 0 {
		return errors.New(errors.ErrCodeInvalidAnalysis, "timestep must be positive")
	}
	if t.End <= 0 {
		return errors.New(errors.ErrCodeInvalidAnalysis, "end time must be positive")
	}
	if t.Step > t.End {
		return errors.New(errors.ErrCodeInvalidAnalysis, "timestep %g exceeds end time %g", t.Step, t.End)
	}
	return nil
}

// OPResult holds a solved DC operating point.
type OPResult struct {
	// Voltages maps node names to their bias voltage.
	Voltages map[string]float64

	// Iterations is the Newton iteration count the solve took.
	Iterations int
}

// OP solves the DC operating point: time-dependent sources at t=0,
// capacitors open.
func (s *Simulator) OP(ctx context.Context) (*OPResult, error) {
	observability.Simulation().OnOperatingPointStart(ctx, s.ckt.Title)
	start := time.Now()

	sys := newSystem(len(s.nodes), s.sources)
	st := &state{op: true, method: s.opts.Method}

	iters, err := s.solveNewton(ctx, sys, st)
	observability.Simulation().OnOperatingPointComplete(ctx, s.ckt.Title, iters, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	res := &OPResult{
		Voltages:   make(map[string]float64, len(s.nodes)),
		Iterations: iters,
	}
	for i, n := range s.nodes {
		res.Voltages[string(n)] = sys.voltage(NodeID(i))
	}
	return res, nil
}

// Transient runs a fixed-step transient analysis and records every node
// voltage. The recording holds round(End/Step)+1 points with time[i] = i*Step.
func (s *Simulator) Transient(ctx context.Context, spec TranSpec) (*waveform.Recording, error) {
	if err := spec.check(); err != nil {
		return nil, err
	}

	steps := int(math.Round(spec.End / spec.Step))
	if steps < 1 {
		steps = 1
	}

	observability.Simulation().OnTransientStart(ctx, s.ckt.Title, steps+1)
	start := time.Now()

	rec, err := s.transient(ctx, spec, steps)
	observability.Simulation().OnTransientComplete(ctx, s.ckt.Title, steps+1, time.Since(start), err)
	return rec, err
}

func (s *Simulator) transient(ctx context.Context, spec TranSpec, steps int) (*waveform.Recording, error) {
	sys := newSystem(len(s.nodes), s.sources)
	st := &state{method: s.opts.Method}

	if !spec.UseIC {
		// Bias the circuit first so the transient starts from a
		// self-consistent state.
		st.op = true
		if _, err := s.solveNewton(ctx, sys, st); err != nil {
			return nil, err
		}
		st.op = false
	}

	// Seed the integration history from the starting state.
	st.dt = spec.Step
	for _, d := range s.devices {
		if sp, ok := d.(stepper); ok {
			sp.prime(sys, st)
		}
	}

	times := make([]float64, steps+1)
	traces := make([][]float64, len(s.nodes))
	for i := range traces {
		traces[i] = make([]float64, steps+1)
	}
	record := func(idx int, t float64) {
		times[idx] = t
		for i := range traces {
			traces[i][idx] = sys.voltage(NodeID(i))
		}
	}
	record(0, 0)

	for i := 1; i <= steps; i++ {
		select {
		case <-ctx.Done():
			return nil, errors.Wrap(errors.ErrCodeInternal, ctx.Err(), "transient analysis canceled")
		default:
		}

		st.t = float64(i) * spec.Step
		if _, err := s.solveNewton(ctx, sys, st); err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "at t=%g", st.t)
		}

		for _, d := range s.devices {
			if sp, ok := d.(stepper); ok {
				sp.finishStep(sys, st)
			}
		}
		record(i, st.t)
	}

	rec := waveform.New(times)
	for i, n := range s.nodes {
		if err := rec.AddSignal(string(n), traces[i]); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// solveNewton iterates stamp-solve cycles until every node voltage settles
// within Abstol + Reltol*|v| and every nonlinear device reports convergence.
func (s *Simulator) solveNewton(ctx context.Context, sys *system, st *state) (int, error) {
	prev := make([]float64, sys.n+sys.m)

	for iter := 1; iter <= s.opts.MaxIterations; iter++ {
		sys.snapshot(prev)
		sys.zero()
		for _, d := range s.devices {
			d.stamp(sys, st)
		}
		if err := sys.solve(); err != nil {
			return iter, err
		}

		if iter == 1 {
			// The first solve is the initial linearization; a second
			// pass is needed to confirm the operating region.
			continue
		}

		delta := sys.maxDelta(prev)
		tol := s.opts.Abstol + s.opts.Reltol*sys.maxAbsVoltage()
		if delta > tol {
			continue
		}
		settled := true
		for _, d := range s.devices {
			if cv, ok := d.(converger); ok && !cv.converged() {
				settled = false
				break
			}
		}
		if settled {
			return iter, nil
		}
	}

	return s.opts.MaxIterations, errors.New(errors.ErrCodeConvergence,
		"no convergence after %d iterations", s.opts.MaxIterations)
}
