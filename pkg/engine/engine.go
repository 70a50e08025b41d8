package engine

import (
	"github.com/voltlab/voltra/pkg/circuit"
	"github.com/voltlab/voltra/pkg/errors"
)

// Method selects the time integration scheme for capacitors.
type Method string

// Supported integration methods.
const (
	BackwardEuler Method = "euler"
	Trapezoidal   Method = "trapezoidal"
)

// Options holds the numerical configuration of a simulator.
type Options struct {
	// Temperature is the ambient temperature in Celsius.
	Temperature float64

	// NominalTemperature is the temperature at which model parameters
	// were extracted, in Celsius.
	NominalTemperature float64

	// Method is the integration method for transient analyses.
	Method Method

	// Gmin is the minimum conductance stamped across device junctions
	// for matrix conditioning.
	Gmin float64

	// Abstol and Reltol bound the Newton voltage update for convergence:
	// a solution is accepted when every node moved less than
	// Abstol + Reltol*|v|.
	Abstol, Reltol float64

	// MaxIterations caps Newton iterations per solve.
	MaxIterations int
}

// DefaultOptions returns the standard numerical configuration.
func DefaultOptions() Options {
	return Options{
		Temperature:        27,
		NominalTemperature: 27,
		Method:             BackwardEuler,
		Gmin:               1e-12,
		Abstol:             1e-6,
		Reltol:             1e-3,
		MaxIterations:      150,
	}
}

// state carries per-solve context to device stamps.
type state struct {
	t      float64 // current time, seconds
	dt     float64 // timestep; 0 during operating-point analysis
	op     bool    // operating-point solve (capacitors open)
	method Method
}

// device is a circuit element compiled for simulation. stamp contributes
// the device's (linearized) companion model for the current Newton iterate;
// linear devices ignore the iterate.
type device interface {
	stamp(sys *system, st *state)
}

// converger is implemented by nonlinear devices that track their own
// operating point between Newton iterations.
type converger interface {
	converged() bool
}

// stepper is implemented by devices with time-integration state.
// prime seeds the state from an accepted DC solution; finishStep folds an
// accepted timestep solution into the history.
type stepper interface {
	prime(sys *system, st *state)
	finishStep(sys *system, st *state)
}

// Simulator compiles a circuit into stamped devices and runs analyses.
// A Simulator is single-use per analysis call but may run several analyses
// sequentially; it is not safe for concurrent use.
type Simulator struct {
	ckt     *circuit.Circuit
	opts    Options
	nodes   []circuit.Node         // index -> name, ground excluded
	nodeIdx map[circuit.Node]NodeID
	devices []device
	sources int // voltage-source branch count
}

// New compiles the circuit. The circuit is validated first; structural
// problems surface here rather than mid-analysis.
func New(ckt *circuit.Circuit, opts Options) (*Simulator, error) {
	if err := ckt.Validate(); err != nil {
		return nil, err
	}
	if opts.MaxIterations <= 0 || opts.Abstol <= 0 || opts.Gmin < 0 {
		return nil, errors.New(errors.ErrCodeInvalidAnalysis, "invalid numerical options")
	}
	switch opts.Method {
	case BackwardEuler, Trapezoidal:
	default:
		return nil, errors.New(errors.ErrCodeInvalidAnalysis, "unknown integration method %q", opts.Method)
	}

	s := &Simulator{
		ckt:     ckt,
		opts:    opts,
		nodeIdx: make(map[circuit.Node]NodeID),
	}
	for _, n := range ckt.Nodes() {
		s.nodeIdx[n] = NodeID(len(s.nodes))
		s.nodes = append(s.nodes, n)
	}

	for _, e := range ckt.Elements() {
		dev, err := s.compile(e)
		if err != nil {
			return nil, err
		}
		s.devices = append(s.devices, dev)
	}
	return s, nil
}

// node maps a circuit node to its matrix index.
func (s *Simulator) node(n circuit.Node) NodeID {
	if n.IsGround() {
		return Gnd
	}
	return s.nodeIdx[n]
}

// compile translates one netlist element into a stamped device.
func (s *Simulator) compile(e circuit.Element) (device, error) {
	switch el := e.(type) {
	case *circuit.Resistor:
		return &resistor{
			n1: s.node(el.N1), n2: s.node(el.N2),
			g: 1 / el.Ohms,
		}, nil

	case *circuit.Capacitor:
		c := &capacitor{
			n1: s.node(el.N1), n2: s.node(el.N2),
			c: el.Farads, gmin: s.opts.Gmin,
		}
		if el.InitialVoltage != nil {
			ic := *el.InitialVoltage
			c.ic = &ic
		}
		return c, nil

	case *circuit.VSource:
		vs := &vsource{
			pos: s.node(el.Pos), neg: s.node(el.Neg),
			branch: s.sources,
			value:  func(float64) float64 { return el.DC },
		}
		s.sources++
		return vs, nil

	case *circuit.PulseSource:
		spec := el.Spec
		vs := &vsource{
			pos: s.node(el.Pos), neg: s.node(el.Neg),
			branch: s.sources,
			value:  spec.At,
		}
		s.sources++
		return vs, nil

	case *circuit.ISource:
		return &isource{
			pos: s.node(el.Pos), neg: s.node(el.Neg),
			i: el.DC,
		}, nil

	case *circuit.MOSFET:
		card, ok := s.ckt.ModelByName(el.Model)
		if !ok {
			return nil, errors.New(errors.ErrCodeModelNotFound, "mosfet %q references undefined model %q", el.ID(), el.Model)
		}
		return newMOSFET(el, card, s)

	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "element %q: unsupported element type %T", e.ID(), e)
	}
}

// Nodes returns the non-ground node names in matrix order.
func (s *Simulator) Nodes() []circuit.Node { return s.nodes }
