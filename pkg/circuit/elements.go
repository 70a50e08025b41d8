package circuit

import (
	"fmt"

	"github.com/voltlab/voltra/pkg/errors"
)

// Element is a circuit element: a named device connected to a set of nodes.
// Elements are pure data; device behavior lives in the engine.
type Element interface {
	// ID returns the full element identifier including its SPICE type
	// prefix, e.g. "vdd", "m1", "c1". IDs are unique within a circuit.
	ID() string

	// Terminals returns the connected nodes in card order.
	Terminals() []Node

	// Card renders the element as a SPICE deck line.
	Card() string

	// check validates element parameters against the owning circuit.
	check(c *Circuit) error
}

// VSource is an independent DC voltage source.
type VSource struct {
	Name     string
	Pos, Neg Node
	DC       float64
}

func (v *VSource) ID() string        { return "v" + v.Name }
func (v *VSource) Terminals() []Node { return []Node{v.Pos, v.Neg} }

func (v *VSource) Card() string {
	return fmt.Sprintf("v%s %s %s dc %s", v.Name, v.Pos, v.Neg, FormatValue(v.DC))
}

func (v *VSource) check(*Circuit) error { return nil }

// PulseSource is an independent voltage source with a periodic pulse shape.
type PulseSource struct {
	Name     string
	Pos, Neg Node
	Spec     PulseSpec
}

func (p *PulseSource) ID() string        { return "v" + p.Name }
func (p *PulseSource) Terminals() []Node { return []Node{p.Pos, p.Neg} }

func (p *PulseSource) Card() string {
	s := p.Spec
	return fmt.Sprintf("v%s %s %s pulse(%s %s %s %s %s %s %s)",
		p.Name, p.Pos, p.Neg,
		FormatValue(s.Initial), FormatValue(s.Pulsed), FormatValue(s.Delay),
		FormatValue(s.Rise), FormatValue(s.Fall), FormatValue(s.Width), FormatValue(s.Period))
}

func (p *PulseSource) check(*Circuit) error {
	return p.Spec.check(p.ID())
}

// ISource is an independent DC current source. Positive current flows from
// Pos to Neg through the source.
type ISource struct {
	Name     string
	Pos, Neg Node
	DC       float64
}

func (i *ISource) ID() string        { return "i" + i.Name }
func (i *ISource) Terminals() []Node { return []Node{i.Pos, i.Neg} }

func (i *ISource) Card() string {
	return fmt.Sprintf("i%s %s %s dc %s", i.Name, i.Pos, i.Neg, FormatValue(i.DC))
}

func (i *ISource) check(*Circuit) error { return nil }

// Resistor is a linear resistor.
type Resistor struct {
	Name   string
	N1, N2 Node
	Ohms   float64
}

func (r *Resistor) ID() string        { return "r" + r.Name }
func (r *Resistor) Terminals() []Node { return []Node{r.N1, r.N2} }

func (r *Resistor) Card() string {
	return fmt.Sprintf("r%s %s %s %s", r.Name, r.N1, r.N2, FormatValue(r.Ohms))
}

func (r *Resistor) check(*Circuit) error {
	if r.Ohms <= 0 {
		return errors.New(errors.ErrCodeInvalidNetlist, "resistor %q: resistance must be positive, got %g", r.ID(), r.Ohms)
	}
	return nil
}

// Capacitor is a linear capacitor. InitialVoltage, when set, seeds the
// capacitor voltage at t=0 instead of the operating-point solution.
type Capacitor struct {
	Name           string
	N1, N2         Node
	Farads         float64
	InitialVoltage *float64
}

func (c *Capacitor) ID() string        { return "c" + c.Name }
func (c *Capacitor) Terminals() []Node { return []Node{c.N1, c.N2} }

func (c *Capacitor) Card() string {
	card := fmt.Sprintf("c%s %s %s %s", c.Name, c.N1, c.N2, FormatValue(c.Farads))
	if c.InitialVoltage != nil {
		card += fmt.Sprintf(" ic=%s", FormatValue(*c.InitialVoltage))
	}
	return card
}

func (c *Capacitor) check(*Circuit) error {
	if c.Farads <= 0 {
		return errors.New(errors.ErrCodeInvalidNetlist, "capacitor %q: capacitance must be positive, got %g", c.ID(), c.Farads)
	}
	return nil
}

// MOSFET is a four-terminal MOSFET referencing a model card by name.
// Length and Width are the channel dimensions in meters.
type MOSFET struct {
	Name                      string
	Drain, Gate, Source, Bulk Node
	Model                     string
	Length, Width             float64
}

func (m *MOSFET) ID() string { return "m" + m.Name }

func (m *MOSFET) Terminals() []Node {
	return []Node{m.Drain, m.Gate, m.Source, m.Bulk}
}

func (m *MOSFET) Card() string {
	return fmt.Sprintf("m%s %s %s %s %s %s l=%s w=%s",
		m.Name, m.Drain, m.Gate, m.Source, m.Bulk, m.Model,
		FormatValue(m.Length), FormatValue(m.Width))
}

func (m *MOSFET) check(c *Circuit) error {
	if m.Length <= 0 || m.Width <= 0 {
		return errors.New(errors.ErrCodeInvalidNetlist, "mosfet %q: channel dimensions must be positive (l=%g, w=%g)", m.ID(), m.Length, m.Width)
	}
	if _, ok := c.ModelByName(m.Model); !ok {
		return errors.New(errors.ErrCodeModelNotFound, "mosfet %q references undefined model %q", m.ID(), m.Model)
	}
	return nil
}
