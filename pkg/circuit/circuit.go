package circuit

import (
	"strings"

	"github.com/voltlab/voltra/pkg/errors"
)

// Node identifies a circuit node by name. Comparison is case-insensitive
// for the ground aliases only; other names are taken verbatim.
type Node string

// Ground is the canonical ground node.
const Ground Node = "0"

// IsGround reports whether the node is the ground reference.
// Both "0" and "GND" (any case) are accepted.
func (n Node) IsGround() bool {
	return n == Ground || strings.EqualFold(string(n), "gnd")
}

// Circuit is a netlist: a titled, ordered collection of elements plus the
// device model cards they reference. Element order is preserved so that deck
// export and simulation results are reproducible.
type Circuit struct {
	Title string

	elements   []Element
	models     map[string]ModelCard
	modelOrder []string
}

// New creates an empty circuit with the given title.
func New(title string) *Circuit {
	return &Circuit{
		Title:  title,
		models: make(map[string]ModelCard),
	}
}

// Elements returns the elements in declaration order.
// The returned slice must not be modified.
func (c *Circuit) Elements() []Element { return c.elements }

// Models returns the model cards in declaration order.
func (c *Circuit) Models() []ModelCard {
	cards := make([]ModelCard, 0, len(c.modelOrder))
	for _, name := range c.modelOrder {
		cards = append(cards, c.models[name])
	}
	return cards
}

// ModelByName looks up a model card by its (case-insensitive) name.
func (c *Circuit) ModelByName(name string) (ModelCard, bool) {
	card, ok := c.models[strings.ToLower(name)]
	return card, ok
}

// Add appends an element to the circuit.
// Most callers should use the typed constructors (V, R, C, MOSFET, ...) instead.
func (c *Circuit) Add(e Element) {
	c.elements = append(c.elements, e)
}

// Model registers a device model card. Registering a card with the name of an
// existing card replaces it.
func (c *Circuit) Model(card ModelCard) {
	key := strings.ToLower(card.Name)
	if _, exists := c.models[key]; !exists {
		c.modelOrder = append(c.modelOrder, key)
	}
	c.models[key] = card
}

// V adds a DC voltage source between pos and neg.
func (c *Circuit) V(name string, pos, neg Node, dc float64) *VSource {
	e := &VSource{Name: name, Pos: pos, Neg: neg, DC: dc}
	c.Add(e)
	return e
}

// Pulse adds a pulsed voltage source between pos and neg.
func (c *Circuit) Pulse(name string, pos, neg Node, spec PulseSpec) *PulseSource {
	e := &PulseSource{Name: name, Pos: pos, Neg: neg, Spec: spec}
	c.Add(e)
	return e
}

// I adds a DC current source; positive current flows from pos to neg
// through the source.
func (c *Circuit) I(name string, pos, neg Node, dc float64) *ISource {
	e := &ISource{Name: name, Pos: pos, Neg: neg, DC: dc}
	c.Add(e)
	return e
}

// R adds a resistor between n1 and n2.
func (c *Circuit) R(name string, n1, n2 Node, ohms float64) *Resistor {
	e := &Resistor{Name: name, N1: n1, N2: n2, Ohms: ohms}
	c.Add(e)
	return e
}

// C adds a capacitor between n1 and n2.
func (c *Circuit) C(name string, n1, n2 Node, farads float64) *Capacitor {
	e := &Capacitor{Name: name, N1: n1, N2: n2, Farads: farads}
	c.Add(e)
	return e
}

// MOSFET adds a four-terminal MOSFET referencing a model card by name.
// Terminal order follows SPICE convention: drain, gate, source, bulk.
func (c *Circuit) MOSFET(name string, drain, gate, source, bulk Node, model string, length, width float64) *MOSFET {
	e := &MOSFET{
		Name: name, Drain: drain, Gate: gate, Source: source, Bulk: bulk,
		Model: model, Length: length, Width: width,
	}
	c.Add(e)
	return e
}

// Nodes returns every non-ground node referenced by any element, in first-use
// order. This order determines matrix indices in the engine and signal order
// in recordings, so it must be deterministic.
func (c *Circuit) Nodes() []Node {
	seen := make(map[Node]bool)
	var nodes []Node
	for _, e := range c.elements {
		for _, n := range e.Terminals() {
			if n.IsGround() || seen[n] {
				continue
			}
			seen[n] = true
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// Validate checks the netlist for structural problems before simulation.
// It verifies element names, node references, model card references, and
// element parameter ranges. All violations carry the INVALID_NETLIST or
// MODEL_NOT_FOUND error codes.
func (c *Circuit) Validate() error {
	if len(c.elements) == 0 {
		return errors.New(errors.ErrCodeInvalidNetlist, "circuit %q has no elements", c.Title)
	}

	names := make(map[string]bool)
	grounded := false
	for _, e := range c.elements {
		if err := errors.ValidateName(e.ID()); err != nil {
			return err
		}
		if names[e.ID()] {
			return errors.New(errors.ErrCodeInvalidNetlist, "duplicate element %q", e.ID())
		}
		names[e.ID()] = true

		for _, n := range e.Terminals() {
			if n.IsGround() {
				grounded = true
			} else if err := errors.ValidateName(string(n)); err != nil {
				return err
			}
		}

		if err := e.check(c); err != nil {
			return err
		}
	}

	if !grounded {
		return errors.New(errors.ErrCodeInvalidNetlist, "circuit %q has no ground reference", c.Title)
	}
	return nil
}
