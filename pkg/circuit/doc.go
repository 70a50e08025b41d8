// Package circuit defines netlists: elements, device models, and sources.
//
// A Circuit is built programmatically with the builder methods (V, R, C,
// MOSFET, ...), loaded from a TOML netlist file, or taken from the built-in
// designs. Circuits are pure data; simulation lives in the engine package.
//
// # Building a circuit
//
//	c := circuit.New("RC Divider")
//	c.V("in", "top", circuit.Ground, 10)
//	c.R("1", "top", "mid", 1e3)
//	c.R("2", "mid", circuit.Ground, 1e3)
//	if err := c.Validate(); err != nil {
//	    return err
//	}
//
// # Deck export
//
// Every circuit exports a deterministic SPICE-format deck via [Circuit.Deck].
// The deck doubles as the content identity of the circuit: the simulation
// cache keys recordings by its hash.
//
// # Values
//
// Component values are plain float64 SI units (ohms, farads, volts, seconds,
// meters). [ParseValue] and [FormatValue] convert between floats and SPICE
// magnitude suffixes ("100n", "2.5meg") at the boundaries.
package circuit
