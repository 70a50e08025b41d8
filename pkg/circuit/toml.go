package circuit

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/voltlab/voltra/pkg/errors"
)

// Value is a numeric netlist parameter in a TOML file. It accepts plain
// TOML numbers as well as strings with SPICE scale suffixes ("5n", "10u").
type Value float64

// UnmarshalTOML implements toml.Unmarshaler.
func (v *Value) UnmarshalTOML(data any) error {
	switch t := data.(type) {
	case int64:
		*v = Value(t)
	case float64:
		*v = Value(t)
	case string:
		f, err := ParseValue(t)
		if err != nil {
			return err
		}
		*v = Value(f)
	default:
		return errors.New(errors.ErrCodeInvalidNetlist, "value must be a number or suffixed string, got %T", data)
	}
	return nil
}

// netlistFile is the TOML schema for circuit files.
type netlistFile struct {
	Title string `toml:"title"`

	VSources []struct {
		Name string `toml:"name"`
		Pos  string `toml:"pos"`
		Neg  string `toml:"neg"`
		DC   Value  `toml:"dc"`
	} `toml:"vsource"`

	Pulses []struct {
		Name    string `toml:"name"`
		Pos     string `toml:"pos"`
		Neg     string `toml:"neg"`
		Initial Value  `toml:"initial"`
		Pulsed  Value  `toml:"pulsed"`
		Delay   Value  `toml:"delay"`
		Rise    Value  `toml:"rise"`
		Fall    Value  `toml:"fall"`
		Width   Value  `toml:"width"`
		Period  Value  `toml:"period"`
	} `toml:"pulse"`

	ISources []struct {
		Name string `toml:"name"`
		Pos  string `toml:"pos"`
		Neg  string `toml:"neg"`
		DC   Value  `toml:"dc"`
	} `toml:"isource"`

	Resistors []struct {
		Name  string `toml:"name"`
		N1    string `toml:"n1"`
		N2    string `toml:"n2"`
		Value Value  `toml:"value"`
	} `toml:"resistor"`

	Capacitors []struct {
		Name  string `toml:"name"`
		N1    string `toml:"n1"`
		N2    string `toml:"n2"`
		Value Value  `toml:"value"`
		IC    *Value `toml:"ic"`
	} `toml:"capacitor"`

	MOSFETs []struct {
		Name   string `toml:"name"`
		Drain  string `toml:"drain"`
		Gate   string `toml:"gate"`
		Source string `toml:"source"`
		Bulk   string `toml:"bulk"`
		Model  string `toml:"model"`
		Length Value  `toml:"length"`
		Width  Value  `toml:"width"`
	} `toml:"mosfet"`

	Models []struct {
		Name   string `toml:"name"`
		Kind   string `toml:"kind"`
		VTO    *Value `toml:"vto"`
		KP     *Value `toml:"kp"`
		Lambda *Value `toml:"lambda"`
		Gamma  *Value `toml:"gamma"`
		Phi    *Value `toml:"phi"`
	} `toml:"model"`
}

// FromTOML builds a circuit from a TOML netlist description.
// The returned circuit is validated.
func FromTOML(data []byte) (*Circuit, error) {
	var nf netlistFile
	if err := toml.Unmarshal(data, &nf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidNetlist, err, "parse netlist")
	}

	c := New(nf.Title)

	for _, s := range nf.VSources {
		c.V(s.Name, Node(s.Pos), Node(s.Neg), float64(s.DC))
	}
	for _, s := range nf.Pulses {
		c.Pulse(s.Name, Node(s.Pos), Node(s.Neg), PulseSpec{
			Initial: float64(s.Initial),
			Pulsed:  float64(s.Pulsed),
			Delay:   float64(s.Delay),
			Rise:    float64(s.Rise),
			Fall:    float64(s.Fall),
			Width:   float64(s.Width),
			Period:  float64(s.Period),
		})
	}
	for _, s := range nf.ISources {
		c.I(s.Name, Node(s.Pos), Node(s.Neg), float64(s.DC))
	}
	for _, r := range nf.Resistors {
		c.R(r.Name, Node(r.N1), Node(r.N2), float64(r.Value))
	}
	for _, cp := range nf.Capacitors {
		e := c.C(cp.Name, Node(cp.N1), Node(cp.N2), float64(cp.Value))
		if cp.IC != nil {
			ic := float64(*cp.IC)
			e.InitialVoltage = &ic
		}
	}
	for _, m := range nf.MOSFETs {
		c.MOSFET(m.Name, Node(m.Drain), Node(m.Gate), Node(m.Source), Node(m.Bulk),
			m.Model, float64(m.Length), float64(m.Width))
	}
	for _, m := range nf.Models {
		card, err := modelFromTOML(m.Name, m.Kind)
		if err != nil {
			return nil, err
		}
		if m.VTO != nil {
			card.VTO = float64(*m.VTO)
		}
		if m.KP != nil {
			card.KP = float64(*m.KP)
		}
		if m.Lambda != nil {
			card.Lambda = float64(*m.Lambda)
		}
		if m.Gamma != nil {
			card.Gamma = float64(*m.Gamma)
		}
		if m.Phi != nil {
			card.Phi = float64(*m.Phi)
		}
		c.Model(card)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func modelFromTOML(name, kind string) (ModelCard, error) {
	switch ModelKind(kind) {
	case NMOS:
		return DefaultNMOS(name), nil
	case PMOS:
		return DefaultPMOS(name), nil
	default:
		return ModelCard{}, errors.New(errors.ErrCodeInvalidModel, "model %q: unknown kind %q (want nmos or pmos)", name, kind)
	}
}

// LoadFile reads and parses a TOML netlist file.
func LoadFile(path string) (*Circuit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "netlist file %q not found", path)
		}
		return nil, fmt.Errorf("read netlist: %w", err)
	}
	return FromTOML(data)
}
