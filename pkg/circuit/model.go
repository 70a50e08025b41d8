package circuit

import (
	"fmt"
	"strings"
)

// ModelKind identifies the device polarity of a model card.
type ModelKind string

// Supported model kinds.
const (
	NMOS ModelKind = "nmos"
	PMOS ModelKind = "pmos"
)

// ModelCard holds the level-1 MOSFET model parameters.
// Parameter names follow the SPICE .model convention.
type ModelCard struct {
	Name string
	Kind ModelKind

	VTO    float64 // zero-bias threshold voltage [V]; negative for PMOS
	KP     float64 // transconductance parameter [A/V^2]
	Lambda float64 // channel-length modulation [1/V]
	Gamma  float64 // bulk threshold parameter [sqrt(V)]
	Phi    float64 // surface potential [V]
}

// DefaultNMOS returns an NMOS model card with level-1 defaults.
func DefaultNMOS(name string) ModelCard {
	return ModelCard{
		Name: name,
		Kind: NMOS,
		VTO:  0.7,
		KP:   2e-5,
		Phi:  0.6,
	}
}

// DefaultPMOS returns a PMOS model card with level-1 defaults.
func DefaultPMOS(name string) ModelCard {
	return ModelCard{
		Name: name,
		Kind: PMOS,
		VTO:  -0.7,
		KP:   2e-5,
		Phi:  0.6,
	}
}

// Card renders the model as a SPICE .model line.
func (m ModelCard) Card() string {
	var b strings.Builder
	fmt.Fprintf(&b, ".model %s %s (vto=%s kp=%s", strings.ToLower(m.Name), m.Kind, FormatValue(m.VTO), FormatValue(m.KP))
	if m.Lambda != 0 {
		fmt.Fprintf(&b, " lambda=%s", FormatValue(m.Lambda))
	}
	if m.Gamma != 0 {
		fmt.Fprintf(&b, " gamma=%s", FormatValue(m.Gamma))
	}
	if m.Phi != 0 {
		fmt.Fprintf(&b, " phi=%s", FormatValue(m.Phi))
	}
	b.WriteString(")")
	return b.String()
}
