package schematic

import (
	"strings"
	"testing"

	"github.com/voltlab/voltra/pkg/circuit"
)

func TestToDOTInverter(t *testing.T) {
	dot := ToDOT(circuit.Inverter(), Options{})

	for _, want := range []string{
		"graph circuit {",
		`"0" [label="gnd", shape=invtriangle`,
		`"vdd";`,
		`"vin";`,
		`"out";`,
		`"vdd" -- "0" [label="vdd"];`,
		`"vin" -- "0" [label="vinput"];`,
		`"m1" [label="m1", shape=box`,
		`"m1" -- "out" [label="d"];`,
		`"m1" -- "vin" [label="g"];`,
		`"m2" -- "0" [label="s"];`,
		`"out" -- "0" [label="c1"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTValues(t *testing.T) {
	c := circuit.New("divider")
	c.V("in", "top", circuit.Ground, 10)
	c.R("1", "top", "mid", 1e3)
	c.C("1", "mid", circuit.Ground, 1e-12)

	dot := ToDOT(c, Options{Values: true})
	for _, want := range []string{
		"r1\\n1000",
		"c1\\n1pF",
		"vin\\n10V",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(ToDOT(circuit.RCLowPass(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("output is not an SVG")
	}
}
