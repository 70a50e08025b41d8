package circuit

import (
	"strings"
	"testing"

	"github.com/voltlab/voltra/pkg/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		build    func() *Circuit
		wantCode errors.Code
	}{
		{
			name:  "valid inverter",
			build: Inverter,
		},
		{
			name: "empty circuit",
			build: func() *Circuit {
				return New("empty")
			},
			wantCode: errors.ErrCodeInvalidNetlist,
		},
		{
			name: "no ground reference",
			build: func() *Circuit {
				c := New("floating")
				c.R("1", "a", "b", 1e3)
				return c
			},
			wantCode: errors.ErrCodeInvalidNetlist,
		},
		{
			name: "duplicate element",
			build: func() *Circuit {
				c := New("dup")
				c.R("1", "a", Ground, 1e3)
				c.R("1", "a", Ground, 2e3)
				return c
			},
			wantCode: errors.ErrCodeInvalidNetlist,
		},
		{
			name: "negative resistance",
			build: func() *Circuit {
				c := New("negr")
				c.R("1", "a", Ground, -5)
				return c
			},
			wantCode: errors.ErrCodeInvalidNetlist,
		},
		{
			name: "zero capacitance",
			build: func() *Circuit {
				c := New("zeroc")
				c.V("1", "a", Ground, 1)
				c.C("1", "a", Ground, 0)
				return c
			},
			wantCode: errors.ErrCodeInvalidNetlist,
		},
		{
			name: "missing model",
			build: func() *Circuit {
				c := New("nomodel")
				c.V("dd", "vdd", Ground, 5)
				c.MOSFET("1", "out", "in", Ground, Ground, "NMOS", 180e-9, 10e-6)
				return c
			},
			wantCode: errors.ErrCodeModelNotFound,
		},
		{
			name: "bad channel width",
			build: func() *Circuit {
				c := New("badw")
				c.Model(DefaultNMOS("NMOS"))
				c.MOSFET("1", "out", "in", Ground, Ground, "NMOS", 180e-9, 0)
				return c
			},
			wantCode: errors.ErrCodeInvalidNetlist,
		},
		{
			name: "pulse wider than period",
			build: func() *Circuit {
				c := New("badpulse")
				c.Pulse("in", "a", Ground, PulseSpec{Pulsed: 1, Width: 20e-9, Period: 10e-9})
				return c
			},
			wantCode: errors.ErrCodeInvalidNetlist,
		},
		{
			name: "bad node name",
			build: func() *Circuit {
				c := New("badnode")
				c.R("1", "a b", Ground, 1e3)
				return c
			},
			wantCode: errors.ErrCodeInvalidNetlist,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build().Validate()
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("error code = %v, want %v (err: %v)", errors.GetCode(err), tt.wantCode, err)
			}
		})
	}
}

func TestNodesOrder(t *testing.T) {
	c := Inverter()
	nodes := c.Nodes()

	// First-use order: vdd (supply), vin (pulse), out (PMOS drain)
	want := []Node{"vdd", "vin", "out"}
	if len(nodes) != len(want) {
		t.Fatalf("Nodes() = %v, want %v", nodes, want)
	}
	for i := range want {
		if nodes[i] != want[i] {
			t.Errorf("Nodes()[%d] = %q, want %q", i, nodes[i], want[i])
		}
	}
}

func TestIsGround(t *testing.T) {
	for _, n := range []Node{"0", "gnd", "GND", "Gnd"} {
		if !n.IsGround() {
			t.Errorf("%q should be ground", n)
		}
	}
	for _, n := range []Node{"vdd", "out", "ground0"} {
		if n.IsGround() {
			t.Errorf("%q should not be ground", n)
		}
	}
}

func TestDeck(t *testing.T) {
	deck := Inverter().Deck()

	wantLines := []string{
		"* CMOS Inverter",
		"vdd vdd 0 dc 5",
		"vinput vin 0 pulse(0 5 0 1n 1n 5n 10n)",
		"m1 out vin vdd vdd PMOS l=180n w=10u",
		"m2 out vin 0 0 NMOS l=180n w=10u",
		"c1 out 0 1p",
		".model nmos nmos (vto=0.7 kp=20u phi=0.6)",
		".model pmos pmos (vto=-0.7 kp=20u phi=0.6)",
		".end",
	}
	for _, line := range wantLines {
		if !strings.Contains(deck, line+"\n") {
			t.Errorf("deck missing line %q\ndeck:\n%s", line, deck)
		}
	}

	// Deterministic across invocations (cache keys depend on it)
	if deck != Inverter().Deck() {
		t.Error("Deck() is not deterministic")
	}
}

func TestModelReplacement(t *testing.T) {
	c := New("models")
	c.Model(DefaultNMOS("N"))
	card := DefaultNMOS("N")
	card.VTO = 1.1
	c.Model(card)

	if got := len(c.Models()); got != 1 {
		t.Fatalf("Models() length = %d, want 1", got)
	}
	if m, _ := c.ModelByName("n"); m.VTO != 1.1 {
		t.Errorf("VTO = %g, want 1.1 (replacement should win)", m.VTO)
	}
}
