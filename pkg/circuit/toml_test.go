package circuit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/voltlab/voltra/pkg/errors"
)

const inverterTOML = `
title = "CMOS Inverter"

[[vsource]]
name = "dd"
pos = "vdd"
neg = "0"
dc = 5.0

[[pulse]]
name = "input"
pos = "vin"
neg = "0"
initial = 0.0
pulsed = 5.0
rise = "1n"
fall = "1n"
width = "5n"
period = "10n"

[[mosfet]]
name = "1"
drain = "out"
gate = "vin"
source = "vdd"
bulk = "vdd"
model = "PMOS"
length = "180n"
width = "10u"

[[mosfet]]
name = "2"
drain = "out"
gate = "vin"
source = "0"
bulk = "0"
model = "NMOS"
length = "180n"
width = "10u"

[[capacitor]]
name = "1"
n1 = "out"
n2 = "0"
value = "1p"

[[model]]
name = "NMOS"
kind = "nmos"

[[model]]
name = "PMOS"
kind = "pmos"
`

func TestFromTOML(t *testing.T) {
	c, err := FromTOML([]byte(inverterTOML))
	if err != nil {
		t.Fatalf("FromTOML: %v", err)
	}

	if c.Title != "CMOS Inverter" {
		t.Errorf("Title = %q", c.Title)
	}
	if got := len(c.Elements()); got != 5 {
		t.Errorf("element count = %d, want 5", got)
	}
	if got := len(c.Models()); got != 2 {
		t.Errorf("model count = %d, want 2", got)
	}

	// The TOML netlist and the builtin must describe the same circuit.
	if c.Deck() != Inverter().Deck() {
		t.Errorf("TOML deck differs from builtin:\n%s\nvs:\n%s", c.Deck(), Inverter().Deck())
	}
}

func TestFromTOMLValueForms(t *testing.T) {
	// Integers, floats, and suffixed strings are all accepted.
	src := `
[[resistor]]
name = "1"
n1 = "a"
n2 = "0"
value = 1000

[[resistor]]
name = "2"
n1 = "a"
n2 = "0"
value = 1e3

[[resistor]]
name = "3"
n1 = "a"
n2 = "0"
value = "1k"
`
	c, err := FromTOML([]byte(src))
	if err != nil {
		t.Fatalf("FromTOML: %v", err)
	}
	for _, e := range c.Elements() {
		r := e.(*Resistor)
		if r.Ohms != 1000 {
			t.Errorf("%s: Ohms = %g, want 1000", r.ID(), r.Ohms)
		}
	}
}

func TestFromTOMLErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantCode errors.Code
	}{
		{
			name:     "syntax error",
			src:      "[[broken",
			wantCode: errors.ErrCodeInvalidNetlist,
		},
		{
			name: "unknown model kind",
			src: `
[[vsource]]
name = "1"
pos = "a"
neg = "0"
dc = 1.0

[[model]]
name = "X"
kind = "jfet"
`,
			wantCode: errors.ErrCodeInvalidModel,
		},
		{
			name: "bad suffixed value",
			src: `
[[resistor]]
name = "1"
n1 = "a"
n2 = "0"
value = "lots"
`,
			wantCode: errors.ErrCodeInvalidNetlist,
		},
		{
			name: "fails validation",
			src: `
[[resistor]]
name = "1"
n1 = "a"
n2 = "b"
value = "1k"
`,
			wantCode: errors.ErrCodeInvalidNetlist,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromTOML([]byte(tt.src))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("error code = %v, want %v (err: %v)", errors.GetCode(err), tt.wantCode, err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inverter.toml")
	if err := os.WriteFile(path, []byte(inverterTOML), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if c.Title != "CMOS Inverter" {
		t.Errorf("Title = %q", c.Title)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error code = %v, want FILE_NOT_FOUND", errors.GetCode(err))
	}
}
