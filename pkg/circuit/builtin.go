package circuit

import "github.com/voltlab/voltra/pkg/errors"

// Inverter returns the built-in CMOS inverter demo circuit: a 5V supply,
// a 0-5V pulse input (5ns width, 10ns period, 1ns edges), a PMOS/NMOS pair
// with 180nm length and 10um width, and a 1pF load on the output.
func Inverter() *Circuit {
	c := New("CMOS Inverter")

	c.V("dd", "vdd", Ground, 5)
	c.Pulse("input", "vin", Ground, PulseSpec{
		Initial: 0,
		Pulsed:  5,
		Rise:    1e-9,
		Fall:    1e-9,
		Width:   5e-9,
		Period:  10e-9,
	})

	// PMOS on top, NMOS on bottom
	c.MOSFET("1", "out", "vin", "vdd", "vdd", "PMOS", 180e-9, 10e-6)
	c.MOSFET("2", "out", "vin", Ground, Ground, "NMOS", 180e-9, 10e-6)

	c.C("1", "out", Ground, 1e-12)

	c.Model(DefaultNMOS("NMOS"))
	c.Model(DefaultPMOS("PMOS"))
	return c
}

// RCLowPass returns a built-in first-order RC low-pass filter driven by a
// pulse: 1k into 1nF, 1us time constant. Useful as a linear smoke-test
// circuit with a closed-form response.
func RCLowPass() *Circuit {
	c := New("RC Low-Pass")

	c.Pulse("input", "vin", Ground, PulseSpec{
		Initial: 0,
		Pulsed:  1,
		Width:   50e-6,
		Period:  100e-6,
		Rise:    1e-9,
		Fall:    1e-9,
	})
	c.R("1", "vin", "out", 1e3)
	c.C("1", "out", Ground, 1e-9)
	return c
}

// Builtin returns a built-in circuit by name. Known names are "inverter"
// and "rc".
func Builtin(name string) (*Circuit, error) {
	switch name {
	case "inverter":
		return Inverter(), nil
	case "rc":
		return RCLowPass(), nil
	default:
		return nil, errors.New(errors.ErrCodeCircuitNotFound, "unknown builtin circuit %q (known: inverter, rc)", name)
	}
}
