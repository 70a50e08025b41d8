package engine

// resistor stamps a constant conductance.
type resistor struct {
	n1, n2 NodeID
	g      float64
}

func (r *resistor) stamp(sys *system, st *state) {
	sys.stampConductance(r.n1, r.n2, r.g)
}

// capacitor stamps its integration companion model: open at DC, a
// conductance plus history current source during transient stepping.
type capacitor struct {
	n1, n2 NodeID
	c      float64
	gmin   float64
	ic     *float64 // initial voltage override (deck "ic=")

	veq float64 // accepted voltage at the previous timepoint
	ieq float64 // accepted current at the previous timepoint (trapezoidal)
}

func (c *capacitor) stamp(sys *system, st *state) {
	if st.op {
		// Open at DC. The gmin tie keeps nodes whose only other
		// connections are also open from floating.
		sys.stampConductance(c.n1, c.n2, c.gmin)
		return
	}

	var geq, hist float64
	switch st.method {
	case Trapezoidal:
		geq = 2 * c.c / st.dt
		hist = geq*c.veq + c.ieq
	default: // backward Euler
		geq = c.c / st.dt
		hist = geq * c.veq
	}
	sys.stampConductance(c.n1, c.n2, geq)
	// History current injected into n1: at equilibrium geq*(v1-v2) = hist.
	sys.stampCurrentSource(c.n2, c.n1, hist)
}

func (c *capacitor) prime(sys *system, st *state) {
	if c.ic != nil {
		c.veq = *c.ic
	} else {
		c.veq = sys.voltage(c.n1) - sys.voltage(c.n2)
	}
	c.ieq = 0
}

func (c *capacitor) finishStep(sys *system, st *state) {
	v := sys.voltage(c.n1) - sys.voltage(c.n2)
	switch st.method {
	case Trapezoidal:
		geq := 2 * c.c / st.dt
		c.ieq = geq*(v-c.veq) - c.ieq
	default:
		// No current history needed for backward Euler.
	}
	c.veq = v
}

// vsource stamps an independent voltage source; value is evaluated at the
// solve time, which makes pulse sources time-dependent for free.
type vsource struct {
	pos, neg NodeID
	branch   int
	value    func(t float64) float64
}

func (v *vsource) stamp(sys *system, st *state) {
	sys.stampVoltageSource(v.pos, v.neg, v.branch, v.value(st.t))
}

// isource stamps an independent current source.
type isource struct {
	pos, neg NodeID
	i        float64
}

func (i *isource) stamp(sys *system, st *state) {
	sys.stampCurrentSource(i.pos, i.neg, i.i)
}
