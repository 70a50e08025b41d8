package engine

import (
	"math"

	"github.com/voltlab/voltra/pkg/circuit"
	"github.com/voltlab/voltra/pkg/errors"
)

// mosfet is a level-1 (square-law) MOSFET. PMOS devices are handled by
// polarity reflection: terminal voltages are normalized into the NMOS frame,
// the model is evaluated there, and the resulting current flips sign on the
// way out. Conductances are polarity-invariant, so the matrix stamps are
// shared between both kinds.
type mosfet struct {
	name       string
	d, g, s, b NodeID
	polarity   float64 // +1 NMOS, -1 PMOS

	beta   float64 // KP * W/L, temperature-adjusted
	vto    float64 // threshold in the normalized frame (positive)
	lambda float64
	gamma  float64
	phi    float64
	gmin   float64

	lastVgs, lastVds float64
	settled          bool
}

// Temperature behavior of the level-1 model: mobility degrades as T^-1.5
// and the threshold magnitude drops by about 2mV per degree.
const (
	tempExponent = -1.5
	vtoTempCoeff = 2e-3
)

func newMOSFET(el *circuit.MOSFET, card circuit.ModelCard, sim *Simulator) (*mosfet, error) {
	polarity := 1.0
	if card.Kind == circuit.PMOS {
		polarity = -1
	}

	dT := sim.opts.Temperature - sim.opts.NominalTemperature
	tJ := sim.opts.Temperature + 273.15
	tNom := sim.opts.NominalTemperature + 273.15
	if tJ <= 0 || tNom <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidAnalysis, "temperature below absolute zero")
	}

	kp := card.KP * math.Pow(tJ/tNom, tempExponent)
	vto := polarity*card.VTO - vtoTempCoeff*dT
	if vto < 0 {
		// A depletion-mode card; keep it, the model handles vgs<vto<0.
		vto = polarity * card.VTO
	}

	return &mosfet{
		name:     el.ID(),
		d:        sim.node(el.Drain),
		g:        sim.node(el.Gate),
		s:        sim.node(el.Source),
		b:        sim.node(el.Bulk),
		polarity: polarity,
		beta:     kp * el.Width / el.Length,
		vto:      vto,
		lambda:   card.Lambda,
		gamma:    card.Gamma,
		phi:      card.Phi,
		gmin:     sim.opts.Gmin,
	}, nil
}

// maxStep caps the per-iteration change of the controlling voltages.
// Square-law currents grow quadratically, so unbounded Newton steps
// overshoot badly on stiff circuits.
const maxStep = 2.0

func limitStep(vnew, vold float64) float64 {
	if vnew > vold+maxStep {
		return vold + maxStep
	}
	if vnew < vold-maxStep {
		return vold - maxStep
	}
	return vnew
}

func (m *mosfet) stamp(sys *system, st *state) {
	// Junction gmin for conditioning, independent of operating region.
	sys.stampConductance(m.d, m.s, m.gmin)

	p := m.polarity
	vd := sys.voltage(m.d)
	vg := sys.voltage(m.g)
	vs := sys.voltage(m.s)
	vb := sys.voltage(m.b)

	// Normalize into the NMOS frame.
	nd, ns := m.d, m.s
	vds := p * (vd - vs)
	if vds < 0 {
		// Source and drain are interchangeable; evaluate with the more
		// positive terminal as the drain.
		nd, ns = ns, nd
		vd, vs = vs, vd
		vds = -vds
	}
	vgs := p * (vg - vs)
	vbs := p * (vb - vs)

	// Convergence bookkeeping and damping, in the manner of SPICE fetlim.
	m.settled = math.Abs(vgs-m.lastVgs) < 1e-3 && math.Abs(vds-m.lastVds) < 1e-3
	vgs = limitStep(vgs, m.lastVgs)
	vds = limitStep(vds, m.lastVds)
	m.lastVgs, m.lastVds = vgs, vds

	vt := m.threshold(vbs)

	var id, gm, gds float64
	switch {
	case vgs <= vt:
		// Cutoff
		id, gm, gds = 0, 0, m.gmin
	case vds < vgs-vt:
		// Triode
		cl := 1 + m.lambda*vds
		id = m.beta * (vgs - vt - vds/2) * vds * cl
		gm = m.beta * vds * cl
		gds = m.beta*(vgs-vt-vds)*cl + m.beta*(vgs-vt-vds/2)*vds*m.lambda
	default:
		// Saturation
		ov := vgs - vt
		cl := 1 + m.lambda*vds
		id = m.beta / 2 * ov * ov * cl
		gm = m.beta * ov * cl
		gds = m.beta / 2 * ov * ov * m.lambda
	}
	gds += m.gmin

	// Norton equivalent of the linearized drain current.
	ieq := id - gm*vgs - gds*vds

	// Stamps in real node space: conductances are polarity-invariant,
	// the equivalent current flips with polarity.
	sys.stampConductance(nd, ns, gds)
	sys.stampVCCS(nd, ns, m.g, ns, gm)
	sys.stampCurrentSource(nd, ns, p*ieq)
}

// threshold computes the bulk-adjusted threshold voltage in the normalized
// frame. With zero source-bulk bias this reduces to vto.
func (m *mosfet) threshold(vbs float64) float64 {
	if m.gamma == 0 || m.phi == 0 {
		return m.vto
	}
	// Clamp the argument: deep forward bulk bias would take the sqrt
	// negative and has no physical meaning in this model.
	arg := m.phi - vbs
	if arg < 0.1*m.phi {
		arg = 0.1 * m.phi
	}
	return m.vto + m.gamma*(math.Sqrt(arg)-math.Sqrt(m.phi))
}

func (m *mosfet) converged() bool { return m.settled }
