package engine

import (
	stderrors "errors"

	"gonum.org/v1/gonum/mat"

	"github.com/voltlab/voltra/pkg/errors"
)

// NodeID indexes a circuit node in the MNA system. Ground is not part of
// the system; it is filtered out of every stamp.
type NodeID int

// Gnd is the ground node.
const Gnd NodeID = -1

// system holds the MNA matrix A, right-hand side z, and solution x for a
// circuit with n nodes and m voltage-source branches. The layout of x is
// node voltages first, branch currents after.
type system struct {
	n, m int

	A *mat.Dense
	z *mat.VecDense
	x *mat.VecDense
}

func newSystem(nodes, sources int) *system {
	size := nodes + sources
	return &system{
		n: nodes,
		m: sources,
		A: mat.NewDense(size, size, nil),
		z: mat.NewVecDense(size, nil),
		x: mat.NewVecDense(size, nil),
	}
}

// zero clears A and z for the next Newton iteration. The solution vector is
// kept: it is the linearization point for nonlinear devices.
func (s *system) zero() {
	s.A.Zero()
	s.z.Zero()
}

// voltage returns the voltage of node i in the current solution.
func (s *system) voltage(i NodeID) float64 {
	if i == Gnd {
		return 0
	}
	return s.x.AtVec(int(i))
}

// branchCurrent returns the current through voltage-source branch vs.
func (s *system) branchCurrent(vs int) float64 {
	return s.x.AtVec(s.n + vs)
}

// stampMatrix adds value at (i, j), skipping ground rows and columns.
func (s *system) stampMatrix(i, j NodeID, value float64) {
	if i == Gnd || j == Gnd {
		return
	}
	s.A.Set(int(i), int(j), s.A.At(int(i), int(j))+value)
}

// stampRightSide adds value at row i of z, skipping ground.
func (s *system) stampRightSide(i NodeID, value float64) {
	if i == Gnd {
		return
	}
	s.z.SetVec(int(i), s.z.AtVec(int(i))+value)
}

// stampConductance stamps a conductance g between n1 and n2.
func (s *system) stampConductance(n1, n2 NodeID, g float64) {
	s.stampMatrix(n1, n1, g)
	s.stampMatrix(n2, n2, g)
	s.stampMatrix(n1, n2, -g)
	s.stampMatrix(n2, n1, -g)
}

// stampCurrentSource stamps an independent current i flowing from n1 to n2
// through the source, i.e. injected into n2.
func (s *system) stampCurrentSource(n1, n2 NodeID, i float64) {
	s.stampRightSide(n1, -i)
	s.stampRightSide(n2, i)
}

// stampVoltageSource stamps an independent voltage source V(n1)-V(n2) = v
// on branch vs.
func (s *system) stampVoltageSource(n1, n2 NodeID, vs int, v float64) {
	row := NodeID(s.n + vs)
	s.stampMatrix(n1, row, 1)
	s.stampMatrix(n2, row, -1)
	s.stampMatrix(row, n1, 1)
	s.stampMatrix(row, n2, -1)
	s.stampRightSide(row, v)
}

// stampVCCS stamps a voltage-controlled current source: a current
// gain*(V(c1)-V(c2)) flowing from n1 to n2.
func (s *system) stampVCCS(n1, n2, c1, c2 NodeID, gain float64) {
	s.stampMatrix(n1, c1, gain)
	s.stampMatrix(n1, c2, -gain)
	s.stampMatrix(n2, c1, -gain)
	s.stampMatrix(n2, c2, gain)
}

// solve factorizes A and solves A·x = z in place. An ill-conditioned system
// is tolerated (the Newton loop judges the result); an exactly singular one
// is an error.
func (s *system) solve() error {
	var lu mat.LU
	lu.Factorize(s.A)

	err := lu.SolveVecTo(s.x, false, s.z)
	if err == nil {
		return nil
	}
	var cond mat.Condition
	if stderrors.As(err, &cond) {
		// Near-singular but solvable; gmin stamping keeps these benign.
		return nil
	}
	return errors.Wrap(errors.ErrCodeSingularMatrix, err, "MNA solve failed (floating node?)")
}

// maxDelta returns the largest absolute change between the node-voltage
// parts of x and the reference vector ref.
func (s *system) maxDelta(ref []float64) float64 {
	max := 0.0
	for i := 0; i < s.n; i++ {
		d := s.x.AtVec(i) - ref[i]
		if d < 0 {
			d = -d
		}
		if d > max {
			max = d
		}
	}
	return max
}

// maxAbsVoltage returns the largest node-voltage magnitude in the current
// solution. Convergence tolerances scale with it.
func (s *system) maxAbsVoltage() float64 {
	max := 0.0
	for i := 0; i < s.n; i++ {
		v := s.x.AtVec(i)
		if v < 0 {
			v = -v
		}
		if v > max {
			max = v
		}
	}
	return max
}

// snapshot copies the full solution vector into dst.
func (s *system) snapshot(dst []float64) {
	for i := 0; i < s.n+s.m; i++ {
		dst[i] = s.x.AtVec(i)
	}
}
