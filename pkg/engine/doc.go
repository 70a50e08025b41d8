// Package engine implements the circuit simulation core: modified nodal
// analysis (MNA) with Newton-Raphson iteration for nonlinear devices and
// fixed-step time integration for transient analyses.
//
// # Formulation
//
// The engine assembles the MNA system A·x = z, where x holds the node
// voltages followed by the branch currents of voltage-source-like elements.
// Every device contributes a "stamp": linear devices add constant
// conductances, while nonlinear devices (MOSFETs) add the conductances and
// Norton equivalent currents of their model linearized around the current
// Newton iterate. The matrix is rebuilt and solved each iteration until node
// voltages settle within tolerance.
//
// Time integration uses companion models: at each timepoint a capacitor
// becomes a conductance plus a history current source (backward Euler by
// default, trapezoidal optionally), reducing the transient problem to a
// sequence of nonlinear DC solves.
//
// # Analyses
//
//   - [Simulator.OP]: DC operating point (capacitors open)
//   - [Simulator.Transient]: fixed-step transient, returns a waveform recording
//
// Convergence failures surface as CONVERGENCE errors; an exactly singular
// matrix (typically a floating node) surfaces as SINGULAR_MATRIX. Both are
// fatal to the analysis, there is no internal retry.
package engine
