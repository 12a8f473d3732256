// Package pes provides the shared data model for potential-energy-surface
// models.
//
// The package defines the fundamental types and contracts used by every
// model:
//
//   - [Coords]: N atom positions, also used for gradients
//   - [Sample]: charges, atom types and coordinates of one snapshot
//   - [PairSet]: unordered atom pairs excluded from pairwise sums
//   - [EnergyModel]: anything that returns an energy for a snapshot
//   - [Model]: energy plus gradient and Hessian
//
// Hessians are [gonum.org/v1/gonum/mat.SymDense] matrices of side 3N. The
// rank-4 index [i,a,j,b] maps to row/column ([DOF](i,a), [DOF](j,b)).
//
// # Example
//
//	m := models.NewZero("")
//	e, _ := m.Energy(x)
//	f, _ := pes.Forces(m, x)
//
// # Thread Safety
//
// Models are immutable after construction and may be queried concurrently.
package pes
