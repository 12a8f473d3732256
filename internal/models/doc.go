// Package models provides energy models for a molecular potential-energy
// surface.
//
//   - [Zero]: null surface, a baseline placeholder
//   - [Harmonic]: second-order Taylor expansion around a reference geometry
//   - [Coulomb]: pairwise 1/r electrostatic energy (energy only)
//   - [Electrostatics]: analytic gradient and Hessian of a pairwise Coulomb sum
//
// [Zero] and [Harmonic] implement [pes.Model]; [Coulomb] implements only
// [pes.EnergyModel].
//
// # Singular Modes
//
// [Harmonic] builds a pseudo-inverse Hessian from the eigenpairs with
// |λ| > ridge. Modes at or below the ridge, typically the rigid-body
// translations and rotations, contribute zero instead of failing:
//
//	h, _ := models.NewHarmonic(models.HarmonicParams{Coords0: x0, Gradient: g0, Hessian: h0})
//	ihess := h.InverseHessian()
package models
