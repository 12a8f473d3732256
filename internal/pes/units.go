package pes

import "math"

// Atomic units: energies in hartree, lengths in bohr.
const (
	Bohr     = 1.0
	Angstrom = 1.0 / 0.52917721092
	Hartree  = 1.0
	KJMol    = 1.0 / 2625.4996394799
	KcalMol  = 4.184 * KJMol
	Deg      = math.Pi / 180.0
)

const (
	// DefaultRidge is the eigenvalue magnitude at or below which a Hessian
	// mode is treated as singular.
	DefaultRidge = 1e-10

	// DefaultSpring is the stiffness placed on fixed degrees of freedom by
	// constrained Hessians.
	DefaultSpring = 10.0 * KJMol / (Angstrom * Angstrom)
)
