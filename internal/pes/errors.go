package pes

import (
	"errors"
	"fmt"
)

// Domain errors for model evaluation.
var (
	// ErrShapeMismatch indicates a coordinate array whose atom count differs
	// from the model's reference.
	ErrShapeMismatch = errors.New("pes: shape mismatch between coordinates and model")

	// ErrInvalidExclusion indicates an exclusion pair with an out-of-range atom index.
	ErrInvalidExclusion = errors.New("pes: exclusion pair references unknown atom")

	// ErrInvalidIndex indicates a degree-of-freedom index outside [0, 3N).
	ErrInvalidIndex = errors.New("pes: degree of freedom index out of range")

	// ErrNoAtoms indicates an empty coordinate array where atoms are required.
	ErrNoAtoms = errors.New("pes: no atoms")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("pes: parameter out of valid bounds")

	// ErrCoincidentAtoms indicates two interacting atoms at zero separation.
	ErrCoincidentAtoms = errors.New("pes: coincident atoms in pairwise term")

	// ErrEigenFailed indicates the symmetric eigen-decomposition did not converge.
	ErrEigenFailed = errors.New("pes: eigen-decomposition failed")

	// ErrNotSymmetric indicates a Hessian that is not symmetric within tolerance.
	ErrNotSymmetric = errors.New("pes: hessian is not symmetric")
)

// ShapeError wraps ErrShapeMismatch with the counts involved.
type ShapeError struct {
	What string
	Want int
	Got  int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s has length %d, want %d", ErrShapeMismatch, e.What, e.Got, e.Want)
}

func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}

// CheckLen returns a *ShapeError when got != want.
func CheckLen(what string, want, got int) error {
	if want != got {
		return &ShapeError{What: what, Want: want, Got: got}
	}
	return nil
}

// PairError wraps a sentinel with the atom pair that triggered it.
type PairError struct {
	I, J    int
	Wrapped error
}

func (e *PairError) Error() string {
	return fmt.Sprintf("%s (%d, %d)", e.Wrapped, e.I, e.J)
}

func (e *PairError) Unwrap() error {
	return e.Wrapped
}
