package models

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/pesmodel/internal/ic"
	"github.com/san-kum/pesmodel/internal/pes"
)

// Electrostatics returns the analytic first and second derivatives of the
// pairwise Coulomb energy Σ qi·qj / rij of a sample, flattened to 3N.
//
// Atoms whose type is in excludeTypes and pairs in excludePairs (either
// order) are skipped. For each remaining pair, with g = dr/dx and Hr the
// Hessian of r:
//
//	forces += -(qi·qj/r²)·g
//	hess   += (qi·qj/r²)·((2/r)·g⊗g - Hr)
//
// so forces holds dE/dx; negate it for physical forces. The sample is not
// modified.
func Electrostatics(s *pes.Sample, excludePairs [][2]int, excludeTypes []string) (*mat.VecDense, *mat.SymDense, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}
	n := s.NumAtoms()
	pairs, err := pes.NewPairSet(excludePairs, n)
	if err != nil {
		return nil, nil, err
	}
	types := pes.NewTypeSet(excludeTypes)

	forces := mat.NewVecDense(3*n, nil)
	hess := mat.NewSymDense(3*n, nil)
	var scaled mat.SymDense

	for i := 0; i < n; i++ {
		if types.Contains(s.Type(i)) {
			continue
		}
		for j := 0; j < i; j++ {
			if types.Contains(s.Type(j)) {
				continue
			}
			if pairs.Contains(i, j) {
				continue
			}

			r, g, hr := ic.NewBond(i, j).Derivs(s.Coordinates)
			if r == 0 {
				return nil, nil, &pes.PairError{I: i, J: j, Wrapped: pes.ErrCoincidentAtoms}
			}
			c := s.Charges[i] * s.Charges[j] / (r * r)

			forces.AddScaledVec(forces, -c, g)
			hess.SymRankOne(hess, 2*c/r, g)
			scaled.ScaleSym(-c, hr)
			hess.AddSym(hess, &scaled)
		}
	}

	return forces, hess, nil
}
