package models_test

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/pesmodel/internal/ic"
	"github.com/san-kum/pesmodel/internal/pes"
)

// bentTriatomic is a water-like geometry in bohr.
func bentTriatomic() pes.Coords {
	return pes.Coords{
		{0.0, 0.0, 0.1173},
		{0.0, 1.4304, -0.4692},
		{0.0, -1.4304, -0.4692},
	}
}

// springHessian is Σ k·g gᵀ over the given bonds, the Hessian of a
// harmonic spring network at its rest lengths. It has exact rigid-body
// null modes.
func springHessian(x pes.Coords, bonds [][2]int, k float64) *mat.SymDense {
	h := mat.NewSymDense(3*len(x), nil)
	for _, b := range bonds {
		g := ic.NewBond(b[0], b[1]).Grad(x)
		h.SymRankOne(h, k, g)
	}
	return h
}

func maxAbs(m mat.Matrix) float64 {
	r, c := m.Dims()
	out := 0.0
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := m.At(i, j); v > out {
				out = v
			} else if -v > out {
				out = -v
			}
		}
	}
	return out
}

func diff(a, b mat.Matrix) *mat.Dense {
	var d mat.Dense
	d.Sub(a, b)
	return &d
}

func ridge(v float64) *float64 { return &v }
