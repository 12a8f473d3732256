// Package findiff computes central finite-difference derivatives of an
// energy model with respect to Cartesian coordinates. It is used to check
// analytic gradients and Hessians.
package findiff

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/pesmodel/internal/pes"
)

// DefaultStep is a displacement in bohr suited to smooth molecular surfaces.
const DefaultStep = 1e-4

type displacement struct {
	dof  int
	step float64
}

func displaced(x []float64, ds ...displacement) (pes.Coords, error) {
	y := append([]float64(nil), x...)
	for _, d := range ds {
		y[d.dof] += d.step
	}
	return pes.FromFlat(y)
}

func energyAt(m pes.EnergyModel, x []float64, ds ...displacement) (float64, error) {
	y, err := displaced(x, ds...)
	if err != nil {
		return 0, err
	}
	return m.Energy(y)
}

// Gradient returns dE/dx by central differences:
//
//	(E(+h) - E(-h)) / 2h
func Gradient(m pes.EnergyModel, x pes.Coords, h float64) (pes.Coords, error) {
	if h <= 0 {
		return nil, pes.ErrParameterBounds
	}
	flat := x.Flat()
	grad := make([]float64, len(flat))
	for k := range flat {
		ep, err := energyAt(m, flat, displacement{k, h})
		if err != nil {
			return nil, err
		}
		em, err := energyAt(m, flat, displacement{k, -h})
		if err != nil {
			return nil, err
		}
		grad[k] = (ep - em) / (2 * h)
	}
	return pes.FromFlat(grad)
}

// Hessian returns d2E/dx2. Diagonal elements use
// (E(+2h) - 2E(0) + E(-2h)) / 4h², off-diagonal elements
// (E(+i+j) - E(+i-j) - E(-i+j) + E(-i-j)) / 4h².
func Hessian(m pes.EnergyModel, x pes.Coords, h float64) (*mat.SymDense, error) {
	if h <= 0 {
		return nil, pes.ErrParameterBounds
	}
	if len(x) == 0 {
		return nil, pes.ErrNoAtoms
	}
	flat := x.Flat()
	n := len(flat)
	e0, err := m.Energy(x)
	if err != nil {
		return nil, err
	}

	out := mat.NewSymDense(n, nil)
	scale := 1 / (4 * h * h)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			var terms []float64
			var coeffs []float64
			if i == j {
				coeffs = []float64{1, -2, 1}
				ep, err := energyAt(m, flat, displacement{i, 2 * h})
				if err != nil {
					return nil, err
				}
				em, err := energyAt(m, flat, displacement{i, -2 * h})
				if err != nil {
					return nil, err
				}
				terms = []float64{ep, e0, em}
			} else {
				coeffs = []float64{1, -1, -1, 1}
				for _, s := range [][2]float64{{h, h}, {h, -h}, {-h, h}, {-h, -h}} {
					e, err := energyAt(m, flat, displacement{i, s[0]}, displacement{j, s[1]})
					if err != nil {
						return nil, err
					}
					terms = append(terms, e)
				}
			}
			out.SetSym(i, j, scale*floats.Dot(coeffs, terms))
		}
	}
	return out, nil
}

// MaxAbsDiff returns the largest elementwise |a - b| of two gradients.
func MaxAbsDiff(a, b pes.Coords) float64 {
	fa, fb := a.Flat(), b.Flat()
	if len(fa) != len(fb) {
		return math.Inf(1)
	}
	diff := make([]float64, len(fa))
	floats.SubTo(diff, fa, fb)
	return floats.Norm(diff, math.Inf(1))
}
