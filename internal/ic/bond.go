// Package ic implements internal coordinates: scalar functions of atomic
// positions with first and second derivatives taken with respect to all
// 3N Cartesian degrees of freedom.
package ic

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/pesmodel/internal/pes"
)

// Bond is the distance between atoms I and J. I and J must differ.
type Bond struct {
	I, J int
}

func NewBond(i, j int) Bond {
	return Bond{I: i, J: j}
}

// unit returns r and the unit vector from J to I.
func (b Bond) unit(x pes.Coords) (float64, pes.Vec3) {
	d := x[b.I].Sub(x[b.J])
	r := d.Norm()
	for a := range d {
		d[a] /= r
	}
	return r, d
}

func (b Bond) Value(x pes.Coords) float64 {
	r, _ := b.unit(x)
	return r
}

// Grad returns dr/dx, zero outside atoms I and J.
func (b Bond) Grad(x pes.Coords) *mat.VecDense {
	_, u := b.unit(x)
	return b.grad(len(x), u)
}

// Hess returns d2r/dx2, zero outside the I/J blocks.
func (b Bond) Hess(x pes.Coords) *mat.SymDense {
	r, u := b.unit(x)
	return b.hess(len(x), r, u)
}

// Derivs returns value, gradient and Hessian from one distance evaluation.
func (b Bond) Derivs(x pes.Coords) (float64, *mat.VecDense, *mat.SymDense) {
	r, u := b.unit(x)
	return r, b.grad(len(x), u), b.hess(len(x), r, u)
}

func (b Bond) grad(n int, u pes.Vec3) *mat.VecDense {
	g := mat.NewVecDense(3*n, nil)
	for a := 0; a < 3; a++ {
		g.SetVec(pes.DOF(b.I, a), u[a])
		g.SetVec(pes.DOF(b.J, a), -u[a])
	}
	return g
}

// The I/I and J/J blocks are (1 - u uT)/r, the I/J block its negative.
func (b Bond) hess(n int, r float64, u pes.Vec3) *mat.SymDense {
	h := mat.NewSymDense(3*n, nil)
	for a := 0; a < 3; a++ {
		for c := 0; c < 3; c++ {
			p := -u[a] * u[c]
			if a == c {
				p += 1
			}
			p /= r
			if c >= a {
				h.SetSym(pes.DOF(b.I, a), pes.DOF(b.I, c), p)
				h.SetSym(pes.DOF(b.J, a), pes.DOF(b.J, c), p)
			}
			h.SetSym(pes.DOF(b.I, a), pes.DOF(b.J, c), -p)
		}
	}
	return h
}
