package models

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/pesmodel/internal/pes"
)

const DefaultZeroName = "ZeroModel"

// Zero is the null energy surface.
type Zero struct {
	name string
}

func NewZero(name string) *Zero {
	if name == "" {
		name = DefaultZeroName
	}
	return &Zero{name: name}
}

func (z *Zero) Name() string { return z.name }

func (z *Zero) Energy(x pes.Coords) (float64, error) {
	return 0, nil
}

func (z *Zero) Gradient(x pes.Coords) (pes.Coords, error) {
	return make(pes.Coords, len(x)), nil
}

func (z *Zero) Hessian(x pes.Coords) (*mat.SymDense, error) {
	if len(x) == 0 {
		return &mat.SymDense{}, nil
	}
	return mat.NewSymDense(3*len(x), nil), nil
}
