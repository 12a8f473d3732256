package pes

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Vec3 is a Cartesian position or per-atom gradient.
type Vec3 [3]float64

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Coords holds N atom positions. Gradients use the same shape.
type Coords []Vec3

// DOF returns the flattened index of Cartesian component a of atom i.
func DOF(i, a int) int { return 3*i + a }

func (c Coords) Clone() Coords {
	out := make(Coords, len(c))
	copy(out, c)
	return out
}

// Flat returns the row-major length-3N vector [x0 y0 z0 x1 ...].
func (c Coords) Flat() []float64 {
	out := make([]float64, 3*len(c))
	for i, v := range c {
		out[3*i], out[3*i+1], out[3*i+2] = v[0], v[1], v[2]
	}
	return out
}

// Vec returns Flat wrapped as a gonum vector. It panics on empty coordinates.
func (c Coords) Vec() *mat.VecDense {
	return mat.NewVecDense(3*len(c), c.Flat())
}

// FromFlat reshapes a length-3N vector into N positions.
func FromFlat(x []float64) (Coords, error) {
	if len(x)%3 != 0 {
		return nil, fmt.Errorf("%w: flat length %d is not a multiple of 3", ErrShapeMismatch, len(x))
	}
	out := make(Coords, len(x)/3)
	for i := range out {
		out[i] = Vec3{x[3*i], x[3*i+1], x[3*i+2]}
	}
	return out, nil
}

// FromVec reshapes a gonum vector of length 3N.
func FromVec(v mat.Vector) (Coords, error) {
	x := make([]float64, v.Len())
	for i := range x {
		x[i] = v.AtVec(i)
	}
	return FromFlat(x)
}

func (c Coords) Sub(other Coords) Coords {
	out := make(Coords, len(c))
	for i := range c {
		for a := 0; a < 3; a++ {
			out[i][a] = c[i][a] - other[i][a]
		}
	}
	return out
}

func (c Coords) Scale(factor float64) Coords {
	out := make(Coords, len(c))
	for i := range c {
		for a := 0; a < 3; a++ {
			out[i][a] = c[i][a] * factor
		}
	}
	return out
}

func (c Coords) IsValid() bool {
	for _, v := range c {
		for _, x := range v {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return false
			}
		}
	}
	return true
}

// Sample is one labelled snapshot: charges, force-field atom types and
// coordinates, aligned by atom index.
type Sample struct {
	Charges     []float64 `yaml:"ac" json:"ac"`
	Types       []string  `yaml:"ffatypes" json:"ffatypes"`
	Coordinates Coords    `yaml:"coordinates" json:"coordinates"`
}

func (s *Sample) NumAtoms() int { return len(s.Coordinates) }

// Validate checks that charges and types line up with the coordinates.
// A sample without type labels is accepted.
func (s *Sample) Validate() error {
	n := len(s.Coordinates)
	if n == 0 {
		return ErrNoAtoms
	}
	if err := CheckLen("charges", n, len(s.Charges)); err != nil {
		return err
	}
	if len(s.Types) > 0 {
		if err := CheckLen("atom types", n, len(s.Types)); err != nil {
			return err
		}
	}
	return nil
}

// Type returns the type label of atom i, or "" when the sample is unlabelled.
func (s *Sample) Type(i int) string {
	if i < len(s.Types) {
		return s.Types[i]
	}
	return ""
}

// EnergyModel is the narrow capability: an energy for a coordinate snapshot.
type EnergyModel interface {
	Name() string
	Energy(x Coords) (float64, error)
}

// Model adds first and second derivatives with respect to all 3N Cartesian
// degrees of freedom.
type Model interface {
	EnergyModel
	Gradient(x Coords) (Coords, error)
	Hessian(x Coords) (*mat.SymDense, error)
}

// Forces returns the negative gradient of m at x.
func Forces(m Model, x Coords) (Coords, error) {
	g, err := m.Gradient(x)
	if err != nil {
		return nil, err
	}
	return g.Scale(-1), nil
}

// HessianAt reads the rank-4 element [i,a,j,b] of a flattened Hessian.
func HessianAt(h mat.Matrix, i, a, j, b int) float64 {
	return h.At(DOF(i, a), DOF(j, b))
}
