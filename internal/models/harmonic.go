package models

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/pesmodel/internal/linalg"
	"github.com/san-kum/pesmodel/internal/pes"
)

const DefaultHarmonicName = "Harmonic Model"

// HarmonicParams describes the reference point of a harmonic expansion.
// A nil Ridge selects pes.DefaultRidge; zero keeps every nonzero eigenvalue.
type HarmonicParams struct {
	Name      string
	Coords0   pes.Coords
	Gradient  pes.Coords
	Hessian   mat.Symmetric
	Reference float64
	Ridge     *float64
}

// Harmonic is the quadratic expansion
//
//	E(x) = E0 + g·dx + ½ dxᵀ H dx,  dx = x - x0
//
// It is immutable after construction.
type Harmonic struct {
	name      string
	coords0   pes.Coords
	gradient  *mat.VecDense
	hess      *mat.SymDense
	reference float64
	ridge     float64

	eigen  *linalg.Eigen
	ievals []float64
	ihess  *mat.SymDense
}

// NewHarmonic validates the reference data and diagonalises the Hessian.
func NewHarmonic(p HarmonicParams) (*Harmonic, error) {
	n := len(p.Coords0)
	if n == 0 {
		return nil, pes.ErrNoAtoms
	}
	if err := pes.CheckLen("reference gradient", n, len(p.Gradient)); err != nil {
		return nil, err
	}
	if p.Hessian == nil {
		return nil, fmt.Errorf("%w: nil hessian", pes.ErrShapeMismatch)
	}
	if err := pes.CheckLen("hessian side", 3*n, p.Hessian.SymmetricDim()); err != nil {
		return nil, err
	}
	ridge := pes.DefaultRidge
	if p.Ridge != nil {
		ridge = *p.Ridge
	}
	if !(ridge >= 0) {
		return nil, fmt.Errorf("%w: ridge %g", pes.ErrParameterBounds, ridge)
	}

	h := &Harmonic{
		name:      p.Name,
		coords0:   p.Coords0.Clone(),
		gradient:  p.Gradient.Vec(),
		hess:      mat.NewSymDense(3*n, nil),
		reference: p.Reference,
		ridge:     ridge,
	}
	if h.name == "" {
		h.name = DefaultHarmonicName
	}
	h.hess.CopySym(p.Hessian)

	if err := h.diagonalize(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Harmonic) diagonalize() error {
	ihess, eig, err := linalg.PseudoInverse(h.hess, h.ridge)
	if err != nil {
		return err
	}
	h.eigen = eig
	h.ievals = eig.InverseValues(h.ridge)
	h.ihess = ihess
	return nil
}

func (h *Harmonic) Name() string       { return h.name }
func (h *Harmonic) NumAtoms() int      { return len(h.coords0) }
func (h *Harmonic) Ridge() float64     { return h.ridge }
func (h *Harmonic) Reference() float64 { return h.reference }

func (h *Harmonic) displacement(x pes.Coords) (*mat.VecDense, error) {
	if err := pes.CheckLen("coordinates", len(h.coords0), len(x)); err != nil {
		return nil, err
	}
	return x.Sub(h.coords0).Vec(), nil
}

func (h *Harmonic) Energy(x pes.Coords) (float64, error) {
	dx, err := h.displacement(x)
	if err != nil {
		return 0, err
	}
	energy := h.reference
	energy += mat.Dot(h.gradient, dx)
	energy += 0.5 * mat.Inner(dx, h.hess, dx)
	return energy, nil
}

// Gradient returns g + H·dx.
func (h *Harmonic) Gradient(x pes.Coords) (pes.Coords, error) {
	dx, err := h.displacement(x)
	if err != nil {
		return nil, err
	}
	var grad mat.VecDense
	grad.MulVec(h.hess, dx)
	grad.AddVec(&grad, h.gradient)
	return pes.FromVec(&grad)
}

// Hessian returns the reference Hessian. The expansion is exactly quadratic,
// so x is not consulted.
func (h *Harmonic) Hessian(x pes.Coords) (*mat.SymDense, error) {
	return copySym(h.hess), nil
}

func (h *Harmonic) Coords0() pes.Coords {
	return h.coords0.Clone()
}

// Eigenvalues are ascending and pair with the columns of Eigenvectors.
func (h *Harmonic) Eigenvalues() []float64 {
	return append([]float64(nil), h.eigen.Values...)
}

func (h *Harmonic) Eigenvectors() *mat.Dense {
	return mat.DenseCopyOf(h.eigen.Vectors)
}

// InverseEigenvalues holds 1/λ for modes above the ridge and 0 otherwise.
func (h *Harmonic) InverseEigenvalues() []float64 {
	return append([]float64(nil), h.ievals...)
}

// InverseHessian is the ridge-truncated pseudo-inverse of the Hessian.
func (h *Harmonic) InverseHessian() *mat.SymDense {
	return copySym(h.ihess)
}

// ConstrainedHessian adds spring to the diagonal of every degree of freedom
// not listed in free.
func (h *Harmonic) ConstrainedHessian(free []int, spring float64) (*mat.SymDense, error) {
	dim := 3 * len(h.coords0)
	penalty := make([]float64, dim)
	for i := range penalty {
		penalty[i] = spring
	}
	for _, i := range free {
		if i < 0 || i >= dim {
			return nil, fmt.Errorf("%w: %d not in [0, %d)", pes.ErrInvalidIndex, i, dim)
		}
		penalty[i] = 0
	}

	out := copySym(h.hess)
	for i, s := range penalty {
		out.SetSym(i, i, out.At(i, i)+s)
	}
	return out, nil
}

// ConstrainedInverseHessian re-diagonalises the constrained Hessian on every
// call and applies the same ridge rule as the cached inverse.
func (h *Harmonic) ConstrainedInverseHessian(free []int, spring float64) (*mat.SymDense, error) {
	chess, err := h.ConstrainedHessian(free, spring)
	if err != nil {
		return nil, err
	}
	ihess, _, err := linalg.PseudoInverse(chess, h.ridge)
	return ihess, err
}

func copySym(s *mat.SymDense) *mat.SymDense {
	out := mat.NewSymDense(s.SymmetricDim(), nil)
	out.CopySym(s)
	return out
}
