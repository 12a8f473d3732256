// Package linalg wraps the gonum symmetric eigen-solver with the
// ridge-truncated pseudo-inverse used for molecular Hessians.
package linalg

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/pesmodel/internal/pes"
)

// Eigen holds an ascending eigen-decomposition. Column k of Vectors pairs
// with Values[k].
type Eigen struct {
	Values  []float64
	Vectors *mat.Dense
}

// EigenSym diagonalises a real symmetric matrix.
func EigenSym(a mat.Symmetric) (*Eigen, error) {
	var es mat.EigenSym
	if ok := es.Factorize(a, true); !ok {
		return nil, pes.ErrEigenFailed
	}

	vecs := new(mat.Dense)
	es.VectorsTo(vecs)

	return &Eigen{
		Values:  es.Values(nil),
		Vectors: vecs,
	}, nil
}

// Singular reports whether an eigenvalue is treated as exactly zero.
func Singular(eigval, ridge float64) bool {
	return !(math.Abs(eigval) > ridge)
}

// InverseValues returns 1/λ for every |λ| > ridge and 0 otherwise.
func (e *Eigen) InverseValues(ridge float64) []float64 {
	inv := make([]float64, len(e.Values))
	for i, v := range e.Values {
		if !Singular(v, ridge) {
			inv[i] = 1.0 / v
		}
	}
	return inv
}

// Rank counts eigenvalues above the ridge.
func (e *Eigen) Rank(ridge float64) int {
	n := 0
	for _, v := range e.Values {
		if !Singular(v, ridge) {
			n++
		}
	}
	return n
}

// PseudoInverse assembles V diag(inv) Vt from the non-singular modes.
func (e *Eigen) PseudoInverse(ridge float64) *mat.SymDense {
	return e.compose(e.InverseValues(ridge))
}

// Reconstruct assembles V diag(λ) Vt.
func (e *Eigen) Reconstruct() *mat.SymDense {
	return e.compose(e.Values)
}

func (e *Eigen) compose(diag []float64) *mat.SymDense {
	n := len(diag)
	out := mat.NewSymDense(n, nil)
	for k, d := range diag {
		if d == 0 {
			continue
		}
		out.SymRankOne(out, d, e.Vectors.ColView(k))
	}
	return out
}

// PseudoInverse diagonalises a and returns its ridge-truncated inverse
// together with the decomposition.
func PseudoInverse(a mat.Symmetric, ridge float64) (*mat.SymDense, *Eigen, error) {
	eig, err := EigenSym(a)
	if err != nil {
		return nil, nil, err
	}
	return eig.PseudoInverse(ridge), eig, nil
}

// IsSymmetric reports whether a is square with |a_ij - a_ji| <= tol.
func IsSymmetric(a mat.Matrix, tol float64) bool {
	r, c := a.Dims()
	if r != c {
		return false
	}
	for i := 0; i < r; i++ {
		for j := i + 1; j < c; j++ {
			if math.Abs(a.At(i, j)-a.At(j, i)) > tol {
				return false
			}
		}
	}
	return true
}

// Symmetrize returns (a + aT)/2 for a square matrix.
func Symmetrize(a mat.Matrix) (*mat.SymDense, error) {
	r, c := a.Dims()
	if r != c {
		return nil, &pes.ShapeError{What: "hessian columns", Want: r, Got: c}
	}
	out := mat.NewSymDense(r, nil)
	for i := 0; i < r; i++ {
		for j := i; j < r; j++ {
			out.SetSym(i, j, 0.5*(a.At(i, j)+a.At(j, i)))
		}
	}
	return out, nil
}
