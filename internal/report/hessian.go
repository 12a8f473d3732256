// Package report builds structured diagnostics of a Hessian eigen-decomposition
// and renders them for a terminal.
package report

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/pesmodel/internal/geom"
	"github.com/san-kum/pesmodel/internal/linalg"
	"github.com/san-kum/pesmodel/internal/pes"
)

// RigidLabels name the reference vectors in Mode.Angles.
var RigidLabels = [6]string{"Tx", "Ty", "Tz", "Rx", "Ry", "Rz"}

// EigenSource is anything exposing a cached Hessian eigen-decomposition and
// the geometry it was computed at. *models.Harmonic satisfies it.
type EigenSource interface {
	Name() string
	Eigenvalues() []float64
	Eigenvectors() *mat.Dense
	Ridge() float64
	Coords0() pes.Coords
}

// Mode describes one eigenpair.
type Mode struct {
	Index      int
	Eigenvalue float64
	Singular   bool
	// Angles in degrees against Tx, Ty, Tz, Rx, Ry, Rz. NaN when the
	// reference vector vanishes.
	Angles [6]float64
	// Amplitudes is the displacement norm of each atom in the mode.
	Amplitudes []float64
}

// Hessian is the eigenmode report of one model.
type Hessian struct {
	Name  string
	Ridge float64
	Modes []Mode
}

func BuildHessian(src EigenSource) (*Hessian, error) {
	evals := src.Eigenvalues()
	evecs := src.Eigenvectors()
	coords := src.Coords0()

	r, c := evecs.Dims()
	if err := pes.CheckLen("eigenvector rows", 3*len(coords), r); err != nil {
		return nil, err
	}
	if err := pes.CheckLen("eigenvalues", c, len(evals)); err != nil {
		return nil, err
	}

	basis := geom.RigidBasis(coords)
	refs := basis[:]

	rep := &Hessian{
		Name:  src.Name(),
		Ridge: src.Ridge(),
		Modes: make([]Mode, len(evals)),
	}
	for k, v := range evals {
		m := Mode{
			Index:      k,
			Eigenvalue: v,
			Singular:   linalg.Singular(v, rep.Ridge),
			Amplitudes: geom.AtomAmplitudes(mat.Col(nil, k, evecs)),
		}
		for i, a := range geom.ModeAngles(evecs, k, refs) {
			m.Angles[i] = a / pes.Deg
		}
		rep.Modes[k] = m
	}
	return rep, nil
}

func (h *Hessian) NumSingular() int {
	n := 0
	for _, m := range h.Modes {
		if m.Singular {
			n++
		}
	}
	return n
}

// RigidLike returns the modes within tol degrees of some rigid-body vector.
func (h *Hessian) RigidLike(tol float64) []Mode {
	var out []Mode
	for _, m := range h.Modes {
		for _, a := range m.Angles {
			if !math.IsNaN(a) && a <= tol {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

// TopAtoms returns the indices of the n atoms moving most in mode k.
func (h *Hessian) TopAtoms(k, n int) []int {
	amp := h.Modes[k].Amplitudes
	idx := make([]int, len(amp))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return amp[idx[a]] > amp[idx[b]] })
	if n < len(idx) {
		idx = idx[:n]
	}
	return idx
}

// Spectrum returns the eigenvalues in mode order.
func (h *Hessian) Spectrum() []float64 {
	out := make([]float64, len(h.Modes))
	for i, m := range h.Modes {
		out[i] = m.Eigenvalue
	}
	return out
}

func formatAngle(a float64) string {
	if math.IsNaN(a) {
		return fmt.Sprintf("%7s", "-")
	}
	return fmt.Sprintf("%7.3f", a)
}
