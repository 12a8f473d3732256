package config

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/pesmodel/internal/ic"
	"github.com/san-kum/pesmodel/internal/linalg"
	"github.com/san-kum/pesmodel/internal/pes"
)

const (
	UnitBohr     = "bohr"
	UnitAngstrom = "angstrom"

	// DefaultSymmetryTol bounds |H_ij - H_ji| for a Hessian read from file.
	DefaultSymmetryTol = 1e-8
)

// System describes one molecular snapshot and the model parameters around it.
type System struct {
	Name           string               `yaml:"name"`
	CoordinateUnit string               `yaml:"coordinate_unit"`
	Sample         pes.Sample           `yaml:"sample"`
	Harmonic       HarmonicConfig       `yaml:"harmonic"`
	Coulomb        CoulombConfig        `yaml:"coulomb"`
	Electrostatics ElectrostaticsConfig `yaml:"electrostatics"`
}

// HarmonicConfig is the reference point of a harmonic model. Coordinates come
// from the sample. Hessian rows take precedence over Springs.
//
// Gradient, Hessian, spring constants and Spring follow CoordinateUnit for
// their length dimension (Eh/Å, Eh/Å² under angstrom). Ridge bounds
// eigenvalues in Eh/bohr² regardless of unit. Spring defaults to
// pes.DefaultSpring when omitted.
type HarmonicConfig struct {
	Reference float64      `yaml:"reference"`
	Gradient  pes.Coords   `yaml:"gradient,omitempty"`
	Hessian   [][]float64  `yaml:"hessian,omitempty"`
	Springs   []SpringBond `yaml:"springs,omitempty"`
	Ridge     float64      `yaml:"ridge"`
	Spring    *float64     `yaml:"spring,omitempty"`
	Free      []int        `yaml:"free,omitempty"`
}

// SpringConstant is the penalty on constrained coordinates in Eh/bohr².
func (h *HarmonicConfig) SpringConstant() float64 {
	if h.Spring == nil {
		return pes.DefaultSpring
	}
	return *h.Spring
}

// SpringBond is a harmonic bond of stiffness K between atoms I and J.
type SpringBond struct {
	I int     `yaml:"i"`
	J int     `yaml:"j"`
	K float64 `yaml:"k"`
}

type CoulombConfig struct {
	ExcludePairs [][2]int `yaml:"exclude_pairs,omitempty"`
}

type ElectrostaticsConfig struct {
	ExcludePairs [][2]int `yaml:"exclude_pairs,omitempty"`
	ExcludeTypes []string `yaml:"exclude_types,omitempty"`
}

func DefaultSystem() *System {
	return &System{
		Name:           "system",
		CoordinateUnit: UnitBohr,
		Harmonic: HarmonicConfig{
			Ridge: pes.DefaultRidge,
		},
	}
}

// Load reads a YAML system and converts coordinates to bohr.
func Load(path string) (*System, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*System, error) {
	sys := DefaultSystem()
	if err := yaml.Unmarshal(data, sys); err != nil {
		return nil, err
	}
	if err := sys.normalize(); err != nil {
		return nil, err
	}
	return sys, nil
}

// Save writes the system in bohr.
func Save(path string, sys *System) error {
	data, err := yaml.Marshal(sys)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (s *System) normalize() error {
	switch s.CoordinateUnit {
	case "", UnitBohr:
	case UnitAngstrom:
		s.Sample.Coordinates = s.Sample.Coordinates.Scale(pes.Angstrom)
		s.Harmonic.toBohr()
	default:
		return fmt.Errorf("unknown coordinate unit: %s", s.CoordinateUnit)
	}
	s.CoordinateUnit = UnitBohr
	return s.Sample.Validate()
}

// toBohr converts the length dimension of the reference derivatives from
// angstrom to bohr.
func (h *HarmonicConfig) toBohr() {
	perA2 := 1 / (pes.Angstrom * pes.Angstrom)
	h.Gradient = h.Gradient.Scale(1 / pes.Angstrom)
	for _, row := range h.Hessian {
		for j := range row {
			row[j] *= perA2
		}
	}
	for i := range h.Springs {
		h.Springs[i].K *= perA2
	}
	if h.Spring != nil {
		k := *h.Spring * perA2
		h.Spring = &k
	}
}

func (s *System) NumAtoms() int { return s.Sample.NumAtoms() }

// ReferenceGradient returns the configured gradient, or zeros when omitted.
func (s *System) ReferenceGradient() (pes.Coords, error) {
	n := s.NumAtoms()
	if len(s.Harmonic.Gradient) == 0 {
		return make(pes.Coords, n), nil
	}
	if err := pes.CheckLen("harmonic gradient", n, len(s.Harmonic.Gradient)); err != nil {
		return nil, err
	}
	return s.Harmonic.Gradient.Clone(), nil
}

// ReferenceHessian returns the configured Hessian rows, or the spring
// network Hessian when no rows are given.
func (s *System) ReferenceHessian() (*mat.SymDense, error) {
	n := 3 * s.NumAtoms()
	if len(s.Harmonic.Hessian) == 0 {
		return SpringNetworkHessian(s.Sample.Coordinates, s.Harmonic.Springs)
	}

	if err := pes.CheckLen("hessian rows", n, len(s.Harmonic.Hessian)); err != nil {
		return nil, err
	}
	dense := mat.NewDense(n, n, nil)
	for i, row := range s.Harmonic.Hessian {
		if err := pes.CheckLen(fmt.Sprintf("hessian row %d", i), n, len(row)); err != nil {
			return nil, err
		}
		dense.SetRow(i, row)
	}
	if !linalg.IsSymmetric(dense, DefaultSymmetryTol) {
		return nil, pes.ErrNotSymmetric
	}
	return linalg.Symmetrize(dense)
}

// SpringNetworkHessian is Σ k·g gᵀ over the bonds, with g the bond-length
// gradient. It is the Hessian of a spring network at its rest lengths.
func SpringNetworkHessian(x pes.Coords, springs []SpringBond) (*mat.SymDense, error) {
	if len(x) == 0 {
		return nil, pes.ErrNoAtoms
	}
	h := mat.NewSymDense(3*len(x), nil)
	for _, sp := range springs {
		if sp.I < 0 || sp.I >= len(x) || sp.J < 0 || sp.J >= len(x) || sp.I == sp.J {
			return nil, &pes.PairError{I: sp.I, J: sp.J, Wrapped: pes.ErrInvalidIndex}
		}
		h.SymRankOne(h, sp.K, ic.NewBond(sp.I, sp.J).Grad(x))
	}
	return h, nil
}

// HessianRows flattens a symmetric matrix into YAML-friendly rows.
func HessianRows(h mat.Matrix) [][]float64 {
	r, _ := h.Dims()
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = mat.Row(nil, i, h)
	}
	return rows
}
