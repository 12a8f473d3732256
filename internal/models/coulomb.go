package models

import (
	"github.com/san-kum/pesmodel/internal/ic"
	"github.com/san-kum/pesmodel/internal/pes"
)

const DefaultCoulombName = "Coulomb Model"

// rows per worker below which the pair sum stays on one goroutine
const coulombMinChunk = 64

// Coulomb is the pairwise electrostatic energy Σ_{i<j} qi·qj / rij over all
// pairs not in the exclusion set. It only exposes an energy.
type Coulomb struct {
	name    string
	coords0 pes.Coords
	charges []float64
	exclude pes.PairSet
	shift   float64
}

// NewCoulomb stores the reference geometry and caches the unshifted energy
// there as the shift.
func NewCoulomb(name string, coords0 pes.Coords, charges []float64, exclude [][2]int) (*Coulomb, error) {
	if err := pes.CheckLen("charges", len(coords0), len(charges)); err != nil {
		return nil, err
	}
	set, err := pes.NewPairSet(exclude, len(charges))
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = DefaultCoulombName
	}

	c := &Coulomb{
		name:    name,
		coords0: coords0.Clone(),
		charges: append([]float64(nil), charges...),
		exclude: set,
	}
	c.shift, err = c.EnergyWithShift(c.coords0, false)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Coulomb) Name() string { return c.name }

// Shift is the unshifted energy at the reference geometry.
func (c *Coulomb) Shift() float64 { return c.shift }

func (c *Coulomb) Charges() []float64 { return append([]float64(nil), c.charges...) }

func (c *Coulomb) Coords0() pes.Coords { return c.coords0.Clone() }

// Energy is zero at the reference geometry.
func (c *Coulomb) Energy(x pes.Coords) (float64, error) {
	return c.EnergyWithShift(x, true)
}

// RawEnergy is the pair sum without the reference shift.
func (c *Coulomb) RawEnergy(x pes.Coords) (float64, error) {
	return c.EnergyWithShift(x, false)
}

func (c *Coulomb) EnergyWithShift(x pes.Coords, shift bool) (float64, error) {
	if err := pes.CheckLen("coordinates", len(c.charges), len(x)); err != nil {
		return 0, err
	}

	rows := make([]float64, len(c.charges))
	err := pes.ParallelFor(len(rows), coulombMinChunk, func(start, end int) error {
		for i := start; i < end; i++ {
			var err error
			if rows[i], err = c.row(x, i); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	// Rows are reduced in order so the sum does not depend on scheduling.
	energy := 0.0
	if shift {
		energy -= c.shift
	}
	for _, r := range rows {
		energy += r
	}
	return energy, nil
}

// row sums the terms of atom i with every j > i.
func (c *Coulomb) row(x pes.Coords, i int) (float64, error) {
	qi := c.charges[i]
	sum := 0.0
	for j := i + 1; j < len(c.charges); j++ {
		if c.exclude.Contains(i, j) {
			continue
		}
		r := ic.NewBond(i, j).Value(x)
		if r == 0 {
			return 0, &pes.PairError{I: i, J: j, Wrapped: pes.ErrCoincidentAtoms}
		}
		sum += qi * c.charges[j] / r
	}
	return sum, nil
}
