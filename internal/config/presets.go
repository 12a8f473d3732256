package config

import (
	"sort"

	"github.com/san-kum/pesmodel/internal/pes"
)

// perBohr2 turns a force constant in Eh/bohr² into Eh/Å², the unit springs
// take in angstrom presets.
const perBohr2 = pes.Angstrom * pes.Angstrom

// Presets builds a fresh copy of each bundled system on every call.
var Presets = map[string]func() *System{
	"h2": func() *System {
		sys := DefaultSystem()
		sys.Name = "h2"
		sys.CoordinateUnit = UnitAngstrom
		sys.Sample = pes.Sample{
			Charges:     []float64{0.1, -0.1},
			Types:       []string{"H", "H"},
			Coordinates: pes.Coords{{0, 0, 0}, {0, 0, 0.7414}},
		}
		sys.Harmonic.Reference = -1.1745
		sys.Harmonic.Springs = []SpringBond{{I: 0, J: 1, K: 0.3699 * perBohr2}}
		return sys
	},
	"linear3": func() *System {
		sys := DefaultSystem()
		sys.Name = "linear3"
		sys.Sample = pes.Sample{
			Charges:     []float64{1, -1, 1},
			Types:       []string{"A", "B", "A"},
			Coordinates: pes.Coords{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}},
		}
		sys.Harmonic.Springs = []SpringBond{{I: 0, J: 1, K: 1}, {I: 1, J: 2, K: 1}}
		return sys
	},
	"water": func() *System {
		sys := DefaultSystem()
		sys.Name = "water"
		sys.CoordinateUnit = UnitAngstrom
		sys.Sample = pes.Sample{
			Charges: []float64{-0.834, 0.417, 0.417},
			Types:   []string{"OW", "HW", "HW"},
			Coordinates: pes.Coords{
				{0.0000, 0.0000, 0.0621},
				{0.0000, 0.7569, -0.2483},
				{0.0000, -0.7569, -0.2483},
			},
		}
		sys.Harmonic.Reference = -76.0266
		sys.Harmonic.Springs = []SpringBond{
			{I: 0, J: 1, K: 0.5144 * perBohr2},
			{I: 0, J: 2, K: 0.5144 * perBohr2},
			{I: 1, J: 2, K: 0.0620 * perBohr2},
		}
		sys.Coulomb.ExcludePairs = [][2]int{{0, 1}, {0, 2}}
		return sys
	},
}

// GetPreset returns a normalized copy of a bundled system, or nil when the
// name is unknown.
func GetPreset(name string) *System {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	sys := fn()
	if err := sys.normalize(); err != nil {
		return nil
	}
	return sys
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
