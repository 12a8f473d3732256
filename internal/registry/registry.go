// Package registry maps model names to constructors that build a model from
// a config.System.
package registry

import (
	"fmt"
	"sort"

	"github.com/san-kum/pesmodel/internal/config"
	"github.com/san-kum/pesmodel/internal/models"
	"github.com/san-kum/pesmodel/internal/pes"
)

type Builder func(sys *config.System) (pes.EnergyModel, error)

type Registry struct {
	models map[string]Builder
}

func NewRegistry() *Registry {
	r := &Registry{models: make(map[string]Builder)}

	r.models["zero"] = func(sys *config.System) (pes.EnergyModel, error) {
		return models.NewZero(sys.Name + " zero"), nil
	}
	r.models["harmonic"] = func(sys *config.System) (pes.EnergyModel, error) {
		return Harmonic(sys)
	}
	r.models["coulomb"] = func(sys *config.System) (pes.EnergyModel, error) {
		return models.NewCoulomb(sys.Name+" coulomb", sys.Sample.Coordinates, sys.Sample.Charges, sys.Coulomb.ExcludePairs)
	}

	return r
}

// Harmonic builds the harmonic model of a system around its sample geometry.
func Harmonic(sys *config.System) (*models.Harmonic, error) {
	grad, err := sys.ReferenceGradient()
	if err != nil {
		return nil, err
	}
	hess, err := sys.ReferenceHessian()
	if err != nil {
		return nil, err
	}
	ridge := sys.Harmonic.Ridge
	return models.NewHarmonic(models.HarmonicParams{
		Name:      sys.Name + " harmonic",
		Coords0:   sys.Sample.Coordinates,
		Gradient:  grad,
		Hessian:   hess,
		Reference: sys.Harmonic.Reference,
		Ridge:     &ridge,
	})
}

func (r *Registry) Register(name string, b Builder) {
	r.models[name] = b
}

func (r *Registry) GetModel(name string, sys *config.System) (pes.EnergyModel, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return fn(sys)
}

// GetFullModel returns a model that also provides derivatives.
func (r *Registry) GetFullModel(name string, sys *config.System) (pes.Model, error) {
	m, err := r.GetModel(name, sys)
	if err != nil {
		return nil, err
	}
	full, ok := m.(pes.Model)
	if !ok {
		return nil, fmt.Errorf("model %s provides energies only", name)
	}
	return full, nil
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
