package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/pesmodel/internal/pes"
)

type ExportData struct {
	RunMetadata
	Gradient    pes.Coords  `json:"gradient,omitempty"`
	Hessian     [][]float64 `json:"hessian,omitempty"`
	Eigenvalues []float64   `json:"eigenvalues,omitempty"`
}

// ExportJSON writes a stored run, including its arrays, as indented JSON.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}

	data := ExportData{RunMetadata: *meta}

	if meta.HasGradient {
		if data.Gradient, err = s.LoadGradient(runID); err != nil {
			return err
		}
	}
	if meta.HasHessian {
		h, err := s.LoadHessian(runID)
		if err != nil {
			return err
		}
		r, _ := h.Dims()
		data.Hessian = make([][]float64, r)
		for i := range data.Hessian {
			data.Hessian[i] = h.RawRowView(i)
		}
	}
	if meta.NumEigen > 0 {
		if data.Eigenvalues, err = s.LoadEigenvalues(runID); err != nil {
			return err
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
