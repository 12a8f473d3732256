package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/pesmodel/internal/pes"
)

const (
	metadataFile    = "metadata.json"
	gradientFile    = "gradient.csv"
	hessianFile     = "hessian.csv"
	eigenvaluesFile = "eigenvalues.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Evaluation is one model evaluation at one geometry. Energy, Gradient,
// Hessian and Eigenvalues are each optional; NumAtoms is taken from the
// gradient when left zero.
type Evaluation struct {
	Model       string
	System      string
	NumAtoms    int
	Energy      *float64
	Gradient    pes.Coords
	Hessian     mat.Matrix
	Eigenvalues []float64
}

type RunMetadata struct {
	ID          string    `json:"id"`
	Model       string    `json:"model"`
	System      string    `json:"system"`
	Timestamp   time.Time `json:"timestamp"`
	NumAtoms    int       `json:"num_atoms"`
	Energy      *float64  `json:"energy,omitempty"`
	HasGradient bool      `json:"has_gradient"`
	HasHessian  bool      `json:"has_hessian"`
	NumEigen    int       `json:"num_eigenvalues"`
}

func (s *Store) Save(ev *Evaluation) (string, error) {
	runID := fmt.Sprintf("%s_%s", ev.Model, uuid.New().String()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Model:       ev.Model,
		System:      ev.System,
		Timestamp:   time.Now(),
		NumAtoms:    ev.NumAtoms,
		Energy:      ev.Energy,
		HasGradient: ev.Gradient != nil,
		HasHessian:  ev.Hessian != nil,
		NumEigen:    len(ev.Eigenvalues),
	}
	if meta.NumAtoms == 0 {
		meta.NumAtoms = len(ev.Gradient)
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	if ev.Gradient != nil {
		rows := [][]string{{"atom", "x", "y", "z"}}
		for i, g := range ev.Gradient {
			rows = append(rows, []string{strconv.Itoa(i), formatFloat(g[0]), formatFloat(g[1]), formatFloat(g[2])})
		}
		if err := writeCSV(filepath.Join(runDir, gradientFile), rows); err != nil {
			return "", err
		}
	}

	if ev.Hessian != nil {
		r, c := ev.Hessian.Dims()
		rows := make([][]string, r)
		for i := 0; i < r; i++ {
			row := make([]string, c)
			for j := 0; j < c; j++ {
				row[j] = formatFloat(ev.Hessian.At(i, j))
			}
			rows[i] = row
		}
		if err := writeCSV(filepath.Join(runDir, hessianFile), rows); err != nil {
			return "", err
		}
	}

	if len(ev.Eigenvalues) > 0 {
		rows := [][]string{{"mode", "eigenvalue"}}
		for k, v := range ev.Eigenvalues {
			rows = append(rows, []string{strconv.Itoa(k), formatFloat(v)})
		}
		if err := writeCSV(filepath.Join(runDir, eigenvaluesFile), rows); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// List returns all runs, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadGradient(runID string) (pes.Coords, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, gradientFile))
	if err != nil {
		return nil, err
	}

	grad := make(pes.Coords, 0, len(records))
	for i := 1; i < len(records); i++ {
		vals, err := parseFloats(records[i][1:])
		if err != nil {
			return nil, err
		}
		if len(vals) != 3 {
			return nil, &pes.ShapeError{What: "gradient row", Want: 3, Got: len(vals)}
		}
		grad = append(grad, pes.Vec3{vals[0], vals[1], vals[2]})
	}
	return grad, nil
}

func (s *Store) LoadHessian(runID string) (*mat.Dense, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, hessianFile))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, pes.ErrNoAtoms
	}

	n := len(records)
	h := mat.NewDense(n, n, nil)
	for i, rec := range records {
		vals, err := parseFloats(rec)
		if err != nil {
			return nil, err
		}
		if err := pes.CheckLen(fmt.Sprintf("hessian row %d", i), n, len(vals)); err != nil {
			return nil, err
		}
		h.SetRow(i, vals)
	}
	return h, nil
}

func (s *Store) LoadEigenvalues(runID string) ([]float64, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, eigenvaluesFile))
	if err != nil {
		return nil, err
	}

	out := make([]float64, 0, len(records))
	for i := 1; i < len(records); i++ {
		if len(records[i]) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(records[i][1], 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Sync()
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}
