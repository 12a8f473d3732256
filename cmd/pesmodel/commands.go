package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/pesmodel/internal/config"
	"github.com/san-kum/pesmodel/internal/export"
	"github.com/san-kum/pesmodel/internal/findiff"
	"github.com/san-kum/pesmodel/internal/linalg"
	"github.com/san-kum/pesmodel/internal/models"
	"github.com/san-kum/pesmodel/internal/pes"
	"github.com/san-kum/pesmodel/internal/registry"
	"github.com/san-kum/pesmodel/internal/report"
	"github.com/san-kum/pesmodel/internal/storage"
	"github.com/san-kum/pesmodel/internal/tui"
)

func loadSystem() (*config.System, error) {
	if configFile != "" {
		sys, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", configFile, err)
		}
		return sys, nil
	}
	sys := config.GetPreset(preset)
	if sys == nil {
		return nil, fmt.Errorf("unknown preset: %s", preset)
	}
	return sys, nil
}

func harmonicReport(sys *config.System) (*models.Harmonic, *report.Hessian, error) {
	h, err := registry.Harmonic(sys)
	if err != nil {
		return nil, nil, fmt.Errorf("harmonic model: %w", err)
	}
	rep, err := report.BuildHessian(h)
	if err != nil {
		return nil, nil, err
	}
	return h, rep, nil
}

func printVectors(cmd *cobra.Command, title string, sys *config.System, v pes.Coords) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, report.SubtleStyle.Render(title))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ATOM\tTYPE\tX\tY\tZ")
	for i, g := range v {
		fmt.Fprintf(w, "%d\t%s\t% .8e\t% .8e\t% .8e\n", i, sys.Sample.Type(i), g[0], g[1], g[2])
	}
	w.Flush()
}

func evalModel(cmd *cobra.Command, args []string) error {
	sys, err := loadSystem()
	if err != nil {
		return err
	}

	reg := registry.NewRegistry()
	m, err := reg.GetModel(args[0], sys)
	if err != nil {
		return err
	}

	x := sys.Sample.Coordinates
	energy, err := m.Energy(x)
	if err != nil {
		return fmt.Errorf("energy: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, report.TitleStyle.Render(m.Name()))
	fmt.Fprintf(out, "atoms:  %d\n", sys.NumAtoms())
	fmt.Fprintf(out, "energy: % .12e Eh\n\n", energy)

	ev := &storage.Evaluation{Model: args[0], System: sys.Name, NumAtoms: sys.NumAtoms(), Energy: &energy}

	full, ok := m.(pes.Model)
	if !ok {
		fmt.Fprintln(out, report.SubtleStyle.Render("energy only, no derivatives"))
	} else {
		grad, err := full.Gradient(x)
		if err != nil {
			return fmt.Errorf("gradient: %w", err)
		}
		hess, err := full.Hessian(x)
		if err != nil {
			return fmt.Errorf("hessian: %w", err)
		}
		printVectors(cmd, "gradient (Eh/bohr)", sys, grad)
		fmt.Fprintf(out, "\nhessian: %dx%d, trace % .6e\n", hess.SymmetricDim(), hess.SymmetricDim(), mat.Trace(hess))

		ev.Gradient = grad
		ev.Hessian = hess
		if h, ok := m.(*models.Harmonic); ok {
			ev.Eigenvalues = h.Eigenvalues()
		}
	}

	if !save {
		return nil
	}
	return saveEvaluation(cmd, ev)
}

func saveEvaluation(cmd *cobra.Command, ev *storage.Evaluation) error {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	id, err := st.Save(ev)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nsaved: %s\n", id)
	return nil
}

func runElectrostatics(cmd *cobra.Command, args []string) error {
	sys, err := loadSystem()
	if err != nil {
		return err
	}

	ec := sys.Electrostatics
	grad, hess, err := models.Electrostatics(&sys.Sample, ec.ExcludePairs, ec.ExcludeTypes)
	if err != nil {
		return fmt.Errorf("electrostatics: %w", err)
	}
	g, err := pes.FromVec(grad)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, report.TitleStyle.Render("electrostatics of "+sys.Name))
	if len(ec.ExcludePairs) > 0 || len(ec.ExcludeTypes) > 0 {
		fmt.Fprintf(out, "excluded: %d pairs, types %v\n", len(ec.ExcludePairs), ec.ExcludeTypes)
	}
	fmt.Fprintln(out)
	printVectors(cmd, "gradient (Eh/bohr)", sys, g)
	fmt.Fprintf(out, "\nhessian: %dx%d, trace % .6e\n", hess.SymmetricDim(), hess.SymmetricDim(), mat.Trace(hess))

	if !save {
		return nil
	}
	// Type exclusions have no energy counterpart, so only the derivatives
	// are stored.
	return saveEvaluation(cmd, &storage.Evaluation{
		Model:    "electrostatics",
		System:   sys.Name,
		NumAtoms: sys.NumAtoms(),
		Gradient: g,
		Hessian:  hess,
	})
}

func showModes(cmd *cobra.Command, args []string) error {
	sys, err := loadSystem()
	if err != nil {
		return err
	}
	h, rep, err := harmonicReport(sys)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, rep.Render())

	if rigid := rep.RigidLike(5); len(rigid) > 0 {
		fmt.Fprintf(out, "\n%d modes within 5° of a rigid-body motion\n", len(rigid))
	}

	if !cmd.Flags().Changed("free") {
		free = sys.Harmonic.Free
	}
	if !cmd.Flags().Changed("spring") {
		spring = sys.Harmonic.SpringConstant()
	}
	if len(free) == 0 {
		return nil
	}

	chess, err := h.ConstrainedHessian(free, spring)
	if err != nil {
		return fmt.Errorf("constrained hessian: %w", err)
	}
	eig, err := linalg.EigenSym(chess)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nconstrained to %d free coordinates (spring %.3e Eh/bohr²): rank %d of %d\n",
		len(free), spring, eig.Rank(h.Ridge()), len(eig.Values))
	return nil
}

func browseModes(cmd *cobra.Command, args []string) error {
	sys, err := loadSystem()
	if err != nil {
		return err
	}
	_, rep, err := harmonicReport(sys)
	if err != nil {
		return err
	}
	return tui.Run(rep, sys.Sample.Types)
}

func plotSpectrum(cmd *cobra.Command, args []string) error {
	var (
		values  []float64
		caption string
		rep     *report.Hessian
	)

	if len(args) == 1 {
		st := storage.New(dataDir)
		meta, err := st.Load(args[0])
		if err != nil {
			return err
		}
		if meta.NumEigen == 0 {
			return fmt.Errorf("run %s has no eigenvalues", meta.ID)
		}
		if values, err = st.LoadEigenvalues(meta.ID); err != nil {
			return err
		}
		caption = meta.ID
	} else {
		sys, err := loadSystem()
		if err != nil {
			return err
		}
		if _, rep, err = harmonicReport(sys); err != nil {
			return err
		}
		values = rep.Spectrum()
		caption = rep.Name
	}

	if len(values) == 0 {
		return fmt.Errorf("no eigenvalues to plot")
	}

	graph := asciigraph.Plot(values,
		asciigraph.Height(12),
		asciigraph.Width(plotWidth),
		asciigraph.Caption("eigenvalues of "+caption),
	)
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, graph)
	fmt.Fprintf(out, "\nmin % .4e  max % .4e\n", floats.Min(values), floats.Max(values))

	if svgFile == "" {
		return nil
	}
	if rep == nil {
		return fmt.Errorf("--svg needs a live system, not a stored run")
	}
	if err := os.WriteFile(svgFile, []byte(export.SpectrumToSVG(rep, 800, 300)), 0644); err != nil {
		return err
	}
	fmt.Fprintf(out, "wrote %s\n", svgFile)
	return nil
}

func checkModel(cmd *cobra.Command, args []string) error {
	sys, err := loadSystem()
	if err != nil {
		return err
	}

	reg := registry.NewRegistry()
	m, err := reg.GetModel(args[0], sys)
	if err != nil {
		return err
	}

	x := sys.Sample.Coordinates
	numGrad, err := findiff.Gradient(m, x, step)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "QUANTITY\tMAX |ANALYTIC - NUMERIC|")

	if full, ok := m.(pes.Model); ok {
		grad, err := full.Gradient(x)
		if err != nil {
			return err
		}
		hess, err := full.Hessian(x)
		if err != nil {
			return err
		}
		numHess, err := findiff.Hessian(m, x, step)
		if err != nil {
			return err
		}
		var d mat.Dense
		d.Sub(hess, numHess)
		fmt.Fprintf(w, "gradient\t%.3e\n", findiff.MaxAbsDiff(grad, numGrad))
		fmt.Fprintf(w, "hessian\t%.3e\n", mat.Norm(&d, math.Inf(1)))
		return w.Flush()
	}

	if _, ok := m.(*models.Coulomb); !ok {
		return fmt.Errorf("model %s has no analytic derivatives", args[0])
	}
	// Coulomb derivatives come from the electrostatics assembler over the
	// same pair exclusions.
	grad, hess, err := models.Electrostatics(&sys.Sample, sys.Coulomb.ExcludePairs, nil)
	if err != nil {
		return err
	}
	g, err := pes.FromVec(grad)
	if err != nil {
		return err
	}
	numHess, err := findiff.Hessian(m, x, step)
	if err != nil {
		return err
	}
	var d mat.Dense
	d.Sub(hess, numHess)
	fmt.Fprintf(w, "electrostatics gradient\t%.3e\n", findiff.MaxAbsDiff(g, numGrad))
	fmt.Fprintf(w, "electrostatics hessian\t%.3e\n", mat.Norm(&d, math.Inf(1)))
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tSYSTEM\tTIME\tATOMS\tENERGY\tGRADIENT\tHESSIAN")
	for _, run := range runs {
		energy := "-"
		if run.Energy != nil {
			energy = fmt.Sprintf("% .6e", *run.Energy)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%v\t%v\n",
			run.ID,
			run.Model,
			run.System,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.NumAtoms,
			energy,
			run.HasGradient,
			run.HasHessian,
		)
	}
	return w.Flush()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(cmd.OutOrStdout(), args[0])
}

func listPresets(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for _, name := range config.ListPresets() {
		sys := config.GetPreset(name)
		if sys == nil {
			continue
		}
		fmt.Fprintf(out, "%-10s %d atoms\n", name, sys.NumAtoms())
	}
	return nil
}

func listModels(cmd *cobra.Command, args []string) error {
	for _, name := range registry.NewRegistry().ListModels() {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
