package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	modelName  string
	save       bool
	spring     float64
	free       []int
	step       float64
	plotWidth  int
	svgFile    string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pesmodel",
		Short:         "potential energy surface models",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".pesmodel", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "system file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "water", "built-in system")

	evalCmd := &cobra.Command{
		Use:   "eval [model]",
		Short: "evaluate a model at the sample geometry",
		Args:  cobra.ExactArgs(1),
		RunE:  evalModel,
	}
	evalCmd.Flags().BoolVar(&save, "save", false, "store the evaluation")

	elecCmd := &cobra.Command{
		Use:   "electrostatics",
		Short: "pairwise Coulomb gradient and Hessian of the sample",
		Args:  cobra.NoArgs,
		RunE:  runElectrostatics,
	}
	elecCmd.Flags().BoolVar(&save, "save", false, "store the result")

	modesCmd := &cobra.Command{
		Use:   "modes",
		Short: "eigenmode report of the harmonic model",
		Args:  cobra.NoArgs,
		RunE:  showModes,
	}
	modesCmd.Flags().Float64Var(&spring, "spring", 0, "penalty on constrained degrees of freedom (default from system)")
	modesCmd.Flags().IntSliceVar(&free, "free", nil, "unconstrained degrees of freedom (3*atom+axis)")

	browseCmd := &cobra.Command{
		Use:   "browse",
		Short: "browse harmonic eigenmodes interactively",
		Args:  cobra.NoArgs,
		RunE:  browseModes,
	}

	spectrumCmd := &cobra.Command{
		Use:   "spectrum [run_id]",
		Short: "plot the Hessian eigenvalue spectrum",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotSpectrum,
	}
	spectrumCmd.Flags().IntVar(&plotWidth, "width", 60, "plot width")
	spectrumCmd.Flags().StringVar(&svgFile, "svg", "", "also write the spectrum as svg")

	checkCmd := &cobra.Command{
		Use:   "check [model]",
		Short: "compare analytic derivatives with finite differences",
		Args:  cobra.ExactArgs(1),
		RunE:  checkModel,
	}
	checkCmd.Flags().Float64Var(&step, "step", 1e-4, "finite difference step (bohr)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored evaluations",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored evaluation as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in systems",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list registered models",
		Args:  cobra.NoArgs,
		RunE:  listModels,
	}

	rootCmd.AddCommand(evalCmd, elecCmd, modesCmd, browseCmd, spectrumCmd,
		checkCmd, listCmd, exportCmd, presetsCmd, modelsCmd)

	return rootCmd
}
