// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/katalvlaran/amrsolve/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// bindFlags registers the problem and solver flags on fs, writing into cfg.
// Defaults come from cfg, so a flag only overrides a loaded file when it
// was set on the command line.
func bindFlags(fs *pflag.FlagSet, cfg *config.Config) {
	p := &cfg.Problem
	fs.StringVar(&p.Boxes, "boxes", p.Boxes, "box-list file: domain, count, boxes")
	fs.IntVar(&p.BACoarsen, "ba-coarsen", p.BACoarsen, "coarsen the domain and boxes by this ratio")
	fs.BoolVar(&p.ABec, "abec", p.ABec, "solve (alpha a - beta div b grad) instead of the Laplacian")
	fs.Float64Var(&p.Alpha, "alpha", p.Alpha, "ABec alpha")
	fs.Float64Var(&p.Beta, "beta", p.Beta, "ABec beta")
	fs.Float64Var(&p.ACoef, "a", p.ACoef, "ABec cell coefficient a")
	fs.Float64Var(&p.BCoef, "b", p.BCoef, "ABec face coefficient b")
	fs.Float64Var(&p.BCValue, "bc-value", p.BCValue, "Dirichlet value on every face")
	fs.Float64Var(&p.Tol, "tol", p.Tol, "relative tolerance")
	fs.Float64Var(&p.TolAbs, "tol-abs", p.TolAbs, "absolute tolerance (negative disables)")
	fs.BoolVar(&p.UseMG, "mg", p.UseMG, "run the multigrid solver")
	fs.BoolVar(&p.UseCG, "cg", p.UseCG, "run CG")
	fs.BoolVar(&p.UseBiCG, "bicg", p.UseBiCG, "run BiCGStab")
	fs.BoolVar(&p.UseACG, "acg", p.UseACG, "run CG_Alt")
	fs.BoolVar(&p.MGPrecond, "mg-pre", p.MGPrecond, "precondition the Krylov solvers with a V-cycle")
	fs.BoolVar(&p.NewBC, "new-bc", p.NewBC, "re-solve each problem with changed boundary values")
	fs.BoolVar(&p.DumpNorm, "dump-norm", p.DumpNorm, "print the solution 2-norm and max norm")
	fs.BoolVar(&p.DumpLp, "dump-lp", p.DumpLp, "print the operator")
	fs.BoolVar(&p.DumpASCII, "dump-ascii", p.DumpASCII, "print the solution cell by cell")
	fs.BoolVar(&p.DumpRHS, "dump-rhs-ascii", p.DumpRHS, "print the right-hand side cell by cell")
	fs.StringVar(&p.Plot, "plot", p.Plot, "write the residual history to this image file")
	fs.IntVar(&cfg.CG.MaxIter, "maxiter", cfg.CG.MaxIter, "Krylov iteration cap")
	fs.StringVar(&cfg.MG.Bottom, "bottom", cfg.MG.Bottom, "coarsest-level solver: direct, smooth or krylov")
	fs.IntVar(&cfg.LinOp.MaxOrder, "maxorder", cfg.LinOp.MaxOrder, "Dirichlet extrapolation order (2-4)")
	fs.IntVar(&cfg.LinOp.Workers, "workers", cfg.LinOp.Workers, "goroutines per parallel loop (0 = GOMAXPROCS)")
}

// resolveConfig loads path (or the defaults) and reapplies every flag the
// user set on flags.
func resolveConfig(path string, flags *pflag.FlagSet) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	overlay := pflag.NewFlagSet("overlay", pflag.ContinueOnError)
	bindFlags(overlay, &cfg)
	var setErr error
	flags.Visit(func(f *pflag.Flag) {
		if overlay.Lookup(f.Name) == nil || setErr != nil {
			return
		}
		if err := overlay.Set(f.Name, f.Value.String()); err != nil {
			setErr = fmt.Errorf("mgdriver: --%s: %w", f.Name, err)
		}
	})
	if setErr != nil {
		return config.Config{}, setErr
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("mgdriver: --log-level %q: %w", s, err)
	}
	return lv, nil
}

// newRootCmd builds the mgdriver command writing results to out and logs
// to errOut.
func newRootCmd(out, errOut io.Writer) *cobra.Command {
	var (
		cfgPath  string
		logLevel string
		verbose  int
	)
	bound := config.Default()
	cmd := &cobra.Command{
		Use:   "mgdriver",
		Short: "Solve a Poisson problem on a box list with multigrid and Krylov solvers",
		Long: `mgdriver reads a box-list file, puts a unit source at the centre of
every box, applies homogeneous (or --bc-value) Dirichlet walls, and runs the
enabled solvers on the same solution in turn: MG, CG, BiCGStab, CG_Alt.

Settings come from --config (YAML) with command-line flags taking precedence.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			level, err := parseLevel(logLevel)
			if err != nil {
				return err
			}
			runID := uuid.New()
			logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level})).
				With("run_id", runID.String())

			cfg, err := resolveConfig(cfgPath, cmd.Flags())
			if err != nil {
				return err
			}
			if verbose < 0 {
				return fmt.Errorf("mgdriver: --verbose must be >= 0, got %d", verbose)
			}
			if cmd.Flags().Changed("verbose") {
				cfg.LinOp.Verbose, cfg.MG.Verbose, cfg.CG.Verbose = verbose, verbose, verbose
			}
			logger.Debug("configuration resolved", "config", cfgPath, "boxes", cfg.Problem.Boxes)
			return newDriver(cfg, out, logger).Run()
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	fs := cmd.Flags()
	fs.StringVar(&cfgPath, "config", "", "YAML configuration file")
	fs.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	fs.IntVarP(&verbose, "verbose", "v", 0, "solver verbosity for linop, mg and cg (2 logs every iteration)")
	bindFlags(fs, &bound)
	return cmd
}
