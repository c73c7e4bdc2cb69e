// SPDX-License-Identifier: MIT

// Package config loads solver and driver settings from YAML.
//
// The file has four sections. linop, cg and mg hold the operator, Krylov
// and multigrid tunables; problem describes the driver run. Keys missing
// from a file keep their Default value, and unknown keys are an error.
//
//	linop:
//	  harmonic_average: false
//	  maxorder: 2
//	cg:
//	  maxiter: 40
//	  variant: bicgstab
//	mg:
//	  nu_1: 2
//	  nu_2: 2
//	  bottom: direct
//	problem:
//	  boxes: grids/two_boxes.txt
//	  tol: 1e-12
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/katalvlaran/amrsolve/linop"
	"github.com/katalvlaran/amrsolve/solver"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every Validate failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the whole file.
type Config struct {
	LinOp   LinOpConfig   `yaml:"linop"`
	CG      CGConfig      `yaml:"cg"`
	MG      MGConfig      `yaml:"mg"`
	Problem ProblemConfig `yaml:"problem"`
}

// LinOpConfig configures linop operators.
type LinOpConfig struct {
	HarmonicAverage bool `yaml:"harmonic_average"`
	MaxOrder        int  `yaml:"maxorder"`
	Verbose         int  `yaml:"verbose"`
	Workers         int  `yaml:"workers"`
}

// CGConfig configures solver.CGSolver.
type CGConfig struct {
	MaxIter           int     `yaml:"maxiter"`
	Variant           string  `yaml:"variant"`
	UnstableCriterion float64 `yaml:"unstable_criterion"`
	Criterion         string  `yaml:"criterion"`
	Verbose           int     `yaml:"verbose"`
}

// MGConfig configures solver.MultiGrid, standalone or as a preconditioner.
type MGConfig struct {
	MaxIter        int     `yaml:"maxiter"`
	NumLevelsMax   int     `yaml:"num_levels_max"` // 0: no cap
	Nu0            int     `yaml:"nu_0"`
	Nu1            int     `yaml:"nu_1"`
	Nu2            int     `yaml:"nu_2"`
	NuF            int     `yaml:"nu_f"`
	NuP            int     `yaml:"nu_p"`
	Bottom         string  `yaml:"bottom"`
	RtolB          float64 `yaml:"rtol_b"`
	MaxIterB       int     `yaml:"maxiter_b"`
	MaxDirectCells int     `yaml:"max_direct_cells"`
	Verbose        int     `yaml:"verbose"`
}

// ProblemConfig describes one driver run.
type ProblemConfig struct {
	Boxes     string  `yaml:"boxes"`
	ABec      bool    `yaml:"abec"`
	Alpha     float64 `yaml:"alpha"`
	Beta      float64 `yaml:"beta"`
	ACoef     float64 `yaml:"a"`
	BCoef     float64 `yaml:"b"`
	BCValue   float64 `yaml:"bc_value"`
	Tol       float64 `yaml:"tol"`
	TolAbs    float64 `yaml:"tol_abs"`
	UseMG     bool    `yaml:"mg"`
	UseCG     bool    `yaml:"cg"`
	UseBiCG   bool    `yaml:"bicg"`
	UseACG    bool    `yaml:"acg"`
	MGPrecond bool    `yaml:"mg_pre"`
	NewBC     bool    `yaml:"new_bc"`
	BACoarsen int     `yaml:"ba_coarsen"`
	DumpNorm  bool    `yaml:"dump_norm"`
	DumpLp    bool    `yaml:"dump_lp"`
	DumpASCII bool    `yaml:"dump_ascii"`
	DumpRHS   bool    `yaml:"dump_rhs_ascii"`
	Plot      string  `yaml:"plot"` // residual-history PNG path; empty disables
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		LinOp: LinOpConfig{
			HarmonicAverage: linop.DefaultHarmonicAverage,
			MaxOrder:        linop.DefaultMaxOrder,
		},
		CG: CGConfig{
			MaxIter:           solver.DefaultMaxIter,
			Variant:           solver.DefaultVariant.String(),
			UnstableCriterion: solver.DefaultUnstableCriterion,
			Criterion:         solver.CriterionRelative.String(),
		},
		MG: MGConfig{
			MaxIter:        solver.DefaultMaxIter,
			Nu0:            solver.DefaultCoarseCycles,
			Nu1:            solver.DefaultPreSmooths,
			Nu2:            solver.DefaultPostSmooths,
			NuF:            solver.DefaultBottomSmooths,
			NuP:            solver.DefaultPrecondCycles,
			Bottom:         solver.DefaultBottomSolver.String(),
			RtolB:          solver.DefaultBottomTolerance,
			MaxIterB:       solver.DefaultBottomMaxIter,
			MaxDirectCells: solver.DefaultMaxDirectCells,
		},
		Problem: ProblemConfig{
			Alpha:     linop.DefaultAlpha,
			Beta:      linop.DefaultBeta,
			ACoef:     linop.DefaultACoef,
			BCoef:     linop.DefaultBCoef,
			Tol:       1e-12,
			TolAbs:    -1,
			UseMG:     true,
			BACoarsen: 1,
			DumpNorm:  true,
		},
	}
}

// Load reads and validates the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse overlays data on Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal renders cfg as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	switch {
	case c.LinOp.MaxOrder < 2 || c.LinOp.MaxOrder > 4:
		return invalid("linop.maxorder must be in [2, 4], got %d", c.LinOp.MaxOrder)
	case c.LinOp.Verbose < 0 || c.LinOp.Workers < 0:
		return invalid("linop.verbose and linop.workers must be >= 0")
	case c.CG.MaxIter < 0:
		return invalid("cg.maxiter must be >= 0, got %d", c.CG.MaxIter)
	case !(c.CG.UnstableCriterion >= 1):
		return invalid("cg.unstable_criterion must be >= 1, got %g", c.CG.UnstableCriterion)
	case c.MG.MaxIter < 0:
		return invalid("mg.maxiter must be >= 0, got %d", c.MG.MaxIter)
	case c.MG.NumLevelsMax < 0:
		return invalid("mg.num_levels_max must be >= 0, got %d", c.MG.NumLevelsMax)
	case c.MG.Nu0 < 1 || c.MG.NuP < 1:
		return invalid("mg.nu_0 and mg.nu_p must be >= 1, got %d and %d", c.MG.Nu0, c.MG.NuP)
	case c.MG.Nu1 < 0 || c.MG.Nu2 < 0 || c.MG.NuF < 0:
		return invalid("mg.nu_1, mg.nu_2 and mg.nu_f must be >= 0")
	case c.MG.MaxIterB < 0 || c.MG.MaxDirectCells < 0:
		return invalid("mg.maxiter_b and mg.max_direct_cells must be >= 0")
	case c.Problem.BACoarsen < 1:
		return invalid("problem.ba_coarsen must be >= 1, got %d", c.Problem.BACoarsen)
	}
	if _, err := solver.ParseVariant(c.CG.Variant); err != nil {
		return invalid("cg.variant: %v", err)
	}
	if _, err := solver.ParseCriterion(c.CG.Criterion); err != nil {
		return invalid("cg.criterion: %v", err)
	}
	if _, err := solver.ParseBottomSolver(c.MG.Bottom); err != nil {
		return invalid("mg.bottom: %v", err)
	}
	return nil
}

// LinOpOptions converts the linop section. c must be valid.
func (c Config) LinOpOptions() []linop.Option {
	return []linop.Option{
		linop.WithHarmonicAverage(c.LinOp.HarmonicAverage),
		linop.WithMaxOrder(c.LinOp.MaxOrder),
		linop.WithVerbose(c.LinOp.Verbose),
		linop.WithWorkers(c.LinOp.Workers),
	}
}

// MGOptions converts the mg section. c must be valid.
func (c Config) MGOptions() []solver.Option {
	bottom, _ := solver.ParseBottomSolver(c.MG.Bottom)
	opts := []solver.Option{
		solver.WithMaxIter(c.MG.MaxIter),
		solver.WithSmooths(c.MG.Nu1, c.MG.Nu2),
		solver.WithCoarseCycles(c.MG.Nu0),
		solver.WithBottomSmooths(c.MG.NuF),
		solver.WithPreconditionCycles(c.MG.NuP),
		solver.WithBottomSolver(bottom),
		solver.WithBottomTolerance(c.MG.RtolB, c.MG.MaxIterB),
		solver.WithMaxDirectCells(c.MG.MaxDirectCells),
		solver.WithVerbose(c.MG.Verbose),
		solver.WithWorkers(c.LinOp.Workers),
	}
	if c.MG.NumLevelsMax > 0 {
		opts = append(opts, solver.WithMaxLevels(c.MG.NumLevelsMax))
	}
	return opts
}

// CGOptions converts the cg section; the multigrid preconditioner, when
// problem.mg_pre is set, takes the mg section. c must be valid.
func (c Config) CGOptions() []solver.Option {
	variant, _ := solver.ParseVariant(c.CG.Variant)
	crit, _ := solver.ParseCriterion(c.CG.Criterion)
	return []solver.Option{
		solver.WithMaxIter(c.CG.MaxIter),
		solver.WithVariant(variant),
		solver.WithUnstableCriterion(c.CG.UnstableCriterion),
		solver.WithCriterion(crit),
		solver.WithVerbose(c.CG.Verbose),
		solver.WithWorkers(c.LinOp.Workers),
		solver.WithMGPreconditioner(c.Problem.MGPrecond, c.MGOptions()...),
	}
}
