// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/katalvlaran/amrsolve/bndry"
	"github.com/katalvlaran/amrsolve/config"
	"github.com/katalvlaran/amrsolve/field"
	"github.com/katalvlaran/amrsolve/geom"
	"github.com/katalvlaran/amrsolve/linop"
	"github.com/katalvlaran/amrsolve/solver"
)

// ErrNoBoxes is returned when no box-list file is configured.
var ErrNoBoxes = errors.New("mgdriver: no box-list file (set problem.boxes or --boxes)")

// Boundary values used by the second solve of a new_bc run.
const (
	newBCValueMG = 2.0
	newBCValueCG = 4.0
)

// operator is what the driver needs beyond linop.Operator.
type operator interface {
	linop.Operator
	SetBndryData(bd *bndry.BndryData)
	String() string
}

// run is one labelled solve whose residual history is plotted.
type run struct {
	label  string
	result solver.Result
}

// driver reproduces the multigrid test program: one operator on the boxes
// of a box-list file, a unit source at each box centre, and any of the MG
// and Krylov solvers run in turn on the same solution.
type driver struct {
	cfg    config.Config
	out    io.Writer
	logger *slog.Logger

	ba   *geom.BoxArray
	bd   *bndry.BndryData
	op   operator
	sol  *field.MultiFab
	rhs  *field.MultiFab
	runs []run
}

func newDriver(cfg config.Config, out io.Writer, logger *slog.Logger) *driver {
	return &driver{cfg: cfg, out: out, logger: logger}
}

// setup reads the grids and builds the operator and fields.
func (d *driver) setup() error {
	p := d.cfg.Problem
	if p.Boxes == "" {
		return ErrNoBoxes
	}
	f, err := os.Open(p.Boxes)
	if err != nil {
		return fmt.Errorf("mgdriver: %w", err)
	}
	defer f.Close()
	domain, boxes, err := geom.ReadBoxList(f)
	if err != nil {
		return fmt.Errorf("mgdriver: %s: %w", p.Boxes, err)
	}
	if p.BACoarsen > 1 {
		domain = domain.Coarsen(p.BACoarsen)
		for i := range boxes {
			boxes[i] = boxes[i].Coarsen(p.BACoarsen)
		}
	}
	if d.ba, err = geom.NewBoxArray(boxes...); err != nil {
		return fmt.Errorf("mgdriver: %s: %w", p.Boxes, err)
	}
	g := geom.NewGeometry(domain)
	if d.bd, err = bndry.New(d.ba, 1, g); err != nil {
		return fmt.Errorf("mgdriver: %w", err)
	}
	d.bd.SetAllDirichlet(0, p.BCValue)

	opts := append(d.cfg.LinOpOptions(), linop.WithLogger(d.logger))
	if p.ABec {
		op := linop.NewABecLaplacian(d.bd, opts...)
		op.SetScalars(p.Alpha, p.Beta)
		a := field.NewMultiFab(d.ba, 0)
		a.SetVal(p.ACoef)
		b := make([]*field.MultiFab, d.ba.Dim())
		for dir := range b {
			b[dir] = field.NewMultiFab(d.ba.SurroundingNodes(dir), 0)
			b[dir].SetVal(p.BCoef)
		}
		op.SetCoefficients(a, b)
		d.op = op
	} else {
		d.op = linop.NewLaplacian(d.bd, opts...)
	}

	d.sol = field.NewMultiFab(d.ba, 0)
	d.rhs = field.NewMultiFab(d.ba, 0)
	for _, i := range d.rhs.LocalIndices() {
		fab := d.rhs.Fab(i)
		box := fab.Box()
		mid := box.Lo().Add(box.Hi())
		for k := 0; k < box.Dim(); k++ {
			mid[k] /= 2
		}
		fab.Set(mid, 1)
	}
	d.logger.Info("grids loaded",
		"boxes", d.ba.Len(),
		"cells", d.ba.NumPts(),
		"domain", domain.String(),
		"operator", opName(p.ABec))
	return nil
}

func opName(abec bool) string {
	if abec {
		return "ABecLaplacian"
	}
	return "Laplacian"
}

// resetBoundary sets every face value to v and rebinds the operator.
func (d *driver) resetBoundary(v float64) {
	for gn := 0; gn < d.ba.Len(); gn++ {
		for _, o := range geom.Orientations(d.ba.Dim()) {
			d.bd.SetValue(o, gn, v)
		}
	}
	d.op.SetBndryData(d.bd)
}

// solve runs every enabled solver in the original order: MG, CG,
// BiCGStab, CG_Alt.
func (d *driver) solve() {
	p := d.cfg.Problem
	fmt.Fprintf(d.out, "Norm = %.15g\n", d.op.Norm(0))

	if p.UseMG {
		start := time.Now()
		mg := solver.NewMultiGrid(d.op, append(d.cfg.MGOptions(), solver.WithLogger(d.logger))...)
		d.record("MG", mg.Solve(d.sol, d.rhs, p.Tol, p.TolAbs, linop.Inhomogeneous))
		if p.NewBC {
			d.resetBoundary(newBCValueMG)
			d.record("MG (new_bc)", mg.Solve(d.sol, d.rhs, p.Tol, p.TolAbs, linop.Inhomogeneous))
		}
		fmt.Fprintf(d.out, "Run time = %.6g\n", time.Since(start).Seconds())
	}

	krylov := []struct {
		on      bool
		label   string
		variant solver.Variant
	}{
		{p.UseCG, "CG", solver.CG},
		{p.UseBiCG, "BiCGStab", solver.BiCGStab},
		{p.UseACG, "aCG", solver.CGAlt},
	}
	for _, k := range krylov {
		if !k.on {
			continue
		}
		cg := solver.NewCGSolver(d.op, append(d.cfg.CGOptions(), solver.WithLogger(d.logger))...)
		d.record(k.label, cg.Solve(d.sol, d.rhs, p.Tol, p.TolAbs, linop.Inhomogeneous, k.variant))
		if p.NewBC {
			d.resetBoundary(newBCValueCG)
			d.record(k.label+" (new_bc)", cg.Solve(d.sol, d.rhs, p.Tol, p.TolAbs, linop.Inhomogeneous, k.variant))
		}
	}
}

func (d *driver) record(label string, res solver.Result) {
	d.runs = append(d.runs, run{label: label, result: res})
	fmt.Fprintf(d.out, "%s Result = %d\n", label, int(res.Status))
	d.logger.Info("solve finished",
		"solver", label,
		"status", res.Status.String(),
		"iterations", res.Iterations,
		"initial_residual", res.InitialResidual,
		"final_residual", res.FinalResidual,
		"runtime", res.Runtime)
}

// report prints the requested dumps and writes the plot.
func (d *driver) report() error {
	p := d.cfg.Problem
	if p.DumpLp {
		fmt.Fprintln(d.out, d.op.String())
	}
	if p.DumpNorm {
		fmt.Fprintf(d.out, "solution norm = %.15g/%.15g\n", d.sol.Norm2(), d.sol.NormInf())
	}
	if p.DumpASCII {
		if err := dumpASCII(d.out, d.sol); err != nil {
			return err
		}
	}
	if p.DumpRHS {
		if err := dumpASCII(d.out, d.rhs); err != nil {
			return err
		}
	}
	if p.Plot != "" {
		if err := plotHistory(p.Plot, d.runs); err != nil {
			return err
		}
		d.logger.Info("residual history written", "path", p.Plot)
	}
	return nil
}

// Run executes setup, solve and report.
func (d *driver) Run() error {
	if err := d.setup(); err != nil {
		return err
	}
	d.solve()
	return d.report()
}
