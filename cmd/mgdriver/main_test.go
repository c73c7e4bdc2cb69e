// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/amrsolve/config"
	"github.com/katalvlaran/amrsolve/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestMGOnLShape(t *testing.T) {
	out, logs, err := execute(t, "--boxes", "testdata/lshape.txt", "--tol", "1e-10")
	require.NoError(t, err)
	assert.Contains(t, out, "Norm = ")
	assert.Contains(t, out, "MG Result = 0\n")
	assert.Contains(t, out, "Run time = ")
	assert.Contains(t, out, "solution norm = ")
	assert.Contains(t, logs, "run_id=")
	assert.Contains(t, logs, `msg="grids loaded"`)
	assert.Contains(t, logs, "operator=Laplacian")
}

func TestKrylovSolversAndNewBC(t *testing.T) {
	out, _, err := execute(t,
		"--boxes", "testdata/lshape.txt",
		"--mg=false", "--cg", "--bicg", "--acg", "--mg-pre",
		"--maxiter", "100", "--tol", "1e-8", "--new-bc")
	require.NoError(t, err)
	assert.Contains(t, out, "CG Result = ")
	assert.Contains(t, out, "CG (new_bc) Result = ")
	assert.Contains(t, out, "BiCGStab Result = 0\n")
	assert.Contains(t, out, "BiCGStab (new_bc) Result = 0\n")
	assert.Contains(t, out, "aCG Result = ")
	assert.NotContains(t, out, "MG Result")
}

func TestABecAndDumps(t *testing.T) {
	out, logs, err := execute(t,
		"--boxes", "testdata/lshape.txt", "--ba-coarsen", "2",
		"--abec", "--a", "1", "--b", "2", "--tol", "1e-10",
		"--dump-lp", "--dump-ascii", "--dump-rhs-ascii", "--dump-norm=false")
	require.NoError(t, err)
	assert.Contains(t, out, "MG Result = 0\n")
	assert.Contains(t, out, "ABecLaplacian: dim=2")
	assert.Contains(t, out, "box 0 ")
	assert.Contains(t, out, "[3 7] 1\n") // rhs at the centre of the first coarsened box
	assert.NotContains(t, out, "solution norm")
	assert.Contains(t, logs, "cells=192")
}

func TestConfigFileAndPlot(t *testing.T) {
	png := filepath.Join(t.TempDir(), "history.png")
	out, logs, err := execute(t, "--config", "testdata/solve.yaml", "--plot", png, "--log-level", "debug")
	require.NoError(t, err)
	assert.Contains(t, out, "BiCGStab Result = 0\n")
	assert.NotContains(t, out, "MG Result")
	assert.Contains(t, logs, `msg="configuration resolved"`)
	assert.Contains(t, logs, `msg="residual history written"`)

	info, err := os.Stat(png)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestErrors(t *testing.T) {
	_, _, err := execute(t)
	require.ErrorIs(t, err, ErrNoBoxes)

	_, _, err = execute(t, "--boxes", "testdata/missing.txt")
	require.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = execute(t, "--boxes", "testdata/lshape.txt", "--log-level", "loud")
	require.Error(t, err)

	_, _, err = execute(t, "--boxes", "testdata/lshape.txt", "--bottom", "amg")
	require.ErrorIs(t, err, config.ErrInvalidConfig)

	_, _, err = execute(t, "extra")
	require.Error(t, err)
}

// TestResolveConfigPrecedence: flags set on the command line beat the file,
// everything else comes from the file.
func TestResolveConfigPrecedence(t *testing.T) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	require.NoError(t, cmd.ParseFlags([]string{"--maxiter", "7", "--bottom", "smooth"}))

	cfg, err := resolveConfig("testdata/solve.yaml", cmd.Flags())
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.CG.MaxIter)
	assert.Equal(t, "smooth", cfg.MG.Bottom)
	assert.Equal(t, 3, cfg.MG.Nu1)
	assert.True(t, cfg.Problem.MGPrecond)
	assert.Equal(t, 1e-10, cfg.Problem.Tol)

	cfg, err = resolveConfig("", cmd.Flags())
	require.NoError(t, err)
	assert.Equal(t, config.Default().Problem, cfg.Problem)
}

func TestHistoryPoints(t *testing.T) {
	assert.Nil(t, historyPoints(1, nil))
	pts := historyPoints(1, []float64{0.1, 0, 0.001})
	require.Len(t, pts, 3)
	assert.Equal(t, 0.0, pts[0].X)
	assert.Equal(t, 3.0, pts[2].X)

	require.NoError(t, plotHistory(filepath.Join(t.TempDir(), "empty.png"),
		[]run{{label: "none", result: solver.Result{}}}))
}
