// SPDX-License-Identifier: MIT

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/katalvlaran/amrsolve/bndry"
	"github.com/katalvlaran/amrsolve/config"
	"github.com/katalvlaran/amrsolve/geom"
	"github.com/katalvlaran/amrsolve/linop"
	"github.com/katalvlaran/amrsolve/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "bicgstab", cfg.CG.Variant)
	assert.Equal(t, "direct", cfg.MG.Bottom)
	assert.Equal(t, 2, cfg.LinOp.MaxOrder)
	assert.True(t, cfg.Problem.UseMG)
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := config.Parse([]byte(`
cg:
  variant: cg_alt
  maxiter: 300
mg:
  nu_1: 3
  bottom: krylov
  num_levels_max: 4
problem:
  mg_pre: true
  tol: 1e-8
`))
	require.NoError(t, err)

	want := config.Default()
	want.CG.Variant = "cg_alt"
	want.CG.MaxIter = 300
	want.MG.Nu1 = 3
	want.MG.Bottom = "krylov"
	want.MG.NumLevelsMax = 4
	want.Problem.MGPrecond = true
	want.Problem.Tol = 1e-8
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := config.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name    string
		yaml    string
		invalid bool
	}{
		{"unknown key", "cg:\n  tolerance: 1\n", false},
		{"bad yaml", "cg: [", false},
		{"bad variant", "cg:\n  variant: gmres\n", true},
		{"bad criterion", "cg:\n  criterion: energy\n", true},
		{"bad bottom", "mg:\n  bottom: amg\n", true},
		{"maxorder", "linop:\n  maxorder: 5\n", true},
		{"negative maxiter", "mg:\n  maxiter: -1\n", true},
		{"unstable below one", "cg:\n  unstable_criterion: 0.5\n", true},
		{"zero nu_0", "mg:\n  nu_0: 0\n", true},
		{"ba_coarsen", "problem:\n  ba_coarsen: 0\n", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tc.yaml))
			require.Error(t, err)
			if tc.invalid {
				require.ErrorIs(t, err, config.ErrInvalidConfig)
			} else {
				require.NotErrorIs(t, err, config.ErrInvalidConfig)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solver.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mg:\n  nu_f: 16\n"), 0o600))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.MG.NuF)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := config.Default()
	cfg.MG.Bottom = "smooth"
	data, err := cfg.Marshal()
	require.NoError(t, err)
	back, err := config.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

// TestOptionsBuildSolvers checks the option slices are accepted by the
// constructors they feed.
func TestOptionsBuildSolvers(t *testing.T) {
	cfg, err := config.Parse([]byte("problem:\n  mg_pre: true\nmg:\n  num_levels_max: 2\n"))
	require.NoError(t, err)

	assert.Len(t, cfg.LinOpOptions(), 4)
	assert.Len(t, cfg.MGOptions(), 11)
	assert.Len(t, config.Default().MGOptions(), 10)
	assert.Len(t, cfg.CGOptions(), 7)

	op := square(t, 16, cfg)
	mg := solver.NewMultiGrid(op, cfg.MGOptions()...)
	assert.Equal(t, 2, mg.NumLevels())
	cg := solver.NewCGSolver(op, cfg.CGOptions()...)
	require.NotNil(t, cg.Preconditioner())
	assert.Equal(t, 2, cg.Preconditioner().NumLevels())
	assert.Equal(t, solver.BiCGStab, cg.Variant())
}

// square is an n×n homogeneous Dirichlet Laplacian built from cfg.
func square(t *testing.T, n int, cfg config.Config) *linop.Laplacian {
	t.Helper()
	box := geom.NewCellBox(2, geom.IntVect{0, 0}, geom.IntVect{n - 1, n - 1})
	ba, err := geom.NewBoxArray(box)
	require.NoError(t, err)
	bd, err := bndry.New(ba, 1, geom.NewGeometry(box))
	require.NoError(t, err)
	bd.SetAllDirichlet(0, 0)
	return linop.NewLaplacian(bd, cfg.LinOpOptions()...)
}
