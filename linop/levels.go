// SPDX-License-Identifier: MIT

package linop

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/katalvlaran/amrsolve/bndry"
	"github.com/katalvlaran/amrsolve/field"
	"github.com/katalvlaran/amrsolve/geom"
	"github.com/katalvlaran/amrsolve/parallel"
)

// faceArena stores one item per (grid, face) of a level, flat.
type faceArena[T any] struct {
	nface int
	items []T
}

func newFaceArena[T any](ngrid, nface int) faceArena[T] {
	return faceArena[T]{nface: nface, items: make([]T, ngrid*nface)}
}

func (a faceArena[T]) at(grid, face int) T { return a.items[grid*a.nface+face] }
func (a faceArena[T]) set(grid, face int, v T) { a.items[grid*a.nface+face] = v }

// levelData is the cached state of one level.
type levelData struct {
	ba    *geom.BoxArray
	geom  geom.Geometry
	h     [geom.MaxSpaceDim]float64
	masks faceArena[*bndry.MaskFab]
	den   faceArena[*field.Fab] // relaxation register on the ghost strip
}

// levels is the engine shared by every operator: boundary data, the level
// cache and the options.
type levels struct {
	bd   *bndry.BndryData
	dim  int
	lv   []*levelData
	opts options
	gen  uint64 // bumped whenever the operator's action may change
}

func newLevels(bd *bndry.BndryData, opts []Option) levels {
	if bd == nil {
		panic("linop: nil boundary data")
	}
	l := levels{opts: gatherOptions(opts)}
	l.bind(bd)
	return l
}

// bind attaches bd and rebuilds level 0; coarser levels are dropped.
func (l *levels) bind(bd *bndry.BndryData) {
	ba := bd.BoxArray()
	l.bd = bd
	l.dim = ba.Dim()
	nface := 2 * l.dim

	lev := &levelData{
		ba:    ba,
		geom:  bd.Geometry(),
		h:     bd.Geometry().CellSize(),
		masks: newFaceArena[*bndry.MaskFab](ba.Len(), nface),
	}
	if hs := l.opts.cellSize; len(hs) > 0 {
		for d := 0; d < l.dim; d++ {
			lev.h[d] = hs[min(d, len(hs)-1)]
		}
	}
	for gn := 0; gn < ba.Len(); gn++ {
		for _, o := range geom.Orientations(l.dim) {
			lev.masks.set(gn, o.Index(l.dim), bd.Mask(o, gn))
		}
	}
	lev.den = l.newDen(ba)
	l.lv = []*levelData{lev}
	l.gen++
}

func (l *levels) newDen(ba *geom.BoxArray) faceArena[*field.Fab] {
	den := newFaceArena[*field.Fab](ba.Len(), 2*l.dim)
	rank := l.opts.comm.Rank()
	for gn := 0; gn < ba.Len(); gn++ {
		if ba.Owner(gn) != rank {
			continue
		}
		for _, o := range geom.Orientations(l.dim) {
			den.set(gn, o.Index(l.dim), field.NewFab(ba.Box(gn).AdjCell(o, 1), 0))
		}
	}
	return den
}

// SetBndryData rebinds the operator to bd (new boundary values, types or
// grids) and drops every cached coarse level.
func (l *levels) SetBndryData(bd *bndry.BndryData) {
	if bd == nil {
		panic("linop: nil boundary data")
	}
	l.bind(bd)
}

// BndryData returns the bound boundary data.
func (l *levels) BndryData() *bndry.BndryData { return l.bd }

// Generation changes every time boundary data, scalars or coefficients
// are replaced. Solvers that cache anything derived from the operator
// compare it between calls.
func (l *levels) Generation() uint64 { return l.gen }

// NumLevels is the number of materialized levels.
func (l *levels) NumLevels() int { return len(l.lv) }

// Comm is the operator's communicator.
func (l *levels) Comm() parallel.Communicator { return l.opts.comm }

// Logger is the operator's logger.
func (l *levels) Logger() *slog.Logger { return l.opts.logger }

// CanCoarsen reports whether level can be coarsened by 2 into boxes at
// least MinCoarseWidth wide.
func (l *levels) CanCoarsen(level int) bool {
	ba := l.lv[0].ba
	for k := 0; k <= level; k++ {
		if !ba.CoarsenableBy(2) {
			return false
		}
		ba = ba.Coarsen(2)
	}
	for i := 0; i < ba.Len(); i++ {
		b := ba.Box(i)
		for d := 0; d < l.dim; d++ {
			if b.Length(d) < MinCoarseWidth {
				return false
			}
		}
	}
	return true
}

// prepareLevels builds the geometric part of levels up to level. It is
// iterative and returns at once for levels already built.
func (l *levels) prepareLevels(level int) {
	if level < 0 {
		panic(fmt.Sprintf("linop: negative level %d", level))
	}
	for k := len(l.lv); k <= level; k++ {
		prev := l.lv[k-1]
		if !prev.ba.CoarsenableBy(2) {
			panic(fmt.Sprintf("linop: level %d boxes cannot be coarsened by 2", k-1))
		}
		l.lv = append(l.lv, l.coarsen(prev))
		if l.opts.verbose > 0 && l.opts.comm.IsIOProcessor() {
			l.opts.logger.Debug("linop: prepared level",
				slog.Int("level", k), slog.Int("grids", l.lv[k].ba.Len()),
				slog.Int("cells", l.lv[k].ba.NumPts()), slog.Float64("h", l.lv[k].h[0]))
		}
	}
}

// coarsen builds the level below prev. Coarse masks ignore the physical
// domain: every strip cell starts NotCovered and becomes Covered where
// another box of the level (or its periodic image) overlaps it.
func (l *levels) coarsen(prev *levelData) *levelData {
	ba := prev.ba.Coarsen(2)
	g := prev.geom.Coarsen(2)
	lev := &levelData{
		ba:    ba,
		geom:  g,
		masks: newFaceArena[*bndry.MaskFab](ba.Len(), 2*l.dim),
	}
	for d := 0; d < l.dim; d++ {
		lev.h[d] = 2 * prev.h[d]
	}
	for gn := 0; gn < ba.Len(); gn++ {
		for _, o := range geom.Orientations(l.dim) {
			strip := ba.Box(gn).AdjCell(o, 1)
			m := bndry.NewMaskFab(strip, bndry.NotCovered)
			for _, hit := range ba.Intersections(strip) {
				if hit.Index != gn {
					m.SetBox(hit.Box, bndry.Covered)
				}
			}
			for j := 0; j < ba.Len(); j++ {
				for _, s := range g.PeriodicShifts(strip, ba.Box(j)) {
					m.SetBox(ba.Box(j).ShiftVect(s), bndry.Covered)
				}
			}
			lev.masks.set(gn, o.Index(l.dim), m)
		}
	}
	lev.den = l.newDen(ba)
	return lev
}

// level returns the prepared level, building it if needed.
func (l *levels) level(level int) *levelData {
	l.prepareLevels(level)
	return l.lv[level]
}

// BoxArray returns the boxes of level.
func (l *levels) BoxArray(level int) *geom.BoxArray { return l.level(level).ba }

// Geometry returns the geometry of level.
func (l *levels) Geometry(level int) geom.Geometry { return l.level(level).geom }

// CellSize returns the grid spacing of level.
func (l *levels) CellSize(level int) [geom.MaxSpaceDim]float64 { return l.level(level).h }

// Mask returns the mask of (level, grid, face).
func (l *levels) Mask(level, grid int, o geom.Orientation) *bndry.MaskFab {
	return l.level(level).masks.at(grid, o.Index(l.dim))
}

// mustMatch panics unless mf lives on the boxes of lev.
func (l *levels) mustMatch(op string, lev *levelData, mf *field.MultiFab) {
	if !mf.BoxArray().Equal(lev.ba) {
		panic(fmt.Sprintf("linop: %s: field box array does not match the operator level", op))
	}
}

func (l *levels) invH2(lev *levelData) [geom.MaxSpaceDim]float64 {
	var inv [geom.MaxSpaceDim]float64
	for d := 0; d < l.dim; d++ {
		inv[d] = 1 / (lev.h[d] * lev.h[d])
	}
	return inv
}

// describe renders the level cache for String.
func (l *levels) describe(name string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: dim=%d harmonic=%v maxorder=%d verbose=%d levels=%d\n",
		name, l.dim, l.opts.harmonic, l.opts.maxOrder, l.opts.verbose, len(l.lv))
	for k, lev := range l.lv {
		fmt.Fprintf(&sb, "  level %d: h=%v domain=%v\n", k, lev.h[:l.dim], lev.geom.Domain())
		for gn := 0; gn < lev.ba.Len(); gn++ {
			fmt.Fprintf(&sb, "    grid %d %v\n", gn, lev.ba.Box(gn))
		}
	}
	return sb.String()
}
