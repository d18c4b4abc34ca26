package ops

import (
	"github.com/hpungsan/floorplan/internal/floorplan"
	"github.com/hpungsan/floorplan/internal/geometry"
)

// AddWallInput contains parameters for AddWall.
type AddWallInput struct {
	Start     geometry.Point
	End       geometry.Point
	Thickness float64 // <= 0 means the configured default
}

// WallPatch holds the editable wall fields (nil = don't change).
type WallPatch struct {
	Start     *geometry.Point
	End       *geometry.Point
	Thickness *float64
}

// AddWall appends a wall and returns its id.
// Degenerate walls are not rejected here; the wall tool enforces a minimum drag.
func (e *Editor) AddWall(input AddWallInput) string {
	thickness := input.Thickness
	if thickness <= 0 {
		thickness = e.thickness
	}
	id := e.ids.next(PrefixWall)
	e.commit("addWall", nil, func(f *floorplan.Floorplan) {
		f.Walls = append(f.Walls, floorplan.Wall{
			ID:        id,
			Start:     input.Start,
			End:       input.End,
			Thickness: thickness,
		})
	})
	return id
}

// UpdateWall patches a wall. Returns false (no-op) if the wall doesn't exist.
func (e *Editor) UpdateWall(id string, patch WallPatch) bool {
	return e.commit("updateWall", wallExists(id), func(f *floorplan.Floorplan) {
		w := f.WallPtr(id)
		if patch.Start != nil {
			w.Start = *patch.Start
		}
		if patch.End != nil {
			w.End = *patch.End
		}
		if patch.Thickness != nil && *patch.Thickness > 0 {
			w.Thickness = *patch.Thickness
		}
	})
}

// RemoveWall removes a wall and, in the same history step, every door and
// window attached to it. Returns false (no-op) if the wall doesn't exist.
func (e *Editor) RemoveWall(id string) bool {
	return e.commit("removeWall", wallExists(id), func(f *floorplan.Floorplan) {
		removeWalls(f, map[string]bool{id: true})
	})
}

func wallExists(id string) func(*floorplan.Floorplan) bool {
	return func(f *floorplan.Floorplan) bool {
		_, ok := f.FindWall(id)
		return ok
	}
}

// removeWalls drops the given walls and cascades to their doors and windows.
func removeWalls(f *floorplan.Floorplan, ids map[string]bool) {
	f.Walls = filter(f.Walls, func(w floorplan.Wall) bool { return !ids[w.ID] })
	f.Doors = filter(f.Doors, func(d floorplan.Door) bool { return !ids[d.WallID] })
	f.Windows = filter(f.Windows, func(w floorplan.Window) bool { return !ids[w.WallID] })
}

// filter returns the elements of s for which keep is true, in a new slice.
func filter[T any](s []T, keep func(T) bool) []T {
	out := make([]T, 0, len(s))
	for _, v := range s {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
