package ops

import (
	"github.com/hpungsan/floorplan/internal/floorplan"
	"github.com/hpungsan/floorplan/internal/geometry"
)

// MetadataPatch holds the editable document settings (nil = don't change).
type MetadataPatch struct {
	Name            *string
	Units           *floorplan.Units
	Scale           *float64
	GridSize        *float64
	BackgroundImage *string
}

// RemoveSelected deletes every element whose id is in ids, across all
// collections, as a single undoable step. Doors and windows on a removed wall
// go with it. Unknown ids are ignored. Returns the number of elements removed,
// cascaded ones included; 0 means nothing was recorded.
func (e *Editor) RemoveSelected(ids []string) int {
	selected := make(map[string]bool, len(ids))
	for _, id := range ids {
		selected[id] = true
	}

	removed := 0
	e.commit("removeSelected", func(f *floorplan.Floorplan) bool {
		removed = countSelected(f, selected)
		return removed > 0
	}, func(f *floorplan.Floorplan) {
		removeWalls(f, selected)
		f.Doors = filter(f.Doors, func(d floorplan.Door) bool { return !selected[d.ID] })
		f.Windows = filter(f.Windows, func(w floorplan.Window) bool { return !selected[w.ID] })
		f.Rooms = filter(f.Rooms, func(r floorplan.Room) bool { return !selected[r.ID] })
		f.Furniture = filter(f.Furniture, func(it floorplan.Furniture) bool { return !selected[it.ID] })
	})
	return removed
}

// countSelected counts what RemoveSelected would drop from f.
func countSelected(f *floorplan.Floorplan, selected map[string]bool) int {
	n := 0
	for _, w := range f.Walls {
		if selected[w.ID] {
			n++
		}
	}
	for _, d := range f.Doors {
		if selected[d.ID] || selected[d.WallID] {
			n++
		}
	}
	for _, w := range f.Windows {
		if selected[w.ID] || selected[w.WallID] {
			n++
		}
	}
	for _, r := range f.Rooms {
		if selected[r.ID] {
			n++
		}
	}
	for _, it := range f.Furniture {
		if selected[it.ID] {
			n++
		}
	}
	return n
}

// UpdateMetadata patches document settings as one undoable step.
// Invalid units and non-positive scale or grid size are ignored.
func (e *Editor) UpdateMetadata(patch MetadataPatch) {
	e.commit("updateMetadata", nil, func(f *floorplan.Floorplan) {
		if patch.Name != nil {
			f.Name = *patch.Name
		}
		if patch.Units != nil && patch.Units.Valid() {
			f.Units = *patch.Units
		}
		if patch.Scale != nil && *patch.Scale > 0 {
			f.Scale = *patch.Scale
		}
		if patch.GridSize != nil && *patch.GridSize > 0 {
			f.GridSize = *patch.GridSize
		}
		if patch.BackgroundImage != nil {
			f.BackgroundImage = *patch.BackgroundImage
		}
	})
}

// NearestWall returns the wall closest to p (document space) within maxDist,
// with the clamped fraction along it where p projects. ok is false when no
// wall is close enough.
func (e *Editor) NearestWall(p geometry.Point, maxDist float64) (wallID string, position float64, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var best float64
	e.history.Peek(func(f *floorplan.Floorplan) {
		for _, w := range f.Walls {
			t, dist := geometry.Project(p, w.Start, w.End)
			if dist > maxDist || (ok && dist >= best) {
				continue
			}
			best, wallID, position, ok = dist, w.ID, t, true
		}
	})
	return wallID, position, ok
}
