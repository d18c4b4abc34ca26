package ops

import (
	"github.com/hpungsan/floorplan/internal/floorplan"
	"github.com/hpungsan/floorplan/internal/geometry"
)

// AddDoorInput contains parameters for AddDoor.
type AddDoorInput struct {
	WallID         string
	Position       float64 // fraction along the wall, clamped to [0,1]
	Width          float64 // <= 0 means floorplan.DefaultDoorWidth
	SwingDirection string
	SwingInward    *bool
}

// DoorPatch holds the editable door fields (nil = don't change).
type DoorPatch struct {
	WallID         *string
	Position       *float64
	Width          *float64
	SwingDirection *string
	SwingInward    *bool
}

// AddWindowInput contains parameters for AddWindow.
type AddWindowInput struct {
	WallID   string
	Position float64
	Width    float64 // <= 0 means floorplan.DefaultWindowWidth
	Height   float64 // <= 0 means floorplan.DefaultWindowHeight
}

// WindowPatch holds the editable window fields (nil = don't change).
type WindowPatch struct {
	WallID   *string
	Position *float64
	Width    *float64
	Height   *float64
}

// AddDoor attaches a door to a wall and returns its id.
// The wall is not required to exist; a door on a missing wall is removed by
// the same cascade as any other once that wall id is removed.
func (e *Editor) AddDoor(input AddDoorInput) string {
	width := input.Width
	if width <= 0 {
		width = floorplan.DefaultDoorWidth
	}
	var inward *bool
	if input.SwingInward != nil {
		v := *input.SwingInward
		inward = &v
	}
	id := e.ids.next(PrefixDoor)
	e.commit("addDoor", nil, func(f *floorplan.Floorplan) {
		f.Doors = append(f.Doors, floorplan.Door{
			ID:             id,
			WallID:         input.WallID,
			Position:       geometry.Clamp01(input.Position),
			Width:          width,
			SwingDirection: input.SwingDirection,
			SwingInward:    inward,
		})
	})
	return id
}

// UpdateDoor patches a door. Returns false (no-op) if the door doesn't exist.
func (e *Editor) UpdateDoor(id string, patch DoorPatch) bool {
	exists := func(f *floorplan.Floorplan) bool {
		_, ok := f.FindDoor(id)
		return ok
	}
	return e.commit("updateDoor", exists, func(f *floorplan.Floorplan) {
		d := f.DoorPtr(id)
		if patch.WallID != nil {
			d.WallID = *patch.WallID
		}
		if patch.Position != nil {
			d.Position = geometry.Clamp01(*patch.Position)
		}
		if patch.Width != nil && *patch.Width > 0 {
			d.Width = *patch.Width
		}
		if patch.SwingDirection != nil {
			d.SwingDirection = *patch.SwingDirection
		}
		if patch.SwingInward != nil {
			v := *patch.SwingInward
			d.SwingInward = &v
		}
	})
}

// RemoveDoor removes a door. Returns false (no-op) if the door doesn't exist.
func (e *Editor) RemoveDoor(id string) bool {
	exists := func(f *floorplan.Floorplan) bool {
		_, ok := f.FindDoor(id)
		return ok
	}
	return e.commit("removeDoor", exists, func(f *floorplan.Floorplan) {
		f.Doors = filter(f.Doors, func(d floorplan.Door) bool { return d.ID != id })
	})
}

// AddWindow attaches a window to a wall and returns its id.
func (e *Editor) AddWindow(input AddWindowInput) string {
	width := input.Width
	if width <= 0 {
		width = floorplan.DefaultWindowWidth
	}
	height := input.Height
	if height <= 0 {
		height = floorplan.DefaultWindowHeight
	}
	id := e.ids.next(PrefixWindow)
	e.commit("addWindow", nil, func(f *floorplan.Floorplan) {
		f.Windows = append(f.Windows, floorplan.Window{
			ID:       id,
			WallID:   input.WallID,
			Position: geometry.Clamp01(input.Position),
			Width:    width,
			Height:   height,
		})
	})
	return id
}

// UpdateWindow patches a window. Returns false (no-op) if the window doesn't exist.
func (e *Editor) UpdateWindow(id string, patch WindowPatch) bool {
	exists := func(f *floorplan.Floorplan) bool {
		_, ok := f.FindWindow(id)
		return ok
	}
	return e.commit("updateWindow", exists, func(f *floorplan.Floorplan) {
		w := f.WindowPtr(id)
		if patch.WallID != nil {
			w.WallID = *patch.WallID
		}
		if patch.Position != nil {
			w.Position = geometry.Clamp01(*patch.Position)
		}
		if patch.Width != nil && *patch.Width > 0 {
			w.Width = *patch.Width
		}
		if patch.Height != nil && *patch.Height > 0 {
			w.Height = *patch.Height
		}
	})
}

// RemoveWindow removes a window. Returns false (no-op) if the window doesn't exist.
func (e *Editor) RemoveWindow(id string) bool {
	exists := func(f *floorplan.Floorplan) bool {
		_, ok := f.FindWindow(id)
		return ok
	}
	return e.commit("removeWindow", exists, func(f *floorplan.Floorplan) {
		f.Windows = filter(f.Windows, func(w floorplan.Window) bool { return w.ID != id })
	})
}
