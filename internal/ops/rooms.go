package ops

import (
	"github.com/hpungsan/floorplan/internal/floorplan"
	"github.com/hpungsan/floorplan/internal/geometry"
)

// AddRoomInput contains parameters for AddRoom.
type AddRoomInput struct {
	Name    string
	Type    string
	WallIDs []string
	Color   string
}

// RoomPatch holds the editable room fields (nil = don't change).
type RoomPatch struct {
	Name    *string
	Type    *string
	WallIDs *[]string
	Color   *string
}

// AddFurnitureInput contains parameters for AddFurniture.
type AddFurnitureInput struct {
	Type     string
	Position geometry.Point
	Width    float64
	Height   float64
	Rotation float64 // degrees, 0 unless given
	Label    string
}

// FurniturePatch holds the editable furniture fields (nil = don't change).
type FurniturePatch struct {
	Type     *string
	Position *geometry.Point
	X, Y     *float64 // single-axis moves, applied after Position
	Rotation *float64
	Width    *float64
	Height   *float64
	Label    *string
}

// AddRoom creates a room label over the given walls and returns its id.
// The walls are not checked to exist or to enclose anything.
func (e *Editor) AddRoom(input AddRoomInput) string {
	id := e.ids.next(PrefixRoom)
	wallIDs := append([]string{}, input.WallIDs...)
	e.commit("addRoom", nil, func(f *floorplan.Floorplan) {
		f.Rooms = append(f.Rooms, floorplan.Room{
			ID:      id,
			Name:    input.Name,
			Type:    input.Type,
			WallIDs: wallIDs,
			Color:   input.Color,
		})
	})
	return id
}

// UpdateRoom patches a room. Returns false (no-op) if the room doesn't exist.
func (e *Editor) UpdateRoom(id string, patch RoomPatch) bool {
	exists := func(f *floorplan.Floorplan) bool {
		_, ok := f.FindRoom(id)
		return ok
	}
	return e.commit("updateRoom", exists, func(f *floorplan.Floorplan) {
		r := f.RoomPtr(id)
		if patch.Name != nil {
			r.Name = *patch.Name
		}
		if patch.Type != nil {
			r.Type = *patch.Type
		}
		if patch.WallIDs != nil {
			r.WallIDs = append([]string{}, (*patch.WallIDs)...)
		}
		if patch.Color != nil {
			r.Color = *patch.Color
		}
	})
}

// RemoveRoom removes a room. Its walls are untouched.
func (e *Editor) RemoveRoom(id string) bool {
	exists := func(f *floorplan.Floorplan) bool {
		_, ok := f.FindRoom(id)
		return ok
	}
	return e.commit("removeRoom", exists, func(f *floorplan.Floorplan) {
		f.Rooms = filter(f.Rooms, func(r floorplan.Room) bool { return r.ID != id })
	})
}

// AddFurniture places a furniture item and returns its id.
func (e *Editor) AddFurniture(input AddFurnitureInput) string {
	id := e.ids.next(PrefixFurniture)
	e.commit("addFurniture", nil, func(f *floorplan.Floorplan) {
		f.Furniture = append(f.Furniture, floorplan.Furniture{
			ID:       id,
			Type:     input.Type,
			Position: input.Position,
			Rotation: input.Rotation,
			Width:    input.Width,
			Height:   input.Height,
			Label:    input.Label,
		})
	})
	return id
}

// UpdateFurniture patches a furniture item. Returns false (no-op) if it doesn't exist.
func (e *Editor) UpdateFurniture(id string, patch FurniturePatch) bool {
	exists := func(f *floorplan.Floorplan) bool {
		_, ok := f.FindFurniture(id)
		return ok
	}
	return e.commit("updateFurniture", exists, func(f *floorplan.Floorplan) {
		it := f.FurniturePtr(id)
		if patch.Type != nil {
			it.Type = *patch.Type
		}
		if patch.Position != nil {
			it.Position = *patch.Position
		}
		if patch.X != nil {
			it.Position.X = *patch.X
		}
		if patch.Y != nil {
			it.Position.Y = *patch.Y
		}
		if patch.Rotation != nil {
			it.Rotation = *patch.Rotation
		}
		if patch.Width != nil && *patch.Width > 0 {
			it.Width = *patch.Width
		}
		if patch.Height != nil && *patch.Height > 0 {
			it.Height = *patch.Height
		}
		if patch.Label != nil {
			it.Label = *patch.Label
		}
	})
}

// RemoveFurniture removes a furniture item.
func (e *Editor) RemoveFurniture(id string) bool {
	exists := func(f *floorplan.Floorplan) bool {
		_, ok := f.FindFurniture(id)
		return ok
	}
	return e.commit("removeFurniture", exists, func(f *floorplan.Floorplan) {
		f.Furniture = filter(f.Furniture, func(it floorplan.Furniture) bool { return it.ID != id })
	})
}
