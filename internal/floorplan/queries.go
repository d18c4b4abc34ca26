package floorplan

// FindWall returns the wall with the given id.
func (f *Floorplan) FindWall(id string) (Wall, bool) {
	if i := f.wallIndex(id); i >= 0 {
		return f.Walls[i], true
	}
	return Wall{}, false
}

// FindDoor returns the door with the given id.
func (f *Floorplan) FindDoor(id string) (Door, bool) {
	if i := f.doorIndex(id); i >= 0 {
		return f.Doors[i], true
	}
	return Door{}, false
}

// FindWindow returns the window with the given id.
func (f *Floorplan) FindWindow(id string) (Window, bool) {
	if i := f.windowIndex(id); i >= 0 {
		return f.Windows[i], true
	}
	return Window{}, false
}

// FindRoom returns the room with the given id.
func (f *Floorplan) FindRoom(id string) (Room, bool) {
	if i := f.roomIndex(id); i >= 0 {
		return f.Rooms[i], true
	}
	return Room{}, false
}

// FindFurniture returns the furniture item with the given id.
func (f *Floorplan) FindFurniture(id string) (Furniture, bool) {
	if i := f.furnitureIndex(id); i >= 0 {
		return f.Furniture[i], true
	}
	return Furniture{}, false
}

// DoorsOnWall returns the doors attached to wallID, in document order.
func (f *Floorplan) DoorsOnWall(wallID string) []Door {
	var out []Door
	for _, d := range f.Doors {
		if d.WallID == wallID {
			out = append(out, d)
		}
	}
	return out
}

// WindowsOnWall returns the windows attached to wallID, in document order.
func (f *Floorplan) WindowsOnWall(wallID string) []Window {
	var out []Window
	for _, w := range f.Windows {
		if w.WallID == wallID {
			out = append(out, w)
		}
	}
	return out
}

// Contains reports whether any collection holds an element with id.
func (f *Floorplan) Contains(id string) bool {
	return f.wallIndex(id) >= 0 ||
		f.doorIndex(id) >= 0 ||
		f.windowIndex(id) >= 0 ||
		f.roomIndex(id) >= 0 ||
		f.furnitureIndex(id) >= 0
}

// Counts summarizes the number of elements per collection.
type Counts struct {
	Walls     int `json:"walls"`
	Doors     int `json:"doors"`
	Windows   int `json:"windows"`
	Rooms     int `json:"rooms"`
	Furniture int `json:"furniture"`
}

// Total returns the number of elements across all collections.
func (c Counts) Total() int {
	return c.Walls + c.Doors + c.Windows + c.Rooms + c.Furniture
}

// Counts returns the per-collection element counts.
func (f *Floorplan) Counts() Counts {
	return Counts{
		Walls:     len(f.Walls),
		Doors:     len(f.Doors),
		Windows:   len(f.Windows),
		Rooms:     len(f.Rooms),
		Furniture: len(f.Furniture),
	}
}

func (f *Floorplan) wallIndex(id string) int {
	for i := range f.Walls {
		if f.Walls[i].ID == id {
			return i
		}
	}
	return -1
}

func (f *Floorplan) doorIndex(id string) int {
	for i := range f.Doors {
		if f.Doors[i].ID == id {
			return i
		}
	}
	return -1
}

func (f *Floorplan) windowIndex(id string) int {
	for i := range f.Windows {
		if f.Windows[i].ID == id {
			return i
		}
	}
	return -1
}

func (f *Floorplan) roomIndex(id string) int {
	for i := range f.Rooms {
		if f.Rooms[i].ID == id {
			return i
		}
	}
	return -1
}

func (f *Floorplan) furnitureIndex(id string) int {
	for i := range f.Furniture {
		if f.Furniture[i].ID == id {
			return i
		}
	}
	return -1
}

// WallPtr returns a pointer into the walls slice for in-place patching, or nil.
// Only the command layer calls the *Ptr accessors, and only on a document it
// is about to commit as the new present.
func (f *Floorplan) WallPtr(id string) *Wall {
	if i := f.wallIndex(id); i >= 0 {
		return &f.Walls[i]
	}
	return nil
}

// DoorPtr returns a pointer into the doors slice, or nil.
func (f *Floorplan) DoorPtr(id string) *Door {
	if i := f.doorIndex(id); i >= 0 {
		return &f.Doors[i]
	}
	return nil
}

// WindowPtr returns a pointer into the windows slice, or nil.
func (f *Floorplan) WindowPtr(id string) *Window {
	if i := f.windowIndex(id); i >= 0 {
		return &f.Windows[i]
	}
	return nil
}

// RoomPtr returns a pointer into the rooms slice, or nil.
func (f *Floorplan) RoomPtr(id string) *Room {
	if i := f.roomIndex(id); i >= 0 {
		return &f.Rooms[i]
	}
	return nil
}

// FurniturePtr returns a pointer into the furniture slice, or nil.
func (f *Floorplan) FurniturePtr(id string) *Furniture {
	if i := f.furnitureIndex(id); i >= 0 {
		return &f.Furniture[i]
	}
	return nil
}
