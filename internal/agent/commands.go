// Package agent turns structured tool invocations from a language model into
// editor commands.
//
// Every invocation is decoded into exactly one variant of the Command union,
// its arguments validated against a JSON Schema reflected from the variant's
// struct. Unknown names become the Unknown variant. Nothing here panics on
// bad input: rejections come back as a Result with Executed=false.
package agent

import "github.com/hpungsan/floorplan/internal/geometry"

// Command is one decoded invocation. The concrete types below are the
// complete set; Unknown stands in for anything else.
type Command interface {
	CommandName() string
}

// AddWall creates a wall between two points (inches).
type AddWall struct {
	Start     geometry.Point `json:"start" jsonschema:"description=Start point in inches"`
	End       geometry.Point `json:"end" jsonschema:"description=End point in inches"`
	Thickness float64        `json:"thickness,omitempty" jsonschema:"minimum=0,description=Wall thickness in inches (default 6)"`
}

// UpdateWall moves or resizes a wall. Omitted fields are left unchanged.
type UpdateWall struct {
	ID        string          `json:"id" jsonschema:"minLength=1"`
	Start     *geometry.Point `json:"start,omitempty"`
	End       *geometry.Point `json:"end,omitempty"`
	Thickness *float64        `json:"thickness,omitempty" jsonschema:"minimum=0"`
}

// RemoveWall deletes a wall with its doors and windows.
type RemoveWall struct {
	ID string `json:"id" jsonschema:"minLength=1,description=Wall id. Doors and windows on the wall are removed with it"`
}

// AddDoor hangs a door on a wall. Position is the fraction along the wall.
type AddDoor struct {
	WallID         string  `json:"wallId" jsonschema:"minLength=1"`
	Position       float64 `json:"position" jsonschema:"description=Fraction along the wall from start (0) to end (1)"`
	Width          float64 `json:"width,omitempty" jsonschema:"minimum=0,description=Door width in inches (default 32)"`
	SwingDirection string  `json:"swingDirection,omitempty" jsonschema:"enum=left,enum=right"`
	SwingInward    *bool   `json:"swingInward,omitempty"`
}

// UpdateDoor patches a door. Omitted fields are left unchanged.
type UpdateDoor struct {
	ID             string   `json:"id" jsonschema:"minLength=1"`
	WallID         *string  `json:"wallId,omitempty"`
	Position       *float64 `json:"position,omitempty"`
	Width          *float64 `json:"width,omitempty" jsonschema:"minimum=0"`
	SwingDirection *string  `json:"swingDirection,omitempty" jsonschema:"enum=left,enum=right"`
	SwingInward    *bool    `json:"swingInward,omitempty"`
}

// RemoveDoor deletes a door.
type RemoveDoor struct {
	ID string `json:"id" jsonschema:"minLength=1"`
}

// AddWindow hangs a window on a wall.
type AddWindow struct {
	WallID   string  `json:"wallId" jsonschema:"minLength=1"`
	Position float64 `json:"position" jsonschema:"description=Fraction along the wall from start (0) to end (1)"`
	Width    float64 `json:"width,omitempty" jsonschema:"minimum=0,description=Window width in inches (default 36)"`
	Height   float64 `json:"height,omitempty" jsonschema:"minimum=0,description=Window height in inches (default 48)"`
}

// UpdateWindow patches a window. Omitted fields are left unchanged.
type UpdateWindow struct {
	ID       string   `json:"id" jsonschema:"minLength=1"`
	WallID   *string  `json:"wallId,omitempty"`
	Position *float64 `json:"position,omitempty"`
	Width    *float64 `json:"width,omitempty" jsonschema:"minimum=0"`
	Height   *float64 `json:"height,omitempty" jsonschema:"minimum=0"`
}

// RemoveWindow deletes a window.
type RemoveWindow struct {
	ID string `json:"id" jsonschema:"minLength=1"`
}

// AddRoom labels a group of walls.
type AddRoom struct {
	Name    string   `json:"name" jsonschema:"minLength=1"`
	Type    string   `json:"type,omitempty" jsonschema:"description=Room type such as bedroom or kitchen"`
	WallIDs []string `json:"wallIds,omitempty"`
	Color   string   `json:"color,omitempty"`
}

// UpdateRoom patches a room label. Omitted fields are left unchanged.
type UpdateRoom struct {
	ID      string    `json:"id" jsonschema:"minLength=1"`
	Name    *string   `json:"name,omitempty"`
	Type    *string   `json:"type,omitempty"`
	WallIDs *[]string `json:"wallIds,omitempty"`
	Color   *string   `json:"color,omitempty"`
}

// RemoveRoom deletes a room label; its walls stay.
type RemoveRoom struct {
	ID string `json:"id" jsonschema:"minLength=1"`
}

// AddFurniture places a catalog item centered on (x, y).
type AddFurniture struct {
	Type     string  `json:"type" jsonschema:"minLength=1,description=Furniture type from the catalog such as bed-queen or sofa"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width,omitempty" jsonschema:"minimum=0,description=Defaults to the catalog width"`
	Height   float64 `json:"height,omitempty" jsonschema:"minimum=0,description=Defaults to the catalog depth"`
	Rotation float64 `json:"rotation,omitempty" jsonschema:"description=Degrees"`
	Label    string  `json:"label,omitempty"`
}

// UpdateFurniture patches a furniture item. X and Y move one axis each.
type UpdateFurniture struct {
	ID       string   `json:"id" jsonschema:"minLength=1"`
	Type     *string  `json:"type,omitempty"`
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Width    *float64 `json:"width,omitempty" jsonschema:"minimum=0"`
	Height   *float64 `json:"height,omitempty" jsonschema:"minimum=0"`
	Rotation *float64 `json:"rotation,omitempty"`
	Label    *string  `json:"label,omitempty"`
}

// RemoveFurniture deletes a furniture item.
type RemoveFurniture struct {
	ID string `json:"id" jsonschema:"minLength=1"`
}

// RemoveSelected deletes several elements of any kind as one undo step.
type RemoveSelected struct {
	IDs []string `json:"ids" jsonschema:"minItems=1"`
}

// UpdateFloorplan changes document settings.
type UpdateFloorplan struct {
	Name     *string  `json:"name,omitempty"`
	Units    *string  `json:"units,omitempty" jsonschema:"enum=imperial,enum=metric"`
	Scale    *float64 `json:"scale,omitempty" jsonschema:"minimum=0"`
	GridSize *float64 `json:"gridSize,omitempty" jsonschema:"minimum=0"`
}

// Undo steps back one snapshot.
type Undo struct{}

// Redo reapplies the last undone snapshot.
type Redo struct{}

// ClearAll removes every element. It only runs with Confirm set.
type ClearAll struct {
	Confirm bool `json:"confirm,omitempty" jsonschema:"description=Must be true or nothing is cleared"`
}

// Unknown is an invocation naming no known command.
type Unknown struct {
	Name string
}

// CommandName returns the invocation name of each variant.

func (AddWall) CommandName() string         { return "addWall" }
func (UpdateWall) CommandName() string      { return "updateWall" }
func (RemoveWall) CommandName() string      { return "removeWall" }
func (AddDoor) CommandName() string         { return "addDoor" }
func (UpdateDoor) CommandName() string      { return "updateDoor" }
func (RemoveDoor) CommandName() string      { return "removeDoor" }
func (AddWindow) CommandName() string       { return "addWindow" }
func (UpdateWindow) CommandName() string    { return "updateWindow" }
func (RemoveWindow) CommandName() string    { return "removeWindow" }
func (AddRoom) CommandName() string         { return "addRoom" }
func (UpdateRoom) CommandName() string      { return "updateRoom" }
func (RemoveRoom) CommandName() string      { return "removeRoom" }
func (AddFurniture) CommandName() string    { return "addFurniture" }
func (UpdateFurniture) CommandName() string { return "updateFurniture" }
func (RemoveFurniture) CommandName() string { return "removeFurniture" }
func (RemoveSelected) CommandName() string  { return "removeSelected" }
func (UpdateFloorplan) CommandName() string { return "updateFloorplan" }
func (Undo) CommandName() string            { return "undo" }
func (Redo) CommandName() string            { return "redo" }
func (ClearAll) CommandName() string        { return "clearAll" }
func (u Unknown) CommandName() string       { return u.Name }
