package floorplan

import (
	"github.com/google/uuid"

	"github.com/hpungsan/floorplan/internal/geometry"
)

// Element defaults, in inches.
const (
	DefaultWallThickness = 6.0
	DefaultDoorWidth     = 32.0
	DefaultWindowWidth   = 36.0
	DefaultWindowHeight  = 48.0
	DefaultScale         = 1.0
	DefaultGridSize      = 12.0
)

// Units selects the measurement system a document is displayed in.
type Units string

const (
	UnitsImperial Units = "imperial"
	UnitsMetric   Units = "metric"
)

// Valid reports whether u is a known unit system.
func (u Units) Valid() bool {
	return u == UnitsImperial || u == UnitsMetric
}

// Wall is a straight segment with a thickness. Doors and windows hang off walls.
type Wall struct {
	ID        string         `json:"id"`
	Start     geometry.Point `json:"start"`
	End       geometry.Point `json:"end"`
	Thickness float64        `json:"thickness"`
}

// Length returns the wall's centerline length.
func (w Wall) Length() float64 {
	return geometry.Distance(w.Start, w.End)
}

// PointAt returns the point at fraction t along the wall.
func (w Wall) PointAt(t float64) geometry.Point {
	return geometry.PointAt(w.Start, w.End, t)
}

// Door is an opening at a fractional position along a wall.
type Door struct {
	ID             string  `json:"id"`
	WallID         string  `json:"wallId"`
	Position       float64 `json:"position"`
	Width          float64 `json:"width"`
	SwingDirection string  `json:"swingDirection,omitempty"` // "left" or "right"
	SwingInward    *bool   `json:"swingInward,omitempty"`
}

// Window is a glazed opening at a fractional position along a wall.
type Window struct {
	ID       string  `json:"id"`
	WallID   string  `json:"wallId"`
	Position float64 `json:"position"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
}

// Room is a named label over an ordered list of walls.
// WallIDs are soft references: a room naming a deleted wall is tolerated.
type Room struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	WallIDs []string `json:"wallIds"`
	Color   string   `json:"color,omitempty"`
}

// Furniture is a free-standing item. Position is the item's center.
type Furniture struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Position geometry.Point `json:"position"`
	Rotation float64        `json:"rotation"` // degrees
	Width    float64        `json:"width"`
	Height   float64        `json:"height"`
	Label    string         `json:"label,omitempty"`
}

// Floorplan is the aggregate root: every element of one document.
type Floorplan struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Units           Units       `json:"units"`
	Scale           float64     `json:"scale"`
	GridSize        float64     `json:"gridSize"`
	Walls           []Wall      `json:"walls"`
	Doors           []Door      `json:"doors"`
	Windows         []Window    `json:"windows"`
	Rooms           []Room      `json:"rooms"`
	Furniture       []Furniture `json:"furniture"`
	BackgroundImage string      `json:"backgroundImage,omitempty"`
}

// New returns an empty document with default settings.
func New(name string) *Floorplan {
	if name == "" {
		name = "Untitled Floorplan"
	}
	return &Floorplan{
		ID:        uuid.NewString(),
		Name:      name,
		Units:     UnitsImperial,
		Scale:     DefaultScale,
		GridSize:  DefaultGridSize,
		Walls:     []Wall{},
		Doors:     []Door{},
		Windows:   []Window{},
		Rooms:     []Room{},
		Furniture: []Furniture{},
	}
}

// Clone returns a deep copy. Snapshots in history are clones, never aliases.
func (f *Floorplan) Clone() *Floorplan {
	if f == nil {
		return nil
	}
	c := *f
	c.Walls = append([]Wall{}, f.Walls...)
	c.Windows = append([]Window{}, f.Windows...)
	c.Furniture = append([]Furniture{}, f.Furniture...)

	c.Doors = make([]Door, len(f.Doors))
	for i, d := range f.Doors {
		if d.SwingInward != nil {
			v := *d.SwingInward
			d.SwingInward = &v
		}
		c.Doors[i] = d
	}

	c.Rooms = make([]Room, len(f.Rooms))
	for i, r := range f.Rooms {
		r.WallIDs = append([]string{}, r.WallIDs...)
		c.Rooms[i] = r
	}
	return &c
}

// Clear drops every element but keeps the document's identity and settings.
func (f *Floorplan) Clear() {
	f.Walls = []Wall{}
	f.Doors = []Door{}
	f.Windows = []Window{}
	f.Rooms = []Room{}
	f.Furniture = []Furniture{}
}
