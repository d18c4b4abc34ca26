package floorplan

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/hpungsan/floorplan/internal/errors"
)

// DocumentHeader marks a serialized floorplan file.
const DocumentHeader = "floorplan"

// Document is the on-disk envelope for an exported floorplan.
type Document struct {
	Kind       string     `json:"kind"`
	ExportedAt int64      `json:"exported_at,omitempty"`
	Floorplan  *Floorplan `json:"floorplan"`
}

// Marshal encodes f inside a Document envelope.
func Marshal(f *Floorplan, exportedAt int64) ([]byte, error) {
	return json.MarshalIndent(Document{
		Kind:       DocumentHeader,
		ExportedAt: exportedAt,
		Floorplan:  f,
	}, "", "  ")
}

// Unmarshal decodes and validates an exported document.
// Documents whose doors or windows reference missing walls are rejected.
func Unmarshal(data []byte) (*Floorplan, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewMalformedDocument([]string{fmt.Sprintf("invalid JSON: %v", err)})
	}
	if doc.Kind != DocumentHeader {
		return nil, errors.NewMalformedDocument([]string{fmt.Sprintf("unexpected kind %q", doc.Kind)})
	}
	if doc.Floorplan == nil {
		return nil, errors.NewMalformedDocument([]string{"missing floorplan"})
	}
	f := doc.Floorplan
	f.normalize()
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// normalize fills settings a hand-written document may omit.
func (f *Floorplan) normalize() {
	if f.Units == "" {
		f.Units = UnitsImperial
	}
	if f.Scale == 0 {
		f.Scale = DefaultScale
	}
	if f.GridSize == 0 {
		f.GridSize = DefaultGridSize
	}
	if f.Walls == nil {
		f.Walls = []Wall{}
	}
	if f.Doors == nil {
		f.Doors = []Door{}
	}
	if f.Windows == nil {
		f.Windows = []Window{}
	}
	if f.Rooms == nil {
		f.Rooms = []Room{}
	}
	if f.Furniture == nil {
		f.Furniture = []Furniture{}
	}
}

// Validate checks the referential invariants of a complete document:
// unique non-empty ids, known units, and every door/window on an existing wall.
// Rooms may name missing walls.
func (f *Floorplan) Validate() error {
	var problems []string

	if f.ID == "" {
		problems = append(problems, "floorplan id is empty")
	}
	if !f.Units.Valid() {
		problems = append(problems, fmt.Sprintf("unknown units %q", f.Units))
	}
	if f.Scale <= 0 || math.IsNaN(f.Scale) {
		problems = append(problems, "scale must be positive")
	}

	seen := make(map[string]bool)
	checkID := func(kind, id string) {
		if id == "" {
			problems = append(problems, fmt.Sprintf("%s with empty id", kind))
			return
		}
		if seen[id] {
			problems = append(problems, fmt.Sprintf("duplicate id %q", id))
		}
		seen[id] = true
	}

	walls := make(map[string]bool, len(f.Walls))
	for _, w := range f.Walls {
		checkID("wall", w.ID)
		walls[w.ID] = true
		if w.Thickness <= 0 {
			problems = append(problems, fmt.Sprintf("wall %s has non-positive thickness", w.ID))
		}
	}
	for _, d := range f.Doors {
		checkID("door", d.ID)
		if !walls[d.WallID] {
			problems = append(problems, fmt.Sprintf("door %s references missing wall %q", d.ID, d.WallID))
		}
		if d.Position < 0 || d.Position > 1 {
			problems = append(problems, fmt.Sprintf("door %s position %v outside [0,1]", d.ID, d.Position))
		}
	}
	for _, w := range f.Windows {
		checkID("window", w.ID)
		if !walls[w.WallID] {
			problems = append(problems, fmt.Sprintf("window %s references missing wall %q", w.ID, w.WallID))
		}
		if w.Position < 0 || w.Position > 1 {
			problems = append(problems, fmt.Sprintf("window %s position %v outside [0,1]", w.ID, w.Position))
		}
	}
	for _, r := range f.Rooms {
		checkID("room", r.ID)
	}
	for _, it := range f.Furniture {
		checkID("furniture", it.ID)
	}

	if len(problems) > 0 {
		return errors.NewMalformedDocument(problems)
	}
	return nil
}
