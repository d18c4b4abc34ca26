package agent

import (
	"encoding/json"
	"sort"
)

// commandSpec describes one entry of the command union.
type commandSpec struct {
	description string
	destructive bool
	prototype   Command
	decode      func(json.RawMessage) (Command, error)
}

func variant[T Command](description string, destructive bool) commandSpec {
	var zero T
	return commandSpec{
		description: description,
		destructive: destructive,
		prototype:   zero,
		decode: func(raw json.RawMessage) (Command, error) {
			var v T
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, err
			}
			return v, nil
		},
	}
}

// registry is the complete command surface, keyed by invocation name.
var registry = map[string]commandSpec{
	"addWall":         variant[AddWall]("Add a straight wall between two points (inches). Returns the new wall id.", false),
	"updateWall":      variant[UpdateWall]("Move a wall's endpoints or change its thickness.", false),
	"removeWall":      variant[RemoveWall]("Remove a wall together with every door and window on it.", true),
	"addDoor":         variant[AddDoor]("Add a door to a wall at a fractional position along it.", false),
	"updateDoor":      variant[UpdateDoor]("Change a door's wall, position, width or swing.", false),
	"removeDoor":      variant[RemoveDoor]("Remove a door.", true),
	"addWindow":       variant[AddWindow]("Add a window to a wall at a fractional position along it.", false),
	"updateWindow":    variant[UpdateWindow]("Change a window's wall, position or size.", false),
	"removeWindow":    variant[RemoveWindow]("Remove a window.", true),
	"addRoom":         variant[AddRoom]("Label a group of walls as a room.", false),
	"updateRoom":      variant[UpdateRoom]("Rename, retype or recolor a room, or change its walls.", false),
	"removeRoom":      variant[RemoveRoom]("Remove a room label. Its walls stay.", true),
	"addFurniture":    variant[AddFurniture]("Place a furniture item from the catalog, centered on (x, y).", false),
	"updateFurniture": variant[UpdateFurniture]("Move, rotate, resize or relabel a furniture item.", false),
	"removeFurniture": variant[RemoveFurniture]("Remove a furniture item.", true),
	"removeSelected":  variant[RemoveSelected]("Remove several elements of any kind as a single undo step.", true),
	"updateFloorplan": variant[UpdateFloorplan]("Change the floorplan's name, units, scale or grid size.", false),
	"undo":            variant[Undo]("Undo the most recent change.", false),
	"redo":            variant[Redo]("Redo the most recently undone change.", false),
	"clearAll":        variant[ClearAll]("Remove every element from the floorplan. Requires confirm: true.", true),
}

// aliases map alternative invocation names onto registry entries.
var aliases = map[string]string{
	"resetFloorplan": "clearAll",
}

func lookup(name string) (string, commandSpec, bool) {
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}
	spec, ok := registry[name]
	return name, spec, ok
}

// CommandInfo describes a command for tool listings.
type CommandInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Destructive bool            `json:"destructive"`
	Schema      json.RawMessage `json:"input_schema"`
}

// Commands lists the command surface sorted by name, each with its
// argument schema.
func Commands() ([]CommandInfo, error) {
	names := CommandNames()
	out := make([]CommandInfo, 0, len(names))
	for _, name := range names {
		schema, err := Schema(name)
		if err != nil {
			return nil, err
		}
		spec := registry[name]
		out = append(out, CommandInfo{
			Name:        name,
			Description: spec.description,
			Destructive: spec.destructive,
			Schema:      schema,
		})
	}
	return out, nil
}

// CommandNames returns every canonical command name, sorted.
func CommandNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
