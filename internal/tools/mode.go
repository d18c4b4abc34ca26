// Package tools interprets pointer gestures on the canvas as commands.
//
// A Machine is bound to one pointer stream (one browser tab, one websocket
// session) and is not safe for concurrent use. All of its document changes go
// through the Commands it was built with.
package tools

import "strings"

// Mode is the active tool.
type Mode string

const (
	ModeSelect    Mode = "select"
	ModePan       Mode = "pan"
	ModeWall      Mode = "wall"
	ModeDoor      Mode = "door"
	ModeWindow    Mode = "window"
	ModeFurniture Mode = "furniture"
	ModeMeasure   Mode = "measure"
)

// Modes lists every tool in toolbar order.
func Modes() []Mode {
	return []Mode{ModeSelect, ModePan, ModeWall, ModeDoor, ModeWindow, ModeFurniture, ModeMeasure}
}

// ParseMode resolves a tool name case-insensitively.
func ParseMode(s string) (Mode, bool) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Modes() {
		if m == known {
			return m, true
		}
	}
	return "", false
}

// Cursor names, as understood by CSS.
const (
	CursorDefault   = "default"
	CursorGrab      = "grab"
	CursorCrosshair = "crosshair"
)

// Presentation is how the canvas should look and behave under a tool.
type Presentation struct {
	Cursor     string `json:"cursor"`
	Selectable bool   `json:"selectable"`
}

var presentations = map[Mode]Presentation{
	ModeSelect:    {Cursor: CursorDefault, Selectable: true},
	ModePan:       {Cursor: CursorGrab},
	ModeWall:      {Cursor: CursorCrosshair},
	ModeDoor:      {Cursor: CursorCrosshair},
	ModeWindow:    {Cursor: CursorCrosshair},
	ModeFurniture: {Cursor: CursorCrosshair},
	ModeMeasure:   {Cursor: CursorCrosshair},
}

// Presentation returns the cursor and selectability for m.
// Unknown modes present like select.
func (m Mode) Presentation() Presentation {
	if p, ok := presentations[m]; ok {
		return p
	}
	return presentations[ModeSelect]
}

// drags reports whether m is a press-drag-release tool.
func (m Mode) drags() bool {
	return m == ModeWall || m == ModeMeasure
}
