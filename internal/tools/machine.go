package tools

import (
	"go.uber.org/zap"

	"github.com/hpungsan/floorplan/internal/catalog"
	"github.com/hpungsan/floorplan/internal/config"
	"github.com/hpungsan/floorplan/internal/geometry"
	"github.com/hpungsan/floorplan/internal/ops"
)

// State is the gesture state.
type State int

const (
	StateIdle State = iota
	StateDrawing
)

func (s State) String() string {
	if s == StateDrawing {
		return "drawing"
	}
	return "idle"
}

// Commands is the slice of the command layer the tools use.
// *ops.Editor satisfies it.
type Commands interface {
	AddWall(ops.AddWallInput) string
	AddDoor(ops.AddDoorInput) string
	AddWindow(ops.AddWindowInput) string
	AddFurniture(ops.AddFurnitureInput) string
	NearestWall(p geometry.Point, maxDist float64) (wallID string, position float64, ok bool)
}

// Preview is the rendering collaborator's transient overlay.
// Points are canvas pixels.
type Preview interface {
	Begin(start geometry.Point)
	Update(start, end geometry.Point)
	Cancel()
	Commit()
}

// Options tune gesture interpretation.
type Options struct {
	Scale          float64 // canvas pixels per inch
	SnapEnabled    bool
	SnapIncrement  float64 // inches
	MinDragPixels  float64
	FurnitureType  string
	DoorSnapPixels float64
}

// OptionsFromConfig builds Options from a loaded config.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return Options{
		Scale:          cfg.Scale,
		SnapEnabled:    cfg.Snap(),
		SnapIncrement:  cfg.SnapIncrement,
		MinDragPixels:  cfg.MinWallDragPixels,
		DoorSnapPixels: cfg.DoorSnapPixels,
	}
}

func (o Options) withDefaults() Options {
	d := OptionsFromConfig(nil)
	if o.Scale <= 0 {
		o.Scale = d.Scale
	}
	if o.MinDragPixels <= 0 {
		o.MinDragPixels = d.MinDragPixels
	}
	if o.DoorSnapPixels <= 0 {
		o.DoorSnapPixels = d.DoorSnapPixels
	}
	return o
}

// Measurement is the result of a measure gesture, in document inches.
type Measurement struct {
	Start  geometry.Point `json:"start"`
	End    geometry.Point `json:"end"`
	Length float64        `json:"length"`
}

// Outcome reports what a pointer event did.
type Outcome struct {
	ElementID   string       `json:"element_id,omitempty"`
	Measurement *Measurement `json:"measurement,omitempty"`
}

// Machine is the idle/drawing gesture state machine.
type Machine struct {
	mode    Mode
	state   State
	start   geometry.Point
	end     geometry.Point
	opts    Options
	cmds    Commands
	preview Preview
	catalog *catalog.Catalog
	logger  *zap.Logger
}

// NewMachine starts in select mode. preview and logger may be nil.
func NewMachine(cmds Commands, preview Preview, opts Options, logger *zap.Logger) *Machine {
	if preview == nil {
		preview = nopPreview{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Machine{
		mode:    ModeSelect,
		opts:    opts.withDefaults(),
		cmds:    cmds,
		preview: preview,
		catalog: catalog.Default(),
		logger:  logger,
	}
}

func (m *Machine) Mode() Mode   { return m.mode }
func (m *Machine) State() State { return m.state }

// Options returns the current gesture options.
func (m *Machine) Options() Options { return m.opts }

// SetMode switches tools. An in-progress gesture is cancelled without
// touching the document.
func (m *Machine) SetMode(mode Mode) {
	if m.state == StateDrawing {
		m.cancel()
	}
	m.mode = mode
}

// SetFurnitureType selects what the furniture tool places.
func (m *Machine) SetFurnitureType(furnitureType string) {
	m.opts.FurnitureType = furnitureType
}

// SetScale changes the zoom; snapping and thresholds follow it.
func (m *Machine) SetScale(scale float64) {
	if scale > 0 {
		m.opts.Scale = scale
	}
}

// Press handles pointer-down at p (canvas pixels).
func (m *Machine) Press(p geometry.Point) Outcome {
	if m.state == StateDrawing {
		return Outcome{}
	}
	switch m.mode {
	case ModeWall, ModeMeasure:
		m.start = m.snap(p)
		m.end = m.start
		m.state = StateDrawing
		m.preview.Begin(m.start)
	case ModeDoor, ModeWindow:
		return m.placeOpening(p)
	case ModeFurniture:
		return m.placeFurniture(p)
	}
	return Outcome{}
}

// Move handles pointer movement. It only ever updates the preview.
func (m *Machine) Move(p geometry.Point) {
	if m.state != StateDrawing {
		return
	}
	m.end = m.snap(p)
	m.preview.Update(m.start, m.end)
}

// Release handles pointer-up. A drag shorter than MinDragPixels is cancelled.
func (m *Machine) Release(p geometry.Point) Outcome {
	if m.state != StateDrawing || !m.mode.drags() {
		return Outcome{}
	}
	m.end = m.snap(p)
	start, end := m.start, m.end
	m.state = StateIdle

	if geometry.Distance(start, end) < m.opts.MinDragPixels {
		m.preview.Cancel()
		return Outcome{}
	}

	docStart, docEnd := m.toDoc(start), m.toDoc(end)
	if m.mode == ModeMeasure {
		m.preview.Cancel()
		return Outcome{Measurement: &Measurement{
			Start:  docStart,
			End:    docEnd,
			Length: geometry.Distance(docStart, docEnd),
		}}
	}

	id := m.cmds.AddWall(ops.AddWallInput{Start: docStart, End: docEnd})
	m.preview.Commit()
	return Outcome{ElementID: id}
}

func (m *Machine) cancel() {
	m.state = StateIdle
	m.preview.Cancel()
}

// placeOpening attaches a door or window to the nearest wall within
// DoorSnapPixels of p. A click away from every wall does nothing.
func (m *Machine) placeOpening(p geometry.Point) Outcome {
	wallID, position, ok := m.cmds.NearestWall(m.toDoc(p), m.opts.DoorSnapPixels/m.opts.Scale)
	if !ok {
		return Outcome{}
	}
	if m.mode == ModeDoor {
		return Outcome{ElementID: m.cmds.AddDoor(ops.AddDoorInput{WallID: wallID, Position: position})}
	}
	return Outcome{ElementID: m.cmds.AddWindow(ops.AddWindowInput{WallID: wallID, Position: position})}
}

// placeFurniture centers the selected catalog item on the snapped point.
func (m *Machine) placeFurniture(p geometry.Point) Outcome {
	item, ok := m.catalog.Lookup(m.opts.FurnitureType)
	if !ok {
		m.logger.Debug("furniture tool has no valid type", zap.String("type", m.opts.FurnitureType))
		return Outcome{}
	}
	id := m.cmds.AddFurniture(ops.AddFurnitureInput{
		Type:     item.Type,
		Position: m.toDoc(m.snap(p)),
		Width:    item.Width,
		Height:   item.Depth,
		Label:    item.Label,
	})
	return Outcome{ElementID: id}
}

// snap rounds p to the snap grid, which is SnapIncrement inches in pixels.
func (m *Machine) snap(p geometry.Point) geometry.Point {
	if !m.opts.SnapEnabled {
		return p
	}
	return geometry.SnapPoint(p, m.opts.SnapIncrement*m.opts.Scale)
}

func (m *Machine) toDoc(p geometry.Point) geometry.Point {
	return p.Scale(1 / m.opts.Scale)
}

type nopPreview struct{}

func (nopPreview) Begin(geometry.Point)                  {}
func (nopPreview) Update(geometry.Point, geometry.Point) {}
func (nopPreview) Cancel()                               {}
func (nopPreview) Commit()                               {}
