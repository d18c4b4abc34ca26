package agent

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/hpungsan/floorplan/internal/catalog"
	"github.com/hpungsan/floorplan/internal/errors"
	"github.com/hpungsan/floorplan/internal/floorplan"
	"github.com/hpungsan/floorplan/internal/geometry"
	"github.com/hpungsan/floorplan/internal/ops"
)

// Result is the per-invocation outcome shown in the conversation log.
type Result struct {
	InvocationID string            `json:"invocationId,omitempty"`
	Name         string            `json:"name"`
	Executed     bool              `json:"executed"`
	ElementID    string            `json:"elementId,omitempty"`
	Error        *errors.PlanError `json:"error,omitempty"`
}

// Bridge executes agent invocations against one editor.
// Safe for concurrent use; the editor serializes the actual mutations.
type Bridge struct {
	editor  *ops.Editor
	catalog *catalog.Catalog
	logger  *zap.Logger
	metrics *Metrics

	mu     sync.Mutex
	seen   map[string]struct{}
	stream *Stream
}

// NewBridge creates a bridge over editor. logger may be nil.
func NewBridge(editor *ops.Editor, logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Bridge{
		editor:  editor,
		catalog: catalog.Default(),
		logger:  logger,
		metrics: NewMetrics(),
		seen:    make(map[string]struct{}),
	}
	b.stream = b.OpenStream()
	return b
}

// NewSession forgets which invocations were already executed and starts a
// fresh stream. Call it at the start of each agent turn.
func (b *Bridge) NewSession() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seen = make(map[string]struct{})
	b.stream = b.OpenStream()
}

// Context renders the live document for the next agent turn.
func (b *Bridge) Context() string {
	return Summarize(b.editor.Snapshot())
}

// Apply feeds a chunk of model output to the session's stream and executes
// every invocation it completes.
func (b *Bridge) Apply(chunk string) []Result {
	return b.current().Apply(chunk)
}

// Finish ends the session's stream. See Stream.Finish.
func (b *Bridge) Finish() []Result {
	return b.current().Finish()
}

// Text returns the prose the session's stream has carried so far.
func (b *Bridge) Text() string {
	return b.current().Text()
}

func (b *Bridge) current() *Stream {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stream
}

// OpenStream starts a model stream with its own parser. Partial lines and
// prose stay with the stream; dedupe is shared with the bridge session.
func (b *Bridge) OpenStream() *Stream {
	return &Stream{bridge: b, parser: NewStreamParser()}
}

// Stream executes one model data stream against its bridge.
// Safe for concurrent use.
type Stream struct {
	bridge *Bridge

	mu     sync.Mutex
	parser *StreamParser
}

// Apply feeds chunk to the stream and executes every invocation it completes.
func (s *Stream) Apply(chunk string) []Result {
	s.mu.Lock()
	invs := s.parser.Feed(chunk)
	malformed := s.parser.takeMalformed()
	s.mu.Unlock()
	return s.bridge.executeParsed(invs, malformed)
}

// Finish executes an invocation left on a final line without a newline. Call
// it when the model stream ends.
func (s *Stream) Finish() []Result {
	s.mu.Lock()
	invs := s.parser.Flush()
	malformed := s.parser.takeMalformed()
	s.mu.Unlock()
	return s.bridge.executeParsed(invs, malformed)
}

// Text returns the prose carried by this stream's text lines.
func (s *Stream) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.parser.Text()
}

func (b *Bridge) executeParsed(invs []Invocation, malformed int) []Result {
	b.metrics.RecordPayloads(len(invs))
	b.metrics.RecordMalformed(malformed)
	if malformed > 0 {
		b.logger.Warn("skipped malformed stream lines", zap.Int("count", malformed))
	}
	return b.ExecuteAll(invs)
}

// ExecuteAll executes invocations in order. A rejection never stops the batch.
func (b *Bridge) ExecuteAll(invs []Invocation) []Result {
	results := make([]Result, 0, len(invs))
	for _, inv := range invs {
		results = append(results, b.Execute(inv))
	}
	return results
}

// Execute validates and runs one invocation. Invocations already executed in
// this session are reported as DUPLICATE and not applied again.
func (b *Bridge) Execute(inv Invocation) Result {
	res := Result{InvocationID: inv.ID, Name: inv.Name}

	key := inv.Key()
	b.mu.Lock()
	_, dup := b.seen[key]
	b.seen[key] = struct{}{}
	b.mu.Unlock()
	if dup {
		res.Error = errors.NewDuplicate(inv.ID)
		b.metrics.RecordInvocation(inv.Name, OutcomeDuplicate)
		b.logger.Debug("duplicate invocation skipped",
			zap.String("name", inv.Name), zap.String("invocation_id", inv.ID))
		return res
	}

	cmd, err := Decode(inv)
	if err != nil {
		return b.reject(res, err)
	}

	res.ElementID, res.Executed, err = b.run(cmd)
	if err != nil {
		return b.reject(res, err)
	}
	if res.Executed {
		b.metrics.RecordInvocation(cmd.CommandName(), OutcomeExecuted)
	} else {
		b.metrics.RecordInvocation(cmd.CommandName(), OutcomeNoop)
	}
	return res
}

func (b *Bridge) reject(res Result, err error) Result {
	pErr, ok := errors.As(err)
	if !ok {
		pErr = errors.NewInternal(err)
	}
	res.Executed = false
	res.Error = pErr

	// Missing targets are informational: the command ran as a no-op.
	if pErr.Code == errors.ErrNotFound {
		b.metrics.RecordInvocation(res.Name, OutcomeNoop)
		b.logger.Debug("invocation target not found",
			zap.String("name", res.Name), zap.String("invocation_id", res.InvocationID))
		return res
	}

	b.metrics.RecordInvocation(res.Name, OutcomeRejected)
	b.logger.Warn("invocation rejected",
		zap.String("name", res.Name),
		zap.String("invocation_id", res.InvocationID),
		zap.String("code", string(pErr.Code)),
		zap.String("reason", pErr.Message))
	return res
}

// run maps a decoded command onto the editor.
// It returns the created element id (adds only) and whether the document changed.
func (b *Bridge) run(cmd Command) (string, bool, error) {
	e := b.editor
	switch c := cmd.(type) {
	case AddWall:
		return e.AddWall(ops.AddWallInput{Start: c.Start, End: c.End, Thickness: c.Thickness}), true, nil
	case UpdateWall:
		return found(c.ID, e.UpdateWall(c.ID, ops.WallPatch{Start: c.Start, End: c.End, Thickness: c.Thickness}))
	case RemoveWall:
		return found(c.ID, e.RemoveWall(c.ID))

	case AddDoor:
		return e.AddDoor(ops.AddDoorInput{
			WallID:         c.WallID,
			Position:       c.Position,
			Width:          c.Width,
			SwingDirection: c.SwingDirection,
			SwingInward:    c.SwingInward,
		}), true, nil
	case UpdateDoor:
		return found(c.ID, e.UpdateDoor(c.ID, ops.DoorPatch{
			WallID:         c.WallID,
			Position:       c.Position,
			Width:          c.Width,
			SwingDirection: c.SwingDirection,
			SwingInward:    c.SwingInward,
		}))
	case RemoveDoor:
		return found(c.ID, e.RemoveDoor(c.ID))

	case AddWindow:
		return e.AddWindow(ops.AddWindowInput{
			WallID:   c.WallID,
			Position: c.Position,
			Width:    c.Width,
			Height:   c.Height,
		}), true, nil
	case UpdateWindow:
		return found(c.ID, e.UpdateWindow(c.ID, ops.WindowPatch{
			WallID:   c.WallID,
			Position: c.Position,
			Width:    c.Width,
			Height:   c.Height,
		}))
	case RemoveWindow:
		return found(c.ID, e.RemoveWindow(c.ID))

	case AddRoom:
		return e.AddRoom(ops.AddRoomInput{Name: c.Name, Type: c.Type, WallIDs: c.WallIDs, Color: c.Color}), true, nil
	case UpdateRoom:
		return found(c.ID, e.UpdateRoom(c.ID, ops.RoomPatch{Name: c.Name, Type: c.Type, WallIDs: c.WallIDs, Color: c.Color}))
	case RemoveRoom:
		return found(c.ID, e.RemoveRoom(c.ID))

	case AddFurniture:
		return b.addFurniture(c)
	case UpdateFurniture:
		return b.updateFurniture(c)
	case RemoveFurniture:
		return found(c.ID, e.RemoveFurniture(c.ID))

	case RemoveSelected:
		if e.RemoveSelected(c.IDs) == 0 {
			return "", false, errors.NewNotFound(strings.Join(c.IDs, ", "))
		}
		return "", true, nil

	case UpdateFloorplan:
		patch := ops.MetadataPatch{Name: c.Name, Scale: c.Scale, GridSize: c.GridSize}
		if c.Units != nil {
			u := floorplan.Units(*c.Units)
			patch.Units = &u
		}
		e.UpdateMetadata(patch)
		return "", true, nil

	case Undo:
		return "", e.Undo(), nil
	case Redo:
		return "", e.Redo(), nil

	case ClearAll:
		if !c.Confirm {
			return "", false, errors.NewNotConfirmed(c.CommandName())
		}
		e.Reset()
		return "", true, nil
	}
	return "", false, errors.NewUnknownCommand(cmd.CommandName())
}

// found converts a command-layer bool into a result, reporting a missing
// target as NOT_FOUND.
func found(id string, applied bool) (string, bool, error) {
	if !applied {
		return "", false, errors.NewNotFound(id)
	}
	return "", true, nil
}

func (b *Bridge) addFurniture(c AddFurniture) (string, bool, error) {
	item, ok := b.catalog.Lookup(c.Type)
	if !ok {
		return "", false, unknownFurniture(c.Type)
	}
	width, height := c.Width, c.Height
	if width <= 0 {
		width = item.Width
	}
	if height <= 0 {
		height = item.Depth
	}
	label := c.Label
	if label == "" {
		label = item.Label
	}
	id := b.editor.AddFurniture(ops.AddFurnitureInput{
		Type:     item.Type,
		Position: geometry.Pt(c.X, c.Y),
		Width:    width,
		Height:   height,
		Rotation: c.Rotation,
		Label:    label,
	})
	return id, true, nil
}

func (b *Bridge) updateFurniture(c UpdateFurniture) (string, bool, error) {
	patch := ops.FurniturePatch{
		X:        c.X,
		Y:        c.Y,
		Rotation: c.Rotation,
		Width:    c.Width,
		Height:   c.Height,
		Label:    c.Label,
	}
	if c.Type != nil {
		item, ok := b.catalog.Lookup(*c.Type)
		if !ok {
			return "", false, unknownFurniture(*c.Type)
		}
		patch.Type = &item.Type
	}
	return found(c.ID, b.editor.UpdateFurniture(c.ID, patch))
}

func unknownFurniture(furnitureType string) *errors.PlanError {
	err := errors.NewInvalidRequest(fmt.Sprintf("unknown furniture type %q", furnitureType))
	err.Details = map[string]any{"type": furnitureType}
	return err
}
