// Package ops is the command layer: the only sanctioned way to change a
// floorplan. An Editor owns the document's history; gestures, agent
// invocations, MCP tools and HTTP requests all funnel through it, so there is
// exactly one writer.
package ops

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/hpungsan/floorplan/internal/config"
	"github.com/hpungsan/floorplan/internal/floorplan"
	"github.com/hpungsan/floorplan/internal/history"
)

// ChangeFunc receives a copy of the document after every committed change.
type ChangeFunc func(*floorplan.Floorplan)

// Editor is the explicitly owned state container for one live document.
// All methods are safe for concurrent use and are strictly serialized.
type Editor struct {
	mu        sync.Mutex
	history   *history.History
	ids       *idSource
	thickness float64
	logger    *zap.Logger
	metrics   *Metrics

	listenerMu   sync.Mutex
	listeners    map[int]ChangeFunc
	nextListener int
}

// NewEditor starts editing doc (a fresh document when nil).
// cfg may be nil for defaults; logger may be nil for a no-op logger.
func NewEditor(doc *floorplan.Floorplan, cfg *config.Config, logger *zap.Logger) *Editor {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if doc == nil {
		doc = NewDocument("", cfg)
	}
	thickness := cfg.DefaultWallThickness
	if thickness <= 0 {
		thickness = floorplan.DefaultWallThickness
	}
	return &Editor{
		history:   history.New(doc, cfg.HistoryLimit),
		ids:       newIDSource(),
		thickness: thickness,
		logger:    logger,
		metrics:   NewMetrics(),
	}
}

// NewDocument returns an empty document with the configured units and grid.
func NewDocument(name string, cfg *config.Config) *floorplan.Floorplan {
	doc := floorplan.New(name)
	if cfg == nil {
		return doc
	}
	if u := floorplan.Units(cfg.Units); u.Valid() {
		doc.Units = u
	}
	if cfg.GridSize > 0 {
		doc.GridSize = cfg.GridSize
	}
	return doc
}

// OnChange registers fn to be called after each committed change, undo,
// redo or load. fn runs outside the editor lock and may call back in.
// The returned func unregisters fn.
func (e *Editor) OnChange(fn ChangeFunc) (cancel func()) {
	e.listenerMu.Lock()
	defer e.listenerMu.Unlock()
	if e.listeners == nil {
		e.listeners = make(map[int]ChangeFunc)
	}
	id := e.nextListener
	e.nextListener++
	e.listeners[id] = fn
	return func() {
		e.listenerMu.Lock()
		defer e.listenerMu.Unlock()
		delete(e.listeners, id)
	}
}

// commit runs one logical command as exactly one history record.
// When exists is non-nil and reports false the command is a silent no-op:
// nothing is recorded and commit returns false.
func (e *Editor) commit(command string, exists func(*floorplan.Floorplan) bool, mutate func(*floorplan.Floorplan)) bool {
	e.mu.Lock()
	ok := true
	if exists != nil {
		e.history.Peek(func(f *floorplan.Floorplan) { ok = exists(f) })
	}
	if !ok {
		e.mu.Unlock()
		e.logger.Debug("command skipped", zap.String("command", command))
		e.metrics.RecordNoop(command)
		return false
	}
	e.history.Record(mutate)
	snapshot := e.history.Present()
	e.mu.Unlock()

	e.logger.Debug("command applied", zap.String("command", command))
	e.metrics.RecordCommand(command)
	e.notify(snapshot)
	return true
}

func (e *Editor) notify(snapshot *floorplan.Floorplan) {
	e.listenerMu.Lock()
	ids := make([]int, 0, len(e.listeners))
	for id := range e.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	listeners := make([]ChangeFunc, len(ids))
	for i, id := range ids {
		listeners[i] = e.listeners[id]
	}
	e.listenerMu.Unlock()

	for _, fn := range listeners {
		fn(snapshot.Clone())
	}
}

// Snapshot returns a copy of the live document.
func (e *Editor) Snapshot() *floorplan.Floorplan {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Present()
}

// Undo steps back one change. Undo with nothing to undo is a silent no-op.
func (e *Editor) Undo() bool {
	return e.step("undo", e.history.Undo)
}

// Redo re-applies the most recently undone change. Silent no-op when there is none.
func (e *Editor) Redo() bool {
	return e.step("redo", e.history.Redo)
}

func (e *Editor) step(name string, move func() bool) bool {
	e.mu.Lock()
	moved := move()
	var snapshot *floorplan.Floorplan
	if moved {
		snapshot = e.history.Present()
	}
	e.mu.Unlock()

	if !moved {
		e.logger.Debug("history boundary", zap.String("command", name))
		return false
	}
	e.metrics.RecordCommand(name)
	e.notify(snapshot)
	return true
}

// CanUndo reports whether Undo would change the document.
func (e *Editor) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanUndo()
}

// CanRedo reports whether Redo would change the document.
func (e *Editor) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanRedo()
}

// HistoryState is the undo/redo depth, for enabling toolbar buttons.
type HistoryState struct {
	Past    int  `json:"past"`
	Future  int  `json:"future"`
	CanUndo bool `json:"can_undo"`
	CanRedo bool `json:"can_redo"`
}

// History returns the current undo/redo depth.
func (e *Editor) History() HistoryState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return HistoryState{
		Past:    e.history.PastLen(),
		Future:  e.history.FutureLen(),
		CanUndo: e.history.CanUndo(),
		CanRedo: e.history.CanRedo(),
	}
}

// Load replaces the live document (opening a file, importing). Undo and redo
// stacks are cleared; loading is not itself undoable.
func (e *Editor) Load(doc *floorplan.Floorplan) {
	e.mu.Lock()
	e.history.Replace(doc)
	snapshot := e.history.Present()
	e.mu.Unlock()

	e.logger.Info("floorplan loaded", zap.String("floorplan_id", snapshot.ID))
	e.notify(snapshot)
}

// Reset clears every element, keeping the document's identity and settings.
// One undo restores everything.
func (e *Editor) Reset() {
	e.commit("resetFloorplan", nil, func(f *floorplan.Floorplan) {
		f.Clear()
	})
}
