// Package history keeps linear undo/redo over whole-document snapshots.
//
// Every mutation pushes a clone of the present onto past, clears future and
// installs the mutated clone as the new present. Past is capped; the oldest
// snapshots are evicted and cannot be recovered.
package history

import "github.com/hpungsan/floorplan/internal/floorplan"

// DefaultLimit is the number of undo steps retained.
const DefaultLimit = 50

// History owns the live document. It is not safe for concurrent use; the
// command layer serializes access.
type History struct {
	past    []*floorplan.Floorplan
	present *floorplan.Floorplan
	future  []*floorplan.Floorplan
	limit   int
}

// New starts a history whose present is a clone of doc.
// A non-positive limit means DefaultLimit.
func New(doc *floorplan.Floorplan, limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if doc == nil {
		doc = floorplan.New("")
	}
	return &History{
		present: doc.Clone(),
		limit:   limit,
	}
}

// Record snapshots the present onto past and applies mutate to a fresh copy,
// which becomes the new present. Future is discarded.
func (h *History) Record(mutate func(*floorplan.Floorplan)) {
	next := h.present.Clone()
	mutate(next)

	h.past = append(h.past, h.present)
	if over := len(h.past) - h.limit; over > 0 {
		// Drop references so evicted snapshots can be collected.
		for i := 0; i < over; i++ {
			h.past[i] = nil
		}
		h.past = append([]*floorplan.Floorplan(nil), h.past[over:]...)
	}
	h.future = nil
	h.present = next
}

// Undo moves the most recent past snapshot into present.
// Returns false (and changes nothing) when there is nothing to undo.
func (h *History) Undo() bool {
	n := len(h.past)
	if n == 0 {
		return false
	}
	prev := h.past[n-1]
	h.past = h.past[:n-1]
	h.future = append([]*floorplan.Floorplan{h.present}, h.future...)
	h.present = prev
	return true
}

// Redo moves the first future snapshot into present.
// Returns false (and changes nothing) when there is nothing to redo.
func (h *History) Redo() bool {
	if len(h.future) == 0 {
		return false
	}
	next := h.future[0]
	h.future = h.future[1:]
	h.past = append(h.past, h.present)
	h.present = next
	return true
}

// CanUndo reports whether Undo would change the present.
func (h *History) CanUndo() bool { return len(h.past) > 0 }

// CanRedo reports whether Redo would change the present.
func (h *History) CanRedo() bool { return len(h.future) > 0 }

// PastLen returns the number of retained undo snapshots.
func (h *History) PastLen() int { return len(h.past) }

// FutureLen returns the number of retained redo snapshots.
func (h *History) FutureLen() int { return len(h.future) }

// Limit returns the undo cap.
func (h *History) Limit() int { return h.limit }

// Present returns a copy of the live document.
func (h *History) Present() *floorplan.Floorplan {
	return h.present.Clone()
}

// Peek calls fn with the live document without copying it.
// fn must not retain or mutate the document.
func (h *History) Peek(fn func(*floorplan.Floorplan)) {
	fn(h.present)
}

// Replace installs doc as the present and clears both stacks.
func (h *History) Replace(doc *floorplan.Floorplan) {
	h.past = nil
	h.future = nil
	h.present = doc.Clone()
}
