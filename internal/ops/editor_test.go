package ops

import (
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/floorplan/internal/config"
	"github.com/hpungsan/floorplan/internal/floorplan"
	"github.com/hpungsan/floorplan/internal/geometry"
)

func newTestEditor(t *testing.T) *Editor {
	t.Helper()
	return NewEditor(nil, nil, nil)
}

func ptr[T any](v T) *T { return &v }

func TestNewEditor_AppliesConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Units = "metric"
	cfg.GridSize = 10
	cfg.DefaultWallThickness = 4

	e := NewEditor(nil, cfg, nil)
	doc := e.Snapshot()
	assert.Equal(t, floorplan.UnitsMetric, doc.Units)
	assert.Equal(t, 10.0, doc.GridSize)

	id := e.AddWall(AddWallInput{Start: geometry.Pt(0, 0), End: geometry.Pt(10, 0)})
	w, ok := e.Snapshot().FindWall(id)
	require.True(t, ok)
	assert.Equal(t, 4.0, w.Thickness)
}

func TestAddWall_DefaultsAndPrefix(t *testing.T) {
	e := newTestEditor(t)
	id := e.AddWall(AddWallInput{Start: geometry.Pt(0, 0), End: geometry.Pt(120, 0)})

	assert.True(t, strings.HasPrefix(id, PrefixWall), "id %q", id)
	w, ok := e.Snapshot().FindWall(id)
	require.True(t, ok)
	assert.Equal(t, 120.0, w.Length())
	assert.Equal(t, floorplan.DefaultWallThickness, w.Thickness)
}

func TestIDs_NeverReused(t *testing.T) {
	e := newTestEditor(t)
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		id := e.AddWall(AddWallInput{End: geometry.Pt(float64(i), 0)})
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
		e.Undo()
	}
}

func TestScenario_DoorCascadeAndUndo(t *testing.T) {
	e := newTestEditor(t)
	wallID := e.AddWall(AddWallInput{Start: geometry.Pt(0, 0), End: geometry.Pt(120, 0)})
	doorID := e.AddDoor(AddDoorInput{WallID: wallID, Position: 0.5})

	doc := e.Snapshot()
	require.Len(t, doc.Walls, 1)
	assert.Equal(t, 120.0, doc.Walls[0].Length())
	require.Len(t, doc.Doors, 1)
	assert.Equal(t, 0.5, doc.Doors[0].Position)
	assert.Equal(t, floorplan.DefaultDoorWidth, doc.Doors[0].Width)

	require.True(t, e.RemoveWall(wallID))
	assert.Empty(t, e.Snapshot().Doors)

	require.True(t, e.Undo())
	doc = e.Snapshot()
	_, ok := doc.FindWall(wallID)
	assert.True(t, ok)
	_, ok = doc.FindDoor(doorID)
	assert.True(t, ok)
}

func TestCascadeAtomicity_DoorAndWindow(t *testing.T) {
	e := newTestEditor(t)
	wallID := e.AddWall(AddWallInput{Start: geometry.Pt(0, 0), End: geometry.Pt(120, 0)})
	otherID := e.AddWall(AddWallInput{Start: geometry.Pt(0, 0), End: geometry.Pt(0, 120)})
	e.AddDoor(AddDoorInput{WallID: wallID, Position: 0.25})
	e.AddWindow(AddWindowInput{WallID: wallID, Position: 0.75})
	e.AddWindow(AddWindowInput{WallID: otherID, Position: 0.5})
	before := e.Snapshot()
	pastBefore := e.History().Past

	require.True(t, e.RemoveWall(wallID))
	after := e.Snapshot()
	assert.Empty(t, after.Doors)
	require.Len(t, after.Windows, 1, "window on the other wall survives")
	assert.Equal(t, otherID, after.Windows[0].WallID)
	assert.Equal(t, pastBefore+1, e.History().Past)

	require.True(t, e.Undo())
	if d := cmp.Diff(before, e.Snapshot(), cmpopts.EquateEmpty()); d != "" {
		t.Errorf("single undo did not restore cascade (-want +got):\n%s", d)
	}
}

func TestOpenings_PositionClamped(t *testing.T) {
	e := newTestEditor(t)
	wallID := e.AddWall(AddWallInput{End: geometry.Pt(100, 0)})

	doorID := e.AddDoor(AddDoorInput{WallID: wallID, Position: 1.7})
	winID := e.AddWindow(AddWindowInput{WallID: wallID, Position: -3})

	doc := e.Snapshot()
	d, _ := doc.FindDoor(doorID)
	w, _ := doc.FindWindow(winID)
	assert.Equal(t, 1.0, d.Position)
	assert.Equal(t, 0.0, w.Position)
	assert.Equal(t, floorplan.DefaultWindowWidth, w.Width)
	assert.Equal(t, floorplan.DefaultWindowHeight, w.Height)

	require.True(t, e.UpdateDoor(doorID, DoorPatch{Position: ptr(-0.2)}))
	require.True(t, e.UpdateWindow(winID, WindowPatch{Position: ptr(2.0)}))
	doc = e.Snapshot()
	d, _ = doc.FindDoor(doorID)
	w, _ = doc.FindWindow(winID)
	assert.Equal(t, 0.0, d.Position)
	assert.Equal(t, 1.0, w.Position)
}

func TestAddDoor_DanglingWallPermitted(t *testing.T) {
	e := newTestEditor(t)
	id := e.AddDoor(AddDoorInput{WallID: "wall_missing", Position: 0.5})
	_, ok := e.Snapshot().FindDoor(id)
	assert.True(t, ok)
}

func TestUpdateDoor_Fields(t *testing.T) {
	e := newTestEditor(t)
	wallID := e.AddWall(AddWallInput{End: geometry.Pt(100, 0)})
	doorID := e.AddDoor(AddDoorInput{WallID: wallID, Position: 0.5})

	require.True(t, e.UpdateDoor(doorID, DoorPatch{
		Width:          ptr(36.0),
		SwingDirection: ptr("left"),
		SwingInward:    ptr(true),
	}))
	d, _ := e.Snapshot().FindDoor(doorID)
	assert.Equal(t, 36.0, d.Width)
	assert.Equal(t, "left", d.SwingDirection)
	require.NotNil(t, d.SwingInward)
	assert.True(t, *d.SwingInward)
	assert.Equal(t, 0.5, d.Position, "untouched fields keep their value")
}

func TestScenario_FurnitureRotation(t *testing.T) {
	e := newTestEditor(t)
	id := e.AddFurniture(AddFurnitureInput{
		Type:     "bed-queen",
		Position: geometry.Pt(10, 10),
		Width:    60,
		Height:   80,
	})
	it, _ := e.Snapshot().FindFurniture(id)
	assert.Equal(t, 0.0, it.Rotation)

	require.True(t, e.UpdateFurniture(id, FurniturePatch{Rotation: ptr(90.0)}))
	it, _ = e.Snapshot().FindFurniture(id)
	assert.Equal(t, 90.0, it.Rotation)
	assert.Equal(t, geometry.Pt(10, 10), it.Position)
	assert.Equal(t, 60.0, it.Width)
	assert.Equal(t, 80.0, it.Height)

	require.True(t, e.UpdateFurniture(id, FurniturePatch{X: ptr(40.0)}))
	it, _ = e.Snapshot().FindFurniture(id)
	assert.Equal(t, geometry.Pt(40, 10), it.Position)

	require.True(t, e.UpdateFurniture(id, FurniturePatch{Position: &geometry.Point{X: 1, Y: 2}, Y: ptr(5.0)}))
	it, _ = e.Snapshot().FindFurniture(id)
	assert.Equal(t, geometry.Pt(1, 5), it.Position)
}

func TestRooms_AddUpdateRemove(t *testing.T) {
	e := newTestEditor(t)
	w1 := e.AddWall(AddWallInput{End: geometry.Pt(100, 0)})
	roomID := e.AddRoom(AddRoomInput{Name: "Kitchen", Type: "kitchen", WallIDs: []string{w1}})

	require.True(t, e.UpdateRoom(roomID, RoomPatch{Name: ptr("Galley"), Color: ptr("#eee")}))
	r, ok := e.Snapshot().FindRoom(roomID)
	require.True(t, ok)
	assert.Equal(t, "Galley", r.Name)
	assert.Equal(t, "kitchen", r.Type)
	assert.Equal(t, []string{w1}, r.WallIDs)

	// Rooms keep dangling wall ids.
	require.True(t, e.RemoveWall(w1))
	r, _ = e.Snapshot().FindRoom(roomID)
	assert.Equal(t, []string{w1}, r.WallIDs)

	require.True(t, e.RemoveRoom(roomID))
	assert.Empty(t, e.Snapshot().Rooms)
}

func TestMissingID_NoopWithoutHistory(t *testing.T) {
	e := newTestEditor(t)
	e.AddWall(AddWallInput{End: geometry.Pt(100, 0)})
	past := e.History().Past

	checks := map[string]bool{
		"updateWall":      e.UpdateWall("nope", WallPatch{Thickness: ptr(8.0)}),
		"removeWall":      e.RemoveWall("nope"),
		"updateDoor":      e.UpdateDoor("nope", DoorPatch{}),
		"removeDoor":      e.RemoveDoor("nope"),
		"updateWindow":    e.UpdateWindow("nope", WindowPatch{}),
		"removeWindow":    e.RemoveWindow("nope"),
		"updateRoom":      e.UpdateRoom("nope", RoomPatch{}),
		"removeRoom":      e.RemoveRoom("nope"),
		"updateFurniture": e.UpdateFurniture("nope", FurniturePatch{}),
		"removeFurniture": e.RemoveFurniture("nope"),
	}
	for name, applied := range checks {
		assert.False(t, applied, name)
	}
	assert.Equal(t, past, e.History().Past)
	assert.Equal(t, 0, e.RemoveSelected([]string{"nope"}))
	assert.Equal(t, past, e.History().Past)
}

func TestUndoRedo_InverseLaw(t *testing.T) {
	e := newTestEditor(t)
	w := e.AddWall(AddWallInput{Start: geometry.Pt(0, 0), End: geometry.Pt(120, 0)})
	d := e.AddDoor(AddDoorInput{WallID: w, Position: 0.3})
	e.AddWindow(AddWindowInput{WallID: w, Position: 0.8})
	f := e.AddFurniture(AddFurnitureInput{Type: "sofa", Position: geometry.Pt(40, 40), Width: 84, Height: 36})
	e.UpdateFurniture(f, FurniturePatch{Rotation: ptr(45.0)})
	e.UpdateDoor(d, DoorPatch{Width: ptr(30.0)})
	e.AddRoom(AddRoomInput{Name: "Living", WallIDs: []string{w}})
	e.UpdateMetadata(MetadataPatch{Name: ptr("Cabin")})
	e.RemoveSelected([]string{d, f})
	const n = 9

	final := e.Snapshot()
	for i := 0; i < n; i++ {
		require.True(t, e.Undo(), "undo %d", i)
	}
	assert.False(t, e.Undo(), "undo past the beginning is a no-op")
	assert.Equal(t, 0, e.Snapshot().Counts().Total())

	for i := 0; i < n; i++ {
		require.True(t, e.Redo(), "redo %d", i)
	}
	assert.False(t, e.Redo())
	if diff := cmp.Diff(final, e.Snapshot(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("undo^n redo^n mismatch (-want +got):\n%s", diff)
	}
}

func TestHistoryCap(t *testing.T) {
	e := newTestEditor(t)
	for i := 0; i < 65; i++ {
		e.AddWall(AddWallInput{End: geometry.Pt(float64(i+1), 0)})
	}
	h := e.History()
	assert.Equal(t, 50, h.Past)

	undos := 0
	for e.Undo() {
		undos++
	}
	assert.Equal(t, 50, undos)
	assert.Len(t, e.Snapshot().Walls, 15, "oldest snapshots are unrecoverable")
}

func TestRedoInvalidation(t *testing.T) {
	e := newTestEditor(t)
	e.AddWall(AddWallInput{End: geometry.Pt(10, 0)})
	e.AddWall(AddWallInput{End: geometry.Pt(20, 0)})
	require.True(t, e.Undo())
	require.True(t, e.CanRedo())

	e.AddWall(AddWallInput{End: geometry.Pt(30, 0)})
	assert.False(t, e.CanRedo())
	assert.Equal(t, 0, e.History().Future)
	assert.False(t, e.Redo())
}

func TestRemoveSelected_SingleSnapshot(t *testing.T) {
	e := newTestEditor(t)
	w := e.AddWall(AddWallInput{End: geometry.Pt(100, 0)})
	keep := e.AddWall(AddWallInput{End: geometry.Pt(0, 100)})
	e.AddDoor(AddDoorInput{WallID: w, Position: 0.5})
	win := e.AddWindow(AddWindowInput{WallID: keep, Position: 0.5})
	room := e.AddRoom(AddRoomInput{Name: "Den"})
	furn := e.AddFurniture(AddFurnitureInput{Type: "desk", Width: 60, Height: 30})
	past := e.History().Past

	removed := e.RemoveSelected([]string{w, win, room, furn, "ghost"})
	assert.Equal(t, 5, removed, "wall, cascaded door, window, room, furniture")
	assert.Equal(t, past+1, e.History().Past)

	doc := e.Snapshot()
	assert.Equal(t, floorplan.Counts{Walls: 1}, doc.Counts())

	require.True(t, e.Undo())
	assert.Equal(t, floorplan.Counts{Walls: 2, Doors: 1, Windows: 1, Rooms: 1, Furniture: 1}, e.Snapshot().Counts())
}

func TestReset_UndoableAndKeepsIdentity(t *testing.T) {
	e := newTestEditor(t)
	e.UpdateMetadata(MetadataPatch{Name: ptr("House"), Units: ptr(floorplan.UnitsMetric)})
	e.AddWall(AddWallInput{End: geometry.Pt(100, 0)})
	before := e.Snapshot()

	e.Reset()
	doc := e.Snapshot()
	assert.Equal(t, 0, doc.Counts().Total())
	assert.Equal(t, before.ID, doc.ID)
	assert.Equal(t, "House", doc.Name)
	assert.Equal(t, floorplan.UnitsMetric, doc.Units)

	require.True(t, e.Undo())
	assert.Equal(t, 1, len(e.Snapshot().Walls))
}

func TestUpdateMetadata_IgnoresInvalid(t *testing.T) {
	e := newTestEditor(t)
	e.UpdateMetadata(MetadataPatch{
		Units:    ptr(floorplan.Units("cubits")),
		Scale:    ptr(-1.0),
		GridSize: ptr(0.0),
	})
	doc := e.Snapshot()
	assert.Equal(t, floorplan.UnitsImperial, doc.Units)
	assert.Equal(t, floorplan.DefaultScale, doc.Scale)
	assert.Equal(t, floorplan.DefaultGridSize, doc.GridSize)
}

func TestLoad_ClearsHistory(t *testing.T) {
	e := newTestEditor(t)
	e.AddWall(AddWallInput{End: geometry.Pt(100, 0)})

	doc := floorplan.New("Loaded")
	e.Load(doc)
	assert.Equal(t, "Loaded", e.Snapshot().Name)
	assert.False(t, e.CanUndo())
	assert.False(t, e.CanRedo())
}

func TestSnapshot_IsIsolated(t *testing.T) {
	e := newTestEditor(t)
	id := e.AddWall(AddWallInput{End: geometry.Pt(100, 0)})

	snap := e.Snapshot()
	snap.Walls[0].Thickness = 99
	snap.Walls = nil

	w, ok := e.Snapshot().FindWall(id)
	require.True(t, ok)
	assert.Equal(t, floorplan.DefaultWallThickness, w.Thickness)
}

func TestOnChange_ReceivesCommits(t *testing.T) {
	e := newTestEditor(t)
	var mu sync.Mutex
	var walls []int
	e.OnChange(func(f *floorplan.Floorplan) {
		mu.Lock()
		defer mu.Unlock()
		walls = append(walls, len(f.Walls))
	})

	e.AddWall(AddWallInput{End: geometry.Pt(100, 0)})
	e.RemoveWall("missing")
	e.Undo()
	e.Redo()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 0, 1}, walls)
}

func TestOnChange_Cancel(t *testing.T) {
	e := newTestEditor(t)
	calls := 0
	cancel := e.OnChange(func(*floorplan.Floorplan) { calls++ })

	e.AddWall(AddWallInput{End: geometry.Pt(10, 0)})
	cancel()
	e.AddWall(AddWallInput{End: geometry.Pt(20, 0)})

	assert.Equal(t, 1, calls)
}

func TestNearestWall(t *testing.T) {
	e := newTestEditor(t)
	near := e.AddWall(AddWallInput{Start: geometry.Pt(0, 0), End: geometry.Pt(100, 0)})
	e.AddWall(AddWallInput{Start: geometry.Pt(0, 50), End: geometry.Pt(100, 50)})

	id, pos, ok := e.NearestWall(geometry.Pt(25, 4), 12)
	require.True(t, ok)
	assert.Equal(t, near, id)
	assert.InDelta(t, 0.25, pos, 1e-9)

	_, _, ok = e.NearestWall(geometry.Pt(25, 25), 12)
	assert.False(t, ok)
}

func TestEditor_ConcurrentWriters(t *testing.T) {
	e := newTestEditor(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				e.AddWall(AddWallInput{End: geometry.Pt(float64(i*10+j+1), 0)})
			}
		}(i)
	}
	wg.Wait()
	assert.Len(t, e.Snapshot().Walls, 40)
}
