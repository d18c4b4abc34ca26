package ops

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/hpungsan/floorplan/internal/errors"
	"github.com/hpungsan/floorplan/internal/geometry"
)

func TestImport_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	src := NewEditor(nil, nil, nil)
	w := src.AddWall(AddWallInput{Start: geometry.Pt(0, 0), End: geometry.Pt(120, 0)})
	src.AddDoor(AddDoorInput{WallID: w, Position: 0.5, SwingInward: ptr(false)})
	src.AddWindow(AddWindowInput{WallID: w, Position: 0.2})
	src.AddRoom(AddRoomInput{Name: "Hall", WallIDs: []string{w}})
	src.AddFurniture(AddFurnitureInput{Type: "sofa", Position: geometry.Pt(1, 2), Width: 84, Height: 36, Rotation: 90})

	path := filepath.Join(tmpDir, "plan.json")
	if _, err := Export(context.Background(), src, tmpDir, ExportInput{Path: path}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	dst := NewEditor(nil, nil, nil)
	dst.AddWall(AddWallInput{End: geometry.Pt(5, 5)})
	out, err := Import(dst, ImportInput{Path: path})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if out.Elements != 5 {
		t.Errorf("Elements = %d, want 5", out.Elements)
	}
	if diff := cmp.Diff(src.Snapshot(), dst.Snapshot(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("import mismatch (-want +got):\n%s", diff)
	}
	if dst.CanUndo() {
		t.Error("import should clear history")
	}
}

func TestImport_RejectsDanglingWall(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "bad.json")
	doc := `{
  "kind": "floorplan",
  "floorplan": {
    "id": "f1", "name": "x", "units": "imperial", "scale": 1, "gridSize": 12,
    "walls": [],
    "doors": [{"id": "door_1", "wallId": "wall_gone", "position": 0.5, "width": 32}],
    "windows": [], "rooms": [], "furniture": []
  }
}`
	if err := os.WriteFile(path, []byte(doc), 0600); err != nil {
		t.Fatal(err)
	}

	e := NewEditor(nil, nil, nil)
	before := e.Snapshot()
	_, err := Import(e, ImportInput{Path: path})
	if !errors.Is(err, errors.ErrMalformedDocument) {
		t.Fatalf("expected ErrMalformedDocument, got: %v", err)
	}
	if e.Snapshot().ID != before.ID {
		t.Error("editor changed after a rejected import")
	}
}

func TestImport_MissingFile(t *testing.T) {
	e := NewEditor(nil, nil, nil)
	_, err := Import(e, ImportInput{Path: filepath.Join(t.TempDir(), "none.json")})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestImport_PathRequired(t *testing.T) {
	e := NewEditor(nil, nil, nil)
	_, err := Import(e, ImportInput{})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got: %v", err)
	}
}

func TestImport_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	_, err := Import(NewEditor(nil, nil, nil), ImportInput{Path: path})
	if !errors.Is(err, errors.ErrMalformedDocument) {
		t.Errorf("expected ErrMalformedDocument, got: %v", err)
	}
}
