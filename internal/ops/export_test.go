package ops

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/hpungsan/floorplan/internal/errors"
	"github.com/hpungsan/floorplan/internal/floorplan"
	"github.com/hpungsan/floorplan/internal/geometry"
)

func TestExport_HappyPath(t *testing.T) {
	tmpDir := t.TempDir()
	e := NewEditor(nil, nil, nil)
	wallID := e.AddWall(AddWallInput{Start: geometry.Pt(0, 0), End: geometry.Pt(120, 0)})
	e.AddDoor(AddDoorInput{WallID: wallID, Position: 0.5})

	exportPath := filepath.Join(tmpDir, "plan.json")
	output, err := Export(context.Background(), e, tmpDir, ExportInput{Path: exportPath})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if output.Path != exportPath {
		t.Errorf("Path = %q, want %q", output.Path, exportPath)
	}
	if output.Elements != 2 {
		t.Errorf("Elements = %d, want 2", output.Elements)
	}
	if output.ExportedAt == 0 {
		t.Error("ExportedAt should be set")
	}
	if output.ID != e.Snapshot().ID {
		t.Errorf("ID = %q, want %q", output.ID, e.Snapshot().ID)
	}

	data, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	var doc floorplan.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if doc.Kind != floorplan.DocumentHeader {
		t.Errorf("Kind = %q, want %q", doc.Kind, floorplan.DocumentHeader)
	}
	if len(doc.Floorplan.Doors) != 1 || doc.Floorplan.Doors[0].WallID != wallID {
		t.Errorf("door not exported intact: %+v", doc.Floorplan.Doors)
	}
}

func TestExport_DefaultPath(t *testing.T) {
	tmpDir := t.TempDir()
	e := NewEditor(floorplan.New("Beach House"), nil, nil)

	output, err := Export(context.Background(), e, tmpDir, ExportInput{})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if filepath.Dir(output.Path) != tmpDir {
		t.Errorf("Path dir = %q, want %q", filepath.Dir(output.Path), tmpDir)
	}
	base := filepath.Base(output.Path)
	if !strings.HasPrefix(base, "beach-house-") || !strings.HasSuffix(base, ".json") {
		t.Errorf("unexpected default filename %q", base)
	}
}

func TestExport_NoTempFileLeft(t *testing.T) {
	tmpDir := t.TempDir()
	e := NewEditor(nil, nil, nil)

	if _, err := Export(context.Background(), e, tmpDir, ExportInput{Path: filepath.Join(tmpDir, "a.json")}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", entry.Name())
		}
	}
}

func TestExport_OverwritesExisting(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("overwrite is refused on windows")
	}
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "plan.json")
	if err := os.WriteFile(path, []byte("old"), 0600); err != nil {
		t.Fatal(err)
	}

	e := NewEditor(nil, nil, nil)
	if _, err := Export(context.Background(), e, tmpDir, ExportInput{Path: path}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) == "old" {
		t.Error("existing file was not replaced")
	}
}

func TestExport_RejectsBadPath(t *testing.T) {
	e := NewEditor(nil, nil, nil)
	_, err := Export(context.Background(), e, t.TempDir(), ExportInput{Path: "/tmp/plan.txt"})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got: %v", err)
	}
}

func TestExport_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := NewEditor(nil, nil, nil)
	if _, err := Export(ctx, e, t.TempDir(), ExportInput{}); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestDefaultExportPath(t *testing.T) {
	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	got := defaultExportPath("/x", "My Plan", now)
	want := filepath.Join("/x", "my-plan-2026-03-04T050607.json")
	if got != want {
		t.Errorf("defaultExportPath = %q, want %q", got, want)
	}
}

func TestExport_RejectsOrphanOpening(t *testing.T) {
	tmpDir := t.TempDir()
	e := NewEditor(nil, nil, nil)
	e.AddDoor(AddDoorInput{WallID: "wall_missing", Position: 0.5})

	exportPath := filepath.Join(tmpDir, "orphan.json")
	_, err := Export(context.Background(), e, tmpDir, ExportInput{Path: exportPath})
	if !errors.Is(err, errors.ErrMalformedDocument) {
		t.Fatalf("expected ErrMalformedDocument, got: %v", err)
	}
	if _, statErr := os.Stat(exportPath); !os.IsNotExist(statErr) {
		t.Errorf("export file should not exist, stat err = %v", statErr)
	}
}
