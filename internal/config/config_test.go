package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestLoad_DefaultWhenMissing(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	def := DefaultConfig()
	if cfg.HistoryLimit != def.HistoryLimit {
		t.Errorf("HistoryLimit = %d, want %d", cfg.HistoryLimit, def.HistoryLimit)
	}
	if cfg.MinWallDragPixels != 10 {
		t.Errorf("MinWallDragPixels = %v, want 10", cfg.MinWallDragPixels)
	}
	if cfg.SnapIncrement != 6 {
		t.Errorf("SnapIncrement = %v, want 6", cfg.SnapIncrement)
	}
	if !cfg.Snap() {
		t.Error("Snap() = false, want true by default")
	}
}

func TestLoad_OverridesFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"history_limit": 20, "scale": 2.5}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HistoryLimit != 20 {
		t.Errorf("HistoryLimit = %d, want 20", cfg.HistoryLimit)
	}
	if cfg.Scale != 2.5 {
		t.Errorf("Scale = %v, want 2.5", cfg.Scale)
	}
	if cfg.GridSize != 12 {
		t.Errorf("GridSize = %v, want default 12", cfg.GridSize)
	}
}

func TestLoad_JSON5(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{
		// snapping off for freehand sketches
		snap_enabled: false,
		grid_size: 24,
	}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Snap() {
		t.Error("Snap() = true, want false")
	}
	if cfg.GridSize != 24 {
		t.Errorf("GridSize = %v, want 24", cfg.GridSize)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{not json}`)

	if _, err := Load(tmpDir); err == nil {
		t.Fatalf("Load() expected error, got nil")
	}
}

func TestLoad_DisabledTools(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"disabled_tools": ["floorplan_clear_all", "floorplan_remove_selected"]}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.DisabledTools) != 2 {
		t.Fatalf("DisabledTools length = %d, want 2", len(cfg.DisabledTools))
	}
	if cfg.DisabledTools[0] != "floorplan_clear_all" {
		t.Errorf("DisabledTools[0] = %q, want %q", cfg.DisabledTools[0], "floorplan_clear_all")
	}
}

func TestLoadWithRepo_RepoOverridesGlobal(t *testing.T) {
	globalDir := t.TempDir()
	repoRoot := t.TempDir()

	writeConfig(t, globalDir, `{"history_limit": 30, "disabled_tools": ["floorplan_clear_all"]}`)
	writeConfig(t, filepath.Join(repoRoot, ".floorplan"), `{"history_limit": 10, "disabled_tools": ["floorplan_undo"]}`)

	nested := filepath.Join(repoRoot, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	cfg, err := LoadWithRepo(globalDir, nested)
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}
	if cfg.HistoryLimit != 10 {
		t.Errorf("HistoryLimit = %d, want 10 (repo override)", cfg.HistoryLimit)
	}
	if len(cfg.DisabledTools) != 2 {
		t.Errorf("DisabledTools = %v, want merged pair", cfg.DisabledTools)
	}
}

func TestLoadWithRepo_NoneFound(t *testing.T) {
	cfg, err := LoadWithRepo(t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}
	if cfg.HistoryLimit != 50 {
		t.Errorf("HistoryLimit = %d, want default 50", cfg.HistoryLimit)
	}
}

func TestMerge_SnapTriState(t *testing.T) {
	off := false
	base := DefaultConfig()

	if got := Merge(base, &Config{}); !got.Snap() {
		t.Error("unset overlay should keep base snap=true")
	}
	if got := Merge(base, &Config{SnapEnabled: &off}); got.Snap() {
		t.Error("explicit overlay false should win")
	}
}

func TestMerge_UnitsAndDedupe(t *testing.T) {
	base := &Config{Units: "imperial", DisabledTools: []string{"a", " b "}}
	overlay := &Config{Units: " metric ", DisabledTools: []string{"b", "", "c"}}

	got := Merge(base, overlay)
	if got.Units != "metric" {
		t.Errorf("Units = %q, want metric", got.Units)
	}
	want := []string{"a", "b", "c"}
	if len(got.DisabledTools) != len(want) {
		t.Fatalf("DisabledTools = %v, want %v", got.DisabledTools, want)
	}
	for i := range want {
		if got.DisabledTools[i] != want[i] {
			t.Errorf("DisabledTools[%d] = %q, want %q", i, got.DisabledTools[i], want[i])
		}
	}
}

func TestMergeStringSlice_Empty(t *testing.T) {
	if got := mergeStringSlice(nil, []string{" ", ""}); got != nil {
		t.Errorf("mergeStringSlice = %v, want nil", got)
	}
}
