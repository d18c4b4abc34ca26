package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	json5 "github.com/yosuke-furukawa/json5/encoding/json5"
)

// Config holds application configuration.
type Config struct {
	// HistoryLimit is the number of undo steps retained per document.
	HistoryLimit int `json:"history_limit"`

	// Units is the measurement system for new documents ("imperial" or "metric").
	Units string `json:"units,omitempty"`

	// GridSize is the displayed grid spacing for new documents, in inches.
	GridSize float64 `json:"grid_size"`

	// DefaultWallThickness is used when a wall is added without a thickness.
	DefaultWallThickness float64 `json:"default_wall_thickness"`

	// Scale is canvas pixels per document inch for gesture input.
	Scale float64 `json:"scale"`

	// SnapEnabled rounds gesture points to the snap grid.
	// A pointer so a config file can turn snapping off explicitly.
	SnapEnabled *bool `json:"snap_enabled,omitempty"`

	// SnapIncrement is the snap grid spacing, in inches.
	SnapIncrement float64 `json:"snap_increment"`

	// MinWallDragPixels is the shortest drag that still commits a wall.
	// Measured in canvas pixels, independent of zoom.
	MinWallDragPixels float64 `json:"min_wall_drag_pixels"`

	// DoorSnapPixels is how far from a wall a door/window click may land
	// and still attach to it.
	DoorSnapPixels float64 `json:"door_snap_pixels"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// 0 means use sql.DB default.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	snap := true
	return &Config{
		HistoryLimit:         50,
		Units:                "imperial",
		GridSize:             12,
		DefaultWallThickness: 6,
		Scale:                1,
		SnapEnabled:          &snap,
		SnapIncrement:        6,
		MinWallDragPixels:    10,
		DoorSnapPixels:       12,
	}
}

// Snap reports whether gesture snapping is on.
func (c *Config) Snap() bool {
	return c.SnapEnabled == nil || *c.SnapEnabled
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The file may use JSON5 (comments, trailing commas).
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both the global directory and the
// nearest .floorplan/config.json found walking upward from startDir.
// Repo config takes precedence for scalar values; arrays are merged.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest .floorplan/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".floorplan", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json5.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{
		HistoryLimit:         firstInt(overlay.HistoryLimit, base.HistoryLimit),
		GridSize:             firstFloat(overlay.GridSize, base.GridSize),
		DefaultWallThickness: firstFloat(overlay.DefaultWallThickness, base.DefaultWallThickness),
		Scale:                firstFloat(overlay.Scale, base.Scale),
		SnapIncrement:        firstFloat(overlay.SnapIncrement, base.SnapIncrement),
		MinWallDragPixels:    firstFloat(overlay.MinWallDragPixels, base.MinWallDragPixels),
		DoorSnapPixels:       firstFloat(overlay.DoorSnapPixels, base.DoorSnapPixels),
		DBMaxOpenConns:       firstInt(overlay.DBMaxOpenConns, base.DBMaxOpenConns),
		DBMaxIdleConns:       firstInt(overlay.DBMaxIdleConns, base.DBMaxIdleConns),
	}

	result.Units = strings.TrimSpace(overlay.Units)
	if result.Units == "" {
		result.Units = base.Units
	}

	// Tri-state: overlay wins only when set
	result.SnapEnabled = overlay.SnapEnabled
	if result.SnapEnabled == nil {
		result.SnapEnabled = base.SnapEnabled
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

func firstInt(overlay, base int) int {
	if overlay != 0 {
		return overlay
	}
	return base
}

func firstFloat(overlay, base float64) float64 {
	if overlay > 0 {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
