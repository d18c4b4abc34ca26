package ops

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/hpungsan/floorplan/internal/errors"
	"github.com/hpungsan/floorplan/internal/floorplan"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path string // optional, default: <exports dir>/<name>-<timestamp>.json
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	ID         string `json:"id"`
	Elements   int    `json:"elements"`
	ExportedAt int64  `json:"exported_at"`
}

// Export writes the editor's live document to a JSON file.
// The file is written to a temp path and renamed into place, so an existing
// file survives a failed export. A document Import would reject is not written.
func Export(ctx context.Context, editor *Editor, exportsDir string, input ExportInput) (*ExportOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	now := time.Now()
	doc := editor.Snapshot()
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	exportPath := input.Path
	if exportPath == "" {
		exportPath = defaultExportPath(exportsDir, doc.Name, now)
	}
	if err := ValidatePath(exportPath, PathCheckWrite); err != nil {
		return nil, err
	}

	data, err := floorplan.Marshal(doc, now.Unix())
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	if err := os.MkdirAll(filepath.Dir(exportPath), 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}
	if err := writeFileAtomic(exportPath, data); err != nil {
		return nil, err
	}

	return &ExportOutput{
		Path:       exportPath,
		ID:         doc.ID,
		Elements:   doc.Counts().Total(),
		ExportedAt: now.Unix(),
	}, nil
}

// writeFileAtomic writes data to a random temp file beside path, syncs it
// and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := path + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	if _, err := file.Write(append(data, '\n')); err != nil {
		return errors.NewInternal(err)
	}
	if err := file.Sync(); err != nil {
		return errors.NewInternal(err)
	}
	// Close before rename (required on Windows).
	if err := file.Close(); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	// os.Rename would follow a symlink at the destination.
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return errors.NewInvalidRequest("export path is a symlink")
	}

	if err := os.Rename(tempPath, path); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(path); statErr == nil {
				return errors.NewInvalidRequest("export destination already exists; choose a new path or delete the existing file")
			}
		}
		return errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	success = true
	return nil
}

// defaultExportPath builds <dir>/<name>-<timestamp>.json.
func defaultExportPath(dir, name string, now time.Time) string {
	filename := fmt.Sprintf("%s-%s.json", SanitizeForFilename(name), now.Format("2006-01-02T150405"))
	return filepath.Join(dir, filename)
}
