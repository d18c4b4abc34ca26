package ops

import (
	"fmt"
	"io"

	"github.com/hpungsan/floorplan/internal/errors"
	"github.com/hpungsan/floorplan/internal/floorplan"
)

// maxImportBytes bounds how much of a file Import will read.
const maxImportBytes = 32 << 20

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path string // required
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Counts   floorplan.Counts `json:"counts"`
	Elements int              `json:"elements"`
}

// ReadDocument reads and validates an exported floorplan file without
// touching any editor. Dangling door/window wall references, duplicate ids
// and unknown units are rejected as MALFORMED_DOCUMENT.
func ReadDocument(path string) (*floorplan.Floorplan, error) {
	if err := ValidatePath(path, PathCheckRead); err != nil {
		return nil, err
	}

	file, err := openFileNoFollowRead(path)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) || errors.Is(err, errors.ErrInvalidRequest) {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open import file: %w", err))
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImportBytes+1))
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to read import file: %w", err))
	}
	if len(data) > maxImportBytes {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("import file exceeds %d bytes", maxImportBytes))
	}

	return floorplan.Unmarshal(data)
}

// Import loads an exported file into the editor, replacing the live document.
// On any error the editor is untouched.
func Import(editor *Editor, input ImportInput) (*ImportOutput, error) {
	if input.Path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}

	doc, err := ReadDocument(input.Path)
	if err != nil {
		return nil, err
	}
	editor.Load(doc)

	counts := doc.Counts()
	return &ImportOutput{
		ID:       doc.ID,
		Name:     doc.Name,
		Counts:   counts,
		Elements: counts.Total(),
	}, nil
}
