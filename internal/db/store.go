package db

import (
	"database/sql"
	"strings"
	"time"

	"github.com/hpungsan/floorplan/internal/errors"
	"github.com/hpungsan/floorplan/internal/floorplan"
)

// Record is one saved floorplan row.
type Record struct {
	ID           string
	Name         string
	Units        string
	Document     []byte
	ElementCount int
	CreatedAt    int64
	UpdatedAt    int64
	DeletedAt    *int64
}

// Summary is a Record without its document, for listings.
type Summary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Units        string `json:"units"`
	ElementCount int    `json:"elements"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
}

// Summary drops the document.
func (r *Record) Summary() Summary {
	return Summary{
		ID:           r.ID,
		Name:         r.Name,
		Units:        r.Units,
		ElementCount: r.ElementCount,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// ListOptions pages through saved floorplans.
type ListOptions struct {
	Name   string // exact match after normalization; empty matches all
	Limit  int
	Offset int
}

// Save stores doc under its id, replacing the previous version. A soft-deleted
// row with the same id is restored. Documents that Load would reject (a door
// or window on a missing wall) are refused with MALFORMED_DOCUMENT.
func Save(db *sql.DB, doc *floorplan.Floorplan) (*Record, error) {
	if doc == nil || doc.ID == "" {
		return nil, errors.NewInvalidRequest("floorplan id is required")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	now := time.Now().Unix()
	data, err := floorplan.Marshal(doc, now)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	elements := doc.Counts().Total()

	query := `
		INSERT INTO floorplans (
			id, name, name_norm, units, document_json, element_count,
			created_at, updated_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			name_norm = excluded.name_norm,
			units = excluded.units,
			document_json = excluded.document_json,
			element_count = excluded.element_count,
			updated_at = excluded.updated_at,
			deleted_at = NULL
	`
	if _, err := db.Exec(query,
		doc.ID, doc.Name, NormalizeName(doc.Name), string(doc.Units), string(data), elements,
		now, now,
	); err != nil {
		return nil, errors.NewInternal(err)
	}

	return Get(db, doc.ID, false)
}

// Get retrieves a saved floorplan by id.
// If includeDeleted is false, soft-deleted rows are excluded.
func Get(db *sql.DB, id string, includeDeleted bool) (*Record, error) {
	query := `
		SELECT id, name, units, document_json, element_count,
			created_at, updated_at, deleted_at
		FROM floorplans
		WHERE id = ?
	`
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}

	var (
		r         Record
		document  string
		deletedAt sql.NullInt64
	)
	err := db.QueryRow(query, id).Scan(
		&r.ID, &r.Name, &r.Units, &document, &r.ElementCount,
		&r.CreatedAt, &r.UpdatedAt, &deletedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	r.Document = []byte(document)
	if deletedAt.Valid {
		r.DeletedAt = &deletedAt.Int64
	}
	return &r, nil
}

// Load retrieves and decodes a saved floorplan.
func Load(db *sql.DB, id string) (*floorplan.Floorplan, error) {
	r, err := Get(db, id, false)
	if err != nil {
		return nil, err
	}
	return floorplan.Unmarshal(r.Document)
}

// List returns summaries of live floorplans, most recently updated first,
// and the total number matching before paging.
func List(db *sql.DB, opts ListOptions) ([]Summary, int, error) {
	where := "WHERE deleted_at IS NULL"
	var args []any
	if opts.Name != "" {
		where += " AND name_norm = ?"
		args = append(args, NormalizeName(opts.Name))
	}

	var total int
	if err := db.QueryRow("SELECT COUNT(*) FROM floorplans "+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = -1
	}
	query := `
		SELECT id, name, units, element_count, created_at, updated_at
		FROM floorplans ` + where + `
		ORDER BY updated_at DESC, id DESC
		LIMIT ? OFFSET ?
	`
	rows, err := db.Query(query, append(args, limit, max(opts.Offset, 0))...)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Name, &s.Units, &s.ElementCount, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	return out, total, nil
}

// SoftDelete marks a floorplan as deleted by setting deleted_at.
func SoftDelete(db *sql.DB, id string) error {
	result, err := db.Exec(`
		UPDATE floorplans
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, time.Now().Unix(), id)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(id)
	}
	return nil
}

// Purge permanently removes soft-deleted rows deleted at or before cutoff and
// returns how many were removed.
func Purge(db *sql.DB, cutoff time.Time) (int, error) {
	result, err := db.Exec(
		"DELETE FROM floorplans WHERE deleted_at IS NOT NULL AND deleted_at <= ?",
		cutoff.Unix(),
	)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return int(n), nil
}

// NormalizeName folds a floorplan name for lookup: lowercase with runs of
// whitespace collapsed to one space.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
