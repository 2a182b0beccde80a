package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = "id, user_id, file_name, file_id, file_url, size_bytes, uploaded_at, analysis"

// Create inserts a new document row.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (id, user_id, file_name, file_id, file_url, size_bytes, uploaded_at, analysis)
VALUES ($1, $2, $3, $4, $5, $6, $7, NULL)`

	_, err := r.DB.ExecContext(ctx, query,
		doc.ID,
		doc.UserID,
		doc.FileName,
		doc.FileID,
		doc.FileURL,
		doc.Size,
		doc.UploadedAt,
	)
	return err
}

// GetByFileID fetches a document by blob key, scoped to the owning user.
func (r *PGRepo) GetByFileID(ctx context.Context, userID, fileID string) (Document, error) {
	query := `
SELECT ` + documentColumns + `
FROM documents
WHERE user_id = $1 AND file_id = $2
LIMIT 1`

	row := r.DB.QueryRowContext(ctx, query, userID, fileID)
	doc, err := scanDocument(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// List returns the user's documents matching the query. Unrecognized sort
// fields silently fall back to uploaded_at descending.
func (r *PGRepo) List(ctx context.Context, userID string, q ListQuery) ([]Document, error) {
	query := `
SELECT ` + documentColumns + `
FROM documents
WHERE user_id = $1`
	args := []any{userID}

	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		query += fmt.Sprintf(" AND file_name ILIKE $%d", len(args))
	}
	if q.StartDate != nil {
		args = append(args, *q.StartDate)
		query += fmt.Sprintf(" AND uploaded_at >= $%d", len(args))
	}
	if q.EndDate != nil {
		args = append(args, *q.EndDate)
		query += fmt.Sprintf(" AND uploaded_at <= $%d", len(args))
	}
	query += " ORDER BY " + sortColumn(q.SortBy) + " " + sortDirection(q.SortOrder)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// SaveAnalysis caches the structured analysis on the document row.
func (r *PGRepo) SaveAnalysis(ctx context.Context, userID, fileID string, analysis Analysis) error {
	const query = `
UPDATE documents
SET analysis = $1
WHERE user_id = $2 AND file_id = $3`

	raw, err := json.Marshal(analysis)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query, raw, userID, fileID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByFileID removes the document row, scoped to the owning user.
func (r *PGRepo) DeleteByFileID(ctx context.Context, userID, fileID string) error {
	const query = `
DELETE FROM documents
WHERE user_id = $1 AND file_id = $2`

	res, err := r.DB.ExecContext(ctx, query, userID, fileID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanDocument(scan func(dest ...any) error) (Document, error) {
	var doc Document
	var analysisRaw []byte
	if err := scan(
		&doc.ID,
		&doc.UserID,
		&doc.FileName,
		&doc.FileID,
		&doc.FileURL,
		&doc.Size,
		&doc.UploadedAt,
		&analysisRaw,
	); err != nil {
		return Document{}, err
	}
	if len(analysisRaw) > 0 {
		var analysis Analysis
		if err := json.Unmarshal(analysisRaw, &analysis); err != nil {
			return Document{}, fmt.Errorf("decode analysis: %w", err)
		}
		doc.Analysis = &analysis
	}
	return doc, nil
}

func sortColumn(sortBy string) string {
	switch sortBy {
	case "fileName":
		return "file_name"
	case "size":
		return "size_bytes"
	case "uploadedAt":
		return "uploaded_at"
	default:
		return "uploaded_at"
	}
}

func sortDirection(sortOrder string) string {
	if strings.EqualFold(sortOrder, "asc") {
		return "ASC"
	}
	return "DESC"
}

var _ Repo = (*PGRepo)(nil)
