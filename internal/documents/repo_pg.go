package documents

import (
	"context"
	"database/sql"
	"errors"

	"lexibox-backend/internal/shared/apperr"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `id, filename, file_path, content, upload_date, user_id`

func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (id, filename, file_path, content, upload_date, user_id)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.DB.ExecContext(ctx, query,
		doc.ID,
		doc.Filename,
		doc.StoragePath,
		doc.Content,
		doc.UploadedAt,
		doc.UserID,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID, docID string) (Document, error) {
	const query = `SELECT ` + documentColumns + ` FROM documents WHERE id = $1 AND user_id = $2 LIMIT 1`
	return r.scanRow(r.DB.QueryRowContext(ctx, query, docID, userID))
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Document, error) {
	const query = `SELECT ` + documentColumns + ` FROM documents WHERE user_id = $1 ORDER BY upload_date DESC`
	return r.list(ctx, query, userID)
}

// Search matches the query as a case-insensitive substring of the filename or
// the extracted content, within the user's own documents.
func (r *PGRepo) Search(ctx context.Context, userID, query string) ([]Document, error) {
	const q = `
SELECT ` + documentColumns + `
FROM documents
WHERE user_id = $1 AND (filename ILIKE '%' || $2 || '%' OR content ILIKE '%' || $2 || '%')
ORDER BY upload_date DESC`
	return r.list(ctx, q, userID, query)
}

func (r *PGRepo) Delete(ctx context.Context, userID, docID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM documents WHERE id = $1 AND user_id = $2`, docID, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.Wrap(apperr.ErrNotFound, "document not found")
	}
	return nil
}

func (r *PGRepo) DeleteByUser(ctx context.Context, userID string) (int, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM documents WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

func (r *PGRepo) ListAll(ctx context.Context) ([]Document, error) {
	return r.list(ctx, `SELECT `+documentColumns+` FROM documents ORDER BY upload_date DESC`)
}

func (r *PGRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PGRepo) list(ctx context.Context, query string, args ...any) ([]Document, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (r *PGRepo) scanRow(row *sql.Row) (Document, error) {
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, apperr.Wrap(apperr.ErrNotFound, "document not found")
		}
		return Document{}, err
	}
	return doc, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	if err := row.Scan(
		&doc.ID,
		&doc.Filename,
		&doc.StoragePath,
		&doc.Content,
		&doc.UploadedAt,
		&doc.UserID,
	); err != nil {
		return Document{}, err
	}
	return doc, nil
}

var _ Repo = (*PGRepo)(nil)
