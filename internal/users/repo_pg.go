package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"lexibox-backend/internal/shared/apperr"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const userColumns = `id, name, email, hashed_password, is_admin, is_org_admin, organization_id, created_at, updated_at`

// Create inserts a new user. A duplicate email maps to a conflict.
func (r *PGRepo) Create(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, name, email, hashed_password, is_admin, is_org_admin, organization_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.HashedPassword,
		user.IsAdmin,
		user.IsOrgAdmin,
		nullableString(user.OrganizationID),
		user.CreatedAt,
	)
	if isUniqueViolation(err) {
		return apperr.Wrap(apperr.ErrConflict, "email already registered")
	}
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 LIMIT 1`, userID)
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1 LIMIT 1`, email)
}

func (r *PGRepo) ListAll(ctx context.Context) ([]User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
}

func (r *PGRepo) ListByOrganization(ctx context.Context, orgID string) ([]User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users WHERE organization_id = $1 ORDER BY created_at`, orgID)
}

// UpdateName changes the display name and returns the updated record.
func (r *PGRepo) UpdateName(ctx context.Context, userID, name string) (User, error) {
	const query = `
UPDATE users SET name = $1, updated_at = now()
WHERE id = $2
RETURNING ` + userColumns
	return r.scanRow(r.DB.QueryRowContext(ctx, query, name, userID))
}

func (r *PGRepo) UpdatePassword(ctx context.Context, userID, hashedPassword string) error {
	const query = `UPDATE users SET hashed_password = $1, updated_at = now() WHERE id = $2`
	res, err := r.DB.ExecContext(ctx, query, hashedPassword, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *PGRepo) SetAdmin(ctx context.Context, userID string, isAdmin bool) (User, error) {
	const query = `
UPDATE users SET is_admin = $1, updated_at = now()
WHERE id = $2
RETURNING ` + userColumns
	return r.scanRow(r.DB.QueryRowContext(ctx, query, isAdmin, userID))
}

// SetMembership updates the organization reference and org-admin flag together.
func (r *PGRepo) SetMembership(ctx context.Context, userID string, orgID *string, isOrgAdmin bool) (User, error) {
	const query = `
UPDATE users SET organization_id = $1, is_org_admin = $2, updated_at = now()
WHERE id = $3
RETURNING ` + userColumns
	return r.scanRow(r.DB.QueryRowContext(ctx, query, nullableString(orgID), isOrgAdmin, userID))
}

// Delete removes the user row only. Callers that need the document cascade
// use DeleteWithDocuments.
func (r *PGRepo) Delete(ctx context.Context, userID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteWithDocuments removes a user and all documents they own in one
// transaction, so a partially applied cascade is never observable.
func (r *PGRepo) DeleteWithDocuments(ctx context.Context, userID string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE user_id = $1`, userID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return err
	}
	if err := requireAffected(res); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PGRepo) Count(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users`)
}

func (r *PGRepo) CountAdmins(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users WHERE is_admin`)
}

func (r *PGRepo) getOne(ctx context.Context, query string, args ...any) (User, error) {
	return r.scanRow(r.DB.QueryRowContext(ctx, query, args...))
}

func (r *PGRepo) list(ctx context.Context, query string, args ...any) ([]User, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	return out, rows.Err()
}

func (r *PGRepo) count(ctx context.Context, query string) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) scanRow(row *sql.Row) (User, error) {
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, apperr.Wrap(apperr.ErrNotFound, "user not found")
		}
		return User{}, err
	}
	return user, nil
}

func scanUser(row rowScanner) (User, error) {
	var user User
	var orgID sql.NullString
	var updatedAt sql.NullTime
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.HashedPassword,
		&user.IsAdmin,
		&user.IsOrgAdmin,
		&orgID,
		&user.CreatedAt,
		&updatedAt,
	); err != nil {
		return User{}, err
	}
	if orgID.Valid {
		user.OrganizationID = &orgID.String
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		user.UpdatedAt = &t
	}
	return user, nil
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.Wrap(apperr.ErrNotFound, "user not found")
	}
	return nil
}

func nullableString(value *string) any {
	if value == nil || *value == "" {
		return nil
	}
	return *value
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ Repo = (*PGRepo)(nil)
