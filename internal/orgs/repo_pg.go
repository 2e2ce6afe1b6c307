package orgs

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"lexibox-backend/internal/shared/apperr"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const orgColumns = `id, name, created_at, updated_at`

const inviteColumns = `id, email, organization_id, invited_by_user_id, accepted, created_at, accepted_at`

// CreateOrganization inserts a new organization. Duplicate names conflict.
func (r *PGRepo) CreateOrganization(ctx context.Context, org Organization) error {
	const query = `INSERT INTO organizations (id, name, created_at) VALUES ($1, $2, $3)`
	_, err := r.DB.ExecContext(ctx, query, org.ID, org.Name, org.CreatedAt)
	if isUniqueViolation(err) {
		return apperr.Wrap(apperr.ErrConflict, "organization name already taken")
	}
	return err
}

func (r *PGRepo) GetOrganization(ctx context.Context, orgID string) (Organization, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+orgColumns+` FROM organizations WHERE id = $1 LIMIT 1`, orgID)
	org, err := scanOrganization(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Organization{}, apperr.Wrap(apperr.ErrNotFound, "organization not found")
		}
		return Organization{}, err
	}
	return org, nil
}

func (r *PGRepo) ListOrganizations(ctx context.Context) ([]Organization, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+orgColumns+` FROM organizations ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, org)
	}
	return out, rows.Err()
}

// DeleteOrganization removes the organization row only. Members, their
// documents and invitations are cascaded by DeleteCascade.
func (r *PGRepo) DeleteOrganization(ctx context.Context, orgID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM organizations WHERE id = $1`, orgID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.Wrap(apperr.ErrNotFound, "organization not found")
	}
	return nil
}

// CreateInvitation inserts a pending invitation. The partial unique index on
// (email, organization_id) WHERE NOT accepted backs the pre-check under
// concurrent requests.
func (r *PGRepo) CreateInvitation(ctx context.Context, invite Invitation) error {
	const query = `
INSERT INTO user_invitations (id, email, organization_id, invited_by_user_id, accepted, created_at)
VALUES ($1, $2, $3, $4, FALSE, $5)`
	_, err := r.DB.ExecContext(ctx, query,
		invite.ID,
		invite.Email,
		invite.OrganizationID,
		invite.InvitedByUserID,
		invite.CreatedAt,
	)
	if isUniqueViolation(err) {
		return apperr.Wrap(apperr.ErrConflict, "invitation already sent to this email")
	}
	return err
}

func (r *PGRepo) GetInvitation(ctx context.Context, inviteID string) (Invitation, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+inviteColumns+` FROM user_invitations WHERE id = $1 LIMIT 1`, inviteID)
	invite, err := scanInvitation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Invitation{}, apperr.Wrap(apperr.ErrNotFound, "invitation not found")
		}
		return Invitation{}, err
	}
	return invite, nil
}

func (r *PGRepo) FindPending(ctx context.Context, email, orgID string) (Invitation, error) {
	const query = `
SELECT ` + inviteColumns + `
FROM user_invitations
WHERE email = $1 AND organization_id = $2 AND NOT accepted
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, email, orgID)
	invite, err := scanInvitation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Invitation{}, apperr.Wrap(apperr.ErrNotFound, "invitation not found")
		}
		return Invitation{}, err
	}
	return invite, nil
}

func (r *PGRepo) ListPendingByOrganization(ctx context.Context, orgID string) ([]Invitation, error) {
	const query = `
SELECT ` + inviteColumns + `
FROM user_invitations
WHERE organization_id = $1 AND NOT accepted
ORDER BY created_at`
	rows, err := r.DB.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Invitation
	for rows.Next() {
		invite, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, invite)
	}
	return out, rows.Err()
}

// MarkAccepted flips a pending invitation to accepted. Already-accepted
// invitations report not found so a second accept cannot repeat side effects.
func (r *PGRepo) MarkAccepted(ctx context.Context, inviteID string, at time.Time) error {
	const query = `
UPDATE user_invitations SET accepted = TRUE, accepted_at = $1
WHERE id = $2 AND NOT accepted`
	res, err := r.DB.ExecContext(ctx, query, at, inviteID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.Wrap(apperr.ErrNotFound, "invitation not found or already accepted")
	}
	return nil
}

func (r *PGRepo) DeleteInvitationsByOrganization(ctx context.Context, orgID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM user_invitations WHERE organization_id = $1`, orgID)
	return err
}

// AcceptWithMembership performs the accept transition and the member's
// organization assignment in one transaction. Acceptance never grants the
// org-admin flag.
func (r *PGRepo) AcceptWithMembership(ctx context.Context, inviteID, userID, orgID string, at time.Time) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
UPDATE user_invitations SET accepted = TRUE, accepted_at = $1
WHERE id = $2 AND NOT accepted`, at, inviteID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.Wrap(apperr.ErrNotFound, "invitation not found or already accepted")
	}

	if _, err := tx.ExecContext(ctx, `
UPDATE users SET organization_id = $1, is_org_admin = FALSE, updated_at = now()
WHERE id = $2`, orgID, userID); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteCascade removes an organization together with its member users, their
// documents and its invitations, in one transaction.
func (r *PGRepo) DeleteCascade(ctx context.Context, orgID string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
DELETE FROM documents
WHERE user_id IN (SELECT id FROM users WHERE organization_id = $1)`, orgID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE organization_id = $1`, orgID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM user_invitations WHERE organization_id = $1`, orgID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM organizations WHERE id = $1`, orgID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.Wrap(apperr.ErrNotFound, "organization not found")
	}

	return tx.Commit()
}

func scanOrganization(row rowScanner) (Organization, error) {
	var org Organization
	var updatedAt sql.NullTime
	if err := row.Scan(&org.ID, &org.Name, &org.CreatedAt, &updatedAt); err != nil {
		return Organization{}, err
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		org.UpdatedAt = &t
	}
	return org, nil
}

func scanInvitation(row rowScanner) (Invitation, error) {
	var invite Invitation
	var acceptedAt sql.NullTime
	if err := row.Scan(
		&invite.ID,
		&invite.Email,
		&invite.OrganizationID,
		&invite.InvitedByUserID,
		&invite.Accepted,
		&invite.CreatedAt,
		&acceptedAt,
	); err != nil {
		return Invitation{}, err
	}
	if acceptedAt.Valid {
		t := acceptedAt.Time
		invite.AcceptedAt = &t
	}
	return invite, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ Repo = (*PGRepo)(nil)
