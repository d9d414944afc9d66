package invites

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Invite struct {
	ID         int64      `json:"id"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	InvitedBy  int64      `json:"invited_by"`
	ExpiresAt  time.Time  `json:"expires_at"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Upsert replaces any earlier pending invite for the same email.
func (r *Repo) Upsert(ctx context.Context, email, role, tokenHash string, invitedBy int64, expiresAt time.Time) (Invite, error) {
	var inv Invite
	err := r.db.QueryRow(ctx, `
		INSERT INTO pending_invites (email, role, token_hash, invited_by, expires_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (email)
		DO UPDATE SET role=EXCLUDED.role, token_hash=EXCLUDED.token_hash,
		              invited_by=EXCLUDED.invited_by, expires_at=EXCLUDED.expires_at,
		              accepted_at=NULL
		RETURNING id, email, role, invited_by, expires_at, accepted_at, created_at
	`, email, role, tokenHash, invitedBy, expiresAt).Scan(
		&inv.ID, &inv.Email, &inv.Role, &inv.InvitedBy, &inv.ExpiresAt, &inv.AcceptedAt, &inv.CreatedAt,
	)
	return inv, err
}

// GetValid resolves an unexpired, unaccepted invite by its token hash.
func (r *Repo) GetValid(ctx context.Context, tokenHash string) (Invite, error) {
	var inv Invite
	err := r.db.QueryRow(ctx, `
		SELECT id, email, role, invited_by, expires_at, accepted_at, created_at
		FROM pending_invites
		WHERE token_hash=$1 AND accepted_at IS NULL AND expires_at > now()
	`, tokenHash).Scan(
		&inv.ID, &inv.Email, &inv.Role, &inv.InvitedBy, &inv.ExpiresAt, &inv.AcceptedAt, &inv.CreatedAt,
	)
	return inv, err
}

func (r *Repo) MarkAccepted(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE pending_invites SET accepted_at=now() WHERE id=$1 AND accepted_at IS NULL
	`, id)
	return err
}

func (r *Repo) ListPending(ctx context.Context) ([]Invite, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, email, role, invited_by, expires_at, accepted_at, created_at
		FROM pending_invites
		WHERE accepted_at IS NULL AND expires_at > now()
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Invite
	for rows.Next() {
		var inv Invite
		if err := rows.Scan(&inv.ID, &inv.Email, &inv.Role, &inv.InvitedBy, &inv.ExpiresAt,
			&inv.AcceptedAt, &inv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}
