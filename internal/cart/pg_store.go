package cart

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore keeps one blob per owner key. Writes overwrite unconditionally —
// last write wins, mirroring the single-blob storage model the cart was
// designed around.
type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Load(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(ctx, `
		SELECT payload FROM cart_snapshots WHERE owner_key=$1
	`, key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *PGStore) Save(ctx context.Context, key string, data []byte) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO cart_snapshots (owner_key, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (owner_key)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()
	`, key, data)
	return err
}
