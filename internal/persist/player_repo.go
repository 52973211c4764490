package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/l1jgo/worldcore/internal/entity"
)

// PlayerRepo stores entity.PlayerSave values as jsonb.
type PlayerRepo struct {
	db *DB
}

func NewPlayerRepo(db *DB) *PlayerRepo {
	return &PlayerRepo{db: db}
}

func (r *PlayerRepo) Load(ctx context.Context, username string) (entity.PlayerSave, bool, error) {
	var raw []byte
	err := r.db.Pool.QueryRow(ctx,
		`SELECT data FROM player_saves WHERE username = $1`, username,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.PlayerSave{}, false, nil
	}
	if err != nil {
		return entity.PlayerSave{}, false, err
	}
	var s entity.PlayerSave
	if err := json.Unmarshal(raw, &s); err != nil {
		return entity.PlayerSave{}, false, fmt.Errorf("decode save %s: %w", username, err)
	}
	return s, true, nil
}

func (r *PlayerRepo) Save(ctx context.Context, s entity.PlayerSave) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode save %s: %w", s.Username, err)
	}
	_, err = r.db.Pool.Exec(ctx,
		`INSERT INTO player_saves (username, data, saved_at) VALUES ($1, $2, NOW())
		 ON CONFLICT (username) DO UPDATE SET data = EXCLUDED.data, saved_at = NOW()`,
		s.Username, raw,
	)
	return err
}
