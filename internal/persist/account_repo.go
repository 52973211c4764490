package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

type AccountRow struct {
	Name         string
	PasswordHash string
	Banned       bool
	Online       bool
	CreatedAt    time.Time
	LastActive   *time.Time
}

type AccountRepo struct {
	db *DB
}

func NewAccountRepo(db *DB) *AccountRepo {
	return &AccountRepo{db: db}
}

func (r *AccountRepo) Load(ctx context.Context, name string) (*AccountRow, error) {
	row := &AccountRow{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT name, password_hash, banned, online, created_at, last_active
		 FROM accounts WHERE name = $1`, name,
	).Scan(&row.Name, &row.PasswordHash, &row.Banned, &row.Online, &row.CreatedAt, &row.LastActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (r *AccountRepo) Create(ctx context.Context, name, rawPassword string) (*AccountRow, error) {
	hash, err := hashPassword(rawPassword)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	row := &AccountRow{
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    now,
		LastActive:   &now,
	}
	_, err = r.db.Pool.Exec(ctx,
		`INSERT INTO accounts (name, password_hash, last_active) VALUES ($1, $2, $3)`,
		row.Name, row.PasswordHash, row.LastActive,
	)
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (r *AccountRepo) Authenticate(ctx context.Context, name, password string, autoCreate bool) error {
	row, err := r.Load(ctx, name)
	if err != nil {
		return fmt.Errorf("load account %s: %w", name, err)
	}
	if row == nil {
		if !autoCreate {
			return ErrBadCredentials
		}
		if _, err := r.Create(ctx, name, password); err != nil {
			return fmt.Errorf("create account %s: %w", name, err)
		}
		return nil
	}
	if row.Banned {
		return ErrBanned
	}
	if !passwordMatches(row.PasswordHash, password) {
		return ErrBadCredentials
	}
	return r.UpdateLastActive(ctx, name)
}

func (r *AccountRepo) UpdateLastActive(ctx context.Context, name string) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE accounts SET last_active = NOW() WHERE name = $1`, name)
	return err
}

func (r *AccountRepo) SetOnline(ctx context.Context, name string, online bool) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE accounts SET online = $2 WHERE name = $1`, name, online)
	return err
}

// ResetOnline clears stale online flags left by an unclean shutdown.
func (r *AccountRepo) ResetOnline(ctx context.Context) error {
	_, err := r.db.Pool.Exec(ctx, `UPDATE accounts SET online = FALSE WHERE online`)
	return err
}
