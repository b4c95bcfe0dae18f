package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresStateRepository struct {
	pool *pgxpool.Pool
	key  string
}

// NewPostgresStateRepository stores the document in the app_state table, one row per key.
func NewPostgresStateRepository(pool *pgxpool.Pool, key string) StateRepository {
	return &postgresStateRepository{pool: pool, key: key}
}

func (r *postgresStateRepository) Load(ctx context.Context) ([]byte, error) {
	const query = `SELECT document FROM app_state WHERE storage_key=$1`
	var document []byte
	if err := r.pool.QueryRow(ctx, query, r.key).Scan(&document); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStateNotFound
		}
		return nil, err
	}
	return document, nil
}

func (r *postgresStateRepository) Save(ctx context.Context, document []byte) error {
	const query = `
        INSERT INTO app_state (storage_key, document, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (storage_key) DO UPDATE SET document=EXCLUDED.document, updated_at=NOW()`
	_, err := r.pool.Exec(ctx, query, r.key, string(document))
	return err
}

func (r *postgresStateRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
