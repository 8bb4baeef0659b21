package clientstorage

import (
	"context"
	"errors"
	"io"
	"log"

	"association-storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Get(ctx context.Context, profileID, key string) ([]byte, error) {
	const q = `
SELECT value
FROM client_storage
WHERE profile_id = $1 AND key = $2
`
	var value string
	err := r.pool.QueryRow(ctx, q, profileID, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("storage repo: get profile=%s key=%s error=%v", profileID, key, err)
		return nil, err
	}
	return []byte(value), nil
}

func (r *postgresRepo) Set(ctx context.Context, profileID, key string, value []byte) error {
	const q = `
INSERT INTO client_storage (profile_id, key, value, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (profile_id, key) DO UPDATE
SET value = EXCLUDED.value,
    updated_at = EXCLUDED.updated_at
`
	if _, err := r.pool.Exec(ctx, q, profileID, key, string(value)); err != nil {
		r.logger.Printf("storage repo: set profile=%s key=%s error=%v", profileID, key, err)
		return err
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, profileID, key string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM client_storage WHERE profile_id = $1 AND key = $2`, profileID, key)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
