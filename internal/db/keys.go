package db

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"loggate/internal/models"
)

const tokenAttempts = 10

// generateToken produces a redemption token of the form KEY-NNNNNN with a
// cryptographically random six digit suffix.
func generateToken() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("KEY-%06d", n.Int64()+100000), nil
}

// CreateKeys generates count keys that all expire validityDays from now.
// Each token is inserted with a bounded collision-retry loop; if a unique
// token cannot be found the whole call fails with ErrTokenExhausted rather
// than silently returning fewer keys than requested.
func (d *DB) CreateKeys(ctx context.Context, validityDays, count int) ([]string, error) {
	expires := time.Now().Add(time.Duration(validityDays) * 24 * time.Hour)

	tokens := make([]string, 0, count)
	for i := 0; i < count; i++ {
		token, err := d.insertKey(ctx, expires)
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, token)
	}
	return tokens, nil
}

func (d *DB) insertKey(ctx context.Context, expires time.Time) (string, error) {
	for attempt := 0; attempt < tokenAttempts; attempt++ {
		token, err := generateToken()
		if err != nil {
			return "", err
		}

		err = d.withRetry(ctx, "insert key", func(ctx context.Context) error {
			_, err := d.Pool.Exec(ctx, `
				INSERT INTO keys (token, expires_at) VALUES ($1, $2)
			`, token, expires)
			return err
		})
		if err == nil {
			return token, nil
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			continue // token collision, try again
		}
		return "", err
	}
	return "", ErrTokenExhausted
}

// Redeem atomically claims an unredeemed key for the user and grants access
// until the key's expiry. Exactly one of any set of concurrent redemption
// attempts on the same token succeeds; the rest get ErrInvalidOrUsedKey.
func (d *DB) Redeem(ctx context.Context, token string, userID int64) (time.Time, error) {
	var expires time.Time
	err := d.withRetry(ctx, "redeem key", func(ctx context.Context) error {
		tx, err := d.Pool.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		// The WHERE redeemed_by IS NULL predicate is the single-winner
		// guarantee: the row update takes a lock, so a concurrent redeemer
		// sees redeemed_by already set and matches zero rows.
		err = tx.QueryRow(ctx, `
			UPDATE keys SET redeemed_by = $1
			WHERE token = $2 AND redeemed_by IS NULL
			RETURNING expires_at
		`, userID, token).Scan(&expires)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrInvalidOrUsedKey
		}
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO users (user_id, expires_at)
			VALUES ($1, $2)
			ON CONFLICT (user_id) DO UPDATE SET expires_at = EXCLUDED.expires_at
		`, userID, expires); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return time.Time{}, err
	}
	return expires, nil
}

// DeleteKey removes a key by token. Idempotent: deleting an absent key is
// not an error.
func (d *DB) DeleteKey(ctx context.Context, token string) error {
	return d.withRetry(ctx, "delete key", func(ctx context.Context) error {
		_, err := d.Pool.Exec(ctx, `DELETE FROM keys WHERE token = $1`, token)
		return err
	})
}

// ListKeys returns keys matching an optional substring filter (on the token
// or the redeeming user id), newest expiry first, with the total match count
// for pagination.
func (d *DB) ListKeys(ctx context.Context, filter string, limit, offset int) ([]models.Key, int, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if filter != "" {
		pattern := "%" + filter + "%"
		rows, err = d.Pool.Query(ctx, `
			SELECT id, token, expires_at, redeemed_by, created_at
			FROM keys
			WHERE token ILIKE $1 OR CAST(redeemed_by AS TEXT) ILIKE $1
			ORDER BY expires_at DESC NULLS LAST, token ASC
			LIMIT $2 OFFSET $3
		`, pattern, limit, offset)
	} else {
		rows, err = d.Pool.Query(ctx, `
			SELECT id, token, expires_at, redeemed_by, created_at
			FROM keys
			ORDER BY expires_at DESC NULLS LAST, token ASC
			LIMIT $1 OFFSET $2
		`, limit, offset)
	}
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var keys []models.Key
	for rows.Next() {
		var k models.Key
		if err := rows.Scan(&k.ID, &k.Token, &k.ExpiresAt, &k.RedeemedBy, &k.CreatedAt); err != nil {
			return nil, 0, err
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if filter != "" {
		pattern := "%" + filter + "%"
		err = d.Pool.QueryRow(ctx, `
			SELECT COUNT(*) FROM keys
			WHERE token ILIKE $1 OR CAST(redeemed_by AS TEXT) ILIKE $1
		`, pattern).Scan(&total)
	} else {
		err = d.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM keys`).Scan(&total)
	}
	if err != nil {
		return nil, 0, err
	}

	return keys, total, nil
}

// GetKeyByToken retrieves a single key.
func (d *DB) GetKeyByToken(ctx context.Context, token string) (*models.Key, error) {
	var k models.Key
	err := d.Pool.QueryRow(ctx, `
		SELECT id, token, expires_at, redeemed_by, created_at
		FROM keys WHERE token = $1
	`, token).Scan(&k.ID, &k.Token, &k.ExpiresAt, &k.RedeemedBy, &k.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &k, nil
}
