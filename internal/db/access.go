package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"loggate/internal/models"
)

// HasAccess reports whether the user currently holds a valid access grant.
// An expired record is deleted as a side effect: checking access and garbage
// collecting stale grants are the same operation.
func (d *DB) HasAccess(ctx context.Context, userID int64) (bool, error) {
	var expires *time.Time
	err := d.Pool.QueryRow(ctx,
		`SELECT expires_at FROM users WHERE user_id = $1`, userID).Scan(&expires)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if expires != nil && time.Now().Before(*expires) {
		return true, nil
	}

	// Expired (or never granted): lazily evict the record.
	if _, err := d.Pool.Exec(ctx, `DELETE FROM users WHERE user_id = $1`, userID); err != nil {
		return false, err
	}
	return false, nil
}

// GrantAccess upserts the user's expiry. Grants do not stack: a new grant
// overwrites whatever expiry was there before.
func (d *DB) GrantAccess(ctx context.Context, userID int64, expiresAt time.Time) error {
	return d.withRetry(ctx, "grant access", func(ctx context.Context) error {
		_, err := d.Pool.Exec(ctx, `
			INSERT INTO users (user_id, expires_at)
			VALUES ($1, $2)
			ON CONFLICT (user_id) DO UPDATE SET expires_at = EXCLUDED.expires_at
		`, userID, expiresAt)
		return err
	})
}

// RevokeAccess deletes the user's access record. Idempotent.
func (d *DB) RevokeAccess(ctx context.Context, userID int64) error {
	return d.withRetry(ctx, "revoke access", func(ctx context.Context) error {
		_, err := d.Pool.Exec(ctx, `DELETE FROM users WHERE user_id = $1`, userID)
		return err
	})
}

// GetAccessExpiry returns the user's expiry without evicting expired records.
// Returns ErrAccessNotFound if the user has no record at all.
func (d *DB) GetAccessExpiry(ctx context.Context, userID int64) (*time.Time, error) {
	var expires *time.Time
	err := d.Pool.QueryRow(ctx,
		`SELECT expires_at FROM users WHERE user_id = $1`, userID).Scan(&expires)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAccessNotFound
	}
	if err != nil {
		return nil, err
	}
	return expires, nil
}

// TouchLastActive records that the user interacted with the bot just now,
// creating the row if needed without disturbing any existing expiry.
func (d *DB) TouchLastActive(ctx context.Context, userID int64) error {
	return d.withRetry(ctx, "touch last active", func(ctx context.Context) error {
		_, err := d.Pool.Exec(ctx, `
			INSERT INTO users (user_id, expires_at, last_active)
			VALUES ($1, NULL, NOW())
			ON CONFLICT (user_id) DO UPDATE SET last_active = NOW()
		`, userID)
		return err
	})
}

// UserStats summarises the user population for the admin dashboard.
type UserStats struct {
	TotalUsers  int `json:"total_users"`
	ActiveUsers int `json:"active_users"`
	OnlineUsers int `json:"online_users"`
}

// GetUserStats returns user counts: total, with unexpired access, and active
// within the given window.
func (d *DB) GetUserStats(ctx context.Context, onlineWindow time.Duration) (*UserStats, error) {
	var stats UserStats
	err := d.Pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE expires_at IS NOT NULL AND expires_at > NOW()),
		       COUNT(*) FILTER (WHERE last_active IS NOT NULL AND last_active > $1)
		FROM users
	`, time.Now().Add(-onlineWindow)).Scan(&stats.TotalUsers, &stats.ActiveUsers, &stats.OnlineUsers)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// ListUsers returns access records ordered by expiry, most recent grants first.
func (d *DB) ListUsers(ctx context.Context, limit, offset int) ([]models.AccessRecord, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT user_id, expires_at, last_active
		FROM users
		ORDER BY expires_at DESC NULLS LAST, user_id ASC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.AccessRecord
	for rows.Next() {
		var u models.AccessRecord
		if err := rows.Scan(&u.UserID, &u.ExpiresAt, &u.LastActive); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
