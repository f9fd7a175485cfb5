package db

import (
	"context"

	"loggate/internal/models"
)

// IsDelivered reports whether the exact line was already delivered to the
// user for the keyword.
func (d *DB) IsDelivered(ctx context.Context, userID int64, keyword, line string) (bool, error) {
	var exists bool
	err := d.Pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM deliveries WHERE user_id = $1 AND keyword = $2 AND line = $3
		)
	`, userID, keyword, line).Scan(&exists)
	return exists, err
}

// RecordDelivered marks a line as delivered. Idempotent: concurrent scans for
// the same user can race on the same line, so the insert is insert-if-absent
// and reports whether this call created the record.
func (d *DB) RecordDelivered(ctx context.Context, userID int64, keyword, line string) (bool, error) {
	var inserted bool
	err := d.withRetry(ctx, "record delivery", func(ctx context.Context) error {
		tag, err := d.Pool.Exec(ctx, `
			INSERT INTO deliveries (user_id, keyword, line)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, keyword, line) DO NOTHING
		`, userID, keyword, line)
		if err != nil {
			return err
		}
		inserted = tag.RowsAffected() > 0
		return nil
	})
	return inserted, err
}

// CountForUser returns the total delivered lines across all keywords.
func (d *DB) CountForUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := d.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM deliveries WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

// ListKeywordsForUser returns the distinct keywords the user has results for,
// with per-keyword counts, most results first.
func (d *DB) ListKeywordsForUser(ctx context.Context, userID int64) ([]models.KeywordCount, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT keyword, COUNT(*)
		FROM deliveries
		WHERE user_id = $1
		GROUP BY keyword
		ORDER BY COUNT(*) DESC, keyword ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.KeywordCount
	for rows.Next() {
		var kc models.KeywordCount
		if err := rows.Scan(&kc.Keyword, &kc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, kc)
	}
	return counts, rows.Err()
}

// ClearDeliveries removes the user's delivery memory, optionally scoped to a
// single keyword. Cleared lines become deliverable again on the next search.
func (d *DB) ClearDeliveries(ctx context.Context, userID int64, keyword string) error {
	return d.withRetry(ctx, "clear deliveries", func(ctx context.Context) error {
		var err error
		if keyword == "" {
			_, err = d.Pool.Exec(ctx,
				`DELETE FROM deliveries WHERE user_id = $1`, userID)
		} else {
			_, err = d.Pool.Exec(ctx,
				`DELETE FROM deliveries WHERE user_id = $1 AND keyword = $2`, userID, keyword)
		}
		return err
	})
}

// PageDeliveries returns delivered lines for a user and keyword in stable
// insertion order. Ordering ties on found_at break by line content so that
// repeated pagination requests stay deterministic even while new lines are
// being recorded.
func (d *DB) PageDeliveries(ctx context.Context, userID int64, keyword string, offset, limit int) ([]string, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT line FROM deliveries
		WHERE user_id = $1 AND keyword = $2
		ORDER BY found_at ASC, line ASC
		LIMIT $3 OFFSET $4
	`, userID, keyword, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// CountForKeyword returns how many lines are recorded for a user and keyword.
func (d *DB) CountForKeyword(ctx context.Context, userID int64, keyword string) (int, error) {
	var count int
	err := d.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM deliveries WHERE user_id = $1 AND keyword = $2
	`, userID, keyword).Scan(&count)
	return count, err
}
