package models

import "time"

// Delivery records a log line already sent to a user for a keyword.
// The (user, keyword, line) triple is the dedup contract: once recorded,
// that line is never re-delivered for that keyword, across restarts,
// until the user resets their search memory.
type Delivery struct {
	UserID  int64     `json:"user_id"`
	Keyword string    `json:"keyword"`
	Line    string    `json:"line"`
	FoundAt time.Time `json:"found_at"`
}

// KeywordCount is one row of a user's per-keyword delivery summary.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}
