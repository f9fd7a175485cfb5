package models

import "time"

// Search outcome labels recorded for metrics export.
const (
	OutcomeFound      = "found"
	OutcomeNoNew      = "no_new_results"
	OutcomeNoAccess   = "no_access"
	OutcomeCooldown   = "cooldown"
	OutcomeEmptyQuery = "empty"
)

// SearchLookup is an aggregated per-keyword search outcome counter.
type SearchLookup struct {
	Keyword    string    `json:"keyword"`
	Outcome    string    `json:"outcome"`
	Count      int64     `json:"count"`
	LastSeenAt time.Time `json:"last_seen_at"`
}
