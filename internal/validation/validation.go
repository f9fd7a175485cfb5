// Package validation holds input normalization and limits shared by the chat
// and admin surfaces.
package validation

import "strings"

// Admin key generation limits, matching the dashboard form.
const (
	MinKeyDays  = 1
	MinKeyCount = 1
	MaxKeyCount = 2000
)

// NormalizeKeyword trims surrounding whitespace and case-folds the keyword so
// matching and dedup are case-insensitive. An empty result means the search
// should be rejected before touching any ledger.
func NormalizeKeyword(keyword string) string {
	return strings.ToLower(strings.TrimSpace(keyword))
}

// ValidateKeyGeneration checks admin key generation parameters.
func ValidateKeyGeneration(days, count int) bool {
	return days >= MinKeyDays && count >= MinKeyCount && count <= MaxKeyCount
}
