// Package search orchestrates the gated, deduplicated search pipeline:
// cooldown check, access check, corpus scan, delivery dedup, and result cap.
package search

import (
	"context"
	"strings"
	"time"

	"loggate/internal/cooldown"
	"loggate/internal/corpus"
	"loggate/internal/validation"
)

// Status classifies a search outcome.
type Status int

const (
	// StatusFound means the batch contains at least one newly delivered line.
	StatusFound Status = iota
	// StatusNoNewResults means the scan completed but every match had
	// already been delivered.
	StatusNoNewResults
	// StatusEmptyKeyword means the keyword was blank after normalization.
	StatusEmptyKeyword
	// StatusNoAccess means the user has no unexpired access grant.
	StatusNoAccess
	// StatusCooldown means the user searched successfully too recently.
	StatusCooldown
)

// Outcome is the result of one search attempt.
type Outcome struct {
	Status  Status
	Keyword string // normalized keyword
	Lines   []string
	Capped  bool // the scan short-circuited at the result cap

	// Remaining is set for StatusCooldown.
	Remaining time.Duration
}

// AccessLedger is the slice of the access store the engine needs.
type AccessLedger interface {
	HasAccess(ctx context.Context, userID int64) (bool, error)
}

// DeliveryLedger is the slice of the delivery store the engine needs.
// RecordDelivered must be insert-if-absent: when two concurrent scans race on
// the same line only one call reports inserted=true, and only that flow
// counts the line as new.
type DeliveryLedger interface {
	RecordDelivered(ctx context.Context, userID int64, keyword, line string) (inserted bool, err error)
}

// Engine runs searches for chat users.
type Engine struct {
	corpus     *corpus.Store
	gate       *cooldown.Gate
	access     AccessLedger
	deliveries DeliveryLedger
	maxResults int
}

// NewEngine creates a search engine. maxResults is the hard cap on lines
// returned (and recorded) per search.
func NewEngine(store *corpus.Store, gate *cooldown.Gate, access AccessLedger, deliveries DeliveryLedger, maxResults int) *Engine {
	return &Engine{
		corpus:     store,
		gate:       gate,
		access:     access,
		deliveries: deliveries,
		maxResults: maxResults,
	}
}

// MaxResults returns the configured result cap.
func (e *Engine) MaxResults() int {
	return e.maxResults
}

// Search runs one search attempt for the user.
//
// The cooldown check runs first because it is the cheapest rejection path:
// a denied attempt touches neither the corpus nor any ledger. The cooldown
// timer is started only when the search produced new lines, so "no new
// results" attempts are never penalized.
func (e *Engine) Search(ctx context.Context, userID int64, rawKeyword string) (*Outcome, error) {
	keyword := validation.NormalizeKeyword(rawKeyword)

	if allowed, remaining := e.gate.Check(userID); !allowed {
		return &Outcome{Status: StatusCooldown, Keyword: keyword, Remaining: remaining}, nil
	}

	ok, err := e.access.HasAccess(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Outcome{Status: StatusNoAccess, Keyword: keyword}, nil
	}

	if keyword == "" {
		return &Outcome{Status: StatusEmptyKeyword}, nil
	}

	var (
		found  []string
		capped bool
	)
	for _, line := range e.corpus.Lines() {
		if len(found) >= e.maxResults {
			// Lines past the cap point are never examined in this pass;
			// a later search with the same keyword picks them up.
			capped = true
			break
		}
		if !strings.Contains(strings.ToLower(line), keyword) {
			continue
		}
		inserted, err := e.deliveries.RecordDelivered(ctx, userID, keyword, line)
		if err != nil {
			return nil, err
		}
		if inserted {
			found = append(found, line)
		}
	}

	if len(found) == 0 {
		return &Outcome{Status: StatusNoNewResults, Keyword: keyword}, nil
	}

	e.gate.MarkSuccess(userID)
	return &Outcome{Status: StatusFound, Keyword: keyword, Lines: found, Capped: capped}, nil
}
