// Package jobs holds the background loops that run next to the web server.
package jobs

import (
	"context"
	"log"
	"time"

	"loggate/internal/chat"
)

// ConversationReaper periodically drops expired keyword prompts so abandoned
// conversations do not accumulate.
type ConversationReaper struct {
	conv     *chat.Tracker
	interval time.Duration
}

// NewConversationReaper creates a new reaper.
func NewConversationReaper(conv *chat.Tracker, interval time.Duration) *ConversationReaper {
	return &ConversationReaper{conv: conv, interval: interval}
}

// Start begins the reaper loop. Blocks until the context is cancelled.
func (r *ConversationReaper) Start(ctx context.Context) {
	log.Printf("Conversation reaper started (interval: %v)", r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Conversation reaper stopped")
			return
		case <-ticker.C:
			if reaped := r.conv.Reap(); reaped > 0 {
				log.Printf("Conversation reaper: dropped %d stale prompts", reaped)
			}
		}
	}
}
