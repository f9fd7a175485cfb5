package chat

import (
	"testing"
	"time"
)

func TestClaimKeyword(t *testing.T) {
	tracker := NewTracker(5 * time.Minute)

	if tracker.ClaimKeyword(1) {
		t.Error("ClaimKeyword() = true for idle user")
	}

	tracker.AwaitKeyword(1)
	if !tracker.ClaimKeyword(1) {
		t.Error("ClaimKeyword() = false for awaiting user")
	}

	// The claim is one-shot.
	if tracker.ClaimKeyword(1) {
		t.Error("ClaimKeyword() = true on second claim")
	}
}

func TestClaimKeyword_Expired(t *testing.T) {
	tracker := NewTracker(5 * time.Minute)
	current := time.Unix(1000, 0)
	tracker.now = func() time.Time { return current }

	tracker.AwaitKeyword(1)
	current = current.Add(6 * time.Minute)

	if tracker.ClaimKeyword(1) {
		t.Error("ClaimKeyword() = true for expired prompt")
	}
	// The expired state is gone either way.
	if tracker.Pending() != 0 {
		t.Errorf("Pending() = %d after expired claim, want 0", tracker.Pending())
	}
}

func TestReap(t *testing.T) {
	tracker := NewTracker(5 * time.Minute)
	current := time.Unix(1000, 0)
	tracker.now = func() time.Time { return current }

	tracker.AwaitKeyword(1)
	tracker.AwaitKeyword(2)
	current = current.Add(4 * time.Minute)
	tracker.AwaitKeyword(3)
	current = current.Add(2 * time.Minute)

	if reaped := tracker.Reap(); reaped != 2 {
		t.Errorf("Reap() = %d, want 2 stale states dropped", reaped)
	}
	if tracker.Pending() != 1 {
		t.Errorf("Pending() = %d after reap, want 1", tracker.Pending())
	}
	if !tracker.ClaimKeyword(3) {
		t.Error("ClaimKeyword() = false for fresh state after reap")
	}
}
