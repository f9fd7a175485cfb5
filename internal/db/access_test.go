package db

import (
	"context"
	"testing"
	"time"
)

func TestGrantAndHasAccess(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	if err := db.GrantAccess(ctx, 1001, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("GrantAccess() error = %v", err)
	}

	ok, err := db.HasAccess(ctx, 1001)
	if err != nil {
		t.Fatalf("HasAccess() error = %v", err)
	}
	if !ok {
		t.Error("HasAccess() = false, want true for unexpired grant")
	}
}

func TestHasAccess_Unknown(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ok, err := db.HasAccess(context.Background(), 9999)
	if err != nil {
		t.Fatalf("HasAccess() error = %v", err)
	}
	if ok {
		t.Error("HasAccess() = true, want false for unknown user")
	}
}

func TestHasAccess_LazyEviction(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	// Grant that expired an hour ago.
	if err := db.GrantAccess(ctx, 1002, time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("GrantAccess() error = %v", err)
	}

	ok, err := db.HasAccess(ctx, 1002)
	if err != nil {
		t.Fatalf("HasAccess() error = %v", err)
	}
	if ok {
		t.Error("HasAccess() = true, want false for expired grant")
	}

	// The expired record must have been evicted.
	if _, err := db.GetAccessExpiry(ctx, 1002); err != ErrAccessNotFound {
		t.Errorf("GetAccessExpiry() after eviction error = %v, want ErrAccessNotFound", err)
	}
}

func TestGrantAccess_Overwrites(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	first := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	second := time.Now().Add(time.Hour).Truncate(time.Second)

	if err := db.GrantAccess(ctx, 1003, first); err != nil {
		t.Fatalf("GrantAccess() error = %v", err)
	}
	if err := db.GrantAccess(ctx, 1003, second); err != nil {
		t.Fatalf("GrantAccess() error = %v", err)
	}

	expiry, err := db.GetAccessExpiry(ctx, 1003)
	if err != nil {
		t.Fatalf("GetAccessExpiry() error = %v", err)
	}
	if expiry == nil || !expiry.Equal(second) {
		t.Errorf("GetAccessExpiry() = %v, want %v (grants do not stack)", expiry, second)
	}
}

func TestRevokeAccess_Idempotent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	if err := db.GrantAccess(ctx, 1004, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("GrantAccess() error = %v", err)
	}
	if err := db.RevokeAccess(ctx, 1004); err != nil {
		t.Fatalf("RevokeAccess() error = %v", err)
	}
	// Second revoke of an absent record is still fine.
	if err := db.RevokeAccess(ctx, 1004); err != nil {
		t.Fatalf("RevokeAccess() second call error = %v", err)
	}

	ok, err := db.HasAccess(ctx, 1004)
	if err != nil {
		t.Fatalf("HasAccess() error = %v", err)
	}
	if ok {
		t.Error("HasAccess() = true after revoke")
	}
}

func TestTouchLastActive_PreservesExpiry(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	expires := time.Now().Add(time.Hour).Truncate(time.Second)
	if err := db.GrantAccess(ctx, 1005, expires); err != nil {
		t.Fatalf("GrantAccess() error = %v", err)
	}
	if err := db.TouchLastActive(ctx, 1005); err != nil {
		t.Fatalf("TouchLastActive() error = %v", err)
	}

	expiry, err := db.GetAccessExpiry(ctx, 1005)
	if err != nil {
		t.Fatalf("GetAccessExpiry() error = %v", err)
	}
	if expiry == nil || !expiry.Equal(expires) {
		t.Errorf("TouchLastActive() disturbed expiry: got %v, want %v", expiry, expires)
	}
}
