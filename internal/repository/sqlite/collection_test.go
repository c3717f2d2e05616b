package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/link-collector/internal/apperror"
	"github.com/sakif/link-collector/internal/model"
)

func createTestCollection(t *testing.T, db *DB, ownerID, shareID string) *model.Collection {
	t.Helper()
	c := &model.Collection{UserID: ownerID, ShareID: shareID, Name: "My Collection"}
	if err := db.CreateCollection(context.Background(), c); err != nil {
		t.Fatalf("failed to create test collection: %v", err)
	}
	return c
}

func TestCreateCollection(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "owner@example.com")

	c := createTestCollection(t, db, user.ID, "abc123def456")
	if c.ID == "" {
		t.Error("CreateCollection() did not set ID")
	}
	if c.CreatedAt.IsZero() {
		t.Error("CreateCollection() did not set CreatedAt")
	}
}

func TestCreateCollection_SecondPerOwnerConflicts(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "owner@example.com")
	createTestCollection(t, db, user.ID, "first000share")

	err := db.CreateCollection(context.Background(),
		&model.Collection{UserID: user.ID, ShareID: "second0share", Name: "Another"})

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("second collection for owner = %v, want ErrConflict", err)
	}
	if appErr.Field != "user_id" {
		t.Errorf("conflict Field = %q, want %q", appErr.Field, "user_id")
	}
}

func TestCreateCollection_DuplicateShareIDConflicts(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	createTestCollection(t, db, alice.ID, "sameshareid0")

	err := db.CreateCollection(context.Background(),
		&model.Collection{UserID: bob.ID, ShareID: "sameshareid0", Name: "Bob's"})

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("duplicate share id = %v, want ErrConflict", err)
	}
	if appErr.Field != "share_id" {
		t.Errorf("conflict Field = %q, want %q", appErr.Field, "share_id")
	}
}

func TestGetCollectionByOwner(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "owner@example.com")
	created := createTestCollection(t, db, user.ID, "abc123def456")

	got, err := db.GetCollectionByOwner(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetCollectionByOwner() error = %v", err)
	}
	if got.ID != created.ID || got.ShareID != created.ShareID {
		t.Errorf("GetCollectionByOwner() = %+v, want id %s share %s", got, created.ID, created.ShareID)
	}
}

func TestGetCollectionByOwner_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetCollectionByOwner(context.Background(), "nobody")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetCollectionByOwner() = %v, want ErrNotFound", err)
	}
}

func TestGetCollectionByShareID(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "owner@example.com")
	created := createTestCollection(t, db, user.ID, "abc123def456")

	got, err := db.GetCollectionByShareID(context.Background(), "abc123def456")
	if err != nil {
		t.Fatalf("GetCollectionByShareID() error = %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("GetCollectionByShareID() id = %s, want %s", got.ID, created.ID)
	}

	if _, err := db.GetCollectionByShareID(context.Background(), "unknownshare"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("unknown share id = %v, want ErrNotFound", err)
	}
}

func TestReplaceMemberships_FullReplace(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "owner@example.com")
	c := createTestCollection(t, db, user.ID, "abc123def456")

	l1 := createTestLink(t, db, user.ID, "https://example.com/1")
	l2 := createTestLink(t, db, user.ID, "https://example.com/2")
	l3 := createTestLink(t, db, user.ID, "https://example.com/3")

	// First sync: {l1, l2}
	if err := db.ReplaceMemberships(context.Background(), c.ID, []string{l1.ID, l2.ID}); err != nil {
		t.Fatalf("ReplaceMemberships() error = %v", err)
	}
	assertMemberURLs(t, db, c.ID, "https://example.com/1", "https://example.com/2")

	// Second sync replaces, not appends: {l2, l3}
	if err := db.ReplaceMemberships(context.Background(), c.ID, []string{l2.ID, l3.ID}); err != nil {
		t.Fatalf("ReplaceMemberships() error = %v", err)
	}
	assertMemberURLs(t, db, c.ID, "https://example.com/2", "https://example.com/3")

	// Empty set clears membership entirely.
	if err := db.ReplaceMemberships(context.Background(), c.ID, nil); err != nil {
		t.Fatalf("ReplaceMemberships(nil) error = %v", err)
	}
	assertMemberURLs(t, db, c.ID)
}

func TestReplaceMemberships_Idempotent(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "owner@example.com")
	c := createTestCollection(t, db, user.ID, "abc123def456")
	l1 := createTestLink(t, db, user.ID, "https://example.com/1")

	for i := 0; i < 3; i++ {
		if err := db.ReplaceMemberships(context.Background(), c.ID, []string{l1.ID}); err != nil {
			t.Fatalf("ReplaceMemberships() round %d error = %v", i, err)
		}
	}
	assertMemberURLs(t, db, c.ID, "https://example.com/1")
}

func TestReplaceMemberships_UnknownLinkRollsBack(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "owner@example.com")
	c := createTestCollection(t, db, user.ID, "abc123def456")
	l1 := createTestLink(t, db, user.ID, "https://example.com/1")

	if err := db.ReplaceMemberships(context.Background(), c.ID, []string{l1.ID}); err != nil {
		t.Fatalf("ReplaceMemberships() error = %v", err)
	}

	// A foreign-key failure mid-replace must leave the previous
	// membership intact, not a half-cleared one.
	err := db.ReplaceMemberships(context.Background(), c.ID, []string{l1.ID, "no-such-link"})
	if err == nil {
		t.Fatal("ReplaceMemberships() with unknown link id should fail")
	}
	assertMemberURLs(t, db, c.ID, "https://example.com/1")
}

func TestDeleteLink_CascadesMembership(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "owner@example.com")
	c := createTestCollection(t, db, user.ID, "abc123def456")
	l1 := createTestLink(t, db, user.ID, "https://example.com/1")
	l2 := createTestLink(t, db, user.ID, "https://example.com/2")

	if err := db.ReplaceMemberships(context.Background(), c.ID, []string{l1.ID, l2.ID}); err != nil {
		t.Fatalf("ReplaceMemberships() error = %v", err)
	}

	if err := db.Delete(context.Background(), user.ID, l1.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	// No dangling membership row; the join returns only the survivor.
	assertMemberURLs(t, db, c.ID, "https://example.com/2")

	var count int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM collection_links WHERE link_id = ?`, l1.ID).Scan(&count); err != nil {
		t.Fatalf("counting membership rows: %v", err)
	}
	if count != 0 {
		t.Errorf("membership rows for deleted link = %d, want 0 (cascade)", count)
	}
}

// assertMemberURLs checks the collection's joined links equal exactly
// the given URLs, ignoring order.
func assertMemberURLs(t *testing.T, db *DB, collectionID string, want ...string) {
	t.Helper()
	links, err := db.ListCollectionLinks(context.Background(), collectionID)
	if err != nil {
		t.Fatalf("ListCollectionLinks() error = %v", err)
	}
	if len(links) != len(want) {
		t.Fatalf("membership size = %d, want %d", len(links), len(want))
	}
	got := map[string]bool{}
	for _, l := range links {
		got[l.URL] = true
	}
	for _, url := range want {
		if !got[url] {
			t.Errorf("membership missing %q (have %v)", url, got)
		}
	}
}
