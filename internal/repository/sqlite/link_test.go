package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sakif/link-collector/internal/apperror"
	"github.com/sakif/link-collector/internal/model"
)

// newTestDB returns a fresh in-memory database. t.Cleanup closes it
// when the test (or subtest) finishes.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser registers a user row for foreign keys to point at.
func createTestUser(t *testing.T, db *DB, email string) *model.User {
	t.Helper()
	user := &model.User{Email: email, PasswordHash: "x"}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// createTestLink creates a link owned by ownerID.
func createTestLink(t *testing.T, db *DB, ownerID, url string) *model.Link {
	t.Helper()
	link := &model.Link{
		UserID:   ownerID,
		URL:      url,
		Title:    "Untitled",
		Category: "General",
	}
	if err := db.Create(context.Background(), link); err != nil {
		t.Fatalf("failed to create test link: %v", err)
	}
	return link
}

func TestLinkCreate(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "owner@example.com")

	link := &model.Link{
		UserID:      user.ID,
		URL:         "https://example.com/a",
		Title:       "Example",
		Description: "an example",
		Favicon:     "https://example.com/favicon.ico",
		SiteName:    "example.com",
		Category:    "General",
	}

	if err := db.Create(context.Background(), link); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if link.ID == "" {
		t.Error("Create() did not set link.ID")
	}
	if link.CreatedAt.IsZero() {
		t.Error("Create() did not set link.CreatedAt")
	}
}

func TestLinkCreate_DuplicateURLAllowed(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "owner@example.com")

	first := createTestLink(t, db, user.ID, "https://example.com/same")
	second := createTestLink(t, db, user.ID, "https://example.com/same")

	if first.ID == second.ID {
		t.Error("duplicate URL links must get distinct ids")
	}
}

func TestListByOwner_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "owner@example.com")

	// Force distinct created_at values so the ordering is unambiguous.
	for i := 0; i < 3; i++ {
		link := &model.Link{UserID: user.ID, URL: fmt.Sprintf("https://example.com/%d", i)}
		if err := db.Create(context.Background(), link); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		link.CreatedAt = time.Now().UTC().Add(time.Duration(i) * time.Minute)
		if _, err := db.conn.Exec(`UPDATE links SET created_at = ? WHERE id = ?`, link.CreatedAt, link.ID); err != nil {
			t.Fatalf("adjusting created_at: %v", err)
		}
	}

	links, err := db.ListByOwner(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if len(links) != 3 {
		t.Fatalf("ListByOwner() returned %d links, want 3", len(links))
	}
	for i := 0; i < len(links)-1; i++ {
		if links[i].CreatedAt.Before(links[i+1].CreatedAt) {
			t.Errorf("links out of order: index %d older than index %d", i, i+1)
		}
	}
}

func TestListByOwner_EmptyForNewUser(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "owner@example.com")

	links, err := db.ListByOwner(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if len(links) != 0 {
		t.Errorf("ListByOwner() = %d links, want 0", len(links))
	}
}

func TestListByOwner_ScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	createTestLink(t, db, alice.ID, "https://example.com/alice")
	createTestLink(t, db, bob.ID, "https://example.com/bob")

	links, err := db.ListByOwner(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("ListByOwner() = %d links, want 1", len(links))
	}
	if links[0].URL != "https://example.com/alice" {
		t.Errorf("ListByOwner() leaked another user's link: %q", links[0].URL)
	}
}

func TestLinkDelete(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "owner@example.com")
	link := createTestLink(t, db, user.ID, "https://example.com/x")

	if err := db.Delete(context.Background(), user.ID, link.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	links, err := db.ListByOwner(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if len(links) != 0 {
		t.Errorf("link still present after delete")
	}
}

func TestLinkDelete_OtherOwnersLinkLooksNonexistent(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	bobsLink := createTestLink(t, db, bob.ID, "https://example.com/bob")

	errForeign := db.Delete(context.Background(), alice.ID, bobsLink.ID)
	errMissing := db.Delete(context.Background(), alice.ID, "no-such-id")

	if !errors.Is(errForeign, apperror.ErrNotFound) {
		t.Errorf("deleting another user's link = %v, want ErrNotFound", errForeign)
	}
	if !errors.Is(errMissing, apperror.ErrNotFound) {
		t.Errorf("deleting a missing link = %v, want ErrNotFound", errMissing)
	}
	// Identical outcomes: no way to tell "not yours" from "not there".
	if fmt.Sprint(errors.Is(errForeign, apperror.ErrNotFound)) != fmt.Sprint(errors.Is(errMissing, apperror.ErrNotFound)) {
		t.Error("delete outcomes differ between foreign and missing links")
	}

	// Bob's link must survive.
	links, err := db.ListByOwner(context.Background(), bob.ID)
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if len(links) != 1 {
		t.Errorf("bob's link was deleted by another user")
	}
}

func TestListIDsByOwner(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "owner@example.com")
	l1 := createTestLink(t, db, user.ID, "https://example.com/1")
	l2 := createTestLink(t, db, user.ID, "https://example.com/2")

	ids, err := db.ListIDsByOwner(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListIDsByOwner() error = %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("ListIDsByOwner() = %d ids, want 2", len(ids))
	}
	seen := map[string]bool{ids[0]: true, ids[1]: true}
	if !seen[l1.ID] || !seen[l2.ID] {
		t.Errorf("ListIDsByOwner() = %v, want {%s, %s}", ids, l1.ID, l2.ID)
	}
}
