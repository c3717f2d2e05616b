package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/link-collector/internal/apperror"
	"github.com/sakif/link-collector/internal/model"
	"github.com/sakif/link-collector/internal/repository"
)

var _ repository.CollectionRepository = (*DB)(nil)

// CreateCollection inserts a collection row. The schema's UNIQUE
// constraints on user_id and share_id surface as ErrConflict with the
// column name in Field; the sync engine decides what each means.
func (db *DB) CreateCollection(ctx context.Context, collection *model.Collection) error {
	collection.ID = xid.New().String()
	collection.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO collections (id, user_id, share_id, name, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		collection.ID,
		collection.UserID,
		collection.ShareID,
		collection.Name,
		collection.CreatedAt,
	)
	if err != nil {
		if conflict := constraintConflict(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("sqlite: creating collection: %w", err)
	}
	return nil
}

// GetCollectionByOwner returns the owner's collection, if any.
func (db *DB) GetCollectionByOwner(ctx context.Context, ownerID string) (*model.Collection, error) {
	return db.getCollection(ctx,
		`SELECT id, user_id, share_id, name, created_at FROM collections WHERE user_id = ?`,
		ownerID, "owner "+ownerID)
}

// GetCollectionByShareID is the public lookup by share token.
func (db *DB) GetCollectionByShareID(ctx context.Context, shareID string) (*model.Collection, error) {
	return db.getCollection(ctx,
		`SELECT id, user_id, share_id, name, created_at FROM collections WHERE share_id = ?`,
		shareID, shareID)
}

func (db *DB) getCollection(ctx context.Context, query, arg, notFoundID string) (*model.Collection, error) {
	var c model.Collection
	err := db.conn.QueryRowContext(ctx, query, arg).Scan(
		&c.ID,
		&c.UserID,
		&c.ShareID,
		&c.Name,
		&c.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("collection", notFoundID)
		}
		return nil, fmt.Errorf("sqlite: getting collection: %w", err)
	}
	return &c, nil
}

// ReplaceMemberships swaps the collection's membership rows for
// exactly linkIDs. Delete and re-insert run in one transaction: the
// swap either completes or leaves the previous membership intact, and
// concurrent readers never observe the half-cleared state.
func (db *DB) ReplaceMemberships(ctx context.Context, collectionID string, linkIDs []string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning membership replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM collection_links WHERE collection_id = ?`, collectionID,
	); err != nil {
		return fmt.Errorf("sqlite: clearing memberships for collection %s: %w", collectionID, err)
	}

	for _, linkID := range linkIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO collection_links (collection_id, link_id) VALUES (?, ?)`,
			collectionID, linkID,
		); err != nil {
			return fmt.Errorf("sqlite: inserting membership (%s, %s): %w", collectionID, linkID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing membership replace: %w", err)
	}
	return nil
}

// ListCollectionLinks returns the links joined to the collection via
// its membership rows. Order is unspecified on the public read path.
func (db *DB) ListCollectionLinks(ctx context.Context, collectionID string) ([]model.Link, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT l.id, l.user_id, l.url, l.title, l.description, l.favicon, l.site_name, l.category, l.created_at
		 FROM collection_links cl
		 INNER JOIN links l ON l.id = cl.link_id
		 WHERE cl.collection_id = ?`,
		collectionID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing links for collection %s: %w", collectionID, err)
	}
	defer rows.Close()

	links := []model.Link{}
	for rows.Next() {
		var l model.Link
		if err := rows.Scan(
			&l.ID,
			&l.UserID,
			&l.URL,
			&l.Title,
			&l.Description,
			&l.Favicon,
			&l.SiteName,
			&l.Category,
			&l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning collection link row: %w", err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating collection link rows: %w", err)
	}
	return links, nil
}
