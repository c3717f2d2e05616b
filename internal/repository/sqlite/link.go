package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/link-collector/internal/apperror"
	"github.com/sakif/link-collector/internal/model"
	"github.com/sakif/link-collector/internal/repository"
)

var _ repository.LinkRepository = (*DB)(nil)

// Create inserts a new link row, generating its id and timestamp.
// The caller's struct is updated in place with both.
func (db *DB) Create(ctx context.Context, link *model.Link) error {
	link.ID = xid.New().String()
	link.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO links (id, user_id, url, title, description, favicon, site_name, category, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		link.ID,
		link.UserID,
		link.URL,
		link.Title,
		link.Description,
		link.Favicon,
		link.SiteName,
		link.Category,
		link.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating link: %w", err)
	}
	return nil
}

// ListByOwner returns the owner's links, newest first. xid ids sort by
// creation time, so they break ties for links created in the same
// instant.
func (db *DB) ListByOwner(ctx context.Context, ownerID string) ([]model.Link, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, url, title, description, favicon, site_name, category, created_at
		 FROM links
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing links for user %s: %w", ownerID, err)
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
			return nil, fmt.Errorf("sqlite: scanning link row: %w", err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating link rows: %w", err)
	}
	return links, nil
}

// ListIDsByOwner returns only the ids of the owner's current links.
func (db *DB) ListIDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id FROM links WHERE user_id = ?`, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing link ids for user %s: %w", ownerID, err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("sqlite: scanning link id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating link ids: %w", err)
	}
	return ids, nil
}

// Delete removes the row matching both id and owner. The WHERE clause
// carries the authorization: zero rows affected — whether the link
// never existed or belongs to someone else — reports the same
// ErrNotFound, so nothing about other users' links can be probed.
func (db *DB) Delete(ctx context.Context, ownerID, id string) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM links WHERE id = ? AND user_id = ?`, id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting link %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking delete result for link %s: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("link", id)
	}
	return nil
}
