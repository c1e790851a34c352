package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mstrother/barky/internal/apperror"
	"github.com/mstrother/barky/internal/model"
	"github.com/mstrother/barky/internal/repository"
)

// Compile-time check that *BookmarkDB implements repository.BookmarkRepository.
// If a method is missing or has the wrong signature, this line fails to
// compile immediately instead of at some distant call site.
var _ repository.BookmarkRepository = (*BookmarkDB)(nil)

// BookmarkDB is the bookmark view of the shared connection pool.
//
// Each resource gets its own repository type so the interface method names
// stay uniform (Create, GetByID, List, ...) without colliding on one struct.
// All three views share the same *sql.DB — there's still only one pool.
type BookmarkDB struct {
	conn *sql.DB
}

// Bookmarks returns the bookmark repository backed by this database.
func (db *DB) Bookmarks() *BookmarkDB {
	return &BookmarkDB{conn: db.conn}
}

// Create inserts a new bookmark and fills in its generated ID and DateAdded.
//
// DateAdded is set here with time.Now() rather than SQL's CURRENT_TIMESTAMP:
// Go timestamps carry sub-second precision, so two bookmarks created in the
// same second still sort in insertion order under ?ordering=date_added.
func (b *BookmarkDB) Create(ctx context.Context, bookmark *model.Bookmark) error {
	bookmark.DateAdded = time.Now()

	result, err := b.conn.ExecContext(ctx,
		`INSERT INTO bookmarks (title, url, notes, date_added)
		 VALUES (?, ?, ?, ?)`,
		bookmark.Title,
		bookmark.URL,
		bookmark.Notes,
		bookmark.DateAdded,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating bookmark: %w", err)
	}

	// LastInsertId returns the AUTOINCREMENT value SQLite assigned.
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading bookmark id: %w", err)
	}
	bookmark.ID = id

	return nil
}

// GetByID retrieves a single bookmark by its ID.
// Returns apperror.ErrNotFound if no bookmark exists with that ID.
func (b *BookmarkDB) GetByID(ctx context.Context, id int64) (*model.Bookmark, error) {
	var bm model.Bookmark

	err := b.conn.QueryRowContext(ctx,
		`SELECT id, title, url, notes, date_added
		 FROM bookmarks
		 WHERE id = ?`,
		id,
	).Scan(&bm.ID, &bm.Title, &bm.URL, &bm.Notes, &bm.DateAdded)

	if err != nil {
		// sql.ErrNoRows is a sentinel, not a real failure — translate it to
		// our domain's NotFound so the handler can return 404.
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("bookmark", id)
		}
		return nil, fmt.Errorf("sqlite: getting bookmark %d: %w", id, err)
	}

	return &bm, nil
}

// List returns all bookmarks in ascending id order (= insertion order).
// Ordering directives and pagination are the service layer's job.
func (b *BookmarkDB) List(ctx context.Context) ([]model.Bookmark, error) {
	rows, err := b.conn.QueryContext(ctx,
		`SELECT id, title, url, notes, date_added
		 FROM bookmarks
		 ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing bookmarks: %w", err)
	}
	defer rows.Close()

	bookmarks := []model.Bookmark{}
	for rows.Next() {
		var bm model.Bookmark
		if err := rows.Scan(&bm.ID, &bm.Title, &bm.URL, &bm.Notes, &bm.DateAdded); err != nil {
			return nil, fmt.Errorf("sqlite: scanning bookmark row: %w", err)
		}
		bookmarks = append(bookmarks, bm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating bookmarks: %w", err)
	}

	return bookmarks, nil
}

// Update replaces a bookmark's mutable fields. The id and date_added columns
// are immutable — date_added records creation, not last modification.
func (b *BookmarkDB) Update(ctx context.Context, bookmark *model.Bookmark) error {
	result, err := b.conn.ExecContext(ctx,
		`UPDATE bookmarks
		 SET title = ?, url = ?, notes = ?
		 WHERE id = ?`,
		bookmark.Title,
		bookmark.URL,
		bookmark.Notes,
		bookmark.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating bookmark %d: %w", bookmark.ID, err)
	}

	// RowsAffected == 0 means the WHERE clause matched nothing → not found.
	// One query instead of SELECT-then-UPDATE.
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("bookmark", bookmark.ID)
	}

	return nil
}

// Delete removes a bookmark by its ID.
// Same pattern as Update — check RowsAffected to detect "not found".
func (b *BookmarkDB) Delete(ctx context.Context, id int64) error {
	result, err := b.conn.ExecContext(ctx,
		`DELETE FROM bookmarks WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting bookmark %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("bookmark", id)
	}

	return nil
}
