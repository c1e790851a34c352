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

// Compile-time check that *SnippetDB implements repository.SnippetRepository.
var _ repository.SnippetRepository = (*SnippetDB)(nil)

// SnippetDB is the snippet view of the shared connection pool.
type SnippetDB struct {
	conn *sql.DB
}

// Snippets returns the snippet repository backed by this database.
func (db *DB) Snippets() *SnippetDB {
	return &SnippetDB{conn: db.conn}
}

// Create inserts a new snippet and fills in its generated ID.
// The caller (service layer) has already validated the fields and assigned
// the owner; this method is pure persistence.
//
// Linenos is stored in an INTEGER column — SQLite has no BOOL type, but the
// driver converts Go bools to 0/1 and back transparently.
func (s *SnippetDB) Create(ctx context.Context, snippet *model.Snippet) error {
	snippet.CreatedAt = time.Now()

	result, err := s.conn.ExecContext(ctx,
		`INSERT INTO snippets (title, code, linenos, language, style, owner_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		snippet.Title,
		snippet.Code,
		snippet.Linenos,
		snippet.Language,
		snippet.Style,
		snippet.OwnerID,
		snippet.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating snippet: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading snippet id: %w", err)
	}
	snippet.ID = id

	return nil
}

// GetByID retrieves a single snippet by its ID.
// Returns apperror.ErrNotFound if no snippet exists with that ID.
func (s *SnippetDB) GetByID(ctx context.Context, id int64) (*model.Snippet, error) {
	var sn model.Snippet

	err := s.conn.QueryRowContext(ctx,
		`SELECT id, title, code, linenos, language, style, owner_id, created_at
		 FROM snippets
		 WHERE id = ?`,
		id,
	).Scan(&sn.ID, &sn.Title, &sn.Code, &sn.Linenos, &sn.Language, &sn.Style, &sn.OwnerID, &sn.CreatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("snippet", id)
		}
		return nil, fmt.Errorf("sqlite: getting snippet %d: %w", id, err)
	}

	return &sn, nil
}

// List returns all snippets in ascending id order.
func (s *SnippetDB) List(ctx context.Context) ([]model.Snippet, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, title, code, linenos, language, style, owner_id, created_at
		 FROM snippets
		 ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing snippets: %w", err)
	}
	defer rows.Close()

	snippets := []model.Snippet{}
	for rows.Next() {
		var sn model.Snippet
		if err := rows.Scan(
			&sn.ID, &sn.Title, &sn.Code, &sn.Linenos,
			&sn.Language, &sn.Style, &sn.OwnerID, &sn.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet row: %w", err)
		}
		snippets = append(snippets, sn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snippets: %w", err)
	}

	return snippets, nil
}

// Update replaces a snippet's fields, owner included — ownership transfer is
// permitted and the permission check happens in the service layer before this
// is called. id and created_at stay immutable.
func (s *SnippetDB) Update(ctx context.Context, snippet *model.Snippet) error {
	result, err := s.conn.ExecContext(ctx,
		`UPDATE snippets
		 SET title = ?, code = ?, linenos = ?, language = ?, style = ?, owner_id = ?
		 WHERE id = ?`,
		snippet.Title,
		snippet.Code,
		snippet.Linenos,
		snippet.Language,
		snippet.Style,
		snippet.OwnerID,
		snippet.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating snippet %d: %w", snippet.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", snippet.ID)
	}

	return nil
}

// Delete removes a snippet by its ID.
func (s *SnippetDB) Delete(ctx context.Context, id int64) error {
	result, err := s.conn.ExecContext(ctx,
		`DELETE FROM snippets WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting snippet %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", id)
	}

	return nil
}
