package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mstrother/barky/internal/apperror"
	"github.com/mstrother/barky/internal/model"
	"github.com/mstrother/barky/internal/repository"
)

// Compile-time check that *UserDB implements repository.UserRepository.
var _ repository.UserRepository = (*UserDB)(nil)

// UserDB is the user view of the shared connection pool.
type UserDB struct {
	conn *sql.DB
}

// Users returns the user repository backed by this database.
func (db *DB) Users() *UserDB {
	return &UserDB{conn: db.conn}
}

// isUsernameConflict detects a violation of the UNIQUE constraint on
// users.username. modernc.org/sqlite doesn't export a typed constraint error,
// so we match on the well-known message SQLite produces.
func isUsernameConflict(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: users.username")
}

// Create inserts a new user and fills in its generated ID.
// The password has already been hashed by the service layer —
// user.PasswordHash is the bcrypt output, never plaintext.
//
// A duplicate username surfaces as apperror.ErrConflict; the service decides
// how to present that to the client.
func (u *UserDB) Create(ctx context.Context, user *model.User) error {
	user.CreatedAt = time.Now()

	result, err := u.conn.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, created_at)
		 VALUES (?, ?, ?)`,
		user.Username,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		if isUsernameConflict(err) {
			return apperror.Conflict("username", fmt.Sprintf("username %q is already taken", user.Username))
		}
		return fmt.Errorf("sqlite: creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading user id: %w", err)
	}
	user.ID = id

	// A brand-new user owns nothing yet. Empty slice, not nil, so the JSON
	// representation is "snippets": [] rather than "snippets": null.
	user.SnippetIDs = []int64{}

	return nil
}

// GetByID retrieves a user by ID, including the ids of the snippets they own.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (u *UserDB) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User

	err := u.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at
		 FROM users WHERE id = ?`,
		id,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %d: %w", id, err)
	}

	if err := u.loadSnippetIDs(ctx, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// GetByUsername retrieves a user by their unique username. Used by login.
func (u *UserDB) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User

	err := u.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at
		 FROM users WHERE username = ?`,
		username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			// No numeric id to report; the message names the username instead.
			return nil, &apperror.AppError{
				Err:     apperror.ErrNotFound,
				Message: fmt.Sprintf("user not found with username %q", username),
			}
		}
		return nil, fmt.Errorf("sqlite: getting user %q: %w", username, err)
	}

	if err := u.loadSnippetIDs(ctx, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// List returns all users in ascending id order with their snippet ids.
//
// The reverse relation is loaded with ONE extra query (owner_id → ids grouped
// in Go), not one query per user. N+1 queries would be fine at this scale but
// it's an easy habit to avoid.
func (u *UserDB) List(ctx context.Context) ([]model.User, error) {
	rows, err := u.conn.QueryContext(ctx,
		`SELECT id, username, password_hash, created_at
		 FROM users
		 ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var user model.User
		if err := rows.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		user.SnippetIDs = []int64{}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}

	snippetRows, err := u.conn.QueryContext(ctx,
		`SELECT id, owner_id FROM snippets ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing snippet owners: %w", err)
	}
	defer snippetRows.Close()

	byOwner := map[int64][]int64{}
	for snippetRows.Next() {
		var snippetID, ownerID int64
		if err := snippetRows.Scan(&snippetID, &ownerID); err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet owner row: %w", err)
		}
		byOwner[ownerID] = append(byOwner[ownerID], snippetID)
	}
	if err := snippetRows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snippet owners: %w", err)
	}

	for i := range users {
		if ids, ok := byOwner[users[i].ID]; ok {
			users[i].SnippetIDs = ids
		}
	}

	return users, nil
}

// Update replaces a user's username and password hash.
// Renaming onto a taken username surfaces as apperror.ErrConflict.
func (u *UserDB) Update(ctx context.Context, user *model.User) error {
	result, err := u.conn.ExecContext(ctx,
		`UPDATE users
		 SET username = ?, password_hash = ?
		 WHERE id = ?`,
		user.Username,
		user.PasswordHash,
		user.ID,
	)
	if err != nil {
		if isUsernameConflict(err) {
			return apperror.Conflict("username", fmt.Sprintf("username %q is already taken", user.Username))
		}
		return fmt.Errorf("sqlite: updating user %d: %w", user.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("user", user.ID)
	}

	return nil
}

// Delete removes a user by ID. Their snippets go with them via the
// ON DELETE CASCADE on snippets.owner_id.
func (u *UserDB) Delete(ctx context.Context, id int64) error {
	result, err := u.conn.ExecContext(ctx,
		`DELETE FROM users WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("user", id)
	}

	return nil
}

// loadSnippetIDs fills user.SnippetIDs with the ids of the snippets the user
// owns, in ascending id order.
func (u *UserDB) loadSnippetIDs(ctx context.Context, user *model.User) error {
	rows, err := u.conn.QueryContext(ctx,
		`SELECT id FROM snippets WHERE owner_id = ? ORDER BY id ASC`,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: listing snippets for user %d: %w", user.ID, err)
	}
	defer rows.Close()

	user.SnippetIDs = []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("sqlite: scanning snippet id: %w", err)
		}
		user.SnippetIDs = append(user.SnippetIDs, id)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("sqlite: iterating snippet ids: %w", err)
	}

	return nil
}
