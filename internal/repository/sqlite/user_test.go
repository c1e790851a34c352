package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/mstrother/barky/internal/apperror"
	"github.com/mstrother/barky/internal/model"
)

// createTestUser creates a user and fails the test if it errors.
// The hash value is a placeholder — this layer never inspects it.
func createTestUser(t *testing.T, u *UserDB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		PasswordHash: "$2a$04$fakehashforrepositorytests",
	}
	if err := u.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func TestUserCreate(t *testing.T) {
	u := newTestDB(t).Users()

	user := &model.User{Username: "ada", PasswordHash: "$2a$04$x"}

	if err := u.Create(context.Background(), user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if user.ID == 0 {
		t.Error("Create() did not set user.ID")
	}
	if user.SnippetIDs == nil || len(user.SnippetIDs) != 0 {
		t.Errorf("Create() SnippetIDs = %v, want empty slice", user.SnippetIDs)
	}
}

func TestUserCreate_DuplicateUsername(t *testing.T) {
	u := newTestDB(t).Users()

	createTestUser(t, u, "taken")

	duplicate := &model.User{Username: "taken", PasswordHash: "$2a$04$y"}
	err := u.Create(context.Background(), duplicate)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("Create() duplicate error = %v, want ErrConflict", err)
	}

	// Total count unchanged by the failed insert.
	users, listErr := u.List(context.Background())
	if listErr != nil {
		t.Fatalf("List() error = %v", listErr)
	}
	if len(users) != 1 {
		t.Errorf("List() returned %d users after failed duplicate, want 1", len(users))
	}
}

func TestUserGetByID_IncludesSnippetIDs(t *testing.T) {
	db := newTestDB(t)
	u := db.Users()
	s := db.Snippets()

	owner := createTestUser(t, u, "owner")
	other := createTestUser(t, u, "other")

	first := createTestSnippet(t, s, owner.ID, "one", "1")
	second := createTestSnippet(t, s, owner.ID, "two", "2")
	createTestSnippet(t, s, other.ID, "theirs", "3")

	got, err := u.GetByID(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if len(got.SnippetIDs) != 2 {
		t.Fatalf("SnippetIDs = %v, want 2 ids", got.SnippetIDs)
	}
	if got.SnippetIDs[0] != first.ID || got.SnippetIDs[1] != second.ID {
		t.Errorf("SnippetIDs = %v, want [%d %d]", got.SnippetIDs, first.ID, second.ID)
	}
}

func TestUserGetByID_NotFound(t *testing.T) {
	u := newTestDB(t).Users()

	_, err := u.GetByID(context.Background(), 404)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestUserGetByUsername(t *testing.T) {
	u := newTestDB(t).Users()

	created := createTestUser(t, u, "lookup")

	got, err := u.GetByUsername(context.Background(), "lookup")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("ID = %d, want %d", got.ID, created.ID)
	}

	_, err = u.GetByUsername(context.Background(), "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByUsername(missing) error = %v, want ErrNotFound", err)
	}
}

func TestUserList_IncludesSnippetIDs(t *testing.T) {
	db := newTestDB(t)
	u := db.Users()
	s := db.Snippets()

	owner := createTestUser(t, u, "prolific")
	createTestUser(t, u, "lurker")
	snippet := createTestSnippet(t, s, owner.ID, "only", "pass")

	users, err := u.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("List() returned %d users, want 2", len(users))
	}

	// Ascending id order; snippet ids attached to the right user.
	if users[0].Username != "prolific" {
		t.Errorf("users[0] = %q, want prolific", users[0].Username)
	}
	if len(users[0].SnippetIDs) != 1 || users[0].SnippetIDs[0] != snippet.ID {
		t.Errorf("users[0].SnippetIDs = %v, want [%d]", users[0].SnippetIDs, snippet.ID)
	}
	if len(users[1].SnippetIDs) != 0 {
		t.Errorf("users[1].SnippetIDs = %v, want empty", users[1].SnippetIDs)
	}
	if users[1].SnippetIDs == nil {
		t.Error("users[1].SnippetIDs is nil, want empty slice (serializes as [])")
	}
}

func TestUserUpdate(t *testing.T) {
	u := newTestDB(t).Users()

	created := createTestUser(t, u, "oldname")
	created.Username = "newname"
	created.PasswordHash = "$2a$04$newhash"

	if err := u.Update(context.Background(), created); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := u.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() after update error = %v", err)
	}
	if got.Username != "newname" || got.PasswordHash != "$2a$04$newhash" {
		t.Errorf("update not persisted: got %+v", got)
	}
}

func TestUserUpdate_RenameOntoTakenUsername(t *testing.T) {
	u := newTestDB(t).Users()

	createTestUser(t, u, "existing")
	victim := createTestUser(t, u, "renameme")

	victim.Username = "existing"
	err := u.Update(context.Background(), victim)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Update() rename-conflict error = %v, want ErrConflict", err)
	}
}

func TestUserDelete_CascadesToSnippets(t *testing.T) {
	db := newTestDB(t)
	u := db.Users()
	s := db.Snippets()

	owner := createTestUser(t, u, "leaving")
	snippet := createTestSnippet(t, s, owner.ID, "orphan-to-be", "pass")

	if err := u.Delete(context.Background(), owner.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	// The owner's snippets go with them (ON DELETE CASCADE) — a snippet must
	// always have exactly one owner.
	_, err := s.GetByID(context.Background(), snippet.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID(snippet) after owner delete error = %v, want ErrNotFound", err)
	}
}

func TestUserDelete_NotFound(t *testing.T) {
	u := newTestDB(t).Users()

	err := u.Delete(context.Background(), 8080)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}
