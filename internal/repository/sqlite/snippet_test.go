package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/mstrother/barky/internal/apperror"
	"github.com/mstrother/barky/internal/model"
)

// newSnippetFixture returns snippet and user repositories over the same
// in-memory database, plus a user to own the snippets — the owner_id foreign
// key means a snippet can't exist without one.
func newSnippetFixture(t *testing.T) (*SnippetDB, *UserDB, *model.User) {
	t.Helper()
	db := newTestDB(t)
	users := db.Users()
	owner := createTestUser(t, users, "snippetowner")
	return db.Snippets(), users, owner
}

func createTestSnippet(t *testing.T, s *SnippetDB, ownerID int64, title, code string) *model.Snippet {
	t.Helper()
	snippet := &model.Snippet{
		Title:    title,
		Code:     code,
		Language: "python",
		Style:    "friendly",
		OwnerID:  ownerID,
	}
	if err := s.Create(context.Background(), snippet); err != nil {
		t.Fatalf("failed to create test snippet: %v", err)
	}
	return snippet
}

func TestSnippetCreate(t *testing.T) {
	s, _, owner := newSnippetFixture(t)

	snippet := &model.Snippet{
		Title:    "hello",
		Code:     "print('hello')",
		Linenos:  true,
		Language: "python",
		Style:    "monokai",
		OwnerID:  owner.ID,
	}

	if err := s.Create(context.Background(), snippet); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if snippet.ID == 0 {
		t.Error("Create() did not set snippet.ID")
	}
	if snippet.CreatedAt.IsZero() {
		t.Error("Create() did not set snippet.CreatedAt")
	}
}

func TestSnippetCreate_UnknownOwnerFails(t *testing.T) {
	s, _, _ := newSnippetFixture(t)

	// owner_id references users(id); an id that doesn't exist must be
	// rejected by the foreign key constraint.
	snippet := &model.Snippet{Code: "x = 1", Language: "python", Style: "friendly", OwnerID: 9999}
	if err := s.Create(context.Background(), snippet); err == nil {
		t.Fatal("Create() with unknown owner should have failed")
	}
}

func TestSnippetGetByID(t *testing.T) {
	s, _, owner := newSnippetFixture(t)

	created := createTestSnippet(t, s, owner.ID, "fib", "def fib(n): pass")
	created.Linenos = false

	got, err := s.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Code != created.Code {
		t.Errorf("Code = %q, want %q", got.Code, created.Code)
	}
	if got.OwnerID != owner.ID {
		t.Errorf("OwnerID = %d, want %d", got.OwnerID, owner.ID)
	}
	if got.Language != "python" || got.Style != "friendly" {
		t.Errorf("Language/Style = %q/%q, want python/friendly", got.Language, got.Style)
	}
}

func TestSnippetGetByID_NotFound(t *testing.T) {
	s, _, _ := newSnippetFixture(t)

	_, err := s.GetByID(context.Background(), 404)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestSnippetList_InsertionOrder(t *testing.T) {
	s, _, owner := newSnippetFixture(t)

	createTestSnippet(t, s, owner.ID, "a", "a()")
	createTestSnippet(t, s, owner.ID, "b", "b()")

	snippets, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(snippets) != 2 {
		t.Fatalf("List() returned %d snippets, want 2", len(snippets))
	}
	if snippets[0].Title != "a" || snippets[1].Title != "b" {
		t.Errorf("List() order = [%s %s], want [a b]", snippets[0].Title, snippets[1].Title)
	}
}

func TestSnippetUpdate_IncludingOwner(t *testing.T) {
	s, users, owner := newSnippetFixture(t)
	other := createTestUser(t, users, "newowner")

	created := createTestSnippet(t, s, owner.ID, "transferable", "pass")

	created.Title = "transferred"
	created.Code = "def f(): return 2"
	created.Linenos = true
	created.OwnerID = other.ID

	if err := s.Update(context.Background(), created); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := s.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() after update error = %v", err)
	}
	if got.Title != "transferred" || !got.Linenos {
		t.Errorf("update not persisted: got %+v", got)
	}
	if got.OwnerID != other.ID {
		t.Errorf("OwnerID = %d, want %d (ownership transfer)", got.OwnerID, other.ID)
	}
}

func TestSnippetUpdate_NotFound(t *testing.T) {
	s, _, owner := newSnippetFixture(t)

	err := s.Update(context.Background(), &model.Snippet{
		ID: 77, Code: "x", Language: "python", Style: "friendly", OwnerID: owner.ID,
	})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestSnippetDelete(t *testing.T) {
	s, _, owner := newSnippetFixture(t)

	created := createTestSnippet(t, s, owner.ID, "doomed", "pass")

	if err := s.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	_, err := s.GetByID(context.Background(), created.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
}

func TestSnippetDelete_NotFound(t *testing.T) {
	s, _, _ := newSnippetFixture(t)

	err := s.Delete(context.Background(), 31337)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}
