package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/mstrother/barky/internal/apperror"
	"github.com/mstrother/barky/internal/model"
)

// TESTING WITH IN-MEMORY SQLITE:
// Using ":memory:" creates a fresh database that exists only during the test:
// fast (no disk I/O), isolated (each test gets its own database), and
// destroyed automatically when the connection closes.
//
// t.Helper() makes failures report at the CALLER's line, not inside the
// helper; t.Cleanup is defer scoped to the test, subtests included.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestBookmark creates a bookmark and fails the test if it errors.
func createTestBookmark(t *testing.T, b *BookmarkDB, title, url string) *model.Bookmark {
	t.Helper()
	bookmark := &model.Bookmark{Title: title, URL: url, Notes: "notes for " + title}
	if err := b.Create(context.Background(), bookmark); err != nil {
		t.Fatalf("failed to create test bookmark: %v", err)
	}
	return bookmark
}

func TestBookmarkCreate(t *testing.T) {
	b := newTestDB(t).Bookmarks()

	bookmark := &model.Bookmark{
		Title: "Awesome Go",
		URL:   "https://awesome-go.com/",
		Notes: "curated Go packages",
	}

	if err := b.Create(context.Background(), bookmark); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Create fills the struct in place (pointer receiver)
	if bookmark.ID == 0 {
		t.Error("Create() did not set bookmark.ID")
	}
	if bookmark.DateAdded.IsZero() {
		t.Error("Create() did not set bookmark.DateAdded")
	}
}

func TestBookmarkCreate_IDsAreMonotonic(t *testing.T) {
	b := newTestDB(t).Bookmarks()

	first := createTestBookmark(t, b, "first", "http://a")
	second := createTestBookmark(t, b, "second", "http://b")

	if second.ID <= first.ID {
		t.Errorf("ids not monotonic: first=%d second=%d", first.ID, second.ID)
	}
	if second.DateAdded.Before(first.DateAdded) {
		t.Errorf("date_added not monotonic: first=%v second=%v", first.DateAdded, second.DateAdded)
	}
}

func TestBookmarkGetByID(t *testing.T) {
	b := newTestDB(t).Bookmarks()

	created := createTestBookmark(t, b, "Go Blog", "https://go.dev/blog/")

	got, err := b.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if got.Title != created.Title {
		t.Errorf("Title = %q, want %q", got.Title, created.Title)
	}
	if got.URL != created.URL {
		t.Errorf("URL = %q, want %q", got.URL, created.URL)
	}
	if got.Notes != created.Notes {
		t.Errorf("Notes = %q, want %q", got.Notes, created.Notes)
	}
}

func TestBookmarkGetByID_NotFound(t *testing.T) {
	b := newTestDB(t).Bookmarks()

	_, err := b.GetByID(context.Background(), 999)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestBookmarkList_InsertionOrder(t *testing.T) {
	b := newTestDB(t).Bookmarks()

	createTestBookmark(t, b, "one", "http://1")
	createTestBookmark(t, b, "two", "http://2")
	createTestBookmark(t, b, "three", "http://3")

	bookmarks, err := b.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if len(bookmarks) != 3 {
		t.Fatalf("List() returned %d bookmarks, want 3", len(bookmarks))
	}
	// Repository contract: ascending id order = insertion order.
	for i := 1; i < len(bookmarks); i++ {
		if bookmarks[i].ID <= bookmarks[i-1].ID {
			t.Errorf("List() not in id order at index %d", i)
		}
	}
	if bookmarks[0].Title != "one" || bookmarks[2].Title != "three" {
		t.Errorf("List() order = [%s %s %s], want [one two three]",
			bookmarks[0].Title, bookmarks[1].Title, bookmarks[2].Title)
	}
}

func TestBookmarkList_Empty(t *testing.T) {
	b := newTestDB(t).Bookmarks()

	bookmarks, err := b.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if bookmarks == nil {
		t.Error("List() returned nil, want empty slice")
	}
	if len(bookmarks) != 0 {
		t.Errorf("List() returned %d bookmarks, want 0", len(bookmarks))
	}
}

func TestBookmarkUpdate(t *testing.T) {
	b := newTestDB(t).Bookmarks()

	created := createTestBookmark(t, b, "old title", "http://old")
	originalDate := created.DateAdded

	created.Title = "new title"
	created.URL = "http://new"
	created.Notes = "updated"

	if err := b.Update(context.Background(), created); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := b.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() after update error = %v", err)
	}
	if got.Title != "new title" || got.URL != "http://new" || got.Notes != "updated" {
		t.Errorf("update not persisted: got %+v", got)
	}
	// date_added is immutable
	if !got.DateAdded.Equal(originalDate) {
		t.Errorf("Update() changed DateAdded: %v → %v", originalDate, got.DateAdded)
	}
}

func TestBookmarkUpdate_NotFound(t *testing.T) {
	b := newTestDB(t).Bookmarks()

	err := b.Update(context.Background(), &model.Bookmark{ID: 42, Title: "x", URL: "http://x"})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestBookmarkDelete(t *testing.T) {
	b := newTestDB(t).Bookmarks()

	created := createTestBookmark(t, b, "doomed", "http://gone")
	createTestBookmark(t, b, "survivor", "http://stays")

	if err := b.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	// Count decreases by exactly one and the deleted id is gone.
	bookmarks, err := b.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(bookmarks) != 1 {
		t.Errorf("List() returned %d bookmarks after delete, want 1", len(bookmarks))
	}

	_, err = b.GetByID(context.Background(), created.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
}

func TestBookmarkDelete_NotFound(t *testing.T) {
	b := newTestDB(t).Bookmarks()

	err := b.Delete(context.Background(), 12345)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}
