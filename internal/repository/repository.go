// Package repository declares the storage interfaces consumed by the service
// layer. Services program against these interfaces, not against a concrete
// database — the sqlite subpackage provides the real implementation, and the
// service tests provide in-memory mocks.
package repository

import (
	"context"

	"github.com/mstrother/barky/internal/model"
)

// List methods return the full resultset in ascending id order (insertion
// order). Ordering directives and pagination are applied by the service layer
// on top of that, so ties under any ordering keep their insertion order.

type BookmarkRepository interface {
	Create(ctx context.Context, bookmark *model.Bookmark) error
	GetByID(ctx context.Context, id int64) (*model.Bookmark, error)
	List(ctx context.Context) ([]model.Bookmark, error)
	Update(ctx context.Context, bookmark *model.Bookmark) error
	Delete(ctx context.Context, id int64) error
}

type SnippetRepository interface {
	Create(ctx context.Context, snippet *model.Snippet) error
	GetByID(ctx context.Context, id int64) (*model.Snippet, error)
	List(ctx context.Context) ([]model.Snippet, error)
	Update(ctx context.Context, snippet *model.Snippet) error
	Delete(ctx context.Context, id int64) error
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id int64) error
}
