package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mstrother/barky/internal/apperror"
	"github.com/mstrother/barky/internal/model"
	"github.com/mstrother/barky/internal/ordering"
	"github.com/mstrother/barky/internal/repository"
)

// bookmarkOrderFields is the ordering allow-list for bookmark lists.
// Anything else in ?ordering= falls back to the default below.
var bookmarkOrderFields = ordering.Fields[model.Bookmark]{
	"id":         func(a, b model.Bookmark) bool { return a.ID < b.ID },
	"title":      func(a, b model.Bookmark) bool { return a.Title < b.Title },
	"url":        func(a, b model.Bookmark) bool { return a.URL < b.URL },
	"date_added": func(a, b model.Bookmark) bool { return a.DateAdded.Before(b.DateAdded) },
}

// defaultBookmarkOrdering is newest-first — the behaviour bookmark clients
// have always seen when they pass no directive.
const defaultBookmarkOrdering = "-date_added"

// BookmarkService handles business logic for bookmarks.
//
// Bookmarks carry no ownership: any authenticated user may mutate any
// bookmark (the route layer enforces the authentication part).
type BookmarkService struct {
	repo   repository.BookmarkRepository
	logger *slog.Logger
}

// NewBookmarkService creates a new BookmarkService.
func NewBookmarkService(repo repository.BookmarkRepository, logger *slog.Logger) *BookmarkService {
	return &BookmarkService{
		repo:   repo,
		logger: logger,
	}
}

// validateBookmark enforces the write-time rules shared by Create and Update.
func validateBookmark(title, url string) error {
	if title == "" {
		return apperror.ValidationFailed("title", "bookmark title is required")
	}
	if len(title) > MaxTitleLength {
		return apperror.ValidationFailed("title",
			fmt.Sprintf("bookmark title must be %d characters or less", MaxTitleLength))
	}
	if url == "" {
		return apperror.ValidationFailed("url", "bookmark url is required")
	}
	if len(url) > MaxURLLength {
		return apperror.ValidationFailed("url",
			fmt.Sprintf("bookmark url must be %d characters or less", MaxURLLength))
	}
	// No URL syntax validation beyond non-empty — the url field has always
	// been free-form and clients store things like "chrome://flags".
	return nil
}

// Create validates and saves a new bookmark. The repository assigns the id
// and date_added.
func (s *BookmarkService) Create(ctx context.Context, title, url, notes string) (*model.Bookmark, error) {
	title = strings.TrimSpace(title)
	url = strings.TrimSpace(url)

	if err := validateBookmark(title, url); err != nil {
		return nil, err
	}

	bookmark := &model.Bookmark{
		Title: title,
		URL:   url,
		Notes: strings.TrimSpace(notes),
	}

	if err := s.repo.Create(ctx, bookmark); err != nil {
		s.logger.Error("failed to create bookmark",
			slog.String("title", title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating bookmark: %w", err)
	}

	s.logger.Info("bookmark created",
		slog.Int64("id", bookmark.ID),
		slog.String("title", bookmark.Title),
	)

	return bookmark, nil
}

// GetByID retrieves a bookmark by its id.
// Returns apperror.ErrNotFound if the bookmark doesn't exist.
func (s *BookmarkService) GetByID(ctx context.Context, id int64) (*model.Bookmark, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns one page of bookmarks plus the pre-pagination total.
//
// directive is the raw ?ordering= value ("title", "-date_added", ...).
// Unknown fields fall back to the default newest-first order.
func (s *BookmarkService) List(ctx context.Context, directive string, limit, offset int) ([]model.Bookmark, int, error) {
	bookmarks, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list bookmarks", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("listing bookmarks: %w", err)
	}

	total := len(bookmarks)
	ordering.Apply(bookmarks, directive, bookmarkOrderFields, defaultBookmarkOrdering)
	page, _, _ := paginate(bookmarks, limit, offset)

	return page, total, nil
}

// Update replaces a bookmark's title, url, and notes (full PUT semantics —
// all required fields must be present). date_added is immutable.
func (s *BookmarkService) Update(ctx context.Context, id int64, title, url, notes string) (*model.Bookmark, error) {
	title = strings.TrimSpace(title)
	url = strings.TrimSpace(url)

	if err := validateBookmark(title, url); err != nil {
		return nil, err
	}

	// Fetch first so the response carries the immutable date_added and so a
	// missing id surfaces as NotFound before we touch anything.
	bookmark, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	bookmark.Title = title
	bookmark.URL = url
	bookmark.Notes = strings.TrimSpace(notes)

	if err := s.repo.Update(ctx, bookmark); err != nil {
		s.logger.Error("failed to update bookmark",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating bookmark: %w", err)
	}

	s.logger.Info("bookmark updated", slog.Int64("id", bookmark.ID))

	return bookmark, nil
}

// Delete removes a bookmark by its id.
// Returns apperror.ErrNotFound if the bookmark doesn't exist.
func (s *BookmarkService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("bookmark deleted", slog.Int64("id", id))
	return nil
}
