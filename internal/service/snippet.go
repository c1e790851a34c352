package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mstrother/barky/internal/apperror"
	"github.com/mstrother/barky/internal/highlight"
	"github.com/mstrother/barky/internal/model"
	"github.com/mstrother/barky/internal/ordering"
	"github.com/mstrother/barky/internal/permission"
	"github.com/mstrother/barky/internal/repository"
)

// snippetOrderFields is the ordering allow-list for snippet lists. The API
// historically also accepted "url" and "date_added" here even though snippets
// have neither field — those directives resolve to nothing and the default id
// order applies, which the fallback path already does for any unknown name.
var snippetOrderFields = ordering.Fields[model.Snippet]{
	"id":    func(a, b model.Snippet) bool { return a.ID < b.ID },
	"title": func(a, b model.Snippet) bool { return a.Title < b.Title },
}

const defaultSnippetOrdering = "id"

// SnippetInput carries the client-writable snippet fields into Create and
// Update. Owner is only honoured on update (and only after the permission
// check); on create the owner is always the authenticated requester.
type SnippetInput struct {
	Title    string
	Code     string
	Linenos  bool
	Language string
	Style    string
	Owner    int64
}

// SnippetService handles business logic for code snippets: validation,
// the owner-or-read-only rule, and highlight rendering.
//
// It holds the user repository in addition to the snippet repository because
// ownership transfer on update must verify that the new owner exists.
type SnippetService struct {
	repo   repository.SnippetRepository
	users  repository.UserRepository
	logger *slog.Logger
}

// NewSnippetService creates a new SnippetService.
func NewSnippetService(repo repository.SnippetRepository, users repository.UserRepository, logger *slog.Logger) *SnippetService {
	return &SnippetService{
		repo:   repo,
		users:  users,
		logger: logger,
	}
}

// validateSnippetInput enforces the shared write-time rules and fills in the
// language/style defaults. Mutates in to return the normalized values.
func validateSnippetInput(in *SnippetInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if len(in.Title) > MaxTitleLength {
		return apperror.ValidationFailed("title",
			fmt.Sprintf("snippet title must be %d characters or less", MaxTitleLength))
	}

	if in.Code == "" {
		return apperror.ValidationFailed("code", "snippet code is required")
	}
	if len(in.Code) > MaxCodeLength {
		return apperror.ValidationFailed("code",
			fmt.Sprintf("snippet code must be %d characters or less", MaxCodeLength))
	}

	// Empty means "use the default"; anything else must be a registered name.
	if in.Language == "" {
		in.Language = highlight.DefaultLanguage
	} else if !highlight.IsLanguage(in.Language) {
		return apperror.ValidationFailed("language",
			fmt.Sprintf("%q is not a supported language", in.Language))
	}

	if in.Style == "" {
		in.Style = highlight.DefaultStyle
	} else if !highlight.IsStyle(in.Style) {
		return apperror.ValidationFailed("style",
			fmt.Sprintf("%q is not a supported style", in.Style))
	}

	return nil
}

// Create validates and saves a new snippet owned by the requester.
//
// The owner is ALWAYS requesterID — any "owner" value in the payload is
// ignored at creation time. Anonymous creation is rejected here as well as at
// the route layer; the service is the last line of defence for the
// one-owner invariant.
func (s *SnippetService) Create(ctx context.Context, requesterID int64, in SnippetInput) (*model.Snippet, error) {
	if requesterID <= 0 {
		return nil, apperror.Unauthorized("authentication required to create snippets")
	}

	if err := validateSnippetInput(&in); err != nil {
		return nil, err
	}

	snippet := &model.Snippet{
		Title:    in.Title,
		Code:     in.Code,
		Linenos:  in.Linenos,
		Language: in.Language,
		Style:    in.Style,
		OwnerID:  requesterID,
	}

	if err := s.repo.Create(ctx, snippet); err != nil {
		s.logger.Error("failed to create snippet",
			slog.Int64("owner", requesterID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating snippet: %w", err)
	}

	s.logger.Info("snippet created",
		slog.Int64("id", snippet.ID),
		slog.Int64("owner", snippet.OwnerID),
	)

	return snippet, nil
}

// GetByID retrieves a snippet by its id. Reads are open to everyone.
func (s *SnippetService) GetByID(ctx context.Context, id int64) (*model.Snippet, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns one page of snippets plus the pre-pagination total.
func (s *SnippetService) List(ctx context.Context, directive string, limit, offset int) ([]model.Snippet, int, error) {
	snippets, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list snippets", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("listing snippets: %w", err)
	}

	total := len(snippets)
	ordering.Apply(snippets, directive, snippetOrderFields, defaultSnippetOrdering)
	page, _, _ := paginate(snippets, limit, offset)

	return page, total, nil
}

// Update replaces a snippet's fields, subject to the owner-or-read-only rule.
//
// ERROR ORDER MATTERS:
// NotFound is checked before Forbidden — a snippet that doesn't exist returns
// 404 to everyone. Reads are public anyway, so a 404-vs-403 distinction here
// leaks nothing the GET endpoint wouldn't tell you.
//
// Ownership transfer: a non-zero in.Owner different from the current owner
// reassigns the snippet, provided the target user exists. Zero means "keep
// the current owner" so plain clients don't have to echo the owner field.
func (s *SnippetService) Update(ctx context.Context, requesterID, id int64, in SnippetInput) (*model.Snippet, error) {
	snippet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !permission.CanModifySnippet(requesterID, snippet) {
		if requesterID <= 0 {
			return nil, apperror.Unauthorized("authentication required to modify snippets")
		}
		return nil, apperror.Forbidden("only the snippet's owner may modify it")
	}

	if err := validateSnippetInput(&in); err != nil {
		return nil, err
	}

	if in.Owner != 0 && in.Owner != snippet.OwnerID {
		if _, err := s.users.GetByID(ctx, in.Owner); err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				return nil, apperror.ValidationFailed("owner",
					fmt.Sprintf("user %d does not exist", in.Owner))
			}
			return nil, fmt.Errorf("checking new owner: %w", err)
		}
		snippet.OwnerID = in.Owner
	}

	snippet.Title = in.Title
	snippet.Code = in.Code
	snippet.Linenos = in.Linenos
	snippet.Language = in.Language
	snippet.Style = in.Style

	if err := s.repo.Update(ctx, snippet); err != nil {
		s.logger.Error("failed to update snippet",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating snippet: %w", err)
	}

	s.logger.Info("snippet updated",
		slog.Int64("id", snippet.ID),
		slog.Int64("owner", snippet.OwnerID),
	)

	return snippet, nil
}

// Delete removes a snippet, subject to the owner-or-read-only rule.
func (s *SnippetService) Delete(ctx context.Context, requesterID, id int64) error {
	snippet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !permission.CanModifySnippet(requesterID, snippet) {
		if requesterID <= 0 {
			return apperror.Unauthorized("authentication required to modify snippets")
		}
		return apperror.Forbidden("only the snippet's owner may delete it")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("snippet deleted", slog.Int64("id", id))
	return nil
}

// Highlight renders a snippet's code as a standalone HTML document using its
// stored language, style, and linenos settings. Nothing is cached or stored —
// the rendering is recomputed on every call.
func (s *SnippetService) Highlight(ctx context.Context, id int64) (string, error) {
	snippet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	rendered, err := highlight.Render(snippet.Code, snippet.Language, snippet.Style, snippet.Linenos)
	if err != nil {
		s.logger.Error("failed to highlight snippet",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("highlighting snippet %d: %w", id, err)
	}

	return rendered, nil
}
