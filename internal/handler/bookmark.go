package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mstrother/barky/internal/service"
)

// BookmarkHandler exposes CRUD endpoints for bookmarks.
//
// Handlers in this package do HTTP only: decode the body, pull out path and
// query parameters, call the service, map the result to a status code. All
// rules (required fields, ordering, permissions) live in the service layer.
type BookmarkHandler struct {
	service *service.BookmarkService
	logger  *slog.Logger
}

// NewBookmarkHandler creates a new BookmarkHandler.
func NewBookmarkHandler(service *service.BookmarkService, logger *slog.Logger) *BookmarkHandler {
	return &BookmarkHandler{service: service, logger: logger}
}

// bookmarkRequest is the write payload for create and update.
//
// Unknown JSON fields are silently ignored — the decoder only fills what's
// declared here, which is the API's documented lenient behaviour (clients
// may send an "id" on POST; it does nothing).
type bookmarkRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Notes string `json:"notes"`
}

// HandleList returns one page of bookmarks.
//
// HTTP: GET /bookmarks?ordering=-date_added&limit=20&offset=0
func (h *BookmarkHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	bookmarks, total, err := h.service.List(r.Context(),
		r.URL.Query().Get("ordering"),
		queryInt(r, "limit"),
		queryInt(r, "offset"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listEnvelope{
		Count:   total,
		Limit:   pageLimit(queryInt(r, "limit")),
		Offset:  pageOffset(queryInt(r, "offset")),
		Results: bookmarks,
	})
}

// HandleCreate saves a new bookmark.
//
// HTTP: POST /bookmarks
// BODY: {"title": "Awesome Go", "url": "https://awesome-go.com/", "notes": "..."}
func (h *BookmarkHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req bookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid bookmark JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "validation_error", Message: "invalid JSON body",
		})
		return
	}

	bookmark, err := h.service.Create(r.Context(), req.Title, req.URL, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, bookmark)
}

// HandleGetByID returns a single bookmark.
//
// HTTP: GET /bookmarks/{id}
func (h *BookmarkHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "bookmark")
	if !ok {
		return
	}

	bookmark, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bookmark)
}

// HandleUpdate fully replaces a bookmark.
//
// HTTP: PUT /bookmarks/{id}
func (h *BookmarkHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "bookmark")
	if !ok {
		return
	}

	var req bookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid bookmark JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "validation_error", Message: "invalid JSON body",
		})
		return
	}

	bookmark, err := h.service.Update(r.Context(), id, req.Title, req.URL, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bookmark)
}

// HandleDelete removes a bookmark.
//
// HTTP: DELETE /bookmarks/{id}
func (h *BookmarkHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "bookmark")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
