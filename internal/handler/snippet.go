package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mstrother/barky/internal/auth"
	"github.com/mstrother/barky/internal/service"
)

// SnippetHandler exposes CRUD endpoints for code snippets plus the highlight
// action. Reads are public; writes go through auth.RequireAuth at the route
// layer, and the service enforces owner-or-read-only on top of that.
type SnippetHandler struct {
	service *service.SnippetService
	logger  *slog.Logger
}

// NewSnippetHandler creates a new SnippetHandler.
func NewSnippetHandler(service *service.SnippetService, logger *slog.Logger) *SnippetHandler {
	return &SnippetHandler{service: service, logger: logger}
}

// snippetRequest is the write payload for create and update.
// "owner" is accepted but only takes effect on update — creation always
// assigns the authenticated requester, whatever the payload says.
type snippetRequest struct {
	Title    string `json:"title"`
	Code     string `json:"code"`
	Linenos  bool   `json:"linenos"`
	Language string `json:"language"`
	Style    string `json:"style"`
	Owner    int64  `json:"owner"`
}

func (req snippetRequest) input() service.SnippetInput {
	return service.SnippetInput{
		Title:    req.Title,
		Code:     req.Code,
		Linenos:  req.Linenos,
		Language: req.Language,
		Style:    req.Style,
		Owner:    req.Owner,
	}
}

// HandleList returns one page of snippets.
//
// HTTP: GET /snippets?ordering=title&limit=20&offset=0
func (h *SnippetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	snippets, total, err := h.service.List(r.Context(),
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
		Results: snippets,
	})
}

// HandleCreate saves a new snippet owned by the requester.
//
// HTTP: POST /snippets (authenticated)
// BODY: {"title": "fib", "code": "def fib(n): ...", "language": "python"}
func (h *SnippetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req snippetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid snippet JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "validation_error", Message: "invalid JSON body",
		})
		return
	}

	snippet, err := h.service.Create(r.Context(), userID, req.input())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, snippet)
}

// HandleGetByID returns a single snippet.
//
// HTTP: GET /snippets/{id}
func (h *SnippetHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "snippet")
	if !ok {
		return
	}

	snippet, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snippet)
}

// HandleUpdate fully replaces a snippet (owner only).
//
// HTTP: PUT /snippets/{id} (authenticated)
func (h *SnippetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "snippet")
	if !ok {
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())

	var req snippetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid snippet JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "validation_error", Message: "invalid JSON body",
		})
		return
	}

	snippet, err := h.service.Update(r.Context(), userID, id, req.input())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snippet)
}

// HandleDelete removes a snippet (owner only).
//
// HTTP: DELETE /snippets/{id} (authenticated)
func (h *SnippetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "snippet")
	if !ok {
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleHighlight renders a snippet as highlighted HTML.
//
// HTTP: GET /snippets/{id}/highlight
//
// This endpoint returns text/html, not JSON — the body IS the rendered
// document, ready to drop into an <iframe> or open directly.
func (h *SnippetHandler) HandleHighlight(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "snippet")
	if !ok {
		return
	}

	rendered, err := h.service.Highlight(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeHTML(w, http.StatusOK, rendered)
}
