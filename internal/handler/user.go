package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mstrother/barky/internal/service"
)

// UserHandler exposes CRUD endpoints for user accounts.
//
// POST /users is open — it's registration. Update and delete require an
// authenticated requester (enforced at the route layer). Responses never
// include password material: model.User's hash field is json:"-".
type UserHandler struct {
	service *service.UserService
	logger  *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{service: service, logger: logger}
}

// userRequest is the write payload for create and update. The password is
// write-only: it arrives here in plaintext over TLS, is bcrypt-hashed in the
// service, and never appears in any response.
type userRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleList returns one page of users.
//
// HTTP: GET /users?limit=20&offset=0
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, total, err := h.service.List(r.Context(),
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
		Results: users,
	})
}

// HandleCreate registers a new user.
//
// HTTP: POST /users
// BODY: {"username": "ada", "password": "..."}
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid user JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "validation_error", Message: "invalid JSON body",
		})
		return
	}

	user, err := h.service.Create(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// HandleGetByID returns a single user with the ids of their snippets.
//
// HTTP: GET /users/{id}
func (h *UserHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "user")
	if !ok {
		return
	}

	user, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleUpdate fully replaces a user's username and password.
//
// HTTP: PUT /users/{id} (authenticated)
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "user")
	if !ok {
		return
	}

	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid user JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "validation_error", Message: "invalid JSON body",
		})
		return
	}

	user, err := h.service.Update(r.Context(), id, req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleDelete removes a user and, via cascade, their snippets.
//
// HTTP: DELETE /users/{id} (authenticated)
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "user")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
