package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mstrother/barky/internal/auth"
	"github.com/mstrother/barky/internal/model"
	"github.com/mstrother/barky/internal/service"
)

// AuthHandler manages login, logout, and the whoami endpoint.
//
// LOGIN FLOW:
//  1. Client POSTs username+password to /auth/login
//  2. The user service verifies the bcrypt hash
//  3. We issue a JWT, return it in the body AND set it as an HttpOnly cookie
//
// The dual delivery covers both client styles: API clients keep the body
// token and send Authorization: Bearer; browsers get the cookie for free.
// HttpOnly means page JavaScript can't read the cookie, so an XSS can't
// exfiltrate it.
type AuthHandler struct {
	users  *service.UserService
	tokens *auth.TokenService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(users *service.UserService, tokens *auth.TokenService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// HandleLogin verifies credentials and issues a token.
//
// HTTP: POST /auth/login
// BODY: {"username": "ada", "password": "..."}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "validation_error", Message: "invalid JSON body",
		})
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		// Failed logins are worth a log line; they're how you notice
		// credential stuffing.
		h.logger.Warn("login failed", slog.String("username", req.Username))
		writeError(w, err)
		return
	}

	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		h.logger.Error("failed to issue token",
			slog.Int64("userID", user.ID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   24 * 60 * 60, // matches the token's 24h lifetime
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info("user logged in",
		slog.Int64("userID", user.ID),
		slog.String("username", user.Username),
	)

	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

// HandleLogout clears the token cookie. The JWT itself stays valid until it
// expires (stateless tokens can't be revoked without a denylist); logout just
// makes the browser forget it.
//
// HTTP: POST /auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // delete immediately
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	w.WriteHeader(http.StatusNoContent)
}

// HandleMe returns the authenticated requester's own account.
//
// HTTP: GET /auth/me (authenticated)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// RequireAuth should have caught this; belt and braces.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: "unauthorized", Message: "valid authentication required",
		})
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
