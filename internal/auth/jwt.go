// Package auth provides JWT token issuance/validation, bcrypt password
// hashing, and the HTTP middleware that attaches a requester identity to the
// request context.
//
// AUTHENTICATION FLOW:
// 1. Client registers via POST /users (username + password)
// 2. Client logs in via POST /auth/login → server verifies the bcrypt hash
// 3. Server issues a JWT access token (returned in the body and set as an
//    HttpOnly cookie for browser clients)
// 4. On subsequent calls, middleware reads the Authorization: Bearer header
//    (or the cookie), validates the JWT, and sets the user id in the context
//
// WHY JWT?
// JWT is stateless — the server doesn't store session data. Everything needed
// (user id, expiry) is inside the signed token, and the signature ensures
// nobody can tamper with it without the secret key.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenIssuer identifies tokens minted by this server. Validation rejects
// tokens from anything else claiming to be us.
const tokenIssuer = "barky"

// TokenService handles JWT creation and validation.
//
// It holds the HMAC secret key used to sign and verify tokens. The same
// secret must be used for both operations.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. We only need the registered fields: "sub" holds
// the user's decimal id, plus the usual issuer/issued-at/expiry.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a new JWT access token for the given user.
//
// Token lifetime: 24 hours. After expiry, the client logs in again.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, fast, and fine for a
// single-server deployment where signer and verifier are the same process.
func (s *TokenService) Generate(userID int64) (string, error) {
	return s.GenerateWithDuration(userID, 24*time.Hour)
}

// GenerateWithDuration creates a token with a custom expiry duration.
// Used in tests to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID int64, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string.
// Returns the user id (from the "sub" claim) if the token is valid.
//
// The jwt library checks the signature, expiry, and issuer for us. Passing
// jwt.WithValidMethods pins the algorithm to HS256 — without it an attacker
// could attempt an algorithm confusion attack (e.g. alg "none").
func (s *TokenService) Validate(tokenStr string) (int64, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, fmt.Errorf("auth: token expired")
		}
		return 0, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("auth: invalid token claims")
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID < 1 {
		return 0, fmt.Errorf("auth: token has an invalid subject")
	}

	return userID, nil
}
