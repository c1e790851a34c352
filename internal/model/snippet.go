package model

import "time"

// Snippet represents a saved piece of source code.
//
// Language and Style name a chroma lexer and style respectively; both have
// server-side defaults ("python", "friendly") applied when the client omits
// them. The highlighted HTML rendering is derived on demand by the highlight
// package and is never stored.
//
// OwnerID serializes as "owner" — every snippet belongs to exactly one user.
// It is assigned from the authenticated requester at creation time, never from
// the request payload.
type Snippet struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Code     string `json:"code"`
	Linenos  bool   `json:"linenos"`
	Language string `json:"language"`
	Style    string `json:"style"`
	OwnerID  int64  `json:"owner"`

	// CreatedAt is kept for auditing but is not part of the API contract,
	// so it stays out of the JSON representation.
	CreatedAt time.Time `json:"-"`
}
