package model

import "time"

// User represents a registered account.
//
// WHY PasswordHash AND NOT Password?
// The stored value is a bcrypt hash, never the plaintext. The `json:"-"` tag
// makes it impossible to leak through any handler that encodes a User —
// encoding/json skips the field entirely. Clients submit a plaintext
// "password" field through a dedicated request struct in the handler layer;
// it is hashed before it ever reaches this struct.
//
// SnippetIDs is the reverse side of the snippet ownership relation. It is
// derived by the repository at read time (a second query against the snippets
// table), not persisted on the user row.
type User struct {
	ID           int64   `json:"id"`
	Username     string  `json:"username"`
	PasswordHash string  `json:"-"`
	SnippetIDs   []int64 `json:"snippets"`

	CreatedAt time.Time `json:"-"`
}
