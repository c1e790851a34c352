// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// Bookmark represents a saved link.
//
// The `json:"..."` tags use snake_case (date_added, not dateAdded) because the
// API contract predates this server and existing clients send and expect
// snake_case field names.
//
// WHY int64 FOR ID?
// Bookmark IDs are SQLite INTEGER PRIMARY KEY values (the table's rowid).
// SQLite rowids are 64-bit signed integers, so int64 is the exact Go match.
type Bookmark struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"` // free-form; the API never enforced URL syntax
	Notes     string    `json:"notes"`
	DateAdded time.Time `json:"date_added"`
}
