// Package service contains the business logic layer of the application.
//
// The layering follows the usual three-layer shape:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces rules, orchestrates
//	Repository (data layer)  → reads/writes the database
//
// Services accept primitives and small input structs — never *http.Request —
// and return domain errors from the apperror package, never HTTP status
// codes. They are constructed with repository interfaces, so tests inject
// in-memory mocks instead of SQLite.
//
// ORDERING AND PAGINATION LIVE HERE:
// Repositories return complete resultsets in insertion (id) order. The
// service applies the ?ordering= directive with the ordering package's
// stable sort, THEN slices out the requested page. Sorting a page of an
// unsorted set would order only that page, which is not what a client asking
// for "?ordering=title&offset=20" means.
package service

// Pagination bounds shared by every list operation.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100 // prevent fetching unbounded pages
)

// Field length bounds. The API's contract only requires non-empty values;
// the caps exist so a misbehaving client can't store megabytes in a title.
const (
	MaxTitleLength = 200
	MaxCodeLength  = 100000 // ~100KB of code
	MaxURLLength   = 2000
)

// paginate clamps limit/offset to sane bounds and returns the page slice
// plus the normalized values (echoed back in the list envelope).
func paginate[T any](items []T, limit, offset int) ([]T, int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	if offset >= len(items) {
		return []T{}, limit, offset
	}
	items = items[offset:]
	if limit < len(items) {
		items = items[:limit]
	}
	return items, limit, offset
}
