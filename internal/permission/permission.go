// Package permission holds the object-level access rules as plain functions.
//
// Keeping the rules here — rather than buried in HTTP middleware — means they
// are testable with a direct function call and reusable by any caller (the
// snippet service today, a CLI or admin job tomorrow).
package permission

import "github.com/mstrother/barky/internal/model"

// CanModifySnippet implements the owner-or-read-only rule for mutations:
// only the snippet's owner may update or delete it. Reads are open to
// everyone and never consult this function.
//
// requesterID == 0 means "anonymous", which can never own anything.
func CanModifySnippet(requesterID int64, snippet *model.Snippet) bool {
	return requesterID > 0 && requesterID == snippet.OwnerID
}
