package postgresql

import "github.com/google/uuid"

// validID reports whether id can be compared against a UUID column. Ids
// arrive from clients, and anything else makes Postgres fail the statement
// with invalid_text_representation instead of matching no row.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}

// validIDs is validID over optional filter values; nil means unfiltered.
func validIDs(ids ...*string) bool {
	for _, id := range ids {
		if id != nil && !validID(*id) {
			return false
		}
	}
	return true
}
