package models

import "strings"

// placeholderIDs are values that look like identifiers but are almost
// certainly leftovers from documentation or tests.
var placeholderIDs = map[string]struct{}{
	"invalid": {},
	"test":    {},
}

// IsValidIDFormat is a sanity check applied before by-ID lookups: the
// trimmed value must be at least three characters and not a known
// placeholder word. It is a heuristic, not a schema validation.
func IsValidIDFormat(id string) bool {
	trimmed := strings.TrimSpace(id)
	if len(trimmed) < 3 {
		return false
	}
	_, placeholder := placeholderIDs[trimmed]
	return !placeholder
}
