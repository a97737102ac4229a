package helpers

import (
	"strings"

	"github.com/google/uuid"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes the LIKE wildcards in s so it matches literally.
// Postgres uses backslash as the default escape character.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// IsUUID reports whether s parses as a UUID.
// Repositories use it to map malformed ids to not-found instead of a driver error.
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// NullIfBlank returns nil for a nil or whitespace-only string pointer,
// otherwise the trimmed value.
func NullIfBlank(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// ContainsFold reports whether any of fields contains term, ignoring case
func ContainsFold(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
