package repository

import (
	"database/sql"
	"strings"
	"time"

	"github.com/CoolCerebralTech/mirathi-roadmap/internal/domain"
)

// parseNullableTime parses a sql.NullString into a *time.Time using the given layout.
// Returns nil if the value is NULL, empty, or fails to parse.
func parseNullableTime(s sql.NullString, layout string) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(layout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// nullableTimeToString converts a *time.Time to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil, otherwise returns the formatted string.
func nullableTimeToString(t *time.Time, layout string) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(layout)
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// intToBool converts a SQLite integer (0 or 1) to a Go bool.
func intToBool(i int) bool {
	return i != 0
}

// joinIDs flattens an id set for storage in a single text column.
func joinIDs(ids []string) string {
	return strings.Join(ids, ",")
}

// splitIDs reverses joinIDs; an empty column yields a nil slice.
func splitIDs(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// joinProofTypes and splitProofTypes store the allowed proof type set the
// same way as id sets.
func joinProofTypes(types []domain.ProofType) string {
	parts := make([]string, len(types))
	for i, pt := range types {
		parts[i] = string(pt)
	}
	return strings.Join(parts, ",")
}

func splitProofTypes(s string) []domain.ProofType {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	types := make([]domain.ProofType, len(parts))
	for i, p := range parts {
		types[i] = domain.ProofType(p)
	}
	return types
}
