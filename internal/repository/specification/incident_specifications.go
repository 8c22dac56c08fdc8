package specification

import "gorm.io/gorm"

// MatchingText matches incidents whose title, description or resolution
// contains the query text (case-insensitive).
type MatchingText struct {
	Query string
}

func (s MatchingText) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Query + "%"
	return db.Where(
		"title ILIKE ? OR description ILIKE ? OR resolution ILIKE ?",
		pattern, pattern, pattern,
	)
}
