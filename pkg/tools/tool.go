package tools

import "errors"

// ErrToolUnavailable marks an infrastructure failure of a retrieval tool
// (corpus unreadable, store unreachable). "No matches" is never an error;
// tools return an empty slice for that.
var ErrToolUnavailable = errors.New("tool unavailable")

// DocHit is one documentation match returned by search_docs.
type DocHit struct {
	Filename  string   `json:"filename"`
	Title     string   `json:"title"`
	Snippet   string   `json:"snippet"`
	KeyPoints []string `json:"key_points,omitempty"`
}

// IncidentHit is one past-incident match returned by query_incidents.
type IncidentHit struct {
	Id         string `json:"id"`
	Title      string `json:"title"`
	Resolution string `json:"resolution,omitempty"`
}
