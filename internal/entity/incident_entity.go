package entity

import "time"

// Incident is a past support incident queried by the query_incidents tool.
// Ids follow the "INC-NNN" convention from the incident tracker export.
type Incident struct {
	Id          string
	Title       string
	Description string
	Resolution  string
	CreatedAt   time.Time
}
