package tools

import (
	"context"
	"fmt"

	"lab-assistant-be/internal/repository/specification"
	"lab-assistant-be/internal/repository/unitofwork"
)

// IncidentSearcher implements the query_incidents tool against the
// incident store reached through the caller's unit of work.
type IncidentSearcher struct{}

func NewIncidentSearcher() *IncidentSearcher {
	return &IncidentSearcher{}
}

// QueryIncidents returns past incidents whose text matches the query.
// Store errors are reported as ErrToolUnavailable so the executor can
// apply its empty-result policy.
func (s *IncidentSearcher) QueryIncidents(ctx context.Context, query string, uow unitofwork.UnitOfWork) ([]IncidentHit, error) {
	incidents, err := uow.IncidentRepository().FindAll(ctx, specification.MatchingText{Query: query})
	if err != nil {
		return nil, fmt.Errorf("%w: querying incidents: %v", ErrToolUnavailable, err)
	}

	hits := make([]IncidentHit, len(incidents))
	for i, inc := range incidents {
		hits[i] = IncidentHit{
			Id:         inc.Id,
			Title:      inc.Title,
			Resolution: inc.Resolution,
		}
	}
	return hits, nil
}
