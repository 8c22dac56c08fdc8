package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/patrickmn/go-cache"

	"lab-assistant-be/internal/entity"
	"lab-assistant-be/internal/repository/contract"
	"lab-assistant-be/internal/repository/specification"
)

type IncidentRepository struct {
	cache *cache.Cache
}

func NewIncidentRepository() *IncidentRepository {
	return &IncidentRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (r *IncidentRepository) Create(ctx context.Context, incident *entity.Incident) error {
	cp := *incident
	r.cache.Set(incident.Id, &cp, cache.NoExpiration)
	return nil
}

func (r *IncidentRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Incident, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *IncidentRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Incident, error) {
	var out []*entity.Incident
	for _, item := range r.cache.Items() {
		inc := item.Object.(*entity.Incident)
		if matchesIncident(inc, specs) {
			cp := *inc
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out, nil
}

func matchesIncident(inc *entity.Incident, specs []specification.Specification) bool {
	for _, spec := range specs {
		if s, ok := spec.(specification.MatchingText); ok {
			q := strings.ToLower(s.Query)
			haystack := strings.ToLower(inc.Title + " " + inc.Description + " " + inc.Resolution)
			if !strings.Contains(haystack, q) {
				return false
			}
		}
	}
	return true
}

var _ contract.IncidentRepository = (*IncidentRepository)(nil)
