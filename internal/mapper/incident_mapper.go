package mapper

import (
	"lab-assistant-be/internal/entity"
	"lab-assistant-be/internal/model"
)

type IncidentMapper struct{}

func NewIncidentMapper() *IncidentMapper {
	return &IncidentMapper{}
}

func (m *IncidentMapper) ToEntity(i *model.Incident) *entity.Incident {
	if i == nil {
		return nil
	}
	return &entity.Incident{
		Id:          i.Id,
		Title:       i.Title,
		Description: i.Description,
		Resolution:  i.Resolution,
		CreatedAt:   i.CreatedAt,
	}
}

func (m *IncidentMapper) ToModel(i *entity.Incident) *model.Incident {
	if i == nil {
		return nil
	}
	return &model.Incident{
		Id:          i.Id,
		Title:       i.Title,
		Description: i.Description,
		Resolution:  i.Resolution,
		CreatedAt:   i.CreatedAt,
	}
}

func (m *IncidentMapper) ToEntities(models []*model.Incident) []*entity.Incident {
	entities := make([]*entity.Incident, len(models))
	for i, mod := range models {
		entities[i] = m.ToEntity(mod)
	}
	return entities
}
