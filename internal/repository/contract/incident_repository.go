package contract

import (
	"context"

	"lab-assistant-be/internal/entity"
	"lab-assistant-be/internal/repository/specification"
)

type IncidentRepository interface {
	Create(ctx context.Context, incident *entity.Incident) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Incident, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Incident, error)
}
