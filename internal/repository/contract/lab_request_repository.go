package contract

import (
	"context"

	"github.com/google/uuid"

	"lab-assistant-be/internal/entity"
	"lab-assistant-be/internal/repository/specification"
)

type LabRequestRepository interface {
	Create(ctx context.Context, request *entity.LabRequest) error
	Update(ctx context.Context, request *entity.LabRequest) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LabRequest, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LabRequest, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// Claim atomically moves a queued request to running. It returns false
	// when the request was not in the queued state (already claimed, or
	// terminal), which callers must treat as "someone else owns it".
	Claim(ctx context.Context, id uuid.UUID) (bool, error)
}
