package unitofwork

import (
	"context"

	"lab-assistant-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	LabRequestRepository() contract.LabRequestRepository
	IncidentRepository() contract.IncidentRepository
	ToolCallRepository() contract.ToolCallRepository
}
