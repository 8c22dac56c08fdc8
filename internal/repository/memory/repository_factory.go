package memory

import (
	"context"

	"lab-assistant-be/internal/repository/contract"
	"lab-assistant-be/internal/repository/unitofwork"
)

// RepositoryFactory hands out units of work that all share the same
// in-memory stores. Begin/Commit/Rollback are no-ops: the memory
// implementation has no transactions.
type RepositoryFactory struct {
	labRequests *LabRequestRepository
	incidents   *IncidentRepository
	toolCalls   *ToolCallRepository
}

func NewRepositoryFactory() *RepositoryFactory {
	return &RepositoryFactory{
		labRequests: NewLabRequestRepository(),
		incidents:   NewIncidentRepository(),
		toolCalls:   NewToolCallRepository(),
	}
}

func (f *RepositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &memoryUnitOfWork{factory: f}
}

type memoryUnitOfWork struct {
	factory *RepositoryFactory
}

func (u *memoryUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *memoryUnitOfWork) Commit() error                   { return nil }
func (u *memoryUnitOfWork) Rollback() error                 { return nil }

func (u *memoryUnitOfWork) LabRequestRepository() contract.LabRequestRepository {
	return u.factory.labRequests
}

func (u *memoryUnitOfWork) IncidentRepository() contract.IncidentRepository {
	return u.factory.incidents
}

func (u *memoryUnitOfWork) ToolCallRepository() contract.ToolCallRepository {
	return u.factory.toolCalls
}

var _ unitofwork.RepositoryFactory = (*RepositoryFactory)(nil)
