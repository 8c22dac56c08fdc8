package unitofwork

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"lab-assistant-be/internal/repository/contract"
	"lab-assistant-be/internal/repository/implementation"
)

type unitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB

	labRequestRepo contract.LabRequestRepository
	incidentRepo   contract.IncidentRepository
	toolCallRepo   contract.ToolCallRepository
}

func newUnitOfWork(db *gorm.DB) *unitOfWorkImpl {
	return &unitOfWorkImpl{db: db}
}

// conn returns the transaction when one is open, the base session otherwise.
func (u *unitOfWorkImpl) conn() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *unitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return errors.New("unit of work: transaction already open")
	}
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	u.tx = tx
	u.resetRepositories()
	return nil
}

func (u *unitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return errors.New("unit of work: no open transaction")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	u.resetRepositories()
	return err
}

func (u *unitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return nil
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	u.resetRepositories()
	return err
}

func (u *unitOfWorkImpl) resetRepositories() {
	u.labRequestRepo = nil
	u.incidentRepo = nil
	u.toolCallRepo = nil
}

func (u *unitOfWorkImpl) LabRequestRepository() contract.LabRequestRepository {
	if u.labRequestRepo == nil {
		u.labRequestRepo = implementation.NewLabRequestRepository(u.conn())
	}
	return u.labRequestRepo
}

func (u *unitOfWorkImpl) IncidentRepository() contract.IncidentRepository {
	if u.incidentRepo == nil {
		u.incidentRepo = implementation.NewIncidentRepository(u.conn())
	}
	return u.incidentRepo
}

func (u *unitOfWorkImpl) ToolCallRepository() contract.ToolCallRepository {
	if u.toolCallRepo == nil {
		u.toolCallRepo = implementation.NewToolCallRepository(u.conn())
	}
	return u.toolCallRepo
}
