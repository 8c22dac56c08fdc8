package implementation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lab-assistant-be/internal/entity"
	"lab-assistant-be/internal/mapper"
	"lab-assistant-be/internal/model"
	"lab-assistant-be/internal/repository/contract"
	"lab-assistant-be/internal/repository/specification"
)

type LabRequestRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RequestMapper
}

func NewLabRequestRepository(db *gorm.DB) contract.LabRequestRepository {
	return &LabRequestRepositoryImpl{
		db:     db,
		mapper: mapper.NewRequestMapper(),
	}
}

func (r *LabRequestRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *LabRequestRepositoryImpl) Create(ctx context.Context, request *entity.LabRequest) error {
	m := r.mapper.LabRequestToModel(request)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*request = *r.mapper.LabRequestToEntity(m)
	return nil
}

func (r *LabRequestRepositoryImpl) Update(ctx context.Context, request *entity.LabRequest) error {
	m := r.mapper.LabRequestToModel(request)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*request = *r.mapper.LabRequestToEntity(m)
	return nil
}

func (r *LabRequestRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LabRequest, error) {
	var m model.LabRequest
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.LabRequestToEntity(&m), nil
}

func (r *LabRequestRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LabRequest, error) {
	var models []*model.LabRequest
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.LabRequest, len(models))
	for i, m := range models {
		entities[i] = r.mapper.LabRequestToEntity(m)
	}
	return entities, nil
}

func (r *LabRequestRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.LabRequest{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Claim is a compare-and-set on status: the UPDATE only matches while the
// row is still queued, so exactly one worker wins.
func (r *LabRequestRepositoryImpl) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.LabRequest{}).
		Where("id = ? AND status = ?", id, string(entity.RequestStatusQueued)).
		Update("status", string(entity.RequestStatusRunning))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
