package implementation

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"lab-assistant-be/internal/entity"
	"lab-assistant-be/internal/mapper"
	"lab-assistant-be/internal/model"
	"lab-assistant-be/internal/repository/contract"
	"lab-assistant-be/internal/repository/specification"
)

type IncidentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.IncidentMapper
}

func NewIncidentRepository(db *gorm.DB) contract.IncidentRepository {
	return &IncidentRepositoryImpl{
		db:     db,
		mapper: mapper.NewIncidentMapper(),
	}
}

func (r *IncidentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *IncidentRepositoryImpl) Create(ctx context.Context, incident *entity.Incident) error {
	m := r.mapper.ToModel(incident)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*incident = *r.mapper.ToEntity(m)
	return nil
}

func (r *IncidentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Incident, error) {
	var m model.Incident
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *IncidentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Incident, error) {
	var models []*model.Incident
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
