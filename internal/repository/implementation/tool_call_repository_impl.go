package implementation

import (
	"context"

	"gorm.io/gorm"

	"lab-assistant-be/internal/entity"
	"lab-assistant-be/internal/mapper"
	"lab-assistant-be/internal/model"
	"lab-assistant-be/internal/repository/contract"
	"lab-assistant-be/internal/repository/specification"
)

type ToolCallRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ToolCallMapper
}

func NewToolCallRepository(db *gorm.DB) contract.ToolCallRepository {
	return &ToolCallRepositoryImpl{
		db:     db,
		mapper: mapper.NewToolCallMapper(),
	}
}

func (r *ToolCallRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ToolCallRepositoryImpl) CreateAll(ctx context.Context, calls []*entity.ToolCall) error {
	if len(calls) == 0 {
		return nil
	}
	models := make([]*model.ToolCall, len(calls))
	for i, c := range calls {
		models[i] = r.mapper.ToModel(c)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*calls[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *ToolCallRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ToolCall, error) {
	var models []*model.ToolCall
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ToolCall, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
