package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"lab-assistant-be/internal/dto"
)

type IHealthService interface {
	Check(ctx context.Context) *dto.HealthResponse
}

type healthService struct {
	db *gorm.DB
}

func NewHealthService(db *gorm.DB) IHealthService {
	return &healthService{db: db}
}

func (s *healthService) Check(ctx context.Context) *dto.HealthResponse {
	services := map[string]string{
		"queue": "ok",
	}
	overall := "ok"

	if s.db != nil {
		if sqlDB, err := s.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			services["database"] = "unreachable"
			overall = "degraded"
		} else {
			services["database"] = "ok"
		}
	} else {
		services["database"] = "in-memory"
	}

	return &dto.HealthResponse{
		Status:    overall,
		Timestamp: time.Now().UTC(),
		Services:  services,
	}
}
