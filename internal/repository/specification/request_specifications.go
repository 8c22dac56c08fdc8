package specification

import (
	"gorm.io/gorm"

	"lab-assistant-be/internal/entity"
)

// ByStatus filters lab requests by lifecycle status
type ByStatus struct {
	Status entity.RequestStatus
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", string(s.Status))
}

// ByRequestID filters tool calls by their owning request
type ByRequestID struct {
	RequestID interface{}
}

func (s ByRequestID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("request_id = ?", s.RequestID)
}
