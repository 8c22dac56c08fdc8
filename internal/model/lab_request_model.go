package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type LabRequest struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Text      string         `gorm:"type:text;not null"`
	Priority  string         `gorm:"type:varchar(16);not null;default:'normal'"`
	Status    string         `gorm:"type:varchar(16);not null;default:'queued';index"`
	Result    datatypes.JSON `gorm:"type:jsonb"`
	Error     *string        `gorm:"type:text"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (LabRequest) TableName() string {
	return "lab_requests"
}
