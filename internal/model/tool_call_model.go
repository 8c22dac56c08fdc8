package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ToolCall struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RequestId uuid.UUID      `gorm:"type:uuid;not null;index"`
	Tool      string         `gorm:"type:varchar(64);not null"`
	Input     string         `gorm:"type:text;not null"`
	Output    datatypes.JSON `gorm:"type:jsonb"`
	CallOrder int            `gorm:"not null"`
	InvokedAt time.Time      `gorm:"not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (ToolCall) TableName() string {
	return "tool_calls"
}
