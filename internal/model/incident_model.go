package model

import "time"

type Incident struct {
	Id          string    `gorm:"type:varchar(32);primaryKey"` // e.g. INC-001
	Title       string    `gorm:"type:text;not null"`
	Description string    `gorm:"type:text"`
	Resolution  string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (Incident) TableName() string {
	return "incidents"
}
