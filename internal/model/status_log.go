package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EntityType string

const (
	EntityBooking    EntityType = "booking"
	EntityInspection EntityType = "inspection_job_card"
	EntityRepair     EntityType = "repair_job_card"
)

type StageLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	EntityType EntityType `gorm:"size:32;not null;index:idx_stage_logs_entity" json:"entity_type"`
	EntityID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_stage_logs_entity" json:"entity_id"`
	Action     string     `gorm:"size:64;not null" json:"action"`
	OldStage   string     `gorm:"size:32" json:"old_stage"`
	NewStage   string     `gorm:"size:32;not null" json:"new_stage"`
	Note       string     `gorm:"type:text" json:"note"`
	ChangedBy  *uuid.UUID `gorm:"type:uuid" json:"changed_by"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (StageLog) TableName() string {
	return "stage_logs"
}

func (l *StageLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// NumberSequence backs the human readable record numbers.
type NumberSequence struct {
	Code       string `gorm:"size:64;primaryKey" json:"code"`
	Prefix     string `gorm:"size:16;not null" json:"prefix"`
	Padding    int    `gorm:"not null;default:5" json:"padding"`
	NumberNext int64  `gorm:"not null;default:1" json:"number_next"`
}

func (NumberSequence) TableName() string {
	return "number_sequences"
}
