package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vehicle-repair-service/internal/model"
)

type StageLogRepository struct {
	db *gorm.DB
}

func NewStageLogRepository(db *gorm.DB) *StageLogRepository {
	return &StageLogRepository{db: db}
}

func (r *StageLogRepository) Log(ctx context.Context, entry *model.StageLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *StageLogRepository) List(ctx context.Context, entity model.EntityType, id uuid.UUID) ([]model.StageLog, error) {
	var logs []model.StageLog
	if err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entity, id).
		Order("created_at ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
