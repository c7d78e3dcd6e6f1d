package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vehicle-repair-service/internal/model"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.ProjectTask) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ProjectTask, error) {
	var task model.ProjectTask
	if err := r.db.WithContext(ctx).Preload("Assignees").First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) ListByRepairCard(ctx context.Context, cardID uuid.UUID) ([]model.ProjectTask, error) {
	var tasks []model.ProjectTask
	if err := r.db.WithContext(ctx).
		Preload("Assignees").
		Where("repair_job_card_id = ?", cardID).
		Order("created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) SetWorkDone(ctx context.Context, id uuid.UUID, done bool) error {
	return r.db.WithContext(ctx).
		Model(&model.ProjectTask{}).
		Where("id = ?", id).
		Update("work_is_done", done).Error
}

func (r *TaskRepository) ResetWorkDone(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.ProjectTask{}).
		Where("id IN ?", ids).
		Update("work_is_done", false).Error
}
