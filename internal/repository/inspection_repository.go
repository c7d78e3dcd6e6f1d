package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vehicle-repair-service/internal/model"
)

type InspectionRepository struct {
	db *gorm.DB
}

func NewInspectionRepository(db *gorm.DB) *InspectionRepository {
	return &InspectionRepository{db: db}
}

type InspectionFilter struct {
	Stages     []model.InspectionStage
	CustomerID *uuid.UUID
	Limit      int
	Offset     int
}

func (r *InspectionRepository) List(ctx context.Context, filter InspectionFilter) ([]model.InspectionJobCard, error) {
	query := r.db.WithContext(ctx).Model(&model.InspectionJobCard{})
	if len(filter.Stages) > 0 {
		query = query.Where("stage IN ?", filter.Stages)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	query = applyPaging(query, filter.Limit, filter.Offset)

	var cards []model.InspectionJobCard
	if err := query.Order("number DESC").Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *InspectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.InspectionJobCard, error) {
	var card model.InspectionJobCard
	if err := r.db.WithContext(ctx).
		Preload("PartLines", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("ConditionLines", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("ChecklistLines", func(db *gorm.DB) *gorm.DB { return db.Order("sequence ASC") }).
		Preload("SpareParts", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Services", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&card, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *InspectionRepository) Create(ctx context.Context, card *model.InspectionJobCard) error {
	return r.db.WithContext(ctx).Create(card).Error
}

// Save writes the card's own columns. Line collections are managed by the
// Replace* and line methods.
func (r *InspectionRepository) Save(ctx context.Context, card *model.InspectionJobCard) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(card).Error
}

func (r *InspectionRepository) UpdateStage(ctx context.Context, id uuid.UUID, stage model.InspectionStage, extra map[string]interface{}) error {
	data := map[string]interface{}{"stage": stage}
	for k, v := range extra {
		data[k] = v
	}
	return r.db.WithContext(ctx).
		Model(&model.InspectionJobCard{}).
		Where("id = ?", id).
		Updates(data).Error
}

func (r *InspectionRepository) ReplaceChecklist(ctx context.Context, cardID uuid.UUID, lines []model.ChecklistLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("inspection_job_card_id = ?", cardID).Delete(&model.ChecklistLine{}).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		for i := range lines {
			lines[i].ID = uuid.Nil
			lines[i].InspectionJobCardID = &cardID
			lines[i].RepairJobCardID = nil
		}
		return tx.Create(&lines).Error
	})
}

// ReplacePartLines clears the given classic categories and writes lines in
// their place.
func (r *InspectionRepository) ReplacePartLines(ctx context.Context, cardID uuid.UUID, categories []model.PartCategory, lines []model.InspectionPartLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(categories) > 0 {
			if err := tx.Where("inspection_job_card_id = ? AND category IN ?", cardID, categories).
				Delete(&model.InspectionPartLine{}).Error; err != nil {
				return err
			}
		}
		if len(lines) == 0 {
			return nil
		}
		for i := range lines {
			lines[i].ID = uuid.Nil
			lines[i].InspectionJobCardID = cardID
		}
		return tx.Create(&lines).Error
	})
}

func (r *InspectionRepository) ReplaceConditionLines(ctx context.Context, cardID uuid.UUID, categories []model.ConditionCategory, lines []model.InspectionConditionLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(categories) > 0 {
			if err := tx.Where("inspection_job_card_id = ? AND category IN ?", cardID, categories).
				Delete(&model.InspectionConditionLine{}).Error; err != nil {
				return err
			}
		}
		if len(lines) == 0 {
			return nil
		}
		for i := range lines {
			lines[i].ID = uuid.Nil
			lines[i].InspectionJobCardID = cardID
		}
		return tx.Create(&lines).Error
	})
}

func (r *InspectionRepository) GetPartLine(ctx context.Context, id uuid.UUID) (*model.InspectionPartLine, error) {
	var line model.InspectionPartLine
	if err := r.db.WithContext(ctx).First(&line, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

// SavePartLine uses Select("*") so cleared flags are written as false.
func (r *InspectionRepository) SavePartLine(ctx context.Context, line *model.InspectionPartLine) error {
	return r.db.WithContext(ctx).Select("*").Updates(line).Error
}

func (r *InspectionRepository) AddConditionLine(ctx context.Context, line *model.InspectionConditionLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *InspectionRepository) AddSparePart(ctx context.Context, line *model.SparePartLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *InspectionRepository) AddService(ctx context.Context, line *model.InspectionServiceLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *InspectionRepository) DeleteSparePart(ctx context.Context, cardID, lineID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND inspection_job_card_id = ?", lineID, cardID).
		Delete(&model.SparePartLine{})
	return res.RowsAffected, res.Error
}

func (r *InspectionRepository) DeleteService(ctx context.Context, cardID, lineID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND inspection_job_card_id = ?", lineID, cardID).
		Delete(&model.InspectionServiceLine{})
	return res.RowsAffected, res.Error
}

func (r *InspectionRepository) GetChecklistLine(ctx context.Context, id uuid.UUID) (*model.ChecklistLine, error) {
	var line model.ChecklistLine
	if err := r.db.WithContext(ctx).First(&line, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *InspectionRepository) SetChecklistLineChecked(ctx context.Context, id uuid.UUID, checked bool) error {
	return r.db.WithContext(ctx).
		Model(&model.ChecklistLine{}).
		Where("id = ?", id).
		Update("is_checked", checked).Error
}

func (r *InspectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		children := []interface{}{
			&model.InspectionPartLine{},
			&model.InspectionConditionLine{},
			&model.InspectionServiceLine{},
		}
		for _, child := range children {
			if err := tx.Where("inspection_job_card_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("inspection_job_card_id = ?", id).Delete(&model.SparePartLine{}).Error; err != nil {
			return err
		}
		if err := tx.Where("inspection_job_card_id = ?", id).Delete(&model.ChecklistLine{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.InspectionJobCard{}, "id = ?", id).Error
	})
}
