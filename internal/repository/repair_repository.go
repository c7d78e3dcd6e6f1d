package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vehicle-repair-service/internal/model"
)

type RepairRepository struct {
	db *gorm.DB
}

func NewRepairRepository(db *gorm.DB) *RepairRepository {
	return &RepairRepository{db: db}
}

type RepairFilter struct {
	Stages     []model.RepairStage
	CustomerID *uuid.UUID
	Limit      int
	Offset     int
}

func (r *RepairRepository) List(ctx context.Context, filter RepairFilter) ([]model.RepairJobCard, error) {
	query := r.db.WithContext(ctx).Model(&model.RepairJobCard{})
	if len(filter.Stages) > 0 {
		query = query.Where("stage IN ?", filter.Stages)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	query = applyPaging(query, filter.Limit, filter.Offset)

	var cards []model.RepairJobCard
	if err := query.Order("number DESC").Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *RepairRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.RepairJobCard, error) {
	var card model.RepairJobCard
	if err := r.db.WithContext(ctx).
		Preload("ServiceLines", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("ServiceLines.Members").
		Preload("ServiceLines.Task").
		Preload("SpareParts", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("ChecklistLines", func(db *gorm.DB) *gorm.DB { return db.Order("sequence ASC") }).
		First(&card, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *RepairRepository) Create(ctx context.Context, card *model.RepairJobCard) error {
	return r.db.WithContext(ctx).Create(card).Error
}

func (r *RepairRepository) Save(ctx context.Context, card *model.RepairJobCard) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(card).Error
}

func (r *RepairRepository) UpdateStage(ctx context.Context, id uuid.UUID, stage model.RepairStage) error {
	return r.db.WithContext(ctx).
		Model(&model.RepairJobCard{}).
		Where("id = ?", id).
		Update("stage", stage).Error
}

func (r *RepairRepository) ReplaceChecklist(ctx context.Context, cardID uuid.UUID, lines []model.ChecklistLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("repair_job_card_id = ?", cardID).Delete(&model.ChecklistLine{}).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		for i := range lines {
			lines[i].ID = uuid.Nil
			lines[i].RepairJobCardID = &cardID
			lines[i].InspectionJobCardID = nil
		}
		return tx.Create(&lines).Error
	})
}

func (r *RepairRepository) GetServiceLine(ctx context.Context, id uuid.UUID) (*model.ServiceTeamLine, error) {
	var line model.ServiceTeamLine
	if err := r.db.WithContext(ctx).
		Preload("Members").
		Preload("Task").
		First(&line, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *RepairRepository) AddServiceLine(ctx context.Context, line *model.ServiceTeamLine) error {
	return r.db.WithContext(ctx).Omit("Task").Create(line).Error
}

// SaveServiceLine writes the line columns and replaces its members.
func (r *RepairRepository) SaveServiceLine(ctx context.Context, line *model.ServiceTeamLine, members []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Select("*").Updates(line).Error; err != nil {
			return err
		}
		if members == nil {
			return nil
		}
		if err := tx.Where("line_id = ?", line.ID).Delete(&model.ServiceTeamLineMember{}).Error; err != nil {
			return err
		}
		rows := make([]model.ServiceTeamLineMember, 0, len(members))
		for _, id := range members {
			rows = append(rows, model.ServiceTeamLineMember{LineID: line.ID, UserID: id})
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		line.Members = rows
		return nil
	})
}

func (r *RepairRepository) SetServiceLineTask(ctx context.Context, lineID, taskID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.ServiceTeamLine{}).
		Where("id = ?", lineID).
		Update("task_id", taskID).Error
}

func (r *RepairRepository) ClearServiceLineEndDates(ctx context.Context, cardID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.ServiceTeamLine{}).
		Where("repair_job_card_id = ?", cardID).
		Update("end_date", nil).Error
}

func (r *RepairRepository) DeleteServiceLine(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("line_id = ?", id).Delete(&model.ServiceTeamLineMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.ServiceTeamLine{}, "id = ?", id).Error
	})
}

func (r *RepairRepository) AddSparePart(ctx context.Context, line *model.SparePartLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *RepairRepository) DeleteSparePart(ctx context.Context, cardID, lineID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND repair_job_card_id = ?", lineID, cardID).
		Delete(&model.SparePartLine{})
	return res.RowsAffected, res.Error
}

func (r *RepairRepository) GetTeam(ctx context.Context, id uuid.UUID) (*model.ServiceTeam, error) {
	var team model.ServiceTeam
	if err := r.db.WithContext(ctx).Preload("Members").First(&team, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *RepairRepository) CreateTeam(ctx context.Context, team *model.ServiceTeam) error {
	return r.db.WithContext(ctx).Create(team).Error
}

func (r *RepairRepository) ListTeams(ctx context.Context) ([]model.ServiceTeam, error) {
	var teams []model.ServiceTeam
	if err := r.db.WithContext(ctx).Preload("Members").Order("name ASC").Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *RepairRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lineIDs []uuid.UUID
		if err := tx.Model(&model.ServiceTeamLine{}).
			Where("repair_job_card_id = ?", id).
			Pluck("id", &lineIDs).Error; err != nil {
			return err
		}
		if len(lineIDs) > 0 {
			if err := tx.Where("line_id IN ?", lineIDs).Delete(&model.ServiceTeamLineMember{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("repair_job_card_id = ?", id).Delete(&model.ServiceTeamLine{}).Error; err != nil {
			return err
		}
		if err := tx.Where("repair_job_card_id = ?", id).Delete(&model.SparePartLine{}).Error; err != nil {
			return err
		}
		if err := tx.Where("repair_job_card_id = ?", id).Delete(&model.ChecklistLine{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.RepairJobCard{}, "id = ?", id).Error
	})
}

func (r *RepairRepository) GetChecklistLine(ctx context.Context, cardID, lineID uuid.UUID) (*model.ChecklistLine, error) {
	var line model.ChecklistLine
	if err := r.db.WithContext(ctx).
		First(&line, "id = ? AND repair_job_card_id = ?", lineID, cardID).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *RepairRepository) SetChecklistLineChecked(ctx context.Context, lineID uuid.UUID, checked bool) error {
	return r.db.WithContext(ctx).
		Model(&model.ChecklistLine{}).
		Where("id = ?", lineID).
		Update("is_checked", checked).Error
}
