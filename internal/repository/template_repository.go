package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vehicle-repair-service/internal/model"
)

type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) CreateChecklist(ctx context.Context, template *model.ChecklistTemplate) error {
	return r.db.WithContext(ctx).Create(template).Error
}

func (r *TemplateRepository) GetChecklist(ctx context.Context, id uuid.UUID) (*model.ChecklistTemplate, error) {
	var template model.ChecklistTemplate
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("sequence ASC") }).
		First(&template, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *TemplateRepository) FindChecklistByName(ctx context.Context, name string) (*model.ChecklistTemplate, error) {
	var template model.ChecklistTemplate
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&template).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *TemplateRepository) ListChecklists(ctx context.Context) ([]model.ChecklistTemplate, error) {
	var templates []model.ChecklistTemplate
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("sequence ASC") }).
		Order("name ASC").
		Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *TemplateRepository) CreateInspectionTemplate(ctx context.Context, template *model.InspectionTemplate) error {
	return r.db.WithContext(ctx).Create(template).Error
}

func (r *TemplateRepository) GetInspectionTemplate(ctx context.Context, id uuid.UUID) (*model.InspectionTemplate, error) {
	var template model.InspectionTemplate
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&template, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *TemplateRepository) ListInspectionTemplates(ctx context.Context, reportType model.ReportType) ([]model.InspectionTemplate, error) {
	query := r.db.WithContext(ctx).Model(&model.InspectionTemplate{})
	if reportType != "" {
		query = query.Where("report_type = ?", reportType)
	}
	var templates []model.InspectionTemplate
	if err := query.Preload("Items").Order("name ASC").Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}
