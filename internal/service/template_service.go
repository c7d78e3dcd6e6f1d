package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vehicle-repair-service/internal/model"
	"vehicle-repair-service/internal/repository"
)

const msgTitleRequired = "The Title field cannot be empty."

type TemplateService struct {
	repos *repository.Repositories
}

func NewTemplateService(repos *repository.Repositories) *TemplateService {
	return &TemplateService{repos: repos}
}

func (s *TemplateService) CreateChecklist(ctx context.Context, principal model.Principal, tpl *model.ChecklistTemplate) (*model.ChecklistTemplate, error) {
	if !(principal.IsAdmin() || principal.IsManager()) {
		return nil, ErrPermissionDenied
	}
	if err := ValidateChecklistTemplate(tpl); err != nil {
		return nil, err
	}
	tpl.ID = uuid.Nil
	for i := range tpl.Items {
		tpl.Items[i].ID = uuid.Nil
		tpl.Items[i].TemplateID = uuid.Nil
	}
	if err := s.repos.Templates.CreateChecklist(ctx, tpl); err != nil {
		return nil, err
	}
	return s.repos.Templates.GetChecklist(ctx, tpl.ID)
}

func ValidateChecklistTemplate(tpl *model.ChecklistTemplate) error {
	tpl.Name = strings.TrimSpace(tpl.Name)
	if tpl.Name == "" {
		return validationf("%s", msgTitleRequired)
	}
	for i := range tpl.Items {
		item := &tpl.Items[i]
		item.Name = strings.TrimSpace(item.Name)
		if item.Name == "" {
			return ErrInvalidInput
		}
		switch item.DisplayType {
		case model.DisplayTypeNone, model.DisplayTypeSection, model.DisplayTypeNote:
		default:
			return ErrInvalidInput
		}
	}
	return nil
}

func (s *TemplateService) Checklists(ctx context.Context, principal model.Principal) ([]model.ChecklistTemplate, error) {
	if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}
	return s.repos.Templates.ListChecklists(ctx)
}

func (s *TemplateService) Checklist(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.ChecklistTemplate, error) {
	if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}
	tpl, err := s.repos.Templates.GetChecklist(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return tpl, nil
}

// CreateInspectionTemplate stores a classic or advanced template. Classic
// items take their name from the part catalog.
func (s *TemplateService) CreateInspectionTemplate(ctx context.Context, principal model.Principal, tpl *model.InspectionTemplate) (*model.InspectionTemplate, error) {
	if !(principal.IsAdmin() || principal.IsManager()) {
		return nil, ErrPermissionDenied
	}
	tpl.Name = strings.TrimSpace(tpl.Name)
	if tpl.Name == "" {
		return nil, validationf("%s", msgTitleRequired)
	}

	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if tpl.ReportType == model.ReportTypeClassic {
			if err := s.resolveClassicItems(ctx, tx, tpl); err != nil {
				return err
			}
		}
		if err := ValidateInspectionTemplate(tpl); err != nil {
			return err
		}
		tpl.ID = uuid.Nil
		for i := range tpl.Items {
			tpl.Items[i].ID = uuid.Nil
			tpl.Items[i].TemplateID = uuid.Nil
		}
		return tx.Templates.CreateInspectionTemplate(ctx, tpl)
	})
	if err != nil {
		return nil, err
	}
	return s.repos.Templates.GetInspectionTemplate(ctx, tpl.ID)
}

func (s *TemplateService) resolveClassicItems(ctx context.Context, tx *repository.Repositories, tpl *model.InspectionTemplate) error {
	ids := make([]uuid.UUID, 0, len(tpl.Items))
	for _, item := range tpl.Items {
		if item.PartInfoID != nil {
			ids = append(ids, *item.PartInfoID)
		}
	}
	infos, err := tx.Catalog.PartInfosByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return err
	}
	byID := make(map[uuid.UUID]model.VehiclePartInfo, len(infos))
	for _, info := range infos {
		byID[info.ID] = info
	}
	for i := range tpl.Items {
		item := &tpl.Items[i]
		if item.PartInfoID == nil {
			continue
		}
		info, ok := byID[*item.PartInfoID]
		if !ok {
			return ErrInvalidInput
		}
		if item.PartCategory == "" {
			item.PartCategory = info.Type
		}
		if item.PartCategory != info.Type {
			return ErrInvalidInput
		}
		if item.Name == "" {
			item.Name = info.Name
		}
	}
	return nil
}

func (s *TemplateService) InspectionTemplates(ctx context.Context, principal model.Principal, reportType model.ReportType) ([]model.InspectionTemplate, error) {
	if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}
	return s.repos.Templates.ListInspectionTemplates(ctx, reportType)
}

func (s *TemplateService) InspectionTemplate(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.InspectionTemplate, error) {
	if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}
	tpl, err := s.repos.Templates.GetInspectionTemplate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return tpl, nil
}
