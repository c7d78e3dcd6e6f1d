package model

import "github.com/google/uuid"

type DisplayType string

const (
	DisplayTypeNone    DisplayType = ""
	DisplayTypeSection DisplayType = "line_section"
	DisplayTypeNote    DisplayType = "line_note"
)

func (d DisplayType) IsMarker() bool {
	return d == DisplayTypeSection || d == DisplayTypeNote
}

type ChecklistTemplate struct {
	Base
	Name  string                  `gorm:"size:255;not null" json:"name"`
	Items []ChecklistTemplateItem `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (ChecklistTemplate) TableName() string {
	return "checklist_templates"
}

type ChecklistTemplateItem struct {
	Base
	TemplateID  uuid.UUID   `gorm:"type:uuid;not null;index" json:"template_id"`
	Sequence    int         `gorm:"not null;default:10" json:"sequence"`
	Name        string      `gorm:"size:255;not null" json:"name"`
	DisplayType DisplayType `gorm:"size:16" json:"display_type"`
}

func (ChecklistTemplateItem) TableName() string {
	return "checklist_template_items"
}

// ChecklistLine is a template item copied onto a job card.
type ChecklistLine struct {
	Base
	InspectionJobCardID *uuid.UUID  `gorm:"type:uuid;index" json:"inspection_job_card_id,omitempty"`
	RepairJobCardID     *uuid.UUID  `gorm:"type:uuid;index" json:"repair_job_card_id,omitempty"`
	Sequence            int         `json:"sequence"`
	Name                string      `gorm:"size:255;not null" json:"name"`
	DisplayType         DisplayType `gorm:"size:16" json:"display_type"`
	IsChecked           bool        `json:"is_check"`
}

func (ChecklistLine) TableName() string {
	return "job_card_checklist_lines"
}

// Satisfied is true for section and note markers and for checked items.
func (l ChecklistLine) Satisfied() bool {
	return l.DisplayType.IsMarker() || l.IsChecked
}
