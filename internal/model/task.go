package model

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ProjectTask struct {
	Base
	Name              string                `gorm:"size:255;not null" json:"name"`
	CustomerID        *uuid.UUID            `gorm:"type:uuid" json:"partner_id"`
	RepairJobCardID   *uuid.UUID            `gorm:"type:uuid;index" json:"repair_job_card_id"`
	ServiceTeamLineID *uuid.UUID            `gorm:"type:uuid;index" json:"service_team_line_id"`
	Deadline          *datatypes.Date       `json:"date_deadline"`
	DateAssign        datatypes.Date        `json:"date_assign"`
	WorkIsDone        bool                  `json:"work_is_done"`
	Assignees         []ProjectTaskAssignee `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"assignees,omitempty"`
}

func (ProjectTask) TableName() string {
	return "project_tasks"
}

type ProjectTaskAssignee struct {
	Base
	TaskID uuid.UUID `gorm:"type:uuid;not null;index" json:"task_id"`
	UserID uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
}

func (ProjectTaskAssignee) TableName() string {
	return "project_task_assignees"
}
