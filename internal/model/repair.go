package model

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type RepairStage string

const (
	RepairStageDraft                RepairStage = "draft"
	RepairStageAssignToTechnician   RepairStage = "assign_to_technician"
	RepairStageInDiagnosis          RepairStage = "in_diagnosis"
	RepairStageSupervisorInspection RepairStage = "supervisor_inspection"
	RepairStageReject               RepairStage = "reject"
	RepairStageComplete             RepairStage = "complete"
	RepairStageHold                 RepairStage = "hold"
	RepairStageCancel               RepairStage = "cancel"
	RepairStageLocked               RepairStage = "locked"
)

type RepairJobCard struct {
	Base
	Number              string           `gorm:"size:32;uniqueIndex" json:"repair_job_card_number"`
	InspectRepairDate   datatypes.Date   `gorm:"not null" json:"inspect_repair_date"`
	Stage               RepairStage      `gorm:"size:32;not null;default:draft;index" json:"stages"`
	Vehicle             VehicleInfo      `gorm:"embedded;embeddedPrefix:vehicle_" json:"vehicle"`
	Customer            CustomerSnapshot `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`
	BookingID           *uuid.UUID       `gorm:"type:uuid;index" json:"booking_id"`
	InspectionJobCardID *uuid.UUID       `gorm:"type:uuid;index" json:"inspection_job_card_id"`
	InspectionCharge    float64          `json:"inspection_charge"`
	UnderWarranty       bool             `json:"is_vehicle_under_warranty"`
	CustomerObservation string           `gorm:"type:text" json:"customer_observation"`
	Odometer            float64          `json:"odometer"`
	OdometerUnit        OdometerUnit     `gorm:"size:8;default:km" json:"odometer_unit"`
	ChecklistTemplateID *uuid.UUID       `gorm:"type:uuid" json:"check_list_template_id"`
	SaleOrderID         *uuid.UUID       `gorm:"type:uuid" json:"sale_order_id"`
	ResponsibleID       *uuid.UUID       `gorm:"type:uuid" json:"responsible_id"`
	PartPrice           float64          `json:"part_price"`
	ServiceCharge       float64          `json:"service_charge"`
	SubTotal            float64          `json:"sub_total"`

	ServiceLines   []ServiceTeamLine `gorm:"foreignKey:RepairJobCardID;constraint:OnDelete:CASCADE" json:"service_lines,omitempty"`
	SpareParts     []SparePartLine   `gorm:"foreignKey:RepairJobCardID;constraint:OnDelete:CASCADE" json:"spare_parts,omitempty"`
	ChecklistLines []ChecklistLine   `gorm:"foreignKey:RepairJobCardID;constraint:OnDelete:CASCADE" json:"checklist_lines,omitempty"`
}

func (RepairJobCard) TableName() string {
	return "repair_job_cards"
}

type ServiceTeam struct {
	Base
	Name    string              `gorm:"size:128;not null" json:"name"`
	Members []ServiceTeamMember `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
}

func (ServiceTeam) TableName() string {
	return "service_teams"
}

type ServiceTeamMember struct {
	Base
	TeamID uuid.UUID `gorm:"type:uuid;not null;index" json:"team_id"`
	UserID uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	Name   string    `gorm:"size:255" json:"name"`
}

func (ServiceTeamMember) TableName() string {
	return "service_team_members"
}

// ServiceTeamLine assigns one service of a repair card to a team.
type ServiceTeamLine struct {
	Base
	RepairJobCardID uuid.UUID               `gorm:"type:uuid;not null;index" json:"repair_job_card_id"`
	ProductID       *uuid.UUID              `gorm:"type:uuid" json:"product_id"`
	Name            string                  `gorm:"size:255;not null" json:"name"`
	ServiceCharge   float64                 `json:"service_charge"`
	TeamID          *uuid.UUID              `gorm:"type:uuid" json:"team_id"`
	StartDate       *datatypes.Date         `json:"start_date"`
	EndDate         *datatypes.Date         `json:"end_date"`
	TaskID          *uuid.UUID              `gorm:"type:uuid" json:"task_id"`
	Task            *ProjectTask            `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	Members         []ServiceTeamLineMember `gorm:"foreignKey:LineID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
}

func (ServiceTeamLine) TableName() string {
	return "service_team_lines"
}

func (l ServiceTeamLine) MemberIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(l.Members))
	for _, m := range l.Members {
		ids = append(ids, m.UserID)
	}
	return ids
}

type ServiceTeamLineMember struct {
	Base
	LineID uuid.UUID `gorm:"type:uuid;not null;index" json:"line_id"`
	UserID uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
}

func (ServiceTeamLineMember) TableName() string {
	return "service_team_line_members"
}
