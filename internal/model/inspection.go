package model

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type InspectionStage string

const (
	InspectionStageDraft      InspectionStage = "a_draft"
	InspectionStageInProgress InspectionStage = "b_in_progress"
	InspectionStageInReview   InspectionStage = "in_review"
	InspectionStageReject     InspectionStage = "reject"
	InspectionStageComplete   InspectionStage = "c_complete"
	InspectionStageCancel     InspectionStage = "d_cancel"
	InspectionStageLocked     InspectionStage = "locked"
)

type InspectType string

const (
	InspectTypeOnlyInspection      InspectType = "only_inspection"
	InspectTypeInspectionAndRepair InspectType = "inspection_and_repair"
)

type ChargeType string

const (
	ChargeTypeFree ChargeType = "free"
	ChargeTypePaid ChargeType = "paid"
)

type ReportType string

const (
	ReportTypeAdvanced ReportType = "advanced_inspection"
	ReportTypeClassic  ReportType = "classic_inspection"
)

type InspectionType string

const (
	InspectionTypeFull     InspectionType = "full_inspection"
	InspectionTypeSpecific InspectionType = "specific_inspection"
)

// InspectionCategories are the seven category switches of a job card.
type InspectionCategories struct {
	PartAssessment      bool `json:"part_assessment"`
	InnerBodyInspection bool `json:"inner_body_inspection"`
	OuterBodyInspection bool `json:"outer_body_inspection"`
	MechanicalCondition bool `json:"mechanical_condition"`
	VehicleComponent    bool `json:"vehicle_component"`
	VehicleFluid        bool `json:"vehicle_fluid"`
	TyreInspection      bool `json:"tyre_inspection"`
}

func (c InspectionCategories) All() bool {
	return c.PartAssessment &&
		c.InnerBodyInspection &&
		c.OuterBodyInspection &&
		c.MechanicalCondition &&
		c.VehicleComponent &&
		c.VehicleFluid &&
		c.TyreInspection
}

type InspectionJobCard struct {
	Base
	Number               string               `gorm:"size:32;uniqueIndex" json:"inspection_number"`
	InspectionDate       datatypes.Date       `gorm:"not null" json:"inspection_date"`
	Stage                InspectionStage      `gorm:"size:32;not null;default:a_draft;index" json:"stages"`
	InspectType          InspectType          `gorm:"size:32;not null" json:"inspect_type"`
	ChargeType           ChargeType           `gorm:"size:16;not null;default:paid" json:"inspection_charge_type"`
	InspectionCharge     float64              `gorm:"default:0" json:"inspection_charge"`
	UnderWarranty        bool                 `json:"is_vehicle_under_warranty"`
	SkipQuotation        bool                 `json:"is_skip_quotation"`
	QuoteMailSent        bool                 `json:"quote_mail_send"`
	Odometer             float64              `json:"odometer"`
	OdometerUnit         OdometerUnit         `gorm:"size:8;default:km" json:"odometer_unit"`
	ReviewNotes          string               `gorm:"type:text" json:"review_notes"`
	CustomerObservation  string               `gorm:"type:text" json:"customer_observation"`
	ResponsibleID        *uuid.UUID           `gorm:"type:uuid" json:"responsible_id"`
	ReportType           ReportType           `gorm:"size:32;not null;default:advanced_inspection" json:"inspection_report_type"`
	InspectionType       InspectionType       `gorm:"size:32;not null;default:specific_inspection" json:"inspection_type"`
	Categories           InspectionCategories `gorm:"embedded" json:"categories"`
	ChecklistTemplateID  *uuid.UUID           `gorm:"type:uuid" json:"check_list_template_id"`
	InspectionTemplateID *uuid.UUID           `gorm:"type:uuid" json:"inspection_template_id"`
	Vehicle              VehicleInfo          `gorm:"embedded;embeddedPrefix:vehicle_" json:"vehicle"`
	Customer             CustomerSnapshot     `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`
	BookingID            *uuid.UUID           `gorm:"type:uuid;index" json:"booking_id"`
	SaleOrderID          *uuid.UUID           `gorm:"type:uuid" json:"sale_order_id"`
	RepairJobCardID      *uuid.UUID           `gorm:"type:uuid" json:"repair_job_card_id"`
	PartPrice            float64              `json:"part_price"`
	ServiceCharge        float64              `json:"service_charge"`
	SubTotal             float64              `json:"sub_total"`

	PartLines      []InspectionPartLine      `gorm:"foreignKey:InspectionJobCardID;constraint:OnDelete:CASCADE" json:"part_lines,omitempty"`
	ConditionLines []InspectionConditionLine `gorm:"foreignKey:InspectionJobCardID;constraint:OnDelete:CASCADE" json:"condition_lines,omitempty"`
	ChecklistLines []ChecklistLine           `gorm:"foreignKey:InspectionJobCardID;constraint:OnDelete:CASCADE" json:"checklist_lines,omitempty"`
	SpareParts     []SparePartLine           `gorm:"foreignKey:InspectionJobCardID;constraint:OnDelete:CASCADE" json:"spare_parts,omitempty"`
	Services       []InspectionServiceLine   `gorm:"foreignKey:InspectionJobCardID;constraint:OnDelete:CASCADE" json:"services,omitempty"`
}

func (InspectionJobCard) TableName() string {
	return "inspection_job_cards"
}

func (c *InspectionJobCard) PartLinesOf(category PartCategory) []InspectionPartLine {
	out := make([]InspectionPartLine, 0)
	for _, line := range c.PartLines {
		if line.Category == category {
			out = append(out, line)
		}
	}
	return out
}

func (c *InspectionJobCard) ConditionLinesOf(category ConditionCategory) []InspectionConditionLine {
	out := make([]InspectionConditionLine, 0)
	for _, line := range c.ConditionLines {
		if line.Category == category {
			out = append(out, line)
		}
	}
	return out
}

type ConditionCategory string

const (
	ConditionInterior   ConditionCategory = "interior"
	ConditionExterior   ConditionCategory = "exterior"
	ConditionMechanical ConditionCategory = "mechanical"
	ConditionComponent  ConditionCategory = "component"
	ConditionFluid      ConditionCategory = "fluid"
	ConditionTyre       ConditionCategory = "tyre"
)

// InspectionConditionLine is one row of an advanced inspection report.
type InspectionConditionLine struct {
	Base
	InspectionJobCardID uuid.UUID         `gorm:"type:uuid;not null;index" json:"inspection_job_card_id"`
	Category            ConditionCategory `gorm:"size:16;not null" json:"category"`
	Name                string            `gorm:"size:255;not null" json:"name"`
	VehicleSide         string            `gorm:"size:64" json:"vehicle_side"`
	Condition           string            `gorm:"size:64" json:"condition"`
	Notes               string            `gorm:"type:text" json:"notes"`
}

func (InspectionConditionLine) TableName() string {
	return "inspection_condition_lines"
}

type InspectionServiceLine struct {
	Base
	InspectionJobCardID uuid.UUID  `gorm:"type:uuid;not null;index" json:"inspection_job_card_id"`
	ProductID           *uuid.UUID `gorm:"type:uuid" json:"product_id"`
	Name                string     `gorm:"size:255;not null" json:"name"`
	ServiceCharge       float64    `json:"service_charge"`
}

func (InspectionServiceLine) TableName() string {
	return "inspection_service_lines"
}

// SparePartLine is shared by inspection and repair job cards; exactly one of
// the card references is set.
type SparePartLine struct {
	Base
	InspectionJobCardID *uuid.UUID `gorm:"type:uuid;index" json:"inspection_job_card_id,omitempty"`
	RepairJobCardID     *uuid.UUID `gorm:"type:uuid;index" json:"repair_job_card_id,omitempty"`
	ProductID           *uuid.UUID `gorm:"type:uuid" json:"product_id"`
	Name                string     `gorm:"size:255;not null" json:"name"`
	Quantity            float64    `gorm:"not null;default:1" json:"qty"`
	UnitPrice           float64    `json:"unit_price"`
}

func (SparePartLine) TableName() string {
	return "job_card_spare_parts"
}
