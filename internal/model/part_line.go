package model

import (
	"fmt"

	"github.com/google/uuid"
)

type PartCategory string

const (
	PartExterior       PartCategory = "exterior"
	PartInterior       PartCategory = "interior"
	PartUnderHood      PartCategory = "under_hood"
	PartUnderVehicle   PartCategory = "under_vehicle"
	PartFluids         PartCategory = "fluids"
	PartTires          PartCategory = "tires"
	PartBrakeCondition PartCategory = "brake_condition"
)

var PartCategories = []PartCategory{
	PartExterior,
	PartInterior,
	PartUnderHood,
	PartUnderVehicle,
	PartFluids,
	PartTires,
	PartBrakeCondition,
}

func (c PartCategory) Valid() bool {
	for _, known := range PartCategories {
		if c == known {
			return true
		}
	}
	return false
}

type PartStatus string

const (
	PartStatusOkayForNow        PartStatus = "okay_for_now"
	PartStatusFurtherAttention  PartStatus = "further_attention"
	PartStatusRequiredAttention PartStatus = "required_attention"
	PartStatusNotInspected      PartStatus = "not_inspected"
	PartStatusFilled            PartStatus = "filled"
)

// InspectionPartLine is one row of a classic inspection report. At most one
// status flag is set at a time.
type InspectionPartLine struct {
	Base
	InspectionJobCardID uuid.UUID    `gorm:"type:uuid;not null;index" json:"inspection_job_card_id"`
	Category            PartCategory `gorm:"size:32;not null" json:"category"`
	PartInfoID          *uuid.UUID   `gorm:"type:uuid" json:"vehicle_part_info_id"`
	Name                string       `gorm:"size:255;not null" json:"name"`
	OkayForNow          bool         `json:"okay_for_now"`
	FurtherAttention    bool         `json:"further_attention"`
	RequiredAttention   bool         `json:"required_attention"`
	NotInspected        bool         `json:"not_inspected"`
	Filled              bool         `json:"filled"`
	Notes               string       `gorm:"type:text" json:"notes"`
}

func (InspectionPartLine) TableName() string {
	return "inspection_part_lines"
}

// SetStatus sets status and clears every other flag. Filled only exists on
// fluid lines.
func (l *InspectionPartLine) SetStatus(status PartStatus) error {
	if status == PartStatusFilled && l.Category != PartFluids {
		return fmt.Errorf("status %q is only valid for fluids", status)
	}
	switch status {
	case PartStatusOkayForNow, PartStatusFurtherAttention, PartStatusRequiredAttention, PartStatusNotInspected, PartStatusFilled:
	default:
		return fmt.Errorf("unknown part status %q", status)
	}
	l.OkayForNow = status == PartStatusOkayForNow
	l.FurtherAttention = status == PartStatusFurtherAttention
	l.RequiredAttention = status == PartStatusRequiredAttention
	l.NotInspected = status == PartStatusNotInspected
	l.Filled = status == PartStatusFilled
	return nil
}

func (l InspectionPartLine) Checked() bool {
	if l.OkayForNow || l.FurtherAttention || l.RequiredAttention || l.NotInspected {
		return true
	}
	return l.Category == PartFluids && l.Filled
}
