package model

import "github.com/google/uuid"

type ClassicCategories struct {
	ExteriorPart     bool `json:"exterior_part"`
	InteriorPart     bool `json:"interior_part"`
	UnderHoodPart    bool `json:"under_hood_part"`
	UnderVehiclePart bool `json:"under_vehicle_part"`
	Fluid            bool `json:"is_fluid"`
	TireCondition    bool `json:"is_tire_condition"`
	BrakeCondition   bool `json:"is_brake_condition"`
}

func (c ClassicCategories) Enabled(category PartCategory) bool {
	switch category {
	case PartExterior:
		return c.ExteriorPart
	case PartInterior:
		return c.InteriorPart
	case PartUnderHood:
		return c.UnderHoodPart
	case PartUnderVehicle:
		return c.UnderVehiclePart
	case PartFluids:
		return c.Fluid
	case PartTires:
		return c.TireCondition
	case PartBrakeCondition:
		return c.BrakeCondition
	}
	return false
}

type AdvancedCategories struct {
	InteriorItem     bool `json:"is_interior_item"`
	ExteriorItem     bool `json:"is_exterior_item"`
	MechanicalItem   bool `json:"is_mechanical_item"`
	VehicleComponent bool `json:"is_vehicle_component"`
	VehicleFluid     bool `json:"is_vehicle_fluid"`
}

func (c AdvancedCategories) Enabled(category ConditionCategory) bool {
	switch category {
	case ConditionInterior:
		return c.InteriorItem
	case ConditionExterior:
		return c.ExteriorItem
	case ConditionMechanical:
		return c.MechanicalItem
	case ConditionComponent:
		return c.VehicleComponent
	case ConditionFluid:
		return c.VehicleFluid
	}
	return false
}

// AdvancedTemplateCategories is the populate order for advanced templates.
var AdvancedTemplateCategories = []ConditionCategory{
	ConditionInterior,
	ConditionExterior,
	ConditionMechanical,
	ConditionComponent,
	ConditionFluid,
}

// InspectionTemplate is a preset of categories and their items. Only the
// family matching ReportType is used.
type InspectionTemplate struct {
	Base
	Name       string                   `gorm:"size:255;not null" json:"name"`
	ReportType ReportType               `gorm:"size:32;not null;default:advanced_inspection" json:"inspection_report_type"`
	Classic    ClassicCategories        `gorm:"embedded;embeddedPrefix:classic_" json:"classic"`
	Advanced   AdvancedCategories       `gorm:"embedded;embeddedPrefix:advanced_" json:"advanced"`
	Items      []InspectionTemplateItem `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (InspectionTemplate) TableName() string {
	return "inspection_templates"
}

// InspectionTemplateItem carries PartCategory for classic templates and
// ConditionCategory for advanced ones.
type InspectionTemplateItem struct {
	Base
	TemplateID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"template_id"`
	PartCategory      PartCategory      `gorm:"size:32" json:"part_category,omitempty"`
	ConditionCategory ConditionCategory `gorm:"size:16" json:"condition_category,omitempty"`
	PartInfoID        *uuid.UUID        `gorm:"type:uuid" json:"vehicle_part_info_id,omitempty"`
	Name              string            `gorm:"size:255;not null" json:"name"`
	VehicleSide       string            `gorm:"size:64" json:"vehicle_side,omitempty"`
}

func (InspectionTemplateItem) TableName() string {
	return "inspection_template_items"
}

func (t *InspectionTemplate) ClassicItems(category PartCategory) []InspectionTemplateItem {
	out := make([]InspectionTemplateItem, 0)
	for _, item := range t.Items {
		if item.PartCategory == category {
			out = append(out, item)
		}
	}
	return out
}

func (t *InspectionTemplate) AdvancedItems(category ConditionCategory) []InspectionTemplateItem {
	out := make([]InspectionTemplateItem, 0)
	for _, item := range t.Items {
		if item.ConditionCategory == category {
			out = append(out, item)
		}
	}
	return out
}
