package service

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"vehicle-repair-service/internal/model"
)

// The functions below replace form-side recomputation. Callers invoke them
// at the points where an input changes.

func DeriveInspectionType(c model.InspectionCategories) model.InspectionType {
	if c.All() {
		return model.InspectionTypeFull
	}
	return model.InspectionTypeSpecific
}

// DeriveInspectType maps a booking type onto the inspection card. A repair
// only booking that reaches inspection is handled as inspection and repair.
func DeriveInspectType(t model.BookingType) model.InspectType {
	if t == model.BookingTypeOnlyInspection {
		return model.InspectTypeOnlyInspection
	}
	return model.InspectTypeInspectionAndRepair
}

func ApplyInspectionTotals(card *model.InspectionJobCard) {
	card.PartPrice = sparePartTotal(card.SpareParts)
	card.ServiceCharge = 0
	for _, s := range card.Services {
		card.ServiceCharge += s.ServiceCharge
	}
	card.SubTotal = card.ServiceCharge + card.PartPrice + card.InspectionCharge
}

func ApplyRepairTotals(card *model.RepairJobCard) {
	card.PartPrice = sparePartTotal(card.SpareParts)
	card.ServiceCharge = 0
	for _, l := range card.ServiceLines {
		card.ServiceCharge += l.ServiceCharge
	}
	// The inspection charge is billed on the inspection card.
	card.SubTotal = card.ServiceCharge + card.PartPrice
}

func sparePartTotal(parts []model.SparePartLine) float64 {
	total := 0.0
	for _, p := range parts {
		total += p.UnitPrice * p.Quantity
	}
	return total
}

// DeriveCustomerSnapshot uses the customer's stored contact data unless the
// caller supplied its own copy.
func DeriveCustomerSnapshot(customer *model.Customer, input *model.CustomerSnapshot) model.CustomerSnapshot {
	if customer == nil {
		if input == nil {
			return model.CustomerSnapshot{}
		}
		return *input
	}
	if input == nil {
		return customer.Snapshot()
	}
	snap := *input
	id := customer.ID
	snap.CustomerID = &id
	if snap.Name == "" {
		snap.Name = customer.Name
	}
	return snap
}

// DeriveVehicleFromRegistered copies a registry entry onto a job card or
// booking vehicle.
func DeriveVehicleFromRegistered(reg *model.RegisteredVehicle) model.VehicleInfo {
	info := reg.Vehicle
	id := reg.ID
	info.RegisteredVehicleID = &id
	info.FleetVehicleID = nil
	info.Source = model.VehicleSourceCustomer
	return info
}

func ChecklistComplete(lines []model.ChecklistLine) bool {
	for _, line := range lines {
		if !line.Satisfied() {
			return false
		}
	}
	return true
}

// ChecklistFromTemplate copies template items in sequence order.
func ChecklistFromTemplate(tpl *model.ChecklistTemplate) []model.ChecklistLine {
	if tpl == nil {
		return nil
	}
	items := append([]model.ChecklistTemplateItem(nil), tpl.Items...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Sequence < items[j].Sequence })

	lines := make([]model.ChecklistLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, model.ChecklistLine{
			Sequence:    item.Sequence,
			Name:        item.Name,
			DisplayType: item.DisplayType,
		})
	}
	return lines
}

// ClassicLinesFromTemplate builds part lines for every classic category the
// template enables. The returned categories are the ones to replace.
func ClassicLinesFromTemplate(tpl *model.InspectionTemplate, partNames map[uuid.UUID]string) ([]model.PartCategory, []model.InspectionPartLine) {
	categories := make([]model.PartCategory, 0)
	lines := make([]model.InspectionPartLine, 0)
	for _, category := range model.PartCategories {
		if !tpl.Classic.Enabled(category) {
			continue
		}
		categories = append(categories, category)
		for _, item := range tpl.ClassicItems(category) {
			name := item.Name
			if item.PartInfoID != nil {
				if n, ok := partNames[*item.PartInfoID]; ok && n != "" {
					name = n
				}
			}
			lines = append(lines, model.InspectionPartLine{
				Category:   category,
				PartInfoID: item.PartInfoID,
				Name:       name,
			})
		}
	}
	return categories, lines
}

// AdvancedLinesFromTemplate builds condition lines for every advanced
// category the template enables and returns the category switches that
// follow from it. Switches with no matching template family are kept as is.
func AdvancedLinesFromTemplate(tpl *model.InspectionTemplate, current model.InspectionCategories) ([]model.ConditionCategory, []model.InspectionConditionLine, model.InspectionCategories) {
	cats := current
	cats.InnerBodyInspection = false
	cats.OuterBodyInspection = false
	cats.MechanicalCondition = false
	cats.VehicleComponent = false
	cats.VehicleFluid = false

	categories := make([]model.ConditionCategory, 0)
	lines := make([]model.InspectionConditionLine, 0)
	for _, category := range model.AdvancedTemplateCategories {
		if !tpl.Advanced.Enabled(category) {
			continue
		}
		categories = append(categories, category)
		for _, item := range tpl.AdvancedItems(category) {
			lines = append(lines, model.InspectionConditionLine{
				Category:    category,
				Name:        item.Name,
				VehicleSide: item.VehicleSide,
			})
		}
		switch category {
		case model.ConditionInterior:
			cats.InnerBodyInspection = true
		case model.ConditionExterior:
			cats.OuterBodyInspection = true
		case model.ConditionMechanical:
			cats.MechanicalCondition = true
		case model.ConditionComponent:
			cats.VehicleComponent = true
		case model.ConditionFluid:
			cats.VehicleFluid = true
		}
	}
	return categories, lines, cats
}

type categoryRequirement struct {
	enabled  func(model.InspectionCategories) bool
	category model.ConditionCategory
	lines    string
	label    string
}

var specificInspectionRequirements = []categoryRequirement{
	{func(c model.InspectionCategories) bool { return c.InnerBodyInspection }, model.ConditionInterior, "Vehicle Body Inner Conditions", "Inner Body Inspection"},
	{func(c model.InspectionCategories) bool { return c.OuterBodyInspection }, model.ConditionExterior, "Vehicle Body Outer Conditions", "Outer Body Inspection"},
	{func(c model.InspectionCategories) bool { return c.TyreInspection }, model.ConditionTyre, "Tires Inspections", "Tire Inspection"},
	{func(c model.InspectionCategories) bool { return c.MechanicalCondition }, model.ConditionMechanical, "Mechanical Conditions", "Mechanical Condition"},
	{func(c model.InspectionCategories) bool { return c.VehicleComponent }, model.ConditionComponent, "Vehicle Components", "Vehicle Component"},
	{func(c model.InspectionCategories) bool { return c.VehicleFluid }, model.ConditionFluid, "Vehicle Fluids", "Vehicle Fluid"},
}

// CheckSpecificInspection requires a condition line for every category
// switched on while the card is a specific inspection.
func CheckSpecificInspection(card *model.InspectionJobCard) error {
	if card.InspectionType != model.InspectionTypeSpecific {
		return nil
	}
	for _, req := range specificInspectionRequirements {
		if req.enabled(card.Categories) && len(card.ConditionLinesOf(req.category)) == 0 {
			return validationf("Please add at least one '%s' when '%s' is selected.", req.lines, req.label)
		}
	}
	return nil
}

type templateRequirement struct {
	advanced model.ConditionCategory
	classic  model.PartCategory
	message  string
}

var advancedTemplateRequirements = []templateRequirement{
	{advanced: model.ConditionExterior, message: "Please add at least one exterior items when Exterior is selected."},
	{advanced: model.ConditionInterior, message: "Please add at least one interior items when Interior is selected."},
	{advanced: model.ConditionMechanical, message: "Please add at least one mechanical items when Mechanical is selected."},
	{advanced: model.ConditionComponent, message: "Please add at least one vehicle components when Component is selected."},
	{advanced: model.ConditionFluid, message: "Please add at least one vehicle fluids when Fluid is selected."},
}

var classicTemplateRequirements = []templateRequirement{
	{classic: model.PartExterior, message: "Please add at least one exterior parts when Exterior Part is selected."},
	{classic: model.PartInterior, message: "Please add at least one interior parts when Interior Part is selected."},
	{classic: model.PartUnderHood, message: "Please add at least one under hood parts when Under Hood Part is selected."},
	{classic: model.PartUnderVehicle, message: "Please add at least one under vehicle parts when Under Vehicle Part is selected."},
	{classic: model.PartFluids, message: "Please add at least one vehicle fluids when Vehicle Fluid is selected."},
	{classic: model.PartTires, message: "Please add at least one tire conditions when Tire Condition is selected."},
	{classic: model.PartBrakeCondition, message: "Please add at least one brake conditions when Brake Condition is selected."},
}

// ValidateInspectionTemplate checks only the family matching the report
// type.
func ValidateInspectionTemplate(tpl *model.InspectionTemplate) error {
	switch tpl.ReportType {
	case model.ReportTypeAdvanced:
		selected := false
		for _, c := range model.AdvancedTemplateCategories {
			selected = selected || tpl.Advanced.Enabled(c)
		}
		if !selected {
			return validationf("Please select at least one inspection category.")
		}
		for _, req := range advancedTemplateRequirements {
			if tpl.Advanced.Enabled(req.advanced) && len(tpl.AdvancedItems(req.advanced)) == 0 {
				return validationf("%s", req.message)
			}
		}
	case model.ReportTypeClassic:
		selected := false
		for _, c := range model.PartCategories {
			selected = selected || tpl.Classic.Enabled(c)
		}
		if !selected {
			return validationf("Please select at least one inspection category.")
		}
		for _, req := range classicTemplateRequirements {
			if tpl.Classic.Enabled(req.classic) && len(tpl.ClassicItems(req.classic)) == 0 {
				return validationf("%s", req.message)
			}
		}
	default:
		return fmt.Errorf("%w: unknown report type %q", ErrInvalidInput, tpl.ReportType)
	}
	return nil
}
