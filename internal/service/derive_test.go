package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicle-repair-service/internal/model"
)

func allCategories() model.InspectionCategories {
	return model.InspectionCategories{
		PartAssessment:      true,
		InnerBodyInspection: true,
		OuterBodyInspection: true,
		MechanicalCondition: true,
		VehicleComponent:    true,
		VehicleFluid:        true,
		TyreInspection:      true,
	}
}

func TestDeriveInspectionType(t *testing.T) {
	assert.Equal(t, model.InspectionTypeFull, DeriveInspectionType(allCategories()))

	partial := allCategories()
	partial.TyreInspection = false
	assert.Equal(t, model.InspectionTypeSpecific, DeriveInspectionType(partial))
}

func TestDeriveInspectType(t *testing.T) {
	assert.Equal(t, model.InspectTypeOnlyInspection, DeriveInspectType(model.BookingTypeOnlyInspection))
	assert.Equal(t, model.InspectTypeInspectionAndRepair, DeriveInspectType(model.BookingTypeOnlyRepair))
	assert.Equal(t, model.InspectTypeInspectionAndRepair, DeriveInspectType(model.BookingTypeInspectionAndRepair))
}

func TestApplyTotals(t *testing.T) {
	inspection := &model.InspectionJobCard{
		InspectionCharge: 50,
		SpareParts: []model.SparePartLine{
			{Quantity: 2, UnitPrice: 10},
			{Quantity: 1, UnitPrice: 5.5},
		},
		Services: []model.InspectionServiceLine{{ServiceCharge: 40}},
	}
	ApplyInspectionTotals(inspection)
	assert.InDelta(t, 25.5, inspection.PartPrice, 1e-9)
	assert.InDelta(t, 40, inspection.ServiceCharge, 1e-9)
	assert.InDelta(t, 115.5, inspection.SubTotal, 1e-9)

	repair := &model.RepairJobCard{
		InspectionCharge: 50,
		SpareParts:       []model.SparePartLine{{Quantity: 3, UnitPrice: 10}},
		ServiceLines:     []model.ServiceTeamLine{{ServiceCharge: 20}, {ServiceCharge: 15}},
	}
	ApplyRepairTotals(repair)
	assert.InDelta(t, 30, repair.PartPrice, 1e-9)
	assert.InDelta(t, 35, repair.ServiceCharge, 1e-9)
	assert.InDelta(t, 65, repair.SubTotal, 1e-9)
}

func TestDeriveCustomerSnapshot(t *testing.T) {
	customer := &model.Customer{Name: "Ann Lee", City: "Leeds", Email: "ann@example.com"}
	customer.ID = uuid.New()

	snap := DeriveCustomerSnapshot(customer, nil)
	require.NotNil(t, snap.CustomerID)
	assert.Equal(t, customer.ID, *snap.CustomerID)
	assert.Equal(t, "Leeds", snap.City)

	override := DeriveCustomerSnapshot(customer, &model.CustomerSnapshot{City: "York"})
	assert.Equal(t, customer.ID, *override.CustomerID)
	assert.Equal(t, "Ann Lee", override.Name)
	assert.Equal(t, "York", override.City)

	assert.Equal(t, model.CustomerSnapshot{}, DeriveCustomerSnapshot(nil, nil))
}

func TestChecklistHelpers(t *testing.T) {
	tpl := &model.ChecklistTemplate{Items: []model.ChecklistTemplateItem{
		{Sequence: 30, Name: "Tyres"},
		{Sequence: 10, Name: "Before delivery", DisplayType: model.DisplayTypeSection},
		{Sequence: 20, Name: "Lights"},
	}}
	lines := ChecklistFromTemplate(tpl)
	require.Len(t, lines, 3)
	assert.Equal(t, "Before delivery", lines[0].Name)
	assert.Equal(t, "Tyres", lines[2].Name)

	assert.False(t, ChecklistComplete(lines))
	lines[1].IsChecked = true
	lines[2].IsChecked = true
	// section markers never need checking
	assert.True(t, ChecklistComplete(lines))
	assert.True(t, ChecklistComplete(nil))
	assert.Nil(t, ChecklistFromTemplate(nil))
}

func TestCheckSpecificInspection(t *testing.T) {
	card := &model.InspectionJobCard{
		InspectionType: model.InspectionTypeSpecific,
		Categories:     model.InspectionCategories{OuterBodyInspection: true},
	}
	err := CheckSpecificInspection(card)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Please add at least one 'Vehicle Body Outer Conditions' when 'Outer Body Inspection' is selected.", verr.Message)

	card.ConditionLines = []model.InspectionConditionLine{{Category: model.ConditionExterior, Name: "Bumper"}}
	assert.NoError(t, CheckSpecificInspection(card))

	card.ConditionLines = nil
	card.InspectionType = model.InspectionTypeFull
	assert.NoError(t, CheckSpecificInspection(card))
}

func TestValidateInspectionTemplate(t *testing.T) {
	tests := []struct {
		name    string
		tpl     model.InspectionTemplate
		wantErr string
	}{
		{
			name:    "advanced without categories",
			tpl:     model.InspectionTemplate{ReportType: model.ReportTypeAdvanced},
			wantErr: "Please select at least one inspection category.",
		},
		{
			name: "advanced category without items",
			tpl: model.InspectionTemplate{
				ReportType: model.ReportTypeAdvanced,
				Advanced:   model.AdvancedCategories{ExteriorItem: true},
			},
			wantErr: "Please add at least one exterior items when Exterior is selected.",
		},
		{
			name: "classic items are ignored on advanced templates",
			tpl: model.InspectionTemplate{
				ReportType: model.ReportTypeAdvanced,
				Advanced:   model.AdvancedCategories{ExteriorItem: true},
				Classic:    model.ClassicCategories{Fluid: true},
				Items:      []model.InspectionTemplateItem{{ConditionCategory: model.ConditionExterior, Name: "Doors"}},
			},
		},
		{
			name: "classic fluid without items",
			tpl: model.InspectionTemplate{
				ReportType: model.ReportTypeClassic,
				Classic:    model.ClassicCategories{Fluid: true},
			},
			wantErr: "Please add at least one vehicle fluids when Vehicle Fluid is selected.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInspectionTemplate(&tt.tpl)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestPartLineSetStatus(t *testing.T) {
	line := model.InspectionPartLine{Category: model.PartExterior}
	require.NoError(t, line.SetStatus(model.PartStatusOkayForNow))
	require.NoError(t, line.SetStatus(model.PartStatusRequiredAttention))
	assert.False(t, line.OkayForNow)
	assert.True(t, line.RequiredAttention)
	assert.True(t, line.Checked())

	assert.Error(t, line.SetStatus(model.PartStatusFilled))
	assert.Error(t, line.SetStatus("shiny"))

	fluid := model.InspectionPartLine{Category: model.PartFluids}
	assert.False(t, fluid.Checked())
	require.NoError(t, fluid.SetStatus(model.PartStatusFilled))
	assert.True(t, fluid.Checked())
}
