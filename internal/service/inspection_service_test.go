package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicle-repair-service/internal/model"
	"vehicle-repair-service/internal/notify"
)

func atStage(stage model.InspectionStage) func(*model.InspectionJobCard) {
	return func(card *model.InspectionJobCard) { card.Stage = stage }
}

func TestInspectionChecklistGate(t *testing.T) {
	f := newFixture(t)
	card := f.inspectionCard(t, atStage(model.InspectionStageReject))
	tpl := f.checklistTemplate(t)

	card, err := f.inspections.ApplyChecklistTemplate(f.ctx, f.manager, card.ID, &tpl.ID)
	require.NoError(t, err)
	require.Len(t, card.ChecklistLines, 2)
	require.NotNil(t, card.ChecklistTemplateID)
	assert.Equal(t, tpl.ID, *card.ChecklistTemplateID)

	blocked, notice, err := f.inspections.Act(f.ctx, f.manager, card.ID, InspectionActionComplete)
	require.NoError(t, err)
	require.NotNil(t, notice)
	assert.Equal(t, msgChecklistIncomplete, notice.Message)
	assert.Equal(t, model.InspectionStageReject, blocked.Stage)
	assert.Empty(t, f.notifier.types())

	section := card.ChecklistLines[0]
	require.True(t, section.DisplayType.IsMarker())
	_, err = f.inspections.MarkChecklistLine(f.ctx, f.manager, card.ID, section.ID, true)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.inspections.MarkChecklistLine(f.ctx, f.manager, card.ID, uncheckedLine(t, card.ChecklistLines).ID, true)
	require.NoError(t, err)

	done, notice, err := f.inspections.Act(f.ctx, f.manager, card.ID, InspectionActionComplete)
	require.NoError(t, err)
	assert.Nil(t, notice)
	assert.Equal(t, model.InspectionStageComplete, done.Stage)
	assert.Equal(t, []string{notify.EventInspectionCompleted}, f.notifier.types())

	_, _, err = f.inspections.Act(f.ctx, f.manager, card.ID, InspectionActionComplete)
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Len(t, f.notifier.types(), 1)

	logs, err := f.inspections.History(f.ctx, f.manager, card.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, string(model.InspectionStageReject), logs[0].OldStage)
	assert.Equal(t, string(model.InspectionStageComplete), logs[0].NewStage)
	require.NotNil(t, logs[0].ChangedBy)
	assert.Equal(t, f.manager.UserID, *logs[0].ChangedBy)

	cleared, err := f.inspections.ApplyChecklistTemplate(f.ctx, f.manager, card.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, cleared.ChecklistLines)
	assert.Nil(t, cleared.ChecklistTemplateID)
}

func TestInspectionClassicPartGates(t *testing.T) {
	f := newFixture(t)
	card := f.inspectionCard(t, func(card *model.InspectionJobCard) {
		card.Stage = model.InspectionStageReject
		card.ReportType = model.ReportTypeClassic
		card.SkipQuotation = true
	})
	require.NoError(t, f.repos.Inspections.ReplacePartLines(f.ctx, card.ID,
		[]model.PartCategory{model.PartExterior, model.PartFluids},
		[]model.InspectionPartLine{
			{Category: model.PartExterior, Name: "Front bumper"},
			{Category: model.PartFluids, Name: "Coolant"},
		}))
	card, err := f.repos.Inspections.GetByID(f.ctx, card.ID)
	require.NoError(t, err)
	exterior := card.PartLinesOf(model.PartExterior)[0]
	fluid := card.PartLinesOf(model.PartFluids)[0]

	blocked, notice, err := f.inspections.Act(f.ctx, f.manager, card.ID, InspectionActionComplete)
	require.NoError(t, err)
	require.NotNil(t, notice)
	assert.Equal(t, "Ensure all records in the 'Exterior parts' template are checked.", notice.Message)
	assert.Equal(t, model.InspectionStageReject, blocked.Stage)
	assert.False(t, blocked.SkipQuotation, "skip flag is reset once the checklist passed")

	_, err = f.inspections.SetPartStatus(f.ctx, f.manager, card.ID, exterior.ID, model.PartStatusFilled)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = f.inspections.SetPartStatus(f.ctx, f.manager, card.ID, exterior.ID, model.PartStatusOkayForNow)
	require.NoError(t, err)

	_, notice, err = f.inspections.Act(f.ctx, f.manager, card.ID, InspectionActionComplete)
	require.NoError(t, err)
	require.NotNil(t, notice)
	assert.Equal(t, msgFluidsUnchecked, notice.Message)

	card, err = f.inspections.SetPartStatus(f.ctx, f.manager, card.ID, fluid.ID, model.PartStatusFilled)
	require.NoError(t, err)
	assert.True(t, card.PartLinesOf(model.PartFluids)[0].Filled)

	done, notice, err := f.inspections.Act(f.ctx, f.manager, card.ID, InspectionActionComplete)
	require.NoError(t, err)
	assert.Nil(t, notice)
	assert.Equal(t, model.InspectionStageComplete, done.Stage)

	other := f.inspectionCard(t, nil)
	_, err = f.inspections.SetPartStatus(f.ctx, f.manager, other.ID, exterior.ID, model.PartStatusOkayForNow)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInspectionCompleteClearsSkipFlag(t *testing.T) {
	f := newFixture(t)
	card := f.inspectionCard(t, func(card *model.InspectionJobCard) {
		card.Stage = model.InspectionStageReject
		card.InspectType = model.InspectTypeInspectionAndRepair
		card.ChargeType = model.ChargeTypePaid
		card.SkipQuotation = true
	})

	done, _, err := f.inspections.Act(f.ctx, f.manager, card.ID, InspectionActionComplete)
	require.NoError(t, err)
	assert.Equal(t, model.InspectionStageComplete, done.Stage)
	assert.False(t, done.SkipQuotation, "paid inspection and repair cards are cleared too")
}

func TestInspectionUpdate(t *testing.T) {
	f := newFixture(t)
	card := f.inspectionCard(t, nil)

	_, err := f.inspections.Update(f.ctx, f.manager, card.ID, InspectionUpdateInput{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, msgSelectInspectType, verr.Message)

	updated, err := f.inspections.Update(f.ctx, f.manager, card.ID, InspectionUpdateInput{
		InspectType:      model.InspectTypeInspectionAndRepair,
		InspectionCharge: 50,
		Odometer:         42100,
		ReviewNotes:      "rear pads worn",
	})
	require.NoError(t, err)
	assert.Equal(t, model.InspectTypeInspectionAndRepair, updated.InspectType)
	assert.Equal(t, model.ChargeTypePaid, updated.ChargeType)
	assert.Equal(t, 50.0, updated.SubTotal)
	assert.Equal(t, model.OdometerKilometers, updated.OdometerUnit)

	_, err = f.inspections.Update(f.ctx, f.client, card.ID, InspectionUpdateInput{InspectType: model.InspectTypeOnlyInspection})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	locked := f.inspectionCard(t, atStage(model.InspectionStageLocked))
	_, err = f.inspections.Update(f.ctx, f.manager, locked.ID, InspectionUpdateInput{InspectType: model.InspectTypeOnlyInspection})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestInspectionTemplateReplacesLines(t *testing.T) {
	f := newFixture(t)
	card := f.inspectionCard(t, nil)

	interior := &model.InspectionTemplate{
		Name:       "Interior",
		ReportType: model.ReportTypeAdvanced,
		Advanced:   model.AdvancedCategories{InteriorItem: true},
		Items: []model.InspectionTemplateItem{
			{ConditionCategory: model.ConditionInterior, Name: "Seats"},
			{ConditionCategory: model.ConditionInterior, Name: "Dashboard"},
		},
	}
	body := &model.InspectionTemplate{
		Name:       "Body",
		ReportType: model.ReportTypeAdvanced,
		Advanced:   model.AdvancedCategories{InteriorItem: true, ExteriorItem: true},
		Items: []model.InspectionTemplateItem{
			{ConditionCategory: model.ConditionInterior, Name: "Headliner"},
			{ConditionCategory: model.ConditionExterior, Name: "Bonnet", VehicleSide: "front"},
		},
	}
	classic := &model.InspectionTemplate{
		Name:       "Walk around",
		ReportType: model.ReportTypeClassic,
		Classic:    model.ClassicCategories{ExteriorPart: true},
		Items:      []model.InspectionTemplateItem{{PartCategory: model.PartExterior, Name: "Mirrors"}},
	}
	for _, tpl := range []*model.InspectionTemplate{interior, body, classic} {
		require.NoError(t, f.repos.Templates.CreateInspectionTemplate(f.ctx, tpl))
	}

	_, err := f.inspections.ApplyInspectionTemplate(f.ctx, f.manager, card.ID, &classic.ID)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, msgReportTypeMismatch, verr.Message)

	card, err = f.inspections.ApplyInspectionTemplate(f.ctx, f.manager, card.ID, &interior.ID)
	require.NoError(t, err)
	assert.Len(t, card.ConditionLinesOf(model.ConditionInterior), 2)
	assert.True(t, card.Categories.InnerBodyInspection)
	assert.False(t, card.Categories.OuterBodyInspection)
	assert.Equal(t, model.InspectionTypeSpecific, card.InspectionType)

	card, err = f.inspections.ApplyInspectionTemplate(f.ctx, f.manager, card.ID, &body.ID)
	require.NoError(t, err)
	inner := card.ConditionLinesOf(model.ConditionInterior)
	require.Len(t, inner, 1)
	assert.Equal(t, "Headliner", inner[0].Name)
	outer := card.ConditionLinesOf(model.ConditionExterior)
	require.Len(t, outer, 1)
	assert.Equal(t, "front", outer[0].VehicleSide)
	assert.True(t, card.Categories.OuterBodyInspection)
	require.NotNil(t, card.InspectionTemplateID)
	assert.Equal(t, body.ID, *card.InspectionTemplateID)

	card, err = f.inspections.ApplyInspectionTemplate(f.ctx, f.manager, card.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, card.ConditionLines)
	assert.False(t, card.Categories.InnerBodyInspection)
	assert.False(t, card.Categories.OuterBodyInspection)
	assert.Nil(t, card.InspectionTemplateID)
}

func TestInspectionClassicTemplateUsesPartInfoNames(t *testing.T) {
	f := newFixture(t)
	card := f.inspectionCard(t, func(card *model.InspectionJobCard) { card.ReportType = model.ReportTypeClassic })

	info := &model.VehiclePartInfo{Name: "Front bumper", Type: model.PartExterior}
	require.NoError(t, f.repos.DB().Create(info).Error)
	tpl := &model.InspectionTemplate{
		Name:       "Exterior",
		ReportType: model.ReportTypeClassic,
		Classic:    model.ClassicCategories{ExteriorPart: true},
		Items: []model.InspectionTemplateItem{
			{PartCategory: model.PartExterior, PartInfoID: &info.ID, Name: "bumper"},
			{PartCategory: model.PartExterior, Name: "Wipers"},
		},
	}
	require.NoError(t, f.repos.Templates.CreateInspectionTemplate(f.ctx, tpl))

	card, err := f.inspections.ApplyInspectionTemplate(f.ctx, f.manager, card.ID, &tpl.ID)
	require.NoError(t, err)
	names := make([]string, 0)
	for _, line := range card.PartLinesOf(model.PartExterior) {
		names = append(names, line.Name)
	}
	assert.ElementsMatch(t, []string{"Front bumper", "Wipers"}, names)

	switched, err := f.inspections.SetReportType(f.ctx, f.manager, card.ID, model.ReportTypeAdvanced)
	require.NoError(t, err)
	assert.Nil(t, switched.InspectionTemplateID)
	assert.Equal(t, model.ReportTypeAdvanced, switched.ReportType)

	_, err = f.inspections.SetReportType(f.ctx, f.manager, card.ID, model.ReportType("quick"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestInspectionCategoriesNeedConditionLines(t *testing.T) {
	f := newFixture(t)
	card := f.inspectionCard(t, nil)

	_, err := f.inspections.SetCategories(f.ctx, f.manager, card.ID, model.InspectionCategories{TyreInspection: true})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Please add at least one 'Tires Inspections' when 'Tire Inspection' is selected.", verr.Message)

	_, err = f.inspections.AddConditionLine(f.ctx, f.manager, card.ID, ConditionLineInput{Category: model.ConditionTyre, Name: "Front left", Condition: "worn"})
	require.NoError(t, err)

	card, err = f.inspections.SetCategories(f.ctx, f.manager, card.ID, model.InspectionCategories{TyreInspection: true})
	require.NoError(t, err)
	assert.True(t, card.Categories.TyreInspection)
	assert.Equal(t, model.InspectionTypeSpecific, card.InspectionType)

	_, err = f.inspections.AddConditionLine(f.ctx, f.manager, card.ID, ConditionLineInput{Category: model.ConditionCategory("roof"), Name: "Rack"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestInspectionLinesAndTotals(t *testing.T) {
	f := newFixture(t)
	card := f.inspectionCard(t, func(card *model.InspectionJobCard) { card.InspectionCharge = 10 })

	card, err := f.inspections.AddSparePart(f.ctx, f.manager, card.ID, SparePartInput{ProductID: f.part.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 80.0, card.PartPrice)

	card, err = f.inspections.AddService(f.ctx, f.manager, card.ID, ServiceInput{ProductID: f.labour.ID, ServiceCharge: ptr(30.0)})
	require.NoError(t, err)
	assert.Equal(t, 30.0, card.ServiceCharge)
	assert.Equal(t, 120.0, card.SubTotal)

	_, err = f.inspections.AddService(f.ctx, f.manager, card.ID, ServiceInput{ProductID: f.part.ID})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.inspections.DeleteSparePart(f.ctx, f.manager, card.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	require.Len(t, card.SpareParts, 1)
	card, err = f.inspections.DeleteSparePart(f.ctx, f.manager, card.ID, card.SpareParts[0].ID)
	require.NoError(t, err)
	assert.Empty(t, card.SpareParts)
	assert.Equal(t, 0.0, card.PartPrice)
	assert.Equal(t, 40.0, card.SubTotal)

	require.Len(t, card.Services, 1)
	card, err = f.inspections.DeleteService(f.ctx, f.manager, card.ID, card.Services[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, card.SubTotal)
}

func TestInspectionQuotation(t *testing.T) {
	f := newFixture(t)
	card := f.inspectionCard(t, func(card *model.InspectionJobCard) { card.InspectionCharge = 50 })

	quoted, notice, err := f.inspections.CreateQuotation(f.ctx, f.manager, card.ID)
	require.NoError(t, err)
	assert.Nil(t, notice)
	require.NotNil(t, quoted.SaleOrderID)
	assert.True(t, quoted.QuoteMailSent)
	assert.Equal(t, model.InspectionStageDraft, quoted.Stage)
	assert.Equal(t, []string{notify.EventInspectionQuotation}, f.notifier.types())

	order, err := f.repos.SaleOrders.GetByID(f.ctx, *quoted.SaleOrderID)
	require.NoError(t, err)
	assert.Equal(t, model.SaleOrderStateSent, order.State)
	assert.Equal(t, 50.0, order.AmountTotal)
	require.Len(t, order.Lines, 2)
	assert.Equal(t, model.DisplayTypeSection, order.Lines[0].DisplayType)
	require.NotNil(t, order.Lines[1].ProductID)
	assert.Equal(t, f.inspection.ID, *order.Lines[1].ProductID)

	_, _, err = f.inspections.CreateQuotation(f.ctx, f.manager, card.ID)
	assert.ErrorIs(t, err, ErrConflict)

	_, notice, err = f.inspections.UpdateQuotation(f.ctx, f.manager, card.ID)
	require.NoError(t, err)
	require.NotNil(t, notice)
	assert.Equal(t, NoticeSuccess, notice.Type)
	assert.Len(t, f.notifier.types(), 2)

	order, err = f.repos.SaleOrders.GetByID(f.ctx, *quoted.SaleOrderID)
	require.NoError(t, err)
	assert.Len(t, order.Lines, 2, "update replaces lines")
}

func TestInspectionSkipQuotation(t *testing.T) {
	f := newFixture(t)

	uncharged := f.inspectionCard(t, atStage(model.InspectionStageInProgress))
	got, notice, err := f.inspections.SkipQuotation(f.ctx, f.manager, uncharged.ID)
	require.NoError(t, err)
	require.NotNil(t, notice)
	assert.Equal(t, msgInspectionChargeMissing, notice.Message)
	assert.Nil(t, got.SaleOrderID)
	assert.Equal(t, model.InspectionStageInProgress, got.Stage)

	_, _, err = f.inspections.UpdateQuotation(f.ctx, f.manager, uncharged.ID)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, msgQuotationNotCreated, verr.Message)

	card := f.inspectionCard(t, func(card *model.InspectionJobCard) {
		card.Stage = model.InspectionStageInProgress
		card.InspectionCharge = 30
	})
	skipped, notice, err := f.inspections.SkipQuotation(f.ctx, f.manager, card.ID)
	require.NoError(t, err)
	assert.Nil(t, notice)
	assert.Equal(t, model.InspectionStageInReview, skipped.Stage)
	assert.True(t, skipped.SkipQuotation)
	assert.False(t, skipped.QuoteMailSent)
	require.NotNil(t, skipped.SaleOrderID)
	assert.Empty(t, f.notifier.types())

	order, err := f.repos.SaleOrders.GetByID(f.ctx, *skipped.SaleOrderID)
	require.NoError(t, err)
	assert.Equal(t, model.SaleOrderStateDraft, order.State)

	logs, err := f.inspections.History(f.ctx, f.manager, card.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "skip_quotation", logs[0].Action)
}

func TestInspectionCreateRepairJobCard(t *testing.T) {
	f := newFixture(t)

	anonymous := f.inspectionCard(t, func(card *model.InspectionJobCard) { card.Vehicle.RegistrationNo = "" })
	_, err := f.inspections.CreateRepairJobCard(f.ctx, f.manager, anonymous.ID)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, msgVehicleIdentity, verr.Message)

	card := f.inspectionCard(t, func(card *model.InspectionJobCard) {
		card.InspectType = model.InspectTypeInspectionAndRepair
		card.InspectionCharge = 50
		card.SpareParts = []model.SparePartLine{{ProductID: &f.part.ID, Name: f.part.Name, Quantity: 2, UnitPrice: 40}}
		card.Services = []model.InspectionServiceLine{{ProductID: &f.labour.ID, Name: f.labour.Name, ServiceCharge: 25}}
	})
	quoted, notice, err := f.inspections.CreateQuotation(f.ctx, f.manager, card.ID)
	require.NoError(t, err)
	require.Nil(t, notice)
	require.NotNil(t, quoted.SaleOrderID)

	repair, err := f.inspections.CreateRepairJobCard(f.ctx, f.manager, card.ID)
	require.NoError(t, err)
	require.NotNil(t, repair.InspectionJobCardID)
	assert.Equal(t, card.ID, *repair.InspectionJobCardID)
	require.Len(t, repair.SpareParts, 1)
	assert.Equal(t, 2.0, repair.SpareParts[0].Quantity)
	require.Len(t, repair.ServiceLines, 1)
	assert.Equal(t, 105.0, repair.SubTotal)
	assert.Equal(t, 50.0, repair.InspectionCharge)
	require.NotNil(t, repair.SaleOrderID)
	assert.Equal(t, *quoted.SaleOrderID, *repair.SaleOrderID)

	order, err := f.repos.SaleOrders.GetByID(f.ctx, *quoted.SaleOrderID)
	require.NoError(t, err)
	require.NotNil(t, order.RepairJobCardID)
	assert.Equal(t, repair.ID, *order.RepairJobCardID)

	_, err = f.inspections.CreateRepairJobCard(f.ctx, f.manager, card.ID)
	assert.ErrorIs(t, err, ErrConflict)

	_, _, err = f.repairs.CreateQuotation(f.ctx, f.manager, repair.ID)
	assert.ErrorIs(t, err, ErrConflict, "the carried over order is reused")
}

func TestInspectionVehicleRegistration(t *testing.T) {
	f := newFixture(t)

	card := f.inspectionCard(t, nil)
	registered, notice, err := f.inspections.CreateVehicleRegistration(f.ctx, f.manager, card.ID)
	require.NoError(t, err)
	assert.Nil(t, notice)
	assert.Equal(t, model.VehicleSourceCustomer, registered.Vehicle.Source)
	require.NotNil(t, registered.Vehicle.RegisteredVehicleID)

	reg, err := f.repos.Vehicles.GetByID(f.ctx, *registered.Vehicle.RegisteredVehicleID)
	require.NoError(t, err)
	assert.Equal(t, "Skoda/Octavia/YK19 ZTD", reg.DisplayName)
	assert.Equal(t, f.customer.ID, reg.CustomerID)

	bare := f.inspectionCard(t, func(card *model.InspectionJobCard) {
		card.Vehicle.ModelID = nil
		card.Vehicle.RegistrationNo = "AB12 CDE"
	})
	_, notice, err = f.inspections.CreateVehicleRegistration(f.ctx, f.manager, bare.ID)
	require.NoError(t, err)
	require.NotNil(t, notice)
	assert.Equal(t, msgRegisterNeedsModel, notice.Message)
}

func TestInspectionDelete(t *testing.T) {
	f := newFixture(t)

	locked := f.inspectionCard(t, atStage(model.InspectionStageLocked))
	err := f.inspections.Delete(f.ctx, f.manager, locked.ID)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, msgLockedDelete, verr.Message)

	err = f.inspections.Delete(f.ctx, f.technician, locked.ID)
	require.ErrorAs(t, err, &verr, "the lock applies to every staff role")
	assert.Equal(t, msgLockedDelete, verr.Message)
	assert.ErrorIs(t, f.inspections.Delete(f.ctx, f.client, locked.ID), ErrPermissionDenied)

	card := f.inspectionCard(t, func(card *model.InspectionJobCard) {
		card.SpareParts = []model.SparePartLine{{ProductID: &f.part.ID, Name: f.part.Name, Quantity: 1, UnitPrice: 40}}
	})
	assert.ErrorIs(t, f.inspections.Delete(f.ctx, f.technician, card.ID), ErrPermissionDenied)
	require.NoError(t, f.inspections.Delete(f.ctx, f.manager, card.ID))

	_, err = f.inspections.Get(f.ctx, f.manager, card.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
