package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"vehicle-repair-service/internal/db/testdb"
	"vehicle-repair-service/internal/model"
	"vehicle-repair-service/internal/notify"
	"vehicle-repair-service/internal/repository"
)

// fixedNow is a Monday.
var fixedNow = time.Date(2030, time.January, 7, 8, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (n *recordingNotifier) Notify(_ context.Context, event notify.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	ctx      context.Context
	repos    *repository.Repositories
	notifier *recordingNotifier

	manager    model.Principal
	technician model.Principal
	client     model.Principal

	customer   *model.Customer
	brand      *model.VehicleBrand
	carModel   *model.VehicleModel
	fuel       *model.FuelType
	part       *model.Product
	labour     *model.Product
	inspection *model.Product
	monday     *model.AppointmentDay
	slot       model.AppointmentSlot

	bookings    *BookingService
	inspections *InspectionService
	repairs     *RepairService
	vehicles    *VehicleService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctx := context.Background()
	repos := repository.New(testdb.New(t))
	f := &fixture{
		ctx:        ctx,
		repos:      repos,
		notifier:   &recordingNotifier{},
		manager:    model.Principal{UserID: uuid.New(), Role: model.UserRoleServiceManager},
		technician: model.Principal{UserID: uuid.New(), Role: model.UserRoleTechnician},
	}

	f.customer = &model.Customer{Name: "Dana Whitfield", City: "Leeds", Email: "dana@example.com", Phone: "0113 496 0000"}
	require.NoError(t, repos.Customers.Create(ctx, f.customer))
	customerID := f.customer.ID
	f.client = model.Principal{UserID: uuid.New(), Role: model.UserRoleCustomer, CustomerID: &customerID}

	f.brand = &model.VehicleBrand{Name: "Skoda"}
	require.NoError(t, repos.DB().Create(f.brand).Error)
	f.carModel = &model.VehicleModel{BrandID: f.brand.ID, Name: "Octavia"}
	require.NoError(t, repos.DB().Create(f.carModel).Error)
	f.fuel = &model.FuelType{Name: "Diesel"}
	require.NoError(t, repos.DB().Create(f.fuel).Error)

	f.part = &model.Product{Code: "BRK-PAD", Name: "Brake pads", Kind: model.ProductKindPart, ListPrice: 40}
	f.labour = &model.Product{Code: "SRV-BRK", Name: "Brake service", Kind: model.ProductKindService, ListPrice: 25}
	f.inspection = &model.Product{Code: "INSPECTION", Name: "Vehicle Inspection", Kind: model.ProductKindInspection}
	for _, p := range []*model.Product{f.part, f.labour, f.inspection} {
		require.NoError(t, repos.DB().Create(p).Error)
	}

	f.monday = &model.AppointmentDay{
		Name:      "Monday",
		DayOfWeek: "monday",
		Slots:     []model.AppointmentSlot{{Title: "10:00 - 11:00", FromTime: 10, ToTime: 11}},
	}
	require.NoError(t, repos.Slots.CreateDay(ctx, f.monday))
	f.slot = f.monday.Slots[0]

	log := zerolog.Nop()
	f.bookings = NewBookingService(repos, time.UTC, 2, log)
	f.bookings.now = func() time.Time { return fixedNow }
	f.inspections = NewInspectionService(repos, f.notifier, time.UTC, log)
	f.inspections.now = func() time.Time { return fixedNow }
	f.repairs = NewRepairService(repos, f.notifier, time.UTC, log)
	f.repairs.now = func() time.Time { return fixedNow }
	f.vehicles = NewVehicleService(repos, time.UTC, log)
	f.vehicles.now = func() time.Time { return fixedNow }
	return f
}

func (f *fixture) vehicle() model.VehicleInfo {
	brandID, modelID, fuelID := f.brand.ID, f.carModel.ID, f.fuel.ID
	return model.VehicleInfo{
		BrandID:        &brandID,
		ModelID:        &modelID,
		FuelTypeID:     &fuelID,
		RegistrationNo: "YK19 ZTD",
		Source:         model.VehicleSourceNew,
	}
}

func (f *fixture) booking(t *testing.T, input BookingInput) *model.Booking {
	t.Helper()
	if input.BookingDate == nil {
		date := fixedNow
		input.BookingDate = &date
	}
	if input.CustomerID == nil {
		id := f.customer.ID
		input.CustomerID = &id
	}
	booking, err := f.bookings.Create(f.ctx, f.manager, input)
	require.NoError(t, err)
	return booking
}

// inspectionCard stores a card directly so tests can start from any stage.
func (f *fixture) inspectionCard(t *testing.T, edit func(card *model.InspectionJobCard)) *model.InspectionJobCard {
	t.Helper()
	number, err := f.repos.Sequences.Next(f.ctx, repository.SequenceInspection)
	require.NoError(t, err)
	card := &model.InspectionJobCard{
		Number:         number,
		InspectionDate: model.NewDate(fixedNow),
		Stage:          model.InspectionStageDraft,
		InspectType:    model.InspectTypeOnlyInspection,
		ChargeType:     model.ChargeTypePaid,
		OdometerUnit:   model.OdometerKilometers,
		ReportType:     model.ReportTypeAdvanced,
		InspectionType: model.InspectionTypeSpecific,
		Vehicle:        f.vehicle(),
		Customer:       f.customer.Snapshot(),
	}
	if edit != nil {
		edit(card)
	}
	ApplyInspectionTotals(card)
	require.NoError(t, f.repos.Inspections.Create(f.ctx, card))
	return card
}

func (f *fixture) repairCard(t *testing.T, edit func(card *model.RepairJobCard)) *model.RepairJobCard {
	t.Helper()
	number, err := f.repos.Sequences.Next(f.ctx, repository.SequenceRepair)
	require.NoError(t, err)
	card := &model.RepairJobCard{
		Number:            number,
		InspectRepairDate: model.NewDate(fixedNow),
		Stage:             model.RepairStageDraft,
		Vehicle:           f.vehicle(),
		Customer:          f.customer.Snapshot(),
		OdometerUnit:      model.OdometerKilometers,
	}
	if edit != nil {
		edit(card)
	}
	ApplyRepairTotals(card)
	require.NoError(t, f.repos.Repairs.Create(f.ctx, card))
	return card
}

func (f *fixture) checklistTemplate(t *testing.T) *model.ChecklistTemplate {
	t.Helper()
	tpl := &model.ChecklistTemplate{
		Name: "Delivery",
		Items: []model.ChecklistTemplateItem{
			{Sequence: 1, Name: "Exterior", DisplayType: model.DisplayTypeSection},
			{Sequence: 2, Name: "Lights working"},
		},
	}
	require.NoError(t, f.repos.Templates.CreateChecklist(f.ctx, tpl))
	return tpl
}

func uncheckedLine(t *testing.T, lines []model.ChecklistLine) model.ChecklistLine {
	t.Helper()
	for _, line := range lines {
		if !line.DisplayType.IsMarker() {
			return line
		}
	}
	t.Fatal("no checkable line")
	return model.ChecklistLine{}
}

func ptr[T any](v T) *T {
	return &v
}
