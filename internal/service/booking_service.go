package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"vehicle-repair-service/internal/model"
	"vehicle-repair-service/internal/repository"
)

type BookingAction string

const (
	BookingActionToInspection       BookingAction = "draft_to_vehicle_inspection"
	BookingActionToRepair           BookingAction = "vehicle_inspection_to_vehicle_repair"
	BookingActionToInspectionRepair BookingAction = "vehicle_repair_to_vehicle_inspection_repair"
	BookingActionCancel             BookingAction = "cancel"
)

const msgSlotAlreadyBooked = "Booking slot is already booked. Please choose another slot."

type bookingSubject struct {
	booking   *model.Booking
	conflicts int64
}

// slotStillFree is a no-op when the booking has no slot.
func slotStillFree(s bookingSubject) *Notice {
	if s.booking.SlotID == nil {
		return nil
	}
	if s.conflicts > 0 {
		return warning(msgSlotAlreadyBooked)
	}
	return nil
}

var bookingFlow = NewWorkflow(model.EntityBooking, map[string]Transition[model.BookingStage, bookingSubject]{
	string(BookingActionToInspection): {
		From:   []model.BookingStage{model.BookingStageDraft},
		To:     model.BookingStageVehicleInspection,
		Guards: []Guard[bookingSubject]{slotStillFree},
	},
	string(BookingActionToRepair): {
		From:   []model.BookingStage{model.BookingStageVehicleInspection},
		To:     model.BookingStageVehicleRepair,
		Guards: []Guard[bookingSubject]{slotStillFree},
	},
	string(BookingActionToInspectionRepair): {
		From:   []model.BookingStage{model.BookingStageVehicleRepair},
		To:     model.BookingStageVehicleInspectionRepair,
		Guards: []Guard[bookingSubject]{slotStillFree},
	},
	string(BookingActionCancel): {
		From: []model.BookingStage{
			model.BookingStageDraft,
			model.BookingStageVehicleInspection,
			model.BookingStageVehicleRepair,
			model.BookingStageVehicleInspectionRepair,
		},
		To: model.BookingStageCancel,
	},
})

type BookingInput struct {
	BookingDate         *time.Time
	Type                model.BookingType
	Vehicle             model.VehicleInfo
	CustomerID          *uuid.UUID
	Customer            *model.CustomerSnapshot
	CustomerObservation string
	SlotID              *uuid.UUID
	SparePartIDs        []uuid.UUID
	ServiceIDs          []uuid.UUID
	EstimateCost        float64
	ResponsibleID       *uuid.UUID
}

type BookingListOptions struct {
	Stages     []model.BookingStage
	Sources    []model.BookingSource
	CustomerID *uuid.UUID
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
	Offset     int
}

type BookingService struct {
	repos    *repository.Repositories
	log      zerolog.Logger
	location *time.Location
	pageSize int
	now      func() time.Time
}

func NewBookingService(repos *repository.Repositories, location *time.Location, pageSize int, log zerolog.Logger) *BookingService {
	if location == nil {
		location = time.UTC
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return &BookingService{repos: repos, log: log, location: location, pageSize: pageSize, now: time.Now}
}

func (s *BookingService) today() time.Time {
	return s.now().In(s.location)
}

func (s *BookingService) List(ctx context.Context, principal model.Principal, opts BookingListOptions) ([]model.Booking, error) {
	filter := repository.BookingFilter{
		Stages:     opts.Stages,
		Sources:    opts.Sources,
		CustomerID: opts.CustomerID,
		Limit:      opts.Limit,
		Offset:     opts.Offset,
	}
	if principal.IsCustomer() {
		if principal.CustomerID == nil {
			return nil, ErrPermissionDenied
		}
		filter.CustomerID = principal.CustomerID
	} else if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}
	if opts.DateFrom != nil {
		filter.DateFrom = model.DatePtr(*opts.DateFrom)
	}
	if opts.DateTo != nil {
		filter.DateTo = model.DatePtr(*opts.DateTo)
	}
	return s.repos.Bookings.List(ctx, filter)
}

func (s *BookingService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Booking, error) {
	booking, err := s.repos.Bookings.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if !canSeeCustomerRecord(principal, booking.Customer.CustomerID) {
		return nil, ErrNotFound
	}
	return booking, nil
}

func (s *BookingService) Create(ctx context.Context, principal model.Principal, input BookingInput) (*model.Booking, error) {
	if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}
	return s.create(ctx, input, model.BookingSourceDirect)
}

func (s *BookingService) create(ctx context.Context, input BookingInput, source model.BookingSource) (*model.Booking, error) {
	token, err := newAccessToken()
	if err != nil {
		return nil, err
	}

	var created *model.Booking
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		booking := &model.Booking{
			AccessToken:         token,
			Source:              source,
			Type:                input.Type,
			Stage:               model.BookingStageDraft,
			CustomerObservation: strings.TrimSpace(input.CustomerObservation),
			EstimateCost:        input.EstimateCost,
			ResponsibleID:       input.ResponsibleID,
		}
		if booking.Type == "" {
			booking.Type = model.BookingTypeOnlyInspection
		}
		if err := s.applyInput(ctx, tx, booking, input); err != nil {
			return err
		}

		items, err := s.requestedItems(ctx, tx, input.SparePartIDs, input.ServiceIDs)
		if err != nil {
			return err
		}
		booking.Items = items

		number, err := tx.Sequences.Next(ctx, repository.SequenceBooking)
		if err != nil {
			return err
		}
		booking.Number = number

		if err := tx.Bookings.Create(ctx, booking); err != nil {
			return err
		}
		created = booking
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repos.Bookings.GetByID(ctx, created.ID)
}

// Update rewrites the booking fields. An omitted date, customer, vehicle or
// item list keeps the stored value. A customer given in the input is written
// back to the customer record here and nowhere else.
func (s *BookingService) Update(ctx context.Context, principal model.Principal, id uuid.UUID, input BookingInput) (*model.Booking, *Notice, error) {
	if !principal.IsStaff() {
		return nil, nil, ErrPermissionDenied
	}

	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		booking, err := tx.Bookings.GetByID(ctx, id)
		if err != nil {
			return notFound(err)
		}
		if booking.Stage == model.BookingStageCancel {
			return ErrInvalidStatus
		}

		if input.Type != "" {
			booking.Type = input.Type
		}
		booking.CustomerObservation = strings.TrimSpace(input.CustomerObservation)
		booking.EstimateCost = input.EstimateCost
		booking.ResponsibleID = input.ResponsibleID
		if err := s.applyInput(ctx, tx, booking, input); err != nil {
			return err
		}

		if booking.Stage.SlotHolding() && booking.SlotID != nil {
			conflicts, err := tx.Bookings.CountSlotConflicts(ctx, booking.ID, *booking.SlotID, booking.BookingDate)
			if err != nil {
				return err
			}
			if conflicts > 0 {
				return gorm.ErrDuplicatedKey
			}
		}

		var items []model.BookingItem
		if input.SparePartIDs != nil || input.ServiceIDs != nil {
			items, err = s.requestedItems(ctx, tx, input.SparePartIDs, input.ServiceIDs)
			if err != nil {
				return err
			}
		}
		booking.Slot = nil
		if err := tx.Bookings.Update(ctx, booking, items); err != nil {
			return err
		}

		customerGiven := input.CustomerID != nil || input.Customer != nil
		if customerGiven && booking.Customer.CustomerID != nil {
			if err := tx.Customers.UpdateContact(ctx, *booking.Customer.CustomerID, booking.Customer); err != nil {
				return notFound(err)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			booking, getErr := s.repos.Bookings.GetByID(ctx, id)
			if getErr != nil {
				return nil, nil, notFound(getErr)
			}
			return booking, warning(msgSlotAlreadyBooked), nil
		}
		return nil, nil, err
	}

	booking, err := s.repos.Bookings.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return booking, nil, nil
}

// applyInput sets date, customer snapshot, vehicle and slot from input.
// Values missing from input fall back to what the booking already holds.
func (s *BookingService) applyInput(ctx context.Context, tx *repository.Repositories, booking *model.Booking, input BookingInput) error {
	date := s.today()
	switch {
	case input.BookingDate != nil:
		date = *input.BookingDate
	case !time.Time(booking.BookingDate).IsZero():
		date = time.Time(booking.BookingDate)
	}
	booking.BookingDate = model.NewDate(date)

	if input.CustomerID != nil || input.Customer != nil {
		var customer *model.Customer
		customerID := input.CustomerID
		if customerID == nil {
			customerID = input.Customer.CustomerID
		}
		if customerID != nil {
			c, err := tx.Customers.GetByID(ctx, *customerID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrInvalidInput
				}
				return err
			}
			customer = c
		}
		booking.Customer = DeriveCustomerSnapshot(customer, input.Customer)
	}

	if input.Vehicle != (model.VehicleInfo{}) || booking.Vehicle.Source == "" {
		vehicle, err := resolveVehicle(ctx, tx, input.Vehicle)
		if err != nil {
			return err
		}
		booking.Vehicle = vehicle
	}

	slotID := input.SlotID
	if slotID == nil {
		slotID = booking.SlotID
	}
	booking.SlotID = nil
	booking.AppointmentID = nil
	if slotID != nil {
		slot, err := tx.Slots.GetSlot(ctx, *slotID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidInput
			}
			return err
		}
		day, err := tx.Slots.DayByWeekday(ctx, model.WeekdayName(date.Weekday()))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidInput
			}
			return err
		}
		if day.ID != slot.AppointmentID {
			return ErrInvalidInput
		}
		booking.SlotID = &slot.ID
		booking.AppointmentID = &day.ID
	}
	return nil
}

// resolveVehicle fills a customer vehicle from the registry.
func resolveVehicle(ctx context.Context, tx *repository.Repositories, input model.VehicleInfo) (model.VehicleInfo, error) {
	if input.Source == "" {
		input.Source = model.VehicleSourceNew
	}
	input.RegistrationNo = strings.TrimSpace(input.RegistrationNo)
	input.VINNo = strings.TrimSpace(input.VINNo)
	if input.Source != model.VehicleSourceCustomer || input.RegisteredVehicleID == nil {
		return input, nil
	}
	reg, err := tx.Vehicles.GetByID(ctx, *input.RegisteredVehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.VehicleInfo{}, ErrInvalidInput
		}
		return model.VehicleInfo{}, err
	}
	return DeriveVehicleFromRegistered(reg), nil
}

func (s *BookingService) requestedItems(ctx context.Context, tx *repository.Repositories, partIDs, serviceIDs []uuid.UUID) ([]model.BookingItem, error) {
	items := make([]model.BookingItem, 0, len(partIDs)+len(serviceIDs))
	groups := []struct {
		ids  []uuid.UUID
		kind model.BookingItemKind
		want model.ProductKind
	}{
		{partIDs, model.BookingItemSparePart, model.ProductKindPart},
		{serviceIDs, model.BookingItemService, model.ProductKindService},
	}
	for _, g := range groups {
		if len(g.ids) == 0 {
			continue
		}
		products, err := tx.Catalog.ListProducts(ctx, repository.ProductFilter{IDs: g.ids, Kinds: []model.ProductKind{g.want}})
		if err != nil {
			return nil, err
		}
		if len(products) != len(uniqueIDs(g.ids)) {
			return nil, ErrInvalidInput
		}
		for _, p := range products {
			items = append(items, model.BookingItem{ProductID: p.ID, Kind: g.kind})
		}
	}
	return items, nil
}

// Act runs one stage action. A failed guard returns the booking unchanged
// with a warning.
func (s *BookingService) Act(ctx context.Context, principal model.Principal, id uuid.UUID, action BookingAction) (*model.Booking, *Notice, error) {
	if !principal.IsStaff() {
		return nil, nil, ErrPermissionDenied
	}

	var notice *Notice
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		booking, err := tx.Bookings.GetByID(ctx, id)
		if err != nil {
			return notFound(err)
		}

		subject := bookingSubject{booking: booking}
		if booking.SlotID != nil && action != BookingActionCancel {
			subject.conflicts, err = tx.Bookings.CountSlotConflicts(ctx, booking.ID, *booking.SlotID, booking.BookingDate)
			if err != nil {
				return err
			}
		}

		next, n, err := bookingFlow.Next(string(action), booking.Stage, subject)
		if err != nil {
			return err
		}
		if n != nil {
			notice = n
			return nil
		}

		fields := map[string]interface{}{"stage": next}
		switch action {
		case BookingActionToInspection:
			card, err := spawnInspection(ctx, tx, booking, principal, false)
			if err != nil {
				return err
			}
			fields["inspection_job_card_id"] = card.ID
		case BookingActionToRepair:
			card, err := spawnRepair(ctx, tx, booking)
			if err != nil {
				return err
			}
			fields["repair_job_card_id"] = card.ID
		case BookingActionToInspectionRepair:
			card, err := spawnInspection(ctx, tx, booking, principal, true)
			if err != nil {
				return err
			}
			fields["inspection_job_card_id"] = card.ID
		}

		if err := tx.Bookings.UpdateFields(ctx, booking.ID, fields); err != nil {
			return err
		}
		return recordStage(ctx, tx, model.EntityBooking, booking.ID, string(action), string(booking.Stage), string(next), principal)
	})
	if err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, err
		}
		// The partial unique index caught a booking that slipped past the
		// re-check.
		notice = warning(msgSlotAlreadyBooked)
	}

	booking, err := s.repos.Bookings.GetByID(ctx, id)
	if err != nil {
		return nil, nil, notFound(err)
	}
	return booking, notice, nil
}

func (s *BookingService) Actions(booking *model.Booking) []string {
	return bookingFlow.Actions(booking.Stage)
}

func (s *BookingService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if !(principal.IsAdmin() || principal.IsManager()) {
		return ErrPermissionDenied
	}
	booking, err := s.repos.Bookings.GetByID(ctx, id)
	if err != nil {
		return notFound(err)
	}
	if booking.Stage != model.BookingStageDraft && booking.Stage != model.BookingStageCancel {
		return ErrInvalidStatus
	}
	return s.repos.Bookings.Delete(ctx, id)
}

func (s *BookingService) History(ctx context.Context, principal model.Principal, id uuid.UUID) ([]model.StageLog, error) {
	if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}
	return s.repos.StageLogs.List(ctx, model.EntityBooking, id)
}

// spawnInspection opens an inspection card for the booking. With items set,
// requested parts and services become required lines priced from the
// catalog.
func spawnInspection(ctx context.Context, tx *repository.Repositories, booking *model.Booking, principal model.Principal, items bool) (*model.InspectionJobCard, error) {
	number, err := tx.Sequences.Next(ctx, repository.SequenceInspection)
	if err != nil {
		return nil, err
	}
	bookingID := booking.ID
	card := &model.InspectionJobCard{
		Number:              number,
		InspectionDate:      booking.BookingDate,
		Stage:               model.InspectionStageDraft,
		InspectType:         DeriveInspectType(booking.Type),
		ChargeType:          model.ChargeTypePaid,
		OdometerUnit:        model.OdometerKilometers,
		ReportType:          model.ReportTypeAdvanced,
		InspectionType:      model.InspectionTypeSpecific,
		Vehicle:             booking.Vehicle,
		Customer:            booking.Customer,
		CustomerObservation: booking.CustomerObservation,
		BookingID:           &bookingID,
	}
	if principal.IsTechnician() {
		id := principal.UserID
		card.ResponsibleID = &id
	}
	if items {
		for _, item := range booking.ItemsOfKind(model.BookingItemSparePart) {
			card.SpareParts = append(card.SpareParts, sparePartFromProduct(item))
		}
		for _, item := range booking.ItemsOfKind(model.BookingItemService) {
			productID := item.ProductID
			card.Services = append(card.Services, model.InspectionServiceLine{
				ProductID:     &productID,
				Name:          productName(item),
				ServiceCharge: productPrice(item),
			})
		}
	}
	ApplyInspectionTotals(card)
	if err := tx.Inspections.Create(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

func spawnRepair(ctx context.Context, tx *repository.Repositories, booking *model.Booking) (*model.RepairJobCard, error) {
	number, err := tx.Sequences.Next(ctx, repository.SequenceRepair)
	if err != nil {
		return nil, err
	}
	bookingID := booking.ID
	card := &model.RepairJobCard{
		Number:              number,
		InspectRepairDate:   booking.BookingDate,
		Stage:               model.RepairStageDraft,
		Vehicle:             booking.Vehicle,
		Customer:            booking.Customer,
		CustomerObservation: booking.CustomerObservation,
		OdometerUnit:        model.OdometerKilometers,
		BookingID:           &bookingID,
	}
	for _, item := range booking.ItemsOfKind(model.BookingItemSparePart) {
		card.SpareParts = append(card.SpareParts, sparePartFromProduct(item))
	}
	for _, item := range booking.ItemsOfKind(model.BookingItemService) {
		productID := item.ProductID
		card.ServiceLines = append(card.ServiceLines, model.ServiceTeamLine{
			ProductID:     &productID,
			Name:          productName(item),
			ServiceCharge: productPrice(item),
		})
	}
	ApplyRepairTotals(card)
	if err := tx.Repairs.Create(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

func sparePartFromProduct(item model.BookingItem) model.SparePartLine {
	productID := item.ProductID
	return model.SparePartLine{
		ProductID: &productID,
		Name:      productName(item),
		Quantity:  1,
		UnitPrice: productPrice(item),
	}
}

func productName(item model.BookingItem) string {
	if item.Product != nil {
		return item.Product.Name
	}
	return ""
}

func productPrice(item model.BookingItem) float64 {
	if item.Product != nil {
		return item.Product.ListPrice
	}
	return 0
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// canSeeCustomerRecord lets staff see everything and customers only their
// own records.
func canSeeCustomerRecord(principal model.Principal, customerID *uuid.UUID) bool {
	if principal.IsStaff() {
		return true
	}
	if !principal.IsCustomer() || principal.CustomerID == nil || customerID == nil {
		return false
	}
	return *principal.CustomerID == *customerID
}

// newAccessToken returns 16 url-safe characters without underscores.
func newAccessToken() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ReplaceAll(base64.RawURLEncoding.EncodeToString(buf), "_", "-"), nil
}
