package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"vehicle-repair-service/internal/model"
	"vehicle-repair-service/internal/repository"
)

const (
	msgRegistrationInUse     = "Registration %s is already in use. Please try a different one."
	msgOdometerPositive      = "Odometer value must be greater than zero."
	msgOdometerBelowLast     = "Odometer value must be greater than the last recorded value (%v)."
	msgServiceDateBeforeLast = "Service date cannot be earlier than the last service date (%s)."
	msgServiceDatePast       = "Service date cannot be in the past."
	msgRegisterFirst         = "Please register the vehicle before updating service information."
	msgNoRegisteredVehicle   = "No registered vehicle is linked to this job card."
	msgNoFleetVehicle        = "No fleet vehicle is linked to this job card."
	msgServiceInfoUpdated    = "Service information has been updated successfully."
)

type VehicleInput struct {
	CustomerID uuid.UUID
	Vehicle    model.VehicleInfo
}

type ServiceInfoInput struct {
	Odometer     float64
	OdometerUnit model.OdometerUnit
	ServiceDate  *time.Time
	Note         string
}

type VehicleService struct {
	repos    *repository.Repositories
	log      zerolog.Logger
	location *time.Location
	now      func() time.Time
}

func NewVehicleService(repos *repository.Repositories, location *time.Location, log zerolog.Logger) *VehicleService {
	if location == nil {
		location = time.UTC
	}
	return &VehicleService{repos: repos, log: log, location: location, now: time.Now}
}

func (s *VehicleService) today() time.Time {
	return s.now().In(s.location)
}

func (s *VehicleService) Register(ctx context.Context, principal model.Principal, input VehicleInput) (*model.RegisteredVehicle, error) {
	if principal.IsCustomer() {
		if principal.CustomerID == nil || *principal.CustomerID != input.CustomerID {
			return nil, ErrPermissionDenied
		}
	} else if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}

	var created *model.RegisteredVehicle
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Customers.GetByID(ctx, input.CustomerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidInput
			}
			return err
		}
		reg, err := registerVehicle(ctx, tx, input.CustomerID, input.Vehicle)
		if err != nil {
			return err
		}
		created = reg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *VehicleService) ListForCustomer(ctx context.Context, principal model.Principal, customerID uuid.UUID) ([]model.RegisteredVehicle, error) {
	if !canSeeCustomerRecord(principal, &customerID) {
		return nil, ErrPermissionDenied
	}
	return s.repos.Vehicles.ListByCustomer(ctx, customerID)
}

func (s *VehicleService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.RegisteredVehicle, error) {
	reg, err := s.repos.Vehicles.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if !canSeeCustomerRecord(principal, &reg.CustomerID) {
		return nil, ErrNotFound
	}
	return reg, nil
}

func (s *VehicleService) ServiceHistory(ctx context.Context, principal model.Principal, id uuid.UUID) ([]model.ServiceHistory, error) {
	if _, err := s.Get(ctx, principal, id); err != nil {
		return nil, err
	}
	return s.repos.Vehicles.ListServiceHistory(ctx, id)
}

// AddServiceHistory records a visit against a registered vehicle.
func (s *VehicleService) AddServiceHistory(ctx context.Context, principal model.Principal, id uuid.UUID, input ServiceInfoInput) (*model.ServiceHistory, error) {
	if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}
	var entry *model.ServiceHistory
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Vehicles.GetByID(ctx, id); err != nil {
			return notFound(err)
		}
		e, err := s.addServiceHistory(ctx, tx, id, input)
		if err != nil {
			return err
		}
		entry = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *VehicleService) addServiceHistory(ctx context.Context, tx *repository.Repositories, vehicleID uuid.UUID, input ServiceInfoInput) (*model.ServiceHistory, error) {
	date := s.today()
	if input.ServiceDate != nil {
		date = *input.ServiceDate
	}
	serviceDate := model.NewDate(date)

	var last *model.ServiceHistory
	l, err := tx.Vehicles.LastServiceHistory(ctx, vehicleID)
	switch {
	case err == nil:
		last = l
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, err
	}
	if err := ValidateServiceEntry(input.Odometer, serviceDate, last, model.NewDate(s.today())); err != nil {
		return nil, err
	}

	unit := input.OdometerUnit
	if unit == "" {
		unit = model.OdometerKilometers
	}
	entry := &model.ServiceHistory{
		RegisteredVehicleID: vehicleID,
		ServiceDate:         serviceDate,
		Odometer:            input.Odometer,
		OdometerUnit:        unit,
		Note:                strings.TrimSpace(input.Note),
	}
	if err := tx.Vehicles.AddServiceHistory(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ValidateServiceEntry checks a new service reading against the previous
// one and today's date.
func ValidateServiceEntry(odometer float64, date datatypes.Date, last *model.ServiceHistory, today datatypes.Date) error {
	if odometer <= 0 {
		return validationf("%s", msgOdometerPositive)
	}
	if last != nil {
		if odometer <= last.Odometer {
			return validationf(msgOdometerBelowLast, last.Odometer)
		}
		if time.Time(date).Before(time.Time(last.ServiceDate)) {
			return validationf(msgServiceDateBeforeLast, time.Time(last.ServiceDate).Format(time.DateOnly))
		}
	}
	if time.Time(date).Before(time.Time(today)) {
		return validationf("%s", msgServiceDatePast)
	}
	return nil
}

// UpdateServiceInfo stores the odometer reading of a job card on the
// vehicle it came from.
func (s *VehicleService) UpdateServiceInfo(ctx context.Context, principal model.Principal, entity model.EntityType, cardID uuid.UUID, input ServiceInfoInput) (*Notice, error) {
	if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}

	var notice *Notice
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var (
			vehicle model.VehicleInfo
			save    func() error
		)
		unit := input.OdometerUnit
		if unit == "" {
			unit = model.OdometerKilometers
		}
		switch entity {
		case model.EntityInspection:
			card, err := tx.Inspections.GetByID(ctx, cardID)
			if err != nil {
				return notFound(err)
			}
			vehicle = card.Vehicle
			save = func() error {
				card.Odometer = input.Odometer
				card.OdometerUnit = unit
				return tx.Inspections.Save(ctx, card)
			}
		case model.EntityRepair:
			card, err := tx.Repairs.GetByID(ctx, cardID)
			if err != nil {
				return notFound(err)
			}
			vehicle = card.Vehicle
			save = func() error {
				card.Odometer = input.Odometer
				card.OdometerUnit = unit
				return tx.Repairs.Save(ctx, card)
			}
		default:
			return ErrInvalidInput
		}

		switch vehicle.Source {
		case model.VehicleSourceCustomer:
			if vehicle.RegisteredVehicleID == nil {
				notice = &Notice{Type: NoticeInfo, Message: msgNoRegisteredVehicle}
				return nil
			}
			if _, err := s.addServiceHistory(ctx, tx, *vehicle.RegisteredVehicleID, input); err != nil {
				return err
			}
		case model.VehicleSourceFleet:
			if vehicle.FleetVehicleID == nil {
				notice = &Notice{Type: NoticeInfo, Message: msgNoFleetVehicle}
				return nil
			}
			if input.Odometer <= 0 {
				return validationf("%s", msgOdometerPositive)
			}
			date := s.today()
			if input.ServiceDate != nil {
				date = *input.ServiceDate
			}
			if err := tx.Vehicles.AddFleetOdometer(ctx, &model.FleetOdometerLog{
				FleetVehicleID: *vehicle.FleetVehicleID,
				Date:           model.NewDate(date),
				Value:          input.Odometer,
				Unit:           unit,
			}); err != nil {
				return err
			}
		default:
			notice = warning(msgRegisterFirst)
			return nil
		}

		if err := save(); err != nil {
			return err
		}
		notice = success(msgServiceInfoUpdated)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return notice, nil
}

// registerVehicle creates a registry entry for customerID. The registration
// number must be unused.
func registerVehicle(ctx context.Context, tx *repository.Repositories, customerID uuid.UUID, info model.VehicleInfo) (*model.RegisteredVehicle, error) {
	info.RegistrationNo = strings.TrimSpace(info.RegistrationNo)
	info.VINNo = strings.TrimSpace(info.VINNo)
	if info.RegistrationNo != "" {
		inUse, err := tx.Vehicles.RegistrationInUse(ctx, info.RegistrationNo, nil)
		if err != nil {
			return nil, err
		}
		if inUse {
			return nil, validationf(msgRegistrationInUse, info.RegistrationNo)
		}
	}

	brandName, modelName := "", ""
	if info.BrandID != nil {
		brand, err := tx.Catalog.GetBrand(ctx, *info.BrandID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidInput
			}
			return nil, err
		}
		brandName = brand.Name
	}
	if info.ModelID != nil {
		m, err := tx.Catalog.GetModel(ctx, *info.ModelID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidInput
			}
			return nil, err
		}
		if info.BrandID != nil && m.BrandID != *info.BrandID {
			return nil, ErrInvalidInput
		}
		modelName = m.Name
	}

	info.Source = model.VehicleSourceCustomer
	info.RegisteredVehicleID = nil
	info.FleetVehicleID = nil
	reg := &model.RegisteredVehicle{
		CustomerID:  customerID,
		Vehicle:     info,
		DisplayName: VehicleDisplayName(brandName, modelName, info.RegistrationNo),
	}
	if err := tx.Vehicles.Create(ctx, reg); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, validationf(msgRegistrationInUse, info.RegistrationNo)
		}
		return nil, err
	}
	return reg, nil
}

func VehicleDisplayName(brand, modelName, registration string) string {
	return brand + "/" + modelName + "/" + registration
}
