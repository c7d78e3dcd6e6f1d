package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vehicle-repair-service/internal/model"
	"vehicle-repair-service/internal/repository"
)

type BookingPage struct {
	Bookings []model.Booking `json:"bookings"`
	Page     int             `json:"page"`
	Pages    int             `json:"pages"`
	Total    int64           `json:"total"`
}

type BookingDetail struct {
	Booking   *model.Booking `json:"booking"`
	PrevToken string         `json:"prev_token,omitempty"`
	NextToken string         `json:"next_token,omitempty"`
}

// PortalBookingInput is what a customer submits from the website form.
type PortalBookingInput struct {
	BrandID             *uuid.UUID
	ModelID             *uuid.UUID
	FuelTypeID          *uuid.UUID
	RegistrationNo      string
	VINNo               string
	Transmission        model.TransmissionType
	Source              model.VehicleSource
	RegisteredVehicleID *uuid.UUID
	BookingDate         *time.Time
	Type                model.BookingType
	CustomerObservation string
	Street              string
	Street2             string
	City                string
	Zip                 string
	State               string
	SlotID              *uuid.UUID
}

func customerOf(principal model.Principal) (uuid.UUID, error) {
	if !principal.IsCustomer() || principal.CustomerID == nil {
		return uuid.Nil, ErrPermissionDenied
	}
	return *principal.CustomerID, nil
}

// ListForCustomer pages through the caller's website bookings, newest
// number first.
func (s *BookingService) ListForCustomer(ctx context.Context, principal model.Principal, page int) (*BookingPage, error) {
	customerID, err := customerOf(principal)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	filter := repository.BookingFilter{
		CustomerID: &customerID,
		Sources:    []model.BookingSource{model.BookingSourceWebsite},
	}
	total, err := s.repos.Bookings.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	filter.Limit = s.pageSize
	filter.Offset = (page - 1) * s.pageSize
	bookings, err := s.repos.Bookings.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	pages := int((total + int64(s.pageSize) - 1) / int64(s.pageSize))
	if pages == 0 {
		pages = 1
	}
	return &BookingPage{Bookings: bookings, Page: page, Pages: pages, Total: total}, nil
}

// GetByAccessToken returns one of the caller's bookings with the tokens of
// its neighbours in the caller's booking list.
func (s *BookingService) GetByAccessToken(ctx context.Context, principal model.Principal, token string) (*BookingDetail, error) {
	customerID, err := customerOf(principal)
	if err != nil {
		return nil, err
	}
	booking, err := s.repos.Bookings.GetByAccessToken(ctx, token)
	if err != nil {
		return nil, notFound(err)
	}
	if booking.Customer.CustomerID == nil || *booking.Customer.CustomerID != customerID {
		return nil, ErrNotFound
	}

	tokens, err := s.repos.Bookings.Tokens(ctx, repository.BookingFilter{CustomerID: &customerID})
	if err != nil {
		return nil, err
	}
	detail := &BookingDetail{Booking: booking}
	for i, t := range tokens {
		if t != token {
			continue
		}
		if i > 0 {
			detail.PrevToken = tokens[i-1]
		}
		if i < len(tokens)-1 {
			detail.NextToken = tokens[i+1]
		}
		break
	}
	return detail, nil
}

func (s *BookingService) CreateFromPortal(ctx context.Context, principal model.Principal, input PortalBookingInput) (*model.Booking, error) {
	customerID, err := customerOf(principal)
	if err != nil {
		return nil, err
	}
	if err := checkMandatoryPortalFields(input); err != nil {
		return nil, err
	}

	customer, err := s.repos.Customers.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPermissionDenied
		}
		return nil, err
	}
	snapshot := customer.Snapshot()
	snapshot.Street = strings.TrimSpace(input.Street)
	snapshot.Street2 = strings.TrimSpace(input.Street2)
	snapshot.City = strings.TrimSpace(input.City)
	snapshot.Zip = strings.TrimSpace(input.Zip)
	if input.State != "" {
		snapshot.State = strings.TrimSpace(input.State)
	}

	return s.create(ctx, BookingInput{
		BookingDate: input.BookingDate,
		Type:        input.Type,
		Vehicle: model.VehicleInfo{
			BrandID:             input.BrandID,
			ModelID:             input.ModelID,
			FuelTypeID:          input.FuelTypeID,
			RegistrationNo:      input.RegistrationNo,
			VINNo:               input.VINNo,
			Transmission:        input.Transmission,
			Source:              input.Source,
			RegisteredVehicleID: input.RegisteredVehicleID,
		},
		CustomerID:          &customerID,
		Customer:            &snapshot,
		CustomerObservation: input.CustomerObservation,
		SlotID:              input.SlotID,
	}, model.BookingSourceWebsite)
}

func checkMandatoryPortalFields(input PortalBookingInput) error {
	fields := []struct {
		label   string
		present bool
	}{
		{"Vehicle Brand", input.BrandID != nil},
		{"Vehicle Model", input.ModelID != nil},
		{"Registration No.", strings.TrimSpace(input.RegistrationNo) != ""},
		{"Fuel Type", input.FuelTypeID != nil},
		{"City", strings.TrimSpace(input.City) != ""},
	}
	for _, f := range fields {
		if !f.present {
			return validationf("Mandatory fields %s Missing", f.label)
		}
	}
	return nil
}
