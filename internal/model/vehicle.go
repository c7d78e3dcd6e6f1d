package model

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TransmissionType string

const (
	TransmissionManual    TransmissionType = "manual"
	TransmissionAutomatic TransmissionType = "automatic"
	TransmissionCVT       TransmissionType = "cvt"
)

type VehicleSource string

const (
	VehicleSourceNew      VehicleSource = "new"
	VehicleSourceFleet    VehicleSource = "fleet_vehicle"
	VehicleSourceCustomer VehicleSource = "customer_vehicle"
)

type OdometerUnit string

const (
	OdometerKilometers OdometerUnit = "km"
	OdometerMiles      OdometerUnit = "mi"
)

// VehicleInfo is the vehicle description copied onto bookings and job cards.
type VehicleInfo struct {
	BrandID             *uuid.UUID       `gorm:"type:uuid" json:"brand_id"`
	ModelID             *uuid.UUID       `gorm:"type:uuid" json:"model_id"`
	FuelTypeID          *uuid.UUID       `gorm:"type:uuid" json:"fuel_type_id"`
	RegistrationNo      string           `gorm:"size:64" json:"registration_no"`
	VINNo               string           `gorm:"column:vin_no;size:64" json:"vin_no"`
	Transmission        TransmissionType `gorm:"size:16" json:"transmission_type,omitempty"`
	Source              VehicleSource    `gorm:"column:from;size:32;default:new" json:"vehicle_from"`
	RegisteredVehicleID *uuid.UUID       `gorm:"type:uuid" json:"register_vehicle_id"`
	FleetVehicleID      *uuid.UUID       `gorm:"type:uuid" json:"fleet_vehicle_id"`
}

// HasIdentity reports whether brand, model and registration are all known.
func (v VehicleInfo) HasIdentity() bool {
	return v.BrandID != nil && v.ModelID != nil && strings.TrimSpace(v.RegistrationNo) != ""
}

type VehicleBrand struct {
	Base
	Name   string         `gorm:"size:128;not null;uniqueIndex" json:"name"`
	Models []VehicleModel `gorm:"foreignKey:BrandID" json:"models,omitempty"`
}

func (VehicleBrand) TableName() string {
	return "vehicle_brands"
}

type VehicleModel struct {
	Base
	BrandID uuid.UUID `gorm:"type:uuid;not null;index" json:"brand_id"`
	Name    string    `gorm:"size:128;not null" json:"name"`
}

func (VehicleModel) TableName() string {
	return "vehicle_models"
}

type FuelType struct {
	Base
	Name string `gorm:"size:64;not null;uniqueIndex" json:"name"`
}

func (FuelType) TableName() string {
	return "vehicle_fuel_types"
}

type RegisteredVehicle struct {
	Base
	CustomerID  uuid.UUID   `gorm:"type:uuid;not null;index" json:"customer_id"`
	Vehicle     VehicleInfo `gorm:"embedded;embeddedPrefix:vehicle_" json:"vehicle"`
	DisplayName string      `gorm:"size:255" json:"display_name"`
}

func (RegisteredVehicle) TableName() string {
	return "registered_vehicles"
}

type ServiceHistory struct {
	Base
	RegisteredVehicleID uuid.UUID      `gorm:"type:uuid;not null;index" json:"register_vehicle_id"`
	ServiceDate         datatypes.Date `gorm:"not null" json:"service_date"`
	Odometer            float64        `gorm:"not null" json:"odometer"`
	OdometerUnit        OdometerUnit   `gorm:"size:8;default:km" json:"odometer_unit"`
	Note                string         `gorm:"type:text" json:"note"`
}

func (ServiceHistory) TableName() string {
	return "vehicle_service_history"
}

type FleetOdometerLog struct {
	Base
	FleetVehicleID uuid.UUID      `gorm:"type:uuid;not null;index" json:"fleet_vehicle_id"`
	Date           datatypes.Date `gorm:"not null" json:"date"`
	Value          float64        `gorm:"not null" json:"value"`
	Unit           OdometerUnit   `gorm:"size:8;default:km" json:"unit"`
}

func (FleetOdometerLog) TableName() string {
	return "fleet_odometer_logs"
}
