package model

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type BookingStage string

const (
	BookingStageDraft                   BookingStage = "draft"
	BookingStageVehicleInspection       BookingStage = "vehicle_inspection"
	BookingStageVehicleRepair           BookingStage = "vehicle_repair"
	BookingStageVehicleInspectionRepair BookingStage = "vehicle_inspection_repair"
	BookingStageCancel                  BookingStage = "cancel"
)

// SlotHolding reports whether a booking in this stage claims its slot.
func (s BookingStage) SlotHolding() bool {
	return s != BookingStageDraft && s != BookingStageCancel
}

type BookingSource string

const (
	BookingSourceDirect  BookingSource = "direct"
	BookingSourceWebsite BookingSource = "website"
)

type BookingType string

const (
	BookingTypeOnlyInspection      BookingType = "only_inspection"
	BookingTypeOnlyRepair          BookingType = "only_repair"
	BookingTypeInspectionAndRepair BookingType = "inspection_and_repair"
)

type Booking struct {
	Base
	Number              string           `gorm:"size:32;uniqueIndex" json:"booking_number"`
	AccessToken         string           `gorm:"size:64;uniqueIndex" json:"access_token"`
	BookingDate         datatypes.Date   `gorm:"not null;index" json:"booking_date"`
	Source              BookingSource    `gorm:"column:booking_source;size:16;not null;default:direct" json:"booking_source"`
	Type                BookingType      `gorm:"column:booking_type;size:32;not null;default:only_inspection" json:"booking_type"`
	Stage               BookingStage     `gorm:"size:32;not null;default:draft;index" json:"booking_stages"`
	Vehicle             VehicleInfo      `gorm:"embedded;embeddedPrefix:vehicle_" json:"vehicle"`
	Customer            CustomerSnapshot `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`
	CustomerObservation string           `gorm:"type:text" json:"customer_observation"`
	AppointmentID       *uuid.UUID       `gorm:"type:uuid" json:"booking_appointment_id"`
	SlotID              *uuid.UUID       `gorm:"type:uuid;index" json:"booking_appointment_slot_id"`
	Slot                *AppointmentSlot `gorm:"foreignKey:SlotID" json:"slot,omitempty"`
	InspectionJobCardID *uuid.UUID       `gorm:"type:uuid" json:"inspection_job_card_id"`
	RepairJobCardID     *uuid.UUID       `gorm:"type:uuid" json:"repair_job_card_id"`
	EstimateCost        float64          `gorm:"default:0" json:"estimate_cost"`
	ResponsibleID       *uuid.UUID       `gorm:"type:uuid" json:"responsible_id"`
	Items               []BookingItem    `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

type BookingItemKind string

const (
	BookingItemSparePart BookingItemKind = "spare_part"
	BookingItemService   BookingItemKind = "service"
)

// BookingItem is a spare part or service the customer asked for.
type BookingItem struct {
	Base
	BookingID uuid.UUID       `gorm:"type:uuid;not null;index" json:"booking_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null" json:"product_id"`
	Kind      BookingItemKind `gorm:"size:16;not null" json:"kind"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (BookingItem) TableName() string {
	return "booking_items"
}

func (b *Booking) ItemsOfKind(kind BookingItemKind) []BookingItem {
	out := make([]BookingItem, 0, len(b.Items))
	for _, item := range b.Items {
		if item.Kind == kind {
			out = append(out, item)
		}
	}
	return out
}
