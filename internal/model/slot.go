package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AppointmentDay groups the bookable slots of one weekday.
type AppointmentDay struct {
	Base
	Name      string            `gorm:"size:128" json:"name"`
	DayOfWeek string            `gorm:"size:16;not null;uniqueIndex" json:"day"`
	Slots     []AppointmentSlot `gorm:"foreignKey:AppointmentID;constraint:OnDelete:CASCADE" json:"slots,omitempty"`
}

func (AppointmentDay) TableName() string {
	return "appointment_days"
}

// AppointmentSlot times are float hours in [0, 24].
type AppointmentSlot struct {
	Base
	AppointmentID uuid.UUID `gorm:"type:uuid;not null;index" json:"appointment_id"`
	Title         string    `gorm:"size:128;not null" json:"title"`
	FromTime      float64   `gorm:"not null" json:"from_time"`
	ToTime        float64   `gorm:"not null" json:"to_time"`
}

func (AppointmentSlot) TableName() string {
	return "appointment_slots"
}

func WeekdayName(d time.Weekday) string {
	return strings.ToLower(d.String())
}
