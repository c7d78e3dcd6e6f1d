package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"vehicle-repair-service/internal/model"
)

type SlotRepository struct {
	db *gorm.DB
}

func NewSlotRepository(db *gorm.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

func (r *SlotRepository) CreateDay(ctx context.Context, day *model.AppointmentDay) error {
	return r.db.WithContext(ctx).Create(day).Error
}

func (r *SlotRepository) ListDays(ctx context.Context) ([]model.AppointmentDay, error) {
	var days []model.AppointmentDay
	if err := r.db.WithContext(ctx).
		Preload("Slots", func(db *gorm.DB) *gorm.DB { return db.Order("from_time ASC") }).
		Order("day_of_week ASC").
		Find(&days).Error; err != nil {
		return nil, err
	}
	return days, nil
}

// DayByWeekday returns gorm.ErrRecordNotFound when nothing is configured for
// the weekday.
func (r *SlotRepository) DayByWeekday(ctx context.Context, weekday string) (*model.AppointmentDay, error) {
	var day model.AppointmentDay
	if err := r.db.WithContext(ctx).
		Preload("Slots", func(db *gorm.DB) *gorm.DB { return db.Order("from_time ASC") }).
		Where("day_of_week = ?", weekday).
		First(&day).Error; err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *SlotRepository) GetSlot(ctx context.Context, id uuid.UUID) (*model.AppointmentSlot, error) {
	var slot model.AppointmentSlot
	if err := r.db.WithContext(ctx).First(&slot, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *SlotRepository) AllSlots(ctx context.Context) ([]model.AppointmentSlot, error) {
	var slots []model.AppointmentSlot
	if err := r.db.WithContext(ctx).Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *SlotRepository) AddSlot(ctx context.Context, slot *model.AppointmentSlot) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

// BookedSlotIDs lists slots held on date by bookings outside draft and
// cancel.
func (r *SlotRepository) BookedSlotIDs(ctx context.Context, date datatypes.Date) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("booking_date = ? AND slot_id IS NOT NULL", date).
		Where("stage NOT IN ?", []model.BookingStage{model.BookingStageDraft, model.BookingStageCancel}).
		Pluck("slot_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
