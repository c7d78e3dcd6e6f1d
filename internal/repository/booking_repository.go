package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vehicle-repair-service/internal/model"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type BookingFilter struct {
	Stages     []model.BookingStage
	Sources    []model.BookingSource
	CustomerID *uuid.UUID
	DateFrom   *datatypes.Date
	DateTo     *datatypes.Date
	Limit      int
	Offset     int
}

func (r *BookingRepository) List(ctx context.Context, filter BookingFilter) ([]model.Booking, error) {
	query := r.filtered(ctx, filter)
	query = applyPaging(query, filter.Limit, filter.Offset)

	var bookings []model.Booking
	if err := query.
		Order("number DESC").
		Preload("Slot").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingRepository) Count(ctx context.Context, filter BookingFilter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *BookingRepository) filtered(ctx context.Context, filter BookingFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&model.Booking{})
	if len(filter.Stages) > 0 {
		query = query.Where("stage IN ?", filter.Stages)
	}
	if len(filter.Sources) > 0 {
		query = query.Where("booking_source IN ?", filter.Sources)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.DateFrom != nil {
		query = query.Where("booking_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("booking_date <= ?", *filter.DateTo)
	}
	return query
}

// Tokens returns the access tokens matching filter in list order.
func (r *BookingRepository) Tokens(ctx context.Context, filter BookingFilter) ([]string, error) {
	var tokens []string
	if err := r.filtered(ctx, filter).
		Order("number DESC").
		Pluck("access_token", &tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var booking model.Booking
	if err := r.db.WithContext(ctx).
		Preload("Slot").
		Preload("Items").
		Preload("Items.Product").
		First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) GetByAccessToken(ctx context.Context, token string) (*model.Booking, error) {
	var booking model.Booking
	if err := r.db.WithContext(ctx).
		Preload("Slot").
		Preload("Items").
		Preload("Items.Product").
		Where("access_token = ?", token).
		First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

// Update saves the booking's own columns and replaces its requested items.
func (r *BookingRepository) Update(ctx context.Context, booking *model.Booking, items []model.BookingItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(booking).Error; err != nil {
			return err
		}
		if items == nil {
			return nil
		}
		if err := tx.Where("booking_id = ?", booking.ID).Delete(&model.BookingItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ID = uuid.Nil
			items[i].BookingID = booking.ID
		}
		if len(items) > 0 {
			if err := tx.Omit("Product").Create(&items).Error; err != nil {
				return err
			}
		}
		booking.Items = items
		return nil
	})
}

func (r *BookingRepository) UpdateFields(ctx context.Context, id uuid.UUID, data map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("id = ?", id).
		Updates(data).Error
}

// CountSlotConflicts counts other bookings holding slotID on date.
func (r *BookingRepository) CountSlotConflicts(ctx context.Context, bookingID, slotID uuid.UUID, date datatypes.Date) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("slot_id = ? AND booking_date = ? AND id <> ?", slotID, date, bookingID).
		Where("stage NOT IN ?", []model.BookingStage{model.BookingStageDraft, model.BookingStageCancel}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *BookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("booking_id = ?", id).Delete(&model.BookingItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Booking{}, "id = ?", id).Error
	})
}
