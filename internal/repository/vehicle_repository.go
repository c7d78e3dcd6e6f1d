package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vehicle-repair-service/internal/model"
)

type VehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

func (r *VehicleRepository) Create(ctx context.Context, vehicle *model.RegisteredVehicle) error {
	return r.db.WithContext(ctx).Create(vehicle).Error
}

func (r *VehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.RegisteredVehicle, error) {
	var vehicle model.RegisteredVehicle
	if err := r.db.WithContext(ctx).First(&vehicle, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *VehicleRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.RegisteredVehicle, error) {
	var vehicles []model.RegisteredVehicle
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at ASC").
		Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *VehicleRepository) RegistrationInUse(ctx context.Context, registration string, exclude *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&model.RegisteredVehicle{}).
		Where("LOWER(vehicle_registration_no) = ?", strings.ToLower(strings.TrimSpace(registration)))
	if exclude != nil {
		query = query.Where("id <> ?", *exclude)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *VehicleRepository) LastServiceHistory(ctx context.Context, vehicleID uuid.UUID) (*model.ServiceHistory, error) {
	var entry model.ServiceHistory
	if err := r.db.WithContext(ctx).
		Where("registered_vehicle_id = ?", vehicleID).
		Order("service_date DESC, odometer DESC").
		First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *VehicleRepository) AddServiceHistory(ctx context.Context, entry *model.ServiceHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *VehicleRepository) ListServiceHistory(ctx context.Context, vehicleID uuid.UUID) ([]model.ServiceHistory, error) {
	var entries []model.ServiceHistory
	if err := r.db.WithContext(ctx).
		Where("registered_vehicle_id = ?", vehicleID).
		Order("service_date DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *VehicleRepository) AddFleetOdometer(ctx context.Context, entry *model.FleetOdometerLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
