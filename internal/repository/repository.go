package repository

import (
	"context"

	"gorm.io/gorm"
)

const defaultListLimit = 200

// Repositories bundles every repository over one handle so a service can run
// a request inside a single transaction.
type Repositories struct {
	db *gorm.DB

	Customers   *CustomerRepository
	Catalog     *CatalogRepository
	Vehicles    *VehicleRepository
	Slots       *SlotRepository
	Templates   *TemplateRepository
	Bookings    *BookingRepository
	Inspections *InspectionRepository
	Repairs     *RepairRepository
	Tasks       *TaskRepository
	SaleOrders  *SaleOrderRepository
	StageLogs   *StageLogRepository
	Sequences   *SequenceRepository
}

func New(db *gorm.DB) *Repositories {
	return &Repositories{
		db:          db,
		Customers:   NewCustomerRepository(db),
		Catalog:     NewCatalogRepository(db),
		Vehicles:    NewVehicleRepository(db),
		Slots:       NewSlotRepository(db),
		Templates:   NewTemplateRepository(db),
		Bookings:    NewBookingRepository(db),
		Inspections: NewInspectionRepository(db),
		Repairs:     NewRepairRepository(db),
		Tasks:       NewTaskRepository(db),
		SaleOrders:  NewSaleOrderRepository(db),
		StageLogs:   NewStageLogRepository(db),
		Sequences:   NewSequenceRepository(db),
	}
}

// Transaction runs fn with repositories bound to one transaction. Returning
// an error rolls everything back.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

func (r *Repositories) DB() *gorm.DB {
	return r.db
}

func applyPaging(query *gorm.DB, limit, offset int) *gorm.DB {
	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		return query.Limit(limit)
	}
	return query.Limit(defaultListLimit)
}
