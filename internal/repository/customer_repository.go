package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vehicle-repair-service/internal/model"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *model.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *CustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// UpdateContact writes the snapshot's address and contact fields onto the
// customer row.
func (r *CustomerRepository) UpdateContact(ctx context.Context, id uuid.UUID, snapshot model.CustomerSnapshot) error {
	return r.db.WithContext(ctx).
		Model(&model.Customer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"street":  snapshot.Street,
			"street2": snapshot.Street2,
			"city":    snapshot.City,
			"zip":     snapshot.Zip,
			"state":   snapshot.State,
			"country": snapshot.Country,
			"phone":   snapshot.Phone,
			"email":   snapshot.Email,
		}).Error
}
