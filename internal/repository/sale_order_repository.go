package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vehicle-repair-service/internal/model"
)

type SaleOrderRepository struct {
	db *gorm.DB
}

func NewSaleOrderRepository(db *gorm.DB) *SaleOrderRepository {
	return &SaleOrderRepository{db: db}
}

func (r *SaleOrderRepository) Create(ctx context.Context, order *model.SaleOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *SaleOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.SaleOrder, error) {
	var order model.SaleOrder
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("sequence ASC") }).
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ReplaceLines drops every line of the order, writes lines and refreshes the
// order total. It never appends.
func (r *SaleOrderRepository) ReplaceLines(ctx context.Context, orderID uuid.UUID, lines []model.SaleOrderLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sale_order_id = ?", orderID).Delete(&model.SaleOrderLine{}).Error; err != nil {
			return err
		}
		total := 0.0
		for i := range lines {
			lines[i].ID = uuid.Nil
			lines[i].SaleOrderID = orderID
			total += lines[i].Subtotal
		}
		if len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return err
			}
		}
		return tx.Model(&model.SaleOrder{}).
			Where("id = ?", orderID).
			Update("amount_total", total).Error
	})
}

func (r *SaleOrderRepository) UpdateState(ctx context.Context, id uuid.UUID, state model.SaleOrderState) error {
	return r.db.WithContext(ctx).
		Model(&model.SaleOrder{}).
		Where("id = ?", id).
		Update("state", state).Error
}

func (r *SaleOrderRepository) LinkRepairCard(ctx context.Context, orderID, repairID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.SaleOrder{}).
		Where("id = ?", orderID).
		Update("repair_job_card_id", repairID).Error
}
