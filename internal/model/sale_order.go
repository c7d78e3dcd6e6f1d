package model

import "github.com/google/uuid"

type SaleOrderState string

const (
	SaleOrderStateDraft  SaleOrderState = "draft"
	SaleOrderStateSent   SaleOrderState = "sent"
	SaleOrderStateSale   SaleOrderState = "sale"
	SaleOrderStateCancel SaleOrderState = "cancel"
)

type SaleOrder struct {
	Base
	Number              string          `gorm:"size:32;uniqueIndex" json:"name"`
	CustomerID          *uuid.UUID      `gorm:"type:uuid" json:"partner_id"`
	State               SaleOrderState  `gorm:"size:16;not null;default:draft" json:"state"`
	InspectionJobCardID *uuid.UUID      `gorm:"type:uuid;index" json:"inspection_job_card_id"`
	RepairJobCardID     *uuid.UUID      `gorm:"type:uuid;index" json:"repair_job_card_id"`
	AmountTotal         float64         `json:"amount_total"`
	Lines               []SaleOrderLine `gorm:"foreignKey:SaleOrderID;constraint:OnDelete:CASCADE" json:"order_line,omitempty"`
}

func (SaleOrder) TableName() string {
	return "sale_orders"
}

type SaleOrderLine struct {
	Base
	SaleOrderID uuid.UUID   `gorm:"type:uuid;not null;index" json:"order_id"`
	Sequence    int         `gorm:"not null" json:"sequence"`
	DisplayType DisplayType `gorm:"size:16" json:"display_type"`
	ProductID   *uuid.UUID  `gorm:"type:uuid" json:"product_id"`
	Name        string      `gorm:"size:255;not null" json:"name"`
	Quantity    float64     `json:"product_uom_qty"`
	UnitPrice   float64     `json:"price_unit"`
	Subtotal    float64     `json:"price_subtotal"`
}

func (SaleOrderLine) TableName() string {
	return "sale_order_lines"
}
