package model

type ProductKind string

const (
	ProductKindPart       ProductKind = "part"
	ProductKindService    ProductKind = "service"
	ProductKindInspection ProductKind = "inspection"
)

type Product struct {
	Base
	Code      string      `gorm:"size:64;uniqueIndex" json:"code"`
	Name      string      `gorm:"size:255;not null" json:"name"`
	Kind      ProductKind `gorm:"size:16;not null;index" json:"kind"`
	ListPrice float64     `gorm:"not null;default:0" json:"list_price"`
}

func (Product) TableName() string {
	return "products"
}

// VehiclePartInfo is a catalog entry used by classic inspection templates.
type VehiclePartInfo struct {
	Base
	Name string       `gorm:"size:255;not null" json:"name"`
	Type PartCategory `gorm:"size:32;not null;index" json:"type"`
}

func (VehiclePartInfo) TableName() string {
	return "vehicle_part_infos"
}
