package service

import (
	"github.com/google/uuid"

	"vehicle-repair-service/internal/model"
)

const (
	sectionInspectionCharges = "Inspection Charges"
	sectionRequiredParts     = "Required Parts"
	sectionRequiredServices  = "Required Services"
	inspectionLineName       = "Vehicle Inspection"
)

const (
	msgInspectionChargeMissing = "Kindly include the inspection charge amount."
	msgInspectionPartsMissing  = "Please add the necessary spare parts to the 'Required Vehicle Spare Parts' tab."
	msgInspectionSvcMissing    = "Please add the necessary service to the 'Required Vehicle Services' tab."
	msgRepairPartsMissing      = "Please add the necessary spare parts to the 'Vehicle Spare Parts' tab."
	msgRepairSvcMissing        = "Please add the necessary services."
	msgQuotationUpdated        = "Quotation is successfully updated"
)

// quoteBuilder numbers lines from 1 in insertion order.
type quoteBuilder struct {
	lines []model.SaleOrderLine
	free  bool
}

func (b *quoteBuilder) section(name string) {
	b.lines = append(b.lines, model.SaleOrderLine{
		Sequence:    len(b.lines) + 1,
		DisplayType: model.DisplayTypeSection,
		Name:        name,
	})
}

func (b *quoteBuilder) product(productID *uuid.UUID, name string, qty, price float64) {
	if b.free {
		price = 0
	}
	b.lines = append(b.lines, model.SaleOrderLine{
		Sequence:  len(b.lines) + 1,
		ProductID: productID,
		Name:      name,
		Quantity:  qty,
		UnitPrice: price,
		Subtotal:  qty * price,
	})
}

// BuildInspectionQuotation lays out the inspection charge and, for
// inspection and repair cards, the required parts and services. A warning
// means no lines at all.
func BuildInspectionQuotation(card *model.InspectionJobCard, inspectionProductID *uuid.UUID) ([]model.SaleOrderLine, *Notice) {
	if card.ChargeType == model.ChargeTypePaid && card.InspectionCharge == 0 && !card.UnderWarranty {
		return nil, warning(msgInspectionChargeMissing)
	}

	charge := card.InspectionCharge
	if card.ChargeType == model.ChargeTypeFree {
		charge = 0
	}
	b := &quoteBuilder{free: card.UnderWarranty}
	b.section(sectionInspectionCharges)
	b.product(inspectionProductID, inspectionLineName, 1, charge)

	if card.InspectType == model.InspectTypeInspectionAndRepair {
		if len(card.SpareParts) == 0 {
			return nil, warning(msgInspectionPartsMissing)
		}
		b.section(sectionRequiredParts)
		for _, part := range card.SpareParts {
			b.product(part.ProductID, part.Name, part.Quantity, part.UnitPrice)
		}

		if len(card.Services) == 0 {
			return nil, warning(msgInspectionSvcMissing)
		}
		b.section(sectionRequiredServices)
		for _, svc := range card.Services {
			b.product(svc.ProductID, svc.Name, 1, svc.ServiceCharge)
		}
	}
	return b.lines, nil
}

// BuildRepairQuotation adds the origin inspection charge when the card came
// from an inspection, then parts and services.
func BuildRepairQuotation(card *model.RepairJobCard, inspectionProductID *uuid.UUID) ([]model.SaleOrderLine, *Notice) {
	if len(card.SpareParts) == 0 {
		return nil, warning(msgRepairPartsMissing)
	}
	if len(card.ServiceLines) == 0 {
		return nil, warning(msgRepairSvcMissing)
	}

	b := &quoteBuilder{free: card.UnderWarranty}
	if card.InspectionJobCardID != nil {
		b.section(sectionInspectionCharges)
		b.product(inspectionProductID, inspectionLineName, 1, card.InspectionCharge)
	}
	b.section(sectionRequiredParts)
	for _, part := range card.SpareParts {
		b.product(part.ProductID, part.Name, part.Quantity, part.UnitPrice)
	}
	b.section(sectionRequiredServices)
	for _, line := range card.ServiceLines {
		b.product(line.ProductID, line.Name, 1, line.ServiceCharge)
	}
	return b.lines, nil
}

func quotationTotal(lines []model.SaleOrderLine) float64 {
	total := 0.0
	for _, l := range lines {
		total += l.Subtotal
	}
	return total
}
