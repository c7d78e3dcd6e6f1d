package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"vehicle-repair-service/internal/model"
	"vehicle-repair-service/internal/notify"
	"vehicle-repair-service/internal/repository"
)

const (
	msgChecklistIncomplete = "Please complete the checklist template"
	msgLockedDelete        = "You cannot delete the locked order."
	msgVehicleIdentity     = "Required: Vehicle, Registration No., and Model information."
)

func checklistDone(lines []model.ChecklistLine) *Notice {
	if !ChecklistComplete(lines) {
		return warning(msgChecklistIncomplete)
	}
	return nil
}

// publish delivers event after the surrounding transaction committed.
// Failures are logged and never reach the caller.
func publish(ctx context.Context, n notify.Notifier, log zerolog.Logger, event notify.Event) {
	if n == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	if err := n.Notify(ctx, event); err != nil {
		log.Warn().Err(err).Str("event", event.Type).Str("entity_id", event.EntityID.String()).Msg("notification failed")
	}
}

type saleOrderLink struct {
	customerID   *uuid.UUID
	inspectionID *uuid.UUID
	repairID     *uuid.UUID
}

func createSaleOrder(ctx context.Context, tx *repository.Repositories, link saleOrderLink, state model.SaleOrderState, lines []model.SaleOrderLine) (*model.SaleOrder, error) {
	number, err := tx.Sequences.Next(ctx, repository.SequenceSaleOrder)
	if err != nil {
		return nil, err
	}
	order := &model.SaleOrder{
		Number:              number,
		CustomerID:          link.customerID,
		State:               state,
		InspectionJobCardID: link.inspectionID,
		RepairJobCardID:     link.repairID,
		AmountTotal:         quotationTotal(lines),
		Lines:               lines,
	}
	if err := tx.SaleOrders.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func inspectionProductID(ctx context.Context, tx *repository.Repositories) (*uuid.UUID, error) {
	product, err := tx.Catalog.FirstProductOfKind(ctx, model.ProductKindInspection)
	if err != nil {
		if notFound(err) == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &product.ID, nil
}

type SparePartInput struct {
	ProductID uuid.UUID
	Quantity  float64
	UnitPrice *float64
}

type ServiceInput struct {
	ProductID     uuid.UUID
	ServiceCharge *float64
}

// sparePartLine prices a part from the catalog unless a price was given.
func sparePartLine(ctx context.Context, tx *repository.Repositories, input SparePartInput) (model.SparePartLine, error) {
	product, err := tx.Catalog.GetProduct(ctx, input.ProductID)
	if err != nil {
		if notFound(err) == ErrNotFound {
			return model.SparePartLine{}, ErrInvalidInput
		}
		return model.SparePartLine{}, err
	}
	if product.Kind != model.ProductKindPart {
		return model.SparePartLine{}, ErrInvalidInput
	}
	qty := input.Quantity
	if qty <= 0 {
		qty = 1
	}
	price := product.ListPrice
	if input.UnitPrice != nil {
		price = *input.UnitPrice
	}
	id := product.ID
	return model.SparePartLine{ProductID: &id, Name: product.Name, Quantity: qty, UnitPrice: price}, nil
}

func serviceProduct(ctx context.Context, tx *repository.Repositories, id uuid.UUID) (*model.Product, error) {
	product, err := tx.Catalog.GetProduct(ctx, id)
	if err != nil {
		if notFound(err) == ErrNotFound {
			return nil, ErrInvalidInput
		}
		return nil, err
	}
	if product.Kind != model.ProductKindService {
		return nil, ErrInvalidInput
	}
	return product, nil
}
