package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicle-repair-service/internal/db/testdb"
	"vehicle-repair-service/internal/model"
	"vehicle-repair-service/internal/repository"
)

func TestSequenceNext(t *testing.T) {
	ctx := context.Background()
	repos := repository.New(testdb.New(t))

	for i := 1; i <= 3; i++ {
		number, err := repos.Sequences.Next(ctx, repository.SequenceBooking)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("BK/%05d", i), number)
	}

	number, err := repos.Sequences.Next(ctx, repository.SequenceSaleOrder)
	require.NoError(t, err)
	assert.Equal(t, "SO/00001", number, "each code counts on its own")

	_, err = repos.Sequences.Next(ctx, "purchase.order")
	assert.Error(t, err)
}

func TestSequenceInsideRolledBackTransaction(t *testing.T) {
	ctx := context.Background()
	repos := repository.New(testdb.New(t))

	sentinel := fmt.Errorf("abort")
	err := repos.Transaction(ctx, func(tx *repository.Repositories) error {
		_, err := tx.Sequences.Next(ctx, repository.SequenceRepair)
		require.NoError(t, err)
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	number, err := repos.Sequences.Next(ctx, repository.SequenceRepair)
	require.NoError(t, err)
	assert.Equal(t, "RJC/00001", number)
}

func TestCountSlotConflicts(t *testing.T) {
	ctx := context.Background()
	repos := repository.New(testdb.New(t))

	day := &model.AppointmentDay{
		Name:      "Friday",
		DayOfWeek: "friday",
		Slots:     []model.AppointmentSlot{{Title: "09:00 - 10:00", FromTime: 9, ToTime: 10}},
	}
	require.NoError(t, repos.Slots.CreateDay(ctx, day))
	slotID := day.Slots[0].ID
	date := model.NewDate(time.Date(2030, time.January, 11, 15, 0, 0, 0, time.UTC))

	create := func(n int, stage model.BookingStage) *model.Booking {
		b := &model.Booking{
			Number:      fmt.Sprintf("BK/%05d", n),
			AccessToken: uuid.NewString(),
			BookingDate: date,
			Stage:       stage,
			SlotID:      &slotID,
		}
		require.NoError(t, repos.Bookings.Create(ctx, b))
		return b
	}
	draft := create(1, model.BookingStageDraft)
	create(2, model.BookingStageCancel)

	count, err := repos.Bookings.CountSlotConflicts(ctx, draft.ID, slotID, date)
	require.NoError(t, err)
	assert.Zero(t, count, "drafts and cancelled bookings do not hold the slot")

	held := create(3, model.BookingStageVehicleRepair)
	count, err = repos.Bookings.CountSlotConflicts(ctx, draft.ID, slotID, date)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repos.Bookings.CountSlotConflicts(ctx, held.ID, slotID, date)
	require.NoError(t, err)
	assert.Zero(t, count, "a booking never conflicts with itself")

	count, err = repos.Bookings.CountSlotConflicts(ctx, draft.ID, slotID, model.NewDate(time.Date(2030, time.January, 18, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRegistrationInUseIgnoresCase(t *testing.T) {
	ctx := context.Background()
	repos := repository.New(testdb.New(t))

	customer := &model.Customer{Name: "Ola Berg"}
	require.NoError(t, repos.Customers.Create(ctx, customer))
	reg := &model.RegisteredVehicle{
		CustomerID: customer.ID,
		Vehicle:    model.VehicleInfo{RegistrationNo: "AB12 CDE", Source: model.VehicleSourceCustomer},
	}
	require.NoError(t, repos.Vehicles.Create(ctx, reg))

	inUse, err := repos.Vehicles.RegistrationInUse(ctx, " ab12 cde ", nil)
	require.NoError(t, err)
	assert.True(t, inUse)

	inUse, err = repos.Vehicles.RegistrationInUse(ctx, "AB12 CDE", &reg.ID)
	require.NoError(t, err)
	assert.False(t, inUse)
}

func TestSaleOrderReplaceLines(t *testing.T) {
	ctx := context.Background()
	repos := repository.New(testdb.New(t))

	order := &model.SaleOrder{
		Number: "SO/00001",
		State:  model.SaleOrderStateDraft,
		Lines: []model.SaleOrderLine{
			{Sequence: 1, Name: "Old line", Quantity: 1, UnitPrice: 10, Subtotal: 10},
		},
		AmountTotal: 10,
	}
	require.NoError(t, repos.SaleOrders.Create(ctx, order))

	require.NoError(t, repos.SaleOrders.ReplaceLines(ctx, order.ID, []model.SaleOrderLine{
		{Sequence: 1, DisplayType: model.DisplayTypeSection, Name: "Required Parts"},
		{Sequence: 2, Name: "Brake pads", Quantity: 2, UnitPrice: 40, Subtotal: 80},
	}))

	stored, err := repos.SaleOrders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Lines, 2)
	assert.Equal(t, "Required Parts", stored.Lines[0].Name)
	assert.Equal(t, 80.0, stored.AmountTotal)

	require.NoError(t, repos.SaleOrders.UpdateState(ctx, order.ID, model.SaleOrderStateSent))
	stored, err = repos.SaleOrders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SaleOrderStateSent, stored.State)
}
