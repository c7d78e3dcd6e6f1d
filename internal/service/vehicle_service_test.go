package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicle-repair-service/internal/model"
)

func TestVehicleRegister(t *testing.T) {
	f := newFixture(t)

	reg, err := f.vehicles.Register(f.ctx, f.client, VehicleInput{CustomerID: f.customer.ID, Vehicle: f.vehicle()})
	require.NoError(t, err)
	assert.Equal(t, "Skoda/Octavia/YK19 ZTD", reg.DisplayName)
	assert.Equal(t, model.VehicleSourceCustomer, reg.Vehicle.Source)

	_, err = f.vehicles.Register(f.ctx, f.manager, VehicleInput{CustomerID: f.customer.ID, Vehicle: f.vehicle()})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Registration YK19 ZTD is already in use. Please try a different one.", verr.Message)

	_, err = f.vehicles.Register(f.ctx, f.client, VehicleInput{CustomerID: uuid.New(), Vehicle: f.vehicle()})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = f.vehicles.Register(f.ctx, f.manager, VehicleInput{CustomerID: uuid.New(), Vehicle: f.vehicle()})
	assert.ErrorIs(t, err, ErrInvalidInput)

	mismatched := f.vehicle()
	mismatched.RegistrationNo = "LS70 ABC"
	otherBrand := &model.VehicleBrand{Name: "Volvo"}
	require.NoError(t, f.repos.DB().Create(otherBrand).Error)
	mismatched.BrandID = &otherBrand.ID
	_, err = f.vehicles.Register(f.ctx, f.manager, VehicleInput{CustomerID: f.customer.ID, Vehicle: mismatched})
	assert.ErrorIs(t, err, ErrInvalidInput, "model of another brand")

	list, err := f.vehicles.ListForCustomer(f.ctx, f.client, f.customer.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, reg.ID, list[0].ID)

	stranger := uuid.New()
	_, err = f.vehicles.Get(f.ctx, model.Principal{UserID: uuid.New(), Role: model.UserRoleCustomer, CustomerID: &stranger}, reg.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestValidateServiceEntry(t *testing.T) {
	today := model.NewDate(fixedNow)
	last := &model.ServiceHistory{Odometer: 1200, ServiceDate: model.NewDate(fixedNow.AddDate(0, 0, 3))}

	tests := []struct {
		name     string
		odometer float64
		date     time.Time
		last     *model.ServiceHistory
		want     string
	}{
		{name: "zero odometer", odometer: 0, date: fixedNow, want: msgOdometerPositive},
		{name: "not above last", odometer: 1200, date: fixedNow.AddDate(0, 0, 5), last: last, want: fmt.Sprintf(msgOdometerBelowLast, 1200.0)},
		{name: "before last date", odometer: 1300, date: fixedNow.AddDate(0, 0, 1), last: last, want: "Service date cannot be earlier than the last service date (2030-01-10)."},
		{name: "in the past", odometer: 10, date: fixedNow.AddDate(0, 0, -1), want: msgServiceDatePast},
		{name: "today", odometer: 10, date: fixedNow},
		{name: "after last", odometer: 1300, date: fixedNow.AddDate(0, 0, 3), last: last},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateServiceEntry(tt.odometer, model.NewDate(tt.date), tt.last, today)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.want, verr.Message)
		})
	}
}

func TestVehicleServiceHistory(t *testing.T) {
	f := newFixture(t)
	reg, err := f.vehicles.Register(f.ctx, f.manager, VehicleInput{CustomerID: f.customer.ID, Vehicle: f.vehicle()})
	require.NoError(t, err)

	entry, err := f.vehicles.AddServiceHistory(f.ctx, f.manager, reg.ID, ServiceInfoInput{Odometer: 5000, Note: "  annual  "})
	require.NoError(t, err)
	assert.Equal(t, "annual", entry.Note)
	assert.Equal(t, model.OdometerKilometers, entry.OdometerUnit)
	assert.True(t, model.SameDate(model.NewDate(fixedNow), entry.ServiceDate))

	_, err = f.vehicles.AddServiceHistory(f.ctx, f.manager, reg.ID, ServiceInfoInput{Odometer: 4000})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, fmt.Sprintf(msgOdometerBelowLast, 5000.0), verr.Message)

	_, err = f.vehicles.AddServiceHistory(f.ctx, f.client, reg.ID, ServiceInfoInput{Odometer: 6000})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = f.vehicles.AddServiceHistory(f.ctx, f.manager, uuid.New(), ServiceInfoInput{Odometer: 6000})
	assert.ErrorIs(t, err, ErrNotFound)

	history, err := f.vehicles.ServiceHistory(f.ctx, f.client, reg.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestUpdateServiceInfo(t *testing.T) {
	f := newFixture(t)

	unregistered := f.inspectionCard(t, nil)
	notice, err := f.vehicles.UpdateServiceInfo(f.ctx, f.manager, model.EntityInspection, unregistered.ID, ServiceInfoInput{Odometer: 100})
	require.NoError(t, err)
	require.NotNil(t, notice)
	assert.Equal(t, NoticeWarning, notice.Type)
	assert.Equal(t, msgRegisterFirst, notice.Message)

	reg, err := f.vehicles.Register(f.ctx, f.manager, VehicleInput{CustomerID: f.customer.ID, Vehicle: f.vehicle()})
	require.NoError(t, err)
	card := f.repairCard(t, func(card *model.RepairJobCard) { card.Vehicle = DeriveVehicleFromRegistered(reg) })

	notice, err = f.vehicles.UpdateServiceInfo(f.ctx, f.manager, model.EntityRepair, card.ID, ServiceInfoInput{Odometer: 42000, OdometerUnit: model.OdometerMiles})
	require.NoError(t, err)
	require.NotNil(t, notice)
	assert.Equal(t, NoticeSuccess, notice.Type)
	assert.Equal(t, msgServiceInfoUpdated, notice.Message)

	stored, err := f.repos.Repairs.GetByID(f.ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, 42000.0, stored.Odometer)
	assert.Equal(t, model.OdometerMiles, stored.OdometerUnit)

	history, err := f.repos.Vehicles.ListServiceHistory(f.ctx, reg.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 42000.0, history[0].Odometer)

	unlinked := f.repairCard(t, func(card *model.RepairJobCard) { card.Vehicle.Source = model.VehicleSourceCustomer })
	notice, err = f.vehicles.UpdateServiceInfo(f.ctx, f.manager, model.EntityRepair, unlinked.ID, ServiceInfoInput{Odometer: 1})
	require.NoError(t, err)
	require.NotNil(t, notice)
	assert.Equal(t, NoticeInfo, notice.Type)

	_, err = f.vehicles.UpdateServiceInfo(f.ctx, f.manager, model.EntityBooking, card.ID, ServiceInfoInput{Odometer: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
