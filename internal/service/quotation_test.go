package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicle-repair-service/internal/model"
)

func TestBuildInspectionQuotation(t *testing.T) {
	productID := uuid.New()
	part := model.SparePartLine{Name: "Brake pad", Quantity: 2, UnitPrice: 30}
	svc := model.InspectionServiceLine{Name: "Brake service", ServiceCharge: 80}

	t.Run("paid card needs a charge", func(t *testing.T) {
		_, notice := BuildInspectionQuotation(&model.InspectionJobCard{ChargeType: model.ChargeTypePaid}, &productID)
		require.NotNil(t, notice)
		assert.Equal(t, msgInspectionChargeMissing, notice.Message)
	})

	t.Run("only inspection", func(t *testing.T) {
		lines, notice := BuildInspectionQuotation(&model.InspectionJobCard{
			ChargeType:       model.ChargeTypePaid,
			InspectType:      model.InspectTypeOnlyInspection,
			InspectionCharge: 50,
			SpareParts:       []model.SparePartLine{part},
		}, &productID)
		require.Nil(t, notice)
		require.Len(t, lines, 2)
		assert.Equal(t, model.DisplayTypeSection, lines[0].DisplayType)
		assert.Equal(t, sectionInspectionCharges, lines[0].Name)
		assert.Equal(t, &productID, lines[1].ProductID)
		assert.InDelta(t, 50, lines[1].Subtotal, 1e-9)
		assert.InDelta(t, 50, quotationTotal(lines), 1e-9)
	})

	t.Run("inspection and repair needs parts then services", func(t *testing.T) {
		card := &model.InspectionJobCard{
			ChargeType:       model.ChargeTypeFree,
			InspectType:      model.InspectTypeInspectionAndRepair,
			InspectionCharge: 50,
		}
		_, notice := BuildInspectionQuotation(card, nil)
		require.NotNil(t, notice)
		assert.Equal(t, msgInspectionPartsMissing, notice.Message)

		card.SpareParts = []model.SparePartLine{part}
		_, notice = BuildInspectionQuotation(card, nil)
		require.NotNil(t, notice)
		assert.Equal(t, msgInspectionSvcMissing, notice.Message)

		card.Services = []model.InspectionServiceLine{svc}
		lines, notice := BuildInspectionQuotation(card, nil)
		require.Nil(t, notice)
		require.Len(t, lines, 6)
		for i, l := range lines {
			assert.Equal(t, i+1, l.Sequence)
		}
		// free cards do not bill the inspection
		assert.Zero(t, lines[1].UnitPrice)
		assert.InDelta(t, 140, quotationTotal(lines), 1e-9)
	})

	t.Run("warranty zeroes every price", func(t *testing.T) {
		lines, notice := BuildInspectionQuotation(&model.InspectionJobCard{
			ChargeType:    model.ChargeTypePaid,
			InspectType:   model.InspectTypeInspectionAndRepair,
			UnderWarranty: true,
			SpareParts:    []model.SparePartLine{part},
			Services:      []model.InspectionServiceLine{svc},
		}, nil)
		require.Nil(t, notice)
		assert.Zero(t, quotationTotal(lines))
		assert.InDelta(t, 2, lines[3].Quantity, 1e-9)
	})
}

func TestBuildRepairQuotation(t *testing.T) {
	inspectionID := uuid.New()
	card := &model.RepairJobCard{InspectionCharge: 25}

	_, notice := BuildRepairQuotation(card, nil)
	require.NotNil(t, notice)
	assert.Equal(t, msgRepairPartsMissing, notice.Message)

	card.SpareParts = []model.SparePartLine{{Name: "Filter", Quantity: 1, UnitPrice: 12}}
	_, notice = BuildRepairQuotation(card, nil)
	require.NotNil(t, notice)
	assert.Equal(t, msgRepairSvcMissing, notice.Message)

	card.ServiceLines = []model.ServiceTeamLine{{Name: "Oil change", ServiceCharge: 40}}
	lines, notice := BuildRepairQuotation(card, nil)
	require.Nil(t, notice)
	require.Len(t, lines, 4)
	assert.Equal(t, sectionRequiredParts, lines[0].Name)
	assert.InDelta(t, 52, quotationTotal(lines), 1e-9)

	card.InspectionJobCardID = &inspectionID
	lines, _ = BuildRepairQuotation(card, nil)
	require.Len(t, lines, 6)
	assert.Equal(t, sectionInspectionCharges, lines[0].Name)
	assert.InDelta(t, 77, quotationTotal(lines), 1e-9)
}
