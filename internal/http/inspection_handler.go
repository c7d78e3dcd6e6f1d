package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vehicle-repair-service/internal/model"
	"vehicle-repair-service/internal/service"
)

type inspectionUpdateRequest struct {
	InspectionDate      string                  `json:"inspection_date"`
	InspectType         model.InspectType       `json:"inspect_type"`
	ChargeType          model.ChargeType        `json:"inspection_charge_type"`
	InspectionCharge    float64                 `json:"inspection_charge"`
	UnderWarranty       bool                    `json:"is_vehicle_under_warranty"`
	Odometer            float64                 `json:"odometer"`
	OdometerUnit        model.OdometerUnit      `json:"odometer_unit"`
	ReviewNotes         string                  `json:"review_notes"`
	CustomerObservation string                  `json:"customer_observation"`
	ResponsibleID       *uuid.UUID              `json:"responsible_id"`
	Vehicle             *model.VehicleInfo      `json:"vehicle"`
	Customer            *model.CustomerSnapshot `json:"customer"`
}

type conditionLineRequest struct {
	Category    model.ConditionCategory `json:"category" binding:"required"`
	Name        string                  `json:"name" binding:"required"`
	VehicleSide string                  `json:"vehicle_side"`
	Condition   string                  `json:"condition"`
	Notes       string                  `json:"notes"`
}

type serviceRequest struct {
	ProductID     uuid.UUID `json:"product_id" binding:"required"`
	ServiceCharge *float64  `json:"service_charge"`
}

func (h *Handler) listInspections(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	limit, offset := parsePaging(c)

	cards, err := h.inspections.List(c.Request.Context(), principal, csvQuery[model.InspectionStage](c, "stage"), limit, offset)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"items": cards}))
}

func (h *Handler) getInspection(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	card, err := h.inspections.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(cardView{Record: card, Actions: h.inspections.Actions(card)}))
}

func (h *Handler) updateInspection(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req inspectionUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	date, err := parseDate(req.InspectionDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	card, err := h.inspections.Update(c.Request.Context(), principal, id, service.InspectionUpdateInput{
		InspectionDate:      date,
		InspectType:         req.InspectType,
		ChargeType:          req.ChargeType,
		InspectionCharge:    req.InspectionCharge,
		UnderWarranty:       req.UnderWarranty,
		Odometer:            req.Odometer,
		OdometerUnit:        req.OdometerUnit,
		ReviewNotes:         req.ReviewNotes,
		CustomerObservation: req.CustomerObservation,
		ResponsibleID:       req.ResponsibleID,
		Vehicle:             req.Vehicle,
		Customer:            req.Customer,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(card))
}

func (h *Handler) actOnInspection(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req actionRequest
	if !bindJSON(c, &req) {
		return
	}

	card, notice, err := h.inspections.Act(c.Request.Context(), principal, id, service.InspectionAction(strings.TrimSpace(req.Action)))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, noticeResponse(card, notice))
}

func (h *Handler) inspectionHistory(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	logs, err := h.inspections.History(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"items": logs}))
}

func (h *Handler) applyInspectionChecklist(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req templateRequest
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.inspections.ApplyChecklistTemplate(c.Request.Context(), principal, id, req.TemplateID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(card))
}

func (h *Handler) markInspectionChecklist(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	lineID, ok := pathID(c, "lineId")
	if !ok {
		return
	}
	var req checklistLineRequest
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.inspections.MarkChecklistLine(c.Request.Context(), principal, id, lineID, req.Checked)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(card))
}

func (h *Handler) applyInspectionTemplate(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req templateRequest
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.inspections.ApplyInspectionTemplate(c.Request.Context(), principal, id, req.TemplateID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(card))
}

func (h *Handler) setReportType(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		ReportType model.ReportType `json:"report_type" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.inspections.SetReportType(c.Request.Context(), principal, id, req.ReportType)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(card))
}

func (h *Handler) setInspectionCategories(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req model.InspectionCategories
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.inspections.SetCategories(c.Request.Context(), principal, id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(card))
}

func (h *Handler) setPartStatus(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	lineID, ok := pathID(c, "lineId")
	if !ok {
		return
	}
	var req struct {
		Status model.PartStatus `json:"status" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.inspections.SetPartStatus(c.Request.Context(), principal, id, lineID, req.Status)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(card))
}

func (h *Handler) addConditionLine(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req conditionLineRequest
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.inspections.AddConditionLine(c.Request.Context(), principal, id, service.ConditionLineInput{
		Category:    req.Category,
		Name:        req.Name,
		VehicleSide: req.VehicleSide,
		Condition:   req.Condition,
		Notes:       req.Notes,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(card))
}

func (h *Handler) addInspectionSparePart(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req sparePartRequest
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.inspections.AddSparePart(c.Request.Context(), principal, id, req.input())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(card))
}

func (h *Handler) deleteInspectionSparePart(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	lineID, ok := pathID(c, "lineId")
	if !ok {
		return
	}

	card, err := h.inspections.DeleteSparePart(c.Request.Context(), principal, id, lineID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(card))
}

func (h *Handler) addInspectionService(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req serviceRequest
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.inspections.AddService(c.Request.Context(), principal, id, service.ServiceInput{
		ProductID:     req.ProductID,
		ServiceCharge: req.ServiceCharge,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(card))
}

func (h *Handler) deleteInspectionService(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	lineID, ok := pathID(c, "lineId")
	if !ok {
		return
	}

	card, err := h.inspections.DeleteService(c.Request.Context(), principal, id, lineID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(card))
}

func (h *Handler) createInspectionQuotation(c *gin.Context) {
	h.inspectionQuote(c, h.inspections.CreateQuotation, http.StatusCreated)
}

func (h *Handler) skipInspectionQuotation(c *gin.Context) {
	h.inspectionQuote(c, h.inspections.SkipQuotation, http.StatusOK)
}

func (h *Handler) updateInspectionQuotation(c *gin.Context) {
	h.inspectionQuote(c, h.inspections.UpdateQuotation, http.StatusOK)
}

type inspectionQuoteFunc func(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.InspectionJobCard, *service.Notice, error)

func (h *Handler) inspectionQuote(c *gin.Context, fn inspectionQuoteFunc, status int) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	card, notice, err := fn(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(status, noticeResponse(card, notice))
}

func (h *Handler) createRepairFromInspection(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	card, err := h.inspections.CreateRepairJobCard(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(card))
}

func (h *Handler) createInspectionVehicleRegistration(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	card, notice, err := h.inspections.CreateVehicleRegistration(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, noticeResponse(card, notice))
}

func (h *Handler) updateInspectionServiceInfo(c *gin.Context) {
	h.updateServiceInfo(c, model.EntityInspection)
}

func (h *Handler) deleteInspection(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.inspections.Delete(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
