package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vehicle-repair-service/internal/model"
	"vehicle-repair-service/internal/service"
)

func (h *Handler) listBrands(c *gin.Context) {
	brands, err := h.catalog.Brands(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"items": brands}))
}

// listModels answers the brand dropdown on the booking forms.
func (h *Handler) listModels(c *gin.Context) {
	brandID, ok := pathID(c, "id")
	if !ok {
		return
	}

	models, err := h.catalog.Models(c.Request.Context(), brandID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"items": models}))
}

func (h *Handler) listFuelTypes(c *gin.Context) {
	fuels, err := h.catalog.FuelTypes(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"items": fuels}))
}

func (h *Handler) listProducts(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	limit, offset := parsePaging(c)

	products, err := h.catalog.Products(c.Request.Context(), principal, csvQuery[model.ProductKind](c, "kind"), limit, offset)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"items": products}))
}

func (h *Handler) listPartInfos(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	infos, err := h.catalog.PartInfos(c.Request.Context(), principal, model.PartCategory(c.Query("category")))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"items": infos}))
}

func (h *Handler) createPartInfo(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var req struct {
		Name     string             `json:"name" binding:"required"`
		Category model.PartCategory `json:"vehicle_part_type"`
	}
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.catalog.CreatePartInfo(c.Request.Context(), principal, req.Name, req.Category)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(info))
}

func (h *Handler) listChecklistTemplates(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	templates, err := h.templates.Checklists(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"items": templates}))
}

func (h *Handler) getChecklistTemplate(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	tpl, err := h.templates.Checklist(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(tpl))
}

func (h *Handler) createChecklistTemplate(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var req model.ChecklistTemplate
	if !bindJSON(c, &req) {
		return
	}

	tpl, err := h.templates.CreateChecklist(c.Request.Context(), principal, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(tpl))
}

func (h *Handler) listInspectionTemplates(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	templates, err := h.templates.InspectionTemplates(c.Request.Context(), principal, model.ReportType(c.Query("report_type")))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"items": templates}))
}

func (h *Handler) getInspectionTemplate(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	tpl, err := h.templates.InspectionTemplate(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(tpl))
}

func (h *Handler) createInspectionTemplate(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var req model.InspectionTemplate
	if !bindJSON(c, &req) {
		return
	}

	tpl, err := h.templates.CreateInspectionTemplate(c.Request.Context(), principal, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(tpl))
}

// bookingDay lists the slots of the weekday of ?date and the ones already
// taken on that date.
func (h *Handler) bookingDay(c *gin.Context) {
	date, err := parseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}
	if date == nil {
		now := time.Now()
		date = &now
	}

	day, err := h.slots.BookingDay(c.Request.Context(), *date)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(day))
}

func (h *Handler) listAppointmentDays(c *gin.Context) {
	days, err := h.slots.ListDays(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"items": days}))
}

type slotRequest struct {
	Title    string  `json:"title"`
	FromTime float64 `json:"from_time"`
	ToTime   float64 `json:"to_time"`
}

func (r slotRequest) input() service.SlotInput {
	return service.SlotInput{Title: r.Title, FromTime: r.FromTime, ToTime: r.ToTime}
}

func (h *Handler) createAppointmentDay(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var req struct {
		Name      string        `json:"name" binding:"required"`
		DayOfWeek string        `json:"day" binding:"required"`
		Slots     []slotRequest `json:"slots"`
	}
	if !bindJSON(c, &req) {
		return
	}

	input := service.AppointmentDayInput{Name: req.Name, DayOfWeek: req.DayOfWeek}
	for _, s := range req.Slots {
		input.Slots = append(input.Slots, s.input())
	}
	day, err := h.slots.CreateDay(c.Request.Context(), principal, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(day))
}

func (h *Handler) addAppointmentSlot(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req slotRequest
	if !bindJSON(c, &req) {
		return
	}

	slot, err := h.slots.AddSlot(c.Request.Context(), principal, id, req.input())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(slot))
}

type vehicleRequest struct {
	CustomerID uuid.UUID         `json:"customer_id" binding:"required"`
	Vehicle    model.VehicleInfo `json:"vehicle"`
}

func (h *Handler) registerVehicle(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var req vehicleRequest
	if !bindJSON(c, &req) {
		return
	}

	reg, err := h.vehicles.Register(c.Request.Context(), principal, service.VehicleInput{CustomerID: req.CustomerID, Vehicle: req.Vehicle})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(reg))
}

func (h *Handler) customerVehicles(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	vehicles, err := h.vehicles.ListForCustomer(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"items": vehicles}))
}

func (h *Handler) getVehicle(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	reg, err := h.vehicles.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(reg))
}

func (h *Handler) vehicleHistory(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	entries, err := h.vehicles.ServiceHistory(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"items": entries}))
}

func (h *Handler) addVehicleHistory(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req serviceInfoRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := req.input()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	entry, err := h.vehicles.AddServiceHistory(c.Request.Context(), principal, id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(entry))
}

func (h *Handler) updateServiceInfo(c *gin.Context, entity model.EntityType) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req serviceInfoRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := req.input()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	notice, err := h.vehicles.UpdateServiceInfo(c.Request.Context(), principal, entity, id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, noticeResponse(nil, notice))
}
