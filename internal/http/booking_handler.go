package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vehicle-repair-service/internal/model"
	"vehicle-repair-service/internal/service"
)

type bookingRequest struct {
	BookingDate         string                  `json:"booking_date"`
	Type                model.BookingType       `json:"booking_type"`
	Vehicle             model.VehicleInfo       `json:"vehicle"`
	CustomerID          *uuid.UUID              `json:"customer_id"`
	Customer            *model.CustomerSnapshot `json:"customer"`
	CustomerObservation string                  `json:"customer_observation"`
	SlotID              *uuid.UUID              `json:"booking_appointment_slot_id"`
	SparePartIDs        []uuid.UUID             `json:"spare_part_ids"`
	ServiceIDs          []uuid.UUID             `json:"service_ids"`
	EstimateCost        float64                 `json:"estimate_cost"`
	ResponsibleID       *uuid.UUID              `json:"responsible_id"`
}

func (r bookingRequest) input() (service.BookingInput, error) {
	date, err := parseDate(r.BookingDate)
	if err != nil {
		return service.BookingInput{}, err
	}
	return service.BookingInput{
		BookingDate:         date,
		Type:                r.Type,
		Vehicle:             r.Vehicle,
		CustomerID:          r.CustomerID,
		Customer:            r.Customer,
		CustomerObservation: r.CustomerObservation,
		SlotID:              r.SlotID,
		SparePartIDs:        r.SparePartIDs,
		ServiceIDs:          r.ServiceIDs,
		EstimateCost:        r.EstimateCost,
		ResponsibleID:       r.ResponsibleID,
	}, nil
}

func (h *Handler) listBookings(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	opts := service.BookingListOptions{
		Stages:  csvQuery[model.BookingStage](c, "stage"),
		Sources: csvQuery[model.BookingSource](c, "source"),
	}
	if raw := strings.TrimSpace(c.Query("customer_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid customer_id"))
			return
		}
		opts.CustomerID = &id
	}
	var err error
	if opts.DateFrom, err = parseDate(c.Query("date_from")); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}
	if opts.DateTo, err = parseDate(c.Query("date_to")); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}
	opts.Limit, opts.Offset = parsePaging(c)

	bookings, err := h.bookings.List(c.Request.Context(), principal, opts)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"items": bookings}))
}

func (h *Handler) getBooking(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	booking, err := h.bookings.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(cardView{Record: booking, Actions: h.bookings.Actions(booking)}))
}

func (h *Handler) createBooking(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var req bookingRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := req.input()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	booking, err := h.bookings.Create(c.Request.Context(), principal, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(booking))
}

func (h *Handler) updateBooking(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req bookingRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := req.input()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	booking, notice, err := h.bookings.Update(c.Request.Context(), principal, id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, noticeResponse(booking, notice))
}

func (h *Handler) actOnBooking(c *gin.Context) {
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

	booking, notice, err := h.bookings.Act(c.Request.Context(), principal, id, service.BookingAction(strings.TrimSpace(req.Action)))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, noticeResponse(booking, notice))
}

func (h *Handler) bookingHistory(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	logs, err := h.bookings.History(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"items": logs}))
}

func (h *Handler) deleteBooking(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.bookings.Delete(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
