package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vehicle-repair-service/internal/model"
	"vehicle-repair-service/internal/service"
)

type portalBookingRequest struct {
	BrandID             *uuid.UUID             `json:"brand_id"`
	ModelID             *uuid.UUID             `json:"model_id"`
	FuelTypeID          *uuid.UUID             `json:"fuel_type_id"`
	RegistrationNo      string                 `json:"registration_no"`
	VINNo               string                 `json:"vin_no"`
	Transmission        model.TransmissionType `json:"transmission_type"`
	Source              model.VehicleSource    `json:"vehicle_from"`
	RegisteredVehicleID *uuid.UUID             `json:"register_vehicle_id"`
	BookingDate         string                 `json:"booking_date"`
	Type                model.BookingType      `json:"booking_type"`
	CustomerObservation string                 `json:"customer_observation"`
	Street              string                 `json:"street"`
	Street2             string                 `json:"street2"`
	City                string                 `json:"city"`
	Zip                 string                 `json:"zip"`
	State               string                 `json:"state"`
	SlotID              *uuid.UUID             `json:"booking_appointment_slot_id"`
}

func (h *Handler) portalBookings(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(strings.TrimSpace(c.Query("page")))

	result, err := h.bookings.ListForCustomer(c.Request.Context(), principal, page)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(result))
}

func (h *Handler) portalBooking(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	detail, err := h.bookings.GetByAccessToken(c.Request.Context(), principal, strings.TrimSpace(c.Param("token")))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(detail))
}

func (h *Handler) portalCreateBooking(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var req portalBookingRequest
	if !bindJSON(c, &req) {
		return
	}
	date, err := parseDate(req.BookingDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	booking, err := h.bookings.CreateFromPortal(c.Request.Context(), principal, service.PortalBookingInput{
		BrandID:             req.BrandID,
		ModelID:             req.ModelID,
		FuelTypeID:          req.FuelTypeID,
		RegistrationNo:      req.RegistrationNo,
		VINNo:               req.VINNo,
		Transmission:        req.Transmission,
		Source:              req.Source,
		RegisteredVehicleID: req.RegisteredVehicleID,
		BookingDate:         date,
		Type:                req.Type,
		CustomerObservation: req.CustomerObservation,
		Street:              req.Street,
		Street2:             req.Street2,
		City:                req.City,
		Zip:                 req.Zip,
		State:               req.State,
		SlotID:              req.SlotID,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(booking))
}

func (h *Handler) portalVehicles(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	vehicles, err := h.vehicles.ListForCustomer(c.Request.Context(), principal, *principal.CustomerID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"items": vehicles}))
}
