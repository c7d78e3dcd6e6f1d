package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"vehicle-repair-service/internal/http/middleware"
	"vehicle-repair-service/internal/model"
	"vehicle-repair-service/internal/service"
)

type Services struct {
	Bookings    *service.BookingService
	Slots       *service.SlotService
	Inspections *service.InspectionService
	Repairs     *service.RepairService
	Vehicles    *service.VehicleService
	Catalog     *service.CatalogService
	Templates   *service.TemplateService
}

type Handler struct {
	bookings    *service.BookingService
	slots       *service.SlotService
	inspections *service.InspectionService
	repairs     *service.RepairService
	vehicles    *service.VehicleService
	catalog     *service.CatalogService
	templates   *service.TemplateService
	log         zerolog.Logger
}

func NewHandler(services Services, log zerolog.Logger) *Handler {
	return &Handler{
		bookings:    services.Bookings,
		slots:       services.Slots,
		inspections: services.Inspections,
		repairs:     services.Repairs,
		vehicles:    services.Vehicles,
		catalog:     services.Catalog,
		templates:   services.Templates,
		log:         log,
	}
}

func (h *Handler) principal(c *gin.Context) (model.Principal, bool) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return model.Principal{}, false
	}
	return principal, true
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(fmt.Sprintf("invalid %s", name)))
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return false
	}
	return true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, errorResponse(verr.Message))
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, errorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrInvalidStatus):
		c.JSON(http.StatusConflict, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

// actionRequest is the body of every workflow endpoint.
type actionRequest struct {
	Action string `json:"action" binding:"required"`
}

type checklistLineRequest struct {
	Checked bool `json:"checked"`
}

type templateRequest struct {
	TemplateID *uuid.UUID `json:"template_id"`
}

type sparePartRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  float64   `json:"quantity"`
	UnitPrice *float64  `json:"unit_price"`
}

func (r sparePartRequest) input() service.SparePartInput {
	return service.SparePartInput{ProductID: r.ProductID, Quantity: r.Quantity, UnitPrice: r.UnitPrice}
}

type serviceInfoRequest struct {
	Odometer     float64            `json:"odometer"`
	OdometerUnit model.OdometerUnit `json:"odometer_unit"`
	ServiceDate  string             `json:"service_date"`
	Note         string             `json:"note"`
}

func (r serviceInfoRequest) input() (service.ServiceInfoInput, error) {
	date, err := parseDate(r.ServiceDate)
	if err != nil {
		return service.ServiceInfoInput{}, err
	}
	return service.ServiceInfoInput{
		Odometer:     r.Odometer,
		OdometerUnit: r.OdometerUnit,
		ServiceDate:  date,
		Note:         r.Note,
	}, nil
}

// cardView carries a record with the workflow actions available from its
// current stage.
type cardView struct {
	Record  interface{} `json:"record"`
	Actions []string    `json:"actions"`
}

func parseDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	ts, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return &ts, nil
}

func parsePaging(c *gin.Context) (limit, offset int) {
	if v, err := strconv.Atoi(strings.TrimSpace(c.Query("limit"))); err == nil {
		limit = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(c.Query("offset"))); err == nil {
		offset = v
	}
	return limit, offset
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func csvQuery[T ~string](c *gin.Context, key string) []T {
	var out []T
	for _, v := range splitCSV(c.Query(key)) {
		out = append(out, T(strings.ToLower(v)))
	}
	return out
}

type responseEnvelope struct {
	Data   interface{}     `json:"data"`
	Notice *service.Notice `json:"notice,omitempty"`
}

func successResponse(data interface{}) responseEnvelope {
	return responseEnvelope{Data: data}
}

func noticeResponse(data interface{}, notice *service.Notice) responseEnvelope {
	return responseEnvelope{Data: data, Notice: notice}
}

func errorResponse(msg string) gin.H {
	return gin.H{"error": msg}
}
