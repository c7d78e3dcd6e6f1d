package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicle-repair-service/internal/auth"
	"vehicle-repair-service/internal/db/testdb"
	"vehicle-repair-service/internal/http/middleware"
	"vehicle-repair-service/internal/model"
	"vehicle-repair-service/internal/repository"
	"vehicle-repair-service/internal/service"
)

type testServer struct {
	router   *gin.Engine
	repos    *repository.Repositories
	parser   *auth.Parser
	customer *model.Customer
}

func newTestServer(t *testing.T, opts RouterOptions) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repos := repository.New(testdb.New(t))
	log := zerolog.Nop()
	services := Services{
		Bookings:    service.NewBookingService(repos, time.UTC, 10, log),
		Slots:       service.NewSlotService(repos, time.UTC, log),
		Inspections: service.NewInspectionService(repos, nil, time.UTC, log),
		Repairs:     service.NewRepairService(repos, nil, time.UTC, log),
		Vehicles:    service.NewVehicleService(repos, time.UTC, log),
		Catalog:     service.NewCatalogService(repos),
		Templates:   service.NewTemplateService(repos),
	}
	parser := auth.NewParser("router-secret")

	customer := &model.Customer{Name: "Priya Nair", City: "Bristol"}
	require.NoError(t, repos.Customers.Create(context.Background(), customer))

	return &testServer{
		router:   NewRouter(NewHandler(services, log), middleware.Auth(parser), opts),
		repos:    repos,
		parser:   parser,
		customer: customer,
	}
}

func (s *testServer) token(t *testing.T, role model.UserRole, customerID *uuid.UUID) string {
	t.Helper()
	token, err := s.parser.Sign(&auth.Claims{UserID: uuid.New(), Role: role, CustomerID: customerID})
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, RouterOptions{})
	rec := srv.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	down := newTestServer(t, RouterOptions{Ready: func(*gin.Context) error { return errors.New("db gone") }})
	rec = down.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = srv.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "metrics are opt-in")
}

func TestPublicCatalog(t *testing.T) {
	srv := newTestServer(t, RouterOptions{})
	brand := &model.VehicleBrand{Name: "Kia"}
	require.NoError(t, srv.repos.DB().Create(brand).Error)
	require.NoError(t, srv.repos.DB().Create(&model.VehicleModel{BrandID: brand.ID, Name: "Ceed"}).Error)

	rec := srv.do(t, http.MethodGet, "/api/v1/public/brands", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode(t, rec)["data"].(map[string]interface{})["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "Kia", items[0].(map[string]interface{})["name"])

	rec = srv.do(t, http.MethodGet, "/api/v1/public/brands/"+brand.ID.String()+"/models", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["data"].(map[string]interface{})["items"], 1)

	rec = srv.do(t, http.MethodGet, "/api/v1/public/brands/not-a-uuid/models", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/public/booking-slots?date=07-01-2030", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	srv := newTestServer(t, RouterOptions{})

	rec := srv.do(t, http.MethodGet, "/api/v1/bookings", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	staff := srv.token(t, model.UserRoleServiceManager, nil)
	rec = srv.do(t, http.MethodGet, "/api/v1/portal/bookings", staff, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/bookings", staff, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBookingEndpoints(t *testing.T) {
	srv := newTestServer(t, RouterOptions{})
	staff := srv.token(t, model.UserRoleServiceManager, nil)

	rec := srv.do(t, http.MethodPost, "/api/v1/bookings", staff, map[string]interface{}{
		"booking_date": "2030-01-07",
		"customer_id":  srv.customer.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "BK/00001", created["booking_number"])
	id := created["id"].(string)

	rec = srv.do(t, http.MethodGet, "/api/v1/bookings/"+id, staff, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode(t, rec)["data"].(map[string]interface{})
	assert.ElementsMatch(t, []interface{}{"cancel", "draft_to_vehicle_inspection"}, view["actions"])

	rec = srv.do(t, http.MethodPost, "/api/v1/bookings/"+id+"/actions", staff, map[string]string{"action": "teleport"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/v1/bookings/"+id+"/actions", staff, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "action is required")

	rec = srv.do(t, http.MethodPost, "/api/v1/bookings/"+id+"/actions", staff, map[string]string{"action": "cancel"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodPut, "/api/v1/bookings/"+id, staff, map[string]interface{}{"customer_id": srv.customer.ID})
	assert.Equal(t, http.StatusConflict, rec.Code, "cancelled bookings are read only")

	technician := srv.token(t, model.UserRoleTechnician, nil)
	rec = srv.do(t, http.MethodDelete, "/api/v1/bookings/"+id, technician, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodDelete, "/api/v1/bookings/"+id, staff, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/bookings/"+id, staff, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/v1/bookings", staff, map[string]interface{}{"booking_date": "next monday"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPortalValidationIsUnprocessable(t *testing.T) {
	srv := newTestServer(t, RouterOptions{})
	customerID := srv.customer.ID
	client := srv.token(t, model.UserRoleCustomer, &customerID)

	rec := srv.do(t, http.MethodPost, "/api/v1/portal/bookings", client, map[string]interface{}{})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Mandatory fields Vehicle Brand Missing", decode(t, rec)["error"])

	rec = srv.do(t, http.MethodGet, "/api/v1/portal/bookings/unknown-token", client, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/portal/vehicles", client, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(Services{}, zerolog.Nop())

	tests := []struct {
		err    error
		status int
	}{
		{&service.ValidationError{Message: "nope"}, http.StatusUnprocessableEntity},
		{service.ErrPermissionDenied, http.StatusForbidden},
		{service.ErrInvalidInput, http.StatusBadRequest},
		{service.ErrNotFound, http.StatusNotFound},
		{service.ErrConflict, http.StatusConflict},
		{service.ErrInvalidStatus, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		h.handleError(c, tt.err)
		assert.Equal(t, tt.status, rec.Code, tt.err.Error())
	}
}
