package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vehiclecare/database/repository"
	"vehiclecare/middleware"
	"vehiclecare/models"
	"vehiclecare/services/booking"
	"vehiclecare/services/station"
	"vehiclecare/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockBookingService struct {
	mock.Mock
}

func (m *mockBookingService) SubmitBooking(ctx context.Context, p models.Principal, in models.BookingInput) (*models.Booking, error) {
	args := m.Called(ctx, p, in)
	b, _ := args.Get(0).(*models.Booking)
	return b, args.Error(1)
}

func (m *mockBookingService) DecideBooking(ctx context.Context, p models.Principal, id string, approved bool) (*models.Booking, error) {
	args := m.Called(ctx, p, id, approved)
	b, _ := args.Get(0).(*models.Booking)
	return b, args.Error(1)
}

func (m *mockBookingService) AdvanceBooking(ctx context.Context, p models.Principal, id string, from models.BookingStatus) (*models.Booking, error) {
	args := m.Called(ctx, p, id, from)
	b, _ := args.Get(0).(*models.Booking)
	return b, args.Error(1)
}

func (m *mockBookingService) GetBooking(ctx context.Context, p models.Principal, id string) (*models.Booking, error) {
	args := m.Called(ctx, p, id)
	b, _ := args.Get(0).(*models.Booking)
	return b, args.Error(1)
}

func (m *mockBookingService) ListUnhandled(ctx context.Context, p models.Principal) ([]models.Booking, error) {
	args := m.Called(ctx, p)
	b, _ := args.Get(0).([]models.Booking)
	return b, args.Error(1)
}

func (m *mockBookingService) ListClientBookings(ctx context.Context, p models.Principal) ([]models.Booking, error) {
	args := m.Called(ctx, p)
	b, _ := args.Get(0).([]models.Booking)
	return b, args.Error(1)
}

func (m *mockBookingService) History(ctx context.Context, p models.Principal, id string) ([]models.BookingEvent, error) {
	args := m.Called(ctx, p, id)
	e, _ := args.Get(0).([]models.BookingEvent)
	return e, args.Error(1)
}

var (
	testClient = models.Principal{ID: "client-1", Role: models.RoleClient}
	testVendor = models.Principal{ID: "vendor-1", Role: models.RoleVendor}
)

// newRouter authenticates every request as p; a zero principal leaves it anonymous.
func newRouter(p models.Principal) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if p.ID != "" {
			middleware.SetPrincipal(c, p)
		}
		c.Next()
	})
	return r
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) utils.ErrorResponse {
	t.Helper()
	var resp utils.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestWriteServiceErrorMapsKinds(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{booking.NewError(booking.ErrValidation, "bad"), http.StatusBadRequest},
		{booking.NewError(booking.ErrUnrecognizedTransition, "Unknown status"), http.StatusBadRequest},
		{booking.NewError(booking.ErrForbidden, "no"), http.StatusForbidden},
		{booking.NewError(booking.ErrNotFound, "gone"), http.StatusNotFound},
		{booking.NewError(booking.ErrDuplicateRequest, "dup"), http.StatusConflict},
		{booking.NewError(booking.ErrInvalidTransition, "late"), http.StatusConflict},
		{booking.NewError(booking.ErrStationClosed, "closed"), http.StatusUnprocessableEntity},
		{booking.NewError(booking.ErrStoreUnavailable, "down"), http.StatusServiceUnavailable},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		r := gin.New()
		r.GET("/", func(c *gin.Context) { writeServiceError(c, tc.err) })
		w := doJSON(r, http.MethodGet, "/", nil)
		assert.Equal(t, tc.code, w.Code, tc.err.Error())
	}
}

func TestSubmitBookingHandler(t *testing.T) {
	svc := &mockBookingService{}
	h := NewBookingHandler(svc)
	r := newRouter(testClient)
	r.POST("/api/bookings", h.SubmitBookingHandler)

	input := validBookingInput()
	created := &models.Booking{ID: "b-1", Status: models.StatusRequested}
	svc.On("SubmitBooking", mock.Anything, testClient, input).Return(created, nil).Once()

	w := doJSON(r, http.MethodPost, "/api/bookings", input)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Booking models.Booking `json:"booking"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "b-1", resp.Booking.ID)
	assert.Equal(t, models.StatusRequested, resp.Booking.Status)
	svc.AssertExpectations(t)
}

func TestSubmitBookingHandlerDuplicate(t *testing.T) {
	svc := &mockBookingService{}
	r := newRouter(testClient)
	r.POST("/api/bookings", NewBookingHandler(svc).SubmitBookingHandler)

	svc.On("SubmitBooking", mock.Anything, testClient, mock.Anything).
		Return(nil, booking.NewError(booking.ErrDuplicateRequest, "booking request already sent")).Once()

	w := doJSON(r, http.MethodPost, "/api/bookings", validBookingInput())
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "booking request already sent", decodeError(t, w).Message)
}

func validBookingInput() models.BookingInput {
	return models.BookingInput{
		VehicleType:  "Car",
		VehicleMake:  "Toyota",
		VehicleModel: "Axio",
		VehicleNo:    "KDA 123A",
		ContactNo:    "0712345678",
		ServiceTypes: []string{"Wash"},
		StationID:    "station-1",
	}
}

func TestSubmitBookingHandlerChecksBindingTags(t *testing.T) {
	svc := &mockBookingService{}
	r := newRouter(testClient)
	r.POST("/api/bookings", NewBookingHandler(svc).SubmitBookingHandler)

	input := validBookingInput()
	input.VehicleMake = ""
	input.ServiceTypes = []string{}
	w := doJSON(r, http.MethodPost, "/api/bookings", input)
	require.Equal(t, http.StatusBadRequest, w.Code)
	msg := decodeError(t, w).Message
	assert.Contains(t, msg, "vehicleMake is required")
	assert.Contains(t, msg, "serviceType needs at least 1 entry")

	input = validBookingInput()
	input.ServiceTypes = []string{"Wash", ""}
	w = doJSON(r, http.MethodPost, "/api/bookings", input)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Message, "serviceType[1] is required")

	svc.AssertNotCalled(t, "SubmitBooking", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandlersRejectAnonymousCalls(t *testing.T) {
	svc := &mockBookingService{}
	r := newRouter(models.Principal{})
	r.GET("/api/bookings/mine", NewBookingHandler(svc).GetMyBookingsHandler)

	w := doJSON(r, http.MethodGet, "/api/bookings/mine", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "ListClientBookings", mock.Anything, mock.Anything)
}

func TestDecideBookingHandler(t *testing.T) {
	svc := &mockBookingService{}
	r := newRouter(testVendor)
	r.POST("/api/vendor/bookings/:id/decision", NewBookingHandler(svc).DecideBookingHandler)

	t.Run("missing flag", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/api/vendor/bookings/b-1/decision", map[string]any{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "approved is required", decodeError(t, w).Message)
	})

	t.Run("approve", func(t *testing.T) {
		svc.On("DecideBooking", mock.Anything, testVendor, "b-1", true).
			Return(&models.Booking{ID: "b-1", Status: models.StatusWaiting, IsApproved: true}, nil).Once()

		w := doJSON(r, http.MethodPost, "/api/vendor/bookings/b-1/decision", map[string]any{"approved": true})
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			IsApproved bool           `json:"isApproved"`
			Booking    models.Booking `json:"booking"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.IsApproved)
		assert.Equal(t, models.StatusWaiting, resp.Booking.Status)
	})

	t.Run("deny is a valid flag", func(t *testing.T) {
		svc.On("DecideBooking", mock.Anything, testVendor, "b-3", false).
			Return(&models.Booking{ID: "b-3", Status: models.StatusRequested}, nil).Once()

		w := doJSON(r, http.MethodPost, "/api/vendor/bookings/b-3/decision", map[string]any{"approved": false})
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			IsApproved bool `json:"isApproved"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.IsApproved)
	})

	t.Run("already handled", func(t *testing.T) {
		svc.On("DecideBooking", mock.Anything, testVendor, "b-2", false).
			Return(nil, booking.NewError(booking.ErrInvalidTransition, "booking request already handled")).Once()

		w := doJSON(r, http.MethodPost, "/api/vendor/bookings/b-2/decision", map[string]any{"approved": false})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	svc.AssertExpectations(t)
}

func TestAdvanceBookingHandler(t *testing.T) {
	svc := &mockBookingService{}
	r := newRouter(testVendor)
	r.POST("/api/vendor/bookings/:id/advance", NewBookingHandler(svc).AdvanceBookingHandler)

	t.Run("unknown status", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/api/vendor/bookings/b-1/advance", map[string]string{"status": "Paused"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Unknown status", decodeError(t, w).Message)
	})

	t.Run("start service", func(t *testing.T) {
		svc.On("AdvanceBooking", mock.Anything, testVendor, "b-1", models.StatusWaiting).
			Return(&models.Booking{ID: "b-1", Status: models.StatusActive}, nil).Once()

		w := doJSON(r, http.MethodPost, "/api/vendor/bookings/b-1/advance", map[string]string{"status": "waiting"})
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Status models.BookingStatus `json:"status"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, models.StatusActive, resp.Status)
	})

	t.Run("station busy", func(t *testing.T) {
		svc.On("AdvanceBooking", mock.Anything, testVendor, "b-2", models.StatusWaiting).
			Return(nil, booking.NewError(booking.ErrInvalidTransition, "Already Serving")).Once()

		w := doJSON(r, http.MethodPost, "/api/vendor/bookings/b-2/advance", map[string]string{"status": "Waiting"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "Already Serving", decodeError(t, w).Message)
	})

	svc.AssertExpectations(t)
}

func newStationService() *station.DefaultStationService {
	return station.NewStationService(repository.NewMemoryRepositories(), zap.NewNop())
}

func TestStationHandlerLifecycle(t *testing.T) {
	h := NewStationHandler(newStationService())
	r := newRouter(testVendor)
	r.POST("/api/vendor/station", h.CreateStationHandler)
	r.GET("/api/vendor/station", h.GetOwnStationHandler)
	r.POST("/api/vendor/station/open", h.OpenStationHandler)

	w := doJSON(r, http.MethodGet, "/api/vendor/station", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	input := models.StationInput{Name: "Kilimani Auto", Area: "Kilimani", Vehicles: []string{"Car"}, Services: []string{"Wash"}}
	w = doJSON(r, http.MethodPost, "/api/vendor/station", input)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/api/vendor/station", input)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, http.MethodPost, "/api/vendor/station/open", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/api/vendor/station", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view models.StationView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "Kilimani Auto", view.Name)
	assert.Equal(t, models.StationOpen, view.Status)
	assert.False(t, view.Approved)
	assert.Zero(t, view.UnhandledCount)
}

func TestStationHandlerValidation(t *testing.T) {
	r := newRouter(testVendor)
	r.POST("/api/vendor/station", NewStationHandler(newStationService()).CreateStationHandler)

	w := doJSON(r, http.MethodPost, "/api/vendor/station", models.StationInput{Name: "Empty", Area: "CBD"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	msg := decodeError(t, w).Message
	assert.Contains(t, msg, "vehicles is required")
	assert.Contains(t, msg, "services is required")
}

func TestAdminListStationsRejectsBadFilter(t *testing.T) {
	ah := NewAdminHandler(newStationService(), nil, nil)
	r := newRouter(models.Principal{ID: "admin-1", Role: models.RoleAdmin})
	r.GET("/api/admin/stations", ah.ListStationsHandler)

	w := doJSON(r, http.MethodGet, "/api/admin/stations?approved=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/api/admin/stations?approved=false", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthHandler(t *testing.T) {
	utils.RunHealthChecks(context.Background(), map[string]utils.HealthCheck{
		"mongo": func(context.Context) error { return nil },
	})
	r := gin.New()
	r.GET("/health", HealthHandler)

	w := doJSON(r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status utils.HealthStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.True(t, status.Healthy)
	assert.WithinDuration(t, time.Now(), status.CheckedAt, time.Minute)
}
