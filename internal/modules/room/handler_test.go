package room

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"hotelpms/internal/database"
	"hotelpms/internal/domain"
	"hotelpms/internal/logging"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenMemory("room_handler_" + t.Name())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	h := NewHandler(NewService(db, logging.Discard()))
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", int64(42))
		if perms := c.GetHeader("X-Test-Permissions"); perms != "" {
			c.Set("permissions", strings.Split(perms, ","))
		}
		c.Next()
	})
	h.RegisterRoutes(r.Group("/api"))
	return r, db
}

func doJSONRequest(r http.Handler, method, path string, body any, perms string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if perms != "" {
		req.Header.Set("X-Test-Permissions", perms)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestCreateRoom_RequiresPermission(t *testing.T) {
	r, _ := setupTestRouter(t)
	body := map[string]any{"room_number": "R101", "room_type": "Deluxe", "price_per_night": "1000", "capacity": 2}

	rr := doJSONRequest(r, http.MethodPost, "/api/rooms", body, "bookings.manage")
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSONRequest(r, http.MethodPost, "/api/rooms", body, "rooms.manage")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp struct {
		Success bool        `json:"success"`
		Data    domain.Room `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, domain.RoomAvailable, resp.Data.Status)
	assert.True(t, resp.Data.PricePerNight.Equal(decimal.NewFromInt(1000)))

	rr = doJSONRequest(r, http.MethodPost, "/api/rooms", body, "rooms.manage")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "already exists")
}

func TestCreateRoom_Validation(t *testing.T) {
	r, _ := setupTestRouter(t)
	rr := doJSONRequest(r, http.MethodPost, "/api/rooms", map[string]any{"room_type": "Deluxe", "capacity": 0}, "rooms.manage")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "room_number")
}

func TestDeleteRoom_RefusedWhileBooked(t *testing.T) {
	r, db := setupTestRouter(t)
	room := &domain.Room{RoomNumber: "R101", PricePerNight: decimal.NewFromInt(1000), Status: domain.RoomBooked}
	require.NoError(t, db.Create(room).Error)
	customer := &domain.Customer{Name: "A", Phone: "1"}
	require.NoError(t, db.Create(customer).Error)
	booking := &domain.Booking{
		CustomerID:   customer.ID,
		CheckinDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		CheckoutDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Status:       domain.BookingUpcoming,
		Rooms:        []domain.BookingRoom{{RoomID: room.ID}},
	}
	require.NoError(t, db.Create(booking).Error)

	rr := doJSONRequest(r, http.MethodDelete, "/api/rooms/1", nil, "rooms.manage")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	require.NoError(t, db.Model(booking).Update("status", domain.BookingCheckedOut).Error)
	rr = doJSONRequest(r, http.MethodDelete, "/api/rooms/1", nil, "rooms.manage")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doJSONRequest(r, http.MethodGet, "/api/rooms/1", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAvailability(t *testing.T) {
	r, db := setupTestRouter(t)
	a := &domain.Room{RoomNumber: "R101", Status: domain.RoomBooked}
	b := &domain.Room{RoomNumber: "R102", Status: domain.RoomAvailable}
	require.NoError(t, db.Create(a).Error)
	require.NoError(t, db.Create(b).Error)
	customer := &domain.Customer{Name: "A", Phone: "1"}
	require.NoError(t, db.Create(customer).Error)
	require.NoError(t, db.Create(&domain.Booking{
		CustomerID:   customer.ID,
		CheckinDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		CheckoutDate: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		Status:       domain.BookingUpcoming,
		Rooms:        []domain.BookingRoom{{RoomID: a.ID}},
	}).Error)

	rr := doJSONRequest(r, http.MethodGet, "/api/rooms/availability?checkin=2024-01-02&checkout=2024-01-04", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "R101")
	assert.Contains(t, rr.Body.String(), "R102")

	rr = doJSONRequest(r, http.MethodGet, "/api/rooms/availability?checkin=2024-01-03&checkout=2024-01-04", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "R101")

	rr = doJSONRequest(r, http.MethodGet, "/api/rooms/availability?checkin=2024-01-04&checkout=2024-01-04", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdateRoom_IgnoresStatus(t *testing.T) {
	r, db := setupTestRouter(t)
	room := &domain.Room{RoomNumber: "R101", PricePerNight: decimal.NewFromInt(1000), Status: domain.RoomOccupied}
	require.NoError(t, db.Create(room).Error)

	rr := doJSONRequest(r, http.MethodPut, "/api/rooms/1", map[string]any{"price_per_night": 1200, "status": "Available"}, "rooms.manage")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var got domain.Room
	require.NoError(t, db.First(&got, room.ID).Error)
	assert.True(t, got.PricePerNight.Equal(decimal.NewFromInt(1200)))
	assert.Equal(t, domain.RoomOccupied, got.Status)
}
