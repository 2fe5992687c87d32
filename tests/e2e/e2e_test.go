package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
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
	"hotelpms/internal/modules/auth"
	"hotelpms/internal/pkg/jwt"
	"hotelpms/internal/server"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	decimal.MarshalJSONWithoutQuotes = true
	os.Exit(m.Run())
}

type E2ETestSuite struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
	admin  string
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	t.Helper()
	db, err := database.OpenMemory("e2e_" + t.Name())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, ist)

	log := logging.Discard()
	jwtSvc := jwt.New("test_secret_key_32_characters_min", time.Hour)
	_, _, err = auth.NewService(db, jwtSvc, log).EnsureAdmin(context.Background(), "Owner", "admin@hotel.test", "admin12345")
	require.NoError(t, err)

	s := &E2ETestSuite{
		t:  t,
		db: db,
		router: server.New(server.Deps{
			DB:       db,
			JWT:      jwtSvc,
			Log:      log,
			Location: ist,
			Now:      func() time.Time { return now },
		}),
	}
	s.admin = s.login("admin@hotel.test", "admin12345")
	return s
}

func (s *E2ETestSuite) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

// call performs a request, asserts the status and decodes data into out.
func (s *E2ETestSuite) call(method, path string, body any, token string, wantStatus int, out any) envelope {
	s.t.Helper()
	rr := s.do(method, path, body, token)
	require.Equal(s.t, wantStatus, rr.Code, "%s %s: %s", method, path, rr.Body.String())

	var env envelope
	require.NoError(s.t, json.Unmarshal(rr.Body.Bytes(), &env))
	if out != nil {
		require.NoError(s.t, json.Unmarshal(env.Data, out))
	}
	return env
}

func (s *E2ETestSuite) login(email, password string) string {
	s.t.Helper()
	var res struct {
		AccessToken string `json:"access_token"`
	}
	s.call(http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": password}, "", http.StatusOK, &res)
	require.NotEmpty(s.t, res.AccessToken)
	return res.AccessToken
}

func (s *E2ETestSuite) createRoom(number string, price int) domain.Room {
	s.t.Helper()
	var room domain.Room
	s.call(http.MethodPost, "/api/rooms", map[string]any{
		"room_number": number, "room_type": "Deluxe", "price_per_night": price, "capacity": 2,
	}, s.admin, http.StatusCreated, &room)
	return room
}

func (s *E2ETestSuite) room(id int64) domain.Room {
	s.t.Helper()
	var room domain.Room
	s.call(http.MethodGet, fmt.Sprintf("/api/rooms/%d", id), nil, s.admin, http.StatusOK, &room)
	return room
}

func (s *E2ETestSuite) booking(id int64) domain.Booking {
	s.t.Helper()
	var b domain.Booking
	s.call(http.MethodGet, fmt.Sprintf("/api/bookings/%d", id), nil, s.admin, http.StatusOK, &b)
	return b
}

func bookingBody(roomID int64, in, out string) map[string]any {
	return map[string]any{
		"primary_guest": map[string]string{"name": "Ravi Kumar", "phone": "9845012345"},
		"rooms":         []map[string]any{{"room_id": roomID}},
		"checkin_date":  in,
		"checkout_date": out,
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestHealthAndAuth(t *testing.T) {
	s := setupTestSuite(t)

	rr := s.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(http.MethodGet, "/api/bookings", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = s.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "admin@hotel.test", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	var me struct {
		Email       string   `json:"email"`
		Permissions []string `json:"permissions"`
	}
	s.call(http.MethodGet, "/api/auth/me", nil, s.admin, http.StatusOK, &me)
	assert.Equal(t, "admin@hotel.test", me.Email)
	assert.Len(t, me.Permissions, len(domain.AllPermissions))
}

func TestBookingLifecycle(t *testing.T) {
	s := setupTestSuite(t)
	r101 := s.createRoom("R101", 1000)

	// R101 at 1000/night, two nights, 500 paid up front.
	body := bookingBody(r101.ID, "2024-01-01", "2024-01-03")
	body["total_amount"] = 2000
	body["amount_paid"] = 500
	body["payment_mode"] = "Cash"
	var b domain.Booking
	s.call(http.MethodPost, "/api/bookings", body, s.admin, http.StatusCreated, &b)

	assert.Equal(t, domain.BookingUpcoming, b.Status)
	assert.Equal(t, domain.PaymentPartial, b.PaymentStatus)
	assert.True(t, b.AmountDue.Equal(dec("1500")), b.AmountDue.String())
	assert.Equal(t, domain.RoomBooked, s.room(r101.ID).Status)

	var ledger struct {
		Transactions []domain.PaymentTransaction `json:"transactions"`
		NetPaid      decimal.Decimal             `json:"net_paid"`
	}
	s.call(http.MethodGet, fmt.Sprintf("/api/bookings/%d/transactions", b.ID), nil, s.admin, http.StatusOK, &ledger)
	require.Len(t, ledger.Transactions, 1)
	assert.True(t, ledger.NetPaid.Equal(dec("500")))

	// Overlap is rejected; the back-to-back stay is not.
	s.call(http.MethodPost, "/api/bookings", bookingBody(r101.ID, "2024-01-02", "2024-01-04"), s.admin, http.StatusBadRequest, nil)
	var next domain.Booking
	s.call(http.MethodPost, "/api/bookings", bookingBody(r101.ID, "2024-01-03", "2024-01-05"), s.admin, http.StatusCreated, &next)

	// Check-in only from Upcoming.
	s.call(http.MethodPut, fmt.Sprintf("/api/bookings/%d/checkin", b.ID), nil, s.admin, http.StatusOK, &b)
	assert.Equal(t, domain.BookingCheckedIn, b.Status)
	assert.Equal(t, domain.RoomOccupied, s.room(r101.ID).Status)
	s.call(http.MethodPut, fmt.Sprintf("/api/bookings/%d/checkin", b.ID), nil, s.admin, http.StatusBadRequest, nil)
	assert.Equal(t, domain.BookingCheckedIn, s.booking(b.ID).Status)

	// Settle the balance.
	var paid struct {
		Booking domain.Booking `json:"booking"`
	}
	s.call(http.MethodPut, fmt.Sprintf("/api/bookings/%d/payment", b.ID), map[string]any{
		"amount_paid": 1500, "payment_mode": "UPI",
	}, s.admin, http.StatusOK, &paid)
	assert.Equal(t, domain.PaymentPaid, paid.Booking.PaymentStatus)
	assert.True(t, paid.Booking.AmountDue.IsZero())

	s.call(http.MethodPut, fmt.Sprintf("/api/bookings/%d/payment", b.ID), map[string]any{
		"amount_paid": 0, "payment_mode": "UPI",
	}, s.admin, http.StatusBadRequest, nil)

	// Check-out frees the room from this stay; the next stay still holds it.
	s.call(http.MethodPut, fmt.Sprintf("/api/bookings/%d/checkout", b.ID), nil, s.admin, http.StatusOK, &b)
	assert.Equal(t, domain.BookingCheckedOut, b.Status)
	assert.Equal(t, domain.RoomBooked, s.room(r101.ID).Status)
	s.call(http.MethodPut, fmt.Sprintf("/api/bookings/%d/checkout", b.ID), nil, s.admin, http.StatusBadRequest, nil)

	s.call(http.MethodPost, fmt.Sprintf("/api/bookings/%d/cancel", next.ID), map[string]any{"reason": "plans changed"}, s.admin, http.StatusOK, &next)
	assert.Equal(t, domain.BookingCancelled, next.Status)
	assert.Equal(t, domain.RoomAvailable, s.room(r101.ID).Status)

	var inv struct {
		Balance decimal.Decimal `json:"balance"`
	}
	s.call(http.MethodGet, fmt.Sprintf("/api/bookings/%d/invoice", b.ID), nil, s.admin, http.StatusOK, &inv)
}

func TestCancelRefundExceedingPaidChangesNothing(t *testing.T) {
	s := setupTestSuite(t)
	r := s.createRoom("R201", 1500)

	body := bookingBody(r.ID, "2024-01-05", "2024-01-06")
	body["amount_paid"] = 500
	body["payment_mode"] = "Card"
	var b domain.Booking
	s.call(http.MethodPost, "/api/bookings", body, s.admin, http.StatusCreated, &b)

	s.call(http.MethodPost, fmt.Sprintf("/api/bookings/%d/cancel", b.ID), map[string]any{
		"refund_amount": 800, "payment_mode": "Card",
	}, s.admin, http.StatusBadRequest, nil)

	after := s.booking(b.ID)
	assert.Equal(t, domain.BookingUpcoming, after.Status)
	assert.True(t, after.AmountPaid.Equal(dec("500")))
	assert.Equal(t, domain.RoomBooked, s.room(r.ID).Status)

	s.call(http.MethodPost, fmt.Sprintf("/api/bookings/%d/cancel", b.ID), map[string]any{
		"refund_amount": 500, "payment_mode": "Card",
	}, s.admin, http.StatusOK, &after)
	assert.Equal(t, domain.BookingCancelled, after.Status)
	assert.Equal(t, domain.PaymentRefund, after.PaymentStatus)
	assert.True(t, after.AmountPaid.IsZero())
	assert.Equal(t, domain.RoomAvailable, s.room(r.ID).Status)
}

func TestFoodOrderFlow(t *testing.T) {
	s := setupTestSuite(t)
	r := s.createRoom("R301", 2000)

	body := bookingBody(r.ID, "2024-01-01", "2024-01-02")
	body["immediate_checkin"] = true
	var b domain.Booking
	s.call(http.MethodPost, "/api/bookings", body, s.admin, http.StatusCreated, &b)
	require.Equal(t, domain.BookingCheckedIn, b.Status)

	var dosa domain.MenuItem
	s.call(http.MethodPost, "/api/menu", map[string]any{"name": "Masala Dosa", "price": 120}, s.admin, http.StatusCreated, &dosa)

	var order domain.FoodOrder
	s.call(http.MethodPost, "/api/food-orders/create", map[string]any{
		"booking_id": b.ID,
		"items":      []map[string]any{{"menu_item_id": dosa.ID, "quantity": 2}},
	}, s.admin, http.StatusCreated, &order)
	assert.True(t, order.TotalAmount.Equal(dec("240")))

	s.call(http.MethodPut, fmt.Sprintf("/api/food-orders/%d", order.ID), map[string]any{
		"items": []map[string]any{{"menu_item_id": dosa.ID, "quantity": 3}},
	}, s.admin, http.StatusOK, &order)
	assert.True(t, order.TotalAmount.Equal(dec("360")))

	var kots []domain.KOTHistory
	s.call(http.MethodGet, fmt.Sprintf("/api/food-orders/%d/kot", order.ID), nil, s.admin, http.StatusOK, &kots)
	require.Len(t, kots, 2)
	assert.Equal(t, domain.KOTAdditions, kots[1].Event)

	var paid struct {
		Order domain.FoodOrder `json:"order"`
	}
	s.call(http.MethodPost, "/api/food-payments/record", map[string]any{
		"food_order_id": order.ID, "amount_paid": 360, "payment_mode": "Cash",
	}, s.admin, http.StatusOK, &paid)
	assert.Equal(t, domain.PaymentPaid, paid.Order.PaymentStatus)

	var summary struct {
		NetCollection decimal.Decimal `json:"net_collection"`
	}
	s.call(http.MethodGet, "/api/reports/summary?from=2024-01-01&to=2024-01-01", nil, s.admin, http.StatusOK, &summary)
	assert.True(t, summary.NetCollection.Equal(dec("360")), summary.NetCollection.String())
}

func TestStaffPermissions(t *testing.T) {
	s := setupTestSuite(t)
	r := s.createRoom("R401", 1000)

	s.call(http.MethodPost, "/api/staff", map[string]any{
		"name": "Front Desk", "email": "desk@hotel.test", "password": "desk-pass-1",
		"permissions": []string{"bookings.manage"},
	}, s.admin, http.StatusCreated, nil)
	desk := s.login("desk@hotel.test", "desk-pass-1")

	var b domain.Booking
	s.call(http.MethodPost, "/api/bookings", bookingBody(r.ID, "2024-01-10", "2024-01-12"), desk, http.StatusCreated, &b)

	s.call(http.MethodPut, fmt.Sprintf("/api/bookings/%d/payment", b.ID), map[string]any{
		"amount_paid": 100, "payment_mode": "Cash",
	}, desk, http.StatusForbidden, nil)
	s.call(http.MethodGet, "/api/reports/summary", nil, desk, http.StatusForbidden, nil)
	s.call(http.MethodPost, "/api/rooms", map[string]any{"room_number": "X", "room_type": "Std", "capacity": 1}, desk, http.StatusForbidden, nil)
	s.call(http.MethodGet, "/api/staff", nil, desk, http.StatusForbidden, nil)
}

func TestStaffChangesApplyToIssuedTokens(t *testing.T) {
	s := setupTestSuite(t)

	var staff domain.User
	s.call(http.MethodPost, "/api/staff", map[string]any{
		"name": "Cashier", "email": "cash@hotel.test", "password": "cash-pass-1",
		"permissions": []string{"reports.view"},
	}, s.admin, http.StatusCreated, &staff)
	cashier := s.login("cash@hotel.test", "cash-pass-1")
	s.call(http.MethodGet, "/api/reports/summary", nil, cashier, http.StatusOK, nil)

	permsPath := fmt.Sprintf("/api/staff/%d/permissions", staff.ID)
	s.call(http.MethodPut, permsPath, map[string]any{"permissions": []string{"payments.record"}}, s.admin, http.StatusOK, nil)
	s.call(http.MethodGet, "/api/reports/summary", nil, cashier, http.StatusForbidden, nil)

	s.call(http.MethodPut, permsPath, map[string]any{"is_active": false}, s.admin, http.StatusOK, nil)
	env := s.call(http.MethodGet, "/api/auth/me", nil, cashier, http.StatusForbidden, nil)
	assert.Equal(t, "ACCOUNT_DISABLED", env.Error)
}
