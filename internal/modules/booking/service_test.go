package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"hotelpms/internal/database"
	"hotelpms/internal/domain"
	"hotelpms/internal/logging"
	"hotelpms/internal/modules/ledger"
)

var clock = time.Date(2023, 12, 20, 9, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenMemory("booking_" + t.Name())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()
	l := ledger.NewService(db, logging.Discard())
	l.SetClock(func() time.Time { return clock })
	s := NewService(db, l, time.UTC, logging.Discard())
	s.SetClock(func() time.Time { return clock })
	return s
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func seedRoom(t *testing.T, db *gorm.DB, number, price string) *domain.Room {
	t.Helper()
	r := &domain.Room{RoomNumber: number, RoomType: "Deluxe", PricePerNight: dec(price), Capacity: 2, Status: domain.RoomAvailable}
	require.NoError(t, db.Create(r).Error)
	return r
}

func roomStatus(t *testing.T, db *gorm.DB, id int64) domain.RoomStatus {
	t.Helper()
	var r domain.Room
	require.NoError(t, db.First(&r, id).Error)
	return r.Status
}

func ledgerEntries(t *testing.T, db *gorm.DB, bookingID int64) []domain.PaymentTransaction {
	t.Helper()
	var out []domain.PaymentTransaction
	require.NoError(t, db.Where("booking_id = ?", bookingID).Order("id").Find(&out).Error)
	return out
}

func request(roomID int64, in, out string) CreateBookingRequest {
	return CreateBookingRequest{
		PrimaryGuest: GuestInput{Name: "Ravi Kumar", Phone: "9845012345"},
		Rooms:        []RoomSelection{{RoomID: roomID}},
		CheckinDate:  in,
		CheckoutDate: out,
	}
}

// R101 at 1000/night for two nights with 500 paid up front.
func createPartial(t *testing.T, s *Service, roomID int64) *domain.Booking {
	t.Helper()
	req := request(roomID, "2024-01-01", "2024-01-03")
	req.TotalAmount = decPtr("2000")
	req.AmountPaid = decPtr("500")
	req.PaymentMode = "Cash"
	b, err := s.Create(context.Background(), req, 1)
	require.NoError(t, err)
	return b
}

func assertLedgerMatches(t *testing.T, db *gorm.DB, bookingID int64) {
	t.Helper()
	var b domain.Booking
	require.NoError(t, db.First(&b, bookingID).Error)
	assert.True(t, ledger.Sum(ledgerEntries(t, db, bookingID)).Equal(b.AmountPaid), "ledger sum must equal amount_paid")
	assert.True(t, domain.Project(b.TotalAmount, b.AmountPaid).AmountDue.Equal(b.AmountDue))
}

func TestCreate_PartialPayment(t *testing.T) {
	db := setupTestDB(t)
	s := newService(t, db)
	room := seedRoom(t, db, "R101", "1000")

	b := createPartial(t, s, room.ID)

	assert.Equal(t, domain.BookingUpcoming, b.Status)
	assert.Equal(t, domain.PaymentPartial, b.PaymentStatus)
	assert.Equal(t, 2, b.Nights)
	assert.True(t, b.AmountDue.Equal(dec("1500")))
	assert.NotEmpty(t, b.BookingRef)
	require.Len(t, b.Rooms, 1)
	assert.True(t, b.Rooms[0].PricePerNight.Equal(dec("1000")))
	require.Len(t, b.Guests, 1)
	assert.True(t, b.Guests[0].IsPrimary)

	entries := ledgerEntries(t, db, b.ID)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].AmountPaid.Equal(dec("500")))
	assert.False(t, entries[0].IsRefund)
	assert.Equal(t, domain.RoomBooked, roomStatus(t, db, room.ID))
	assertLedgerMatches(t, db, b.ID)
}

func TestAddPayment_CompletesBooking(t *testing.T) {
	db := setupTestDB(t)
	s := newService(t, db)
	room := seedRoom(t, db, "R101", "1000")
	b := createPartial(t, s, room.ID)

	b, entry, err := s.AddPayment(context.Background(), b.ID, PaymentRequest{AmountPaid: dec("1500"), PaymentMode: "upi"}, 1)
	require.NoError(t, err)

	assert.True(t, b.AmountPaid.Equal(dec("2000")))
	assert.True(t, b.AmountDue.IsZero())
	assert.Equal(t, domain.PaymentPaid, b.PaymentStatus)
	assert.Equal(t, domain.PaymentModeUPI, entry.PaymentMode)
	assert.Len(t, ledgerEntries(t, db, b.ID), 2)
	assertLedgerMatches(t, db, b.ID)
}

func TestAddPayment_RejectsInvalidAmount(t *testing.T) {
	db := setupTestDB(t)
	s := newService(t, db)
	room := seedRoom(t, db, "R101", "1000")
	b := createPartial(t, s, room.ID)

	for _, amount := range []string{"0", "-100"} {
		_, _, err := s.AddPayment(context.Background(), b.ID, PaymentRequest{AmountPaid: dec(amount), PaymentMode: "Cash"}, 1)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
	assert.Len(t, ledgerEntries(t, db, b.ID), 1)
}

func TestAddPayment_StatusMismatchRollsBack(t *testing.T) {
	db := setupTestDB(t)
	s := newService(t, db)
	room := seedRoom(t, db, "R101", "1000")
	b := createPartial(t, s, room.ID)

	_, _, err := s.AddPayment(context.Background(), b.ID, PaymentRequest{AmountPaid: dec("100"), PaymentMode: "Cash", PaymentStatus: "PAID"}, 1)
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := s.Get(context.Background(), b.ID)
	require.NoError(t, err)
	assert.True(t, got.AmountPaid.Equal(dec("500")))
	assert.Len(t, ledgerEntries(t, db, b.ID), 1)
}

func TestCancel_WithFullRefund(t *testing.T) {
	db := setupTestDB(t)
	s := newService(t, db)
	room := seedRoom(t, db, "R101", "1000")
	b := createPartial(t, s, room.ID)
	_, _, err := s.AddPayment(context.Background(), b.ID, PaymentRequest{AmountPaid: dec("1500"), PaymentMode: "Cash"}, 1)
	require.NoError(t, err)

	b, err = s.Cancel(context.Background(), b.ID, CancelRequest{RefundAmount: decPtr("2000"), PaymentMode: "Cash"}, 1)
	require.NoError(t, err)

	assert.Equal(t, domain.BookingCancelled, b.Status)
	assert.Equal(t, domain.PaymentRefund, b.PaymentStatus)
	assert.True(t, b.AmountPaid.IsZero())
	assert.True(t, b.RefundAmount.Equal(dec("2000")))
	require.NotNil(t, b.CancelledAt)

	refunds := 0
	for _, e := range ledgerEntries(t, db, b.ID) {
		if e.IsRefund {
			refunds++
			assert.True(t, e.AmountPaid.Equal(dec("2000")))
			assert.Equal(t, domain.PaymentModeCash, e.PaymentMode)
		}
	}
	assert.Equal(t, 1, refunds)
	assert.Equal(t, domain.RoomAvailable, roomStatus(t, db, room.ID))
	assertLedgerMatches(t, db, b.ID)
}

func TestCancel_RefundExceedingPaidChangesNothing(t *testing.T) {
	db := setupTestDB(t)
	s := newService(t, db)
	room := seedRoom(t, db, "R101", "1000")
	b := createPartial(t, s, room.ID)

	_, err := s.Cancel(context.Background(), b.ID, CancelRequest{RefundAmount: decPtr("600"), PaymentMode: "Cash"}, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := s.Get(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingUpcoming, got.Status)
	assert.Equal(t, domain.PaymentPartial, got.PaymentStatus)
	assert.True(t, got.AmountPaid.Equal(dec("500")))
	assert.Len(t, ledgerEntries(t, db, b.ID), 1)
	assert.Equal(t, domain.RoomBooked, roomStatus(t, db, room.ID))
}

func TestCancel_UnpaidKeepsPaymentStatus(t *testing.T) {
	db := setupTestDB(t)
	s := newService(t, db)
	room := seedRoom(t, db, "R101", "1000")
	b, err := s.Create(context.Background(), request(room.ID, "2024-01-01", "2024-01-02"), 1)
	require.NoError(t, err)

	b, err = s.Cancel(context.Background(), b.ID, CancelRequest{}, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentUnpaid, b.PaymentStatus)

	_, err = s.Cancel(context.Background(), b.ID, CancelRequest{}, 1)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreate_OverlapRules(t *testing.T) {
	db := setupTestDB(t)
	s := newService(t, db)
	room := seedRoom(t, db, "R101", "1000")
	ctx := context.Background()

	_, err := s.Create(ctx, request(room.ID, "2024-01-01", "2024-01-03"), 1)
	require.NoError(t, err)

	_, err = s.Create(ctx, request(room.ID, "2024-01-03", "2024-01-05"), 1)
	require.NoError(t, err, "back-to-back stays do not overlap")

	_, err = s.Create(ctx, request(room.ID, "2024-01-02", "2024-01-04"), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "R101")

	var count int64
	require.NoError(t, db.Model(&domain.Booking{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestCreate_CancelledBookingFreesDates(t *testing.T) {
	db := setupTestDB(t)
	s := newService(t, db)
	room := seedRoom(t, db, "R101", "1000")
	ctx := context.Background()

	b, err := s.Create(ctx, request(room.ID, "2024-01-01", "2024-01-03"), 1)
	require.NoError(t, err)
	_, err = s.Cancel(ctx, b.ID, CancelRequest{}, 1)
	require.NoError(t, err)

	_, err = s.Create(ctx, request(room.ID, "2024-01-01", "2024-01-03"), 1)
	assert.NoError(t, err)
}

func TestCreate_Validation(t *testing.T) {
	db := setupTestDB(t)
	s := newService(t, db)
	room := seedRoom(t, db, "R101", "1000")
	ctx := context.Background()

	noPhone := request(room.ID, "2024-01-01", "2024-01-03")
	noPhone.PrimaryGuest.Phone = ""
	_, err := s.Create(ctx, noPhone, 1)
	assert.ErrorIs(t, err, domain.ErrValidation)

	missingRoom := request(999, "2024-01-01", "2024-01-03")
	_, err = s.Create(ctx, missingRoom, 1)
	assert.ErrorIs(t, err, domain.ErrValidation)

	backwards := request(room.ID, "2024-01-03", "2024-01-01")
	_, err = s.Create(ctx, backwards, 1)
	assert.ErrorIs(t, err, domain.ErrValidation)

	badRates := request(room.ID, "2024-01-01", "2024-01-03")
	badRates.Rooms[0].NightlyRates = []decimal.Decimal{dec("900")}
	_, err = s.Create(ctx, badRates, 1)
	assert.ErrorIs(t, err, domain.ErrValidation)

	mismatch := request(room.ID, "2024-01-01", "2024-01-03")
	mismatch.AmountPaid = decPtr("100")
	mismatch.PaymentMode = "Cash"
	mismatch.PaymentStatus = "PAID"
	_, err = s.Create(ctx, mismatch, 1)
	assert.ErrorIs(t, err, domain.ErrValidation)

	var count int64
	require.NoError(t, db.Model(&domain.Booking{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Equal(t, domain.RoomAvailable, roomStatus(t, db, room.ID))
}

func TestCreate_ComputesTotalFromRates(t *testing.T) {
	db := setupTestDB(t)
	s := newService(t, db)
	a := seedRoom(t, db, "R101", "1000")
	b := seedRoom(t, db, "R102", "1500")

	req := request(a.ID, "2024-01-01", "2024-01-03")
	req.Rooms = []RoomSelection{
		{RoomID: a.ID, NightlyRates: []decimal.Decimal{dec("900"), dec("1100")}},
		{RoomID: b.ID},
	}
	req.AdditionalGuests = []GuestInput{{Name: "Meera"}}
	booking, err := s.Create(context.Background(), req, 1)
	require.NoError(t, err)

	assert.True(t, booking.TotalAmount.Equal(dec("5000")), booking.TotalAmount.String())
	assert.Equal(t, domain.PaymentUnpaid, booking.PaymentStatus)
	assert.Len(t, booking.Guests, 2)
}

func TestCreate_ReusesCustomerByPhone(t *testing.T) {
	db := setupTestDB(t)
	s := newService(t, db)
	room := seedRoom(t, db, "R101", "1000")
	ctx := context.Background()

	first, err := s.Create(ctx, request(room.ID, "2024-01-01", "2024-01-02"), 1)
	require.NoError(t, err)
	second, err := s.Create(ctx, request(room.ID, "2024-02-01", "2024-02-02"), 1)
	require.NoError(t, err)
	assert.Equal(t, first.CustomerID, second.CustomerID)
}

func TestCreate_ImmediateCheckin(t *testing.T) {
	db := setupTestDB(t)
	s := newService(t, db)
	today := seedRoom(t, db, "R101", "1000")
	later := seedRoom(t, db, "R102", "1000")
	ctx := context.Background()

	req := request(today.ID, "2023-12-20", "2023-12-22")
	req.ImmediateCheckin = true
	b, err := s.Create(ctx, req, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCheckedIn, b.Status)
	require.NotNil(t, b.CheckinTime)
	assert.Equal(t, domain.RoomOccupied, roomStatus(t, db, today.ID))

	req = request(later.ID, "2024-01-01", "2024-01-02")
	req.ImmediateCheckin = true
	b, err = s.Create(ctx, req, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingUpcoming, b.Status)
	assert.Equal(t, domain.RoomBooked, roomStatus(t, db, later.ID))
}

func TestCheckIn_OnlyFromUpcoming(t *testing.T) {
	db := setupTestDB(t)
	s := newService(t, db)
	room := seedRoom(t, db, "R101", "1000")
	ctx := context.Background()
	b := createPartial(t, s, room.ID)

	_, err := s.CheckOut(ctx, b.ID, 1)
	assert.ErrorIs(t, err, domain.ErrValidation, "cannot check out before check-in")

	b, err = s.CheckIn(ctx, b.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCheckedIn, b.Status)
	require.NotNil(t, b.CheckinTime)
	assert.Equal(t, domain.RoomOccupied, roomStatus(t, db, room.ID))

	_, err = s.CheckIn(ctx, b.ID, 1)
	assert.ErrorIs(t, err, domain.ErrValidation)
	got, err := s.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCheckedIn, got.Status)
	assert.Equal(t, domain.RoomOccupied, roomStatus(t, db, room.ID))
}

func TestCheckOut_FreesOnlyItsRooms(t *testing.T) {
	db := setupTestDB(t)
	s := newService(t, db)
	mine := seedRoom(t, db, "R101", "1000")
	other := seedRoom(t, db, "R102", "1000")
	ctx := context.Background()

	b := createPartial(t, s, mine.ID)
	neighbour, err := s.Create(ctx, request(other.ID, "2024-01-01", "2024-01-03"), 1)
	require.NoError(t, err)
	_, err = s.CheckIn(ctx, neighbour.ID, 1)
	require.NoError(t, err)

	_, err = s.CheckIn(ctx, b.ID, 1)
	require.NoError(t, err)
	b, err = s.CheckOut(ctx, b.ID, 1)
	require.NoError(t, err)

	assert.Equal(t, domain.BookingCheckedOut, b.Status)
	require.NotNil(t, b.CheckoutTime)
	assert.Equal(t, domain.RoomAvailable, roomStatus(t, db, mine.ID))
	assert.Equal(t, domain.RoomOccupied, roomStatus(t, db, other.ID))

	_, err = s.CheckOut(ctx, b.ID, 1)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCheckIn_RoomUpdateFailureRollsBack(t *testing.T) {
	db := setupTestDB(t)
	s := newService(t, db)
	room := seedRoom(t, db, "R101", "1000")
	b := createPartial(t, s, room.ID)

	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("test:fail_rooms", func(tx *gorm.DB) {
		if tx.Statement.Table == "rooms" {
			_ = tx.AddError(errors.New("rooms table unavailable"))
		}
	}))

	_, err := s.CheckIn(context.Background(), b.ID, 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, db.Callback().Update().Remove("test:fail_rooms"))
	got, err := s.Get(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingUpcoming, got.Status)
	assert.Nil(t, got.CheckinTime)
	assert.Equal(t, domain.RoomBooked, roomStatus(t, db, room.ID))
}

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) AddBookingPayment(ctx context.Context, tx *gorm.DB, b *domain.Booking, amount decimal.Decimal, mode domain.PaymentMode, userID int64) (*domain.PaymentTransaction, error) {
	args := m.Called(ctx, tx, b, amount, mode, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentTransaction), args.Error(1)
}

func (m *mockLedger) AddRefund(ctx context.Context, tx *gorm.DB, b *domain.Booking, amount decimal.Decimal, mode domain.PaymentMode, userID int64) (*domain.PaymentTransaction, error) {
	args := m.Called(ctx, tx, b, amount, mode, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentTransaction), args.Error(1)
}

func TestCreate_LedgerFailureLeavesNoBooking(t *testing.T) {
	db := setupTestDB(t)
	room := seedRoom(t, db, "R101", "1000")
	l := new(mockLedger)
	l.On("AddBookingPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, domain.PaymentModeCash, int64(1)).
		Return(nil, errors.New("ledger unavailable"))
	s := NewService(db, l, time.UTC, logging.Discard())
	s.SetClock(func() time.Time { return clock })

	req := request(room.ID, "2024-01-01", "2024-01-03")
	req.AmountPaid = decPtr("500")
	req.PaymentMode = "cash"
	_, err := s.Create(context.Background(), req, 1)
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&domain.Booking{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&domain.Customer{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Equal(t, domain.RoomAvailable, roomStatus(t, db, room.ID))
	l.AssertExpectations(t)
}

func TestUpdate_SwapRoomsAndDates(t *testing.T) {
	db := setupTestDB(t)
	s := newService(t, db)
	a := seedRoom(t, db, "R101", "1000")
	c := seedRoom(t, db, "R103", "2000")
	ctx := context.Background()
	b := createPartial(t, s, a.ID)

	out := "2024-01-04"
	b, err := s.Update(ctx, b.ID, UpdateBookingRequest{
		Rooms:        []RoomSelection{{RoomID: c.ID}},
		CheckoutDate: &out,
	}, 1)
	require.NoError(t, err)

	assert.Equal(t, 3, b.Nights)
	require.Len(t, b.Rooms, 1)
	assert.Equal(t, c.ID, b.Rooms[0].RoomID)
	assert.True(t, b.TotalAmount.Equal(dec("6000")), b.TotalAmount.String())
	assert.True(t, b.AmountDue.Equal(dec("5500")))
	assert.Equal(t, domain.RoomAvailable, roomStatus(t, db, a.ID))
	assert.Equal(t, domain.RoomBooked, roomStatus(t, db, c.ID))
}

func TestUpdate_RejectsOverlapWithOtherBooking(t *testing.T) {
	db := setupTestDB(t)
	s := newService(t, db)
	a := seedRoom(t, db, "R101", "1000")
	ctx := context.Background()

	b := createPartial(t, s, a.ID)
	_, err := s.Create(ctx, request(a.ID, "2024-01-05", "2024-01-07"), 1)
	require.NoError(t, err)

	out := "2024-01-06"
	_, err = s.Update(ctx, b.ID, UpdateBookingRequest{CheckoutDate: &out}, 1)
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := s.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Nights)
}

func TestUpdate_StatusRules(t *testing.T) {
	db := setupTestDB(t)
	s := newService(t, db)
	room := seedRoom(t, db, "R101", "1000")
	ctx := context.Background()
	b := createPartial(t, s, room.ID)

	checkedOut := "CHECKED_OUT"
	_, err := s.Update(ctx, b.ID, UpdateBookingRequest{Status: &checkedOut}, 1)
	assert.ErrorIs(t, err, domain.ErrValidation, "upcoming booking cannot check out")

	checkedIn := "checked in"
	b, err = s.Update(ctx, b.ID, UpdateBookingRequest{Status: &checkedIn}, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCheckedIn, b.Status)
	assert.Equal(t, domain.RoomOccupied, roomStatus(t, db, room.ID))

	_, err = s.Update(ctx, b.ID, UpdateBookingRequest{Status: &checkedOut}, 1)
	assert.ErrorIs(t, err, domain.ErrValidation, "unpaid booking cannot check out")

	cancelled := "Cancelled"
	b, err = s.Update(ctx, b.ID, UpdateBookingRequest{Status: &cancelled}, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, b.Status)
	assert.Equal(t, domain.PaymentRefund, b.PaymentStatus)
	assert.Equal(t, domain.RoomAvailable, roomStatus(t, db, room.ID))

	notes := "late"
	_, err = s.Update(ctx, b.ID, UpdateBookingRequest{Notes: &notes}, 1)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdate_CheckedOutBookingCannotReopen(t *testing.T) {
	db := setupTestDB(t)
	s := newService(t, db)
	room := seedRoom(t, db, "R101", "1000")
	ctx := context.Background()

	first := createPartial(t, s, room.ID)
	_, _, err := s.AddPayment(ctx, first.ID, PaymentRequest{AmountPaid: dec("1500"), PaymentMode: "cash"}, 1)
	require.NoError(t, err)
	_, err = s.CheckIn(ctx, first.ID, 1)
	require.NoError(t, err)
	_, err = s.CheckOut(ctx, first.ID, 1)
	require.NoError(t, err)

	second, err := s.Create(ctx, request(room.ID, "2024-01-01", "2024-01-03"), 1)
	require.NoError(t, err)

	for _, raw := range []string{"Upcoming", "Checked-in", "Booked", "Cancelled"} {
		status := raw
		_, err := s.Update(ctx, first.ID, UpdateBookingRequest{Status: &status}, 1)
		assert.ErrorIs(t, err, domain.ErrValidation, raw)
	}

	in, out := "2024-02-01", "2024-02-03"
	_, err = s.Update(ctx, first.ID, UpdateBookingRequest{CheckinDate: &in, CheckoutDate: &out}, 1)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = s.Update(ctx, first.ID, UpdateBookingRequest{Rooms: []RoomSelection{{RoomID: room.ID}}}, 1)
	assert.ErrorIs(t, err, domain.ErrValidation)

	notes := "left a charger"
	got, err := s.Update(ctx, first.ID, UpdateBookingRequest{Notes: &notes}, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCheckedOut, got.Status)
	assert.Equal(t, "left a charger", got.Notes)

	var active int64
	require.NoError(t, db.Model(&domain.Booking{}).
		Where("status IN ?", domain.ActiveBookingStatuses).
		Count(&active).Error)
	assert.Equal(t, int64(1), active)

	second, err = s.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingUpcoming, second.Status)
	assert.Equal(t, domain.RoomBooked, roomStatus(t, db, room.ID))
}

func TestUpdate_CheckoutRequiresCheckIn(t *testing.T) {
	db := setupTestDB(t)
	s := newService(t, db)
	room := seedRoom(t, db, "R101", "1000")
	ctx := context.Background()

	b := createPartial(t, s, room.ID)
	_, _, err := s.AddPayment(ctx, b.ID, PaymentRequest{AmountPaid: dec("1500"), PaymentMode: "cash"}, 1)
	require.NoError(t, err)

	checkedOut := "Checked-out"
	_, err = s.Update(ctx, b.ID, UpdateBookingRequest{Status: &checkedOut}, 1)
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := s.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingUpcoming, got.Status)
	assert.Nil(t, got.CheckinTime)
	assert.Nil(t, got.CheckoutTime)
	assert.Equal(t, domain.RoomBooked, roomStatus(t, db, room.ID))
}

func TestReconcileRoomStatuses(t *testing.T) {
	db := setupTestDB(t)
	s := newService(t, db)
	booked := seedRoom(t, db, "R101", "1000")
	idle := seedRoom(t, db, "R102", "1000")
	createPartial(t, s, booked.ID)

	require.NoError(t, db.Model(&domain.Room{}).Where("id = ?", booked.ID).Update("status", domain.RoomAvailable).Error)
	require.NoError(t, db.Model(&domain.Room{}).Where("id = ?", idle.ID).Update("status", domain.RoomOccupied).Error)

	changes, err := s.ReconcileRoomStatuses(context.Background())
	require.NoError(t, err)
	assert.Len(t, changes, 2)
	assert.Equal(t, domain.RoomBooked, roomStatus(t, db, booked.ID))
	assert.Equal(t, domain.RoomAvailable, roomStatus(t, db, idle.ID))

	changes, err = s.ReconcileRoomStatuses(context.Background())
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestInvoice(t *testing.T) {
	db := setupTestDB(t)
	s := newService(t, db)
	room := seedRoom(t, db, "R101", "1000")
	b := createPartial(t, s, room.ID)

	order := &domain.FoodOrder{BookingID: b.ID, Status: domain.FoodOrderDelivered, TotalAmount: dec("300")}
	order.ApplyTotals()
	require.NoError(t, db.Create(order).Error)

	inv, err := s.Invoice(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Len(t, inv.RoomNights, 2)
	assert.Equal(t, "R101", inv.RoomNights[0].RoomNumber)
	assert.True(t, inv.RoomCharges.Equal(dec("2000")))
	assert.True(t, inv.FoodTotal.Equal(dec("300")))
	assert.Len(t, inv.Payments, 1)
	assert.True(t, inv.Balance.Equal(dec("1800")), inv.Balance.String())
}

func TestGet_NotFound(t *testing.T) {
	db := setupTestDB(t)
	s := newService(t, db)
	_, err := s.Get(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.CheckIn(context.Background(), 42, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
