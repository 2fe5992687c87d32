package domain

import "strings"

type BookingStatus string

const (
	BookingUpcoming   BookingStatus = "Upcoming"
	BookingCheckedIn  BookingStatus = "Checked-in"
	BookingCheckedOut BookingStatus = "Checked-out"
	BookingCancelled  BookingStatus = "Cancelled"
	BookingBooked     BookingStatus = "Booked"
)

// ActiveBookingStatuses reserve or occupy their rooms.
var ActiveBookingStatuses = []BookingStatus{BookingUpcoming, BookingCheckedIn, BookingBooked}

func (s BookingStatus) String() string { return string(s) }

func (s BookingStatus) IsActive() bool {
	return s == BookingUpcoming || s == BookingCheckedIn || s == BookingBooked
}

// AwaitingArrival is true for bookings that hold rooms but have not checked in.
func (s BookingStatus) AwaitingArrival() bool {
	return s == BookingUpcoming || s == BookingBooked
}

func (s BookingStatus) CanCheckIn() bool { return s.AwaitingArrival() }

func (s BookingStatus) CanCheckOut() bool { return s == BookingCheckedIn }

func (s BookingStatus) CanCancel() bool { return s.AwaitingArrival() || s == BookingCheckedIn }

// CanBecome lists the forward moves of a booking. Checked-out and Cancelled
// are final.
func (s BookingStatus) CanBecome(next BookingStatus) bool {
	switch next {
	case BookingCheckedIn:
		return s.CanCheckIn()
	case BookingCheckedOut:
		return s.CanCheckOut()
	case BookingCancelled:
		return s.CanCancel()
	default:
		return false
	}
}

// RoomStatus is the status a room takes while this booking holds it.
func (s BookingStatus) RoomStatus() RoomStatus {
	switch s {
	case BookingCheckedIn:
		return RoomOccupied
	case BookingCheckedOut, BookingCancelled:
		return RoomAvailable
	default:
		return RoomBooked
	}
}

var bookingStatusByKey = map[string]BookingStatus{
	"upcoming":   BookingUpcoming,
	"checkedin":  BookingCheckedIn,
	"checkin":    BookingCheckedIn,
	"checkedout": BookingCheckedOut,
	"checkout":   BookingCheckedOut,
	"cancelled":  BookingCancelled,
	"canceled":   BookingCancelled,
	"booked":     BookingBooked,
}

func ParseBookingStatus(raw string) (BookingStatus, error) {
	if s, ok := bookingStatusByKey[statusKey(raw)]; ok {
		return s, nil
	}
	return "", Invalid("invalid booking status %q", raw)
}

type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "UNPAID"
	PaymentPartial PaymentStatus = "PARTIAL"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentRefund  PaymentStatus = "REFUND"
)

func (s PaymentStatus) String() string { return string(s) }

var paymentStatusByKey = map[string]PaymentStatus{
	"unpaid":        PaymentUnpaid,
	"partial":       PaymentPartial,
	"partiallypaid": PaymentPartial,
	"paid":          PaymentPaid,
	"refund":        PaymentRefund,
	"refunded":      PaymentRefund,
}

func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	if s, ok := paymentStatusByKey[statusKey(raw)]; ok {
		return s, nil
	}
	return "", Invalid("invalid payment status %q", raw)
}

type RoomStatus string

const (
	RoomAvailable RoomStatus = "Available"
	RoomBooked    RoomStatus = "Booked"
	RoomOccupied  RoomStatus = "Occupied"
)

func (s RoomStatus) String() string { return string(s) }

var roomStatusByKey = map[string]RoomStatus{
	"available": RoomAvailable,
	"booked":    RoomBooked,
	"occupied":  RoomOccupied,
}

func ParseRoomStatus(raw string) (RoomStatus, error) {
	if s, ok := roomStatusByKey[statusKey(raw)]; ok {
		return s, nil
	}
	return "", Invalid("invalid room status %q", raw)
}

type FoodOrderStatus string

const (
	FoodOrderPending   FoodOrderStatus = "pending"
	FoodOrderPreparing FoodOrderStatus = "preparing"
	FoodOrderDelivered FoodOrderStatus = "delivered"
	FoodOrderCancelled FoodOrderStatus = "cancelled"
)

func (s FoodOrderStatus) String() string { return string(s) }

// IsOpen reports whether items may still change.
func (s FoodOrderStatus) IsOpen() bool {
	return s == FoodOrderPending || s == FoodOrderPreparing
}

// CanBecome lists the forward moves of a food order.
func (s FoodOrderStatus) CanBecome(next FoodOrderStatus) bool {
	switch s {
	case FoodOrderPending:
		return next == FoodOrderPreparing || next == FoodOrderDelivered || next == FoodOrderCancelled
	case FoodOrderPreparing:
		return next == FoodOrderDelivered || next == FoodOrderCancelled
	default:
		return false
	}
}

var foodOrderStatusByKey = map[string]FoodOrderStatus{
	"pending":   FoodOrderPending,
	"preparing": FoodOrderPreparing,
	"delivered": FoodOrderDelivered,
	"cancelled": FoodOrderCancelled,
	"canceled":  FoodOrderCancelled,
}

func ParseFoodOrderStatus(raw string) (FoodOrderStatus, error) {
	if s, ok := foodOrderStatusByKey[statusKey(raw)]; ok {
		return s, nil
	}
	return "", Invalid("invalid food order status %q", raw)
}

type PaymentMode string

const (
	PaymentModeCash         PaymentMode = "Cash"
	PaymentModeCard         PaymentMode = "Card"
	PaymentModeUPI          PaymentMode = "UPI"
	PaymentModeBankTransfer PaymentMode = "Bank Transfer"
	PaymentModeOnline       PaymentMode = "Online"
)

// PaymentModes is the reporting order of payment modes.
var PaymentModes = []PaymentMode{
	PaymentModeCash,
	PaymentModeCard,
	PaymentModeUPI,
	PaymentModeBankTransfer,
	PaymentModeOnline,
}

var paymentModeByKey = map[string]PaymentMode{
	"cash":         PaymentModeCash,
	"card":         PaymentModeCard,
	"creditcard":   PaymentModeCard,
	"debitcard":    PaymentModeCard,
	"upi":          PaymentModeUPI,
	"banktransfer": PaymentModeBankTransfer,
	"bank":         PaymentModeBankTransfer,
	"online":       PaymentModeOnline,
}

func ParsePaymentMode(raw string) (PaymentMode, error) {
	if strings.TrimSpace(raw) == "" {
		return "", Invalid("payment_mode is required")
	}
	if m, ok := paymentModeByKey[statusKey(raw)]; ok {
		return m, nil
	}
	return "", Invalid("invalid payment mode %q", raw)
}

// statusKey folds case and drops separators so "CHECKED_OUT", "checked-out"
// and "Checked Out" compare equal.
func statusKey(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		switch r {
		case ' ', '-', '_', '\t':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
