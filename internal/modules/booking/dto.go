package booking

import (
	"time"

	"github.com/shopspring/decimal"

	"hotelpms/internal/domain"
	"hotelpms/internal/repository"
)

type GuestInput struct {
	Name          string `json:"name" validate:"required"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	IDProofType   string `json:"id_proof_type"`
	IDProofNumber string `json:"id_proof_number"`
	Address       string `json:"address"`
}

type RoomSelection struct {
	RoomID       int64             `json:"room_id" validate:"required,gt=0"`
	NightlyRates []decimal.Decimal `json:"nightly_rates"`
}

type CreateBookingRequest struct {
	PrimaryGuest     GuestInput       `json:"primary_guest"`
	AdditionalGuests []GuestInput     `json:"additional_guests" validate:"dive"`
	Rooms            []RoomSelection  `json:"rooms" validate:"required,min=1,dive"`
	CheckinDate      string           `json:"checkin_date" validate:"required"`
	CheckoutDate     string           `json:"checkout_date" validate:"required"`
	TotalAmount      *decimal.Decimal `json:"total_amount"`
	AmountPaid       *decimal.Decimal `json:"amount_paid"`
	PaymentMode      string           `json:"payment_mode"`
	PaymentStatus    string           `json:"payment_status"`
	ImmediateCheckin bool             `json:"immediate_checkin"`
	Notes            string           `json:"notes"`
}

type UpdateBookingRequest struct {
	Rooms        []RoomSelection  `json:"rooms" validate:"omitempty,min=1,dive"`
	CheckinDate  *string          `json:"checkin_date"`
	CheckoutDate *string          `json:"checkout_date"`
	Status       *string          `json:"status"`
	TotalAmount  *decimal.Decimal `json:"total_amount"`
	Notes        *string          `json:"notes"`
}

type CancelRequest struct {
	RefundAmount *decimal.Decimal `json:"refund_amount"`
	PaymentMode  string           `json:"payment_mode"`
	Reason       string           `json:"reason"`
}

type PaymentRequest struct {
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	PaymentMode   string          `json:"payment_mode"`
	PaymentStatus string          `json:"payment_status"`
}

type ListQuery struct {
	Status        string `form:"status"`
	PaymentStatus string `form:"payment_status"`
	CustomerID    int64  `form:"customer_id"`
	From          string `form:"from"`
	To            string `form:"to"`
	Limit         int    `form:"limit"`
	Offset        int    `form:"offset"`
}

func (q ListQuery) filter() (repository.BookingFilter, error) {
	f := repository.BookingFilter{
		CustomerID: q.CustomerID,
		Page:       repository.Page{Limit: q.Limit, Offset: q.Offset},
	}
	var err error
	if q.Status != "" {
		if f.Status, err = domain.ParseBookingStatus(q.Status); err != nil {
			return f, err
		}
	}
	if q.PaymentStatus != "" {
		if f.PaymentStatus, err = domain.ParsePaymentStatus(q.PaymentStatus); err != nil {
			return f, err
		}
	}
	if q.From != "" {
		from, err := domain.ParseDate(q.From)
		if err != nil {
			return f, err
		}
		f.From = &from
	}
	if q.To != "" {
		to, err := domain.ParseDate(q.To)
		if err != nil {
			return f, err
		}
		f.To = &to
	}
	return f, nil
}

type ListResult struct {
	Bookings []domain.Booking `json:"bookings"`
	Total    int64            `json:"total"`
}

// RoomChange is one room whose stored status was corrected.
type RoomChange struct {
	RoomID     int64             `json:"room_id"`
	RoomNumber string            `json:"room_number"`
	From       domain.RoomStatus `json:"from"`
	To         domain.RoomStatus `json:"to"`
}

type InvoiceNight struct {
	Date       time.Time       `json:"date"`
	RoomNumber string          `json:"room_number"`
	Rate       decimal.Decimal `json:"rate"`
}

type InvoiceFoodOrder struct {
	OrderID    int64                  `json:"order_id"`
	Status     domain.FoodOrderStatus `json:"status"`
	Items      []domain.FoodOrderItem `json:"items"`
	Total      decimal.Decimal        `json:"total"`
	AmountPaid decimal.Decimal        `json:"amount_paid"`
	AmountDue  decimal.Decimal        `json:"amount_due"`
}

type Invoice struct {
	BookingRef    string                      `json:"booking_ref"`
	BookingID     int64                       `json:"booking_id"`
	Customer      *domain.Customer            `json:"customer"`
	CheckinDate   time.Time                   `json:"checkin_date"`
	CheckoutDate  time.Time                   `json:"checkout_date"`
	Nights        int                         `json:"nights"`
	Status        domain.BookingStatus        `json:"status"`
	PaymentStatus domain.PaymentStatus        `json:"payment_status"`
	RoomNights    []InvoiceNight              `json:"room_nights"`
	RoomCharges   decimal.Decimal             `json:"room_charges"`
	RoomTotal     decimal.Decimal             `json:"room_total"`
	RoomPaid      decimal.Decimal             `json:"room_paid"`
	Refunded      decimal.Decimal             `json:"refunded"`
	FoodOrders    []InvoiceFoodOrder          `json:"food_orders"`
	FoodTotal     decimal.Decimal             `json:"food_total"`
	FoodPaid      decimal.Decimal             `json:"food_paid"`
	Payments      []domain.PaymentTransaction `json:"payments"`
	Balance       decimal.Decimal             `json:"balance"`
	GeneratedAt   time.Time                   `json:"generated_at"`
}
