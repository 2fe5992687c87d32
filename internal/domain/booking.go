package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const Day = 24 * time.Hour

type Booking struct {
	ID            int64           `json:"id" gorm:"primaryKey"`
	BookingRef    string          `json:"booking_ref" gorm:"size:32;uniqueIndex"`
	CustomerID    int64           `json:"customer_id" gorm:"index;not null"`
	CheckinDate   time.Time       `json:"checkin_date" gorm:"index"`
	CheckoutDate  time.Time       `json:"checkout_date" gorm:"index"`
	Nights        int             `json:"nights"`
	Status        BookingStatus   `json:"status" gorm:"size:16;index"`
	PaymentStatus PaymentStatus   `json:"payment_status" gorm:"size:16;index"`
	TotalAmount   decimal.Decimal `json:"total_amount" gorm:"type:decimal(12,2);default:0"`
	AmountPaid    decimal.Decimal `json:"amount_paid" gorm:"type:decimal(12,2);default:0"`
	AmountDue     decimal.Decimal `json:"amount_due" gorm:"type:decimal(12,2);default:0"`
	RefundAmount  decimal.Decimal `json:"refund_amount" gorm:"type:decimal(12,2);default:0"`
	RefundedAt    *time.Time      `json:"refunded_at,omitempty"`
	CheckinTime   *time.Time      `json:"checkin_time,omitempty"`
	CheckoutTime  *time.Time      `json:"checkout_time,omitempty"`
	Notes         string          `json:"notes,omitempty" gorm:"type:text"`
	CancelledAt   *time.Time      `json:"cancelled_at,omitempty"`

	CancellationReason string `json:"cancellation_reason,omitempty" gorm:"type:text"`

	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Customer *Customer     `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Rooms    []BookingRoom  `json:"rooms,omitempty" gorm:"foreignKey:BookingID"`
	Guests   []BookingGuest `json:"guests,omitempty" gorm:"foreignKey:BookingID"`
}

// ApplyTotals re-projects amount_due and payment_status from the money fields.
func (b *Booking) ApplyTotals() {
	t := Project(b.TotalAmount, b.AmountPaid)
	b.AmountDue = t.AmountDue
	b.PaymentStatus = t.PaymentStatus
}

// RoomIDs returns the ids of the rooms held by the booking, in row order.
func (b *Booking) RoomIDs() []int64 {
	ids := make([]int64, 0, len(b.Rooms))
	for _, r := range b.Rooms {
		ids = append(ids, r.RoomID)
	}
	return ids
}

type BookingRoom struct {
	ID            int64           `json:"id" gorm:"primaryKey"`
	BookingID     int64           `json:"booking_id" gorm:"index;not null"`
	RoomID        int64           `json:"room_id" gorm:"index;not null"`
	PricePerNight decimal.Decimal `json:"price_per_night" gorm:"type:decimal(12,2);default:0"`
	NightlyRates  datatypes.JSON  `json:"nightly_rates,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`

	Room *Room `json:"room,omitempty" gorm:"foreignKey:RoomID"`
}

// Subtotal is the charge for this room over the given number of nights.
func (r BookingRoom) Subtotal(nights int) (decimal.Decimal, error) {
	rates, err := r.Rates()
	if err != nil {
		return decimal.Zero, err
	}
	if len(rates) == 0 {
		return r.PricePerNight.Mul(decimal.NewFromInt(int64(nights))), nil
	}
	return decimal.Sum(decimal.Zero, rates...), nil
}

// Rates decodes the per-night override, nil when none was given.
func (r BookingRoom) Rates() ([]decimal.Decimal, error) {
	if len(r.NightlyRates) == 0 || string(r.NightlyRates) == "null" {
		return nil, nil
	}
	var rates []decimal.Decimal
	if err := json.Unmarshal(r.NightlyRates, &rates); err != nil {
		return nil, fmt.Errorf("decode nightly rates: %w", err)
	}
	return rates, nil
}

// EncodeRates stores a per-night override; an empty slice clears it.
func EncodeRates(rates []decimal.Decimal) (datatypes.JSON, error) {
	if len(rates) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(rates)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

type BookingGuest struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	BookingID     int64     `json:"booking_id" gorm:"index;not null"`
	Name          string    `json:"name" gorm:"size:255;not null"`
	Phone         string    `json:"phone,omitempty" gorm:"size:32"`
	IDProofType   string    `json:"id_proof_type,omitempty" gorm:"size:64"`
	IDProofNumber string    `json:"id_proof_number,omitempty" gorm:"size:128"`
	IsPrimary     bool      `json:"is_primary"`
	CreatedAt     time.Time `json:"created_at"`
}

// Nights counts calendar nights between two dates, rounding partial days up.
func Nights(checkin, checkout time.Time) int {
	d := checkout.Sub(checkin)
	n := int(d / Day)
	if d%Day != 0 {
		n++
	}
	return n
}

// DateOnly truncates t to midnight UTC of its calendar date in t's location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts YYYY-MM-DD or RFC3339 and returns the calendar date.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, Invalid("date is required")
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, Invalid("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return DateOnly(t), nil
}

// BeforeCreate assigns the public booking reference.
func (b *Booking) BeforeCreate(*gorm.DB) error {
	if b.BookingRef == "" {
		b.BookingRef = NewBookingRef()
	}
	return nil
}

// NewBookingRef is a short uppercase code derived from a random uuid.
func NewBookingRef() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "BK" + strings.ToUpper(id[:10])
}
