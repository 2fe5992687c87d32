package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentTransaction is an append-only ledger entry against a booking or a
// food order. Rows are never updated or deleted.
type PaymentTransaction struct {
	ID          int64           `json:"id" gorm:"primaryKey"`
	Reference   string          `json:"reference" gorm:"size:36;uniqueIndex"`
	BookingID   *int64          `json:"booking_id,omitempty" gorm:"index"`
	FoodOrderID *int64          `json:"food_order_id,omitempty" gorm:"index"`
	AmountPaid  decimal.Decimal `json:"amount_paid" gorm:"type:decimal(12,2);not null"`
	PaymentMode PaymentMode     `json:"payment_mode" gorm:"size:32"`
	IsRefund    bool            `json:"is_refund"`
	UserID      int64           `json:"user_id" gorm:"index"`
	CreatedAt   time.Time       `json:"created_at" gorm:"index"`
}

// Signed is the entry's contribution to amount_paid.
func (t PaymentTransaction) Signed() decimal.Decimal {
	if t.IsRefund {
		return t.AmountPaid.Neg()
	}
	return t.AmountPaid
}

func (t *PaymentTransaction) BeforeCreate(*gorm.DB) error {
	if t.Reference == "" {
		t.Reference = uuid.NewString()
	}
	return nil
}
