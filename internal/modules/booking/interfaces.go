package booking

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"hotelpms/internal/domain"
)

// Ledger is the write side of the payment ledger. Implementations must
// write only through tx.
type Ledger interface {
	AddBookingPayment(ctx context.Context, tx *gorm.DB, b *domain.Booking, amount decimal.Decimal, mode domain.PaymentMode, userID int64) (*domain.PaymentTransaction, error)
	AddRefund(ctx context.Context, tx *gorm.DB, b *domain.Booking, amount decimal.Decimal, mode domain.PaymentMode, userID int64) (*domain.PaymentTransaction, error)
}
