package food

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"hotelpms/internal/domain"
)

// Ledger records food payments inside the caller's transaction.
type Ledger interface {
	AddFoodPayment(ctx context.Context, tx *gorm.DB, o *domain.FoodOrder, amount decimal.Decimal, mode domain.PaymentMode, userID int64) (*domain.PaymentTransaction, error)
}
