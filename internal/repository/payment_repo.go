package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"hotelpms/internal/domain"
)

// PaymentRepository is the append-only ledger store. It has no update or
// delete methods.
type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) WithTx(tx *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: tx}
}

func (r *PaymentRepository) Append(ctx context.Context, t *domain.PaymentTransaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *PaymentRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.PaymentTransaction, error) {
	var out []domain.PaymentTransaction
	err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).Order("id").Find(&out).Error
	return out, err
}

func (r *PaymentRepository) ListByFoodOrder(ctx context.Context, orderID int64) ([]domain.PaymentTransaction, error) {
	var out []domain.PaymentTransaction
	err := r.db.WithContext(ctx).Where("food_order_id = ?", orderID).Order("id").Find(&out).Error
	return out, err
}

// ListByFoodOrders fetches entries for several orders at once.
func (r *PaymentRepository) ListByFoodOrders(ctx context.Context, orderIDs []int64) ([]domain.PaymentTransaction, error) {
	var out []domain.PaymentTransaction
	if len(orderIDs) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).Where("food_order_id IN ?", orderIDs).Order("id").Find(&out).Error
	return out, err
}

// ListBetween returns entries created in [from, to).
func (r *PaymentRepository) ListBetween(ctx context.Context, from, to time.Time) ([]domain.PaymentTransaction, error) {
	var out []domain.PaymentTransaction
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from.UTC(), to.UTC()).
		Order("created_at, id").
		Find(&out).Error
	return out, err
}
