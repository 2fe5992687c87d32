package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"hotelpms/internal/domain"
	"hotelpms/internal/repository"
)

// Service appends payment and refund entries and keeps the running totals of
// bookings and food orders equal to the ledger sum. Every write takes the
// caller's transaction so the entry and the totals commit together.
type Service struct {
	db       *gorm.DB
	payments *repository.PaymentRepository
	bookings *repository.BookingRepository
	food     *repository.FoodRepository
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewService(db *gorm.DB, log logrus.FieldLogger) *Service {
	return &Service{
		db:       db,
		payments: repository.NewPaymentRepository(db),
		bookings: repository.NewBookingRepository(db),
		food:     repository.NewFoodRepository(db),
		log:      log,
		now:      time.Now,
	}
}

// SetClock overrides the time source used for entry timestamps.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Service) Now() time.Time {
	return s.now().UTC()
}

// AddBookingPayment records a payment against b, which the caller has read
// under lock inside tx.
func (s *Service) AddBookingPayment(ctx context.Context, tx *gorm.DB, b *domain.Booking, amount decimal.Decimal, mode domain.PaymentMode, userID int64) (*domain.PaymentTransaction, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if b.Status == domain.BookingCancelled {
		return nil, domain.Invalid("cannot record a payment on a cancelled booking")
	}

	b.AmountPaid = domain.Money(b.AmountPaid.Add(amount))
	b.ApplyTotals()
	if err := s.bookings.WithTx(tx).SaveState(ctx, b); err != nil {
		return nil, fmt.Errorf("save booking totals: %w", err)
	}

	entry := &domain.PaymentTransaction{
		BookingID:   &b.ID,
		AmountPaid:  domain.Money(amount),
		PaymentMode: mode,
		UserID:      userID,
		CreatedAt:   s.Now(),
	}
	if err := s.payments.WithTx(tx).Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("append ledger entry: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"booking_id":     b.ID,
		"amount":         entry.AmountPaid.String(),
		"mode":           mode,
		"user_id":        userID,
		"payment_status": b.PaymentStatus,
	}).Info("booking payment recorded")
	return entry, nil
}

// AddRefund returns money on b. The refund may not exceed what was paid.
func (s *Service) AddRefund(ctx context.Context, tx *gorm.DB, b *domain.Booking, amount decimal.Decimal, mode domain.PaymentMode, userID int64) (*domain.PaymentTransaction, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if amount.GreaterThan(b.AmountPaid) {
		return nil, domain.Invalid("refund amount %s exceeds amount paid %s", amount.StringFixed(2), b.AmountPaid.StringFixed(2))
	}

	now := s.Now()
	b.AmountPaid = domain.Money(b.AmountPaid.Sub(amount))
	b.RefundAmount = domain.Money(b.RefundAmount.Add(amount))
	b.RefundedAt = &now
	b.ApplyTotals()
	if err := s.bookings.WithTx(tx).SaveState(ctx, b); err != nil {
		return nil, fmt.Errorf("save booking totals: %w", err)
	}

	entry := &domain.PaymentTransaction{
		BookingID:   &b.ID,
		AmountPaid:  domain.Money(amount),
		PaymentMode: mode,
		IsRefund:    true,
		UserID:      userID,
		CreatedAt:   now,
	}
	if err := s.payments.WithTx(tx).Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("append refund entry: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"booking_id": b.ID,
		"amount":     entry.AmountPaid.String(),
		"mode":       mode,
		"user_id":    userID,
	}).Info("booking refund recorded")
	return entry, nil
}

// AddFoodPayment records a payment against a food order read under lock.
func (s *Service) AddFoodPayment(ctx context.Context, tx *gorm.DB, o *domain.FoodOrder, amount decimal.Decimal, mode domain.PaymentMode, userID int64) (*domain.PaymentTransaction, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if o.Status == domain.FoodOrderCancelled {
		return nil, domain.Invalid("cannot record a payment on a cancelled food order")
	}

	o.AmountPaid = domain.Money(o.AmountPaid.Add(amount))
	o.ApplyTotals()
	if err := s.food.WithTx(tx).SaveOrderState(ctx, o); err != nil {
		return nil, fmt.Errorf("save food order totals: %w", err)
	}

	entry := &domain.PaymentTransaction{
		FoodOrderID: &o.ID,
		AmountPaid:  domain.Money(amount),
		PaymentMode: mode,
		UserID:      userID,
		CreatedAt:   s.Now(),
	}
	if err := s.payments.WithTx(tx).Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("append ledger entry: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"food_order_id":  o.ID,
		"amount":         entry.AmountPaid.String(),
		"mode":           mode,
		"user_id":        userID,
		"payment_status": o.PaymentStatus,
	}).Info("food payment recorded")
	return entry, nil
}

func (s *Service) ListForBooking(ctx context.Context, bookingID int64) ([]domain.PaymentTransaction, error) {
	if _, err := s.bookings.GetByID(ctx, bookingID); err != nil {
		return nil, err
	}
	return s.payments.ListByBooking(ctx, bookingID)
}

func (s *Service) ListForFoodOrder(ctx context.Context, orderID int64) ([]domain.PaymentTransaction, error) {
	if _, err := s.food.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return s.payments.ListByFoodOrder(ctx, orderID)
}

// Sum is the net amount of entries: payments minus refunds.
func Sum(entries []domain.PaymentTransaction) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Signed())
	}
	return total
}

// VerifyBooking compares a booking's amount_paid with its ledger sum.
// It returns nil when they agree.
func (s *Service) VerifyBooking(ctx context.Context, bookingID int64) (*Mismatch, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	entries, err := s.payments.ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	sum := Sum(entries)
	if sum.Equal(b.AmountPaid) {
		return nil, nil
	}
	return &Mismatch{Kind: KindBooking, ID: b.ID, Recorded: b.AmountPaid, LedgerSum: sum}, nil
}

// VerifyAll checks every booking and food order.
func (s *Service) VerifyAll(ctx context.Context) ([]Mismatch, error) {
	ids, err := s.bookings.AllIDs(ctx)
	if err != nil {
		return nil, err
	}
	var out []Mismatch
	for _, id := range ids {
		m, err := s.VerifyBooking(ctx, id)
		if err != nil {
			return nil, err
		}
		if m != nil {
			out = append(out, *m)
		}
	}

	orders, err := s.food.ListOrders(ctx, 0)
	if err != nil {
		return nil, err
	}
	orderIDs := make([]int64, 0, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
	}
	entries, err := s.payments.ListByFoodOrders(ctx, orderIDs)
	if err != nil {
		return nil, err
	}
	sums := make(map[int64]decimal.Decimal, len(orders))
	for _, e := range entries {
		sums[*e.FoodOrderID] = sums[*e.FoodOrderID].Add(e.Signed())
	}
	for _, o := range orders {
		if !sums[o.ID].Equal(o.AmountPaid) {
			out = append(out, Mismatch{Kind: KindFoodOrder, ID: o.ID, Recorded: o.AmountPaid, LedgerSum: sums[o.ID]})
		}
	}
	return out, nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domain.Invalid("amount must be greater than 0")
	}
	if !amount.Equal(domain.Money(amount)) {
		return domain.Invalid("amount must have at most 2 decimal places")
	}
	return nil
}
