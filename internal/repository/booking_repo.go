package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"hotelpms/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) WithTx(tx *gorm.DB) *BookingRepository {
	return &BookingRepository{db: tx}
}

type BookingFilter struct {
	Status        domain.BookingStatus
	PaymentStatus domain.PaymentStatus
	CustomerID    int64
	From          *time.Time
	To            *time.Time
	Page          Page
}

// bookingState are the columns a transition may change.
var bookingState = []string{
	"status", "payment_status", "total_amount", "amount_paid", "amount_due",
	"refund_amount", "refunded_at", "checkin_time", "checkout_time",
	"checkin_date", "checkout_date", "nights", "notes",
	"cancelled_at", "cancellation_reason",
}

// Create inserts the booking with its rooms and guests.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Rooms", orderByID).
		Preload("Rooms.Room").
		Preload("Guests", orderByID).
		First(&b, id).Error
	if err != nil {
		return nil, mapNotFound(err, "booking", id)
	}
	return &b, nil
}

// GetForUpdate re-reads the booking under a row lock. Transitions call it
// first so concurrent requests on one booking serialise.
func (r *BookingRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	err := forUpdate(r.db.WithContext(ctx)).
		Preload("Rooms", orderByID).
		First(&b, id).Error
	if err != nil {
		return nil, mapNotFound(err, "booking", id)
	}
	return &b, nil
}

func (r *BookingRepository) SaveState(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Model(b).Select(bookingState).Updates(b).Error
}

func (r *BookingRepository) AddRooms(ctx context.Context, rooms []domain.BookingRoom) error {
	if len(rooms) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Room").Create(&rooms).Error
}

func (r *BookingRepository) RemoveRooms(ctx context.Context, bookingID int64, roomIDs []int64) error {
	if len(roomIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("booking_id = ? AND room_id IN ?", bookingID, roomIDs).
		Delete(&domain.BookingRoom{}).Error
}

func (r *BookingRepository) UpdateRoomRates(ctx context.Context, br *domain.BookingRoom) error {
	return r.db.WithContext(ctx).Model(br).Select("nightly_rates").Updates(br).Error
}

func (r *BookingRepository) List(ctx context.Context, f BookingFilter) ([]domain.Booking, int64, error) {
	page := f.Page.normalize()
	q := r.db.WithContext(ctx).Model(&domain.Booking{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.PaymentStatus != "" {
		q = q.Where("payment_status = ?", f.PaymentStatus)
	}
	if f.CustomerID != 0 {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	// stays touching the window
	if f.From != nil {
		q = q.Where("checkout_date > ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("checkin_date < ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.Booking
	err := q.Preload("Customer").
		Preload("Rooms", orderByID).
		Preload("Rooms.Room").
		Order("checkin_date DESC, id DESC").
		Limit(page.Limit).Offset(page.Offset).
		Find(&out).Error
	return out, total, err
}

func (r *BookingRepository) AllIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).Order("id").Pluck("id", &ids).Error
	return ids, err
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}
