package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"hotelpms/internal/domain"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// WithTx scopes the repository to an open transaction.
func (r *RoomRepository) WithTx(tx *gorm.DB) *RoomRepository {
	return &RoomRepository{db: tx}
}

type RoomFilter struct {
	Status   domain.RoomStatus
	RoomType string
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

// UpdateDetails writes everything but status, which bookings own.
func (r *RoomRepository) UpdateDetails(ctx context.Context, room *domain.Room) error {
	return r.db.WithContext(ctx).Model(room).
		Select("room_number", "room_type", "price_per_night", "capacity").
		Updates(room).Error
}

func (r *RoomRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Room{}, id).Error
}

func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	var room domain.Room
	if err := r.db.WithContext(ctx).First(&room, id).Error; err != nil {
		return nil, mapNotFound(err, "room", id)
	}
	return &room, nil
}

// FindByIDs returns the rooms that exist among ids, locking them for update.
func (r *RoomRepository) FindByIDs(ctx context.Context, ids []int64) ([]domain.Room, error) {
	var rooms []domain.Room
	if len(ids) == 0 {
		return rooms, nil
	}
	err := forUpdate(r.db.WithContext(ctx)).Where("id IN ?", ids).Order("id").Find(&rooms).Error
	return rooms, err
}

func (r *RoomRepository) List(ctx context.Context, f RoomFilter) ([]domain.Room, error) {
	q := r.db.WithContext(ctx).Model(&domain.Room{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.RoomType != "" {
		q = q.Where("LOWER(room_type) = LOWER(?)", f.RoomType)
	}
	var rooms []domain.Room
	err := q.Order("room_number").Find(&rooms).Error
	return rooms, err
}

func (r *RoomRepository) SetStatus(ctx context.Context, ids []int64, status domain.RoomStatus) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&domain.Room{}).
		Where("id IN ?", ids).
		Update("status", status).Error
}

// DerivedStatuses computes each room's status from the active bookings
// holding it: Occupied if one is checked in, Booked if one is waiting,
// Available otherwise.
func (r *RoomRepository) DerivedStatuses(ctx context.Context, ids []int64) (map[int64]domain.RoomStatus, error) {
	out := make(map[int64]domain.RoomStatus, len(ids))
	for _, id := range ids {
		out[id] = domain.RoomAvailable
	}
	if len(ids) == 0 {
		return out, nil
	}

	var rows []struct {
		RoomID int64
		Status domain.BookingStatus
	}
	err := r.db.WithContext(ctx).
		Table("booking_rooms").
		Select("booking_rooms.room_id, bookings.status").
		Joins("JOIN bookings ON bookings.id = booking_rooms.booking_id").
		Where("booking_rooms.room_id IN ?", ids).
		Where("bookings.status IN ?", domain.ActiveBookingStatuses).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		next := row.Status.RoomStatus()
		if out[row.RoomID] == domain.RoomOccupied {
			continue
		}
		out[row.RoomID] = next
	}
	return out, nil
}

// ConflictingRoomIDs returns which of ids are held by an active booking whose
// stay overlaps [checkin, checkout). excludeBookingID skips the booking being
// edited.
func (r *RoomRepository) ConflictingRoomIDs(ctx context.Context, ids []int64, checkin, checkout time.Time, excludeBookingID int64) ([]int64, error) {
	var conflicts []int64
	if len(ids) == 0 {
		return conflicts, nil
	}
	q := r.db.WithContext(ctx).
		Table("booking_rooms").
		Distinct("booking_rooms.room_id").
		Joins("JOIN bookings ON bookings.id = booking_rooms.booking_id").
		Where("booking_rooms.room_id IN ?", ids).
		Where("bookings.status IN ?", domain.ActiveBookingStatuses).
		Where("bookings.checkin_date < ? AND bookings.checkout_date > ?", checkout, checkin)
	if excludeBookingID != 0 {
		q = q.Where("bookings.id <> ?", excludeBookingID)
	}
	err := q.Order("booking_rooms.room_id").Pluck("booking_rooms.room_id", &conflicts).Error
	return conflicts, err
}

// HasActiveBooking reports whether any active booking references the room.
func (r *RoomRepository) HasActiveBooking(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Table("booking_rooms").
		Joins("JOIN bookings ON bookings.id = booking_rooms.booking_id").
		Where("booking_rooms.room_id = ?", id).
		Where("bookings.status IN ?", domain.ActiveBookingStatuses).
		Count(&n).Error
	return n > 0, err
}

func (r *RoomRepository) AllIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&domain.Room{}).Order("id").Pluck("id", &ids).Error
	return ids, err
}
