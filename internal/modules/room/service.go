package room

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"hotelpms/internal/database"
	"hotelpms/internal/domain"
	"hotelpms/internal/pkg/validator"
	"hotelpms/internal/repository"
)

var errDuplicateNumber = domain.Invalid("room number already exists")

type Service struct {
	rooms *repository.RoomRepository
	log   logrus.FieldLogger
}

func NewService(db *gorm.DB, log logrus.FieldLogger) *Service {
	return &Service{rooms: repository.NewRoomRepository(db), log: log}
}

func (s *Service) Create(ctx context.Context, req CreateRoomRequest) (*domain.Room, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	if req.PricePerNight.IsNegative() {
		return nil, domain.Invalid("price_per_night must not be negative")
	}

	r := &domain.Room{
		RoomNumber:    strings.TrimSpace(req.RoomNumber),
		RoomType:      strings.TrimSpace(req.RoomType),
		PricePerNight: domain.Money(req.PricePerNight),
		Capacity:      req.Capacity,
		Status:        domain.RoomAvailable,
	}
	if err := s.rooms.Create(ctx, r); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, errDuplicateNumber
		}
		return nil, fmt.Errorf("create room: %w", err)
	}
	s.log.WithField("room_id", r.ID).WithField("room_number", r.RoomNumber).Info("room created")
	return r, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateRoomRequest) (*domain.Room, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	r, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.RoomNumber != nil {
		r.RoomNumber = strings.TrimSpace(*req.RoomNumber)
	}
	if req.RoomType != nil {
		r.RoomType = strings.TrimSpace(*req.RoomType)
	}
	if req.PricePerNight != nil {
		if req.PricePerNight.IsNegative() {
			return nil, domain.Invalid("price_per_night must not be negative")
		}
		r.PricePerNight = domain.Money(*req.PricePerNight)
	}
	if req.Capacity != nil {
		r.Capacity = *req.Capacity
	}

	if err := s.rooms.UpdateDetails(ctx, r); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, errDuplicateNumber
		}
		return nil, fmt.Errorf("update room: %w", err)
	}
	return r, nil
}

// Delete refuses rooms still held by an active booking.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.rooms.GetByID(ctx, id); err != nil {
		return err
	}
	busy, err := s.rooms.HasActiveBooking(ctx, id)
	if err != nil {
		return fmt.Errorf("check room bookings: %w", err)
	}
	if busy {
		return domain.Invalid("room %d has active bookings", id)
	}
	if err := s.rooms.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	s.log.WithField("room_id", id).Info("room deleted")
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Room, error) {
	return s.rooms.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]domain.Room, error) {
	f := repository.RoomFilter{RoomType: strings.TrimSpace(q.RoomType)}
	if q.Status != "" {
		status, err := domain.ParseRoomStatus(q.Status)
		if err != nil {
			return nil, err
		}
		f.Status = status
	}
	return s.rooms.List(ctx, f)
}

// Availability lists rooms with no active booking overlapping
// [checkin, checkout).
func (s *Service) Availability(ctx context.Context, q AvailabilityQuery) ([]domain.Room, error) {
	checkin, err := domain.ParseDate(q.Checkin)
	if err != nil {
		return nil, err
	}
	checkout, err := domain.ParseDate(q.Checkout)
	if err != nil {
		return nil, err
	}
	if !checkout.After(checkin) {
		return nil, domain.Invalid("checkout must be after checkin")
	}

	all, err := s.rooms.List(ctx, repository.RoomFilter{})
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(all))
	for i, r := range all {
		ids[i] = r.ID
	}
	taken, err := s.rooms.ConflictingRoomIDs(ctx, ids, checkin, checkout, 0)
	if err != nil {
		return nil, err
	}
	busy := make(map[int64]bool, len(taken))
	for _, id := range taken {
		busy[id] = true
	}

	free := make([]domain.Room, 0, len(all))
	for _, r := range all {
		if !busy[r.ID] {
			free = append(free, r)
		}
	}
	return free, nil
}
