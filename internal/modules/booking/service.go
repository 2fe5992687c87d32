package booking

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"hotelpms/internal/domain"
	"hotelpms/internal/pkg/validator"
	"hotelpms/internal/repository"
)

// Service is the booking state controller. Each operation runs in a single
// transaction that first locks the booking row, so a failed step leaves
// booking, rooms and ledger exactly as they were.
type Service struct {
	db        *gorm.DB
	bookings  *repository.BookingRepository
	rooms     *repository.RoomRepository
	customers *repository.CustomerRepository
	food      *repository.FoodRepository
	payments  *repository.PaymentRepository
	ledger    Ledger
	log       logrus.FieldLogger
	loc       *time.Location
	now       func() time.Time
}

func NewService(db *gorm.DB, ledger Ledger, loc *time.Location, log logrus.FieldLogger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		db:        db,
		bookings:  repository.NewBookingRepository(db),
		rooms:     repository.NewRoomRepository(db),
		customers: repository.NewCustomerRepository(db),
		food:      repository.NewFoodRepository(db),
		payments:  repository.NewPaymentRepository(db),
		ledger:    ledger,
		log:       log,
		loc:       loc,
		now:       time.Now,
	}
}

func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// today is the hotel's calendar date.
func (s *Service) today() time.Time {
	return domain.DateOnly(s.now().In(s.loc))
}

func (s *Service) Create(ctx context.Context, req CreateBookingRequest, userID int64) (*domain.Booking, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	primary := req.PrimaryGuest
	if strings.TrimSpace(primary.Name) == "" || strings.TrimSpace(primary.Phone) == "" {
		return nil, domain.InvalidFields("primary guest name and phone are required", map[string]string{
			"primary_guest": "required",
		})
	}

	checkin, checkout, nights, err := parseStay(req.CheckinDate, req.CheckoutDate)
	if err != nil {
		return nil, err
	}
	roomIDs, err := selectionIDs(req.Rooms)
	if err != nil {
		return nil, err
	}
	for _, sel := range req.Rooms {
		if err := checkRates(sel.NightlyRates, nights); err != nil {
			return nil, err
		}
	}

	paid := decimal.Zero
	if req.AmountPaid != nil {
		paid = *req.AmountPaid
	}
	if paid.IsNegative() {
		return nil, domain.Invalid("amount_paid must not be negative")
	}
	var mode domain.PaymentMode
	if paid.IsPositive() {
		if mode, err = domain.ParsePaymentMode(req.PaymentMode); err != nil {
			return nil, err
		}
	}
	var wantStatus domain.PaymentStatus
	if req.PaymentStatus != "" {
		if wantStatus, err = domain.ParsePaymentStatus(req.PaymentStatus); err != nil {
			return nil, err
		}
	}
	if req.TotalAmount != nil && req.TotalAmount.IsNegative() {
		return nil, domain.Invalid("total_amount must not be negative")
	}

	var bookingID int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rooms, err := s.lockRooms(ctx, tx, roomIDs)
		if err != nil {
			return err
		}
		if err := s.ensureFree(ctx, tx, rooms, checkin, checkout, 0); err != nil {
			return err
		}

		customer, err := s.findOrCreateCustomer(ctx, tx, primary)
		if err != nil {
			return err
		}

		b := &domain.Booking{
			CustomerID:   customer.ID,
			CheckinDate:  checkin,
			CheckoutDate: checkout,
			Nights:       nights,
			Status:       domain.BookingUpcoming,
			Notes:        strings.TrimSpace(req.Notes),
			CreatedBy:    userID,
		}
		if req.ImmediateCheckin && checkin.Equal(s.today()) {
			now := s.now().UTC()
			b.Status = domain.BookingCheckedIn
			b.CheckinTime = &now
		}

		b.Rooms, err = buildRoomRows(rooms, req.Rooms)
		if err != nil {
			return err
		}
		b.Guests = buildGuests(primary, req.AdditionalGuests)

		if req.TotalAmount != nil {
			b.TotalAmount = domain.Money(*req.TotalAmount)
		} else if b.TotalAmount, err = roomCharges(b.Rooms, nights); err != nil {
			return err
		}
		b.ApplyTotals()

		if err := s.bookings.WithTx(tx).Create(ctx, b); err != nil {
			return fmt.Errorf("create booking: %w", err)
		}

		if paid.IsPositive() {
			if _, err := s.ledger.AddBookingPayment(ctx, tx, b, paid, mode, userID); err != nil {
				return err
			}
		}
		if wantStatus != "" && wantStatus != b.PaymentStatus {
			return domain.Invalid("payment_status %s does not match amounts paid (%s)", wantStatus, b.PaymentStatus)
		}

		if _, err := s.syncRooms(ctx, tx, roomIDs); err != nil {
			return err
		}
		bookingID = b.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"booking_id": b.ID,
		"status":     b.Status,
		"rooms":      roomIDs,
		"total":      b.TotalAmount.String(),
		"user_id":    userID,
	}).Info("booking created")
	return b, nil
}

func (s *Service) CheckIn(ctx context.Context, id, userID int64) (*domain.Booking, error) {
	return s.transition(ctx, id, userID, "check in", func(b *domain.Booking) error {
		if !b.Status.CanCheckIn() {
			return errTransition("check in", b.Status)
		}
		now := s.now().UTC()
		b.Status = domain.BookingCheckedIn
		b.CheckinTime = &now
		return nil
	})
}

func (s *Service) CheckOut(ctx context.Context, id, userID int64) (*domain.Booking, error) {
	return s.transition(ctx, id, userID, "check out", func(b *domain.Booking) error {
		if !b.Status.CanCheckOut() {
			return errTransition("check out", b.Status)
		}
		now := s.now().UTC()
		b.Status = domain.BookingCheckedOut
		b.CheckoutTime = &now
		return nil
	})
}

// transition applies a status change that touches only the booking row and
// the statuses of its rooms.
func (s *Service) transition(ctx context.Context, id, userID int64, action string, apply func(*domain.Booking) error) (*domain.Booking, error) {
	var from, to domain.BookingStatus
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := s.bookings.WithTx(tx).GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		from = b.Status
		if err := apply(b); err != nil {
			return err
		}
		to = b.Status
		if err := s.bookings.WithTx(tx).SaveState(ctx, b); err != nil {
			return fmt.Errorf("%s: save booking: %w", action, err)
		}
		if _, err := s.syncRooms(ctx, tx, b.RoomIDs()); err != nil {
			return fmt.Errorf("%s: %w", action, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"booking_id": id,
		"from":       from,
		"to":         to,
		"user_id":    userID,
	}).Info("booking status changed")
	return s.bookings.GetByID(ctx, id)
}

func (s *Service) Cancel(ctx context.Context, id int64, req CancelRequest, userID int64) (*domain.Booking, error) {
	refund := decimal.Zero
	if req.RefundAmount != nil {
		refund = *req.RefundAmount
	}
	if refund.IsNegative() {
		return nil, domain.Invalid("refund_amount must not be negative")
	}
	var mode domain.PaymentMode
	if refund.IsPositive() {
		var err error
		if mode, err = domain.ParsePaymentMode(req.PaymentMode); err != nil {
			return nil, err
		}
	}

	var from domain.BookingStatus
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := s.bookings.WithTx(tx).GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		from = b.Status
		if !b.Status.CanCancel() {
			return errTransition("cancel", b.Status)
		}
		if refund.GreaterThan(b.AmountPaid) {
			return domain.Invalid("refund amount %s exceeds amount paid %s", refund.StringFixed(2), b.AmountPaid.StringFixed(2))
		}

		hadPayment := b.PaymentStatus == domain.PaymentPaid || b.PaymentStatus == domain.PaymentPartial
		if refund.IsPositive() {
			if _, err := s.ledger.AddRefund(ctx, tx, b, refund, mode, userID); err != nil {
				return err
			}
		}

		now := s.now().UTC()
		b.Status = domain.BookingCancelled
		b.CancelledAt = &now
		b.CancellationReason = strings.TrimSpace(req.Reason)
		if hadPayment {
			b.PaymentStatus = domain.PaymentRefund
		}
		if err := s.bookings.WithTx(tx).SaveState(ctx, b); err != nil {
			return fmt.Errorf("cancel: save booking: %w", err)
		}
		if _, err := s.syncRooms(ctx, tx, b.RoomIDs()); err != nil {
			return fmt.Errorf("cancel: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"booking_id": id,
		"from":       from,
		"to":         domain.BookingCancelled,
		"refund":     refund.String(),
		"user_id":    userID,
	}).Info("booking cancelled")
	return s.bookings.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateBookingRequest, userID int64) (*domain.Booking, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	var newStatus domain.BookingStatus
	if req.Status != nil {
		var err error
		if newStatus, err = domain.ParseBookingStatus(*req.Status); err != nil {
			return nil, err
		}
	}
	if req.TotalAmount != nil && req.TotalAmount.IsNegative() {
		return nil, domain.Invalid("total_amount must not be negative")
	}

	var from domain.BookingStatus
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bookings := s.bookings.WithTx(tx)
		b, err := bookings.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		from = b.Status
		if b.Status == domain.BookingCancelled {
			return errBookingCancelled
		}
		if b.Status == domain.BookingCheckedOut && (req.Rooms != nil || req.CheckinDate != nil || req.CheckoutDate != nil) {
			return errBookingClosed
		}

		oldRoomIDs := b.RoomIDs()
		stayChanged := false

		if req.CheckinDate != nil || req.CheckoutDate != nil {
			in, out := b.CheckinDate.Format("2006-01-02"), b.CheckoutDate.Format("2006-01-02")
			if req.CheckinDate != nil {
				in = *req.CheckinDate
			}
			if req.CheckoutDate != nil {
				out = *req.CheckoutDate
			}
			checkin, checkout, nights, err := parseStay(in, out)
			if err != nil {
				return err
			}
			if nights != b.Nights {
				for i := range b.Rooms {
					b.Rooms[i].NightlyRates = nil
				}
			}
			stayChanged = !checkin.Equal(b.CheckinDate) || !checkout.Equal(b.CheckoutDate)
			b.CheckinDate, b.CheckoutDate, b.Nights = checkin, checkout, nights
		}

		var added []domain.BookingRoom
		var removed []int64
		if req.Rooms != nil {
			if added, removed, err = s.diffRooms(ctx, tx, b, req.Rooms); err != nil {
				return err
			}
			stayChanged = stayChanged || len(added) > 0 || len(removed) > 0
		}
		for _, br := range b.Rooms {
			if err := checkRates(mustRates(br), b.Nights); err != nil {
				return err
			}
		}

		if stayChanged {
			held, err := s.rooms.WithTx(tx).FindByIDs(ctx, b.RoomIDs())
			if err != nil {
				return err
			}
			if err := s.ensureFree(ctx, tx, held, b.CheckinDate, b.CheckoutDate, b.ID); err != nil {
				return err
			}
		}

		switch {
		case req.TotalAmount != nil:
			b.TotalAmount = domain.Money(*req.TotalAmount)
		case stayChanged:
			if b.TotalAmount, err = roomCharges(b.Rooms, b.Nights); err != nil {
				return err
			}
		}
		b.ApplyTotals()

		if req.Notes != nil {
			b.Notes = strings.TrimSpace(*req.Notes)
		}

		if newStatus != "" && newStatus != b.Status {
			if err := s.applyStatus(b, newStatus); err != nil {
				return err
			}
		}

		if err := bookings.SaveState(ctx, b); err != nil {
			return fmt.Errorf("update booking: %w", err)
		}
		if err := bookings.RemoveRooms(ctx, b.ID, removed); err != nil {
			return fmt.Errorf("update booking rooms: %w", err)
		}
		if err := bookings.AddRooms(ctx, added); err != nil {
			return fmt.Errorf("update booking rooms: %w", err)
		}
		for i := range b.Rooms {
			if b.Rooms[i].ID == 0 {
				continue
			}
			if err := bookings.UpdateRoomRates(ctx, &b.Rooms[i]); err != nil {
				return fmt.Errorf("update booking rooms: %w", err)
			}
		}

		if _, err := s.syncRooms(ctx, tx, union(oldRoomIDs, b.RoomIDs())); err != nil {
			return fmt.Errorf("update booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"booking_id": id,
		"from":       from,
		"user_id":    userID,
	}).Info("booking updated")
	return s.bookings.GetByID(ctx, id)
}

// applyStatus handles a status set directly by an edit.
func (s *Service) applyStatus(b *domain.Booking, next domain.BookingStatus) error {
	if !b.Status.CanBecome(next) {
		return domain.Invalid("cannot change booking status from %s to %s", b.Status, next)
	}
	now := s.now().UTC()
	switch next {
	case domain.BookingCheckedOut:
		if b.PaymentStatus != domain.PaymentPaid {
			return errCheckoutUnpaid
		}
		if b.CheckoutTime == nil {
			b.CheckoutTime = &now
		}
	case domain.BookingCheckedIn:
		if b.CheckinTime == nil {
			b.CheckinTime = &now
		}
	case domain.BookingCancelled:
		b.CancelledAt = &now
		if b.AmountPaid.IsPositive() {
			b.PaymentStatus = domain.PaymentRefund
		}
	}
	b.Status = next
	return nil
}

// diffRooms replaces b.Rooms with the requested selection and reports the
// rows to insert and the room ids to drop.
func (s *Service) diffRooms(ctx context.Context, tx *gorm.DB, b *domain.Booking, sel []RoomSelection) ([]domain.BookingRoom, []int64, error) {
	ids, err := selectionIDs(sel)
	if err != nil {
		return nil, nil, err
	}
	existing := make(map[int64]domain.BookingRoom, len(b.Rooms))
	for _, br := range b.Rooms {
		existing[br.RoomID] = br
	}

	var newIDs []int64
	for _, id := range ids {
		if _, ok := existing[id]; !ok {
			newIDs = append(newIDs, id)
		}
	}
	newRooms, err := s.lockRooms(ctx, tx, newIDs)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[int64]domain.Room, len(newRooms))
	for _, r := range newRooms {
		byID[r.ID] = r
	}

	keep := make(map[int64]bool, len(ids))
	rows := make([]domain.BookingRoom, 0, len(sel))
	var added []domain.BookingRoom
	for _, item := range sel {
		keep[item.RoomID] = true
		if br, ok := existing[item.RoomID]; ok {
			if item.NightlyRates != nil {
				if br.NightlyRates, err = domain.EncodeRates(item.NightlyRates); err != nil {
					return nil, nil, err
				}
			}
			rows = append(rows, br)
			continue
		}
		room := byID[item.RoomID]
		br, err := newRoomRow(room, item.NightlyRates)
		if err != nil {
			return nil, nil, err
		}
		br.BookingID = b.ID
		added = append(added, br)
		rows = append(rows, br)
	}

	var removed []int64
	for _, br := range b.Rooms {
		if !keep[br.RoomID] {
			removed = append(removed, br.RoomID)
		}
	}
	b.Rooms = rows
	return added, removed, nil
}

func (s *Service) AddPayment(ctx context.Context, id int64, req PaymentRequest, userID int64) (*domain.Booking, *domain.PaymentTransaction, error) {
	mode, err := domain.ParsePaymentMode(req.PaymentMode)
	if err != nil {
		return nil, nil, err
	}
	var want domain.PaymentStatus
	if req.PaymentStatus != "" {
		if want, err = domain.ParsePaymentStatus(req.PaymentStatus); err != nil {
			return nil, nil, err
		}
	}

	var entry *domain.PaymentTransaction
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := s.bookings.WithTx(tx).GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if entry, err = s.ledger.AddBookingPayment(ctx, tx, b, req.AmountPaid, mode, userID); err != nil {
			return err
		}
		if want != "" && want != b.PaymentStatus {
			return domain.Invalid("payment_status %s does not match amounts paid (%s)", want, b.PaymentStatus)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return b, entry, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	f, err := q.filter()
	if err != nil {
		return nil, err
	}
	bookings, total, err := s.bookings.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &ListResult{Bookings: bookings, Total: total}, nil
}

// ReconcileRoomStatuses rewrites every room's status from the bookings that
// currently hold it and returns the rooms that changed.
func (s *Service) ReconcileRoomStatuses(ctx context.Context) ([]RoomChange, error) {
	var changes []RoomChange
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids, err := s.rooms.WithTx(tx).AllIDs(ctx)
		if err != nil {
			return err
		}
		changes, err = s.syncRooms(ctx, tx, ids)
		return err
	})
	if err != nil {
		return nil, err
	}
	for _, ch := range changes {
		s.log.WithFields(logrus.Fields{
			"room_id": ch.RoomID,
			"from":    ch.From,
			"to":      ch.To,
		}).Warn("room status reconciled")
	}
	return changes, nil
}

// syncRooms sets each room to the status derived from its active bookings.
func (s *Service) syncRooms(ctx context.Context, tx *gorm.DB, ids []int64) ([]RoomChange, error) {
	rooms := s.rooms.WithTx(tx)
	current, err := rooms.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}
	derived, err := rooms.DerivedStatuses(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("derive room status: %w", err)
	}

	byStatus := map[domain.RoomStatus][]int64{}
	var changes []RoomChange
	for _, r := range current {
		want := derived[r.ID]
		if r.Status == want {
			continue
		}
		byStatus[want] = append(byStatus[want], r.ID)
		changes = append(changes, RoomChange{RoomID: r.ID, RoomNumber: r.RoomNumber, From: r.Status, To: want})
	}
	for _, status := range []domain.RoomStatus{domain.RoomAvailable, domain.RoomBooked, domain.RoomOccupied} {
		if err := rooms.SetStatus(ctx, byStatus[status], status); err != nil {
			return nil, fmt.Errorf("update room status: %w", err)
		}
	}
	return changes, nil
}

func (s *Service) lockRooms(ctx context.Context, tx *gorm.DB, ids []int64) ([]domain.Room, error) {
	rooms, err := s.rooms.WithTx(tx).FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}
	if len(rooms) != len(ids) {
		found := make(map[int64]bool, len(rooms))
		for _, r := range rooms {
			found[r.ID] = true
		}
		var missing []int64
		for _, id := range ids {
			if !found[id] {
				missing = append(missing, id)
			}
		}
		return nil, errRoomsMissing(missing)
	}
	return rooms, nil
}

func (s *Service) ensureFree(ctx context.Context, tx *gorm.DB, rooms []domain.Room, checkin, checkout time.Time, excludeID int64) error {
	ids := make([]int64, len(rooms))
	numbers := make(map[int64]string, len(rooms))
	for i, r := range rooms {
		ids[i] = r.ID
		numbers[r.ID] = r.RoomNumber
	}
	conflicts, err := s.rooms.WithTx(tx).ConflictingRoomIDs(ctx, ids, checkin, checkout, excludeID)
	if err != nil {
		return fmt.Errorf("check availability: %w", err)
	}
	if len(conflicts) == 0 {
		return nil
	}
	taken := make([]string, len(conflicts))
	for i, id := range conflicts {
		taken[i] = numbers[id]
	}
	return errRoomsUnavailable(taken)
}

func (s *Service) findOrCreateCustomer(ctx context.Context, tx *gorm.DB, g GuestInput) (*domain.Customer, error) {
	customers := s.customers.WithTx(tx)
	c, err := customers.FindByPhone(ctx, g.Phone)
	if err != nil {
		return nil, fmt.Errorf("find customer: %w", err)
	}
	if c != nil {
		return c, nil
	}
	c = &domain.Customer{
		Name:          strings.TrimSpace(g.Name),
		Phone:         strings.TrimSpace(g.Phone),
		Email:         strings.TrimSpace(g.Email),
		IDProofType:   g.IDProofType,
		IDProofNumber: g.IDProofNumber,
		Address:       g.Address,
	}
	if err := customers.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return c, nil
}

func parseStay(rawIn, rawOut string) (time.Time, time.Time, int, error) {
	checkin, err := domain.ParseDate(rawIn)
	if err != nil {
		return time.Time{}, time.Time{}, 0, err
	}
	checkout, err := domain.ParseDate(rawOut)
	if err != nil {
		return time.Time{}, time.Time{}, 0, err
	}
	if !checkout.After(checkin) {
		return time.Time{}, time.Time{}, 0, domain.Invalid("checkout_date must be after checkin_date")
	}
	return checkin, checkout, domain.Nights(checkin, checkout), nil
}

func selectionIDs(sel []RoomSelection) ([]int64, error) {
	if len(sel) == 0 {
		return nil, domain.Invalid("at least one room is required")
	}
	seen := make(map[int64]bool, len(sel))
	ids := make([]int64, 0, len(sel))
	for _, r := range sel {
		if seen[r.RoomID] {
			return nil, domain.Invalid("room %d selected twice", r.RoomID)
		}
		seen[r.RoomID] = true
		ids = append(ids, r.RoomID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func checkRates(rates []decimal.Decimal, nights int) error {
	if len(rates) == 0 {
		return nil
	}
	if len(rates) != nights {
		return domain.Invalid("nightly_rates must have one rate per night (%d)", nights)
	}
	for _, r := range rates {
		if r.IsNegative() {
			return domain.Invalid("nightly_rates must not be negative")
		}
	}
	return nil
}

func mustRates(br domain.BookingRoom) []decimal.Decimal {
	rates, _ := br.Rates()
	return rates
}

func buildRoomRows(rooms []domain.Room, sel []RoomSelection) ([]domain.BookingRoom, error) {
	byID := make(map[int64]domain.Room, len(rooms))
	for _, r := range rooms {
		byID[r.ID] = r
	}
	rows := make([]domain.BookingRoom, 0, len(sel))
	for _, item := range sel {
		br, err := newRoomRow(byID[item.RoomID], item.NightlyRates)
		if err != nil {
			return nil, err
		}
		rows = append(rows, br)
	}
	return rows, nil
}

// newRoomRow snapshots the room's current nightly price.
func newRoomRow(room domain.Room, rates []decimal.Decimal) (domain.BookingRoom, error) {
	raw, err := domain.EncodeRates(rates)
	if err != nil {
		return domain.BookingRoom{}, err
	}
	return domain.BookingRoom{
		RoomID:        room.ID,
		PricePerNight: room.PricePerNight,
		NightlyRates:  raw,
	}, nil
}

func roomCharges(rows []domain.BookingRoom, nights int) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, br := range rows {
		sub, err := br.Subtotal(nights)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(sub)
	}
	return domain.Money(total), nil
}

func buildGuests(primary GuestInput, extra []GuestInput) []domain.BookingGuest {
	guests := make([]domain.BookingGuest, 0, 1+len(extra))
	guests = append(guests, guestRow(primary, true))
	for _, g := range extra {
		guests = append(guests, guestRow(g, false))
	}
	return guests
}

func guestRow(g GuestInput, primary bool) domain.BookingGuest {
	return domain.BookingGuest{
		Name:          strings.TrimSpace(g.Name),
		Phone:         strings.TrimSpace(g.Phone),
		IDProofType:   g.IDProofType,
		IDProofNumber: g.IDProofNumber,
		IsPrimary:     primary,
	}
}

func union(a, b []int64) []int64 {
	seen := make(map[int64]bool, len(a)+len(b))
	var out []int64
	for _, list := range [][]int64{a, b} {
		for _, id := range list {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}
