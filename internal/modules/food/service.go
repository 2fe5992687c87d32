package food

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"hotelpms/internal/domain"
	"hotelpms/internal/kitchen"
	"hotelpms/internal/pkg/validator"
	"hotelpms/internal/repository"
)

// Service runs the food order sub-ledger. Item changes, totals and KOT rows
// commit together; tickets reach the kitchen only after commit.
type Service struct {
	db       *gorm.DB
	food     *repository.FoodRepository
	bookings *repository.BookingRepository
	ledger   Ledger
	notifier kitchen.Notifier
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewService(db *gorm.DB, ledger Ledger, notifier kitchen.Notifier, log logrus.FieldLogger) *Service {
	if notifier == nil {
		notifier = kitchen.Discard{}
	}
	return &Service{
		db:       db,
		food:     repository.NewFoodRepository(db),
		bookings: repository.NewBookingRepository(db),
		ledger:   ledger,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Service) CreateMenuItem(ctx context.Context, req CreateMenuItemRequest) (*domain.MenuItem, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	if err := checkPrice(req.Price); err != nil {
		return nil, err
	}
	m := &domain.MenuItem{
		Name:        strings.TrimSpace(req.Name),
		Category:    strings.TrimSpace(req.Category),
		Price:       domain.Money(req.Price),
		IsAvailable: req.IsAvailable == nil || *req.IsAvailable,
	}
	if err := s.food.CreateMenuItem(ctx, m); err != nil {
		return nil, fmt.Errorf("create menu item: %w", err)
	}
	if !m.IsAvailable {
		// gorm skips the false zero value on insert and the column default wins.
		if err := s.food.UpdateMenuItem(ctx, m); err != nil {
			return nil, fmt.Errorf("create menu item: %w", err)
		}
	}
	return m, nil
}

func (s *Service) UpdateMenuItem(ctx context.Context, id int64, req UpdateMenuItemRequest) (*domain.MenuItem, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	m, err := s.food.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		m.Name = strings.TrimSpace(*req.Name)
	}
	if req.Category != nil {
		m.Category = strings.TrimSpace(*req.Category)
	}
	if req.Price != nil {
		if err := checkPrice(*req.Price); err != nil {
			return nil, err
		}
		m.Price = domain.Money(*req.Price)
	}
	if req.IsAvailable != nil {
		m.IsAvailable = *req.IsAvailable
	}
	if err := s.food.UpdateMenuItem(ctx, m); err != nil {
		return nil, fmt.Errorf("update menu item: %w", err)
	}
	return m, nil
}

func (s *Service) ListMenu(ctx context.Context, q MenuQuery) ([]domain.MenuItem, error) {
	return s.food.ListMenu(ctx, q.Available)
}

// CreateOrder opens an order for a checked-in booking and writes KOT #1.
func (s *Service) CreateOrder(ctx context.Context, req CreateOrderRequest, userID int64) (*domain.FoodOrder, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	wanted, err := mergeItems(req.Items)
	if err != nil {
		return nil, err
	}

	var orderID int64
	var kots []domain.KOTHistory
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := s.bookings.WithTx(tx).GetForUpdate(ctx, req.BookingID)
		if err != nil {
			return err
		}
		if b.Status != domain.BookingCheckedIn {
			return domain.Invalid("food orders need a checked-in booking, booking %d is %s", b.ID, b.Status)
		}

		menu, err := s.availableMenu(ctx, tx, wanted)
		if err != nil {
			return err
		}

		o := &domain.FoodOrder{
			BookingID: b.ID,
			Status:    domain.FoodOrderPending,
			Notes:     strings.TrimSpace(req.Notes),
			CreatedBy: userID,
		}
		for _, in := range wanted {
			o.Items = append(o.Items, newItem(menu[in.MenuItemID], in.Quantity))
		}
		o.TotalAmount = orderTotal(o.Items)
		o.ApplyTotals()

		repo := s.food.WithTx(tx)
		if err := repo.CreateOrder(ctx, o); err != nil {
			return fmt.Errorf("create food order: %w", err)
		}

		kot, err := s.appendKOT(ctx, repo, o, domain.KOTInitial, linesOf(o.Items), userID)
		if err != nil {
			return err
		}
		orderID = o.ID
		kots = append(kots, *kot)
		return nil
	})
	if err != nil {
		return nil, err
	}

	o, err := s.food.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"food_order_id": o.ID,
		"booking_id":    o.BookingID,
		"total":         o.TotalAmount.String(),
	}).Info("food order created")
	s.publish(ctx, o, kots)
	return o, nil
}

// UpdateOrder applies a new item list to an open order. Existing lines keep
// their snapshotted price; quantity increases and new lines go to the kitchen
// as an additions ticket.
func (s *Service) UpdateOrder(ctx context.Context, id int64, req UpdateOrderRequest, userID int64) (*domain.FoodOrder, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	wanted, err := mergeItems(req.Items)
	if err != nil {
		return nil, err
	}

	var kots []domain.KOTHistory
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.food.WithTx(tx)
		o, err := repo.GetOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !o.Status.IsOpen() {
			return domain.Invalid("food order %d is %s and can no longer change", o.ID, o.Status)
		}

		existing := make(map[int64]*domain.FoodOrderItem, len(o.Items))
		for i := range o.Items {
			existing[o.Items[i].MenuItemID] = &o.Items[i]
		}

		var fresh []OrderItemInput
		for _, in := range wanted {
			if _, ok := existing[in.MenuItemID]; !ok {
				fresh = append(fresh, in)
			}
		}
		menu, err := s.availableMenu(ctx, tx, fresh)
		if err != nil {
			return err
		}

		var (
			kept      []domain.FoodOrderItem
			inserts   []domain.FoodOrderItem
			additions []domain.KOTLine
		)
		seen := make(map[int64]bool, len(wanted))
		for _, in := range wanted {
			seen[in.MenuItemID] = true
			cur, ok := existing[in.MenuItemID]
			if !ok {
				item := newItem(menu[in.MenuItemID], in.Quantity)
				item.FoodOrderID = o.ID
				inserts = append(inserts, item)
				additions = append(additions, domain.KOTLine{MenuItemID: item.MenuItemID, Name: item.Name, Quantity: item.Quantity})
				continue
			}
			if delta := in.Quantity - cur.Quantity; delta != 0 {
				if delta > 0 {
					additions = append(additions, domain.KOTLine{MenuItemID: cur.MenuItemID, Name: cur.Name, Quantity: delta})
				}
				cur.Quantity = in.Quantity
				cur.ComputeLine()
				if err := repo.UpdateItem(ctx, cur); err != nil {
					return fmt.Errorf("update food order item: %w", err)
				}
			}
			kept = append(kept, *cur)
		}

		var removed []int64
		for _, item := range o.Items {
			if !seen[item.MenuItemID] {
				removed = append(removed, item.ID)
			}
		}
		if err := repo.DeleteItems(ctx, removed); err != nil {
			return fmt.Errorf("delete food order items: %w", err)
		}
		if err := repo.InsertItems(ctx, inserts); err != nil {
			return fmt.Errorf("insert food order items: %w", err)
		}

		o.Items = append(kept, inserts...)
		o.TotalAmount = orderTotal(o.Items)
		if req.Notes != nil {
			o.Notes = strings.TrimSpace(*req.Notes)
		}
		o.ApplyTotals()
		if err := repo.SaveOrderState(ctx, o); err != nil {
			return fmt.Errorf("save food order: %w", err)
		}

		if len(additions) > 0 {
			kot, err := s.appendKOT(ctx, repo, o, domain.KOTAdditions, additions, userID)
			if err != nil {
				return err
			}
			kots = append(kots, *kot)
		}
		s.log.WithFields(logrus.Fields{
			"food_order_id": o.ID,
			"inserted":      len(inserts),
			"removed":       len(removed),
			"total":         o.TotalAmount.String(),
		}).Info("food order updated")
		return nil
	})
	if err != nil {
		return nil, err
	}

	o, err := s.food.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, o, kots)
	return o, nil
}

func (s *Service) UpdateOrderStatus(ctx context.Context, id int64, req UpdateStatusRequest) (*domain.FoodOrder, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	next, err := domain.ParseFoodOrderStatus(req.Status)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.food.WithTx(tx)
		o, err := repo.GetOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !o.Status.CanBecome(next) {
			return domain.Invalid("food order cannot move from %s to %s", o.Status, next)
		}
		if next == domain.FoodOrderCancelled && o.AmountPaid.IsPositive() {
			return domain.Invalid("food order %d has payments of %s and cannot be cancelled", o.ID, o.AmountPaid.StringFixed(2))
		}

		prev := o.Status
		o.Status = next
		if err := repo.SaveOrderState(ctx, o); err != nil {
			return fmt.Errorf("save food order: %w", err)
		}
		s.log.WithFields(logrus.Fields{"food_order_id": o.ID, "from": prev, "to": next}).Info("food order status changed")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.food.GetOrder(ctx, id)
}

func (s *Service) RecordPayment(ctx context.Context, req RecordPaymentRequest, userID int64) (*PaymentResult, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	mode, err := domain.ParsePaymentMode(req.PaymentMode)
	if err != nil {
		return nil, err
	}

	var entry *domain.PaymentTransaction
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := s.food.WithTx(tx).GetOrderForUpdate(ctx, req.FoodOrderID)
		if err != nil {
			return err
		}
		entry, err = s.ledger.AddFoodPayment(ctx, tx, o, req.AmountPaid, mode, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	o, err := s.food.GetOrder(ctx, req.FoodOrderID)
	if err != nil {
		return nil, err
	}
	return &PaymentResult{Order: o, Transaction: entry}, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.FoodOrder, error) {
	return s.food.GetOrder(ctx, id)
}

func (s *Service) ListOrders(ctx context.Context, q ListQuery) ([]domain.FoodOrder, error) {
	if q.BookingID != 0 {
		if _, err := s.bookings.GetByID(ctx, q.BookingID); err != nil {
			return nil, err
		}
	}
	return s.food.ListOrders(ctx, q.BookingID)
}

func (s *Service) ListKOT(ctx context.Context, orderID int64) ([]domain.KOTHistory, error) {
	if _, err := s.food.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return s.food.ListKOT(ctx, orderID)
}

// availableMenu loads the menu rows for items and rejects unknown or
// unavailable dishes.
func (s *Service) availableMenu(ctx context.Context, tx *gorm.DB, items []OrderItemInput) (map[int64]domain.MenuItem, error) {
	ids := make([]int64, 0, len(items))
	for _, in := range items {
		ids = append(ids, in.MenuItemID)
	}
	menu, err := s.food.WithTx(tx).MenuItemsByID(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load menu items: %w", err)
	}
	for _, id := range ids {
		m, ok := menu[id]
		if !ok {
			return nil, domain.NotFound("menu item", id)
		}
		if !m.IsAvailable {
			return nil, domain.Invalid("menu item %q is not available", m.Name)
		}
	}
	return menu, nil
}

func (s *Service) appendKOT(ctx context.Context, repo *repository.FoodRepository, o *domain.FoodOrder, event domain.KOTEvent, lines []domain.KOTLine, userID int64) (*domain.KOTHistory, error) {
	number, err := repo.NextKOTNumber(ctx, o.ID)
	if err != nil {
		return nil, fmt.Errorf("next kot number: %w", err)
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return nil, err
	}
	kot := &domain.KOTHistory{
		FoodOrderID: o.ID,
		KOTNumber:   number,
		Event:       event,
		Items:       datatypes.JSON(raw),
		CreatedBy:   userID,
		CreatedAt:   s.now().UTC(),
	}
	if err := repo.AppendKOT(ctx, kot); err != nil {
		return nil, fmt.Errorf("append kot: %w", err)
	}
	return kot, nil
}

// publish hands committed tickets to the kitchen. Failures are logged only;
// the order is already saved.
func (s *Service) publish(ctx context.Context, o *domain.FoodOrder, kots []domain.KOTHistory) {
	for i := range kots {
		ticket, err := kitchen.NewTicket(o, &kots[i])
		if err == nil {
			err = s.notifier.Publish(context.WithoutCancel(ctx), ticket)
		}
		if err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"food_order_id": o.ID,
				"kot_number":    kots[i].KOTNumber,
			}).Warn("kot publish failed")
		}
	}
}

// maxLineQuantity caps a single order line, after repeated items are folded.
const maxLineQuantity = 100

// mergeItems folds repeated menu items into one line, keeping first-seen order.
func mergeItems(in []OrderItemInput) ([]OrderItemInput, error) {
	index := make(map[int64]int, len(in))
	var out []OrderItemInput
	for _, item := range in {
		if i, ok := index[item.MenuItemID]; ok {
			out[i].Quantity += item.Quantity
		} else {
			index[item.MenuItemID] = len(out)
			out = append(out, item)
		}
	}
	for _, item := range out {
		if item.Quantity > maxLineQuantity {
			return nil, domain.InvalidFields("quantity exceeds the per-item limit", map[string]string{
				"items": fmt.Sprintf("menu item %d: quantity %d is more than %d", item.MenuItemID, item.Quantity, maxLineQuantity),
			})
		}
	}
	return out, nil
}

func newItem(m domain.MenuItem, qty int) domain.FoodOrderItem {
	item := domain.FoodOrderItem{
		MenuItemID: m.ID,
		Name:       m.Name,
		UnitPrice:  m.Price,
		Quantity:   qty,
	}
	item.ComputeLine()
	return item
}

func orderTotal(items []domain.FoodOrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal)
	}
	return domain.Money(total)
}

func checkPrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return domain.Invalid("price must not be negative")
	}
	return nil
}

func linesOf(items []domain.FoodOrderItem) []domain.KOTLine {
	out := make([]domain.KOTLine, len(items))
	for i, it := range items {
		out[i] = domain.KOTLine{MenuItemID: it.MenuItemID, Name: it.Name, Quantity: it.Quantity}
	}
	return out
}
