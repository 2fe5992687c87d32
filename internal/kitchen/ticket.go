// Package kitchen delivers kitchen order tickets to the kitchen: live
// displays over websocket and, when configured, a RabbitMQ topic exchange.
package kitchen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hotelpms/internal/domain"
)

// Ticket is the published form of one KOT history row.
type Ticket struct {
	FoodOrderID int64            `json:"food_order_id"`
	BookingID   int64            `json:"booking_id"`
	KOTNumber   int              `json:"kot_number"`
	Event       domain.KOTEvent  `json:"event"`
	Items       []domain.KOTLine `json:"items"`
	CreatedBy   int64            `json:"created_by"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Notifier receives tickets after the order transaction has committed.
type Notifier interface {
	Publish(ctx context.Context, t Ticket) error
}

func NewTicket(order *domain.FoodOrder, kot *domain.KOTHistory) (Ticket, error) {
	var items []domain.KOTLine
	if err := json.Unmarshal(kot.Items, &items); err != nil {
		return Ticket{}, fmt.Errorf("decode kot items: %w", err)
	}
	return Ticket{
		FoodOrderID: order.ID,
		BookingID:   order.BookingID,
		KOTNumber:   kot.KOTNumber,
		Event:       kot.Event,
		Items:       items,
		CreatedBy:   kot.CreatedBy,
		CreatedAt:   kot.CreatedAt,
	}, nil
}

// RoutingKey is kitchen.kot.<event>.
func (t Ticket) RoutingKey() string {
	return "kitchen.kot." + string(t.Event)
}

// Fanout publishes to every notifier and joins their errors.
type Fanout []Notifier

func (f Fanout) Publish(ctx context.Context, t Ticket) error {
	var errs []error
	for _, n := range f {
		if n == nil {
			continue
		}
		if err := n.Publish(ctx, t); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every ticket.
type Discard struct{}

func (Discard) Publish(context.Context, Ticket) error { return nil }
