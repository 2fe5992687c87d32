package booking

import (
	"context"

	"github.com/shopspring/decimal"

	"hotelpms/internal/domain"
)

// Invoice assembles the bill for a booking: one line per room night, the
// stay's food orders and every ledger entry. Rendering is left to clients.
func (s *Service) Invoice(ctx context.Context, id int64) (*Invoice, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	inv := &Invoice{
		BookingRef:    b.BookingRef,
		BookingID:     b.ID,
		Customer:      b.Customer,
		CheckinDate:   b.CheckinDate,
		CheckoutDate:  b.CheckoutDate,
		Nights:        b.Nights,
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		RoomTotal:     b.TotalAmount,
		RoomPaid:      b.AmountPaid,
		Refunded:      b.RefundAmount,
		FoodTotal:     decimal.Zero,
		FoodPaid:      decimal.Zero,
		GeneratedAt:   s.now().UTC(),
	}

	charges := decimal.Zero
	for _, br := range b.Rooms {
		number := ""
		if br.Room != nil {
			number = br.Room.RoomNumber
		}
		rates, err := br.Rates()
		if err != nil {
			return nil, err
		}
		for night := 0; night < b.Nights; night++ {
			rate := br.PricePerNight
			if night < len(rates) {
				rate = rates[night]
			}
			inv.RoomNights = append(inv.RoomNights, InvoiceNight{
				Date:       b.CheckinDate.AddDate(0, 0, night),
				RoomNumber: number,
				Rate:       rate,
			})
			charges = charges.Add(rate)
		}
	}
	inv.RoomCharges = domain.Money(charges)

	orders, err := s.food.ListOrders(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	foodDue := decimal.Zero
	for _, o := range orders {
		if o.Status == domain.FoodOrderCancelled {
			continue
		}
		inv.FoodOrders = append(inv.FoodOrders, InvoiceFoodOrder{
			OrderID:    o.ID,
			Status:     o.Status,
			Items:      o.Items,
			Total:      o.TotalAmount,
			AmountPaid: o.AmountPaid,
			AmountDue:  o.AmountDue,
		})
		inv.FoodTotal = inv.FoodTotal.Add(o.TotalAmount)
		inv.FoodPaid = inv.FoodPaid.Add(o.AmountPaid)
		foodDue = foodDue.Add(o.AmountDue)
	}

	if inv.Payments, err = s.payments.ListByBooking(ctx, b.ID); err != nil {
		return nil, err
	}

	inv.Balance = foodDue
	if b.Status != domain.BookingCancelled {
		inv.Balance = inv.Balance.Add(b.AmountDue)
	}
	return inv, nil
}
