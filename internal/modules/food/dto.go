package food

import (
	"github.com/shopspring/decimal"

	"hotelpms/internal/domain"
)

type CreateMenuItemRequest struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Category    string          `json:"category" validate:"max=64"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable *bool           `json:"is_available"`
}

type UpdateMenuItemRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Category    *string          `json:"category" validate:"omitempty,max=64"`
	Price       *decimal.Decimal `json:"price"`
	IsAvailable *bool            `json:"is_available"`
}

type MenuQuery struct {
	Available bool `form:"available"`
}

type OrderItemInput struct {
	MenuItemID int64 `json:"menu_item_id" validate:"required"`
	Quantity   int   `json:"quantity" validate:"gte=1,lte=100"`
}

type CreateOrderRequest struct {
	BookingID int64            `json:"booking_id" validate:"required"`
	Items     []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	Notes     string           `json:"notes"`
}

// UpdateOrderRequest replaces the order's item list. Lines missing from
// Items are removed.
type UpdateOrderRequest struct {
	Items []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	Notes *string          `json:"notes"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type RecordPaymentRequest struct {
	FoodOrderID int64           `json:"food_order_id" validate:"required"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
	PaymentMode string          `json:"payment_mode" validate:"required"`
}

type ListQuery struct {
	BookingID int64 `form:"booking_id"`
}

type PaymentResult struct {
	Order       *domain.FoodOrder          `json:"order"`
	Transaction *domain.PaymentTransaction `json:"transaction"`
}
