package room

import "github.com/shopspring/decimal"

type CreateRoomRequest struct {
	RoomNumber    string          `json:"room_number" validate:"required,max=32"`
	RoomType      string          `json:"room_type" validate:"required"`
	PricePerNight decimal.Decimal `json:"price_per_night"`
	Capacity      int             `json:"capacity" validate:"gte=1"`
}

// UpdateRoomRequest carries no status: bookings own room status.
type UpdateRoomRequest struct {
	RoomNumber    *string          `json:"room_number" validate:"omitempty,max=32"`
	RoomType      *string          `json:"room_type"`
	PricePerNight *decimal.Decimal `json:"price_per_night"`
	Capacity      *int             `json:"capacity" validate:"omitempty,gte=1"`
}

type ListQuery struct {
	Status   string `form:"status"`
	RoomType string `form:"room_type"`
}

type AvailabilityQuery struct {
	Checkin  string `form:"checkin"`
	Checkout string `form:"checkout"`
}
