package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Room struct {
	ID            int64           `json:"id" gorm:"primaryKey"`
	RoomNumber    string          `json:"room_number" gorm:"size:32;uniqueIndex;not null"`
	RoomType      string          `json:"room_type" gorm:"size:64"`
	PricePerNight decimal.Decimal `json:"price_per_night" gorm:"type:decimal(12,2);default:0"`
	Capacity      int             `json:"capacity"`
	Status        RoomStatus      `json:"status" gorm:"size:16;index;default:Available"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
