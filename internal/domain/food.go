package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type MenuItem struct {
	ID          int64           `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"size:255;not null"`
	Category    string          `json:"category,omitempty" gorm:"size:64;index"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2);default:0"`
	IsAvailable bool            `json:"is_available" gorm:"default:true"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type FoodOrder struct {
	ID            int64           `json:"id" gorm:"primaryKey"`
	BookingID     int64           `json:"booking_id" gorm:"index;not null"`
	Status        FoodOrderStatus `json:"status" gorm:"size:16;index"`
	TotalAmount   decimal.Decimal `json:"total_amount" gorm:"type:decimal(12,2);default:0"`
	AmountPaid    decimal.Decimal `json:"amount_paid" gorm:"type:decimal(12,2);default:0"`
	AmountDue     decimal.Decimal `json:"amount_due" gorm:"type:decimal(12,2);default:0"`
	PaymentStatus PaymentStatus   `json:"payment_status" gorm:"size:16"`
	Notes         string          `json:"notes,omitempty" gorm:"type:text"`
	CreatedBy     int64           `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	Items []FoodOrderItem `json:"items,omitempty" gorm:"foreignKey:FoodOrderID"`
	KOTs  []KOTHistory    `json:"kots,omitempty" gorm:"foreignKey:FoodOrderID"`
}

func (o *FoodOrder) ApplyTotals() {
	t := Project(o.TotalAmount, o.AmountPaid)
	o.AmountDue = t.AmountDue
	o.PaymentStatus = t.PaymentStatus
}

type FoodOrderItem struct {
	ID          int64           `json:"id" gorm:"primaryKey"`
	FoodOrderID int64           `json:"food_order_id" gorm:"index;not null"`
	MenuItemID  int64           `json:"menu_item_id" gorm:"index"`
	Name        string          `json:"name" gorm:"size:255"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:decimal(12,2);default:0"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total" gorm:"type:decimal(12,2);default:0"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (i *FoodOrderItem) ComputeLine() {
	i.LineTotal = Money(i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity))))
}

type KOTEvent string

const (
	KOTInitial   KOTEvent = "initial"
	KOTAdditions KOTEvent = "additions"
)

// KOTLine is one row of a kitchen ticket snapshot.
type KOTLine struct {
	MenuItemID int64  `json:"menu_item_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
}

// KOTHistory is an immutable snapshot of items sent to the kitchen.
type KOTHistory struct {
	ID          int64          `json:"id" gorm:"primaryKey"`
	FoodOrderID int64          `json:"food_order_id" gorm:"uniqueIndex:idx_kot_order_number;not null"`
	KOTNumber   int            `json:"kot_number" gorm:"uniqueIndex:idx_kot_order_number"`
	Event       KOTEvent       `json:"event" gorm:"size:16"`
	Items       datatypes.JSON `json:"items"`
	CreatedBy   int64          `json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
}

func (KOTHistory) TableName() string { return "kot_history" }
