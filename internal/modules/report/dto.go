package report

import (
	"github.com/shopspring/decimal"

	"hotelpms/internal/domain"
)

type RangeQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
}

type DailyQuery struct {
	Date string `form:"date"`
}

// Totals is the collection/refund split of a set of ledger entries.
type Totals struct {
	Collection decimal.Decimal `json:"collection"`
	Refunds    decimal.Decimal `json:"refunds"`
	Net        decimal.Decimal `json:"net"`
	Count      int             `json:"count"`
}

func (t *Totals) add(e domain.PaymentTransaction) {
	if e.IsRefund {
		t.Refunds = t.Refunds.Add(e.AmountPaid)
	} else {
		t.Collection = t.Collection.Add(e.AmountPaid)
	}
	t.Net = t.Collection.Sub(t.Refunds)
	t.Count++
}

type ModeTotal struct {
	Mode domain.PaymentMode `json:"mode"`
	Totals
}

type UserTotal struct {
	UserID   int64  `json:"user_id"`
	UserName string `json:"user_name,omitempty"`
	Totals
}

type Summary struct {
	From             string          `json:"from"`
	To               string          `json:"to"`
	TotalCollection  decimal.Decimal `json:"total_collection"`
	TotalRefunds     decimal.Decimal `json:"total_refunds"`
	NetCollection    decimal.Decimal `json:"net_collection"`
	TransactionCount int             `json:"transaction_count"`
	ByMode           []ModeTotal     `json:"by_mode"`
	ByUser           []UserTotal     `json:"by_user"`
}

type Daily struct {
	Date         string                      `json:"date"`
	Transactions []domain.PaymentTransaction `json:"transactions"`
	Totals       Totals                      `json:"totals"`
	ByMode       []ModeTotal                 `json:"by_mode"`
}

type TrendBucket struct {
	Date string `json:"date"`
	Totals
}
