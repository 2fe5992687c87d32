package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindBooking   Kind = "booking"
	KindFoodOrder Kind = "food_order"
)

// Mismatch is a booking or food order whose amount_paid disagrees with its
// ledger.
type Mismatch struct {
	Kind      Kind            `json:"kind"`
	ID        int64           `json:"id"`
	Recorded  decimal.Decimal `json:"recorded"`
	LedgerSum decimal.Decimal `json:"ledger_sum"`
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s %d: amount_paid=%s ledger=%s", m.Kind, m.ID, m.Recorded.StringFixed(2), m.LedgerSum.StringFixed(2))
}
