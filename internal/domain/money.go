package domain

import "github.com/shopspring/decimal"

// Totals is the projection of what has been paid against what is owed.
type Totals struct {
	AmountDue     decimal.Decimal
	PaymentStatus PaymentStatus
}

// Project derives amount_due and payment_status from total and paid.
// It is the only place these values are computed.
func Project(total, paid decimal.Decimal) Totals {
	due := total.Sub(paid)
	if due.IsNegative() {
		due = decimal.Zero
	}

	status := PaymentUnpaid
	switch {
	case due.IsZero() && (total.IsPositive() || paid.IsPositive()):
		status = PaymentPaid
	case paid.IsPositive():
		status = PaymentPartial
	}
	return Totals{AmountDue: due, PaymentStatus: status}
}

// Money rounds to the two decimal places stored in the database.
func Money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
