package booking

import (
	"fmt"
	"strings"

	"hotelpms/internal/domain"
)

func errTransition(action string, from domain.BookingStatus) error {
	return domain.Invalid("cannot %s a booking with status %s", action, from)
}

func errRoomsUnavailable(numbers []string) error {
	return domain.Invalid("room(s) %s already booked for the selected dates", strings.Join(numbers, ", "))
}

func errRoomsMissing(ids []int64) error {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return domain.Invalid("room(s) not found: %s", strings.Join(parts, ", "))
}

var (
	errCheckoutUnpaid   = domain.Invalid("booking must be fully paid before check-out")
	errBookingCancelled = domain.Invalid("cancelled bookings cannot be modified")
	errBookingClosed    = domain.Invalid("rooms and dates of a checked-out booking cannot be changed")
)
