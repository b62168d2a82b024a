package reconciler

import (
	bookingModel "donorlink/internal/domains/booking/model"
	"donorlink/internal/domains/need/model"
	"donorlink/internal/domains/need/repository"
)

// Collected sums the contributions of completed bookings. A booking without
// an itemized volume counts defaultML.
func Collected(bookings []bookingModel.Booking, defaultML int) int {
	total := 0
	for _, booking := range bookings {
		total += booking.Contribution(defaultML)
	}

	return total
}

// Tally recomputes collected amount and status from scratch, so applying it twice is a no-op.
func Tally(defaultML int) repository.Tally {
	return func(need model.Need, completed []bookingModel.Booking) model.Need {
		collected := Collected(completed, defaultML)

		need.CollectedAmountML = collected
		need.Status = need.StatusFor(collected)

		return need
	}
}

// Affected returns the needs whose collected amount may change with a booking
// write. before is nil on create and after is nil on delete.
func Affected(before, after *bookingModel.Booking) []string {
	switch {
	case before == nil && after == nil:
		return nil
	case before == nil:
		return needIf(after.Status == bookingModel.StatusCompleted, after.BloodNeedID)
	case after == nil:
		return needIf(before.Status == bookingModel.StatusCompleted, before.BloodNeedID)
	}

	wasCompleted := before.Status == bookingModel.StatusCompleted
	isCompleted := after.Status == bookingModel.StatusCompleted

	if !wasCompleted && !isCompleted {
		return nil
	}

	changed := wasCompleted != isCompleted ||
		before.BloodNeedID != after.BloodNeedID ||
		!sameVolume(before.QuantityML, after.QuantityML)
	if !changed {
		return nil
	}

	ids := needIf(true, before.BloodNeedID)
	if after.BloodNeedID != before.BloodNeedID {
		ids = append(ids, needIf(true, after.BloodNeedID)...)
	}

	return ids
}

// Donors returns the donors whose stats may change with a booking write.
func Donors(before, after *bookingModel.Booking) []string {
	ids := []string{}

	for _, booking := range []*bookingModel.Booking{before, after} {
		if booking == nil || booking.DonorID == "" {
			continue
		}

		if len(ids) == 1 && ids[0] == booking.DonorID {
			continue
		}

		ids = append(ids, booking.DonorID)
	}

	return ids
}

func needIf(ok bool, id string) []string {
	if !ok || id == "" {
		return nil
	}

	return []string{id}
}

func sameVolume(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}

	return *a == *b
}
