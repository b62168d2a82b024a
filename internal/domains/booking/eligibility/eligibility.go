// Package eligibility computes when a donor may give blood again.
//
// Only completed bookings count. The cooldown is expressed in calendar months
// and added to the most recent completed booking date. Every value is reduced to
// its calendar day (read in its own location) and returned as UTC midnight, the
// same shape the store uses for DATE columns.
package eligibility

import (
	"time"

	"donorlink/config"
	"donorlink/internal/domains/booking/model"
	"donorlink/shared/timezone"
)

const DefaultCooldownMonths = 3

// NextEligibleDate applies the default cooldown. With no completed booking the donor is eligible today.
func NextEligibleDate(history []model.Booking, today time.Time) time.Time {
	return nextEligibleDate(history, today, DefaultCooldownMonths)
}

// IsEligibleNow reports whether today is on or after NextEligibleDate.
func IsEligibleNow(history []model.Booking, today time.Time) bool {
	return !day(today).Before(NextEligibleDate(history, today))
}

// LastCompleted returns the most recent completed booking date.
func LastCompleted(history []model.Booking) (time.Time, bool) {
	var (
		last  time.Time
		found bool
	)

	for _, booking := range history {
		if booking.Status != model.StatusCompleted {
			continue
		}

		date := day(booking.BookingDate)
		if !found || date.After(last) {
			last, found = date, true
		}
	}

	return last, found
}

func nextEligibleDate(history []model.Booking, today time.Time, months int) time.Time {
	last, found := LastCompleted(history)
	if !found {
		return day(today)
	}

	return last.AddDate(0, months, 0)
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Calculator binds the rules to a configured cooldown and the application clock.
type Calculator struct {
	cooldownMonths int
	today          func() time.Time
}

func NewCalculator(cfg *config.Config) *Calculator {
	months := cfg.Scheduling.CooldownMonths
	if months <= 0 {
		months = DefaultCooldownMonths
	}

	return &Calculator{
		cooldownMonths: months,
		today:          timezone.Today,
	}
}

// WithClock returns a copy of c that reads "today" from clock.
func (c *Calculator) WithClock(clock func() time.Time) *Calculator {
	clone := *c
	clone.today = clock

	return &clone
}

func (c *Calculator) Today() time.Time {
	return day(c.today())
}

func (c *Calculator) NextEligibleDate(history []model.Booking) time.Time {
	return nextEligibleDate(history, c.Today(), c.cooldownMonths)
}

func (c *Calculator) IsEligibleOn(history []model.Booking, date time.Time) bool {
	return !day(date).Before(c.NextEligibleDate(history))
}

func (c *Calculator) IsEligibleNow(history []model.Booking) bool {
	return c.IsEligibleOn(history, c.Today())
}
