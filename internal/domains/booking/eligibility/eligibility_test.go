package eligibility_test

import (
	"testing"
	"time"

	"donorlink/config"
	"donorlink/internal/domains/booking/eligibility"
	"donorlink/internal/domains/booking/model"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func completed(d time.Time) model.Booking {
	return model.Booking{BookingDate: d, Status: model.StatusCompleted}
}

func TestNoHistoryIsEligibleToday(t *testing.T) {
	today := time.Date(2025, 5, 20, 16, 45, 0, 0, time.UTC)

	assert.True(t, eligibility.IsEligibleNow(nil, today))
	assert.Equal(t, date(2025, 5, 20), eligibility.NextEligibleDate(nil, today))
}

func TestCooldownFromMostRecentCompleted(t *testing.T) {
	last := date(2025, 1, 15)
	history := []model.Booking{
		completed(date(2024, 9, 1)),
		completed(last),
		{BookingDate: date(2025, 3, 1), Status: model.StatusPending},
		{BookingDate: date(2025, 4, 1), Status: model.StatusCancelled},
	}

	next := eligibility.NextEligibleDate(history, date(2025, 2, 1))
	assert.Equal(t, date(2025, 4, 15), next)

	assert.False(t, eligibility.IsEligibleNow(history, date(2025, 4, 14)))
	assert.True(t, eligibility.IsEligibleNow(history, time.Date(2025, 4, 15, 0, 0, 1, 0, time.UTC)))
	assert.True(t, eligibility.IsEligibleNow(history, date(2025, 6, 1)))
}

func TestTimeOfDayIgnored(t *testing.T) {
	history := []model.Booking{completed(time.Date(2025, 1, 15, 18, 30, 0, 0, time.UTC))}

	assert.Equal(t, date(2025, 4, 15), eligibility.NextEligibleDate(history, date(2025, 2, 1)))
	assert.False(t, eligibility.IsEligibleNow(history, time.Date(2025, 4, 14, 23, 59, 0, 0, time.UTC)))
}

func TestTiedDatesProduceSameResult(t *testing.T) {
	history := []model.Booking{completed(date(2025, 2, 2)), completed(date(2025, 2, 2))}

	assert.Equal(t, date(2025, 5, 2), eligibility.NextEligibleDate(history, date(2025, 2, 3)))
}

func TestMonthOverflowNormalizes(t *testing.T) {
	history := []model.Booking{completed(date(2024, 11, 30))}

	// February has no 30th, so the date rolls into March as calendar arithmetic does.
	assert.Equal(t, date(2025, 3, 2), eligibility.NextEligibleDate(history, date(2024, 12, 1)))
}

func TestCalculator(t *testing.T) {
	cfg := &config.Config{}
	cfg.Scheduling.CooldownMonths = 2

	calc := eligibility.NewCalculator(cfg).WithClock(func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) })
	history := []model.Booking{completed(date(2025, 1, 10))}

	assert.Equal(t, date(2025, 3, 1), calc.Today())
	assert.Equal(t, date(2025, 3, 10), calc.NextEligibleDate(history))
	assert.False(t, calc.IsEligibleNow(history))
	assert.True(t, calc.IsEligibleOn(history, date(2025, 3, 10)))
	assert.True(t, calc.IsEligibleNow(nil))
}

func TestCalculatorDefaultsCooldown(t *testing.T) {
	calc := eligibility.NewCalculator(&config.Config{}).WithClock(func() time.Time { return date(2025, 1, 1) })

	assert.Equal(t, date(2025, 4, 10), calc.NextEligibleDate([]model.Booking{completed(date(2025, 1, 10))}))
}
