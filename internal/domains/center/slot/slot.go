// Package slot turns a center's weekly working hours into bookable hourly slots.
package slot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const hoursPerDay = 24

var (
	ErrMalformed = errors.New("malformed working hours")

	closedMarkers = []string{"closed", "day off", "вихідний"}
	allDayMarkers = []string{"24/7", "around the clock", "цілодобово"}

	// dayKeys lists the accepted names per weekday, indexed by time.Weekday.
	dayKeys = [7][]string{
		{"sunday", "неділя"},
		{"monday", "понеділок"},
		{"tuesday", "вівторок"},
		{"wednesday", "середа"},
		{"thursday", "четвер"},
		{"friday", "п'ятниця"},
		{"saturday", "субота"},
	}

	apostrophes = strings.NewReplacer("’", "'", "ʼ", "'", "`", "'")
)

// WorkingHours maps a day name to "closed", an around-the-clock marker or "HH:MM-HH:MM".
type WorkingHours map[string]string

// Lookup returns the entry for the weekday of date. Keys match case-insensitively.
func (w WorkingHours) Lookup(date time.Time) (string, bool) {
	wanted := dayKeys[date.Weekday()]

	for key, value := range w {
		normalized := apostrophes.Replace(strings.ToLower(strings.TrimSpace(key)))

		for _, name := range wanted {
			if normalized == name {
				return value, true
			}
		}
	}

	return "", false
}

// Window is the half-open hour range [Start, End) a center accepts donors.
type Window struct {
	Start int
	End   int
}

func (w Window) Closed() bool {
	return w.End <= w.Start
}

// Hours lists every slot in the window.
func (w Window) Hours() []string {
	if w.Closed() {
		return []string{}
	}

	slots := make([]string, 0, w.End-w.Start)
	for hour := w.Start; hour < w.End; hour++ {
		slots = append(slots, Format(hour))
	}

	return slots
}

// ParseWindow reads a single working-hours entry. Minutes are dropped from both ends,
// so "08:30-11:45" offers 08:00 through 10:00.
func ParseWindow(entry string) (Window, error) {
	value := strings.ToLower(strings.TrimSpace(entry))

	switch {
	case value == "" || containsAny(value, closedMarkers):
		return Window{}, nil
	case containsAny(value, allDayMarkers):
		return Window{Start: 0, End: hoursPerDay}, nil
	}

	from, to, ok := strings.Cut(value, "-")
	if !ok {
		return Window{}, fmt.Errorf("%w: %q", ErrMalformed, entry)
	}

	startHour, _, err := parseClock(from)
	if err != nil {
		return Window{}, fmt.Errorf("%w: %q", ErrMalformed, entry)
	}

	endHour, _, err := parseClock(to)
	if err != nil {
		return Window{}, fmt.Errorf("%w: %q", ErrMalformed, entry)
	}

	return Window{Start: startHour, End: endHour}, nil
}

// Set holds booked HH:00 strings.
type Set map[string]struct{}

func NewSet(times ...string) Set {
	set := make(Set, len(times))

	for _, t := range times {
		set[Normalize(t)] = struct{}{}
	}

	return set
}

func (s Set) Has(t string) bool {
	_, ok := s[Normalize(t)]

	return ok
}

// AvailableSlots returns the open HH:00 slots for date in ascending order.
// A closed, absent or malformed entry yields an empty list.
func AvailableSlots(hours WorkingHours, date time.Time, booked Set) []string {
	entry, ok := hours.Lookup(date)
	if !ok {
		return []string{}
	}

	window, err := ParseWindow(entry)
	if err != nil {
		return []string{}
	}

	slots := []string{}

	for _, candidate := range window.Hours() {
		if booked.Has(candidate) {
			continue
		}

		slots = append(slots, candidate)
	}

	return slots
}

// StartsAt places slot t on the calendar day of date, in date's location.
func StartsAt(date time.Time, t string) (time.Time, error) {
	hour, minute, err := parseClock(t)
	if err != nil || hour >= hoursPerDay {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformed, t)
	}

	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location()), nil
}

// Bookable narrows AvailableSlots to the slots still ahead of now. Listing and
// submission both go through it, so a listed slot is always one a donor can take.
func Bookable(hours WorkingHours, date time.Time, booked Set, now time.Time) []string {
	open := AvailableSlots(hours, date, booked)
	slots := make([]string, 0, len(open))

	for _, candidate := range open {
		starts, err := StartsAt(date, candidate)
		if err != nil || !starts.After(now) {
			continue
		}

		slots = append(slots, candidate)
	}

	return slots
}

// IsBookable reports whether t is one of the Bookable slots for date.
func IsBookable(hours WorkingHours, date time.Time, booked Set, now time.Time, t string) bool {
	wanted := Normalize(t)

	for _, candidate := range Bookable(hours, date, booked, now) {
		if candidate == wanted {
			return true
		}
	}

	return false
}

func Format(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// Normalize rewrites "9:00" as "09:00"; anything unparsable is returned trimmed.
func Normalize(t string) string {
	hour, minute, err := parseClock(t)
	if err != nil || hour >= hoursPerDay {
		return strings.TrimSpace(t)
	}

	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// parseClock accepts H:MM or HH:MM, with 24:00 allowed as an end of day.
func parseClock(value string) (int, int, error) {
	hourPart, minutePart, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok {
		return 0, 0, ErrMalformed
	}

	hour, err := strconv.Atoi(hourPart)
	if err != nil || hour < 0 || hour > hoursPerDay {
		return 0, 0, ErrMalformed
	}

	minute, err := strconv.Atoi(minutePart)
	if err != nil || len(minutePart) != 2 || minute < 0 || minute > 59 {
		return 0, 0, ErrMalformed
	}

	if hour == hoursPerDay && minute != 0 {
		return 0, 0, ErrMalformed
	}

	return hour, minute, nil
}

func containsAny(value string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(value, marker) {
			return true
		}
	}

	return false
}
