// Package planner turns bookings and needs into the push messages a donor should receive.
package planner

import (
	"fmt"
	"time"

	bookingModel "donorlink/internal/domains/booking/model"
	needModel "donorlink/internal/domains/need/model"
	"donorlink/internal/domains/notification/model"
	"donorlink/shared/constant"
	gModel "donorlink/shared/model"

	"github.com/google/uuid"
)

type Schedule struct {
	// ReminderHour is the local hour of the day-before reminder.
	ReminderHour int
	// LeadHours is how long before the slot the second reminder fires.
	LeadHours int
	Location  *time.Location
}

// ForBooking plans the confirmation and the two reminders of a booking.
// Reminders whose fire time is not after now are dropped.
func ForBooking(booking bookingModel.Booking, centerName string, now time.Time, schedule Schedule) ([]model.Notification, error) {
	loc := schedule.Location
	if loc == nil {
		loc = time.UTC
	}

	startsAt, err := booking.StartsAt(loc)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	when := fmt.Sprintf("%s at %s", startsAt.Format("Mon, 02 Jan 2006"), booking.BookingTime)

	notifications := []model.Notification{
		newForBooking(booking, model.KindConfirmation, nil,
			"Donation booked",
			fmt.Sprintf("Your donation at %s is booked for %s. Thank you!", centerName, when)),
	}

	dayBefore := time.Date(startsAt.Year(), startsAt.Month(), startsAt.Day()-1, schedule.ReminderHour, 0, 0, 0, loc)
	if dayBefore.After(now) {
		notifications = append(notifications, newForBooking(booking, model.KindDayBefore, &dayBefore,
			"Donation tomorrow",
			fmt.Sprintf("Reminder: you are donating at %s tomorrow at %s. Eat well and drink plenty of water.", centerName, booking.BookingTime)))
	}

	shortlyBefore := startsAt.Add(-time.Duration(schedule.LeadHours) * time.Hour)
	if shortlyBefore.After(now) {
		notifications = append(notifications, newForBooking(booking, model.KindShortlyBefore, &shortlyBefore,
			"Donation soon",
			fmt.Sprintf("Your donation at %s starts at %s.", centerName, booking.BookingTime)))
	}

	return notifications, nil
}

// ForStatusChange tells the donor that staff moved their booking along.
func ForStatusChange(booking bookingModel.Booking) model.Notification {
	var title, body string

	switch booking.Status {
	case bookingModel.StatusInProcess:
		title, body = "Donation in progress", "Your donation has started. Thank you for being here."
	case bookingModel.StatusCompleted:
		title, body = "Thank you!", "Your donation is complete. You can donate again in three months."
	case bookingModel.StatusCancelled:
		title, body = "Booking cancelled", "Your donation booking was cancelled."
	default:
		title, body = "Booking updated", fmt.Sprintf("Your booking is now %s.", booking.Status)
	}

	return newForBooking(booking, model.KindBookingUpdated, nil, title, body)
}

// ForUrgentNeed builds one immediate message per donor.
func ForUrgentNeed(need needModel.Need, centerName string, donorIDs []string) []model.Notification {
	notifications := make([]model.Notification, len(donorIDs))

	for i, donorID := range donorIDs {
		notifications[i] = model.Notification{
			ID:       uuid.NewString(),
			DonorID:  donorID,
			Kind:     model.KindUrgentNeed,
			Title:    "Urgent blood need!",
			Body:     fmt.Sprintf("Blood type %s is urgently needed at %s.", need.BloodType, centerName),
			Status:   model.StatusScheduled,
			Metadata: gModel.NewMetadata(need.CreatedBy),
		}
	}

	return notifications
}

// actor is whoever last touched the booking, falling back to its creator and then to the donor
// for rows that arrive without audit fields, such as replayed trigger snapshots.
func actor(booking bookingModel.Booking) string {
	for _, candidate := range []string{booking.ModifiedBy, booking.CreatedBy, booking.DonorID} {
		if candidate != "" {
			return candidate
		}
	}

	return constant.SystemUser
}

func newForBooking(booking bookingModel.Booking, kind model.Kind, fireAt *time.Time, title, body string) model.Notification {
	bookingID := booking.ID

	return model.Notification{
		ID:        uuid.NewString(),
		DonorID:   booking.DonorID,
		BookingID: &bookingID,
		Kind:      kind,
		Title:     title,
		Body:      body,
		FireAt:    fireAt,
		Status:    model.StatusScheduled,
		Metadata:  gModel.NewMetadata(actor(booking)),
	}
}
