// Package timezone keeps every calendar computation in one application timezone.
//
// Booking dates, eligibility windows and reminder fire times are calendar values:
// a donation on 2025-03-10 is "March 10th" for the center, regardless of where the
// server runs. The location is read from APP_TIMEZONE when the package is loaded.
//
//	today := timezone.Today()                         // local midnight
//	day, err := timezone.Parse(time.DateOnly, "2025-03-10")
//	label := timezone.Format(t, time.RFC3339)
//
// Use IANA names ("UTC", "Europe/Kyiv"); an unknown name falls back to UTC.
package timezone
