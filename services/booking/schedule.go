package booking

import (
	"time"

	"homeserve/utils"
)

const dateLayout = "2006-01-02"

// parseSchedule returns the booked day at midnight and the exact start instant, both in loc.
func parseSchedule(date, hhmm string, loc *time.Location) (day, start time.Time, err error) {
	if date == "" || hhmm == "" {
		return time.Time{}, time.Time{}, utils.NewValidationError("Date and time are required")
	}
	if !utils.ValidHHMM(hhmm) {
		return time.Time{}, time.Time{}, utils.NewValidationError("Time must be in HH:MM format")
	}
	day, err = time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, utils.NewValidationError("Date must be in YYYY-MM-DD format")
	}
	start, err = time.ParseInLocation(dateLayout+" 15:04", date+" "+hhmm, loc)
	if err != nil {
		return time.Time{}, time.Time{}, utils.NewValidationError("Invalid booking date or time")
	}
	return day, start, nil
}

// futureSchedule is parseSchedule plus a check that the start is after now.
// pastMsg is the validation message for a start that has already passed.
func futureSchedule(date, hhmm string, loc *time.Location, now time.Time, pastMsg string) (time.Time, error) {
	day, start, err := parseSchedule(date, hhmm, loc)
	if err != nil {
		return time.Time{}, err
	}
	if !start.After(now) {
		return time.Time{}, utils.NewValidationError(pastMsg)
	}
	return day, nil
}

const (
	msgPastBooking    = "Booking date and time must be in the future"
	msgPastReschedule = "Cannot reschedule to a past date and time"
)
