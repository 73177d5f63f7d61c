package timeutil

import (
	"time"

	"backend/internal/models"
)

// ClassifyDay returns the DayType for a given calendar date: Saturday and
// Sunday are their own types, every other weekday is Weekday.
func ClassifyDay(date time.Time) models.DayType {
	switch date.Weekday() {
	case time.Saturday:
		return models.DaySaturday
	case time.Sunday:
		return models.DaySunday
	default:
		return models.DayWeekday
	}
}

// ISOWeek returns the ISO-8601 (year, week) pair for date, matching the
// week numbering used to group daily records into WeeklySummary rows.
func ISOWeek(date time.Time) (year, week int) {
	return date.ISOWeek()
}

// DanishDayName returns the Danish weekday name used in upload headers
// and report output ("Mandag".."Søndag").
func DanishDayName(date time.Time) string {
	switch date.Weekday() {
	case time.Monday:
		return "Mandag"
	case time.Tuesday:
		return "Tirsdag"
	case time.Wednesday:
		return "Onsdag"
	case time.Thursday:
		return "Torsdag"
	case time.Friday:
		return "Fredag"
	case time.Saturday:
		return "Lørdag"
	default:
		return "Søndag"
	}
}
