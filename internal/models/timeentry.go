/*
Package models - Time Registration Domain Types

Defines the in-memory shapes that flow through the time-splitting,
classification, and overtime pipeline (engine.Run). These are not GORM
models: they live only inside a preview session (cache.Store) and are
never persisted to a table, per the stateless processing model.
*/
package models

import (
	"time"
)

// DayType classifies a calendar date for overtime purposes.
type DayType string

const (
	DayWeekday  DayType = "Weekday"
	DaySaturday DayType = "Saturday"
	DaySunday   DayType = "Sunday"
)

// AbsentType classifies a day with no (or credited) worked time.
type AbsentType string

const (
	AbsentNone          AbsentType = "None"
	AbsentVacation      AbsentType = "Vacation"
	AbsentSick          AbsentType = "Sick"
	AbsentPublicHoliday AbsentType = "PublicHoliday"
	AbsentKursus        AbsentType = "Kursus"
)

// EmployeeType mirrors the DBR 2026 worker classifications carried on
// upload (Lærling, Svend, Funktionær, Elev); it is opaque to the engine
// and is not carried on any record or output.
type EmployeeType string

const (
	EmployeeLaerling     EmployeeType = "Lærling"
	EmployeeSvend        EmployeeType = "Svend"
	EmployeeFunktionaer  EmployeeType = "Funktionær"
	EmployeeElev         EmployeeType = "Elev"
)

// TimeEntry is a contiguous work interval on one local date.
type TimeEntry struct {
	Activity    string
	CaseNumber  string
	Start       time.Time // only hour/minute are meaningful
	End         time.Time
	TotalHours  float64
	HoursInNorm float64
	HoursOutsideNorm float64
}

// StartMinutes returns minutes since local midnight for Start.
func (e TimeEntry) StartMinutes() int { return e.Start.Hour()*60 + e.Start.Minute() }

// EndMinutes returns minutes since local midnight for End.
func (e TimeEntry) EndMinutes() int { return e.End.Hour()*60 + e.End.Minute() }

// DailyRecord is all entries for (worker, local date).
type DailyRecord struct {
	WorkerName string
	Date       time.Time // local date, time-of-day component ignored
	DayName    string
	DayType    DayType
	WeekNumber int
	Year       int

	Entries []TimeEntry

	TotalHours       float64
	HoursInNorm      float64
	HoursOutsideNorm float64

	AbsentType   AbsentType
	IsDayOff     bool
	CreditedHours float64

	HasCallOutQualifyingTime bool
	CallOutQualifyingTimes   []string // "HH:MM" of each qualifying entry start
}

// DateString renders the record's date as DD-MM-YYYY, the wire format
// used throughout DailyOutput and the mark-absence/export form fields.
func (r DailyRecord) DateString() string {
	return r.Date.Format("02-01-2006")
}
