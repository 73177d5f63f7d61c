package models

// OvertimeBreakdown is the eleven-bucket categorization of a day's (or
// week's) overtime hours.
//
// Two of the buckets groups are NOT additive with each other: HourOneTwo/
// HourThreeFour/HourFivePlus (cumulative-weekly tiering) and
// ScheduledDay/ScheduledNight (per-entry time-of-day split) both describe
// the same weekday OT hours from different angles. See engine/overtime.go.
// The total overtime allocated to the record is therefore the tiered
// view plus the day-off, Saturday and Sunday buckets (see Total).
type OvertimeBreakdown struct {
	HourOneTwo    float64 `json:"hour_1_2"`
	HourThreeFour float64 `json:"hour_3_4"`
	HourFivePlus  float64 `json:"hour_5_plus"`

	ScheduledDay   float64 `json:"scheduled_day"`
	ScheduledNight float64 `json:"scheduled_night"`

	DayOffDay   float64 `json:"dayoff_day"`
	DayOffNight float64 `json:"dayoff_night"`

	SaturdayDay   float64 `json:"saturday_day"`
	SaturdayNight float64 `json:"saturday_night"`

	SundayBeforeNoon float64 `json:"sunday_before_noon"`
	SundayAfterNoon  float64 `json:"sunday_after_noon"`
}

// Total is the total overtime hours: every bucket except ScheduledDay/
// ScheduledNight, which re-describe the tiered weekday hours.
func (b OvertimeBreakdown) Total() float64 {
	return b.HourOneTwo + b.HourThreeFour + b.HourFivePlus +
		b.DayOffDay + b.DayOffNight +
		b.SaturdayDay + b.SaturdayNight +
		b.SundayBeforeNoon + b.SundayAfterNoon
}

// Add returns the elementwise sum of two breakdowns.
func (b OvertimeBreakdown) Add(o OvertimeBreakdown) OvertimeBreakdown {
	return OvertimeBreakdown{
		HourOneTwo:       b.HourOneTwo + o.HourOneTwo,
		HourThreeFour:    b.HourThreeFour + o.HourThreeFour,
		HourFivePlus:     b.HourFivePlus + o.HourFivePlus,
		ScheduledDay:     b.ScheduledDay + o.ScheduledDay,
		ScheduledNight:   b.ScheduledNight + o.ScheduledNight,
		DayOffDay:        b.DayOffDay + o.DayOffDay,
		DayOffNight:      b.DayOffNight + o.DayOffNight,
		SaturdayDay:      b.SaturdayDay + o.SaturdayDay,
		SaturdayNight:    b.SaturdayNight + o.SaturdayNight,
		SundayBeforeNoon: b.SundayBeforeNoon + o.SundayBeforeNoon,
		SundayAfterNoon:  b.SundayAfterNoon + o.SundayAfterNoon,
	}
}

// LegacyOvertime1 is the back-projection of the hourly tier onto the
// old three-bucket overtime_1/2/3 view: overtime_1 == hour_1_2.
func (b OvertimeBreakdown) LegacyOvertime1() float64 { return b.HourOneTwo }

// LegacyOvertime2 == hour_3_4.
func (b OvertimeBreakdown) LegacyOvertime2() float64 { return b.HourThreeFour }

// LegacyOvertime3 is everything else: hour_5_plus plus every
// non-weekday-tiered bucket (Saturday, Sunday, day-off).
func (b OvertimeBreakdown) LegacyOvertime3() float64 {
	return b.HourFivePlus + b.DayOffDay + b.DayOffNight +
		b.SaturdayDay + b.SaturdayNight +
		b.SundayBeforeNoon + b.SundayAfterNoon
}

// DailyOutput is the per-day presentation record.
type DailyOutput struct {
	Worker           string  `json:"worker"`
	Date             string  `json:"date"` // DD-MM-YYYY
	Day              string  `json:"day"`
	DayType          DayType `json:"day_type"`
	TotalHours       float64 `json:"total_hours"`
	HoursNormTime    float64 `json:"hours_norm_time"`
	HoursOutsideNorm float64 `json:"hours_outside_norm"`
	WeekNumber       int     `json:"week_number"`
	Year             int     `json:"year"`
	WeeklyTotal      float64 `json:"weekly_total"`
	NormalHours      float64 `json:"normal_hours"`

	OvertimeBreakdown OvertimeBreakdown `json:"overtime_breakdown"`

	Overtime1 float64 `json:"overtime_1"`
	Overtime2 float64 `json:"overtime_2"`
	Overtime3 float64 `json:"overtime_3"`

	HasCallOutQualifyingTime bool    `json:"has_call_out_qualifying_time"`
	CallOutPayment           float64 `json:"call_out_payment"`
	CallOutApplied           bool    `json:"call_out_applied"`

	Entries []TimeEntry `json:"entries"`
}

// TotalOvertime is the day's total overtime hours (OvertimeBreakdown.Total).
func (o DailyOutput) TotalOvertime() float64 { return o.OvertimeBreakdown.Total() }

// WeeklySummary is the (worker, year, ISO-week) roll-up.
type WeeklySummary struct {
	WorkerName string  `json:"worker_name"`
	WeekNumber int     `json:"week_number"`
	Year       int     `json:"year"`
	TotalHours float64 `json:"total_hours"`
	NormalHours float64 `json:"normal_hours"`

	OvertimeBreakdown OvertimeBreakdown `json:"overtime_breakdown"`

	Overtime1 float64 `json:"overtime_1"`
	Overtime2 float64 `json:"overtime_2"`
	Overtime3 float64 `json:"overtime_3"`
}
