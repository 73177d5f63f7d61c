package engine

import (
	"sort"

	"backend/internal/models"
)

// WeeklyNormHours is the reference regular-time allowance before any
// overtime tier is consumed.
const WeeklyNormHours = 37.0

// Hourly tiering band widths, in hours, within a single ISO week.
const (
	tier1Width = 2.0 // hour_1_2: [0,2)
	tier2Width = 2.0 // hour_3_4: [2,4)
	// hour_5_plus: [4, inf)
)

type weekKey struct {
	worker string
	year   int
	week   int
}

// weekAccumulator tracks the three running totals described in the
// overtime engine's component design: normal-hours used, cumulative OT
// hours used (for hourly tiering), and the running weekly total emitted
// per DailyOutput.
type weekAccumulator struct {
	normUsed    float64
	otHoursUsed float64
	weeklyTotal float64
}

// RunOvertimeEngine groups records by (worker, year, ISO-week) and
// computes the per-day OvertimeBreakdown plus the per-week rollup. Weeks
// are processed independently and in (worker, year, week) order; within
// a week, days are processed in date order since hourly tiering is
// order-dependent.
func RunOvertimeEngine(records []models.DailyRecord) ([]models.WeeklySummary, []models.DailyOutput) {
	grouped := make(map[weekKey][]models.DailyRecord)
	var order []weekKey

	for _, r := range records {
		key := weekKey{worker: r.WorkerName, year: r.Year, week: r.WeekNumber}
		if _, ok := grouped[key]; !ok {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], r)
	}

	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if a.worker != b.worker {
			return a.worker < b.worker
		}
		if a.year != b.year {
			return a.year < b.year
		}
		return a.week < b.week
	})

	var summaries []models.WeeklySummary
	var outputs []models.DailyOutput

	for _, key := range order {
		weekRecords := append([]models.DailyRecord(nil), grouped[key]...)
		sort.Slice(weekRecords, func(i, j int) bool {
			return weekRecords[i].Date.Before(weekRecords[j].Date)
		})

		summary, dayOutputs := runWeek(key, weekRecords)
		summaries = append(summaries, summary)
		outputs = append(outputs, dayOutputs...)
	}

	return summaries, outputs
}

func runWeek(key weekKey, records []models.DailyRecord) (models.WeeklySummary, []models.DailyOutput) {
	acc := weekAccumulator{}
	outputs := make([]models.DailyOutput, 0, len(records))
	weekBreakdown := models.OvertimeBreakdown{}

	for _, record := range records {
		dayTotal := record.TotalHours + record.CreditedHours

		normThisDay := dayTotal
		if record.DayType == models.DaySaturday || record.DayType == models.DaySunday {
			// Weekend hours take no share of the weekly norm: all of
			// them are overtime.
			normThisDay = 0
		} else if available := WeeklyNormHours - acc.normUsed; available < normThisDay {
			if available < 0 {
				normThisDay = 0
			} else {
				normThisDay = available
			}
		}
		otThisDay := dayTotal - normThisDay

		acc.normUsed += normThisDay
		acc.weeklyTotal += dayTotal

		breakdown := models.OvertimeBreakdown{}
		if otThisDay > 0 {
			breakdown = categorizeDayOvertime(record, otThisDay, &acc)
		}
		weekBreakdown = weekBreakdown.Add(breakdown)

		outputs = append(outputs, models.DailyOutput{
			Worker:           record.WorkerName,
			Date:             record.DateString(),
			Day:              record.DayName,
			DayType:          record.DayType,
			TotalHours:       round2(record.TotalHours),
			HoursNormTime:    round2(record.HoursInNorm),
			HoursOutsideNorm: round2(record.HoursOutsideNorm),
			WeekNumber:       key.week,
			Year:             key.year,
			WeeklyTotal:      round2(acc.weeklyTotal),
			NormalHours:      round2(normThisDay),

			OvertimeBreakdown: roundBreakdown(breakdown),
			Overtime1:         round2(breakdown.LegacyOvertime1()),
			Overtime2:         round2(breakdown.LegacyOvertime2()),
			Overtime3:         round2(breakdown.LegacyOvertime3()),

			HasCallOutQualifyingTime: record.HasCallOutQualifyingTime,

			Entries: record.Entries,
		})
	}

	summary := models.WeeklySummary{
		WorkerName:        key.worker,
		WeekNumber:         key.week,
		Year:                key.year,
		TotalHours:          round2(acc.weeklyTotal),
		NormalHours:         round2(acc.normUsed),
		OvertimeBreakdown:   roundBreakdown(weekBreakdown),
		Overtime1:           round2(weekBreakdown.LegacyOvertime1()),
		Overtime2:           round2(weekBreakdown.LegacyOvertime2()),
		Overtime3:           round2(weekBreakdown.LegacyOvertime3()),
	}

	return summary, outputs
}

// categorizeDayOvertime dispatches a day's OT hours into the correct
// bucket group based on day type, advancing the week's hourly-tier
// accumulator for ordinary weekdays.
func categorizeDayOvertime(record models.DailyRecord, otHours float64, acc *weekAccumulator) models.OvertimeBreakdown {
	switch {
	case record.DayType == models.DaySunday:
		before, after := sundaySplitForDay(record, otHours)
		return models.OvertimeBreakdown{SundayBeforeNoon: before, SundayAfterNoon: after}

	case record.DayType == models.DaySaturday:
		day, night := dayNightSplitForDay(record, otHours)
		return models.OvertimeBreakdown{SaturdayDay: day, SaturdayNight: night}

	case record.IsDayOff:
		day, night := dayNightSplitForDay(record, otHours)
		return models.OvertimeBreakdown{DayOffDay: day, DayOffNight: night}

	default:
		tiered := tierHours(otHours, acc)
		day, night := dayNightSplitForDay(record, otHours)
		tiered.ScheduledDay = day
		tiered.ScheduledNight = night
		return tiered
	}
}

// tierHours fills the cumulative-weekly hourly tiers with otHours,
// advancing acc.otHoursUsed, and returns only the three tier buckets
// populated (the caller fills in ScheduledDay/ScheduledNight).
func tierHours(otHours float64, acc *weekAccumulator) models.OvertimeBreakdown {
	remaining := otHours
	var b models.OvertimeBreakdown

	take := func(floor, width float64) float64 {
		if remaining <= 0 {
			return 0
		}
		available := width - tierUsedWithin(acc.otHoursUsed, floor, width)
		if available <= 0 {
			return 0
		}
		amount := remaining
		if amount > available {
			amount = available
		}
		remaining -= amount
		acc.otHoursUsed += amount
		return amount
	}

	b.HourOneTwo = take(0, tier1Width)
	b.HourThreeFour = take(tier1Width, tier2Width)
	if remaining > 0 {
		b.HourFivePlus = remaining
		acc.otHoursUsed += remaining
	}
	return b
}

// tierUsedWithin returns how much of the band [floor, floor+width) has
// already been consumed, given the total cumulative OT hours used so far.
// Because bands are filled strictly in order (tier1 before tier2 before
// hour_5_plus), that is the usage above the band's floor clamped into
// [0, width].
func tierUsedWithin(cumulativeUsed, floor, width float64) float64 {
	used := cumulativeUsed - floor
	if used < 0 {
		used = 0
	}
	if used > width {
		used = width
	}
	return used
}

// dayNightSplitForDay allocates a day's week-level OT hours across its
// entries' 06:00-18:00 day/night split, pro-rata by each entry's share
// of the day's total worked hours. The engine computes ot_this_day as a
// single day-level figure (total_hours minus whatever the weekly norm
// absorbed), not per entry, so entry-level OT fractions are not directly
// observable; proportional allocation by entry share is the chosen
// reading of "every entry's OT fraction".
func dayNightSplitForDay(record models.DailyRecord, otHours float64) (day, night float64) {
	if otHours <= 0 || len(record.Entries) == 0 {
		return 0, 0
	}
	var totalDay, totalNight, total float64
	for _, e := range record.Entries {
		d, n, err := SplitDayNight(e.Start, e.End)
		if err != nil {
			continue
		}
		totalDay += d
		totalNight += n
		total += e.TotalHours
	}
	if total <= 0 {
		return 0, otHours
	}
	scale := otHours / total
	return totalDay * scale, totalNight * scale
}

func sundaySplitForDay(record models.DailyRecord, otHours float64) (before, after float64) {
	if otHours <= 0 || len(record.Entries) == 0 {
		return 0, 0
	}
	var totalBefore, totalAfter, total float64
	for _, e := range record.Entries {
		b, a, err := SplitSundayNoon(e.Start, e.End)
		if err != nil {
			continue
		}
		totalBefore += b
		totalAfter += a
		total += b + a
	}
	if total <= 0 {
		return 0, otHours
	}
	scale := otHours / total
	return totalBefore * scale, totalAfter * scale
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

func roundBreakdown(b models.OvertimeBreakdown) models.OvertimeBreakdown {
	return models.OvertimeBreakdown{
		HourOneTwo:       round2(b.HourOneTwo),
		HourThreeFour:    round2(b.HourThreeFour),
		HourFivePlus:     round2(b.HourFivePlus),
		ScheduledDay:     round2(b.ScheduledDay),
		ScheduledNight:   round2(b.ScheduledNight),
		DayOffDay:        round2(b.DayOffDay),
		DayOffNight:      round2(b.DayOffNight),
		SaturdayDay:      round2(b.SaturdayDay),
		SaturdayNight:    round2(b.SaturdayNight),
		SundayBeforeNoon: round2(b.SundayBeforeNoon),
		SundayAfterNoon:  round2(b.SundayAfterNoon),
	}
}
