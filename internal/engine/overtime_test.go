package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/internal/models"
)

func timeInJanuary(day int) time.Time {
	return time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC)
}

func weekdayRecord(worker string, date int, totalHours float64, startH, startM, endH, endM int) models.DailyRecord {
	entry := models.TimeEntry{
		Start:      at(startH, startM),
		End:        at(endH, endM),
		TotalHours: totalHours,
	}
	return models.DailyRecord{
		WorkerName: worker,
		Date:       timeInJanuary(date),
		DayName:    "Weekday",
		DayType:    models.DayWeekday,
		WeekNumber: 2,
		Year:       2026,
		Entries:    []models.TimeEntry{entry},
		TotalHours: totalHours,
	}
}

func TestScenario1_PlainOvertimeTiering(t *testing.T) {
	// Five weekdays x 8.0h = 40h, all within 07:00-17:00.
	var records []models.DailyRecord
	for i, day := range []int{5, 6, 7, 8, 9} { // Mon-Fri, week 2 of 2026
		_ = i
		records = append(records, weekdayRecord("Anders", day, 8.0, 7, 0, 15, 0))
	}

	weekly, daily := RunOvertimeEngine(records)
	require.Len(t, weekly, 1)
	require.Len(t, daily, 5)

	w := weekly[0]
	assert.InDelta(t, 37.00, w.NormalHours, 0.001)
	assert.InDelta(t, 2.00, w.OvertimeBreakdown.HourOneTwo, 0.001)
	assert.InDelta(t, 1.00, w.OvertimeBreakdown.HourThreeFour, 0.001)
	assert.InDelta(t, 0.00, w.OvertimeBreakdown.HourFivePlus, 0.001)
	assert.InDelta(t, 3.00, w.OvertimeBreakdown.ScheduledDay, 0.001)
	assert.InDelta(t, 0.00, w.OvertimeBreakdown.ScheduledNight, 0.001)
}

func TestScenario2_SaturdaySplit(t *testing.T) {
	record := models.DailyRecord{
		WorkerName: "Anders",
		Date:       timeInJanuary(10), // Saturday
		DayType:    models.DaySaturday,
		WeekNumber: 2,
		Year:       2026,
		Entries: []models.TimeEntry{
			{Start: at(16, 0), End: at(20, 0), TotalHours: 4.0},
		},
		TotalHours: 4.0,
	}

	_, daily := RunOvertimeEngine([]models.DailyRecord{record})
	require.Len(t, daily, 1)
	assert.InDelta(t, 2.00, daily[0].OvertimeBreakdown.SaturdayDay, 0.001)
	assert.InDelta(t, 2.00, daily[0].OvertimeBreakdown.SaturdayNight, 0.001)
}

func TestScenario3_SundayNoonSplit(t *testing.T) {
	record := models.DailyRecord{
		WorkerName: "Anders",
		Date:       timeInJanuary(11), // Sunday
		DayType:    models.DaySunday,
		WeekNumber: 2,
		Year:       2026,
		Entries: []models.TimeEntry{
			{Start: at(10, 0), End: at(14, 0), TotalHours: 4.0},
		},
		TotalHours: 4.0,
	}

	_, daily := RunOvertimeEngine([]models.DailyRecord{record})
	require.Len(t, daily, 1)
	b := daily[0].OvertimeBreakdown
	assert.InDelta(t, 2.00, b.SundayBeforeNoon, 0.001)
	assert.InDelta(t, 2.00, b.SundayAfterNoon, 0.001)
	assert.InDelta(t, 0.00, b.HourOneTwo, 0.001)
	assert.InDelta(t, 0.00, b.HourThreeFour, 0.001)
	assert.InDelta(t, 0.00, b.HourFivePlus, 0.001)
}

func TestScenario4_AbsenceCreditCrossesNorm(t *testing.T) {
	// Four weekdays x 8h worked + one weekday marked Vacation (credit
	// 7.4h, no entries). Total week hours = 32 + 7.4 = 39.4, so total
	// overtime is 39.4 - 37 = 2.4h: hour_1_2 fills to 2.00, the
	// remainder (0.40h) spills into hour_3_4.
	var records []models.DailyRecord
	for _, day := range []int{5, 6, 7, 8} {
		records = append(records, weekdayRecord("Anders", day, 8.0, 7, 0, 15, 0))
	}
	records = append(records, models.DailyRecord{
		WorkerName:    "Anders",
		Date:          timeInJanuary(9),
		DayType:       models.DayWeekday,
		WeekNumber:    2,
		Year:          2026,
		AbsentType:    models.AbsentVacation,
		CreditedHours: 7.4,
	})

	weekly, _ := RunOvertimeEngine(records)
	require.Len(t, weekly, 1)
	w := weekly[0]

	assert.InDelta(t, 37.00, w.NormalHours, 0.001)
	assert.InDelta(t, 2.00, w.OvertimeBreakdown.HourOneTwo, 0.001)
	assert.InDelta(t, 0.40, w.OvertimeBreakdown.HourThreeFour, 0.001)
	assert.InDelta(t, 0.00, w.OvertimeBreakdown.HourFivePlus, 0.001)
}

func TestWeeklyTotal37EmitsZeroOvertime(t *testing.T) {
	// 37 hours spread over 5 weekdays as exact 7h24m (7.4h) days.
	var records []models.DailyRecord
	for _, day := range []int{5, 6, 7, 8, 9} {
		records = append(records, weekdayRecord("Anders", day, 7.4, 7, 0, 14, 24))
	}
	weekly, _ := RunOvertimeEngine(records)
	require.Len(t, weekly, 1)
	assert.InDelta(t, 0.0, weekly[0].OvertimeBreakdown.Total(), 0.01)
}

func TestInvariant_WeeklyTotalsEqualNormalPlusOvertime(t *testing.T) {
	var records []models.DailyRecord
	for _, day := range []int{5, 6, 7, 8, 9} {
		records = append(records, weekdayRecord("Anders", day, 9.0, 7, 0, 16, 0))
	}
	weekly, _ := RunOvertimeEngine(records)
	require.Len(t, weekly, 1)
	w := weekly[0]
	assert.LessOrEqual(t, w.NormalHours, 37.0+0.0001)
	assert.InDelta(t, w.NormalHours+w.OvertimeBreakdown.Total(), w.TotalHours, 0.01)
}

func TestHourlyTiering_IsAPartition(t *testing.T) {
	var records []models.DailyRecord
	for _, day := range []int{5, 6, 7, 8, 9} {
		records = append(records, weekdayRecord("Anders", day, 10.0, 6, 0, 16, 0))
	}
	weekly, _ := RunOvertimeEngine(records)
	require.Len(t, weekly, 1)
	b := weekly[0].OvertimeBreakdown
	assert.LessOrEqual(t, b.HourOneTwo, 2.0001)
	assert.LessOrEqual(t, b.HourThreeFour, 2.0001)
}
