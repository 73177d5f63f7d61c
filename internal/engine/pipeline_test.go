package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/internal/models"
)

func sampleRecords() []models.DailyRecord {
	return []models.DailyRecord{
		{
			WorkerName: "Anders",
			Date:       timeInJanuary(5),
			DayName:    "Mandag",
			DayType:    models.DayWeekday,
			WeekNumber: 2,
			Year:       2026,
			Entries: []models.TimeEntry{
				{Activity: "Produktion", Start: at(7, 0), End: at(17, 0), TotalHours: 10.0},
			},
		},
		{
			WorkerName: "Anders",
			Date:       timeInJanuary(10),
			DayName:    "Lørdag",
			DayType:    models.DaySaturday,
			WeekNumber: 2,
			Year:       2026,
			Entries: []models.TimeEntry{
				{Activity: "Produktion", Start: at(16, 0), End: at(20, 0), TotalHours: 4.0},
			},
		},
	}
}

func TestRun_RoundTripIsDeterministic(t *testing.T) {
	first, err := Run(sampleRecords())
	require.NoError(t, err)
	second, err := Run(sampleRecords())
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first.Daily)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second.Daily)
	require.NoError(t, err)

	assert.JSONEq(t, string(firstJSON), string(secondJSON))
}

func TestRun_InvalidIntervalPropagates(t *testing.T) {
	records := []models.DailyRecord{
		{
			WorkerName: "Anders",
			Date:       timeInJanuary(5),
			DayType:    models.DayWeekday,
			WeekNumber: 2,
			Year:       2026,
			Entries: []models.TimeEntry{
				{Start: at(10, 0), End: at(10, 0)},
			},
		},
	}
	_, err := Run(records)
	assert.Error(t, err)
}

func TestRun_ProducesCallOutEligibleDays(t *testing.T) {
	records := []models.DailyRecord{
		{
			WorkerName: "Anders",
			Date:       timeInJanuary(5),
			DayType:    models.DayWeekday,
			WeekNumber: 2,
			Year:       2026,
			Entries: []models.TimeEntry{
				{Activity: "Produktion", Start: at(6, 30), End: at(15, 0), TotalHours: 8.5},
			},
		},
	}
	result, err := Run(records)
	require.NoError(t, err)
	require.Len(t, result.CallOutEligibleDays, 1)
	assert.Equal(t, "Anders", result.CallOutEligibleDays[0].Worker)
}
