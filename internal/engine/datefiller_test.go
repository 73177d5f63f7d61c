package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/internal/models"
)

func TestFillMissingDates_FillsWeekdaysOnly(t *testing.T) {
	outputs := []models.DailyOutput{
		{Worker: "Anders", Date: "05-01-2026", DayType: models.DayWeekday}, // Monday
		{Worker: "Anders", Date: "09-01-2026", DayType: models.DayWeekday}, // Friday
	}

	filled := FillMissingDates(outputs)

	dates := make([]string, 0, len(filled))
	for _, o := range filled {
		dates = append(dates, o.Date)
	}
	assert.Contains(t, dates, "06-01-2026")
	assert.Contains(t, dates, "07-01-2026")
	assert.Contains(t, dates, "08-01-2026")
	assert.NotContains(t, dates, "10-01-2026", "Saturday outside original range with no data must not appear")
	assert.NotContains(t, dates, "11-01-2026", "Sunday outside original range with no data must not appear")
}

func TestFillMissingDates_IncludesWeekendOnlyWhenWorkerHasData(t *testing.T) {
	outputs := []models.DailyOutput{
		{Worker: "Anders", Date: "05-01-2026", DayType: models.DayWeekday},
		{Worker: "Anders", Date: "10-01-2026", DayType: models.DaySaturday},
		{Worker: "Anders", Date: "12-01-2026", DayType: models.DayWeekday},
	}

	filled := FillMissingDates(outputs)

	dates := make([]string, 0, len(filled))
	for _, o := range filled {
		dates = append(dates, o.Date)
	}
	assert.Contains(t, dates, "10-01-2026", "Saturday with actual data must be kept")
	assert.NotContains(t, dates, "11-01-2026", "Sunday with no data for this worker must not be backfilled")
}

func TestFillMissingDates_PerWorkerWeekendIndependence(t *testing.T) {
	outputs := []models.DailyOutput{
		{Worker: "Anders", Date: "05-01-2026", DayType: models.DayWeekday},
		{Worker: "Anders", Date: "09-01-2026", DayType: models.DayWeekday},
		{Worker: "Berit", Date: "05-01-2026", DayType: models.DayWeekday},
		{Worker: "Berit", Date: "10-01-2026", DayType: models.DaySaturday},
		{Worker: "Berit", Date: "09-01-2026", DayType: models.DayWeekday},
	}

	filled := FillMissingDates(outputs)

	var andersSaw10, beritSaw10 bool
	for _, o := range filled {
		if o.Date == "10-01-2026" {
			if o.Worker == "Anders" {
				andersSaw10 = true
			}
			if o.Worker == "Berit" {
				beritSaw10 = true
			}
		}
	}
	assert.False(t, andersSaw10, "Anders has no weekend data so Saturday must not be backfilled")
	assert.True(t, beritSaw10, "Berit has Saturday data so it stays present")
}

func TestFillMissingDates_Idempotent(t *testing.T) {
	outputs := []models.DailyOutput{
		{Worker: "Anders", Date: "05-01-2026", DayType: models.DayWeekday},
		{Worker: "Anders", Date: "09-01-2026", DayType: models.DayWeekday},
	}

	once := FillMissingDates(outputs)
	twice := FillMissingDates(once)

	require.Equal(t, len(once), len(twice))
	for i := range once {
		assert.Equal(t, once[i].Date, twice[i].Date)
		assert.Equal(t, once[i].Worker, twice[i].Worker)
	}
}

func TestFillMissingDates_SortedByWorkerThenDate(t *testing.T) {
	outputs := []models.DailyOutput{
		{Worker: "Berit", Date: "06-01-2026", DayType: models.DayWeekday},
		{Worker: "Anders", Date: "05-01-2026", DayType: models.DayWeekday},
	}
	filled := FillMissingDates(outputs)
	require.NotEmpty(t, filled)
	assert.Equal(t, "Anders", filled[0].Worker)
}
