package reports

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"backend/internal/models"
	"backend/internal/ratetable"
)

func testRateBand() ratetable.RateBand {
	return ratetable.RateBand{
		NormalRate:           150,
		HourOneTwoRate:       200,
		HourThreeFourRate:    225,
		HourFivePlusRate:     250,
		ScheduledDayRate:     150,
		ScheduledNightRate:   175,
		DayOffDayRate:        300,
		DayOffNightRate:      325,
		SaturdayDayRate:      300,
		SaturdayNightRate:    325,
		SundayBeforeNoonRate: 350,
		SundayAfterNoonRate:  375,
		CallOutAmount:        450,
	}
}

func testFixedTable(band ratetable.RateBand) *ratetable.Table {
	return ratetable.NewFixedTable(band)
}

func TestRenderXLSX_OneSheetPerWorker(t *testing.T) {
	daily := []models.DailyOutput{
		{Worker: "Jens Hansen", Date: "12-01-2026", Day: "Mandag", NormalHours: 7.4},
		{Worker: "Mie Olsen", Date: "12-01-2026", Day: "Mandag", NormalHours: 6.0},
	}

	data, err := RenderXLSX(daily, testFixedTable(testRateBand()))
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.ElementsMatch(t, []string{"Jens Hansen", "Mie Olsen"}, sheets)

	val, err := f.GetCellValue("Jens Hansen", "A2")
	require.NoError(t, err)
	assert.Equal(t, "12-01-2026", val)
}

func TestSanitizeSheetName_StripsInvalidChars(t *testing.T) {
	assert.Equal(t, "A-B-C", sanitizeSheetName("A[B]C"))
	assert.Equal(t, "Worker", sanitizeSheetName(""))
}
