package reports

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/internal/models"
)

func TestRenderCSV_Daily(t *testing.T) {
	daily := []models.DailyOutput{
		{Worker: "Jens Hansen", Date: "12-01-2026", Day: "Mandag", NormalHours: 7.4},
	}
	data, err := RenderCSV(FormatDaily, daily, nil, nil)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "worker;date;day;day_type;total_hours;normal_hours;total_overtime;call_out_payment", lines[0])
	assert.Contains(t, lines[1], "Jens Hansen")
	assert.Contains(t, lines[1], "7.40")
}

func TestRenderCSV_Weekly(t *testing.T) {
	weekly := []models.WeeklySummary{
		{WorkerName: "Jens Hansen", Year: 2026, WeekNumber: 3, TotalHours: 37, NormalHours: 37},
	}
	data, err := RenderCSV(FormatWeekly, nil, weekly, nil)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Jens Hansen;2026;3;37.00;37.00;0.00")
}

func TestRenderCSV_Combined_UsesRateBand(t *testing.T) {
	band := testRateBand()
	rates := testFixedTable(band)

	daily := []models.DailyOutput{
		{Worker: "Jens Hansen", Date: "12-01-2026", Day: "Mandag", NormalHours: 2}, // Monday
	}
	data, err := RenderCSV(FormatCombined, daily, nil, rates)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "300.00") // 2 * 150 normal_amount
}

func TestRenderCSV_UnknownFormat(t *testing.T) {
	_, err := RenderCSV("bogus", nil, nil, nil)
	require.Error(t, err)
}
