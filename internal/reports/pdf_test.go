package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/internal/models"
)

func TestRenderPDF_OnePagePerWorker(t *testing.T) {
	weekly := []models.WeeklySummary{
		{WorkerName: "Jens Hansen", Year: 2026, WeekNumber: 3, TotalHours: 37, NormalHours: 37},
		{WorkerName: "Mie Olsen", Year: 2026, WeekNumber: 3, TotalHours: 30, NormalHours: 30},
	}

	data, err := RenderPDF(weekly)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.True(t, len(data) > 4 && string(data[:4]) == "%PDF")
}

func TestTruncateCell(t *testing.T) {
	assert.Equal(t, "short", truncateCell("short"))
	assert.Equal(t, "this is a very lo...", truncateCell("this is a very long cell value"))
}

func TestIsNumericCell(t *testing.T) {
	assert.True(t, isNumericCell("37.40"))
	assert.True(t, isNumericCell("-12"))
	assert.False(t, isNumericCell("Jens Hansen"))
	assert.False(t, isNumericCell(""))
}
