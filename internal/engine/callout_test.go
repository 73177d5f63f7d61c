package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/internal/models"
	"backend/internal/ratetable"
)

func testCallOutRates() *ratetable.Table {
	return ratetable.NewFixedTable(ratetable.RateBand{CallOutAmount: 750})
}

func entryAt(startH, startM, endH, endM int) models.TimeEntry {
	return models.TimeEntry{
		Start: at(startH, startM),
		End:   at(endH, endM),
	}
}

func TestDetectCallOutEligibility_MorningStart(t *testing.T) {
	record := models.DailyRecord{Entries: []models.TimeEntry{entryAt(6, 59, 15, 0)}}
	assert.True(t, DetectCallOutEligibility(record))
}

func TestDetectCallOutEligibility_ExactlyFifteenThirty(t *testing.T) {
	record := models.DailyRecord{Entries: []models.TimeEntry{entryAt(15, 30, 17, 0)}}
	assert.True(t, DetectCallOutEligibility(record), "15:30 start qualifies")
}

func TestDetectCallOutEligibility_FifteenTwentyNineDoesNotQualify(t *testing.T) {
	record := models.DailyRecord{Entries: []models.TimeEntry{entryAt(15, 29, 17, 0)}}
	assert.False(t, DetectCallOutEligibility(record))
}

func TestDetectCallOutEligibility_ContinuationSuppressed(t *testing.T) {
	// Scenario 5: entries 07:00-15:45 and 16:00-17:30 -> NOT call-out.
	record := models.DailyRecord{
		Entries: []models.TimeEntry{
			entryAt(7, 0, 15, 45),
			entryAt(16, 0, 17, 30),
		},
	}
	assert.False(t, DetectCallOutEligibility(record))
}

func TestDetectCallOutEligibility_ContinuationIgnoresGap(t *testing.T) {
	// 10:00-15:30 and 16:00-18:00 with a 30-minute gap still suppresses.
	record := models.DailyRecord{
		Entries: []models.TimeEntry{
			entryAt(10, 0, 15, 30),
			entryAt(16, 0, 18, 0),
		},
	}
	assert.False(t, DetectCallOutEligibility(record))
}

func TestDetectCallOutEligibility_SixteenWithoutPriorRecentWorkQualifies(t *testing.T) {
	record := models.DailyRecord{
		Entries: []models.TimeEntry{
			entryAt(8, 0, 12, 0),
			entryAt(16, 0, 18, 0),
		},
	}
	assert.True(t, DetectCallOutEligibility(record))
}

func TestApplyCallOutSelections_ResetsWhenNotQualifying(t *testing.T) {
	outputs := []models.DailyOutput{
		{Date: "05-01-2026", HasCallOutQualifyingTime: false},
	}
	result, err := ApplyCallOutSelections(outputs, map[string]bool{"05-01-2026": true}, testCallOutRates())
	require.NoError(t, err)
	assert.False(t, result[0].CallOutApplied)
	assert.Equal(t, 0.0, result[0].CallOutPayment)
}

func TestApplyCallOutSelections_AppliesRateBandAmount(t *testing.T) {
	outputs := []models.DailyOutput{
		{Date: "05-01-2026", HasCallOutQualifyingTime: true},
	}
	result, err := ApplyCallOutSelections(outputs, map[string]bool{"05-01-2026": true}, testCallOutRates())
	require.NoError(t, err)
	assert.True(t, result[0].CallOutApplied)
	assert.Equal(t, 750.0, result[0].CallOutPayment)
}
