package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"backend/internal/models"
)

func TestDetectAbsence_Vacation(t *testing.T) {
	record := models.DailyRecord{
		Entries: []models.TimeEntry{{Activity: "Ferie"}},
	}
	assert.Equal(t, models.AbsentVacation, DetectAbsence(record))
}

func TestDetectAbsence_Sick(t *testing.T) {
	record := models.DailyRecord{
		Entries: []models.TimeEntry{{Activity: "Barns 1. sygedag"}},
	}
	assert.Equal(t, models.AbsentSick, DetectAbsence(record))
}

func TestDetectAbsence_OrderResolvesAmbiguousKeyword(t *testing.T) {
	// "fridag" appears in both the vacation and holiday keyword lists;
	// vacation is checked first.
	record := models.DailyRecord{
		Entries: []models.TimeEntry{{Activity: "Fridag"}},
	}
	assert.Equal(t, models.AbsentVacation, DetectAbsence(record))
}

func TestDetectAbsence_NoMatch(t *testing.T) {
	record := models.DailyRecord{
		Entries: []models.TimeEntry{{Activity: "Produktion"}},
	}
	assert.Equal(t, models.AbsentNone, DetectAbsence(record))
}

func TestMarkAbsenceTypes_Idempotent(t *testing.T) {
	records := []models.DailyRecord{
		{AbsentType: models.AbsentSick, Entries: []models.TimeEntry{{Activity: "Ferie"}}},
	}
	result := MarkAbsenceTypes(records)
	assert.Equal(t, models.AbsentSick, result[0].AbsentType, "already-classified record must not be overwritten")
}
