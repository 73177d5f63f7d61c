package engine

import (
	"strings"

	"backend/internal/models"
)

// Danish keyword sets used to classify a day's absence type from the
// activity text on its entries. The categories are checked in order
// Vacation -> Sick -> Holiday; "fridag" appears in both Vacation and
// Holiday below, so order resolves the ambiguity deterministically.
var (
	vacationKeywords = []string{"ferie", "vacation", "afspadsering", "fridag"}

	sickKeywords = []string{
		"syg", "sygdom", "sick", "barns sygedag", "barns 1. sygedag", "barns 2. sygedag",
	}

	holidayKeywords = []string{
		"helligdag", "holiday", "public holiday", "fridag", "juledag", "nytårsdag",
		"påske", "pinse", "store bededag", "kr. himmelfartsdag", "grundlovsdag",
	}
)

// DetectAbsence scans record's entries for keyword matches and returns
// the resulting AbsentType, or AbsentNone if nothing matches.
func DetectAbsence(record models.DailyRecord) models.AbsentType {
	for _, entry := range record.Entries {
		activity := strings.ToLower(entry.Activity)

		if containsAny(activity, vacationKeywords) {
			return models.AbsentVacation
		}
		if containsAny(activity, sickKeywords) {
			return models.AbsentSick
		}
		if containsAny(activity, holidayKeywords) {
			return models.AbsentPublicHoliday
		}
	}
	return models.AbsentNone
}

func containsAny(haystack string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}

// MarkAbsenceTypes sets AbsentType on every record whose AbsentType is
// currently None, leaving already-classified records untouched
// (idempotent: re-invocation never overwrites an existing classification).
func MarkAbsenceTypes(records []models.DailyRecord) []models.DailyRecord {
	for i, record := range records {
		if record.AbsentType == models.AbsentNone || record.AbsentType == "" {
			records[i].AbsentType = DetectAbsence(record)
		}
	}
	return records
}
