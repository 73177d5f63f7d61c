package engine

import "backend/internal/models"

// Result is the full output of one pipeline run: ready for caching,
// export, or sync.
type Result struct {
	Records            []models.DailyRecord
	Daily              []models.DailyOutput
	Weekly             []models.WeeklySummary
	CallOutEligibleDays []EligibleDay
}

// Run executes the full C3->C6 pipeline over a set of raw daily
// records: segment splitting, absence classification, call-out
// classification, weekly overtime categorization, and date filling.
// Re-running it over the same input records is expected to produce
// byte-identical output (the round-trip property in §8); the function
// performs no I/O and holds no state beyond its arguments.
func Run(records []models.DailyRecord) (Result, error) {
	segmented := make([]models.DailyRecord, len(records))
	for i, r := range records {
		s, err := ComputeDailySegments(r)
		if err != nil {
			return Result{}, err
		}
		segmented[i] = s
	}

	withAbsence := MarkAbsenceTypes(segmented)
	withCallOut := MarkCallOutEligibility(withAbsence)

	weekly, daily := RunOvertimeEngine(withCallOut)
	daily = FillMissingDates(daily)

	return Result{
		Records:             withCallOut,
		Daily:               daily,
		Weekly:              weekly,
		CallOutEligibleDays: EligibleDays(withCallOut),
	}, nil
}
