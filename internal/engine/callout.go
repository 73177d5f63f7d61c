package engine

import (
	"fmt"
	"sort"
	"time"

	"backend/internal/models"
	"backend/internal/ratetable"
)

const (
	callOutMorningEndMinutes       = 7 * 60
	callOutEveningStartMinutes     = 15*60 + 30
	callOutContinuationStartMinutes = 16 * 60
)

// QualifyingEntry is one entry's start time that independently
// contributes to a day's call-out eligibility.
type QualifyingEntry struct {
	Index int
	Start string // "HH:MM"
}

// sortedByStart returns entries paired with their original index,
// ordered by start-of-day time, mirroring the precedence check used to
// evaluate continuation.
func sortedByStart(entries []models.TimeEntry) []int {
	idx := make([]int, len(entries))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return entries[idx[a]].StartMinutes() < entries[idx[b]].StartMinutes()
	})
	return idx
}

// QualifyingEntries returns, in start-time order, the indices (into
// record.Entries) of entries that independently trigger call-out
// eligibility, applying the continuation rule to entries starting at or
// after 16:00.
func QualifyingEntries(record models.DailyRecord) []QualifyingEntry {
	order := sortedByStart(record.Entries)

	var qualifying []QualifyingEntry
	for pos, idx := range order {
		entry := record.Entries[idx]
		start := entry.StartMinutes()

		if start < callOutMorningEndMinutes {
			qualifying = append(qualifying, QualifyingEntry{Index: idx, Start: entry.Start.Format("15:04")})
			continue
		}

		if start >= callOutEveningStartMinutes {
			if start >= callOutContinuationStartMinutes && hasRecentWork(record.Entries, order[:pos]) {
				continue
			}
			qualifying = append(qualifying, QualifyingEntry{Index: idx, Start: entry.Start.Format("15:04")})
		}
	}
	return qualifying
}

// hasRecentWork reports whether any entry among the given (already
// start-sorted, strictly earlier) indices ended at or after 15:30 -
// regardless of gap, per the continuation heuristic's own rule.
func hasRecentWork(entries []models.TimeEntry, earlierIdx []int) bool {
	for _, idx := range earlierIdx {
		if entries[idx].EndMinutes() >= callOutEveningStartMinutes {
			return true
		}
	}
	return false
}

// DetectCallOutEligibility reports whether record qualifies for
// call-out payment: at least one qualifying entry survives the
// continuation rule.
func DetectCallOutEligibility(record models.DailyRecord) bool {
	return len(QualifyingEntries(record)) > 0
}

// MarkCallOutEligibility sets HasCallOutQualifyingTime and the list of
// qualifying start times on every record.
func MarkCallOutEligibility(records []models.DailyRecord) []models.DailyRecord {
	for i, record := range records {
		qualifying := QualifyingEntries(record)
		records[i].HasCallOutQualifyingTime = len(qualifying) > 0
		times := make([]string, 0, len(qualifying))
		for _, q := range qualifying {
			times = append(times, q.Start)
		}
		records[i].CallOutQualifyingTimes = times
	}
	return records
}

// EligibleDay is one entry in the /api/preview call_out_eligible_days[]
// response: a worker/date pair plus its qualifying start-of-day times.
type EligibleDay struct {
	Date           string   `json:"date"`
	Worker         string   `json:"worker"`
	QualifyingTimes []string `json:"qualifying_times"`
}

// EligibleDays collects every record with at least one qualifying entry
// into the UI-confirmation list.
func EligibleDays(records []models.DailyRecord) []EligibleDay {
	var days []EligibleDay
	for _, record := range records {
		if !record.HasCallOutQualifyingTime || len(record.CallOutQualifyingTimes) == 0 {
			continue
		}
		days = append(days, EligibleDay{
			Date:            record.DateString(),
			Worker:          record.WorkerName,
			QualifyingTimes: record.CallOutQualifyingTimes,
		})
	}
	return days
}

// ApplyCallOutSelections applies or clears the call-out payment on each
// output according to callOutSelections (DD-MM-YYYY -> bool), looked up
// by the output's Date field only, so a selection applies to every
// worker's output on that date. A day is only actually
// paid if it was independently found eligible; a stale selection for a
// non-qualifying day is silently reset to unpaid. The payment amount is
// always the rate band's CallOutAmount in effect on the output's date
// (C14) - never a literal in this package.
//
// Per the open call-out-recalculation question, this does not alter any OvertimeBreakdown bucket - only the
// confirmation flag and the payment are recorded.
func ApplyCallOutSelections(outputs []models.DailyOutput, selections map[string]bool, rates *ratetable.Table) ([]models.DailyOutput, error) {
	for i, output := range outputs {
		if !selections[output.Date] || !output.HasCallOutQualifyingTime {
			outputs[i].CallOutPayment = 0
			outputs[i].CallOutApplied = false
			continue
		}

		date, err := time.Parse("02-01-2006", output.Date)
		if err != nil {
			return nil, fmt.Errorf("call-out selection: bad date %q: %w", output.Date, err)
		}
		band, err := rates.Resolve(date)
		if err != nil {
			return nil, err
		}

		outputs[i].CallOutPayment = band.CallOutAmount
		outputs[i].CallOutApplied = true
	}
	return outputs, nil
}
