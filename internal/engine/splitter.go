/*
Package engine implements the deterministic time-interval-to-pay-category
pipeline: splitting raw entries by norm/day-night/noon boundaries,
classifying absence and call-out eligibility, applying the weekly
overtime tiering, and backfilling missing dates per worker.
*/
package engine

import (
	"time"

	"backend/internal/errors"
	"backend/internal/models"
)

// Norm time and overtime day/night boundaries, in minutes since midnight.
const (
	normStartMinutes = 7 * 60
	normEndMinutes   = 17 * 60

	otDayStartMinutes = 6 * 60
	otDayEndMinutes   = 18 * 60

	sundayNoonMinutes = 12 * 60
)

func minutesToHours(m int) float64 { return float64(m) / 60.0 }

// splitByBoundaries intersects [startMin, endMin) with [lo, hi) and
// returns (inside, outside) in minutes.
func splitByBoundaries(startMin, endMin, lo, hi int) (inside, outside int) {
	overlapStart := startMin
	if lo > overlapStart {
		overlapStart = lo
	}
	overlapEnd := endMin
	if hi < overlapEnd {
		overlapEnd = hi
	}
	if overlapEnd > overlapStart {
		inside = overlapEnd - overlapStart
	}
	outside = (endMin - startMin) - inside
	return
}

// splitByPivot intersects [startMin, endMin) against a single pivot
// minute and returns (before, atOrAfter).
func splitByPivot(startMin, endMin, pivot int) (before, atOrAfter int) {
	if endMin <= pivot {
		return endMin - startMin, 0
	}
	if startMin >= pivot {
		return 0, endMin - startMin
	}
	return pivot - startMin, endMin - pivot
}

// SplitNorm returns (hoursInNorm, hoursOutsideNorm) for an entry spanning
// [start, end) local-time-of-day, intersected against 07:00-17:00.
func SplitNorm(start, end time.Time) (float64, float64, error) {
	startMin, endMin, err := entryMinutes(start, end)
	if err != nil {
		return 0, 0, err
	}
	inside, outside := splitByBoundaries(startMin, endMin, normStartMinutes, normEndMinutes)
	return minutesToHours(inside), minutesToHours(outside), nil
}

// SplitDayNight returns (hoursDay, hoursNight) against the 06:00-18:00
// overtime day window.
func SplitDayNight(start, end time.Time) (float64, float64, error) {
	startMin, endMin, err := entryMinutes(start, end)
	if err != nil {
		return 0, 0, err
	}
	day, night := splitByBoundaries(startMin, endMin, otDayStartMinutes, otDayEndMinutes)
	return minutesToHours(day), minutesToHours(night), nil
}

// SplitSundayNoon returns (hoursBeforeNoon, hoursAfterNoon).
func SplitSundayNoon(start, end time.Time) (float64, float64, error) {
	startMin, endMin, err := entryMinutes(start, end)
	if err != nil {
		return 0, 0, err
	}
	before, after := splitByPivot(startMin, endMin, sundayNoonMinutes)
	return minutesToHours(before), minutesToHours(after), nil
}

func entryMinutes(start, end time.Time) (int, int, error) {
	startMin := start.Hour()*60 + start.Minute()
	endMin := end.Hour()*60 + end.Minute()
	if endMin <= startMin {
		return 0, 0, errors.ErrInvalidInterval
	}
	return startMin, endMin, nil
}

// ComputeEntrySegments fills HoursInNorm/HoursOutsideNorm on entry and
// returns the updated value. Rounding to two decimals happens only at
// presentation time, per the norm/outside split contract.
func ComputeEntrySegments(entry models.TimeEntry) (models.TimeEntry, error) {
	inNorm, outsideNorm, err := SplitNorm(entry.Start, entry.End)
	if err != nil {
		return entry, err
	}
	entry.HoursInNorm = inNorm
	entry.HoursOutsideNorm = outsideNorm
	return entry, nil
}

// ComputeDailySegments recomputes segment totals for every entry in a
// DailyRecord and rolls them up into the record's own totals.
func ComputeDailySegments(record models.DailyRecord) (models.DailyRecord, error) {
	var totalNorm, totalOutside, total float64
	entries := make([]models.TimeEntry, len(record.Entries))
	for i, e := range record.Entries {
		updated, err := ComputeEntrySegments(e)
		if err != nil {
			return record, err
		}
		entries[i] = updated
		totalNorm += updated.HoursInNorm
		totalOutside += updated.HoursOutsideNorm
		total += updated.TotalHours
	}
	record.Entries = entries
	record.HoursInNorm = totalNorm
	record.HoursOutsideNorm = totalOutside
	record.TotalHours = total
	return record, nil
}
