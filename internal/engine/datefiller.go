package engine

import (
	"sort"
	"time"

	"backend/internal/models"
	"backend/internal/timeutil"
)

// FillMissingDates backfills, per worker, every date between that
// worker's earliest and latest output date. Weekdays are always filled
// with a zeroed output; Saturday/Sunday are filled only if that worker
// already had at least one actual record on that same date. Running
// this twice over its own output is a no-op (idempotent): every date in
// range is already present, so no new zeroed rows are added and
// existing ones pass through unchanged.
func FillMissingDates(outputs []models.DailyOutput) []models.DailyOutput {
	if len(outputs) == 0 {
		return outputs
	}

	byWorker := make(map[string][]models.DailyOutput)
	var workerOrder []string
	for _, o := range outputs {
		if _, ok := byWorker[o.Worker]; !ok {
			workerOrder = append(workerOrder, o.Worker)
		}
		byWorker[o.Worker] = append(byWorker[o.Worker], o)
	}

	var filled []models.DailyOutput

	for _, worker := range workerOrder {
		records := byWorker[worker]

		existing := make(map[string]models.DailyOutput, len(records))
		weekendDates := make(map[string]bool)
		var parsed []time.Time

		for _, r := range records {
			d, err := time.Parse("02-01-2006", r.Date)
			if err != nil {
				continue
			}
			parsed = append(parsed, d)
			existing[r.Date] = r
			if r.DayType == models.DaySaturday || r.DayType == models.DaySunday {
				weekendDates[r.Date] = true
			}
		}
		if len(parsed) == 0 {
			continue
		}

		minDate, maxDate := parsed[0], parsed[0]
		for _, d := range parsed {
			if d.Before(minDate) {
				minDate = d
			}
			if d.After(maxDate) {
				maxDate = d
			}
		}

		for cur := minDate; !cur.After(maxDate); cur = cur.AddDate(0, 0, 1) {
			dateStr := cur.Format("02-01-2006")

			if rec, ok := existing[dateStr]; ok {
				filled = append(filled, rec)
				continue
			}

			dayType := timeutil.ClassifyDay(cur)
			isWeekend := dayType == models.DaySaturday || dayType == models.DaySunday
			if isWeekend && !weekendDates[dateStr] {
				continue
			}

			year, week := timeutil.ISOWeek(cur)
			filled = append(filled, models.DailyOutput{
				Worker:            worker,
				Date:              dateStr,
				Day:               timeutil.DanishDayName(cur),
				DayType:           dayType,
				WeekNumber:        week,
				Year:              year,
				OvertimeBreakdown: models.OvertimeBreakdown{},
			})
		}
	}

	sort.SliceStable(filled, func(i, j int) bool {
		if filled[i].Worker != filled[j].Worker {
			return filled[i].Worker < filled[j].Worker
		}
		di, _ := time.Parse("02-01-2006", filled[i].Date)
		dj, _ := time.Parse("02-01-2006", filled[j].Date)
		return di.Before(dj)
	})

	return filled
}
