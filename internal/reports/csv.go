/*
Package reports implements C15: CSV, XLSX, and PDF renditions of a
preview session's DailyOutput/WeeklySummary rows, sharing one rate
lookup so a DKK amount is computed in exactly one place regardless of
which output format a caller asked for.
*/
package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"backend/internal/errors"
	"backend/internal/models"
	"backend/internal/ratetable"
)

// OutputFormat enumerates the CSV renditions the export endpoint
// accepts, per §6.
type OutputFormat string

const (
	FormatDaily          OutputFormat = "daily"
	FormatDetailed       OutputFormat = "detailed"
	FormatWeekly         OutputFormat = "weekly"
	FormatWeeklyDetailed OutputFormat = "weekly_detailed"
	FormatCombined       OutputFormat = "combined"
)

var breakdownColumns = []string{
	"hour_1_2", "hour_3_4", "hour_5_plus",
	"scheduled_day", "scheduled_night",
	"dayoff_day", "dayoff_night",
	"saturday_day", "saturday_night",
	"sunday_before_noon", "sunday_after_noon",
}

func breakdownValues(b models.OvertimeBreakdown) []float64 {
	return []float64{
		b.HourOneTwo, b.HourThreeFour, b.HourFivePlus,
		b.ScheduledDay, b.ScheduledNight,
		b.DayOffDay, b.DayOffNight,
		b.SaturdayDay, b.SaturdayNight,
		b.SundayBeforeNoon, b.SundayAfterNoon,
	}
}

func breakdownRates(r ratetable.RateBand) []float64 {
	return []float64{
		r.HourOneTwoRate, r.HourThreeFourRate, r.HourFivePlusRate,
		r.ScheduledDayRate, r.ScheduledNightRate,
		r.DayOffDayRate, r.DayOffNightRate,
		r.SaturdayDayRate, r.SaturdayNightRate,
		r.SundayBeforeNoonRate, r.SundayAfterNoonRate,
	}
}

func f(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// RenderCSV writes one of the five output_format views as CSV, using
// rates for the "combined" view's monetary columns.
func RenderCSV(format OutputFormat, daily []models.DailyOutput, weekly []models.WeeklySummary, rates *ratetable.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'

	var err error
	switch format {
	case FormatDaily:
		err = writeDaily(w, daily)
	case FormatDetailed:
		err = writeDetailed(w, daily)
	case FormatWeekly:
		err = writeWeekly(w, weekly)
	case FormatWeeklyDetailed:
		err = writeWeeklyDetailed(w, weekly)
	case FormatCombined:
		err = writeCombined(w, daily, rates)
	default:
		return nil, errors.ErrInvalidInput.WithMessage("unknown output_format: " + string(format))
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal)
	}
	return buf.Bytes(), nil
}

func writeDaily(w *csv.Writer, daily []models.DailyOutput) error {
	if err := w.Write([]string{"worker", "date", "day", "day_type", "total_hours", "normal_hours", "total_overtime", "call_out_payment"}); err != nil {
		return err
	}
	for _, d := range daily {
		row := []string{
			d.Worker, d.Date, d.Day, string(d.DayType),
			f(d.TotalHours), f(d.NormalHours), f(d.TotalOvertime()), f(d.CallOutPayment),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeDetailed(w *csv.Writer, daily []models.DailyOutput) error {
	header := append([]string{"worker", "date", "day", "day_type", "normal_hours"}, breakdownColumns...)
	header = append(header, "call_out_payment")
	if err := w.Write(header); err != nil {
		return err
	}
	for _, d := range daily {
		row := []string{d.Worker, d.Date, d.Day, string(d.DayType), f(d.NormalHours)}
		for _, v := range breakdownValues(d.OvertimeBreakdown) {
			row = append(row, f(v))
		}
		row = append(row, f(d.CallOutPayment))
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeWeekly(w *csv.Writer, weekly []models.WeeklySummary) error {
	if err := w.Write([]string{"worker", "year", "week", "total_hours", "normal_hours", "total_overtime"}); err != nil {
		return err
	}
	for _, s := range weekly {
		row := []string{
			s.WorkerName, strconv.Itoa(s.Year), strconv.Itoa(s.WeekNumber),
			f(s.TotalHours), f(s.NormalHours), f(s.OvertimeBreakdown.Total()),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeWeeklyDetailed(w *csv.Writer, weekly []models.WeeklySummary) error {
	header := append([]string{"worker", "year", "week", "normal_hours"}, breakdownColumns...)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, s := range weekly {
		row := []string{s.WorkerName, strconv.Itoa(s.Year), strconv.Itoa(s.WeekNumber), f(s.NormalHours)}
		for _, v := range breakdownValues(s.OvertimeBreakdown) {
			row = append(row, f(v))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// writeCombined is the detailed view plus one DKK amount column per
// hour column, resolved from the rate band effective on each day's
// date.
func writeCombined(w *csv.Writer, daily []models.DailyOutput, rates *ratetable.Table) error {
	header := append([]string{"worker", "date", "day", "day_type", "normal_hours", "normal_amount"}, breakdownColumns...)
	for _, c := range breakdownColumns {
		header = append(header, c+"_amount")
	}
	header = append(header, "call_out_payment")
	if err := w.Write(header); err != nil {
		return err
	}

	for _, d := range daily {
		date, err := time.Parse("02-01-2006", d.Date)
		if err != nil {
			return fmt.Errorf("combined export: bad date %q: %w", d.Date, err)
		}
		band, err := rates.Resolve(date)
		if err != nil {
			return err
		}

		row := []string{d.Worker, d.Date, d.Day, string(d.DayType), f(d.NormalHours), f(d.NormalHours * band.NormalRate)}
		values := breakdownValues(d.OvertimeBreakdown)
		bandRates := breakdownRates(band)
		for _, v := range values {
			row = append(row, f(v))
		}
		for i, v := range values {
			row = append(row, f(v*bandRates[i]))
		}
		row = append(row, f(d.CallOutPayment))
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
