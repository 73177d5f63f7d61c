/*
Package ratetable - Rate Band Completeness Validator

Validates each rate band loaded from configs/rates/*.json and fills in
any bucket a band omits by inheriting the immediately older band's
resolved value, per §4.4/§4.12's completeness contract. Called
automatically while loading the table.
*/
package ratetable

import "fmt"

// Validator checks rate band completeness and resolves inheritance.
type Validator struct{}

// NewValidator creates a new rate band validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Fill resolves raw into a complete RateBand, inheriting any bucket raw
// leaves nil from prev (the immediately older band in effective-date
// order). prev is nil for the earliest band. Returns an error naming
// every bucket that is missing from both raw and every older band.
func (v *Validator) Fill(fileName string, raw rawRateBand, prev *RateBand) (RateBand, error) {
	var missing []string
	var previous RateBand
	hasPrev := prev != nil
	if hasPrev {
		previous = *prev
	}

	resolve := func(bucket string, val *float64, older float64) float64 {
		if val != nil {
			return *val
		}
		if hasPrev {
			return older
		}
		missing = append(missing, bucket)
		return 0
	}

	band := RateBand{
		Name: fileName,

		NormalRate: resolve("normal_rate", raw.NormalRate, previous.NormalRate),

		HourOneTwoRate:    resolve("hour_1_2_rate", raw.HourOneTwoRate, previous.HourOneTwoRate),
		HourThreeFourRate: resolve("hour_3_4_rate", raw.HourThreeFourRate, previous.HourThreeFourRate),
		HourFivePlusRate:  resolve("hour_5_plus_rate", raw.HourFivePlusRate, previous.HourFivePlusRate),

		ScheduledDayRate:   resolve("scheduled_day_rate", raw.ScheduledDayRate, previous.ScheduledDayRate),
		ScheduledNightRate: resolve("scheduled_night_rate", raw.ScheduledNightRate, previous.ScheduledNightRate),

		DayOffDayRate:   resolve("dayoff_day_rate", raw.DayOffDayRate, previous.DayOffDayRate),
		DayOffNightRate: resolve("dayoff_night_rate", raw.DayOffNightRate, previous.DayOffNightRate),

		SaturdayDayRate:   resolve("saturday_day_rate", raw.SaturdayDayRate, previous.SaturdayDayRate),
		SaturdayNightRate: resolve("saturday_night_rate", raw.SaturdayNightRate, previous.SaturdayNightRate),

		SundayBeforeNoonRate: resolve("sunday_before_noon_rate", raw.SundayBeforeNoonRate, previous.SundayBeforeNoonRate),
		SundayAfterNoonRate:  resolve("sunday_after_noon_rate", raw.SundayAfterNoonRate, previous.SundayAfterNoonRate),

		CallOutAmount: resolve("call_out_amount", raw.CallOutAmount, previous.CallOutAmount),
	}

	if raw.Name != nil {
		band.Name = *raw.Name
	}

	if len(missing) > 0 {
		return RateBand{}, fmt.Errorf("rate band %q incomplete: missing %v with no older band to inherit from", fileName, missing)
	}
	return band, nil
}
