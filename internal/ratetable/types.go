package ratetable

// RateBand holds the per-bucket hourly supplement rates (DKK/hour) and
// the call-out amount in effect for one versioned rate table. Rates are
// applied only at CSV/report-rendering time; the categorization engine
// itself is rate-agnostic (§4.4).
type RateBand struct {
	Name string `json:"name"`

	NormalRate float64 `json:"normal_rate"`

	HourOneTwoRate    float64 `json:"hour_1_2_rate"`
	HourThreeFourRate float64 `json:"hour_3_4_rate"`
	HourFivePlusRate  float64 `json:"hour_5_plus_rate"`

	ScheduledDayRate   float64 `json:"scheduled_day_rate"`
	ScheduledNightRate float64 `json:"scheduled_night_rate"`

	DayOffDayRate   float64 `json:"dayoff_day_rate"`
	DayOffNightRate float64 `json:"dayoff_night_rate"`

	SaturdayDayRate   float64 `json:"saturday_day_rate"`
	SaturdayNightRate float64 `json:"saturday_night_rate"`

	SundayBeforeNoonRate float64 `json:"sunday_before_noon_rate"`
	SundayAfterNoonRate  float64 `json:"sunday_after_noon_rate"`

	CallOutAmount float64 `json:"call_out_amount"`
}

// rawRateBand mirrors RateBand field-for-field with pointers, so the
// loader can tell an explicit zero rate apart from a bucket the band
// file omits entirely - the distinction the inheritance rule in §4.4/
// §4.12 needs.
type rawRateBand struct {
	Name *string `json:"name"`

	NormalRate *float64 `json:"normal_rate"`

	HourOneTwoRate    *float64 `json:"hour_1_2_rate"`
	HourThreeFourRate *float64 `json:"hour_3_4_rate"`
	HourFivePlusRate  *float64 `json:"hour_5_plus_rate"`

	ScheduledDayRate   *float64 `json:"scheduled_day_rate"`
	ScheduledNightRate *float64 `json:"scheduled_night_rate"`

	DayOffDayRate   *float64 `json:"dayoff_day_rate"`
	DayOffNightRate *float64 `json:"dayoff_night_rate"`

	SaturdayDayRate   *float64 `json:"saturday_day_rate"`
	SaturdayNightRate *float64 `json:"saturday_night_rate"`

	SundayBeforeNoonRate *float64 `json:"sunday_before_noon_rate"`
	SundayAfterNoonRate  *float64 `json:"sunday_after_noon_rate"`

	CallOutAmount *float64 `json:"call_out_amount"`
}

// MasterConfig lists, by effective date, which band file backs each
// rate table version.
type MasterConfig struct {
	Bands []BandRef `json:"bands"`
}

// BandRef names one band file and the date from which it takes effect.
type BandRef struct {
	EffectiveFrom string `json:"effective_from"` // "YYYY-MM-DD"
	File          string `json:"file"`
}
