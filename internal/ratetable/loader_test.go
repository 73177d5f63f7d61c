package ratetable

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoad_ResolvesBandByEffectiveDate(t *testing.T) {
	loader := NewLoader("../../configs/rates")
	table, err := loader.Load()
	require.NoError(t, err)

	band, err := table.Resolve(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "RATES_2025", band.Name)

	band, err = table.Resolve(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "RATES_2026", band.Name)

	band, err = table.Resolve(time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "RATES_2027", band.Name)
}

func TestLoad_FailsBeforeEarliestBand(t *testing.T) {
	loader := NewLoader("../../configs/rates")
	table, err := loader.Load()
	require.NoError(t, err)

	_, err = table.Resolve(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Error(t, err)
}

func TestLoad_InheritsMissingBucketFromOlderBand(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "main.json", `{
		"bands": [
			{"effective_from": "2025-03-01", "file": "a.json"},
			{"effective_from": "2026-03-01", "file": "b.json"}
		]
	}`)
	writeConfigFile(t, dir, "a.json", `{
		"name": "RATES_A",
		"normal_rate": 165.50, "hour_1_2_rate": 223.43, "hour_3_4_rate": 248.25,
		"hour_5_plus_rate": 281.35, "scheduled_day_rate": 223.43,
		"scheduled_night_rate": 248.25, "dayoff_day_rate": 281.35,
		"dayoff_night_rate": 297.90, "saturday_day_rate": 223.43,
		"saturday_night_rate": 248.25, "sunday_before_noon_rate": 281.35,
		"sunday_after_noon_rate": 297.90, "call_out_amount": 750.0
	}`)
	// b.json omits call_out_amount entirely - it must inherit a.json's 750.
	writeConfigFile(t, dir, "b.json", `{
		"name": "RATES_B",
		"normal_rate": 171.40, "hour_1_2_rate": 231.39, "hour_3_4_rate": 257.10,
		"hour_5_plus_rate": 291.50, "scheduled_day_rate": 231.39,
		"scheduled_night_rate": 257.10, "dayoff_day_rate": 291.50,
		"dayoff_night_rate": 308.65, "saturday_day_rate": 231.39,
		"saturday_night_rate": 257.10, "sunday_before_noon_rate": 291.50,
		"sunday_after_noon_rate": 308.65
	}`)

	table, err := NewLoader(dir).Load()
	require.NoError(t, err)

	band, err := table.Resolve(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "RATES_B", band.Name)
	assert.Equal(t, 750.0, band.CallOutAmount, "missing bucket must inherit the immediately older band's value")
}

func TestLoad_FailsWhenEarliestBandIncomplete(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "main.json", `{
		"bands": [
			{"effective_from": "2025-03-01", "file": "a.json"}
		]
	}`)
	// The earliest band has no older band to inherit a missing bucket from.
	writeConfigFile(t, dir, "a.json", `{
		"name": "RATES_A",
		"normal_rate": 165.50, "hour_1_2_rate": 223.43, "hour_3_4_rate": 248.25,
		"hour_5_plus_rate": 281.35, "scheduled_day_rate": 223.43,
		"scheduled_night_rate": 248.25, "dayoff_day_rate": 281.35,
		"dayoff_night_rate": 297.90, "saturday_day_rate": 223.43,
		"saturday_night_rate": 248.25, "sunday_before_noon_rate": 281.35,
		"sunday_after_noon_rate": 297.90
	}`)

	_, err := NewLoader(dir).Load()
	assert.ErrorContains(t, err, "call_out_amount")
}
