package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV_DayHeadersAndEntries(t *testing.T) {
	raw := []byte("Tidsregistrering\n" +
		"Jens Hansen;\n" +
		"Mandag 12-01-2026\n" +
		"Aktivitet:;Start tid:;;Slut tid:;Varighed:\n" +
		"Arbejdskort Sag Nr. 4521;07:00;;15:30;8 Timer 30 Minutter\n" +
		"Total tid for dagen:;8 Timer 30 Minutter\n" +
		"Tirsdag 13-01-2026\n" +
		"Aktivitet: Service;07:00;;15:00;8 Timer 0 Minutter\n" +
		"Total tid i alt:;16 Timer 30 Minutter\n")

	records, err := ParseCSV(raw, "")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Jens Hansen", records[0].WorkerName)
	assert.Equal(t, "Mandag", records[0].DayName)
	require.Len(t, records[0].Entries, 1)
	assert.Equal(t, "4521", records[0].Entries[0].CaseNumber)
	assert.Equal(t, "Arbejdskort", records[0].Entries[0].Activity)
	assert.InDelta(t, 8.5, records[0].TotalHours, 0.001)

	require.Len(t, records[1].Entries, 1)
	assert.Equal(t, "Service", records[1].Entries[0].Activity)
	assert.Equal(t, "", records[1].Entries[0].CaseNumber)
	assert.InDelta(t, 8.0, records[1].Entries[0].TotalHours, 0.001)
}

func TestParseCSV_FallsBackToSuppliedWorkerName(t *testing.T) {
	raw := []byte("Tidsregistrering\n" +
		";\n" +
		"Mandag 12-01-2026\n" +
		"Aktivitet: Rengøring;07:00;;12:00;5 Timer 0 Minutter\n")

	records, err := ParseCSV(raw, "Worker")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Worker", records[0].WorkerName)
}

func TestParseCSV_DurationFieldIsAuthoritative(t *testing.T) {
	// total_hours is sourced from the duration field, independently of
	// the start/end columns, matching the vendor export's own layout.
	raw := []byte("Tidsregistrering\n" +
		"Worker;\n" +
		"Mandag 12-01-2026\n" +
		"Aktivitet: Pause;07:00;;15:00;7 Timer 30 Minutter\n")

	records, err := ParseCSV(raw, "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Len(t, records[0].Entries, 1)
	assert.InDelta(t, 7.5, records[0].Entries[0].TotalHours, 0.001)
}

func TestParseCSV_InvalidInterval(t *testing.T) {
	raw := []byte("Tidsregistrering\n" +
		"Worker;\n" +
		"Mandag 12-01-2026\n" +
		"Aktivitet: Reparation;15:00;;14:00;1 Timer 0 Minutter\n")

	_, err := ParseCSV(raw, "Worker")
	require.Error(t, err)
}

func TestParseCSV_EntryBeforeDayHeaderIsDropped(t *testing.T) {
	raw := []byte("Tidsregistrering\n" +
		"Worker;\n" +
		"Aktivitet: Reparation;07:00;;15:30;8 Timer 30 Minutter\n")

	records, err := ParseCSV(raw, "Worker")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseCSV_IgnoresTotalAndFooterLines(t *testing.T) {
	raw := []byte("Tidsregistrering\n" +
		"Worker;\n" +
		"Mandag 12-01-2026\n" +
		"Aktivitet:;Start tid:;;Slut tid:;Varighed:\n" +
		"Aktivitet: Reparation;07:00;;15:30;8 Timer 30 Minutter\n" +
		"Total tid for dagen:;8 Timer 30 Minutter\n" +
		"Fordelt på aktiviteter\n" +
		"Side 1/1\n")

	records, err := ParseCSV(raw, "Worker")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Len(t, records[0].Entries, 1)
}

func TestParseCSV_TooFewLinesYieldsNoRecords(t *testing.T) {
	raw := []byte("Tidsregistrering\nWorker;\n")

	records, err := ParseCSV(raw, "Worker")
	require.NoError(t, err)
	assert.Empty(t, records)
}
