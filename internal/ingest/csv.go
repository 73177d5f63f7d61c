/*
Package ingest implements C1 (CSV upload) and C2 (upstream REST pull):
the two ways raw time-registration data enters the pipeline, both
producing the same []models.DailyRecord shape consumed by engine.Run.
*/
package ingest

import (
	"bytes"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"backend/internal/errors"
	"backend/internal/models"
	"backend/internal/timeutil"
)

// danishDayNames maps a lowercased Danish weekday name to its display
// form, the set a day-header line ("Mandag 12-01-2026") is matched
// against.
var danishDayNames = map[string]string{
	"mandag":  "Mandag",
	"tirsdag": "Tirsdag",
	"onsdag":  "Onsdag",
	"torsdag": "Torsdag",
	"fredag":  "Fredag",
	"lørdag":  "Lørdag",
	"søndag":  "Søndag",
}

// dayHeaderDatePattern pulls the DD-MM-YYYY date out of a day-header
// line, wherever it falls after the day name.
var dayHeaderDatePattern = regexp.MustCompile(`(\d{2})-(\d{2})-(\d{4})`)

// durationPattern matches the vendor's Danish duration phrasing in the
// entry row's fifth field, "X Timer Y Minutter" (e.g. "1 Timer 30
// Minutter"), which is where total_hours is actually sourced from - not
// from the start/end columns.
var durationPattern = regexp.MustCompile(`(?i)(\d+)\s*Timer\s*(\d+)\s*Minutter`)

// caseWorkCardPattern recognizes the work-card case-number format,
// "Arbejdskort Sag Nr. 33511".
var caseWorkCardPattern = regexp.MustCompile(`(?i)Arbejdskort\s+Sag\s+Nr\.\s*(\d+)`)

// caseActivityPattern recognizes the plain-activity format, "Aktivitet:
// Rengøring", which carries no case number.
var caseActivityPattern = regexp.MustCompile(`(?i)Aktivitet:\s*(.+)`)

// ParseCSV reads one vendor CSV export for a single worker and returns
// its entries grouped into DailyRecord per day-header section. The
// file's second line (the first is a "Tidsregistrering" title row)
// carries the worker name as its first semicolon field; workerName is
// used as a fallback when that field is blank.
func ParseCSV(raw []byte, workerName string) ([]models.DailyRecord, error) {
	decoded, err := decodeBestEffort(raw)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(strings.TrimRight(decoded, "\r\n"), "\n")
	if len(lines) < 3 {
		return nil, nil
	}

	if name := strings.TrimSpace(strings.SplitN(lines[1], ";", 2)[0]); name != "" {
		workerName = name
	}

	var records []models.DailyRecord
	var current *models.DailyRecord

	flush := func() {
		if current != nil && len(current.Entries) > 0 {
			records = append(records, finalizeRecord(*current))
		}
		current = nil
	}

	for _, raw := range lines[2:] {
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == ";;;;;" {
			continue
		}

		if isDayHeaderLine(trimmed) {
			flush()
			dayName, date, ok := parseDayHeaderDate(trimmed)
			if !ok {
				// A header naming a weekday but carrying no usable date;
				// entries until the next valid header have nowhere to
				// attach and are dropped.
				continue
			}
			current = &models.DailyRecord{
				WorkerName: workerName,
				Date:       date,
				DayName:    dayName,
				DayType:    timeutil.ClassifyDay(date),
			}
			current.Year, current.WeekNumber = timeutil.ISOWeek(date)
			continue
		}

		lower := strings.ToLower(trimmed)
		if isColumnHeaderLine(lower) || isDailyTotalLine(lower) || isGrandTotalLine(lower) || isFooterLine(lower, trimmed) {
			continue
		}

		if current == nil {
			// An entry line before any day header has no day to attach
			// to and is silently dropped.
			continue
		}

		entry, ok, err := parseEntryLine(trimmed, current.Date)
		if err != nil {
			return nil, err
		}
		if ok {
			current.Entries = append(current.Entries, entry)
		}
	}
	flush()

	return records, nil
}

// isDayHeaderLine reports whether line's lowercased form starts with a
// Danish weekday name.
func isDayHeaderLine(line string) bool {
	lower := strings.ToLower(line)
	for danish := range danishDayNames {
		if strings.HasPrefix(lower, danish) {
			return true
		}
	}
	return false
}

// parseDayHeaderDate extracts the display day name and the DD-MM-YYYY
// date from a line already confirmed to be a day header.
func parseDayHeaderDate(line string) (dayName string, date time.Time, ok bool) {
	lower := strings.ToLower(line)
	for danish, display := range danishDayNames {
		if !strings.HasPrefix(lower, danish) {
			continue
		}
		dayName = display
		m := dayHeaderDatePattern.FindStringSubmatch(line)
		if m == nil {
			return dayName, time.Time{}, false
		}
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		return dayName, time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
	}
	return "", time.Time{}, false
}

// isColumnHeaderLine recognizes the export's repeated column-title row.
func isColumnHeaderLine(lower string) bool {
	return strings.Contains(lower, "aktivitet:") && strings.Contains(lower, "start tid:")
}

// isDailyTotalLine recognizes the per-day summary row.
func isDailyTotalLine(lower string) bool {
	return strings.Contains(lower, "total tid for dagen:")
}

// isGrandTotalLine recognizes the file's final summary row.
func isGrandTotalLine(lower string) bool {
	return strings.Contains(lower, "total tid i alt:")
}

// isFooterLine recognizes the export's page-footer rows ("Fordelt på
// ..." and a trailing page-number marker).
func isFooterLine(lower, trimmed string) bool {
	return strings.Contains(lower, "fordelt p") || strings.HasSuffix(trimmed, "1/1")
}

// parseEntryLine parses one semicolon-delimited entry row in the
// vendor's actual column layout: activity;start;(blank);end;duration.
// Returns ok=false for rows that aren't entry lines at all, or whose
// activity/start/end/duration fields don't all parse - the vendor
// export intersperses rows this loose about malformed data.
func parseEntryLine(line string, date time.Time) (models.TimeEntry, bool, error) {
	fields := strings.Split(line, ";")
	if len(fields) < 5 || strings.TrimSpace(fields[0]) == "" {
		return models.TimeEntry{}, false, nil
	}

	activityRaw := strings.TrimSpace(fields[0])
	start, startOK := parseClock(date, strings.TrimSpace(fields[1]))
	end, endOK := parseClock(date, strings.TrimSpace(fields[3]))
	totalHours := parseDanishDuration(strings.TrimSpace(fields[4]))

	if !startOK || !endOK || totalHours <= 0 {
		return models.TimeEntry{}, false, nil
	}

	if !end.After(start) {
		return models.TimeEntry{}, true, errors.ErrInvalidInterval
	}

	activity, caseNumber := extractCaseNumber(activityRaw)

	entry := models.TimeEntry{
		Activity:   activity,
		CaseNumber: caseNumber,
		Start:      start,
		End:        end,
		TotalHours: totalHours,
	}
	return entry, true, nil
}

// parseClock parses an "HH:MM" clock value onto date's calendar day.
func parseClock(date time.Time, s string) (time.Time, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), true
}

// parseDanishDuration parses the vendor's "X Timer Y Minutter" phrasing
// to decimal hours, independently of the start/end columns.
func parseDanishDuration(s string) float64 {
	m := durationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	return float64(hours) + float64(minutes)/60.0
}

// extractCaseNumber pulls a case reference out of the activity text
// using either of the vendor's two activity formats: an explicit
// work-card case number, or a plain "Aktivitet: ..." label carrying
// none. Any other text is returned unchanged with no case number.
func extractCaseNumber(activity string) (cleanedActivity, caseNumber string) {
	if m := caseWorkCardPattern.FindStringSubmatch(activity); m != nil {
		return "Arbejdskort", m[1]
	}
	if m := caseActivityPattern.FindStringSubmatch(activity); m != nil {
		return strings.TrimSpace(m[1]), ""
	}
	return activity, ""
}

// finalizeRecord computes TotalHours from the record's raw entries
// before downstream engine.ComputeDailySegments overwrites the
// per-entry split; the day-level total here is the entry sum required
// by the DailyRecord invariant ahead of any splitting.
func finalizeRecord(record models.DailyRecord) models.DailyRecord {
	var total float64
	for _, e := range record.Entries {
		total += e.TotalHours
	}
	record.TotalHours = total
	return record
}

// decodeBestEffort probes raw against UTF-8 and, failing that, a series
// of single-byte Windows/ISO code pages, returning the first decoding
// that produces valid UTF-8 text. Every charmap.Decoder accepts any
// byte sequence, so plain UTF-8 validity (no replacement characters
// introduced) is the signal used to pick a working encoding, not a
// byte-range heuristic.
func decodeBestEffort(raw []byte) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}

	// Windows-1252 and CP1252 name the same code page; ISO-8859-1 is its
	// near-superset predecessor. Both are tried since a handful of bytes
	// in the 0x80-0x9F range decode differently between them.
	candidates := []*charmap.Charmap{
		charmap.Windows1252,
		charmap.ISO8859_1,
	}
	for _, cm := range candidates {
		decoded, err := cm.NewDecoder().Bytes(raw)
		if err != nil {
			continue
		}
		if utf8.Valid(decoded) && !bytes.ContainsRune(decoded, utf8.RuneError) {
			return string(decoded), nil
		}
	}

	// Nothing decoded cleanly; fall back to Windows-1252, the most
	// common vendor export encoding, rather than failing the upload
	// outright.
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInvalidInput)
	}
	return string(decoded), nil
}

// ReadAll is a small convenience wrapper so handlers can pass a
// multipart file's io.Reader directly.
func ReadAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput)
	}
	return data, nil
}
