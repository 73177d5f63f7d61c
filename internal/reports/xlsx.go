package reports

import (
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"backend/internal/errors"
	"backend/internal/models"
	"backend/internal/ratetable"
)

// xlsxStyles holds the style IDs built once per workbook, following this
// codebase's existing dual-export service's cell-styling conventions.
type xlsxStyles struct {
	Header   int
	Currency int
	Hours    int
}

func buildXLSXStyles(f *excelize.File) (xlsxStyles, error) {
	var s xlsxStyles

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9D9D9"}},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return s, err
	}
	s.Header = header

	currencyFmt := `#,##0.00 "kr."`
	currency, err := f.NewStyle(&excelize.Style{
		CustomNumFmt: &currencyFmt,
		Alignment:    &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return s, err
	}
	s.Currency = currency

	hours, err := f.NewStyle(&excelize.Style{
		NumFmt:    4, // "#,##0.00"
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return s, err
	}
	s.Hours = hours

	return s, nil
}

var xlsxHeaderRow = append(append([]string{
	"Date", "Day", "Day type", "Normal hours", "Normal amount",
}, breakdownColumns...), append(breakdownAmountColumns(), "Call-out payment")...)

func breakdownAmountColumns() []string {
	cols := make([]string, len(breakdownColumns))
	for i, c := range breakdownColumns {
		cols[i] = c + " amount"
	}
	return cols
}

// RenderXLSX builds the combined workbook rendition: one sheet per
// worker, a styled header row, and currency-formatted rate columns,
// sharing the same rate lookup as the CSV combined view.
func RenderXLSX(daily []models.DailyOutput, rates *ratetable.Table) ([]byte, error) {
	byWorker := make(map[string][]models.DailyOutput)
	var workers []string
	for _, d := range daily {
		if _, ok := byWorker[d.Worker]; !ok {
			workers = append(workers, d.Worker)
		}
		byWorker[d.Worker] = append(byWorker[d.Worker], d)
	}
	sort.Strings(workers)

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	styles, err := buildXLSXStyles(f)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal)
	}

	firstSheet := true
	for _, worker := range workers {
		sheetName := sanitizeSheetName(worker)

		var sheetIdx int
		if firstSheet {
			f.SetSheetName("Sheet1", sheetName)
			firstSheet = false
		} else {
			sheetIdx, err = f.NewSheet(sheetName)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrInternal)
			}
			_ = sheetIdx
		}

		if err := writeWorkerSheet(f, sheetName, byWorker[worker], rates, styles); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal)
	}
	return buf.Bytes(), nil
}

func writeWorkerSheet(f *excelize.File, sheetName string, rows []models.DailyOutput, rates *ratetable.Table, styles xlsxStyles) error {
	for col, header := range xlsxHeaderRow {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
	}
	lastCol, _ := excelize.CoordinatesToCellName(len(xlsxHeaderRow), 1)
	_ = f.SetCellStyle(sheetName, "A1", lastCol, styles.Header)
	_ = f.SetColWidth(sheetName, "A", "A", 12)
	_ = f.SetColWidth(sheetName, "B", "C", 10)

	for i, d := range rows {
		row := i + 2
		date, err := time.Parse("02-01-2006", d.Date)
		if err != nil {
			return errors.ErrInvalidInput.WithMessage("bad date in export: " + d.Date)
		}
		band, err := rates.Resolve(date)
		if err != nil {
			return errors.Wrap(err, errors.ErrInternal)
		}

		col := 1
		setStr := func(v string) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheetName, cell, v)
			col++
		}
		setNum := func(v float64, style int) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheetName, cell, v)
			_ = f.SetCellStyle(sheetName, cell, cell, style)
			col++
		}

		setStr(d.Date)
		setStr(d.Day)
		setStr(string(d.DayType))
		setNum(d.NormalHours, styles.Hours)
		setNum(d.NormalHours*band.NormalRate, styles.Currency)

		values := breakdownValues(d.OvertimeBreakdown)
		bandRates := breakdownRates(band)
		for _, v := range values {
			setNum(v, styles.Hours)
		}
		for i, v := range values {
			setNum(v*bandRates[i], styles.Currency)
		}
		setNum(d.CallOutPayment, styles.Currency)
	}
	return nil
}

// sanitizeSheetName trims a worker name to Excel's 31-character sheet
// name limit and strips characters excelize rejects.
func sanitizeSheetName(name string) string {
	replacer := func(r rune) rune {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\':
			return '-'
		}
		return r
	}
	cleaned := []rune(name)
	for i, r := range cleaned {
		cleaned[i] = replacer(r)
	}
	out := string(cleaned)
	if len(out) > 31 {
		out = out[:31]
	}
	if out == "" {
		out = "Worker"
	}
	return out
}
