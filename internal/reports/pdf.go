package reports

import (
	"bytes"
	"sort"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"backend/internal/errors"
	"backend/internal/models"
)

// pdfHeaders is the weekly summary column set printed on each worker's
// page, mirroring the weekly CSV view.
var pdfHeaders = []string{"Year", "Week", "Total hours", "Normal hours", "Overtime 1", "Overtime 2", "Overtime 3"}

// RenderPDF builds a compact landscape summary, one page per worker,
// of that worker's WeeklySummary rows. Grounded on this codebase's
// existing XLSX-to-PDF conversion pattern: bold gray header rows,
// right-aligned numeric cells, and a page break once the cursor nears
// the bottom margin.
func RenderPDF(weekly []models.WeeklySummary) ([]byte, error) {
	byWorker := make(map[string][]models.WeeklySummary)
	var workers []string
	for _, w := range weekly {
		if _, ok := byWorker[w.WorkerName]; !ok {
			workers = append(workers, w.WorkerName)
		}
		byWorker[w.WorkerName] = append(byWorker[w.WorkerName], w)
	}
	sort.Strings(workers)

	pdf := gofpdf.New("L", "mm", "Letter", "")
	pdf.SetFont("Arial", "", 10)

	pageWidth, _ := pdf.GetPageSize()
	marginL, _, marginR, _ := pdf.GetMargins()
	usableWidth := pageWidth - marginL - marginR
	colWidth := usableWidth / float64(len(pdfHeaders))
	if colWidth < 20 {
		colWidth = 20
	}

	for _, worker := range workers {
		pdf.AddPage()

		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(usableWidth, 10, worker, "", 1, "C", false, 0, "")
		pdf.Ln(2)

		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(217, 217, 217)
		for _, h := range pdfHeaders {
			pdf.CellFormat(colWidth, 8, truncateCell(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 10)
		for _, s := range byWorker[worker] {
			if pdf.GetY() > 190 {
				pdf.AddPage()
			}
			row := []string{
				strconv.Itoa(s.Year),
				strconv.Itoa(s.WeekNumber),
				f(s.TotalHours),
				f(s.NormalHours),
				f(s.OvertimeBreakdown.LegacyOvertime1()),
				f(s.OvertimeBreakdown.LegacyOvertime2()),
				f(s.OvertimeBreakdown.LegacyOvertime3()),
			}
			for _, cell := range row {
				align := "R"
				if !isNumericCell(cell) {
					align = "L"
				}
				pdf.CellFormat(colWidth, 8, truncateCell(cell), "1", 0, align, false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal)
	}
	return buf.Bytes(), nil
}

func truncateCell(s string) string {
	if len(s) > 20 {
		return s[:17] + "..."
	}
	return s
}

func isNumericCell(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' && r != '-' && r != '+' {
			return false
		}
	}
	return true
}
