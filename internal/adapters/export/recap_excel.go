package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/tanjung-residence/siskamling/attendance-service/internal/adapters/format"
	"github.com/tanjung-residence/siskamling/attendance-service/internal/core/domain"
)

const RecapSheet = "Rekap"

var recapHeader = []string{"Jadwal", "Waktu Kirim", "Hadir", "Izin", "Sakit", "Alpa", "Prelek", "Catatan"}

// WriteRecapWorkbook writes the recap entries, one row per submission, and a
// closing "Total" row.
func WriteRecapWorkbook(w io.Writer, entries []domain.RecapEntry, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", RecapSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for c, h := range recapHeader {
		if err := f.SetCellStr(RecapSheet, cell(c, 1), h); err != nil {
			return fmt.Errorf("set header: %w", err)
		}
	}

	row := 2
	for _, e := range entries {
		counts := e.Analysis.StatusCounts
		values := []interface{}{
			e.Record.ScheduleTitle,
			format.DateTime(e.Record.SubmittedAt.In(loc)),
			counts.Present,
			counts.Excused,
			counts.Sick,
			counts.Absent,
			e.Analysis.PrelekResult,
			joinNotes(e.Analysis.Notes),
		}
		if err := f.SetSheetRow(RecapSheet, cell(0, row), &values); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
		row++
	}

	totals := domain.SumRecap(entries)
	totalRow := []interface{}{
		"Total",
		fmt.Sprintf("%d pengiriman", totals.Submissions),
		totals.StatusCounts.Present,
		totals.StatusCounts.Excused,
		totals.StatusCounts.Sick,
		totals.StatusCounts.Absent,
		totals.PrelekResult,
		"",
	}
	if err := f.SetSheetRow(RecapSheet, cell(0, row), &totalRow); err != nil {
		return fmt.Errorf("write totals: %w", err)
	}

	applyFormatting(f, row)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func applyFormatting(f *excelize.File, lastRow int) {
	last := cell(len(recapHeader)-1, 1)
	if bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(RecapSheet, "A1", last, bold)
		_ = f.SetCellStyle(RecapSheet, cell(0, lastRow), cell(len(recapHeader)-1, lastRow), bold)
	}
	_ = f.AutoFilter(RecapSheet, "A1:"+last, nil)

	// 3 is the built-in "#,##0" format
	if money, err := f.NewStyle(&excelize.Style{NumFmt: 3}); err == nil {
		_ = f.SetCellStyle(RecapSheet, cell(6, 2), cell(6, lastRow), money)
	}

	_ = f.SetColWidth(RecapSheet, "A", "A", 24)
	_ = f.SetColWidth(RecapSheet, "B", "B", 32)
	_ = f.SetColWidth(RecapSheet, "C", "F", 8)
	_ = f.SetColWidth(RecapSheet, "G", "G", 14)
	_ = f.SetColWidth(RecapSheet, "H", "H", 60)
}

func joinNotes(notes []domain.MemberNote) string {
	parts := make([]string, 0, len(notes))
	for _, n := range notes {
		parts = append(parts, n.MemberName+": "+n.Note)
	}
	return strings.Join(parts, "; ")
}

// cell converts a zero-based column and one-based row to "A1" notation.
func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}
