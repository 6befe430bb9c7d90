// Package export renders per-staff service statistics as an Excel
// workbook.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"barberline/internal/models"
	"barberline/internal/stats"
)

var header = []string{
	"Staff", "Status", "Completed services", "Total service time",
	"Average service time", "Queue length", "Estimated wait",
}

// WriteReport writes a single-sheet workbook of the roster's current
// statistics to w.
func WriteReport(w io.Writer, s *models.Snapshot, now time.Time) error {
	f := excelize.NewFile()
	sheet := "Report " + now.Format("2006-01-02")
	// Sheet names are capped at 31 chars by the format.
	if len(sheet) > 31 {
		sheet = sheet[:31]
	}
	f.SetSheetName("Sheet1", sheet)

	if err := writeRow(f, sheet, 1, header); err != nil {
		return err
	}

	row := 2
	for _, st := range s.Staff {
		values := []string{
			st.Name,
			string(st.Status.State),
			fmt.Sprintf("%d", st.CompletedServices),
			formatDuration(st.TotalServiceTime),
			formatDuration(stats.AverageServiceTime(st)),
			fmt.Sprintf("%d", len(st.Queue)),
			formatDuration(stats.EstimatedWait(st)),
		}
		if err := writeRow(f, sheet, row, values); err != nil {
			return err
		}
		row++
	}

	row++
	summary := []string{
		"Overall average", formatDuration(stats.OverallAverageServiceTime(s)),
		"General queue", fmt.Sprintf("%d", len(s.GeneralQueue)),
	}
	if err := writeRow(f, sheet, row, summary); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	return nil
}

func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
