package export

import (
	"fmt"
	"io"

	"github.com/1F47E/sun-locator/pkg/forecast"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the forecast table
const SheetName = "Forecast"

var columnWidths = []float64{12, 18, 18, 12}

// WriteXLSX writes the forecast table as a single-sheet workbook
func WriteXLSX(w io.Writer, entries []forecast.Entry, utcOffsetHours float64) error {
	f := excelize.NewFile()
	defer f.Close()

	index := f.GetActiveSheetIndex()
	if err := f.SetSheetName(f.GetSheetName(index), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	rows := append([][]string{Header(utcOffsetHours)}, Rows(entries, utcOffsetHours)...)
	for r, row := range rows {
		for c, value := range row {
			axis, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(SheetName, axis, value); err != nil {
				return fmt.Errorf("set %s: %w", axis, err)
			}
		}
	}

	for c, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return fmt.Errorf("column %s width: %w", col, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
