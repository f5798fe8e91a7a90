package export

import (
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

// WriteWorkbook writes the table as a single-sheet .xlsx workbook with the
// given sheet name. The header row carries the column names; numeric values
// keep their native type so spreadsheet math works on them, while dates are
// written as YYYY-MM-DD text to match the delimited export. Returns
// ErrNoRecords when the table has no rows.
func WriteWorkbook(w io.Writer, sheet string, t Table) error {
	if err := t.validate(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	for i, name := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}

	for r, row := range t.Rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, workbookValue(v)); err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}

// workbookValue maps a cell value to what excelize should store. Dates and
// strings go through the text renderer; numbers pass through untouched.
func workbookValue(v any) any {
	switch v.(type) {
	case nil, time.Time, string:
		return renderCell(v)
	default:
		return v
	}
}
