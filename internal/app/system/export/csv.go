package export

import (
	"encoding/csv"
	"io"
)

// utf8BOM keeps Excel from misreading UTF-8 text on Windows.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes the table as RFC 4180 delimited text: one header row of
// column names followed by one row per record, values in column order. The
// output carries a UTF-8 BOM and CRLF line endings for spreadsheet
// compatibility. Returns ErrNoRecords when the table has no rows.
func WriteCSV(w io.Writer, t Table) error {
	if err := t.validate(); err != nil {
		return err
	}

	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	rec := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, v := range row {
			rec[i] = renderCell(v)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
