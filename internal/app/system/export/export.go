// Package export serializes homogeneous record sequences into downloadable
// tabular artifacts: delimited text (.csv) and a single-sheet workbook
// (.xlsx). Calendar dates render as YYYY-MM-DD in both formats; other
// scalars use their natural string form. The exporter retains no reference
// to the data after a write returns.
package export

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrNoRecords is returned when a write is attempted with no rows. The
// first record supplies the schema, so an empty sequence is a caller error,
// not an empty artifact.
var ErrNoRecords = errors.New("export: record sequence is empty")

// DateLayout is the fixed rendering for calendar-date fields.
const DateLayout = "2006-01-02"

// Table is a homogeneous record sequence prepared for export: a column
// schema in record-key order and one row of values per record.
type Table struct {
	Columns []string
	Rows    [][]any
}

// validate checks the non-empty precondition and row widths.
func (t Table) validate() error {
	if len(t.Rows) == 0 {
		return ErrNoRecords
	}
	if len(t.Columns) == 0 {
		return errors.New("export: table has no columns")
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("export: row %d has %d values, want %d", i, len(row), len(t.Columns))
		}
	}
	return nil
}

// FormatValue renders one cell value. time.Time renders as YYYY-MM-DD;
// floats use the shortest representation that round-trips (so 10.0 renders
// as "10"); everything else uses its natural string form.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case time.Time:
		return x.Format(DateLayout)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// sanitizeCell prevents formula injection when a text value is opened in a
// spreadsheet application. Applied to string-typed cells only, so negative
// numbers render unmangled.
func sanitizeCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@':
		return "'" + s
	}
	return s
}

// renderCell formats a value for a text-based artifact, guarding
// string-typed cells against formula injection.
func renderCell(v any) string {
	s := FormatValue(v)
	if _, isString := v.(string); isString {
		return sanitizeCell(s)
	}
	return s
}
