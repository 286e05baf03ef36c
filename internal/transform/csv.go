package transform

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// TimestampLayout is how timestamps are rendered; fractional seconds only appear when non-zero.
const TimestampLayout = "2006-01-02 15:04:05.999999"

// WriteCSV renders t as CSV with a header row. Nulls become empty fields,
// which COPY in CSV format reads back as NULL.
func WriteCSV(t *Table, w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.ColumnNames()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(t.Columns()))
	for i := 0; i < t.NumRows(); i++ {
		for j, col := range t.Columns() {
			record[j] = FormatCell(col.Values[i])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes t to path. The file is written next to its final
// location and renamed into place, so a failed run never leaves a truncated CSV.
func WriteCSVFile(t *Table, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if err := WriteCSV(t, tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move output file into place: %w", err)
	}
	return nil
}

// FormatCell renders a single cell the way it appears in the CSV.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return x
	case bool:
		if x {
			return "True"
		}
		return "False"
	case time.Time:
		return x.Format(TimestampLayout)
	default:
		return fmt.Sprint(x)
	}
}
