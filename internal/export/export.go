// Package export writes column-oriented numeric tables as CSV or XLSX and
// optionally uploads them to S3-compatible storage.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Report"

// rowCount is the length of the first column; later columns are padded with
// blanks or truncated to match.
func rowCount(columns [][]float64) int {
	if len(columns) == 0 {
		return 0
	}
	return len(columns[0])
}

// FormatValue renders a float the way both encoders write it: shortest
// round-trip form, with +Inf, -Inf and NaN spelled out.
func FormatValue(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	case math.IsNaN(v):
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// EncodeCSV writes the header row followed by one line per row index.
func EncodeCSV(w io.Writer, headers []string, columns [][]float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	rows := rowCount(columns)
	record := make([]string, len(columns))
	for r := 0; r < rows; r++ {
		for c, col := range columns {
			if r < len(col) {
				record[c] = FormatValue(col[r])
			} else {
				record[c] = ""
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", r, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSV creates (or truncates) path and encodes the table into it.
func WriteCSV(path string, headers []string, columns [][]float64) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	return EncodeCSV(f, headers, columns)
}

// EncodeXLSX writes the same layout as EncodeCSV into a single-sheet
// workbook. Finite values are numeric cells; non-finite ones are text.
func EncodeXLSX(w io.Writer, headers []string, columns [][]float64) error {
	f, err := buildWorkbook(headers, columns)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteXLSX saves the workbook to path.
func WriteXLSX(path string, headers []string, columns [][]float64) error {
	f, err := buildWorkbook(headers, columns)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func buildWorkbook(headers []string, columns [][]float64) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	rows := rowCount(columns)
	for r := 0; r < rows; r++ {
		values := make([]interface{}, len(columns))
		for c, col := range columns {
			switch {
			case r >= len(col):
				values[c] = nil
			case math.IsInf(col[r], 0) || math.IsNaN(col[r]):
				values[c] = FormatValue(col[r])
			default:
				values[c] = col[r]
			}
		}

		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", r, err)
		}
	}

	return f, nil
}

// Format selects an encoder
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "csv" or "xlsx" in any case; empty means csv.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ContentType is the MIME type of the encoded output
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// FileName appends the format's extension to base.
func (f Format) FileName(base string) string {
	return base + "." + string(f)
}

// Encode writes the table in format f.
func Encode(w io.Writer, f Format, headers []string, columns [][]float64) error {
	if f == FormatXLSX {
		return EncodeXLSX(w, headers, columns)
	}
	return EncodeCSV(w, headers, columns)
}
