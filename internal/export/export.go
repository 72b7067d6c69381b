// Package export serializes frames to downloadable tabular files. Both sinks
// write a header row followed by the frame rows, with no index column.
package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"github.com/Tincho2002/dotacion-assa-2025/internal/pivot"
	"github.com/xuri/excelize/v2"
)

// Format is a supported export encoding.
type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
)

// DefaultSheet is the worksheet name used for XLSX exports.
const DefaultSheet = "Sheet1"

var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat reads a format name or file extension.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "csv":
		return CSV, nil
	case "xlsx", "excel":
		return XLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// ContentType is the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case XLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Extension is the file extension, without the dot.
func (f Format) Extension() string {
	return string(f)
}

// Encode serializes frame in the given format.
func Encode(frame *pivot.Frame, format Format) ([]byte, error) {
	switch format {
	case CSV:
		return EncodeCSV(frame)
	case XLSX:
		return EncodeXLSX(frame, DefaultSheet)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// EncodeCSV writes frame as comma-separated values.
func EncodeCSV(frame *pivot.Frame) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(frame.Records()); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeXLSX writes frame as a single-sheet workbook. Counts are stored as
// numbers, text as strings, blanks as empty cells.
func EncodeXLSX(frame *pivot.Frame, sheet string) ([]byte, error) {
	if sheet == "" {
		sheet = DefaultSheet
	}
	file := excelize.NewFile()
	defer func() { _ = file.Close() }()

	if sheet != DefaultSheet {
		if err := file.SetSheetName(DefaultSheet, sheet); err != nil {
			return nil, fmt.Errorf("name sheet: %w", err)
		}
	}

	header := make([]any, len(frame.Columns))
	for i, c := range frame.Columns {
		header[i] = c
	}
	if err := file.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, row := range frame.Rows {
		values := make([]any, len(frame.Columns))
		for j := range values {
			if j < len(row) {
				values[j] = row[j].Value()
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := file.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename joins a view prefix and the format extension.
func Filename(prefix string, format Format) string {
	return prefix + "." + format.Extension()
}
