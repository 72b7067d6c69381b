package roster

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/ulikunitz/xz"
	"github.com/xuri/excelize/v2"
)

// ErrSheetNotFound reports a workbook without the roster worksheet.
var ErrSheetNotFound = errors.New("worksheet not found")

// IngestError is returned when an upload cannot be turned into rows. Its message
// is meant to be shown to the user verbatim.
type IngestError struct {
	Sheet string
	Err   error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("no se pudo leer la hoja '%s': %v", e.Sheet, e.Err)
}

func (e *IngestError) Unwrap() error { return e.Err }

// maxDecompressedBytes caps the size of an .xz payload once expanded.
const maxDecompressedBytes = 256 << 20

var xzMagic = []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}

// RawSheet is the uninterpreted grid of one worksheet: the first row as header,
// the rest as records.
type RawSheet struct {
	Header []string
	Rows   [][]string
}

// ReadSheet parses the named worksheet out of an uploaded document. The filename
// only selects the decoder (.xls vs. everything else); .xz payloads are
// recognised by their magic bytes.
func ReadSheet(data []byte, filename, sheet string) (*RawSheet, error) {
	if sheet == "" {
		sheet = DefaultSheetName
	}
	data, filename, err := unwrapCompressed(data, filename)
	if err != nil {
		return nil, &IngestError{Sheet: sheet, Err: err}
	}

	var grid [][]string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xls":
		grid, err = readXLS(data, sheet)
	default:
		grid, err = readXLSX(data, sheet)
	}
	if err != nil {
		return nil, &IngestError{Sheet: sheet, Err: err}
	}
	return gridToSheet(grid), nil
}

func unwrapCompressed(data []byte, filename string) ([]byte, string, error) {
	if !bytes.HasPrefix(data, xzMagic) {
		return data, filename, nil
	}
	r, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("open xz stream: %w", err)
	}
	out, err := io.ReadAll(io.LimitReader(r, maxDecompressedBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("decompress xz stream: %w", err)
	}
	if len(out) > maxDecompressedBytes {
		return nil, "", errors.New("decompressed file is too large")
	}
	return out, strings.TrimSuffix(filename, filepath.Ext(filename)), nil
}

func readXLSX(data []byte, sheet string) ([][]string, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	idx, err := file.GetSheetIndex(sheet)
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		return nil, ErrSheetNotFound
	}
	// Raw values keep dates as serial numbers instead of locale-formatted text.
	return file.GetRows(sheet, excelize.Options{RawCellValue: true})
}

func readXLS(data []byte, sheet string) ([][]string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	for i := 0; i < workbook.NumSheets(); i++ {
		ws := workbook.GetSheet(i)
		if ws == nil || ws.Name != sheet {
			continue
		}
		var grid [][]string
		for r := 0; r <= int(ws.MaxRow); r++ {
			row := ws.Row(r)
			if row == nil {
				grid = append(grid, nil)
				continue
			}
			cells := make([]string, row.LastCol())
			for c := range cells {
				cells[c] = row.Col(c)
			}
			grid = append(grid, cells)
		}
		return grid, nil
	}
	return nil, ErrSheetNotFound
}

// gridToSheet splits header from records, names blank or repeated headers the
// way spreadsheet readers usually do, and drops rows with no content.
func gridToSheet(grid [][]string) *RawSheet {
	sheet := &RawSheet{}
	start := -1
	for i, row := range grid {
		if !blankRow(row) {
			start = i
			break
		}
	}
	if start < 0 {
		return sheet
	}

	used := map[string]bool{}
	suffix := map[string]int{}
	for i, h := range grid[start] {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if used[name] {
			base := name
			for used[name] {
				suffix[base]++
				name = fmt.Sprintf("%s.%d", base, suffix[base])
			}
		}
		used[name] = true
		sheet.Header = append(sheet.Header, name)
	}

	for _, row := range grid[start+1:] {
		if blankRow(row) {
			continue
		}
		cells := make([]string, len(sheet.Header))
		copy(cells, row)
		sheet.Rows = append(sheet.Rows, cells)
	}
	return sheet
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
