package export

import (
	"bytes"
	"errors"
	"testing"

	"github.com/Tincho2002/dotacion-assa-2025/internal/pivot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleFrame() *pivot.Frame {
	return &pivot.Frame{
		Columns: []string{"Gerencia", "Cantidad", "%"},
		Rows: [][]pivot.Cell{
			{pivot.Text("Operaciones, Norte"), pivot.Int(3), pivot.Text("75.00%")},
			{pivot.Text("Comercial"), pivot.Int(1), pivot.Blank()},
		},
	}
}

func TestEncodeCSV(t *testing.T) {
	out, err := EncodeCSV(sampleFrame())
	require.NoError(t, err)
	assert.Equal(t, "Gerencia,Cantidad,%\n\"Operaciones, Norte\",3,75.00%\nComercial,1,\n", string(out))
}

func TestEncodeCSVHeaderOnly(t *testing.T) {
	out, err := EncodeCSV(&pivot.Frame{Columns: []string{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(out))
}

func TestEncodeXLSX(t *testing.T) {
	out, err := EncodeXLSX(sampleFrame(), "")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{DefaultSheet}, f.GetSheetList())
	rows, err := f.GetRows(DefaultSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Gerencia", "Cantidad", "%"},
		{"Operaciones, Norte", "3", "75.00%"},
		{"Comercial", "1"},
	}, rows)

	v, err := f.GetCellValue(DefaultSheet, "B2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "3", v)
}

func TestEncodeXLSXNamedSheet(t *testing.T) {
	out, err := EncodeXLSX(sampleFrame(), "Datos")
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Datos"}, f.GetSheetList())
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"csv": CSV, ".CSV": CSV, "xlsx": XLSX, ".xlsx": XLSX, "excel": XLSX} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("pdf")
	assert.True(t, errors.Is(err, ErrUnknownFormat))

	_, err = Encode(sampleFrame(), Format("pdf"))
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "dotacion_total_por_periodo.csv", Filename("dotacion_total_por_periodo", CSV))
	assert.Equal(t, "datos.xlsx", Filename("datos", XLSX))
}
