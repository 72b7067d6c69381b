// Package rostertest builds roster workbooks in memory for tests.
package rostertest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet the roster reader looks for.
const SheetName = "Dotacion_25"

// Header is a complete roster header row.
var Header = []any{
	"LEGAJO", "Periodo", "Gerencia", "Relación", "Sexo", "Función",
	"Distrito", "Ministerio", "Nivel", "Fecha ing.", "Fecha Nac.",
}

// Workbook returns an .xlsx document with one sheet named sheet holding rows.
func Workbook(t testing.TB, sheet string, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if sheet != "Sheet1" {
		require.NoError(t, f.SetSheetName("Sheet1", sheet))
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// Roster returns a SheetName workbook with Header followed by records.
func Roster(t testing.TB, records ...[]any) []byte {
	t.Helper()
	rows := append([][]any{Header}, records...)
	return Workbook(t, SheetName, rows)
}

// Sample is a small two-period roster: three records in January, two in
// February.
func Sample(t testing.TB) []byte {
	t.Helper()
	return Roster(t,
		[]any{1001, "2025-01-15", "Operaciones", "Permanente", "M", "Operario", "Norte", "Obras", "A", "2018-03-01", "1985-05-10"},
		[]any{1002, "2025-01-15", "Comercial", "Contratado", "F", "Analista", "Sur", "Economía", "B", "2022-07-15", "1996-11-02"},
		[]any{1003, "2025-01-15", "Operaciones", "Permanente", "F", "Operario", "Norte", "Obras", "A", "2001-01-10", "1970-02-20"},
		[]any{1001, "2025-02-10", "Operaciones", "Permanente", "M", "Operario", "Norte", "Obras", "A", "2018-03-01", "1985-05-10"},
		[]any{1002, "2025-02-10", "Comercial", "Contratado", "F", "Analista", "Sur", "Economía", "B", "2022-07-15", "1996-11-02"},
	)
}
