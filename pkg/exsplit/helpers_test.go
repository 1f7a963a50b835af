package exsplit

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ukaji3/exsplit-go/pkg/exsplit/archive"
	"github.com/ukaji3/exsplit-go/pkg/exsplit/models"
	"github.com/ukaji3/exsplit-go/pkg/exsplit/parser"
	"github.com/xuri/excelize/v2"
)

// workbook builds xlsx bytes whose first sheet holds rows.
func workbook(t *testing.T, rows ...[]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// scoresTable is the Name/Score table used across tests.
func scoresTable() *models.Table {
	t := models.NewTable("scores.xlsx", []string{"Name", "Score"})
	t.Append(models.Row{models.Text("A"), models.Number(10)})
	t.Append(models.Row{models.Text("B"), models.Number(20)})
	t.Append(models.Row{models.Text("C"), models.Number(30)})
	return t
}

func scoresWorkbook(t *testing.T) []byte {
	return workbook(t,
		[]interface{}{" Name ", "Score"},
		[]interface{}{"A", 10},
		[]interface{}{"B", 20},
		[]interface{}{"C", 30},
	)
}

// loadEntry parses an archive entry back into a table.
func loadEntry(t *testing.T, e archive.Entry) *models.Table {
	t.Helper()
	table, err := parser.LoadTable(e.Data, "")
	require.NoError(t, err, "entry %s", e.Name)
	return table
}

func columnStrings(t *models.Table, column string) []string {
	idx, ok := t.ColumnIndex(column)
	if !ok {
		return nil
	}
	out := make([]string, 0, t.Len())
	for _, r := range t.Rows {
		out = append(out, r[idx].String())
	}
	return out
}
