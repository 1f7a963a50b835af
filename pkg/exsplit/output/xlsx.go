// Package output serializes exsplit tables back to xlsx workbooks.
package output

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ukaji3/exsplit-go/pkg/exsplit/models"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet every written table lands in.
const SheetName = "Sheet1"

// ContentType is the MIME type of xlsx workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteTable writes t as a single-sheet workbook: the header row followed by
// the data rows in stored order. Blank cells are left empty.
func WriteTable(w io.Writer, t *models.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return err
	}

	rowNum := 1
	if len(t.Columns) > 0 {
		header := make([]interface{}, len(t.Columns))
		for i, c := range t.Columns {
			header[i] = c
		}
		if err := setRow(sw, rowNum, header); err != nil {
			return err
		}
		rowNum++
	}

	values := make([]interface{}, len(t.Columns))
	for _, row := range t.Rows {
		for i := range values {
			values[i] = nil
			if i < len(row) {
				values[i] = row[i].Interface()
			}
		}
		if err := setRow(sw, rowNum, values); err != nil {
			return err
		}
		rowNum++
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}

	_, err = f.WriteTo(w)
	return err
}

// ToXLSX returns t serialized as xlsx bytes.
func ToXLSX(t *models.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteTable(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setRow(sw *excelize.StreamWriter, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := sw.SetRow(cell, values); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
	}
	return nil
}
