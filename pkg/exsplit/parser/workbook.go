// Package parser reads worksheets into exsplit tables.
package parser

import (
	"bytes"
	"fmt"

	"github.com/ukaji3/exsplit-go/pkg/exsplit/models"
	"github.com/xuri/excelize/v2"
)

// Open opens an in-memory workbook.
func Open(data []byte) (*excelize.File, error) {
	return excelize.OpenReader(bytes.NewReader(data))
}

// SheetName resolves the sheet to read. An empty name selects the first sheet.
func SheetName(f *excelize.File, name string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	if name == "" {
		return sheets[0], nil
	}
	for _, s := range sheets {
		if s == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("sheet %q not found", name)
}

// LoadTable opens data and reads the selected sheet into a Table.
func LoadTable(data []byte, sheet string) (*models.Table, error) {
	f, err := Open(data)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheetName, err := SheetName(f, sheet)
	if err != nil {
		return nil, err
	}
	return ReadTable(f, sheetName)
}
