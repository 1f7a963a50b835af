package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ukaji3/exsplit-go/pkg/exsplit/models"
	"github.com/xuri/excelize/v2"
)

// ReadTable reads a worksheet into a Table.
// The first row is the header; its names are whitespace-trimmed, empty names
// become "Unnamed: <i>" and repeated names get ".1", ".2" suffixes.
// Trailing rows without any data are dropped.
func ReadTable(f *excelize.File, sheetName string) (*models.Table, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	bounds := findDataBounds(rows)
	if bounds.empty() {
		return models.NewTable("", nil), nil
	}

	width := bounds.maxCol + 1
	if len(rows[0]) > width {
		width = len(rows[0])
	}
	table := models.NewTable("", HeaderNames(rows[0], width))

	for rowIdx := 1; rowIdx <= bounds.maxRow; rowIdx++ {
		raw := rows[rowIdx]
		row := make(models.Row, width)
		for colIdx, cellValue := range raw {
			if colIdx >= width || cellValue == "" {
				continue
			}
			cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return nil, err
			}
			cellType, err := f.GetCellType(sheetName, cellName)
			if err != nil {
				return nil, fmt.Errorf("cell %s: %w", cellName, err)
			}
			row[colIdx] = parseValue(cellValue, cellType)
		}
		table.Append(row)
	}

	return table, nil
}

// HeaderNames normalizes a raw header row to exactly width unique names.
func HeaderNames(header []string, width int) []string {
	names := make([]string, width)
	seen := make(map[string]int, width)
	for i := 0; i < width; i++ {
		name := ""
		if i < len(header) {
			name = strings.TrimSpace(header[i])
		}
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		base := name
		for n := seen[base]; ; n++ {
			if n > 0 {
				name = base + "." + strconv.Itoa(n)
			}
			if _, taken := seen[name]; !taken {
				seen[base] = n + 1
				break
			}
		}
		seen[name] = max(seen[name], 1)
		names[i] = name
	}
	return names
}

// parseValue converts a raw cell string to a typed value according to the
// cell type stored in the workbook. Numbers stay numbers and strings stay
// strings, even when a string spells a number.
func parseValue(s string, cellType excelize.CellType) models.Value {
	if s == "" {
		return models.Blank()
	}
	switch cellType {
	case excelize.CellTypeBool:
		return models.Bool(s == "1" || strings.EqualFold(s, "true"))
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		// Cells without an explicit type attribute are numeric in OOXML.
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return models.Number(f)
		}
	}
	return models.Text(s)
}
