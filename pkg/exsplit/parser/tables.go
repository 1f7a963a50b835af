package parser

// dataBounds is the bounding box of non-empty cells, 0-based and inclusive.
type dataBounds struct {
	minRow, maxRow int
	minCol, maxCol int
}

func (b dataBounds) empty() bool {
	return b.minRow < 0
}

// findDataBounds finds the bounding box of non-empty cells.
func findDataBounds(rows [][]string) dataBounds {
	b := dataBounds{minRow: -1, maxRow: -1, minCol: -1, maxCol: -1}

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell == "" {
				continue
			}
			if b.minRow < 0 || rowIdx < b.minRow {
				b.minRow = rowIdx
			}
			if b.maxRow < 0 || rowIdx > b.maxRow {
				b.maxRow = rowIdx
			}
			if b.minCol < 0 || colIdx < b.minCol {
				b.minCol = colIdx
			}
			if b.maxCol < 0 || colIdx > b.maxCol {
				b.maxCol = colIdx
			}
		}
	}

	return b
}
