package models

// Row holds one cell per table column, in column order.
type Row []Value

// Table is a header row plus data rows loaded from one worksheet.
type Table struct {
	// Name is the source the table was loaded from (file name, may be empty).
	Name string
	// Columns holds the header names in sheet order.
	Columns []string
	// Rows holds the data rows in sheet order.
	Rows []Row
}

// NewTable returns an empty table with the given columns.
func NewTable(name string, columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Name: name, Columns: cols}
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, c := range t.Columns {
		if c == name {
			return i, true
		}
	}
	return -1, false
}

// Append adds a row, padding or truncating it to the column count.
func (t *Table) Append(row Row) {
	if len(row) != len(t.Columns) {
		fixed := make(Row, len(t.Columns))
		copy(fixed, row)
		row = fixed
	}
	t.Rows = append(t.Rows, row)
}

// Value returns the cell at row r in the named column.
func (t *Table) Value(r int, column string) (Value, bool) {
	i, ok := t.ColumnIndex(column)
	if !ok || r < 0 || r >= len(t.Rows) {
		return Value{}, false
	}
	return t.Rows[r][i], true
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }
