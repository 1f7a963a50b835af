package exsplit

import (
	"github.com/ukaji3/exsplit-go/pkg/exsplit/models"
)

// FilterEqual returns the rows of t whose cell in column equals value.
// Equality is strict: text never matches a number. A blank value selects the
// blank cells.
func FilterEqual(t *models.Table, column string, value models.Value) (*models.Table, error) {
	idx, ok := t.ColumnIndex(column)
	if !ok {
		return nil, NewColumnNotFoundError(column, t.Name)
	}
	return selectRows(t, func(r models.Row) bool { return r[idx].Equal(value) }), nil
}

// FilterBlankRows returns the rows of t whose cell in column is blank.
func FilterBlankRows(t *models.Table, column string) (*models.Table, error) {
	return FilterEqual(t, column, models.Blank())
}

// GroupByValue returns one table per distinct non-blank value in column, in
// first-seen order, labeled column+"_"+value. Blank cells form no group.
func GroupByValue(t *models.Table, column string) ([]Labeled, error) {
	idx, ok := t.ColumnIndex(column)
	if !ok {
		return nil, NewColumnNotFoundError(column, t.Name)
	}

	var groups []Labeled
	byKey := make(map[interface{}]int)
	for _, row := range t.Rows {
		v := row[idx]
		if v.IsBlank() {
			continue
		}
		k := v.Key()
		g, seen := byKey[k]
		if !seen {
			g = len(groups)
			byKey[k] = g
			groups = append(groups, Labeled{
				Label: column + "_" + v.String(),
				Table: models.NewTable(t.Name, t.Columns),
			})
		}
		groups[g].Table.Rows = append(groups[g].Table.Rows, row)
	}
	return groups, nil
}

// Filter applies mode to t. Exact and blank modes return a single table
// labeled with label; distinct mode returns one table per value.
func Filter(t *models.Table, column string, mode FilterMode, value models.Value, label string) ([]Labeled, error) {
	var (
		out *models.Table
		err error
	)
	switch mode {
	case FilterDistinct:
		return GroupByValue(t, column)
	case FilterBlank:
		out, err = FilterBlankRows(t, column)
	case FilterExact:
		out, err = FilterEqual(t, column, value)
	default:
		return nil, NewInvalidParameterError("mode", string(mode), "must be exact, distinct, or blank")
	}
	if err != nil {
		return nil, err
	}
	return []Labeled{{Label: label, Table: out}}, nil
}

func selectRows(t *models.Table, keep func(models.Row) bool) *models.Table {
	out := models.NewTable(t.Name, t.Columns)
	for _, row := range t.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}
