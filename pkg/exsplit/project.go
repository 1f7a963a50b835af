package exsplit

import (
	"github.com/ukaji3/exsplit-go/pkg/exsplit/models"
)

// Project reduces t to the single named column, renamed to renameTo when it
// is non-empty. Row order and count are unchanged.
func Project(t *models.Table, column, renameTo string) (*models.Table, error) {
	idx, ok := t.ColumnIndex(column)
	if !ok {
		return nil, NewColumnNotFoundError(column, t.Name)
	}

	name := column
	if renameTo != "" {
		name = renameTo
	}
	out := models.NewTable(t.Name, []string{name})
	out.Rows = make([]models.Row, len(t.Rows))
	for i, row := range t.Rows {
		out.Rows[i] = models.Row{row[idx]}
	}
	return out, nil
}
