package exsplit

import (
	"strconv"

	"github.com/ukaji3/exsplit-go/pkg/exsplit/models"
)

// Labeled is a derived table together with the label it is named after.
type Labeled struct {
	Label string
	Table *models.Table
}

// ChunkRows splits t into consecutive chunks of rowsPerChunk rows; the last
// chunk holds the remainder. Chunk i (1-based) is labeled baseName+i.
// A table without data rows yields no chunks.
func ChunkRows(t *models.Table, rowsPerChunk int, baseName string) ([]Labeled, error) {
	if rowsPerChunk <= 0 {
		return nil, NewInvalidParameterError("rows", strconv.Itoa(rowsPerChunk), "must be a positive integer")
	}

	n := t.Len() / rowsPerChunk
	if t.Len()%rowsPerChunk != 0 {
		n++
	}
	chunks := make([]Labeled, 0, n)
	for start := 0; start < t.Len(); start += rowsPerChunk {
		// rowsPerChunk may be near MaxInt; start+rowsPerChunk could overflow.
		end := start + min(rowsPerChunk, t.Len()-start)
		chunk := models.NewTable(t.Name, t.Columns)
		chunk.Rows = t.Rows[start:end:end]
		chunks = append(chunks, Labeled{
			Label: baseName + strconv.Itoa(len(chunks)+1),
			Table: chunk,
		})
	}
	return chunks, nil
}
