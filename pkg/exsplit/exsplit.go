package exsplit

import (
	"strconv"
	"strings"

	"github.com/ukaji3/exsplit-go/pkg/exsplit/models"
	"github.com/ukaji3/exsplit-go/pkg/exsplit/parser"
)

// Source is one uploaded workbook.
type Source struct {
	// Name is the original file name; it names the source in errors and,
	// for ExtractColumn, the output entry.
	Name string
	Data []byte
}

// Load parses src into a Table. Any failure is a *ParseError.
func Load(src Source, opts Options) (*models.Table, error) {
	t, err := parser.LoadTable(src.Data, opts.Sheet)
	if err != nil {
		return nil, NewParseError(src.Name, err)
	}
	t.Name = src.Name
	return t, nil
}

// PartitionByRowCount splits src into workbooks of rowsPerChunk rows named
// <baseName><i>.xlsx. More than one chunk is archived as <baseName>.zip.
func PartitionByRowCount(src Source, rowsPerChunk int, baseName string, opts Options) (*OutputBundle, error) {
	if rowsPerChunk <= 0 {
		return nil, NewInvalidParameterError("rows", strconv.Itoa(rowsPerChunk), "must be a positive integer")
	}
	if err := requireName("name", baseName); err != nil {
		return nil, err
	}

	t, err := Load(src, opts)
	if err != nil {
		return nil, err
	}
	chunks, err := ChunkRows(t, rowsPerChunk, baseName)
	if err != nil {
		return nil, err
	}

	b := &OutputBundle{Name: safeLabel(baseName) + zipExt}
	if err := b.add(chunks); err != nil {
		return nil, err
	}
	return b, nil
}

// FilterRequest describes a FilterByColumn call.
type FilterRequest struct {
	// Column is the header name to filter on.
	Column string
	// Mode selects exact, distinct or blank filtering.
	Mode FilterMode
	// Value is the match value for FilterExact.
	Value models.Value
	// OutputName names the single workbook of exact and blank filters.
	OutputName string
}

// NewFilterRequest builds a FilterRequest from string parameters as they
// arrive from a form or command line. An empty mode falls back to the
// sentinel rule of ModeForValue. The value is typed only for FilterExact.
func NewFilterRequest(column, mode, value, valueType, outputName string) (FilterRequest, error) {
	req := FilterRequest{Column: column, OutputName: outputName}

	if strings.TrimSpace(mode) == "" {
		req.Mode = ModeForValue(value)
	} else {
		m, err := ParseFilterMode(mode)
		if err != nil {
			return FilterRequest{}, err
		}
		req.Mode = m
	}

	if req.Mode == FilterExact {
		v, err := ParseMatchValue(value, ValueType(strings.ToLower(strings.TrimSpace(valueType))))
		if err != nil {
			return FilterRequest{}, err
		}
		req.Value = v
	}
	return req, nil
}

// FilterByColumn filters src on one column. Exact and blank filters yield a
// single <OutputName>.xlsx; distinct filters yield one <Column>_<value>.xlsx
// per value, always archived as <Column>_extracted.zip.
func FilterByColumn(src Source, req FilterRequest, opts Options) (*OutputBundle, error) {
	if err := requireName("column", req.Column); err != nil {
		return nil, err
	}
	if _, err := ParseFilterMode(string(req.Mode)); err != nil {
		return nil, err
	}
	if req.Mode != FilterDistinct {
		if err := requireName("name", req.OutputName); err != nil {
			return nil, err
		}
	}

	t, err := Load(src, opts)
	if err != nil {
		return nil, err
	}
	tables, err := Filter(t, req.Column, req.Mode, req.Value, req.OutputName)
	if err != nil {
		return nil, err
	}

	b := &OutputBundle{
		Name:          safeLabel(req.Column) + "_extracted" + zipExt,
		AlwaysArchive: req.Mode == FilterDistinct,
	}
	if err := b.add(tables); err != nil {
		return nil, err
	}
	return b, nil
}

// ExtractColumn projects column out of every source. Entry i is named
// <renameTo or column>-<secure source name>. Every source is loaded and
// projected before any output is written, so one bad source fails the whole
// call. The result is always archived as <column>_extracted.zip.
func ExtractColumn(srcs []Source, column, renameTo string, opts Options) (*OutputBundle, error) {
	if err := requireName("column", column); err != nil {
		return nil, err
	}
	if len(srcs) == 0 {
		return nil, NewInvalidParameterError("files", "", "at least one file is required")
	}

	prefix := column
	if renameTo != "" {
		prefix = renameTo
	}

	projections := make([]Labeled, 0, len(srcs))
	for i, src := range srcs {
		t, err := Load(src, opts)
		if err != nil {
			return nil, err
		}
		p, err := Project(t, column, renameTo)
		if err != nil {
			return nil, err
		}
		name := SecureFileName(src.Name)
		if name == "" {
			name = "workbook" + strconv.Itoa(i+1) + xlsxExt
		}
		projections = append(projections, Labeled{Label: prefix + "-" + name, Table: p})
	}

	b := &OutputBundle{
		Name:          safeLabel(column) + "_extracted" + zipExt,
		AlwaysArchive: true,
	}
	if err := b.addNamed(projections); err != nil {
		return nil, err
	}
	return b, nil
}

func requireName(param, value string) error {
	if strings.TrimSpace(value) == "" {
		return NewInvalidParameterError(param, value, "must not be empty")
	}
	return nil
}
