package exsplit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/exsplit-go/pkg/exsplit/archive"
	"github.com/ukaji3/exsplit-go/pkg/exsplit/models"
	"github.com/ukaji3/exsplit-go/pkg/exsplit/output"
	"github.com/ukaji3/exsplit-go/pkg/exsplit/parser"
	"github.com/xuri/excelize/v2"
)

func TestLoadTrimsHeaders(t *testing.T) {
	table, err := Load(Source{Name: "scores.xlsx", Data: scoresWorkbook(t)}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "scores.xlsx", table.Name)
	assert.Equal(t, []string{"Name", "Score"}, table.Columns)
	assert.Equal(t, 3, table.Len())
}

func TestLoadParseError(t *testing.T) {
	_, err := Load(Source{Name: "broken.xlsx", Data: []byte("PK not really")}, DefaultOptions())

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "broken.xlsx", perr.Source)
	assert.True(t, errors.Is(err, ErrInvalidFormat))
}

func TestLoadSelectsSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	_, err := f.NewSheet("Data")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Data", "A1", &[]interface{}{"Only"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	table, err := Load(Source{Data: buf.Bytes()}, Options{Sheet: "Data"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Only"}, table.Columns)

	_, err = Load(Source{Data: buf.Bytes()}, Options{Sheet: "Nope"})
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestPartitionByRowCount(t *testing.T) {
	b, err := PartitionByRowCount(Source{Name: "scores.xlsx", Data: scoresWorkbook(t)}, 2, "part", DefaultOptions())
	require.NoError(t, err)
	require.Len(t, b.Entries, 2)
	assert.Equal(t, "part1.xlsx", b.Entries[0].Name)
	assert.Equal(t, "part2.xlsx", b.Entries[1].Name)

	first := loadEntry(t, b.Entries[0])
	assert.Equal(t, []string{"Name", "Score"}, first.Columns)
	assert.Equal(t, []string{"A", "B"}, columnStrings(first, "Name"))
	assert.Equal(t, []string{"10", "20"}, columnStrings(first, "Score"))
	second := loadEntry(t, b.Entries[1])
	assert.Equal(t, []string{"C"}, columnStrings(second, "Name"))

	p, err := b.Package()
	require.NoError(t, err)
	assert.Equal(t, "part.zip", p.Name)
	assert.Equal(t, archive.ContentType, p.ContentType)

	entries, err := archive.Unpack(p.Data)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "part1.xlsx", entries[0].Name)
	assert.Equal(t, []string{"C"}, columnStrings(loadEntry(t, entries[1]), "Name"))
}

func TestPartitionSingleChunkPassesThrough(t *testing.T) {
	b, err := PartitionByRowCount(Source{Data: scoresWorkbook(t)}, 10, "all", DefaultOptions())
	require.NoError(t, err)

	p, err := b.Package()
	require.NoError(t, err)
	assert.Equal(t, "all1.xlsx", p.Name)
	assert.Equal(t, output.ContentType, p.ContentType)

	table, err := parser.LoadTable(p.Data, "")
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
}

func TestPartitionNoRows(t *testing.T) {
	b, err := PartitionByRowCount(Source{Data: workbook(t, []interface{}{"Name"})}, 5, "empty", DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, b.Entries)

	p, err := b.Package()
	require.NoError(t, err)
	assert.Equal(t, "empty.zip", p.Name)
	entries, err := archive.Unpack(p.Data)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPartitionValidatesBeforeParsing(t *testing.T) {
	garbage := Source{Name: "x.xlsx", Data: []byte("garbage")}

	_, err := PartitionByRowCount(garbage, 0, "part", DefaultOptions())
	var perr *InvalidParameterError
	require.ErrorAs(t, err, &perr)

	_, err = PartitionByRowCount(garbage, 2, " ", DefaultOptions())
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "name", perr.Name)

	_, err = PartitionByRowCount(garbage, 2, "part", DefaultOptions())
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestFilterByColumnExact(t *testing.T) {
	b, err := FilterByColumn(Source{Data: scoresWorkbook(t)}, FilterRequest{
		Column:     "Score",
		Mode:       FilterExact,
		Value:      models.Number(20),
		OutputName: "twenty",
	}, DefaultOptions())
	require.NoError(t, err)

	p, err := b.Package()
	require.NoError(t, err)
	assert.Equal(t, "twenty.xlsx", p.Name)
	assert.Equal(t, output.ContentType, p.ContentType)

	table, err := parser.LoadTable(p.Data, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Score"}, table.Columns)
	assert.Equal(t, []string{"B"}, columnStrings(table, "Name"))
}

func TestFilterByColumnTextValueMatchesNothingNumeric(t *testing.T) {
	value, err := ParseMatchValue("20", ValueText)
	require.NoError(t, err)

	b, err := FilterByColumn(Source{Data: scoresWorkbook(t)}, FilterRequest{
		Column: "Score", Mode: FilterExact, Value: value, OutputName: "out",
	}, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, b.Entries, 1)
	assert.Zero(t, loadEntry(t, b.Entries[0]).Len())
}

func TestFilterByColumnDistinct(t *testing.T) {
	data := workbook(t,
		[]interface{}{"Region ", "Amount"},
		[]interface{}{"East", 1},
		[]interface{}{nil, 2},
		[]interface{}{"West", 3},
		[]interface{}{"East", 4},
	)

	b, err := FilterByColumn(Source{Data: data}, FilterRequest{
		Column: "Region", Mode: ModeForValue(DistinctSentinel),
	}, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, b.Entries, 2)
	assert.Equal(t, "Region_East.xlsx", b.Entries[0].Name)
	assert.Equal(t, "Region_West.xlsx", b.Entries[1].Name)
	assert.Equal(t, []string{"1", "4"}, columnStrings(loadEntry(t, b.Entries[0]), "Amount"))

	p, err := b.Package()
	require.NoError(t, err)
	assert.Equal(t, "Region_extracted.zip", p.Name)
	assert.Equal(t, archive.ContentType, p.ContentType)
}

func TestFilterByColumnDistinctSingleGroupStillArchived(t *testing.T) {
	data := workbook(t, []interface{}{"K"}, []interface{}{"x"}, []interface{}{"x"})

	b, err := FilterByColumn(Source{Data: data}, FilterRequest{Column: "K", Mode: FilterDistinct}, DefaultOptions())
	require.NoError(t, err)
	p, err := b.Package()
	require.NoError(t, err)
	assert.Equal(t, archive.ContentType, p.ContentType)
}

func TestFilterByColumnDistinctNameCollision(t *testing.T) {
	data := workbook(t, []interface{}{"K"}, []interface{}{7}, []interface{}{"7"}, []interface{}{"a/b"})

	b, err := FilterByColumn(Source{Data: data}, FilterRequest{Column: "K", Mode: FilterDistinct}, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, b.Entries, 3)
	assert.Equal(t, "K_7.xlsx", b.Entries[0].Name)
	assert.Equal(t, "K_7_2.xlsx", b.Entries[1].Name)
	assert.Equal(t, "K_a_b.xlsx", b.Entries[2].Name)

	_, err = b.Package()
	assert.NoError(t, err)
}

func TestFilterByColumnBlank(t *testing.T) {
	data := workbook(t,
		[]interface{}{"Region", "Amount"},
		[]interface{}{"East", 1},
		[]interface{}{nil, 2},
	)

	b, err := FilterByColumn(Source{Data: data}, FilterRequest{
		Column: "Region", Mode: FilterBlank, OutputName: "blanks",
	}, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, b.Entries, 1)
	assert.Equal(t, "blanks.xlsx", b.Entries[0].Name)
	assert.Equal(t, []string{"2"}, columnStrings(loadEntry(t, b.Entries[0]), "Amount"))
}

func TestFilterByColumnErrors(t *testing.T) {
	src := Source{Name: "scores.xlsx", Data: scoresWorkbook(t)}

	_, err := FilterByColumn(src, FilterRequest{Column: "Missing", Mode: FilterExact, OutputName: "x"}, DefaultOptions())
	var cerr *ColumnNotFoundError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "Missing", cerr.Column)
	assert.Equal(t, "scores.xlsx", cerr.Source)

	var perr *InvalidParameterError
	_, err = FilterByColumn(src, FilterRequest{Column: "", Mode: FilterExact, OutputName: "x"}, DefaultOptions())
	assert.ErrorAs(t, err, &perr)
	_, err = FilterByColumn(src, FilterRequest{Column: "Score", Mode: "", OutputName: "x"}, DefaultOptions())
	assert.ErrorAs(t, err, &perr)
	_, err = FilterByColumn(src, FilterRequest{Column: "Score", Mode: FilterExact}, DefaultOptions())
	assert.ErrorAs(t, err, &perr)
}

func TestExtractColumn(t *testing.T) {
	a := workbook(t, []interface{}{" Email", "Name"}, []interface{}{nil, "A"}, []interface{}{"b@x.io", "B"})
	b := workbook(t, []interface{}{"Id", "Email "}, []interface{}{1, "c@x.io"})

	bundle, err := ExtractColumn([]Source{
		{Name: "first.xlsx", Data: a},
		{Name: "dir/Über second.xlsx", Data: b},
	}, "Email", "Contact", DefaultOptions())
	require.NoError(t, err)
	require.Len(t, bundle.Entries, 2)
	assert.Equal(t, "Contact-first.xlsx", bundle.Entries[0].Name)
	assert.Equal(t, "Contact-dir_Uber_second.xlsx", bundle.Entries[1].Name)

	first := loadEntry(t, bundle.Entries[0])
	assert.Equal(t, []string{"Contact"}, first.Columns)
	require.Equal(t, 2, first.Len())
	assert.True(t, first.Rows[0][0].IsBlank())
	assert.Equal(t, "b@x.io", first.Rows[1][0].String())

	p, err := bundle.Package()
	require.NoError(t, err)
	assert.Equal(t, "Email_extracted.zip", p.Name)
	entries, err := archive.Unpack(p.Data)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestExtractColumnSingleFileArchived(t *testing.T) {
	bundle, err := ExtractColumn([]Source{{Name: "one.xlsx", Data: scoresWorkbook(t)}}, "Score", "", DefaultOptions())
	require.NoError(t, err)
	require.Len(t, bundle.Entries, 1)
	assert.Equal(t, "Score-one.xlsx", bundle.Entries[0].Name)

	p, err := bundle.Package()
	require.NoError(t, err)
	assert.Equal(t, archive.ContentType, p.ContentType)
}

func TestExtractColumnMissingInOneFile(t *testing.T) {
	withEmail := workbook(t, []interface{}{"Email"}, []interface{}{"a@x.io"})
	without := workbook(t, []interface{}{"Name"}, []interface{}{"B"})

	bundle, err := ExtractColumn([]Source{
		{Name: "first.xlsx", Data: withEmail},
		{Name: "second.xlsx", Data: without},
	}, "Email", "", DefaultOptions())

	assert.Nil(t, bundle)
	var cerr *ColumnNotFoundError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "Email", cerr.Column)
	assert.Equal(t, "second.xlsx", cerr.Source)
	assert.Contains(t, err.Error(), "second.xlsx")
}

func TestExtractColumnDuplicateNames(t *testing.T) {
	data := scoresWorkbook(t)
	bundle, err := ExtractColumn([]Source{
		{Name: "same.xlsx", Data: data},
		{Name: "same.xlsx", Data: data},
		{Name: "", Data: data},
	}, "Name", "", DefaultOptions())
	require.NoError(t, err)
	require.Len(t, bundle.Entries, 3)
	assert.Equal(t, "Name-same.xlsx", bundle.Entries[0].Name)
	assert.Equal(t, "Name-same_2.xlsx", bundle.Entries[1].Name)
	assert.Equal(t, "Name-workbook3.xlsx", bundle.Entries[2].Name)
}

func TestExtractColumnInvalidParameters(t *testing.T) {
	var perr *InvalidParameterError
	_, err := ExtractColumn(nil, "Email", "", DefaultOptions())
	assert.ErrorAs(t, err, &perr)
	_, err = ExtractColumn([]Source{{Data: scoresWorkbook(t)}}, "", "", DefaultOptions())
	assert.ErrorAs(t, err, &perr)
}

func TestParseMatchValue(t *testing.T) {
	tests := []struct {
		input   string
		typ     ValueType
		want    models.Value
		wantErr bool
	}{
		{"20", "", models.Text("20"), false},
		{"20", ValueText, models.Text("20"), false},
		{"20", ValueNumber, models.Number(20), false},
		{" 2.5 ", ValueNumber, models.Number(2.5), false},
		{"abc", ValueNumber, models.Value{}, true},
		{"NaN", ValueNumber, models.Value{}, true},
		{"20", ValueAuto, models.Number(20), false},
		{"abc", ValueAuto, models.Text("abc"), false},
		{"20", ValueType("date"), models.Value{}, true},
	}

	for _, tt := range tests {
		got, err := ParseMatchValue(tt.input, tt.typ)
		if tt.wantErr {
			var perr *InvalidParameterError
			assert.ErrorAs(t, err, &perr, "ParseMatchValue(%q, %q)", tt.input, tt.typ)
			continue
		}
		require.NoError(t, err)
		assert.True(t, got.Equal(tt.want), "ParseMatchValue(%q, %q) = %v", tt.input, tt.typ, got)
	}
}

func TestModes(t *testing.T) {
	assert.Equal(t, FilterDistinct, ModeForValue("0"))
	assert.Equal(t, FilterExact, ModeForValue("East"))
	assert.Equal(t, FilterExact, ModeForValue(""))

	m, err := ParseFilterMode(" Blank ")
	require.NoError(t, err)
	assert.Equal(t, FilterBlank, m)
	_, err = ParseFilterMode("")
	assert.Error(t, err)
}

func TestNewFilterRequest(t *testing.T) {
	tests := []struct {
		name      string
		mode      string
		value     string
		valueType string
		wantMode  FilterMode
		wantValue models.Value
	}{
		{"sentinel infers distinct", "", "0", "", FilterDistinct, models.Value{}},
		{"value infers exact text", "", "East", "", FilterExact, models.Text("East")},
		{"explicit blank ignores value", "blank", "0", "", FilterBlank, models.Value{}},
		{"explicit exact with sentinel", "Exact", "0", "number", FilterExact, models.Number(0)},
		{"auto typing", "exact", "20", "AUTO", FilterExact, models.Number(20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := NewFilterRequest("Region", tt.mode, tt.value, tt.valueType, "out")
			require.NoError(t, err)
			assert.Equal(t, tt.wantMode, req.Mode)
			assert.True(t, tt.wantValue.Equal(req.Value), "value = %v (%s)", req.Value, req.Value.Kind())
			assert.Equal(t, "Region", req.Column)
			assert.Equal(t, "out", req.OutputName)
		})
	}

	_, err := NewFilterRequest("Region", "fuzzy", "x", "", "out")
	var perr *InvalidParameterError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "mode", perr.Name)

	_, err = NewFilterRequest("Region", "exact", "abc", "number", "out")
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "value", perr.Name)
}
