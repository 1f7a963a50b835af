package exsplit

import (
	"fmt"

	"github.com/ukaji3/exsplit-go/pkg/exsplit/archive"
	"github.com/ukaji3/exsplit-go/pkg/exsplit/output"
)

// OutputBundle is the ordered set of workbooks produced by one operation.
type OutputBundle struct {
	// Name is the suggested file name of the archive.
	Name string
	// Entries holds the produced workbooks in output order.
	Entries []archive.Entry
	// AlwaysArchive packages even a single entry as an archive.
	AlwaysArchive bool
}

// Payload is a bundle ready for delivery.
type Payload struct {
	Name        string
	ContentType string
	Data        []byte
}

// Package returns the bundle as one payload: a single entry is passed
// through unwrapped unless AlwaysArchive is set, anything else is zipped.
func (b *OutputBundle) Package() (*Payload, error) {
	if len(b.Entries) == 1 && !b.AlwaysArchive {
		e := b.Entries[0]
		return &Payload{Name: e.Name, ContentType: output.ContentType, Data: e.Data}, nil
	}

	data, err := archive.Pack(b.Entries)
	if err != nil {
		return nil, fmt.Errorf("package %s: %w", b.Name, err)
	}
	return &Payload{Name: b.Name, ContentType: archive.ContentType, Data: data}, nil
}

// add serializes each labeled table as <label>.xlsx.
func (b *OutputBundle) add(tables []Labeled) error {
	return b.write(tables, xlsxExt)
}

// addNamed serializes each labeled table under its label as given.
func (b *OutputBundle) addNamed(tables []Labeled) error {
	return b.write(tables, "")
}

// write appends one entry per table. Labels are made safe for use as file
// names and unique within the bundle.
func (b *OutputBundle) write(tables []Labeled, ext string) error {
	names := newNameSet()
	for _, e := range b.Entries {
		names.reserve(e.Name)
	}
	for _, l := range tables {
		data, err := output.ToXLSX(l.Table)
		if err != nil {
			return fmt.Errorf("write %s: %w", l.Label, err)
		}
		b.Entries = append(b.Entries, archive.Entry{
			Name: names.unique(safeLabel(l.Label) + ext),
			Data: data,
		})
	}
	return nil
}
