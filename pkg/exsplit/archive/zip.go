// Package archive bundles named payloads into a single zip container.
package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zip"
)

// ContentType is the MIME type of the produced archives.
const ContentType = "application/zip"

// ErrDuplicateEntry indicates two entries share a name.
var ErrDuplicateEntry = errors.New("duplicate archive entry")

// Entry is a named payload.
type Entry struct {
	Name string
	Data []byte
}

// Write writes entries to w as a zip archive, in order, deflate-compressed.
// Entry names must be unique and non-empty.
func Write(w io.Writer, entries []Entry) error {
	if err := checkNames(entries); err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	modified := time.Now()
	for _, e := range entries {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.Name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return fmt.Errorf("create %s: %w", e.Name, err)
		}
		if _, err := fw.Write(e.Data); err != nil {
			return fmt.Errorf("write %s: %w", e.Name, err)
		}
	}
	return zw.Close()
}

// Pack returns entries as zip archive bytes.
func Pack(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unpack reads every entry of a zip archive, in archive order.
func Unpack(data []byte) ([]Entry, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(zr.File))
	for _, zf := range zr.File {
		rc, err := zf.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", zf.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", zf.Name, err)
		}
		entries = append(entries, Entry{Name: zf.Name, Data: b})
	}
	return entries, nil
}

func checkNames(entries []Entry) error {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			return errors.New("archive entry without name")
		}
		if _, ok := seen[e.Name]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateEntry, e.Name)
		}
		seen[e.Name] = struct{}{}
	}
	return nil
}
