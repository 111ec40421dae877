// Package csvfile reads the bills table from a local CSV export.
package csvfile

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"policymap/internal/core"
	"policymap/internal/sources"
)

// DefaultPath is the file read when no path is configured.
const DefaultPath = "allBills.csv"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Reader loads bills from a CSV file on every call.
type Reader struct {
	path string
}

var _ sources.BillReader = (*Reader)(nil)

// New returns a Reader for path, or DefaultPath when path is empty.
func New(path string) *Reader {
	if path == "" {
		path = DefaultPath
	}
	return &Reader{path: path}
}

// ReadBills opens and decodes the file. A missing or malformed file is an error.
func (r *Reader) ReadBills(ctx context.Context) ([]core.Bill, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read bills file: %w", err)
	}
	bills, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.path, err)
	}
	return bills, nil
}

// Describe implements sources.Describer.
func (r *Reader) Describe() string {
	return "csv:" + r.path
}

// Decode parses CSV from rd. Quotes are handled leniently and rows may have a
// different number of fields than the header.
func Decode(rd io.Reader) ([]core.Bill, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return sources.DecodeRows(rows)
}

// Encode writes bills as CSV with the canonical header row.
func Encode(w io.Writer, bills []core.Bill) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sources.Headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, b := range bills {
		if err := cw.Write(sources.EncodeRow(b)); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
